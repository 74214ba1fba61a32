package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarflow/internal/api"
	"github.com/abhisek/grammarflow/internal/session"
	"github.com/abhisek/grammarflow/internal/speech"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve practice sessions over an HTTP JSON API",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.Duration("session-ttl", 30*time.Minute, "Evict API sessions idle for this long (0 = never)")
	f.Duration("shutdown-timeout", 10*time.Second, "Grace period for in-flight requests on shutdown")
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	if _, err := setupLogging(v, false); err != nil {
		return err
	}
	if err := initI18n(v); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(v)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	gen, source, err := buildGenerator(ctx, v, st.EventRepo())
	if err != nil {
		return fmt.Errorf("build exercise generator: %w", err)
	}

	// The server never plays audio locally; clients fetch WAV instead.
	scfg := speechConfig(v, os.Getenv)
	var svc *speech.Service
	synth, err := speech.NewSynthesizer(ctx, scfg)
	switch {
	case err != nil:
		slog.Warn("speech unavailable", "error", err)
	case synth != nil:
		svc = speech.NewService(synth, nil, scfg.Timeout)
	}

	ttl := v.GetDuration("session-ttl")
	registry := api.NewRegistry(func() *session.Controller {
		return session.New(sessionConfig(v, gen))
	}, ttl)
	go registry.RunJanitor(ctx, max(ttl/4, time.Minute))

	lang := v.GetString("lang")
	srv := &http.Server{
		Addr:              v.GetString("addr"),
		Handler:           api.New(registry, svc, lang).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"addr", srv.Addr,
			"source", source,
			"speech", scfg.Provider,
			"lang", lang,
			"session_ttl", ttl,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), v.GetDuration("shutdown-timeout"))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
