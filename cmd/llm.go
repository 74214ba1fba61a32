package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarflow/internal/llm"
	"github.com/abhisek/grammarflow/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		since, _ := cmd.Flags().GetDuration("since")
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(viperForCmd(cmd))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit, Purpose: purpose}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if asJSON {
			return writeEventsJSON(os.Stdout, events)
		}
		if len(events) == 0 {
			fmt.Println("No LLM requests recorded.")
			return nil
		}
		printEventTable(os.Stdout, events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and response of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(viperForCmd(cmd))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printEvent(os.Stdout, e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(viperForCmd(cmd))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		printPurposeUsage(os.Stdout, byPurpose)
		if len(byModel) > 0 {
			fmt.Println()
			printModelCost(os.Stdout, byModel)
		}
		return nil
	},
}

func init() {
	f := llmListCmd.Flags()
	f.IntP("limit", "n", 20, "Number of requests to show")
	f.StringP("purpose", "p", "", "Only show one purpose (e.g. exercise-batch)")
	f.Duration("since", 0, "Only show requests newer than this (e.g. 24h)")
	f.Bool("json", false, "Print requests as JSON lines, bodies included")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}

func rule(n int) string { return strings.Repeat("─", n) }

func printEventTable(w io.Writer, events []store.LLMEvent) {
	fmt.Fprintf(w, "%-5s  %-19s  %-16s  %-28s  %6s  %6s  %7s  %s\n",
		"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
	fmt.Fprintln(w, rule(102))
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-16s  %-28s  %6d  %6d  %7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format(time.DateTime),
			truncate(e.Purpose, 16),
			truncate(e.Model, 28),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
}

func writeEventsJSON(w io.Writer, events []store.LLMEvent) error {
	enc := json.NewEncoder(w)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

func printEvent(w io.Writer, e *store.LLMEvent) {
	fmt.Fprintf(w, "ID:        %d\n", e.ID)
	fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format(time.DateTime))
	fmt.Fprintf(w, "Provider:  %s\n", e.Provider)
	fmt.Fprintf(w, "Model:     %s\n", e.Model)
	fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
	fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
	fmt.Fprintf(w, "Success:   %v\n", e.Success)
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
	}

	section := func(name, body string) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, rule(60))
		fmt.Fprintln(w, name)
		fmt.Fprintln(w, rule(60))
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintln(w, body)
	}
	section("REQUEST", e.RequestBody)
	section("RESPONSE", e.ResponseBody)
}

func printPurposeUsage(w io.Writer, usage []store.LLMUsage) {
	fmt.Fprintln(w, "Usage by Purpose")
	fmt.Fprintln(w, rule(72))
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	fmt.Fprintln(w, rule(72))

	var calls, in, out int
	for _, u := range usage {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			truncate(u.Purpose, 16), u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	fmt.Fprintln(w, rule(72))
	fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)
}

func printModelCost(w io.Writer, usage []store.LLMUsage) {
	fmt.Fprintln(w, "Estimated Cost (USD)")
	fmt.Fprintln(w, rule(72))
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, rule(72))

	var total float64
	var unknown []string
	for _, u := range usage {
		cost := "?"
		if price := llm.LookupCost(u.Model); price != nil {
			c := price.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unknown = append(unknown, u.Model)
		}
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
	}

	fmt.Fprintln(w, rule(72))
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
