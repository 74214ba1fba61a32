package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarflow/internal/speech"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the LLM request log and cached audio",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viperForCmd(cmd)

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Print("This deletes the LLM request log and all cached audio. Continue? [y/N] ")
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		st, err := openStore(v)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		if err := st.Reset(cmd.Context()); err != nil {
			return err
		}

		dir := v.GetString("speech-cache-dir")
		if dir == "" {
			if dir, err = speech.DefaultCacheDir(); err != nil {
				return err
			}
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove audio cache: %w", err)
		}

		fmt.Println("Reset complete.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
