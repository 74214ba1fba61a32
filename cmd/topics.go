package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarflow/internal/grammar"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List grammar topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		topics := grammar.AllTopics()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(topics)
		}

		fmt.Printf("%-22s  %-28s  %s\n", "ID", "Name", "Description")
		fmt.Println(strings.Repeat("─", 90))
		for _, t := range topics {
			fmt.Printf("%-22s  %-28s  %s\n", t.ID, t.Icon+" "+t.Name, t.Description)
		}

		fmt.Println()
		labels := make([]string, 0, 3)
		for _, d := range grammar.AllDifficulties() {
			labels = append(labels, d.Label())
		}
		fmt.Println("Difficulties:", strings.Join(labels, ", "))
		return nil
	},
}

func init() {
	topicsCmd.Flags().Bool("json", false, "Print the catalog as JSON")
}
