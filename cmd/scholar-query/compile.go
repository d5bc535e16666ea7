// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-query/internal/query"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile criteria into a query string without saving it",
	Long: `Compile translates structured criteria into the search-operator query
string, its human-readable explanation, and the engine URL. Nothing is
persisted; use search to record the result in the history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := criteriaFromFlags(cmd)
		if err != nil {
			return err
		}

		compiled := query.Build(q)
		explanation := query.Explain(q)
		searchURL := query.SearchURL(q)

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{
				"query":       compiled,
				"explanation": explanation,
				"url":         searchURL,
			})
		}

		fmt.Printf("Query:       %s\n", compiled)
		fmt.Printf("Explanation: %s\n", explanation)
		if searchURL != "" {
			fmt.Printf("URL:         %s\n", searchURL)
		}
		return nil
	},
}

func init() {
	criteriaFlags(compileCmd)
	compileCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(compileCmd)
}
