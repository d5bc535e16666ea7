// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-query/internal/query"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Compile criteria and record the search in the history",
	Long: `Search compiles the criteria like compile does, then appends the result
to this installation's search history and prints the ready-to-open URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := criteriaFromFlags(cmd)
		if err != nil {
			return err
		}

		compiled := query.Build(q)
		if compiled == "" {
			return fmt.Errorf("no search criteria set: %s", query.Placeholder)
		}

		s, owner, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.CreateSearch(cmd.Context(), owner, q,
			compiled, query.Explain(q), query.SearchURL(q))
		if err != nil {
			return fmt.Errorf("saving search: %w", err)
		}

		fmt.Printf("Saved search %s\n", rec.ID)
		fmt.Printf("Query: %s\n", rec.Query)
		fmt.Printf("URL:   %s\n", rec.URL)
		return nil
	},
}

func init() {
	criteriaFlags(searchCmd)

	rootCmd.AddCommand(searchCmd)
}
