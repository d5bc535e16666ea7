// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-query/internal/export"
	"github.com/pdiddy/scholar-query/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, delete, clear, and export the search history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List this installation's search history, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, owner, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		searches, err := s.Searches(cmd.Context(), owner)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(searches)
		}

		printSearchTable(os.Stdout, searches)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one history entry by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, owner, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.DeleteSearch(cmd.Context(), owner, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete this installation's entire search history",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, owner, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.ClearSearches(cmd.Context(), owner); err != nil {
			return err
		}
		fmt.Println("Search history cleared.")
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the search history as JSON, CSV, or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatStr, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(formatStr)
		if err != nil {
			return err
		}

		s, owner, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		searches, err := s.Searches(cmd.Context(), owner)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		w, closeFn, err := exportWriter(out, "searches", format)
		if err != nil {
			return err
		}
		defer closeFn()

		return export.Searches(w, format, searches)
	},
}

// exportWriter resolves the export destination: "-" writes to stdout,
// "" picks a dated filename, anything else is used as given.
func exportWriter(out, kind string, format export.Format) (io.Writer, func(), error) {
	if out == "-" {
		return os.Stdout, func() {}, nil
	}
	if out == "" {
		out = export.Filename(kind, format, time.Now())
	}
	f, err := os.Create(out)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", out, err)
	}
	fmt.Fprintln(os.Stderr, "Writing", out)
	return f, func() { f.Close() }, nil
}

func printSearchTable(w io.Writer, searches []types.Search) {
	if len(searches) == 0 {
		fmt.Fprintln(w, "No searches recorded.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-10s  %-50s  %s\n", "ID", "Date", "Query", "Engine")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, s := range searches {
		q := s.Query
		if len(q) > 50 {
			q = q[:47] + "..."
		}
		fmt.Fprintf(w, "%-36s  %-10s  %-50s  %s\n",
			s.ID, s.CreatedAt.Format("2006-01-02"), q, s.Engine)
	}
	fmt.Fprintf(w, "\n%d searches\n", len(searches))
}

func init() {
	historyListCmd.Flags().Bool("json", false, "output as JSON")
	historyExportCmd.Flags().String("format", "json", "export format: json, csv, or yaml")
	historyExportCmd.Flags().String("out", "", `output file ("-" for stdout, default: dated filename)`)

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
