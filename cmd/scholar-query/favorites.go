// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-query/internal/export"
	"github.com/pdiddy/scholar-query/internal/query"
	"github.com/pdiddy/scholar-query/pkg/types"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage named favorite queries",
	Long: `Favorites are named, reusable criteria templates. A favorite stores the
full criteria snapshot; re-running it compiles a fresh query. Favorites are
never edited in place: delete and re-add to change one.`,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save the given criteria as a named favorite",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := criteriaFromFlags(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")

		s, owner, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.CreateFavorite(cmd.Context(), owner, name, description, q)
		if err != nil {
			return err
		}
		fmt.Printf("Saved favorite %q (%s)\n", rec.Name, rec.ID)
		return nil
	},
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List this installation's favorites, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, owner, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		favorites, err := s.Favorites(cmd.Context(), owner)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(favorites)
		}

		printFavoriteTable(os.Stdout, favorites)
		return nil
	},
}

var favoritesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one favorite by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, owner, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.DeleteFavorite(cmd.Context(), owner, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var favoritesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export favorites as JSON, CSV, or YAML",
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

		favorites, err := s.Favorites(cmd.Context(), owner)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		w, closeFn, err := exportWriter(out, "favorites", format)
		if err != nil {
			return err
		}
		defer closeFn()

		return export.Favorites(w, format, favorites)
	},
}

func printFavoriteTable(w io.Writer, favorites []types.Favorite) {
	if len(favorites) == 0 {
		fmt.Fprintln(w, "No favorites saved.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-40s  %s\n", "ID", "Name", "Query", "Engine")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, f := range favorites {
		compiled := query.Build(f.QueryData)
		if len(compiled) > 40 {
			compiled = compiled[:37] + "..."
		}
		name := f.Name
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-40s  %s\n",
			f.ID, name, compiled, f.QueryData.Engine)
	}
	fmt.Fprintf(w, "\n%d favorites\n", len(favorites))
}

func init() {
	criteriaFlags(favoritesAddCmd)
	favoritesAddCmd.Flags().String("name", "", "favorite name (required)")
	favoritesAddCmd.Flags().String("description", "", "optional description")
	favoritesListCmd.Flags().Bool("json", false, "output as JSON")
	favoritesExportCmd.Flags().String("format", "json", "export format: json, csv, or yaml")
	favoritesExportCmd.Flags().String("out", "", `output file ("-" for stdout, default: dated filename)`)

	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesDeleteCmd)
	favoritesCmd.AddCommand(favoritesExportCmd)
	rootCmd.AddCommand(favoritesCmd)
}
