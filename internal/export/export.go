// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders Search and Favorite lists as JSON, CSV, or
// YAML for the history and favorites export commands.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-query/pkg/types"
)

// Format selects an export rendering.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

const dateFmt = "2006-01-02"

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json, csv, or yaml)", s)
	}
}

// Searches writes the history list to w in the given format.
func Searches(w io.Writer, format Format, searches []types.Search) error {
	switch format {
	case FormatCSV:
		return searchesCSV(w, searches)
	case FormatYAML:
		return asYAML(w, searches)
	default:
		return asJSON(w, searches)
	}
}

// Favorites writes the favorites list to w in the given format.
func Favorites(w io.Writer, format Format, favorites []types.Favorite) error {
	switch format {
	case FormatCSV:
		return favoritesCSV(w, favorites)
	case FormatYAML:
		return asYAML(w, favorites)
	default:
		return asJSON(w, favorites)
	}
}

func asJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func asYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// searchesCSV writes one row per history entry. encoding/csv quotes
// fields containing the delimiter and doubles embedded quotes.
func searchesCSV(w io.Writer, searches []types.Search) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Query", "Explanation", "Engine", "URL"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, s := range searches {
		row := []string{
			s.CreatedAt.Format(dateFmt),
			s.Query,
			s.Explanation,
			s.Engine,
			s.URL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func favoritesCSV(w io.Writer, favorites []types.Favorite) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Name", "Description", "Engine"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, f := range favorites {
		row := []string{
			f.CreatedAt.Format(dateFmt),
			f.Name,
			f.Description,
			string(f.QueryData.Engine),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename suggests an export filename in the original application's
// pattern, e.g. "academic-searches-2026-08-28.json".
func Filename(kind string, format Format, now time.Time) string {
	return fmt.Sprintf("academic-%s-%s.%s", kind, now.Format(dateFmt), format)
}
