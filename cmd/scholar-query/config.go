// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-query/internal/device"
	"github.com/pdiddy/scholar-query/internal/store"
	"github.com/pdiddy/scholar-query/pkg/types"
)

const dbFile = "scholar-query.db"

// dataDir resolves the data directory: flag, then config file, then the
// default.
func dataDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		return dir
	}
	if dir := viper.GetString("store.data_dir"); dir != "" {
		return dir
	}
	return "data"
}

// openStore opens the database in the data directory and loads the
// installation identity that scopes all records.
func openStore(cmd *cobra.Command) (*store.Store, device.Identity, error) {
	dir := dataDir(cmd)

	owner, err := device.Load(dir)
	if err != nil {
		return nil, "", err
	}

	s, err := store.Open(filepath.Join(dir, dbFile))
	if err != nil {
		return nil, "", err
	}
	return s, owner, nil
}

// criteriaFlags registers the shared search-criteria flags.
func criteriaFlags(cmd *cobra.Command) {
	cmd.Flags().String("phrase", "", "exact phrase to match")
	cmd.Flags().String("any", "", "match any of these words (comma-separated)")
	cmd.Flags().String("exclude", "", "exclude these words (comma-separated)")
	cmd.Flags().String("intitle", "", "phrase that must appear in the title")
	cmd.Flags().String("site", "", "restrict to a predefined site (e.g. arxiv.org)")
	cmd.Flags().String("custom-site", "", "restrict to a custom site (overrides --site)")
	cmd.Flags().String("filetype", "", "restrict to a file type (e.g. pdf)")
	cmd.Flags().String("after", "", "published after this year")
	cmd.Flags().String("before", "", "published before this year")
	cmd.Flags().String("engine", "google", "search engine: google, scholar, or pubmed")
}

// criteriaFromFlags builds a QueryData record from the shared flags.
func criteriaFromFlags(cmd *cobra.Command) (types.QueryData, error) {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	engine := types.Engine(strings.TrimSpace(get("engine")))
	switch engine {
	case types.EngineGoogle, types.EngineScholar, types.EnginePubMed:
	default:
		return types.QueryData{}, fmt.Errorf("unknown engine %q (want google, scholar, or pubmed)", engine)
	}

	return types.QueryData{
		ExactPhrase:  get("phrase"),
		AnyWords:     get("any"),
		ExcludeWords: get("exclude"),
		InTitle:      get("intitle"),
		Site:         get("site"),
		CustomSite:   get("custom-site"),
		Filetype:     get("filetype"),
		AfterYear:    get("after"),
		BeforeYear:   get("before"),
		Engine:       engine,
	}, nil
}
