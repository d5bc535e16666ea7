// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for scholar-query.
package types

import "time"

// Engine identifies the search engine a compiled query targets.
type Engine string

const (
	EngineGoogle  Engine = "google"
	EngineScholar Engine = "scholar"
	EnginePubMed  Engine = "pubmed"
)

// QueryData holds the structured search criteria entered by the user.
// It is a pure value type: callers copy it freely and edits never share
// state. All optional fields are treated as absent when empty or
// whitespace-only.
type QueryData struct {
	// ExactPhrase is matched verbatim, wrapped in double quotes.
	ExactPhrase string `json:"exactPhrase,omitempty" yaml:"exact_phrase,omitempty"`

	// AnyWords is a comma-separated list combined with OR.
	AnyWords string `json:"anyWords,omitempty" yaml:"any_words,omitempty"`

	// ExcludeWords is a comma-separated list of terms to exclude.
	ExcludeWords string `json:"excludeWords,omitempty" yaml:"exclude_words,omitempty"`

	// InTitle restricts a phrase to document titles.
	InTitle string `json:"inTitle,omitempty" yaml:"in_title,omitempty"`

	// Site restricts results to a predefined site.
	Site string `json:"site,omitempty" yaml:"site,omitempty"`

	// CustomSite restricts results to a user-supplied site. When both
	// Site and CustomSite are set, CustomSite wins.
	CustomSite string `json:"customSite,omitempty" yaml:"custom_site,omitempty"`

	// Filetype restricts results to a file extension (e.g. "pdf").
	Filetype string `json:"filetype,omitempty" yaml:"filetype,omitempty"`

	// AfterYear and BeforeYear bound the publication date. Values are
	// emitted verbatim; the compiler does not validate them.
	AfterYear  string `json:"afterYear,omitempty" yaml:"after_year,omitempty"`
	BeforeYear string `json:"beforeYear,omitempty" yaml:"before_year,omitempty"`

	// Engine selects the target search engine: google, scholar, or pubmed.
	Engine Engine `json:"engine" yaml:"engine"`
}

// Search is a persisted history entry for one compiled query. Records are
// immutable once created; they are deleted, never updated.
type Search struct {
	// ID is assigned by the store.
	ID string `json:"id" yaml:"id"`

	// Query is the compiled operator-annotated query string.
	Query string `json:"query" yaml:"query"`

	// Engine is the engine the query was compiled for.
	Engine string `json:"engine" yaml:"engine"`

	// URL is the ready-to-open search URL.
	URL string `json:"url" yaml:"url"`

	// Explanation is the human-readable description of the query.
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`

	// QueryData is the full criteria snapshot, kept for re-edit.
	QueryData QueryData `json:"queryData" yaml:"query_data"`

	// DeviceID scopes the record to one installation. Empty on legacy
	// records written before device scoping existed.
	DeviceID string `json:"deviceId,omitempty" yaml:"device_id,omitempty"`

	// CreatedAt is assigned by the store at write time and is
	// monotonically non-decreasing per store instance.
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Favorite is a named, reusable criteria template.
type Favorite struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"queryName" yaml:"query_name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	QueryData   QueryData `json:"queryData" yaml:"query_data"`
	DeviceID    string    `json:"deviceId,omitempty" yaml:"device_id,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"created_at"`
}
