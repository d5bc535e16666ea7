// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query compiles structured search criteria into an
// operator-annotated query string, a human-readable explanation, and an
// engine-specific search URL. All functions are pure: no I/O, no state,
// no locale-dependent formatting beyond fixed literal text.
package query

import (
	"net/url"
	"strings"

	"github.com/pdiddy/scholar-query/pkg/types"
)

// Placeholder is returned by Explain when no criteria are set. It is the
// only way Explain signals empty input; it never returns "".
const Placeholder = "Choose search criteria to build a query."

// explanationSep joins explanation fragments.
const explanationSep = " • "

// engineBases maps each engine to its search endpoint. The compiled query
// is substituted as the single query-string parameter.
var engineBases = map[types.Engine]string{
	types.EngineGoogle:  "https://www.google.com/search?q=",
	types.EngineScholar: "https://scholar.google.com/scholar?q=",
	types.EnginePubMed:  "https://pubmed.ncbi.nlm.nih.gov/?term=",
}

// siteNames maps predefined site restrictions to display names for
// explanations. Unknown sites fall back to the raw value.
var siteNames = map[string]string{
	"scholar.google.com":      "Google Scholar",
	"pubmed.ncbi.nlm.nih.gov": "PubMed",
	"sciencedirect.com":       "ScienceDirect",
	"jstor.org":               "JSTOR",
	"arxiv.org":               "arXiv",
	"researchgate.net":        "ResearchGate",
}

// filetypeNames maps filetype codes to display names for explanations.
// Unknown codes fall back to the upper-cased raw value.
var filetypeNames = map[string]string{
	"pdf":  "PDF files",
	"doc":  "Word documents",
	"docx": "Word documents (modern)",
	"ppt":  "PowerPoint presentations",
	"pptx": "PowerPoint presentations (modern)",
	"xls":  "Excel spreadsheets",
	"xlsx": "Excel spreadsheets (modern)",
}

// Build compiles criteria into a search-operator string. Clauses are
// emitted in a fixed order regardless of edit order: exact phrase,
// any-of-words, excluded words, intitle, site, filetype, after, before.
// Fields that are empty after trimming emit nothing. Values are not
// validated; a non-numeric year is emitted verbatim. The result is ""
// when no clause fires.
func Build(q types.QueryData) string {
	var clauses []string

	if v := strings.TrimSpace(q.ExactPhrase); v != "" {
		clauses = append(clauses, `"`+v+`"`)
	}

	if words := splitTerms(q.AnyWords); len(words) > 0 {
		clauses = append(clauses, "("+strings.Join(words, " OR ")+")")
	}

	for _, word := range splitTerms(q.ExcludeWords) {
		clauses = append(clauses, "-"+word)
	}

	if v := strings.TrimSpace(q.InTitle); v != "" {
		clauses = append(clauses, `intitle:"`+v+`"`)
	}

	if site := siteValue(q); site != "" {
		clauses = append(clauses, "site:"+site)
	}

	if v := strings.TrimSpace(q.Filetype); v != "" {
		clauses = append(clauses, "filetype:"+v)
	}

	if v := strings.TrimSpace(q.AfterYear); v != "" {
		clauses = append(clauses, "after:"+v)
	}

	if v := strings.TrimSpace(q.BeforeYear); v != "" {
		clauses = append(clauses, "before:"+v)
	}

	return strings.Join(clauses, " ")
}

// Explain renders criteria as a human-readable description, one fragment
// per firing clause, joined with " • ". When no clause fires it returns
// Placeholder.
func Explain(q types.QueryData) string {
	var parts []string

	if v := strings.TrimSpace(q.ExactPhrase); v != "" {
		parts = append(parts, `Search for the exact phrase: "`+v+`"`)
	}

	if words := splitTerms(q.AnyWords); len(words) > 0 {
		parts = append(parts, "Search for any of these words: "+strings.Join(words, ", "))
	}

	if words := splitTerms(q.ExcludeWords); len(words) > 0 {
		parts = append(parts, "Exclude the words: "+strings.Join(words, ", "))
	}

	if v := strings.TrimSpace(q.InTitle); v != "" {
		parts = append(parts, `Search titles only for: "`+v+`"`)
	}

	if site := siteValue(q); site != "" {
		name := site
		if display, ok := siteNames[site]; ok {
			name = display
		}
		parts = append(parts, "Search within site: "+name)
	}

	if v := strings.TrimSpace(q.Filetype); v != "" {
		name, ok := filetypeNames[v]
		if !ok {
			name = strings.ToUpper(v)
		}
		parts = append(parts, "File type: "+name)
	}

	if v := strings.TrimSpace(q.AfterYear); v != "" {
		parts = append(parts, "Published after: "+v)
	}

	if v := strings.TrimSpace(q.BeforeYear); v != "" {
		parts = append(parts, "Published before: "+v)
	}

	if len(parts) == 0 {
		return Placeholder
	}
	return strings.Join(parts, explanationSep)
}

// SearchURL compiles the query and substitutes it, percent-encoded, into
// the selected engine's base URL. An empty compiled query returns "" --
// a URL is never built from nothing. An unrecognized engine falls back
// to the google template.
func SearchURL(q types.QueryData) string {
	compiled := Build(q)
	if compiled == "" {
		return ""
	}

	base, ok := engineBases[q.Engine]
	if !ok {
		base = engineBases[types.EngineGoogle]
	}
	return base + url.QueryEscape(compiled)
}

// siteValue resolves the effective site restriction. A custom site wins
// over the predefined one when both are set.
func siteValue(q types.QueryData) string {
	if v := strings.TrimSpace(q.CustomSite); v != "" {
		return v
	}
	return strings.TrimSpace(q.Site)
}

// splitTerms splits a comma-separated field into trimmed tokens. Empty
// tokens (from trailing or doubled commas) are dropped so a stray comma
// never produces an empty OR branch or a bare "-" segment.
func splitTerms(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var terms []string
	for _, tok := range strings.Split(s, ",") {
		if t := strings.TrimSpace(tok); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
