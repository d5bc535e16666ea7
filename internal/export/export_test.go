// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-query/pkg/types"
)

func sampleSearches() []types.Search {
	return []types.Search{
		{
			ID:          "id-1",
			Query:       `"machine learning" filetype:pdf`,
			Explanation: `Search for the exact phrase: "machine learning" • File type: PDF files`,
			Engine:      "scholar",
			URL:         "https://scholar.google.com/scholar?q=x",
			CreatedAt:   time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"json", "csv", "yaml"} {
		f, err := ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, Format(valid), f)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestSearchesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Searches(&buf, FormatJSON, sampleSearches()))

	var decoded []types.Search
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, `"machine learning" filetype:pdf`, decoded[0].Query)
}

func TestSearchesCSVQuoting(t *testing.T) {
	searches := sampleSearches()
	searches[0].Explanation = `contains "quotes", and, commas`

	var buf bytes.Buffer
	require.NoError(t, Searches(&buf, FormatCSV, searches))

	// Embedded quotes are doubled and the field is quoted.
	assert.Contains(t, buf.String(), `"contains ""quotes"", and, commas"`)

	// The output parses back to the same values.
	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Date", "Query", "Explanation", "Engine", "URL"}, rows[0])
	assert.Equal(t, "2026-08-28", rows[1][0])
	assert.Equal(t, `contains "quotes", and, commas`, rows[1][2])
}

func TestSearchesYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Searches(&buf, FormatYAML, sampleSearches()))
	assert.Contains(t, buf.String(), "query:")
	assert.Contains(t, buf.String(), "machine learning")
}

func TestFavoritesCSV(t *testing.T) {
	favorites := []types.Favorite{
		{
			ID:          "fav-1",
			Name:        "ML, weekly",
			Description: "reading list",
			QueryData:   types.QueryData{ExactPhrase: "x", Engine: types.EnginePubMed},
			CreatedAt:   time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Favorites(&buf, FormatCSV, favorites))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ML, weekly", rows[1][1])
	assert.Equal(t, "pubmed", rows[1][3])
}

func TestEmptyLists(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Searches(&buf, FormatCSV, nil))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "academic-searches-2026-08-28.csv", Filename("searches", FormatCSV, now))
	assert.Equal(t, "academic-favorites-2026-08-28.json", Filename("favorites", FormatJSON, now))
}
