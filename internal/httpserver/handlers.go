// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/scholar-query/internal/logger"
	"github.com/pdiddy/scholar-query/internal/query"
	"github.com/pdiddy/scholar-query/internal/store"
	"github.com/pdiddy/scholar-query/pkg/types"
)

// compileResponse is the body returned by POST /api/compile.
type compileResponse struct {
	Query       string `json:"query"`
	Explanation string `json:"explanation"`
	URL         string `json:"url"`
}

// favoriteRequest is the body accepted by POST /api/favorites.
type favoriteRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	QueryData   types.QueryData `json:"queryData"`
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCompile compiles criteria without persisting anything.
func handleCompile(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q types.QueryData
		if !decodeBody(w, r, &q) {
			return
		}
		writeJSON(w, http.StatusOK, compileResponse{
			Query:       query.Build(q),
			Explanation: query.Explain(q),
			URL:         query.SearchURL(q),
		})
	}
}

func handleListSearches(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		searches, err := d.Store.Searches(r.Context(), d.Owner)
		if err != nil {
			serverError(w, d, "listing searches", err)
			return
		}
		if searches == nil {
			searches = []types.Search{}
		}
		writeJSON(w, http.StatusOK, searches)
	}
}

// handleCreateSearch compiles the posted criteria and appends the result
// to the history.
func handleCreateSearch(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q types.QueryData
		if !decodeBody(w, r, &q) {
			return
		}

		compiled := query.Build(q)
		if compiled == "" {
			clientError(w, "no search criteria set")
			return
		}

		rec, err := d.Store.CreateSearch(r.Context(), d.Owner, q,
			compiled, query.Explain(q), query.SearchURL(q))
		if err != nil {
			serverError(w, d, "saving search", err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	}
}

func handleDeleteSearch(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.DeleteSearch(r.Context(), d.Owner, id); err != nil {
			serverError(w, d, "deleting search", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleClearSearches(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.ClearSearches(r.Context(), d.Owner); err != nil {
			serverError(w, d, "clearing searches", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleWatchSearches streams history snapshots as server-sent events:
// one complete replacement list per change, newest first.
func handleWatchSearches(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		ch, cancel, err := d.Store.SubscribeSearches(r.Context(), d.Owner)
		if err != nil {
			serverError(w, d, "subscribing", err)
			return
		}
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)

		for snapshot := range ch {
			data, err := json.Marshal(snapshot)
			if err != nil {
				d.Logger.Error("encoding snapshot", logger.Error(err))
				return
			}
			if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func handleListFavorites(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		favorites, err := d.Store.Favorites(r.Context(), d.Owner)
		if err != nil {
			serverError(w, d, "listing favorites", err)
			return
		}
		if favorites == nil {
			favorites = []types.Favorite{}
		}
		writeJSON(w, http.StatusOK, favorites)
	}
}

func handleCreateFavorite(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req favoriteRequest
		if !decodeBody(w, r, &req) {
			return
		}

		rec, err := d.Store.CreateFavorite(r.Context(), d.Owner,
			req.Name, req.Description, req.QueryData)
		if err != nil {
			if errors.Is(err, store.ErrNameRequired) {
				clientError(w, err.Error())
				return
			}
			serverError(w, d, "saving favorite", err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	}
}

func handleDeleteFavorite(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.DeleteFavorite(r.Context(), d.Owner, id); err != nil {
			serverError(w, d, "deleting favorite", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		clientError(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func clientError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func serverError(w http.ResponseWriter, d Deps, op string, err error) {
	d.Logger.Error(op, logger.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": op + " failed"})
}
