// internal/httpserver/routes_sets.go
//
// Vocabulary routes:
//   - GET /sets       → all sets (id, name, phrase count)
//   - GET /sets/{id}  → one set with pinyin and translations
//   - GET /tts?text=  → redirect to the pronunciation audio for text

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vlinh/hanzimatch/apps/go-server/internal/phrases"
	"github.com/vlinh/hanzimatch/apps/go-server/internal/tts"
)

type setSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type setEntry struct {
	phrases.Phrase
	CodePoints []string `json:"codePoints"`
}

type setDetail struct {
	ID   int        `json:"id"`
	Name string     `json:"name"`
	List []setEntry `json:"list"`
}

func (s *Server) mountSets(r chi.Router) {
	r.Get("/sets", func(w http.ResponseWriter, r *http.Request) {
		out := []setSummary{}
		for _, set := range phrases.Sets() {
			out = append(out, setSummary{ID: set.ID, Name: set.Name, Count: len(set.List)})
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	r.Get("/sets/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			jsonError(w, http.StatusBadRequest, "bad_id")
			return
		}
		set, err := phrases.Get(id)
		if err != nil {
			jsonError(w, http.StatusNotFound, "set_not_found")
			return
		}
		out := setDetail{ID: set.ID, Name: set.Name, List: make([]setEntry, 0, len(set.List))}
		for _, p := range set.List {
			e := setEntry{Phrase: p}
			for _, ch := range phrases.Graphemes(phrases.Normalize(p.Phrase)) {
				e.CodePoints = append(e.CodePoints, phrases.CodePoint(ch))
			}
			out.List = append(out.List, e)
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	r.Get("/tts", func(w http.ResponseWriter, r *http.Request) {
		text := phrases.Normalize(r.URL.Query().Get("text"))
		if text == "" {
			jsonError(w, http.StatusBadRequest, "missing_text")
			return
		}
		http.Redirect(w, r, tts.URL(tts.BaseURL(), text), http.StatusFound)
	})
}
