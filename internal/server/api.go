package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/TobiSchelling/newsstand/internal/catalog"
	"github.com/TobiSchelling/newsstand/internal/present"
)

type apiPost struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Categories  []string  `json:"categories"`
	PublishedAt time.Time `json:"publishedAt"`
	Image       string    `json:"image"`
	URL         string    `json:"url"`
	Views       int       `json:"views"`
	New         bool      `json:"new"`
}

type apiFrontPage struct {
	Category   string    `json:"category"`
	Search     string    `json:"search"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	Total      int       `json:"total"`
	Featured   *apiPost  `json:"featured"`
	Grid       []apiPost `json:"grid"`
	Secondary  []apiPost `json:"secondary"`
	MostRead   []apiPost `json:"mostRead"`
}

func (s *Server) handleAPIPosts(w http.ResponseWriter, r *http.Request) {
	fp := s.p.Front(stateFromQuery(r.URL.Query()))
	if fp.Err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": msgDataUnavailable})
		return
	}

	conv := func(posts []catalog.Post) []apiPost {
		out := make([]apiPost, 0, len(posts))
		for _, p := range posts {
			out = append(out, s.apiPost(p, fp.Views[p.ID]))
		}
		return out
	}

	resp := apiFrontPage{
		Category:   fp.State.Category,
		Search:     fp.State.Search,
		Page:       fp.State.Page,
		TotalPages: fp.TotalPages,
		Total:      fp.Total,
		Grid:       conv(fp.Layout.Grid),
		Secondary:  conv(fp.Layout.Secondary),
		MostRead:   conv(fp.MostRead),
	}
	if f := fp.Layout.Featured; f != nil {
		p := s.apiPost(*f, fp.Views[f.ID])
		resp.Featured = &p
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) apiPost(p catalog.Post, views int) apiPost {
	return apiPost{
		ID:          p.ID,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Categories:  p.Categories,
		PublishedAt: p.PublishedAt,
		Image:       s.imageURL(p.ImageRef),
		URL:         postURL(p.ID),
		Views:       views,
		New:         present.IsNew(p.PublishedAt, s.now()),
	}
}

func (s *Server) handleAPISuggest(w http.ResponseWriter, r *http.Request) {
	suggestions := s.p.Suggest(r.URL.Query().Get("q"), suggestLimit)
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
