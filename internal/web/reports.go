package web

import (
	"log/slog"
	"net/http"

	"github.com/stockroom-app/stockroom/internal/model"
	"github.com/stockroom-app/stockroom/internal/store"
)

// ReportsPage handles GET /reports: inventory search with optional name and
// creation-date filters.
func (s *Server) ReportsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if claims.Role != model.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	q := r.URL.Query()
	search, start, end := q.Get("search"), q.Get("start"), q.Get("end")

	items, err := store.SearchItems(r.Context(), s.DB, search, start, end)
	if err != nil {
		slog.Error("failed to search items", "error", err)
	}

	s.Templates.Render(w, "reports.html", &struct {
		PageData
		Search string
		Start  string
		End    string
		Items  []model.Item
	}{
		PageData: s.pageData(r, "Reports"),
		Search:   search,
		Start:    start,
		End:      end,
		Items:    items,
	})
}
