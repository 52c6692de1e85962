package web

import (
	"log/slog"
	"net/http"

	"github.com/stockroom-app/stockroom/internal/model"
	"github.com/stockroom-app/stockroom/internal/store"
)

// Dashboard handles GET /. Admins get the overview with pending requests,
// everyone else their own request history.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	if claims.Role == model.RoleAdmin {
		items, err := store.CountItems(r.Context(), s.DB)
		if err != nil {
			slog.Error("failed to count items", "error", err)
		}
		users, err := store.CountUsers(r.Context(), s.DB)
		if err != nil {
			slog.Error("failed to count users", "error", err)
		}
		total, pending, err := store.CountRequests(r.Context(), s.DB)
		if err != nil {
			slog.Error("failed to count requests", "error", err)
		}
		pendingList, err := store.ListRequests(r.Context(), s.DB, 0, model.StatusPending)
		if err != nil {
			slog.Error("failed to list pending requests", "error", err)
		}

		s.Templates.Render(w, "dashboard_admin.html", &struct {
			PageData
			ItemCount       int
			UserCount       int
			TotalRequests   int
			PendingRequests int
			Pending         []model.Request
		}{
			PageData:        s.pageData(r, "Dashboard"),
			ItemCount:       items,
			UserCount:       users,
			TotalRequests:   total,
			PendingRequests: pending,
			Pending:         pendingList,
		})
		return
	}

	requests, err := store.ListRequests(r.Context(), s.DB, claims.UserID, "")
	if err != nil {
		slog.Error("failed to list requests", "error", err)
	}

	s.Templates.Render(w, "dashboard_user.html", &struct {
		PageData
		Requests []model.Request
	}{
		PageData: s.pageData(r, "Dashboard"),
		Requests: requests,
	})
}
