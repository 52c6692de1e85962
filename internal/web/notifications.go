package web

import (
	"log/slog"
	"net/http"

	"github.com/stockroom-app/stockroom/internal/model"
	"github.com/stockroom-app/stockroom/internal/store"
)

// NotificationsPage handles GET /notifications. Viewing the page marks
// everything as read, matching the badge in the header.
func (s *Server) NotificationsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	notifications, err := store.ListNotifications(r.Context(), s.DB, claims.UserID, false)
	if err != nil {
		slog.Error("failed to list notifications", "error", err)
	}

	if _, err := store.MarkAllNotificationsRead(r.Context(), s.DB, claims.UserID); err != nil {
		slog.Error("failed to mark notifications read", "user", claims.UserID, "error", err)
	}

	data := &struct {
		PageData
		Notifications []model.Notification
	}{
		PageData:      s.pageData(r, "Notifications"),
		Notifications: notifications,
	}
	data.Unread = 0
	s.Templates.Render(w, "notifications.html", data)
}
