package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/stockroom-app/stockroom/internal/model"
	"github.com/stockroom-app/stockroom/internal/store"
)

// NotificationsHandler handles the per-user notification log.
type NotificationsHandler struct {
	DB *sql.DB
}

// List handles GET /api/notifications. Pass ?unread=1 for unread only.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	unreadOnly := r.URL.Query().Get("unread") == "1"
	notifications, err := store.ListNotifications(r.Context(), h.DB, claims.UserID, unreadOnly)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	jsonResponse(w, http.StatusOK, notifications)
}

// MarkRead handles POST /api/notifications/{id}/read.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := store.MarkNotificationRead(r.Context(), h.DB, id, claims.UserID); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "notification read"})
}

// MarkAllRead handles POST /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	count, err := store.MarkAllNotificationsRead(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]int64{"marked": count})
}
