package web

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/stockroom-app/stockroom/internal/model"
	"github.com/stockroom-app/stockroom/internal/report"
	"github.com/stockroom-app/stockroom/internal/store"
)

// RequestsPage handles GET /requests. Admins see everything, other users
// only their own.
func (s *Server) RequestsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	requesterID := claims.UserID
	if claims.Role == model.RoleAdmin {
		requesterID = 0
	}

	requests, err := store.ListRequests(r.Context(), s.DB, requesterID, r.URL.Query().Get("status"))
	if err != nil {
		slog.Error("failed to list requests", "error", err)
	}

	s.Templates.Render(w, "requests.html", &struct {
		PageData
		Requests []model.Request
	}{
		PageData: s.pageData(r, "Requests"),
		Requests: requests,
	})
}

// RequestNewPage handles GET /requests/new?item={id}.
func (s *Server) RequestNewPage(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.URL.Query().Get("item"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/items", http.StatusSeeOther)
		return
	}

	item, err := store.GetItem(r.Context(), s.DB, itemID)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if item == nil || item.DeletedAt != nil {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}

	s.Templates.Render(w, "request_new.html", &struct {
		PageData
		Item *model.Item
	}{
		PageData: s.pageData(r, "New request"),
		Item:     item,
	})
}

// RequestSubmit handles POST /requests.
func (s *Server) RequestSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	itemID, err := strconv.ParseInt(r.FormValue("item_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid item", http.StatusBadRequest)
		return
	}
	quantity, _ := strconv.Atoi(r.FormValue("quantity"))

	if _, err := store.SubmitRequest(r.Context(), s.DB, claims.UserID, itemID, quantity); err != nil {
		slog.Error("failed to submit request", "user", claims.Username, "item", itemID, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("request submitted", "user", claims.Username, "item", itemID, "quantity", quantity)
	http.Redirect(w, r, "/requests", http.StatusSeeOther)
}

// RequestApproveSubmit handles POST /requests/{id}/approve.
func (s *Server) RequestApproveSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if claims.Role != model.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if _, err := store.ApproveRequest(r.Context(), s.DB, id, claims.UserID); err != nil {
		slog.Error("failed to approve request", "request", id, "error", err)
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	slog.Info("request approved", "request", id, "by", claims.Username)
	http.Redirect(w, r, "/requests", http.StatusSeeOther)
}

// RequestRejectSubmit handles POST /requests/{id}/reject.
func (s *Server) RequestRejectSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if claims.Role != model.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if _, err := store.RejectRequest(r.Context(), s.DB, id, claims.UserID); err != nil {
		slog.Error("failed to reject request", "request", id, "error", err)
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	slog.Info("request rejected", "request", id, "by", claims.Username)
	http.Redirect(w, r, "/requests", http.StatusSeeOther)
}

// RequestPrintPage handles GET /requests/{id}/print: a printable slip with
// the QR code inlined.
func (s *Server) RequestPrintPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	req, err := store.GetRequest(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get request", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if req == nil {
		http.Error(w, "request not found", http.StatusNotFound)
		return
	}
	if claims.Role != model.RoleAdmin && req.RequesterID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	summary := report.RequestSummary(req)
	qr, err := report.QRDataURI(summary, report.QRSize)
	if err != nil {
		slog.Error("failed to render qr code", "request", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, "request_print.html", &struct {
		PageData
		Request *model.Request
		Summary string
		// template.URL so html/template does not strip the data: scheme.
		QRCode template.URL
	}{
		PageData: s.pageData(r, "Request slip"),
		Request:  req,
		Summary:  summary,
		QRCode:   template.URL(qr),
	})
}
