package api

import (
	"bytes"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/stockroom-app/stockroom/internal/model"
	"github.com/stockroom-app/stockroom/internal/report"
	"github.com/stockroom-app/stockroom/internal/store"
)

// ReportsHandler handles read-only report endpoints. Reports are rendered
// into a buffer first so an encoder failure never leaks a partial response.
type ReportsHandler struct {
	DB *sql.DB
}

// Inventory handles GET /api/reports/inventory with optional ?search=,
// ?start= and ?end= (YYYY-MM-DD) filters.
func (h *ReportsHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := store.SearchItems(r.Context(), h.DB, q.Get("search"), q.Get("start"), q.Get("end"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to search items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// ItemPDF handles GET /api/items/{id}/report.pdf.
func (h *ReportsHandler) ItemPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil || item.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	latest, err := store.LatestRequestForItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get latest request")
		return
	}

	var buf bytes.Buffer
	if err := report.ItemPDF(&buf, item, latest); err != nil {
		slog.Error("failed to render item pdf", "item", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to render pdf")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="item_report.pdf"`)
	w.Write(buf.Bytes())
}

// RequestReport handles GET /api/requests/{id}/report: the printable summary
// with the QR code inlined as a data URI.
func (h *ReportsHandler) RequestReport(w http.ResponseWriter, r *http.Request) {
	req, ok := h.loadRequest(w, r)
	if !ok {
		return
	}

	summary := report.RequestSummary(req)
	qr, err := report.QRDataURI(summary, report.QRSize)
	if err != nil {
		slog.Error("failed to render qr code", "request", req.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to render qr code")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"request": req,
		"summary": summary,
		"qr_code": qr,
	})
}

// RequestQR handles GET /api/requests/{id}/qr.png.
func (h *ReportsHandler) RequestQR(w http.ResponseWriter, r *http.Request) {
	req, ok := h.loadRequest(w, r)
	if !ok {
		return
	}

	data, err := report.QRPNG(report.RequestSummary(req), report.QRSize)
	if err != nil {
		slog.Error("failed to render qr code", "request", req.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to render qr code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

func (h *ReportsHandler) loadRequest(w http.ResponseWriter, r *http.Request) (*model.Request, bool) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return nil, false
	}

	req, err := store.GetRequest(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get request")
		return nil, false
	}
	if req == nil {
		jsonError(w, http.StatusNotFound, "request not found")
		return nil, false
	}
	if claims.Role != model.RoleAdmin && req.RequesterID != claims.UserID {
		jsonError(w, http.StatusForbidden, "insufficient permissions")
		return nil, false
	}
	return req, true
}
