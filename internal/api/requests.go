package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/stockroom-app/stockroom/internal/model"
	"github.com/stockroom-app/stockroom/internal/store"
)

// RequestsHandler handles the request workflow endpoints.
type RequestsHandler struct {
	DB *sql.DB
}

type submitRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// Submit handles POST /api/requests.
func (h *RequestsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := store.SubmitRequest(r.Context(), h.DB, claims.UserID, req.ItemID, req.Quantity)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("request submitted", "request", created.ID, "user", claims.Username, "item", created.ItemName, "quantity", created.Quantity)
	jsonResponse(w, http.StatusCreated, created)
}

// List handles GET /api/requests. Admins see every request (optionally
// filtered by status); other users only their own.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	requesterID := claims.UserID
	if claims.Role == model.RoleAdmin {
		requesterID = 0
	}

	requests, err := store.ListRequests(r.Context(), h.DB, requesterID, r.URL.Query().Get("status"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}
	if requests == nil {
		requests = []model.Request{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// Get handles GET /api/requests/{id}. Visible to admins and the requester.
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := store.GetRequest(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get request")
		return
	}
	if req == nil {
		jsonError(w, http.StatusNotFound, "request not found")
		return
	}
	if claims.Role != model.RoleAdmin && req.RequesterID != claims.UserID {
		jsonError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	jsonResponse(w, http.StatusOK, req)
}

// Approve handles POST /api/requests/{id}/approve.
func (h *RequestsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := store.ApproveRequest(r.Context(), h.DB, id, claims.UserID)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("request approved", "request", req.ID, "by", claims.Username, "item", req.ItemName, "quantity", req.Quantity)
	jsonResponse(w, http.StatusOK, req)
}

// Reject handles POST /api/requests/{id}/reject.
func (h *RequestsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := store.RejectRequest(r.Context(), h.DB, id, claims.UserID)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("request rejected", "request", req.ID, "by", claims.Username)
	jsonResponse(w, http.StatusOK, req)
}
