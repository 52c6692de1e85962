package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/stockroom-app/stockroom/internal/imaging"
	"github.com/stockroom-app/stockroom/internal/model"
	"github.com/stockroom-app/stockroom/internal/report"
	"github.com/stockroom-app/stockroom/internal/store"
)

// ItemsPage handles GET /items.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}

	s.Templates.Render(w, "items.html", &struct {
		PageData
		Items []model.Item
	}{
		PageData: s.pageData(r, "Items"),
		Items:    items,
	})
}

// ItemCreateSubmit handles POST /items.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if claims.Role != model.RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	name := r.FormValue("name")
	quantity, _ := strconv.Atoi(r.FormValue("quantity"))

	if name == "" {
		http.Redirect(w, r, "/items", http.StatusSeeOther)
		return
	}

	if _, err := store.CreateItem(r.Context(), s.DB, name, quantity, r.FormValue("category"), r.FormValue("location")); err != nil {
		slog.Error("failed to create item", "error", err)
	} else {
		slog.Info("item created", "user", claims.Username, "item", name)
	}

	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// ItemDetailPage handles GET /items/{id}.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if item == nil || item.DeletedAt != nil {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}

	latest, err := store.LatestRequestForItem(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get latest request", "error", err)
	}

	s.Templates.Render(w, "item_detail.html", &struct {
		PageData
		Item     *model.Item
		Latest   *model.Request
		HasImage bool
	}{
		PageData: s.pageData(r, item.Name),
		Item:     item,
		Latest:   latest,
		HasImage: item.ImageMime != "",
	})
}

// ItemUpdateSubmit handles POST /items/{id}.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
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

	name := r.FormValue("name")
	quantity, _ := strconv.Atoi(r.FormValue("quantity"))
	if name == "" {
		http.Redirect(w, r, fmt.Sprintf("/items/%d", id), http.StatusSeeOther)
		return
	}

	if err := store.UpdateItem(r.Context(), s.DB, id, name, quantity, r.FormValue("category"), r.FormValue("location")); err != nil {
		slog.Error("failed to update item", "error", err)
	} else {
		slog.Info("item updated", "user", claims.Username, "item", id)
	}

	http.Redirect(w, r, fmt.Sprintf("/items/%d", id), http.StatusSeeOther)
}

// ItemDeleteSubmit handles POST /items/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
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

	if err := store.DeleteItem(r.Context(), s.DB, id); err != nil {
		slog.Error("failed to delete item", "error", err)
	} else {
		slog.Info("item deleted", "user", claims.Username, "item", id)
	}

	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// ItemImageSubmit handles POST /items/{id}/image.
func (s *Server) ItemImageSubmit(w http.ResponseWriter, r *http.Request) {
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

	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		http.Error(w, "file too large", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := store.SetItemImage(r.Context(), s.DB, id, result.Data, result.MIME); err != nil {
		slog.Error("failed to save image", "error", err)
	}

	http.Redirect(w, r, fmt.Sprintf("/items/%d", id), http.StatusSeeOther)
}

// ItemImageGet handles GET /items/{id}/image (web route, cookie-authenticated).
func (s *Server) ItemImageGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// ItemReportPDF handles GET /items/{id}/report.pdf.
func (s *Server) ItemReportPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if item == nil || item.DeletedAt != nil {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}

	latest, err := store.LatestRequestForItem(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get latest request", "error", err)
	}

	var buf bytes.Buffer
	if err := report.ItemPDF(&buf, item, latest); err != nil {
		slog.Error("failed to render item pdf", "item", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="item_report.pdf"`)
	w.Write(buf.Bytes())
}
