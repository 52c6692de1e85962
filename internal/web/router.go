package web

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/stockroom-app/stockroom/internal/store"
	webembed "github.com/stockroom-app/stockroom/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, jwtSecret string) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		JWTSecret: jwtSecret,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(jwtSecret, db)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /{$}", cookieAuth(http.HandlerFunc(s.Dashboard)))

	mux.Handle("GET /items", cookieAuth(http.HandlerFunc(s.ItemsPage)))
	mux.Handle("POST /items", cookieAuth(http.HandlerFunc(s.ItemCreateSubmit)))
	mux.Handle("GET /items/{id}", cookieAuth(http.HandlerFunc(s.ItemDetailPage)))
	mux.Handle("POST /items/{id}", cookieAuth(http.HandlerFunc(s.ItemUpdateSubmit)))
	mux.Handle("POST /items/{id}/delete", cookieAuth(http.HandlerFunc(s.ItemDeleteSubmit)))
	mux.Handle("POST /items/{id}/image", cookieAuth(http.HandlerFunc(s.ItemImageSubmit)))
	mux.Handle("GET /items/{id}/image", cookieAuth(http.HandlerFunc(s.ItemImageGet)))
	mux.Handle("GET /items/{id}/report.pdf", cookieAuth(http.HandlerFunc(s.ItemReportPDF)))

	mux.Handle("GET /requests", cookieAuth(http.HandlerFunc(s.RequestsPage)))
	mux.Handle("GET /requests/new", cookieAuth(http.HandlerFunc(s.RequestNewPage)))
	mux.Handle("POST /requests", cookieAuth(http.HandlerFunc(s.RequestSubmit)))
	mux.Handle("POST /requests/{id}/approve", cookieAuth(http.HandlerFunc(s.RequestApproveSubmit)))
	mux.Handle("POST /requests/{id}/reject", cookieAuth(http.HandlerFunc(s.RequestRejectSubmit)))
	mux.Handle("GET /requests/{id}/print", cookieAuth(http.HandlerFunc(s.RequestPrintPage)))

	mux.Handle("GET /users", cookieAuth(http.HandlerFunc(s.UsersPage)))
	mux.Handle("POST /users", cookieAuth(http.HandlerFunc(s.UserCreateSubmit)))
	mux.Handle("POST /users/{id}/role", cookieAuth(http.HandlerFunc(s.UserUpdateRoleSubmit)))
	mux.Handle("POST /users/{id}/password", cookieAuth(http.HandlerFunc(s.UserResetPasswordSubmit)))
	mux.Handle("POST /users/{id}/delete", cookieAuth(http.HandlerFunc(s.UserDeleteSubmit)))

	mux.Handle("GET /notifications", cookieAuth(http.HandlerFunc(s.NotificationsPage)))

	mux.Handle("GET /reports", cookieAuth(http.HandlerFunc(s.ReportsPage)))

	return mux, nil
}

// pageData fills the fields every page shares, including the unread badge.
func (s *Server) pageData(r *http.Request, title string) PageData {
	claims := GetWebClaims(r.Context())
	data := PageData{Title: title, User: claims, Token: GetWebToken(r.Context())}
	if claims != nil {
		unread, err := store.CountUnreadNotifications(r.Context(), s.DB, claims.UserID)
		if err != nil {
			slog.Error("failed to count unread notifications", "error", err)
		}
		data.Unread = unread
	}
	return data
}
