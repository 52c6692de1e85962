package api

import (
	"database/sql"
	"net/http"

	"github.com/stockroom-app/stockroom/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	requestsHandler := &RequestsHandler{DB: db}
	notificationsHandler := &NotificationsHandler{DB: db}
	reportsHandler := &ReportsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}/role", authMW(requireAdmin(http.HandlerFunc(usersHandler.UpdateRole))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Items: read (all roles), write (admin).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/items/{id}", authMW(requireAdmin(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("PUT /api/items/{id}/image", authMW(requireAdmin(http.HandlerFunc(itemsHandler.UploadImage))))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Requests: any user submits, admins decide.
	mux.Handle("POST /api/requests", authMW(http.HandlerFunc(requestsHandler.Submit)))
	mux.Handle("GET /api/requests", authMW(http.HandlerFunc(requestsHandler.List)))
	mux.Handle("GET /api/requests/{id}", authMW(http.HandlerFunc(requestsHandler.Get)))
	mux.Handle("POST /api/requests/{id}/approve", authMW(requireAdmin(http.HandlerFunc(requestsHandler.Approve))))
	mux.Handle("POST /api/requests/{id}/reject", authMW(requireAdmin(http.HandlerFunc(requestsHandler.Reject))))

	// Notifications (own only).
	mux.Handle("GET /api/notifications", authMW(http.HandlerFunc(notificationsHandler.List)))
	mux.Handle("POST /api/notifications/{id}/read", authMW(http.HandlerFunc(notificationsHandler.MarkRead)))
	mux.Handle("POST /api/notifications/read-all", authMW(http.HandlerFunc(notificationsHandler.MarkAllRead)))

	// Reports (read-only snapshots).
	mux.Handle("GET /api/reports/inventory", authMW(requireAdmin(http.HandlerFunc(reportsHandler.Inventory))))
	mux.Handle("GET /api/items/{id}/report.pdf", authMW(http.HandlerFunc(reportsHandler.ItemPDF)))
	mux.Handle("GET /api/requests/{id}/report", authMW(http.HandlerFunc(reportsHandler.RequestReport)))
	mux.Handle("GET /api/requests/{id}/qr.png", authMW(http.HandlerFunc(reportsHandler.RequestQR)))

	return mux
}
