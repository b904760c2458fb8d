package api

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"github.com/ashishpal07/qp-assessment/internal/auth"
	"github.com/ashishpal07/qp-assessment/internal/config"
)

// Server holds the explicitly injected collaborators every handler needs:
// the database handle, configuration, token issuer, and logger. There is no
// process-wide connection singleton.
type Server struct {
	db     *sql.DB
	cfg    *config.Config
	tokens *auth.TokenIssuer
	log    *zap.Logger
}

func NewServer(db *sql.DB, cfg *config.Config, log *zap.Logger) *Server {
	return &Server{
		db:     db,
		cfg:    cfg,
		tokens: auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		log:    log,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/users/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/users/login", s.handleLogin)

	mux.HandleFunc("POST /api/v1/groceries", s.authenticate(s.requireAdmin(s.handleCreateGrocery)))
	mux.HandleFunc("PATCH /api/v1/groceries/{groceryId}", s.authenticate(s.requireAdmin(s.handleUpdateGrocery)))
	mux.HandleFunc("DELETE /api/v1/groceries/{groceryId}", s.authenticate(s.requireAdmin(s.handleDeleteGrocery)))
	mux.HandleFunc("GET /api/v1/groceries/{groceryId}", s.handleGetGrocery)
	mux.HandleFunc("GET /api/v1/groceries", s.handleListGroceries)

	mux.HandleFunc("POST /api/v1/orders", s.authenticate(s.handleCreateOrder))
	mux.HandleFunc("GET /api/v1/orders", s.authenticate(s.handleListOrders))
	mux.HandleFunc("GET /api/v1/orders/{orderId}", s.authenticate(s.handleGetOrder))
	mux.HandleFunc("PATCH /api/v1/orders/cancel/{orderId}", s.authenticate(s.handleCancelOrder))
	mux.HandleFunc("PATCH /api/v1/orders/deliver/{orderId}", s.authenticate(s.requireAdmin(s.handleDeliverOrder)))

	return s.logRequests(mux)
}
