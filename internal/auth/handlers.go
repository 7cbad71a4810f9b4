package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/reactflix/reactflix-server/internal/httputil"
)

// Handler serves the admin login endpoint.
type Handler struct {
	tokens   *TokenService
	password string
	limiter  *rate.Limiter
}

func NewHandler(tokens *TokenService, password string) *Handler {
	return &Handler{
		tokens:   tokens,
		password: password,
		// Brute-force guard: one attempt per second sustained, burst of 5.
		limiter: rate.NewLimiter(rate.Limit(1), 5),
	}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.login)
	return r
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		httputil.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many login attempts")
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	if !CheckPassword(h.password, strings.TrimSpace(req.Password)) {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "wrong password")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"token": h.tokens.Mint()})
}
