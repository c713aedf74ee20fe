package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fluxo/internal/auth"
	"github.com/MrJamesThe3rd/fluxo/internal/http/authn"
	"github.com/MrJamesThe3rd/fluxo/internal/http/request"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the public endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/signup", h.signUp)
	r.Post("/login", h.login)
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	UID   uuid.UUID `json:"uid"`
	Email string    `json:"email"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := request.Decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	tok, err := h.svc.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeToken(w, http.StatusCreated, tok)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := request.Decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	tok, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeToken(w, http.StatusOK, tok)
}

// Me answers with the user of the bearer token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := authn.User(r.Context())
	if !ok {
		http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toUserResponse(user)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeToken(w http.ResponseWriter, status int, tok *auth.Token) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := tokenResponse{
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt,
		User:      toUserResponse(&tok.User),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var reqErr *request.Error

	switch {
	case errors.As(err, &reqErr):
		http.Error(w, reqErr.Msg, http.StatusBadRequest)
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, auth.ErrEmailInUse):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		slog.Error("failed to authenticate", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{UID: u.ID, Email: u.Email}
}
