package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/quillgate/quillgate/internal/auth"
	"github.com/quillgate/quillgate/internal/handler/dto"
	"github.com/quillgate/quillgate/internal/service"
)

// Authenticator issues tokens for registered users.
type Authenticator interface {
	Signup(ctx context.Context, email, password string) (auth.Token, error)
	Login(ctx context.Context, email, password string) (auth.Token, bool, error)
}

const wrongLoginDetails = "Wrong login details!"

// UserHandler handles signup and login.
type UserHandler struct {
	auth   Authenticator
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(a Authenticator, logger *slog.Logger) *UserHandler {
	return &UserHandler{auth: a, logger: logger}
}

// Signup handles POST /user/signup.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := h.auth.Signup(r.Context(), *req.Email, *req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: token.AccessToken})
}

// Login handles POST /user/login. Wrong credentials answer 200 with an
// error field, not an HTTP error.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	token, found, err := h.auth.Login(r.Context(), *req.Email, *req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, dto.LoginFailedResponse{Error: wrongLoginDetails})
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: token.AccessToken})
}

func (h *UserHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (dto.CredentialsRequest, bool) {
	var req dto.CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return req, false
	}
	if missing := req.Missing(); len(missing) > 0 {
		writeServiceError(w, h.logger, service.Errorf(service.KindValidation, "%s", dto.MissingFieldsDetail(missing)))
		return req, false
	}
	return req, true
}
