package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/relief-supply/internal/domain"
	"github.com/msomdec/relief-supply/internal/service"
)

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleRegister processes a JSON registration request.
// POST /api/v1/register
// Request:  {"name":"...","email":"...","password":"..."}
// Response: 201 {"success":true,"message":"User registered successfully"}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "User already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeInternalError(w, r, "register user", err)
		}
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully", nil)
}

// HandleLogin processes a JSON login request.
// POST /api/v1/login
// Request:  {"email":"...","password":"..."}
// Response: 200 {"success":true,"message":"Login successful","token":"..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeInternalError(w, r, "login user", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", envelope{"token": token})
}
