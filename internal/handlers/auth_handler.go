package handlers

import (
	"net/http"

	"internet-banking/internal/service"
	"internet-banking/models"
)

type AuthHandler struct {
	userService service.UserService
}

func NewAuthHandler(userService service.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendJSONError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		sendJSONError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), &req)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, user)
}

// Logout is a no-op: session/token management lives in the API gateway.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, models.MessageResponse{Message: "logged out"})
}
