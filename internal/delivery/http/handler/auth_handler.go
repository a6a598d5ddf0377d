package handler

import (
	"net/http"

	"clinic-operations/internal/delivery/http/middleware"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Me returns the authenticated principal and its visible clinics.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, err := h.authUsecase.GetCurrentPrincipal(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "principal", principal)
}

// Logout revokes the token used for this request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	if err := h.authUsecase.Logout(r.Context(), tokenID); err != nil {
		response.FromError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	response.Success(w, http.StatusOK, "message", "Logged out successfully")
}
