package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/services"
	"blogtalks/internal/utils/helpers"

	"go.uber.org/zap"
)

type AuthHandler struct {
	authService  *services.AuthService
	cookieName   string
	cookieSecure bool
}

func NewAuthHandler(authService *services.AuthService, cookieName string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Signup godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.SignupRequest true "Данные регистрации"
// @Success 201 {object} helpers.Response
// @Failure 409 {object} helpers.Response "Имя или почта уже заняты"
// @Failure 422 {object} helpers.Response "Ошибки валидации"
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Signup", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	user, err := h.authService.Signup(r.Context(), &req)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	helpers.JSON(w, http.StatusCreated, "User registered successfully", user)
}

// Login godoc
// @Summary Вход по имени пользователя или почте
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.LoginRequest true "Идентификатор и пароль"
// @Success 200 {object} helpers.Response
// @Failure 401 {object} helpers.Response "Неверные учётные данные"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Login", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		helpers.Fail(w, http.StatusBadRequest, "Identifier and password are required")
		return
	}

	user, session, err := h.authService.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	h.setSessionCookie(w, session)
	helpers.JSON(w, http.StatusOK, "Logged in successfully", user)
}

// Logout godoc
// @Summary Выход: отзыв сессии и очистка куки
// @Tags auth
// @Produce json
// @Success 200 {object} helpers.Response
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := ""
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		sessionID = cookie.Value
	}

	if err := h.authService.Logout(r.Context(), sessionID); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	h.clearSessionCookie(w)
	helpers.JSON(w, http.StatusOK, "Logged out successfully", nil)
}
