package handlers

import (
	"encoding/json"
	"net/http"

	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/services"
	"blogtalks/internal/utils"
	"blogtalks/internal/utils/helpers"

	"go.uber.org/zap"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile godoc
// @Summary Публичный профиль пользователя
// @Tags users
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/users/{id}/profile [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), id)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Profile retrieved successfully", user)
}

// UpdateProfile godoc
// @Summary Обновление профиля (владелец или админ)
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param input body models.UpdateProfileRequest true "Изменяемые поля"
// @Success 200 {object} helpers.Response
// @Failure 403 {object} helpers.Response
// @Failure 422 {object} helpers.Response "Включая занятые username/email"
// @Router /api/users/{id}/profile [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в UpdateProfile", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), viewer(r), id, &req)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Profile updated successfully", user)
}

// ListUsers godoc
// @Summary Постраничный список пользователей (только админ)
// @Tags admin
// @Produce json
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы (1-50)"
// @Success 200 {object} helpers.Response
// @Router /api/admin/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	opts := utils.ParsePagination(r.URL.Query())

	users, total, err := h.userService.ListUsers(r.Context(), opts.Limit, opts.Offset)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	helpers.JSON(w, http.StatusOK, "Users retrieved successfully", map[string]interface{}{
		"users":      users,
		"pagination": utils.BuildPaginationMeta(total, opts),
	})
}

// UpdateUser godoc
// @Summary Смена роли пользователя (только админ)
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param input body models.UpdateUserRequest true "Новая роль"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Failure 422 {object} helpers.Response
// @Router /api/admin/users/{id} [patch]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в UpdateUser", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.Role == nil {
		helpers.Fail(w, http.StatusBadRequest, "Role is required")
		return
	}

	user, err := h.userService.ChangeRole(r.Context(), id, *req.Role)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "User updated successfully", user)
}

// DeleteUser godoc
// @Summary Удаление пользователя (только админ, не себя)
// @Tags admin
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), viewer(r), id); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "User deleted successfully", nil)
}

// Stats godoc
// @Summary Счётчики системы (только админ)
// @Tags admin
// @Produce json
// @Success 200 {object} helpers.Response
// @Router /api/admin/stats [get]
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.userService.Stats(r.Context())
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Stats retrieved successfully", stats)
}
