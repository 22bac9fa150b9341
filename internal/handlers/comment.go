package handlers

import (
	"encoding/json"
	"net/http"

	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/services"
	"blogtalks/internal/utils/helpers"

	"go.uber.org/zap"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListTree godoc
// @Summary Дерево комментариев поста
// @Tags comments
// @Produce json
// @Param post_id path int true "ID поста"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/comments/posts/{post_id} [get]
func (h *CommentHandler) ListTree(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "post_id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	tree, err := h.commentService.ListTree(r.Context(), viewer(r), postID)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, "Comments retrieved successfully", tree)
}

// Create godoc
// @Summary Новый комментарий к посту (статус pending)
// @Tags comments
// @Accept json
// @Produce json
// @Param post_id path int true "ID поста"
// @Param input body models.CreateCommentRequest true "Текст и необязательный родитель"
// @Success 201 {object} helpers.Response
// @Failure 400 {object} helpers.Response "Родитель не существует или из другого поста"
// @Failure 422 {object} helpers.Response
// @Router /api/comments/posts/{post_id} [post]
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "post_id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Create комментария", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	comment, err := h.commentService.Create(r.Context(), viewer(r), postID, &req)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	helpers.JSON(w, http.StatusCreated, "Comment submitted for moderation", comment)
}

// Update godoc
// @Summary Правка комментария (не-админ возвращает его в pending)
// @Tags comments
// @Accept json
// @Produce json
// @Param comment_id path int true "ID комментария"
// @Param input body models.UpdateCommentRequest true "Новый текст"
// @Success 200 {object} helpers.Response
// @Failure 403 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/comments/{comment_id} [put]
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "comment_id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	var req models.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Update комментария", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	comment, err := h.commentService.Update(r.Context(), viewer(r), id, &req)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, "Comment updated successfully", comment)
}

// Delete godoc
// @Summary Удаление комментария (с ответами — мягкое)
// @Tags comments
// @Produce json
// @Param comment_id path int true "ID комментария"
// @Success 200 {object} helpers.Response
// @Failure 403 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/comments/{comment_id} [delete]
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "comment_id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	if err := h.commentService.Delete(r.Context(), viewer(r), id); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, "Comment deleted successfully", nil)
}

// Moderate godoc
// @Summary Смена статуса комментария (только админ)
// @Tags comments
// @Accept json
// @Produce json
// @Param comment_id path int true "ID комментария"
// @Param input body models.ModerateCommentRequest true "Новый статус"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Failure 422 {object} helpers.Response
// @Router /api/comments/{comment_id}/status [patch]
func (h *CommentHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "comment_id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	var req models.ModerateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Moderate", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	comment, err := h.commentService.Moderate(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, "Comment status updated", comment)
}
