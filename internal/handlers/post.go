package handlers

import (
	"encoding/json"
	"net/http"

	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/reqctx"
	"blogtalks/internal/services"
	"blogtalks/internal/utils"
	"blogtalks/internal/utils/helpers"

	"go.uber.org/zap"
)

type PostHandler struct {
	postService *services.PostService
}

func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// viewer достаёт пользователя из контекста; nil — аноним.
func viewer(r *http.Request) *models.AuthUser {
	user, ok := reqctx.GetUser(r.Context())
	if !ok {
		return nil
	}
	return &user
}

// List godoc
// @Summary Список постов с фильтрами и пагинацией
// @Tags posts
// @Produce json
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы (1-50)"
// @Param category query string false "Слаг рубрики"
// @Param tag query string false "Слаг тега"
// @Param search query string false "Поиск по заголовку и тексту"
// @Param status query string false "Фильтр статуса (только админ)"
// @Success 200 {object} helpers.Response
// @Router /api/posts [get]
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := utils.ParsePagination(query)

	filter := models.PostFilter{
		Status:       query.Get("status"),
		CategorySlug: query.Get("category"),
		TagSlug:      query.Get("tag"),
		Search:       query.Get("search"),
		Limit:        opts.Limit,
		Offset:       opts.Offset,
	}

	posts, total, err := h.postService.List(r.Context(), viewer(r), filter)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	helpers.JSON(w, http.StatusOK, "Posts retrieved successfully", map[string]interface{}{
		"posts":      posts,
		"pagination": utils.BuildPaginationMeta(total, opts),
	})
}

// Get godoc
// @Summary Пост по идентификатору
// @Tags posts
// @Produce json
// @Param post_id path int true "ID поста"
// @Success 200 {object} helpers.Response
// @Failure 403 {object} helpers.Response "Черновик чужого автора"
// @Failure 404 {object} helpers.Response
// @Router /api/posts/{post_id} [get]
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "post_id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	post, err := h.postService.Get(r.Context(), viewer(r), id)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, "Post retrieved successfully", post)
}

// Create godoc
// @Summary Создание поста (author/admin)
// @Tags posts
// @Accept json
// @Produce json
// @Param input body models.CreatePostRequest true "Данные поста"
// @Success 201 {object} helpers.Response
// @Failure 422 {object} helpers.Response "Ошибки валидации"
// @Router /api/posts [post]
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Create поста", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	post, err := h.postService.Create(r.Context(), viewer(r), &req)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	helpers.JSON(w, http.StatusCreated, "Post created successfully", post)
}

// Update godoc
// @Summary Обновление поста (владелец или админ)
// @Tags posts
// @Accept json
// @Produce json
// @Param post_id path int true "ID поста"
// @Param input body models.UpdatePostRequest true "Изменяемые поля"
// @Success 200 {object} helpers.Response
// @Failure 403 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/posts/{post_id} [put]
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "post_id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	var req models.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Update поста", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	post, err := h.postService.Update(r.Context(), viewer(r), id, &req)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, "Post updated successfully", post)
}

// Delete godoc
// @Summary Удаление поста вместе с комментариями
// @Tags posts
// @Produce json
// @Param post_id path int true "ID поста"
// @Success 200 {object} helpers.Response
// @Failure 403 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/posts/{post_id} [delete]
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "post_id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	if err := h.postService.Delete(r.Context(), viewer(r), id); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, "Post deleted successfully", nil)
}
