package handlers

import (
	"encoding/json"
	"net/http"

	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/services"
	"blogtalks/internal/utils"
	"blogtalks/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type TaxonomyHandler struct {
	taxonomyService *services.TaxonomyService
}

func NewTaxonomyHandler(taxonomyService *services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: taxonomyService}
}

// ----- Categories -----

// ListCategories godoc
// @Summary Список рубрик
// @Tags categories
// @Produce json
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы (1-50)"
// @Success 200 {object} helpers.Response
// @Router /api/categories [get]
func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	opts := utils.ParsePagination(r.URL.Query())

	categories, total, err := h.taxonomyService.ListCategories(r.Context(), opts.Limit, opts.Offset)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}

	helpers.JSON(w, http.StatusOK, "Categories retrieved successfully", map[string]interface{}{
		"categories": categories,
		"pagination": utils.BuildPaginationMeta(total, opts),
	})
}

// GetCategory godoc
// @Summary Рубрика по идентификатору
// @Tags categories
// @Produce json
// @Param id path int true "ID рубрики"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/categories/{id} [get]
func (h *TaxonomyHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	category, err := h.taxonomyService.GetCategory(r.Context(), id)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Category retrieved successfully", category)
}

// GetCategoryBySlug godoc
// @Summary Рубрика по слагу
// @Tags categories
// @Produce json
// @Param slug path string true "Слаг рубрики"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/categories/slug/{slug} [get]
func (h *TaxonomyHandler) GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := h.taxonomyService.GetCategoryBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Category retrieved successfully", category)
}

// CreateCategory godoc
// @Summary Создание рубрики (только админ)
// @Tags categories
// @Accept json
// @Produce json
// @Param input body models.CreateCategoryRequest true "Данные рубрики"
// @Success 201 {object} helpers.Response
// @Failure 422 {object} helpers.Response
// @Router /api/categories [post]
func (h *TaxonomyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в CreateCategory", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	category, err := h.taxonomyService.CreateCategory(r.Context(), &req)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, "Category created successfully", category)
}

// UpdateCategory godoc
// @Summary Обновление рубрики (только админ)
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "ID рубрики"
// @Param input body models.UpdateCategoryRequest true "Изменяемые поля"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/categories/{id} [put]
func (h *TaxonomyHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	var req models.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в UpdateCategory", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	category, err := h.taxonomyService.UpdateCategory(r.Context(), id, &req)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory godoc
// @Summary Удаление рубрики (409, если есть посты)
// @Tags categories
// @Produce json
// @Param id path int true "ID рубрики"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Failure 409 {object} helpers.Response "Рубрика используется постами"
// @Router /api/categories/{id} [delete]
func (h *TaxonomyHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	if err := h.taxonomyService.DeleteCategory(r.Context(), id); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Category deleted successfully", nil)
}

// ----- Tags -----

// ListTags godoc
// @Summary Список тегов
// @Tags tags
// @Produce json
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы (1-50)"
// @Success 200 {object} helpers.Response
// @Router /api/tags [get]
func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	opts := utils.ParsePagination(r.URL.Query())

	tags, total, err := h.taxonomyService.ListTags(r.Context(), opts.Limit, opts.Offset)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}

	helpers.JSON(w, http.StatusOK, "Tags retrieved successfully", map[string]interface{}{
		"tags":       tags,
		"pagination": utils.BuildPaginationMeta(total, opts),
	})
}

// GetTag godoc
// @Summary Тег по идентификатору
// @Tags tags
// @Produce json
// @Param tag_id path int true "ID тега"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/tags/{tag_id} [get]
func (h *TaxonomyHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tag_id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid tag id")
		return
	}

	tag, err := h.taxonomyService.GetTag(r.Context(), id)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Tag retrieved successfully", tag)
}

// GetTagBySlug godoc
// @Summary Тег по слагу
// @Tags tags
// @Produce json
// @Param slug path string true "Слаг тега"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/tags/slug/{slug} [get]
func (h *TaxonomyHandler) GetTagBySlug(w http.ResponseWriter, r *http.Request) {
	tag, err := h.taxonomyService.GetTagBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Tag retrieved successfully", tag)
}

// CreateTag godoc
// @Summary Создание тега (только админ; дубликат имени — 409)
// @Tags tags
// @Accept json
// @Produce json
// @Param input body models.CreateTagRequest true "Данные тега"
// @Success 201 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Failure 422 {object} helpers.Response
// @Router /api/tags [post]
func (h *TaxonomyHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в CreateTag", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	tag, err := h.taxonomyService.CreateTag(r.Context(), &req)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, "Tag created successfully", tag)
}

// UpdateTag godoc
// @Summary Обновление тега (только админ)
// @Tags tags
// @Accept json
// @Produce json
// @Param tag_id path int true "ID тега"
// @Param input body models.UpdateTagRequest true "Изменяемые поля"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/tags/{tag_id} [put]
func (h *TaxonomyHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tag_id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid tag id")
		return
	}

	var req models.UpdateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в UpdateTag", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	tag, err := h.taxonomyService.UpdateTag(r.Context(), id, &req)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Tag updated successfully", tag)
}

// DeleteTag godoc
// @Summary Удаление тега (409, если есть посты)
// @Tags tags
// @Produce json
// @Param tag_id path int true "ID тега"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Failure 409 {object} helpers.Response "Тег используется постами"
// @Router /api/tags/{tag_id} [delete]
func (h *TaxonomyHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tag_id")
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid tag id")
		return
	}

	if err := h.taxonomyService.DeleteTag(r.Context(), id); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Tag deleted successfully", nil)
}
