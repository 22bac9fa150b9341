package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/repository"
	"blogtalks/internal/utils"

	"go.uber.org/zap"
)

type TaxonomyService struct {
	taxonomies TaxonomyRepo
}

func NewTaxonomyService(taxonomies TaxonomyRepo) *TaxonomyService {
	return &TaxonomyService{taxonomies: taxonomies}
}

type TaxonomyRepo interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id int) error
	GetCategoryByID(ctx context.Context, id int) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context, limit, offset int) ([]models.Category, int, error)
	CategorySlugExists(ctx context.Context, slug string, excludeID int) (bool, error)
	PostCountByCategory(ctx context.Context, categoryID int) (int, error)

	CreateTag(ctx context.Context, t *models.Tag) error
	UpdateTag(ctx context.Context, t *models.Tag) error
	DeleteTag(ctx context.Context, id int) error
	GetTagByID(ctx context.Context, id int) (*models.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error)
	ListTags(ctx context.Context, limit, offset int) ([]models.Tag, int, error)
	TagSlugExists(ctx context.Context, slug string, excludeID int) (bool, error)
	TagNameOrSlugExists(ctx context.Context, name, slug string, excludeID int) (bool, error)
	PostCountByTag(ctx context.Context, tagID int) (int, error)
}

func validateName(name string) (string, *ValidationError) {
	name = strings.TrimSpace(name)
	if l := len(name); l < 1 || l > 100 {
		verr := NewValidationError()
		verr.Add("name", "Name must be between 1 and 100 characters")
		return "", verr
	}
	return name, nil
}

// ----- Categories -----

func (s *TaxonomyService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	log := logger.WithCtx(ctx)

	name, verr := validateName(req.Name)
	if verr != nil {
		return nil, verr
	}

	slugSource := name
	if req.Slug != "" {
		slugSource = req.Slug
	}

	category := &models.Category{Name: name, Description: req.Description}

	for attempt := 0; ; attempt++ {
		slug, err := allocateSlug(ctx, slugSource, 0, s.taxonomies.CategorySlugExists)
		if err != nil {
			if errors.Is(err, utils.ErrInvalidInput) {
				verr := NewValidationError()
				verr.Add("slug", "Slug cannot be derived from the given input")
				return nil, verr
			}
			return nil, err
		}
		category.Slug = slug

		err = s.taxonomies.CreateCategory(ctx, category)
		if err == nil {
			break
		}
		if repository.IsUniqueViolation(err) && attempt < slugRetries {
			log.Warn("Гонка за слаг рубрики, повторная проба", zap.String("slug", slug), zap.Int("attempt", attempt+1))
			continue
		}
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		log.Error("Ошибка создания рубрики (service)", zap.Error(err))
		return nil, err
	}

	log.Info("Рубрика создана (service)", zap.Int("category_id", category.ID), zap.String("slug", category.Slug))
	return category, nil
}

func (s *TaxonomyService) UpdateCategory(ctx context.Context, id int, req *models.UpdateCategoryRequest) (*models.Category, error) {
	log := logger.WithCtx(ctx)

	category, err := s.taxonomies.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		name, verr := validateName(*req.Name)
		if verr != nil {
			return nil, verr
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = req.Description
	}

	reslug := req.Slug != nil && strings.TrimSpace(*req.Slug) != ""

	for attempt := 0; ; attempt++ {
		if reslug {
			slug, err := allocateSlug(ctx, *req.Slug, id, s.taxonomies.CategorySlugExists)
			if err != nil {
				if errors.Is(err, utils.ErrInvalidInput) {
					verr := NewValidationError()
					verr.Add("slug", "Slug cannot be derived from the given input")
					return nil, verr
				}
				return nil, err
			}
			category.Slug = slug
		}

		err = s.taxonomies.UpdateCategory(ctx, category)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if repository.IsUniqueViolation(err) && reslug && attempt < slugRetries {
			continue
		}
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		log.Error("Ошибка обновления рубрики (service)", zap.Int("category_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Рубрика обновлена (service)", zap.Int("category_id", id))
	return category, nil
}

// DeleteCategory запрещает удаление рубрики, на которую ссылаются посты.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id int) error {
	log := logger.WithCtx(ctx)

	count, err := s.taxonomies.PostCountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Warn("Попытка удалить занятую рубрику (service)", zap.Int("category_id", id), zap.Int("posts", count))
		return fmt.Errorf("%w: Category is referenced by existing posts", ErrConflict)
	}

	if err := s.taxonomies.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	log.Info("Рубрика удалена (service)", zap.Int("category_id", id))
	return nil
}

func (s *TaxonomyService) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	c, err := s.taxonomies.GetCategoryByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

// GetCategoryBySlug — слаги в базе всегда нормализованы, так что заведомо
// невалидный формат можно отбросить без похода в БД.
func (s *TaxonomyService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	if !utils.ValidSlugFormat(slug) {
		return nil, ErrNotFound
	}
	c, err := s.taxonomies.GetCategoryBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *TaxonomyService) ListCategories(ctx context.Context, limit, offset int) ([]models.Category, int, error) {
	return s.taxonomies.ListCategories(ctx, limit, offset)
}

// ----- Tags -----

// CreateTag — в отличие от рубрик, дубликат имени тега считается конфликтом,
// а не поводом для суффикса: два тега с одним именем бессмысленны.
func (s *TaxonomyService) CreateTag(ctx context.Context, req *models.CreateTagRequest) (*models.Tag, error) {
	log := logger.WithCtx(ctx)

	name, verr := validateName(req.Name)
	if verr != nil {
		return nil, verr
	}

	if taken, err := s.taxonomies.TagNameOrSlugExists(ctx, name, "", 0); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("%w: Tag with this name already exists", ErrConflict)
	}

	slugSource := name
	if req.Slug != "" {
		slugSource = req.Slug
	}

	tag := &models.Tag{Name: name}

	for attempt := 0; ; attempt++ {
		slug, err := allocateSlug(ctx, slugSource, 0, s.taxonomies.TagSlugExists)
		if err != nil {
			if errors.Is(err, utils.ErrInvalidInput) {
				verr := NewValidationError()
				verr.Add("slug", "Slug cannot be derived from the given input")
				return nil, verr
			}
			return nil, err
		}
		tag.Slug = slug

		err = s.taxonomies.CreateTag(ctx, tag)
		if err == nil {
			break
		}
		if repository.IsUniqueViolation(err) && attempt < slugRetries {
			log.Warn("Гонка за слаг тега, повторная проба", zap.String("slug", slug), zap.Int("attempt", attempt+1))
			continue
		}
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: Tag with this name already exists", ErrConflict)
		}
		log.Error("Ошибка создания тега (service)", zap.Error(err))
		return nil, err
	}

	log.Info("Тег создан (service)", zap.Int("tag_id", tag.ID), zap.String("slug", tag.Slug))
	return tag, nil
}

func (s *TaxonomyService) UpdateTag(ctx context.Context, id int, req *models.UpdateTagRequest) (*models.Tag, error) {
	log := logger.WithCtx(ctx)

	tag, err := s.taxonomies.GetTagByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		name, verr := validateName(*req.Name)
		if verr != nil {
			return nil, verr
		}
		if taken, err := s.taxonomies.TagNameOrSlugExists(ctx, name, "", id); err != nil {
			return nil, err
		} else if taken {
			return nil, fmt.Errorf("%w: Tag with this name already exists", ErrConflict)
		}
		tag.Name = name
	}

	reslug := req.Slug != nil && strings.TrimSpace(*req.Slug) != ""

	for attempt := 0; ; attempt++ {
		if reslug {
			slug, err := allocateSlug(ctx, *req.Slug, id, s.taxonomies.TagSlugExists)
			if err != nil {
				if errors.Is(err, utils.ErrInvalidInput) {
					verr := NewValidationError()
					verr.Add("slug", "Slug cannot be derived from the given input")
					return nil, verr
				}
				return nil, err
			}
			tag.Slug = slug
		}

		err = s.taxonomies.UpdateTag(ctx, tag)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if repository.IsUniqueViolation(err) && reslug && attempt < slugRetries {
			continue
		}
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		log.Error("Ошибка обновления тега (service)", zap.Int("tag_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Тег обновлён (service)", zap.Int("tag_id", id))
	return tag, nil
}

func (s *TaxonomyService) DeleteTag(ctx context.Context, id int) error {
	log := logger.WithCtx(ctx)

	count, err := s.taxonomies.PostCountByTag(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Warn("Попытка удалить занятый тег (service)", zap.Int("tag_id", id), zap.Int("posts", count))
		return fmt.Errorf("%w: Tag is referenced by existing posts", ErrConflict)
	}

	if err := s.taxonomies.DeleteTag(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	log.Info("Тег удалён (service)", zap.Int("tag_id", id))
	return nil
}

func (s *TaxonomyService) GetTag(ctx context.Context, id int) (*models.Tag, error) {
	t, err := s.taxonomies.GetTagByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *TaxonomyService) GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	if !utils.ValidSlugFormat(slug) {
		return nil, ErrNotFound
	}
	t, err := s.taxonomies.GetTagBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *TaxonomyService) ListTags(ctx context.Context, limit, offset int) ([]models.Tag, int, error) {
	return s.taxonomies.ListTags(ctx, limit, offset)
}
