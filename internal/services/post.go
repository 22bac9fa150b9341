package services

import (
	"context"
	"errors"
	"strings"

	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/repository"
	"blogtalks/internal/utils"

	"go.uber.org/zap"
)

type PostService struct {
	posts PostRepo
}

func NewPostService(posts PostRepo) *PostService {
	return &PostService{posts: posts}
}

type PostRepo interface {
	Create(ctx context.Context, p *models.Post, categoryIDs, tagIDs []int) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context, f models.PostFilter) ([]*models.Post, int, error)
	Update(ctx context.Context, p *models.Post, categoryIDs, tagIDs *[]int) error
	Delete(ctx context.Context, id int) error
	SlugExists(ctx context.Context, slug string, excludeID int) (bool, error)
}

func validPostStatus(status string) bool {
	return status == models.PostStatusDraft || status == models.PostStatusPublished
}

// canManagePost — владелец или админ.
func canManagePost(actor *models.AuthUser, p *models.Post) bool {
	return actor != nil && (actor.IsAdmin() || actor.ID == p.UserID)
}

// Create создаёт пост со свободным слагом. Источник слага — явный slug из
// запроса, иначе заголовок.
func (s *PostService) Create(ctx context.Context, actor *models.AuthUser, req *models.CreatePostRequest) (*models.Post, error) {
	log := logger.WithCtx(ctx)

	req.Title = strings.TrimSpace(req.Title)
	verr := NewValidationError()
	if l := len(req.Title); l < 1 || l > 255 {
		verr.Add("title", "Title must be between 1 and 255 characters")
	}
	if strings.TrimSpace(req.Body) == "" {
		verr.Add("body", "Body is required")
	}
	if req.Status == "" {
		req.Status = models.PostStatusDraft
	} else if !validPostStatus(req.Status) {
		verr.Add("status", "Status must be draft or published")
	}
	if !verr.Empty() {
		return nil, verr
	}

	slugSource := req.Title
	if req.Slug != "" {
		slugSource = req.Slug
	}

	post := &models.Post{
		UserID: actor.ID,
		Title:  req.Title,
		Body:   req.Body,
		Status: req.Status,
	}

	// Проба свободного слага с повтором на 23505: между пробой и вставкой
	// конкурирующий запрос мог занять кандидата.
	for attempt := 0; ; attempt++ {
		slug, err := allocateSlug(ctx, slugSource, 0, s.posts.SlugExists)
		if err != nil {
			if errors.Is(err, utils.ErrInvalidInput) {
				verr.Add("slug", "Slug cannot be derived from the given input")
				return nil, verr
			}
			return nil, err
		}
		post.Slug = slug

		err = s.posts.Create(ctx, post, req.CategoryIDs, req.TagIDs)
		if err == nil {
			break
		}
		if repository.IsUniqueViolation(err) && attempt < slugRetries {
			log.Warn("Гонка за слаг поста, повторная проба", zap.String("slug", slug), zap.Int("attempt", attempt+1))
			continue
		}
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		log.Error("Ошибка создания поста (service)", zap.Error(err))
		return nil, err
	}

	log.Info("Пост создан (service)", zap.Int("post_id", post.ID), zap.String("slug", post.Slug), zap.String("status", post.Status))
	return s.posts.GetByID(ctx, post.ID)
}

// Get возвращает пост. Черновик видят только владелец и админ.
func (s *PostService) Get(ctx context.Context, viewer *models.AuthUser, id int) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if post.Status == models.PostStatusDraft && !canManagePost(viewer, post) {
		logger.WithCtx(ctx).Warn("Отказ в доступе к черновику (service)", zap.Int("post_id", id))
		return nil, ErrForbidden
	}
	return post, nil
}

// List — страница постов. Фильтр по статусу доступен только админу,
// остальные всегда видят только опубликованные.
func (s *PostService) List(ctx context.Context, viewer *models.AuthUser, filter models.PostFilter) ([]*models.Post, int, error) {
	if viewer == nil || !viewer.IsAdmin() {
		filter.Status = models.PostStatusPublished
	} else if filter.Status != "" && !validPostStatus(filter.Status) {
		return nil, 0, ErrBadRequest
	}

	posts, total, err := s.posts.List(ctx, filter)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка выборки постов (service)", zap.Error(err))
		return nil, 0, err
	}
	return posts, total, nil
}

// Update правит пост владельца/админа. Слаг меняется только по явному
// запросу — смена заголовка не ломает существующие ссылки.
func (s *PostService) Update(ctx context.Context, actor *models.AuthUser, id int, req *models.UpdatePostRequest) (*models.Post, error) {
	log := logger.WithCtx(ctx)

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canManagePost(actor, post) {
		log.Warn("Отказ в изменении поста (service)", zap.Int("post_id", id), zap.Int("actor_id", actor.ID))
		return nil, ErrForbidden
	}

	verr := NewValidationError()
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if l := len(title); l < 1 || l > 255 {
			verr.Add("title", "Title must be between 1 and 255 characters")
		} else {
			post.Title = title
		}
	}
	if req.Body != nil {
		if strings.TrimSpace(*req.Body) == "" {
			verr.Add("body", "Body cannot be empty")
		} else {
			post.Body = *req.Body
		}
	}
	if req.Status != nil {
		if !validPostStatus(*req.Status) {
			verr.Add("status", "Status must be draft or published")
		} else {
			post.Status = *req.Status
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	reslug := req.Slug != nil && strings.TrimSpace(*req.Slug) != ""

	for attempt := 0; ; attempt++ {
		if reslug {
			slug, err := allocateSlug(ctx, *req.Slug, id, s.posts.SlugExists)
			if err != nil {
				if errors.Is(err, utils.ErrInvalidInput) {
					verr.Add("slug", "Slug cannot be derived from the given input")
					return nil, verr
				}
				return nil, err
			}
			post.Slug = slug
		}

		err = s.posts.Update(ctx, post, req.CategoryIDs, req.TagIDs)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if repository.IsUniqueViolation(err) && reslug && attempt < slugRetries {
			log.Warn("Гонка за слаг поста при обновлении", zap.String("slug", post.Slug), zap.Int("attempt", attempt+1))
			continue
		}
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		log.Error("Ошибка обновления поста (service)", zap.Int("post_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Пост обновлён (service)", zap.Int("post_id", id))
	return s.posts.GetByID(ctx, id)
}

// Delete удаляет пост вместе с комментариями (владелец или админ).
func (s *PostService) Delete(ctx context.Context, actor *models.AuthUser, id int) error {
	log := logger.WithCtx(ctx)

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !canManagePost(actor, post) {
		log.Warn("Отказ в удалении поста (service)", zap.Int("post_id", id), zap.Int("actor_id", actor.ID))
		return ErrForbidden
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		log.Error("Ошибка удаления поста (service)", zap.Int("post_id", id), zap.Error(err))
		return err
	}

	log.Info("Пост удалён (service)", zap.Int("post_id", id))
	return nil
}
