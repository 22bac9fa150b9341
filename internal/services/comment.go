package services

import (
	"context"
	"errors"
	"strings"

	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/repository"

	"go.uber.org/zap"
)

type CommentService struct {
	comments CommentRepo
}

func NewCommentService(comments CommentRepo) *CommentService {
	return &CommentService{comments: comments}
}

type CommentRepo interface {
	Create(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id int) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int, onlyApproved bool) ([]*models.Comment, error)
	Update(ctx context.Context, id int, body, status string) error
	UpdateStatus(ctx context.Context, id int, status string) error
	CountReplies(ctx context.Context, parentID int) (int, error)
	Delete(ctx context.Context, id int) error
	PostExists(ctx context.Context, postID int) (bool, error)
}

func validCommentStatus(status string) bool {
	switch status {
	case models.CommentStatusApproved, models.CommentStatusPending, models.CommentStatusSpam:
		return true
	}
	return false
}

func canManageComment(actor *models.AuthUser, c *models.Comment) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return c.UserID != nil && *c.UserID == actor.ID
}

// Create добавляет комментарий к посту. Родитель обязан существовать и
// принадлежать тому же посту. Новые комментарии всегда pending.
func (s *CommentService) Create(ctx context.Context, actor *models.AuthUser, postID int, req *models.CreateCommentRequest) (*models.Comment, error) {
	log := logger.WithCtx(ctx)

	body := strings.TrimSpace(req.CommentBody)
	if body == "" {
		verr := NewValidationError()
		verr.Add("commentBody", "Comment body is required")
		return nil, verr
	}

	exists, err := s.comments.PostExists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	if req.ParentCommentID != nil {
		parent, err := s.comments.GetByID(ctx, *req.ParentCommentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Warn("Родительский комментарий не найден (service)", zap.Int("parent_id", *req.ParentCommentID))
				return nil, ErrBadRequest
			}
			return nil, err
		}
		if parent.PostID != postID {
			log.Warn("Родительский комментарий из другого поста (service)",
				zap.Int("parent_id", parent.ID), zap.Int("parent_post_id", parent.PostID), zap.Int("post_id", postID))
			return nil, ErrBadRequest
		}
	}

	comment := &models.Comment{
		PostID:          postID,
		UserID:          &actor.ID,
		ParentCommentID: req.ParentCommentID,
		Body:            body,
		Status:          models.CommentStatusPending,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		log.Error("Ошибка создания комментария (service)", zap.Int("post_id", postID), zap.Error(err))
		return nil, err
	}

	log.Info("Комментарий создан (service)", zap.Int("comment_id", comment.ID), zap.Int("post_id", postID))
	return comment, nil
}

// ListTree — дерево комментариев поста. Не-админы видят только approved.
func (s *CommentService) ListTree(ctx context.Context, viewer *models.AuthUser, postID int) ([]*models.CommentNode, error) {
	exists, err := s.comments.PostExists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	onlyApproved := viewer == nil || !viewer.IsAdmin()
	comments, err := s.comments.ListByPost(ctx, postID, onlyApproved)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка выборки комментариев (service)", zap.Int("post_id", postID), zap.Error(err))
		return nil, err
	}
	return BuildCommentTree(comments), nil
}

// BuildCommentTree собирает плоский хронологический список в дерево за два
// прохода по карте id→узел. Комментарий с недоступным родителем (удалён или
// отфильтрован по статусу) поднимается в корень, а не пропадает.
func BuildCommentTree(comments []*models.Comment) []*models.CommentNode {
	nodes := make(map[int]*models.CommentNode, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &models.CommentNode{Comment: *c, Replies: []*models.CommentNode{}}
	}

	roots := []*models.CommentNode{}
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentCommentID != nil {
			if parent, ok := nodes[*c.ParentCommentID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// Update правит текст комментария. Правка не-админом возвращает статус в
// pending — текст снова ждёт модерации.
func (s *CommentService) Update(ctx context.Context, actor *models.AuthUser, id int, req *models.UpdateCommentRequest) (*models.Comment, error) {
	log := logger.WithCtx(ctx)

	body := strings.TrimSpace(req.CommentBody)
	if body == "" {
		verr := NewValidationError()
		verr.Add("commentBody", "Comment body is required")
		return nil, verr
	}

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canManageComment(actor, comment) {
		log.Warn("Отказ в изменении комментария (service)", zap.Int("comment_id", id), zap.Int("actor_id", actor.ID))
		return nil, ErrForbidden
	}

	status := comment.Status
	if !actor.IsAdmin() {
		status = models.CommentStatusPending
	}

	if err := s.comments.Update(ctx, id, body, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error("Ошибка обновления комментария (service)", zap.Int("comment_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Комментарий обновлён (service)", zap.Int("comment_id", id), zap.String("status", status))
	return s.comments.GetByID(ctx, id)
}

// Delete удаляет комментарий владельца/админа. Комментарий с ответами не
// удаляется физически, чтобы не рвать ветку: тело редактируется на
// "[Comment deleted]", статус — spam. Лист удаляется насовсем.
func (s *CommentService) Delete(ctx context.Context, actor *models.AuthUser, id int) error {
	log := logger.WithCtx(ctx)

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !canManageComment(actor, comment) {
		log.Warn("Отказ в удалении комментария (service)", zap.Int("comment_id", id), zap.Int("actor_id", actor.ID))
		return ErrForbidden
	}

	replies, err := s.comments.CountReplies(ctx, id)
	if err != nil {
		return err
	}

	if replies > 0 {
		if err := s.comments.Update(ctx, id, models.CommentDeletedBody, models.CommentStatusSpam); err != nil {
			log.Error("Ошибка мягкого удаления комментария (service)", zap.Int("comment_id", id), zap.Error(err))
			return err
		}
		log.Info("Комментарий помечен удалённым (service)", zap.Int("comment_id", id), zap.Int("replies", replies))
		return nil
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		log.Error("Ошибка удаления комментария (service)", zap.Int("comment_id", id), zap.Error(err))
		return err
	}
	log.Info("Комментарий удалён (service)", zap.Int("comment_id", id))
	return nil
}

// Moderate — админская смена статуса (approve/spam/pending).
func (s *CommentService) Moderate(ctx context.Context, id int, status string) (*models.Comment, error) {
	log := logger.WithCtx(ctx)

	if !validCommentStatus(status) {
		verr := NewValidationError()
		verr.Add("status", "Status must be one of approved, pending, spam")
		return nil, verr
	}

	if err := s.comments.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error("Ошибка модерации комментария (service)", zap.Int("comment_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Статус комментария изменён (service)", zap.Int("comment_id", id), zap.String("status", status))
	return s.comments.GetByID(ctx, id)
}
