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

type UserService struct {
	users    UserRepo
	sessions SessionRepo
}

func NewUserService(users UserRepo, sessions SessionRepo) *UserService {
	return &UserService{users: users, sessions: sessions}
}

func (s *UserService) GetProfile(ctx context.Context, id int) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile правит профиль владельца/админа. Конфликты username/email
// здесь — ошибки валидации (422 с картой полей), как и прочие проблемы формы.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.AuthUser, id int, req *models.UpdateProfileRequest) (*models.User, error) {
	log := logger.WithCtx(ctx)

	if actor == nil || (!actor.IsAdmin() && actor.ID != id) {
		log.Warn("Отказ в изменении профиля (service)", zap.Int("user_id", id))
		return nil, ErrForbidden
	}

	verr := NewValidationError()

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if l := len(username); l < 1 || l > 100 {
			verr.Add("username", "Username must be between 1 and 100 characters")
		} else if !usernameRe.MatchString(username) {
			verr.Add("username", "Username can only contain letters, numbers, dots, underscores, or hyphens")
		} else {
			if taken, err := s.users.IsUsernameTaken(ctx, username, id); err != nil {
				return nil, err
			} else if taken {
				verr.Add("username", "Username is already taken")
			}
			req.Username = &username
		}
	}

	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if !emailRe.MatchString(email) {
			verr.Add("email", "Invalid email format")
		} else {
			if taken, err := s.users.IsEmailTaken(ctx, email, id); err != nil {
				return nil, err
			} else if taken {
				verr.Add("email", "Email is already registered")
			}
			req.Email = &email
		}
	}

	if !verr.Empty() {
		log.Warn("Валидация профиля не пройдена", zap.Int("user_id", id), zap.Int("fields", len(verr.Fields)))
		return nil, verr
	}

	if err := s.users.UpdateProfile(ctx, id, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if repository.IsUniqueViolation(err) {
			// гонка: проверка прошла, уникальный индекс — нет
			verr.Add("username", "Username or email is already taken")
			return nil, verr
		}
		log.Error("Ошибка обновления профиля (service)", zap.Int("user_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Профиль обновлён (service)", zap.Int("user_id", id))
	return s.users.GetUserByID(ctx, id)
}

// ListUsers — постраничный список для админки.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int, error) {
	return s.users.GetAllUsersPaginated(ctx, limit, offset)
}

// ChangeRole меняет роль и снимает все сессии пользователя: роль закэширована
// в строке сессии и иначе переживёт изменение.
func (s *UserService) ChangeRole(ctx context.Context, id int, role string) (*models.User, error) {
	log := logger.WithCtx(ctx)

	if !models.ValidRole(role) {
		verr := NewValidationError()
		verr.Add("role", "Role must be one of admin, author, subscriber")
		return nil, verr
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error("Ошибка смены роли (service)", zap.Int("user_id", id), zap.Error(err))
		return nil, err
	}
	if err := s.sessions.DeleteByUser(ctx, id); err != nil {
		log.Error("Ошибка сброса сессий после смены роли (service)", zap.Int("user_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Роль изменена (service)", zap.Int("user_id", id), zap.String("role", role))
	return s.users.GetUserByID(ctx, id)
}

// DeleteUser удаляет аккаунт и его сессии. Админ не может удалить сам себя —
// защита от выпиливания последнего админа из-под собственной сессии.
func (s *UserService) DeleteUser(ctx context.Context, actor *models.AuthUser, id int) error {
	log := logger.WithCtx(ctx)

	if actor != nil && actor.ID == id {
		log.Warn("Попытка удалить собственный аккаунт админа (service)", zap.Int("user_id", id))
		return ErrBadRequest
	}

	if err := s.sessions.DeleteByUser(ctx, id); err != nil {
		return err
	}
	if err := s.users.DeleteUserByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		log.Error("Ошибка удаления пользователя (service)", zap.Int("user_id", id), zap.Error(err))
		return err
	}

	log.Info("Пользователь удалён (service)", zap.Int("user_id", id))
	return nil
}

func (s *UserService) Stats(ctx context.Context) (*models.SystemStats, error) {
	return s.users.GetSystemStats(ctx)
}
