package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"blogtalks/internal/repository"
	"blogtalks/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService struct {
	users      UserRepo
	sessions   SessionRepo
	bcryptCost int
	sessionTTL time.Duration
}

func NewAuthService(users UserRepo, sessions SessionRepo, bcryptCost int, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	return &AuthService{users: users, sessions: sessions, bcryptCost: bcryptCost, sessionTTL: sessionTTL}
}

type UserRepo interface {
	CreateUser(ctx context.Context, user *models.User) error
	IsUsernameTaken(ctx context.Context, username string, excludeID int) (bool, error)
	IsEmailTaken(ctx context.Context, email string, excludeID int) (bool, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	UpdateProfile(ctx context.Context, id int, input *models.UpdateProfileRequest) error
	GetAllUsersPaginated(ctx context.Context, limit, offset int) ([]*models.User, int, error)
	UpdateRole(ctx context.Context, id int, role string) error
	DeleteUserByID(ctx context.Context, id int) error
	GetSystemStats(ctx context.Context) (*models.SystemStats, error)
}

type SessionRepo interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID int) error
	DeleteExpired(ctx context.Context) error
}

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func validateSignup(req *models.SignupRequest) *ValidationError {
	verr := NewValidationError()

	if l := len(req.Username); l < 1 || l > 100 {
		verr.Add("username", "Username must be between 1 and 100 characters")
	} else if !usernameRe.MatchString(req.Username) {
		verr.Add("username", "Username can only contain letters, numbers, dots, underscores, or hyphens")
	}

	if !emailRe.MatchString(req.Email) {
		verr.Add("email", "Invalid email format")
	}

	if err := validatePasswordStrength(req.Password); err != "" {
		verr.Add("password", err)
	}

	if req.Role != "" && !models.ValidRole(req.Role) {
		verr.Add("role", "Role must be one of admin, author, subscriber")
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

// Пароль: минимум 8 символов, строчная, заглавная, цифра и спецсимвол.
func validatePasswordStrength(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long"
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !lower || !upper || !digit || !special {
		return "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
	}
	return ""
}

// Signup регистрирует пользователя. Дубликаты username/email — ErrConflict.
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	log := logger.WithCtx(ctx)
	log.Info("Регистрация пользователя (service)", zap.String("username", req.Username), zap.String("email", req.Email))

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if verr := validateSignup(req); verr != nil {
		log.Warn("Валидация регистрации не пройдена", zap.Int("fields", len(verr.Fields)))
		return nil, verr
	}

	if taken, err := s.users.IsUsernameTaken(ctx, req.Username, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("%w: Username is already taken", ErrConflict)
	}
	if taken, err := s.users.IsEmailTaken(ctx, req.Email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("%w: Email is already registered", ErrConflict)
	}

	hashed, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		log.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleSubscriber
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         role,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			// гонка с конкурентной регистрацией — проверка прошла, вставка нет
			return nil, ErrConflict
		}
		log.Error("Ошибка создания пользователя", zap.Error(err))
		return nil, err
	}

	log.Info("Пользователь зарегистрирован (service)", zap.Int("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}

// Login проверяет пароль и выпускает серверную сессию с новым UUID.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*models.User, *models.Session, error) {
	log := logger.WithCtx(ctx)
	log.Info("Попытка входа (service)", zap.String("identifier", identifier))

	user, err := s.users.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("Пользователь не найден (service)", zap.String("identifier", identifier))
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		log.Warn("Неверный пароль (service)", zap.Int("user_id", user.ID))
		return nil, nil, ErrUnauthorized
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, err
	}

	log.Info("Вход выполнен (service)", zap.Int("user_id", user.ID), zap.String("role", user.Role))
	return user, session, nil
}

// Logout снимает сессию; отсутствие сессии не считается ошибкой.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	logger.WithCtx(ctx).Info("Выход пользователя (service)")
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// ResolveSession читает сессию заново на каждый запрос и отбрасывает
// просроченные.
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (*models.AuthUser, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, ErrUnauthorized
	}
	return &models.AuthUser{ID: session.UserID, Role: session.Role}, nil
}

func (s *AuthService) CleanupExpiredSessions(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}
