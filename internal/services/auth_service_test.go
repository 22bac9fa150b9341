package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogtalks/internal/models"
	"blogtalks/internal/repository"
	"blogtalks/internal/utils"
)

// Мок-репозиторий пользователей (заглушка)
type mockUserRepo struct {
	users    map[string]*models.User
	lastUser *models.User
	nextID   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User), nextID: 1}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	m.users[user.Username] = user
	m.lastUser = user
	return nil
}

func (m *mockUserRepo) IsUsernameTaken(_ context.Context, username string, excludeID int) (bool, error) {
	u, ok := m.users[username]
	return ok && u.ID != excludeID, nil
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string, excludeID int) (bool, error) {
	for _, u := range m.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id int, input *models.UpdateProfileRequest) error {
	u, err := m.GetUserByID(context.Background(), id)
	if err != nil {
		return err
	}
	if input.Username != nil {
		delete(m.users, u.Username)
		u.Username = *input.Username
		m.users[u.Username] = u
	}
	if input.Email != nil {
		u.Email = *input.Email
	}
	if input.Bio != nil {
		u.Bio = input.Bio
	}
	return nil
}

func (m *mockUserRepo) GetAllUsersPaginated(_ context.Context, limit, offset int) ([]*models.User, int, error) {
	var all []*models.User
	for _, u := range m.users {
		all = append(all, u)
	}
	return all, len(all), nil
}

func (m *mockUserRepo) UpdateRole(_ context.Context, id int, role string) error {
	u, err := m.GetUserByID(context.Background(), id)
	if err != nil {
		return err
	}
	u.Role = role
	return nil
}

func (m *mockUserRepo) DeleteUserByID(_ context.Context, id int) error {
	for name, u := range m.users {
		if u.ID == id {
			delete(m.users, name)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockUserRepo) GetSystemStats(_ context.Context) (*models.SystemStats, error) {
	return &models.SystemStats{Users: len(m.users)}, nil
}

// Мок-репозиторий сессий
type mockSessionRepo struct {
	sessions map[string]*models.Session
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*models.Session)}
}

func (m *mockSessionRepo) Create(_ context.Context, s *models.Session) error {
	s.CreatedAt = time.Now()
	m.sessions[s.ID] = s
	return nil
}

func (m *mockSessionRepo) Get(_ context.Context, id string) (*models.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepo) DeleteByUser(_ context.Context, userID int) error {
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(_ context.Context) error {
	now := time.Now()
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
		}
	}
	return nil
}

func newAuthService(users *mockUserRepo, sessions *mockSessionRepo) *AuthService {
	return NewAuthService(users, sessions, 4, time.Hour)
}

func TestSignup(t *testing.T) {
	users := newMockUserRepo()
	service := newAuthService(users, newMockSessionRepo())

	user, err := service.Signup(context.Background(), &models.SignupRequest{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "Sup3r-secret",
	})
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	if users.lastUser == nil || users.lastUser.PasswordHash == "" {
		t.Fatal("пароль не захеширован или пользователь не сохранён")
	}
	if users.lastUser.PasswordHash == "Sup3r-secret" {
		t.Fatal("пароль сохранён открытым текстом")
	}
	if user.Role != models.RoleSubscriber {
		t.Fatalf("роль по умолчанию = %q, ожидалась subscriber", user.Role)
	}
}

func TestSignup_WeakPassword(t *testing.T) {
	service := newAuthService(newMockUserRepo(), newMockSessionRepo())

	_, err := service.Signup(context.Background(), &models.SignupRequest{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "short",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ожидалась ValidationError, получено %v", err)
	}
	if len(verr.Fields["password"]) == 0 {
		t.Fatalf("ожидалась ошибка по полю password: %+v", verr.Fields)
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	users := newMockUserRepo()
	service := newAuthService(users, newMockSessionRepo())

	req := &models.SignupRequest{Username: "dup", Email: "a@example.com", Password: "Sup3r-secret"}
	if _, err := service.Signup(context.Background(), req); err != nil {
		t.Fatalf("первая регистрация должна пройти: %v", err)
	}

	_, err := service.Signup(context.Background(), &models.SignupRequest{
		Username: "dup", Email: "b@example.com", Password: "Sup3r-secret",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("ожидался ErrConflict, получено %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessionRepo()
	service := newAuthService(users, sessions)

	hashed, _ := utils.HashPassword("Sup3r-secret", 4)
	users.users["testuser"] = &models.User{
		ID: 1, Username: "testuser", Email: "test@example.com",
		PasswordHash: hashed, Role: models.RoleAuthor,
	}

	// вход по username
	user, session, err := service.Login(context.Background(), "testuser", "Sup3r-secret")
	if err != nil {
		t.Fatalf("ошибка логина: %v", err)
	}
	if session.ID == "" || session.UserID != user.ID || session.Role != models.RoleAuthor {
		t.Fatalf("сессия выпущена неверно: %+v", session)
	}
	if _, ok := sessions.sessions[session.ID]; !ok {
		t.Fatal("сессия не сохранена")
	}

	// вход по email
	if _, _, err := service.Login(context.Background(), "test@example.com", "Sup3r-secret"); err != nil {
		t.Fatalf("вход по email должен работать: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	users := newMockUserRepo()
	service := newAuthService(users, newMockSessionRepo())

	hashed, _ := utils.HashPassword("Sup3r-secret", 4)
	users.users["testuser"] = &models.User{ID: 1, Username: "testuser", PasswordHash: hashed}

	if _, _, err := service.Login(context.Background(), "testuser", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("ожидался ErrUnauthorized, получено %v", err)
	}
	if _, _, err := service.Login(context.Background(), "unknown", "pass"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("несуществующий пользователь: ожидался ErrUnauthorized, получено %v", err)
	}
}

func TestResolveSession_Expired(t *testing.T) {
	sessions := newMockSessionRepo()
	service := newAuthService(newMockUserRepo(), sessions)

	sessions.sessions["expired"] = &models.Session{
		ID: "expired", UserID: 1, Role: models.RoleSubscriber,
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	if _, err := service.ResolveSession(context.Background(), "expired"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("просроченная сессия: ожидался ErrUnauthorized, получено %v", err)
	}
	if _, ok := sessions.sessions["expired"]; ok {
		t.Fatal("просроченная сессия должна быть удалена при обращении")
	}

	if _, err := service.ResolveSession(context.Background(), "missing"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("отозванная сессия: ожидался ErrUnauthorized, получено %v", err)
	}
}

func TestLogout(t *testing.T) {
	sessions := newMockSessionRepo()
	service := newAuthService(newMockUserRepo(), sessions)

	sessions.sessions["sid"] = &models.Session{ID: "sid", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}
	if err := service.Logout(context.Background(), "sid"); err != nil {
		t.Fatalf("ошибка выхода: %v", err)
	}
	if _, ok := sessions.sessions["sid"]; ok {
		t.Fatal("сессия не отозвана")
	}

	// отсутствие куки не считается ошибкой
	if err := service.Logout(context.Background(), ""); err != nil {
		t.Fatalf("пустой logout должен быть no-op: %v", err)
	}
}
