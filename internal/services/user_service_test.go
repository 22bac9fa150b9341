package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogtalks/internal/models"
)

func seedUser(users *mockUserRepo, id int, username, email string) *models.User {
	u := &models.User{ID: id, Username: username, Email: email, Role: models.RoleSubscriber}
	users.users[username] = u
	if id >= users.nextID {
		users.nextID = id + 1
	}
	return u
}

func TestUpdateProfile_Forbidden(t *testing.T) {
	users := newMockUserRepo()
	service := NewUserService(users, newMockSessionRepo())
	seedUser(users, 1, "alice", "alice@example.com")

	bio := "hi"
	if _, err := service.UpdateProfile(context.Background(), subscriber(2), 1,
		&models.UpdateProfileRequest{Bio: &bio}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("чужой профиль: ожидался ErrForbidden, получено %v", err)
	}

	// админ может править любой профиль
	if _, err := service.UpdateProfile(context.Background(), admin(), 1,
		&models.UpdateProfileRequest{Bio: &bio}); err != nil {
		t.Fatalf("админ должен править профиль: %v", err)
	}
}

func TestUpdateProfile_UniquenessAsValidation(t *testing.T) {
	users := newMockUserRepo()
	service := NewUserService(users, newMockSessionRepo())
	seedUser(users, 1, "alice", "alice@example.com")
	seedUser(users, 2, "bob", "bob@example.com")

	taken := "alice"
	_, err := service.UpdateProfile(context.Background(), subscriber(2), 2,
		&models.UpdateProfileRequest{Username: &taken})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("занятый username: ожидалась ValidationError, получено %v", err)
	}
	if len(verr.Fields["username"]) == 0 {
		t.Fatalf("ожидалась ошибка по полю username: %+v", verr.Fields)
	}

	// своё собственное имя — не конфликт
	own := "bob"
	if _, err := service.UpdateProfile(context.Background(), subscriber(2), 2,
		&models.UpdateProfileRequest{Username: &own}); err != nil {
		t.Fatalf("собственное имя не должно конфликтовать: %v", err)
	}
}

func TestChangeRole_RevokesSessions(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessionRepo()
	service := NewUserService(users, sessions)
	seedUser(users, 1, "alice", "alice@example.com")

	sessions.sessions["sid"] = &models.Session{
		ID: "sid", UserID: 1, Role: models.RoleSubscriber,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	user, err := service.ChangeRole(context.Background(), 1, models.RoleAuthor)
	if err != nil {
		t.Fatalf("ошибка смены роли: %v", err)
	}
	if user.Role != models.RoleAuthor {
		t.Fatalf("роль = %q, ожидалась author", user.Role)
	}
	if len(sessions.sessions) != 0 {
		t.Fatal("сессии с устаревшей ролью должны быть отозваны")
	}

	var verr *ValidationError
	if _, err := service.ChangeRole(context.Background(), 1, "superuser"); !errors.As(err, &verr) {
		t.Fatalf("невалидная роль: ожидалась ValidationError, получено %v", err)
	}
}

func TestDeleteUser_SelfProtection(t *testing.T) {
	users := newMockUserRepo()
	service := NewUserService(users, newMockSessionRepo())
	seedUser(users, 1, "root", "root@example.com")
	seedUser(users, 2, "victim", "victim@example.com")

	self := &models.AuthUser{ID: 1, Role: models.RoleAdmin}
	if err := service.DeleteUser(context.Background(), self, 1); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("удаление себя: ожидался ErrBadRequest, получено %v", err)
	}

	if err := service.DeleteUser(context.Background(), self, 2); err != nil {
		t.Fatalf("удаление другого пользователя: %v", err)
	}
	if err := service.DeleteUser(context.Background(), self, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("повторное удаление: ожидался ErrNotFound, получено %v", err)
	}
}
