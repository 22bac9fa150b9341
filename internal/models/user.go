package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleAuthor     = "author"
	RoleSubscriber = "subscriber"
)

// ValidRole — известные роли (enum в таблице users).
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAuthor, RoleSubscriber:
		return true
	}
	return false
}

type User struct {
	ID                int        `json:"user_id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Role              string     `json:"role"`
	FirstName         *string    `json:"first_name,omitempty"`
	LastName          *string    `json:"last_name,omitempty"`
	Bio               *string    `json:"bio,omitempty"`
	ProfilePictureURL *string    `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// AuthUser — явный объект аутентифицированного пользователя,
// который передаётся через контекст запроса (никакого глобального состояния).
type AuthUser struct {
	ID   int
	Role string
}

func (u AuthUser) IsAdmin() bool { return u.Role == RoleAdmin }

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"` // username или email
	Password   string `json:"password"`
}

type UpdateProfileRequest struct {
	Username          *string `json:"username,omitempty"`
	Email             *string `json:"email,omitempty"`
	FirstName         *string `json:"first_name,omitempty"`
	LastName          *string `json:"last_name,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
}

// UpdateUserRequest — админское изменение пользователя.
type UpdateUserRequest struct {
	Role *string `json:"role,omitempty"`
}
