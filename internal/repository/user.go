package repository

import (
	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `user_id, username, email, role, first_name, last_name, bio, profile_picture_url, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Role,
		&u.FirstName,
		&u.LastName,
		&u.Bio,
		&u.ProfilePictureURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	logger.WithCtx(ctx).Info("Создание пользователя (repo)", zap.String("username", user.Username), zap.String("email", user.Email))
	query := `
	INSERT INTO users (username, email, password, role)
	VALUES ($1, $2, $3, $4)
	RETURNING user_id, created_at`
	return r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt)
}

// IsUsernameTaken проверяет занятость имени; excludeID > 0 исключает
// собственную строку при обновлении профиля.
func (r *UserRepository) IsUsernameTaken(ctx context.Context, username string, excludeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND user_id <> $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, username, excludeID).Scan(&exists)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка проверки username (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) IsEmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND user_id <> $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email, excludeID).Scan(&exists)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка проверки email (repo)", zap.Error(err))
	}
	return exists, err
}

// GetByIdentifier ищет пользователя по username или email (вход по любому
// из них) и возвращает его вместе с хешем пароля.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	query := `SELECT ` + userColumns + `, password
	FROM users
	WHERE username = $1 OR email = $1`

	var u models.User
	err := r.db.QueryRow(ctx, query, identifier).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Role,
		&u.FirstName,
		&u.LastName,
		&u.Bio,
		&u.ProfilePictureURL,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.PasswordHash,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// UpdateProfile обновляет только переданные поля.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int, input *models.UpdateProfileRequest) error {
	sets := []string{}
	args := []any{}

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if input.Username != nil {
		add("username", *input.Username)
	}
	if input.Email != nil {
		add("email", *input.Email)
	}
	if input.FirstName != nil {
		add("first_name", *input.FirstName)
	}
	if input.LastName != nil {
		add("last_name", *input.LastName)
	}
	if input.Bio != nil {
		add("bio", *input.Bio)
	}
	if input.ProfilePictureURL != nil {
		add("profile_picture_url", *input.ProfilePictureURL)
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE user_id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка обновления профиля (repo)", zap.Int("user_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) GetAllUsersPaginated(ctx context.Context, limit, offset int) ([]*models.User, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY user_id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int, role string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET role = $1, updated_at = now() WHERE user_id = $2`, role, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) DeleteUserByID(ctx context.Context, id int) error {
	logger.WithCtx(ctx).Info("Удаление пользователя (repo)", zap.Int("user_id", id))
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) GetSystemStats(ctx context.Context) (*models.SystemStats, error) {
	query := `
	SELECT
	  (SELECT COUNT(*) FROM users),
	  (SELECT COUNT(*) FROM posts),
	  (SELECT COUNT(*) FROM posts WHERE status = 'published'),
	  (SELECT COUNT(*) FROM comments),
	  (SELECT COUNT(*) FROM comments WHERE status = 'pending'),
	  (SELECT COUNT(*) FROM categories),
	  (SELECT COUNT(*) FROM tags)`

	var s models.SystemStats
	err := r.db.QueryRow(ctx, query).Scan(
		&s.Users,
		&s.Posts,
		&s.PublishedPosts,
		&s.Comments,
		&s.PendingComments,
		&s.Categories,
		&s.Tags,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
