package repository

import (
	"blogtalks/internal/logger"
	"blogtalks/internal/models"
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO sessions (id, user_id, role, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		s.ID, s.UserID, s.Role, s.ExpiresAt,
	).Scan(&s.CreatedAt)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка создания сессии (repo)", zap.Int("user_id", s.UserID), zap.Error(err))
	}
	return err
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, role, created_at, expires_at FROM sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.Role, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteByUser снимает все сессии пользователя (удаление аккаунта,
// смена роли админом).
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	return err
}
