package repository

import (
	"blogtalks/internal/models"
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO comments (post_id, user_id, parent_comment_id, body, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING comment_id, created_at`,
		c.PostID, c.UserID, c.ParentCommentID, c.Body, c.Status,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	query := `
	SELECT c.comment_id, c.post_id, c.user_id, c.parent_comment_id, c.body, c.status,
	       c.created_at, c.updated_at, u.user_id, u.username
	FROM comments c
	LEFT JOIN users u ON u.user_id = c.user_id
	WHERE c.comment_id = $1`

	c, err := scanComment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func scanComment(row interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	var commenterID *int
	var commenterName *string
	err := row.Scan(
		&c.ID, &c.PostID, &c.UserID, &c.ParentCommentID, &c.Body, &c.Status,
		&c.CreatedAt, &c.UpdatedAt, &commenterID, &commenterName,
	)
	if err != nil {
		return nil, err
	}
	if commenterID != nil && commenterName != nil {
		c.Commenter = &models.PostAuthor{ID: *commenterID, Username: *commenterName}
	}
	return &c, nil
}

// ListByPost — комментарии поста в хронологическом порядке.
// onlyApproved включает фильтр видимости для не-админов.
func (r *CommentRepository) ListByPost(ctx context.Context, postID int, onlyApproved bool) ([]*models.Comment, error) {
	query := `
	SELECT c.comment_id, c.post_id, c.user_id, c.parent_comment_id, c.body, c.status,
	       c.created_at, c.updated_at, u.user_id, u.username
	FROM comments c
	LEFT JOIN users u ON u.user_id = c.user_id
	WHERE c.post_id = $1`
	args := []any{postID}

	if onlyApproved {
		query += ` AND c.status = $2`
		args = append(args, models.CommentStatusApproved)
	}
	query += ` ORDER BY c.created_at ASC, c.comment_id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) Update(ctx context.Context, id int, body, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE comments SET body = $1, status = $2, updated_at = now() WHERE comment_id = $3`,
		body, status, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CommentRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE comments SET status = $1, updated_at = now() WHERE comment_id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CommentRepository) CountReplies(ctx context.Context, parentID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE parent_comment_id = $1`, parentID,
	).Scan(&count)
	return count, err
}

func (r *CommentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE comment_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CommentRepository) PostExists(ctx context.Context, postID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE post_id = $1)`, postID,
	).Scan(&exists)
	return exists, err
}
