package repository

import (
	"blogtalks/internal/models"
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostRepository struct {
	db *pgxpool.Pool
}

func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

// Create вставляет пост и связи с рубриками/тегами одной транзакцией.
func (r *PostRepository) Create(ctx context.Context, p *models.Post, categoryIDs, tagIDs []int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO posts (user_id, title, slug, body, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING post_id, created_at`,
		p.UserID, p.Title, p.Slug, p.Body, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return err
	}

	if err := replaceJoinRows(ctx, tx, "post_categories", "category_id", p.ID, categoryIDs, false); err != nil {
		return err
	}
	if err := replaceJoinRows(ctx, tx, "post_tags", "tag_id", p.ID, tagIDs, false); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func replaceJoinRows(ctx context.Context, tx pgx.Tx, table, column string, postID int, ids []int, clear bool) error {
	if clear {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE post_id = $1`, table), postID); err != nil {
			return err
		}
	}
	for _, id := range ids {
		_, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (post_id, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`, table, column),
			postID, id,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	query := `
	SELECT p.post_id, p.user_id, p.title, p.slug, p.body, p.status, p.created_at, p.updated_at,
	       u.user_id, u.username
	FROM posts p
	JOIN users u ON u.user_id = p.user_id
	WHERE p.post_id = $1`

	var p models.Post
	var author models.PostAuthor
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Title, &p.Slug, &p.Body, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		&author.ID, &author.Username,
	)
	if err != nil {
		return nil, notFound(err)
	}
	p.Author = &author

	if err := r.loadTaxonomies(ctx, []*models.Post{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// List возвращает страницу постов по типизированному фильтру и общее
// количество подходящих строк. Фильтры по рубрике/тегу — EXISTS-подзапросы,
// чтобы не плодить дубликаты строк через JOIN.
func (r *PostRepository) List(ctx context.Context, f models.PostFilter) ([]*models.Post, int, error) {
	conds := []string{}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "p.status = "+arg(f.Status))
	}
	if f.CategorySlug != "" {
		conds = append(conds, `EXISTS (
		  SELECT 1 FROM post_categories pc
		  JOIN categories c ON c.category_id = pc.category_id
		  WHERE pc.post_id = p.post_id AND c.slug = `+arg(f.CategorySlug)+`)`)
	}
	if f.TagSlug != "" {
		conds = append(conds, `EXISTS (
		  SELECT 1 FROM post_tags pt
		  JOIN tags t ON t.tag_id = pt.tag_id
		  WHERE pt.post_id = p.post_id AND t.slug = `+arg(f.TagSlug)+`)`)
	}
	if f.Search != "" {
		pattern := arg("%" + f.Search + "%")
		conds = append(conds, "(p.title ILIKE "+pattern+" OR p.body ILIKE "+pattern+")")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
	SELECT p.post_id, p.user_id, p.title, p.slug, p.body, p.status, p.created_at, p.updated_at,
	       u.user_id, u.username
	FROM posts p
	JOIN users u ON u.user_id = p.user_id` + where + `
	ORDER BY p.created_at DESC
	LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var p models.Post
		var author models.PostAuthor
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Title, &p.Slug, &p.Body, &p.Status, &p.CreatedAt, &p.UpdatedAt,
			&author.ID, &author.Username,
		); err != nil {
			return nil, 0, err
		}
		p.Author = &author
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadTaxonomies(ctx, posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// loadTaxonomies дозагружает рубрики и теги для набора постов двумя запросами.
func (r *PostRepository) loadTaxonomies(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[int]*models.Post, len(posts))
	ids := make([]int, 0, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	catRows, err := r.db.Query(ctx, `
	SELECT pc.post_id, c.category_id, c.name, c.description, c.slug
	FROM post_categories pc
	JOIN categories c ON c.category_id = pc.category_id
	WHERE pc.post_id = ANY($1)
	ORDER BY c.name`, ids)
	if err != nil {
		return err
	}
	defer catRows.Close()
	for catRows.Next() {
		var postID int
		var c models.Category
		if err := catRows.Scan(&postID, &c.ID, &c.Name, &c.Description, &c.Slug); err != nil {
			return err
		}
		if p, ok := byID[postID]; ok {
			p.Categories = append(p.Categories, c)
		}
	}
	if err := catRows.Err(); err != nil {
		return err
	}

	tagRows, err := r.db.Query(ctx, `
	SELECT pt.post_id, t.tag_id, t.name, t.slug
	FROM post_tags pt
	JOIN tags t ON t.tag_id = pt.tag_id
	WHERE pt.post_id = ANY($1)
	ORDER BY t.name`, ids)
	if err != nil {
		return err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var postID int
		var t models.Tag
		if err := tagRows.Scan(&postID, &t.ID, &t.Name, &t.Slug); err != nil {
			return err
		}
		if p, ok := byID[postID]; ok {
			p.Tags = append(p.Tags, t)
		}
	}
	return tagRows.Err()
}

// Update перезаписывает колонки поста и, если переданы, наборы связей.
func (r *PostRepository) Update(ctx context.Context, p *models.Post, categoryIDs, tagIDs *[]int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE posts SET title = $1, slug = $2, body = $3, status = $4, updated_at = now()
		 WHERE post_id = $5`,
		p.Title, p.Slug, p.Body, p.Status, p.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if categoryIDs != nil {
		if err := replaceJoinRows(ctx, tx, "post_categories", "category_id", p.ID, *categoryIDs, true); err != nil {
			return err
		}
	}
	if tagIDs != nil {
		if err := replaceJoinRows(ctx, tx, "post_tags", "tag_id", p.ID, *tagIDs, true); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete удаляет пост вместе с его комментариями; строки в join-таблицах
// снимает каскад по внешнему ключу.
func (r *PostRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE post_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// SlugExists — проба уникальности; excludeID > 0 исключает собственную
// строку при обновлении.
func (r *PostRepository) SlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1 AND post_id <> $2)`,
		slug, excludeID,
	).Scan(&exists)
	return exists, err
}
