package repository

import (
	"blogtalks/internal/models"
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TaxonomyRepo struct {
	db *pgxpool.Pool
}

func NewTaxonomyRepo(db *pgxpool.Pool) *TaxonomyRepo { return &TaxonomyRepo{db: db} }

// ----- Categories -----

func (r *TaxonomyRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO categories (name, description, slug) VALUES ($1,$2,$3) RETURNING category_id`,
		c.Name, c.Description, c.Slug,
	).Scan(&c.ID)
}

func (r *TaxonomyRepo) UpdateCategory(ctx context.Context, c *models.Category) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET name=$1, description=$2, slug=$3 WHERE category_id=$4`,
		c.Name, c.Description, c.Slug, c.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaxonomyRepo) DeleteCategory(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE category_id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaxonomyRepo) GetCategoryByID(ctx context.Context, id int) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRow(ctx,
		`SELECT category_id, name, description, slug FROM categories WHERE category_id=$1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Slug)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *TaxonomyRepo) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRow(ctx,
		`SELECT category_id, name, description, slug FROM categories WHERE slug=$1`, slug,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Slug)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *TaxonomyRepo) ListCategories(ctx context.Context, limit, offset int) ([]models.Category, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT category_id, name, description, slug FROM categories ORDER BY name ASC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Slug); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *TaxonomyRepo) CategorySlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE slug=$1 AND category_id<>$2)`,
		slug, excludeID,
	).Scan(&exists)
	return exists, err
}

// PostCountByCategory — сколько постов привязано к рубрике
// (удаление занятой рубрики запрещено).
func (r *TaxonomyRepo) PostCountByCategory(ctx context.Context, categoryID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM post_categories WHERE category_id=$1`, categoryID,
	).Scan(&count)
	return count, err
}

// ----- Tags -----

func (r *TaxonomyRepo) CreateTag(ctx context.Context, t *models.Tag) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tags (name, slug) VALUES ($1,$2) RETURNING tag_id`,
		t.Name, t.Slug,
	).Scan(&t.ID)
}

func (r *TaxonomyRepo) UpdateTag(ctx context.Context, t *models.Tag) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tags SET name=$1, slug=$2 WHERE tag_id=$3`,
		t.Name, t.Slug, t.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaxonomyRepo) DeleteTag(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tags WHERE tag_id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaxonomyRepo) GetTagByID(ctx context.Context, id int) (*models.Tag, error) {
	var t models.Tag
	err := r.db.QueryRow(ctx,
		`SELECT tag_id, name, slug FROM tags WHERE tag_id=$1`, id,
	).Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *TaxonomyRepo) GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var t models.Tag
	err := r.db.QueryRow(ctx,
		`SELECT tag_id, name, slug FROM tags WHERE slug=$1`, slug,
	).Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *TaxonomyRepo) ListTags(ctx context.Context, limit, offset int) ([]models.Tag, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tags`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT tag_id, name, slug FROM tags ORDER BY name ASC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *TaxonomyRepo) TagSlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM tags WHERE slug=$1 AND tag_id<>$2)`,
		slug, excludeID,
	).Scan(&exists)
	return exists, err
}

// TagNameOrSlugExists — проверка конфликта имени/слага при создании и
// обновлении тега.
func (r *TaxonomyRepo) TagNameOrSlugExists(ctx context.Context, name, slug string, excludeID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM tags WHERE (name=$1 OR slug=$2) AND tag_id<>$3)`,
		name, slug, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *TaxonomyRepo) PostCountByTag(ctx context.Context, tagID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM post_tags WHERE tag_id=$1`, tagID,
	).Scan(&count)
	return count, err
}
