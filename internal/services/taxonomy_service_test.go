package services

import (
	"context"
	"errors"
	"testing"

	"blogtalks/internal/models"
	"blogtalks/internal/repository"
)

// Мок-репозиторий рубрик и тегов
type mockTaxonomyRepo struct {
	categories map[int]*models.Category
	tags       map[int]*models.Tag
	nextID     int

	postsByCategory map[int]int
	postsByTag      map[int]int
}

func newMockTaxonomyRepo() *mockTaxonomyRepo {
	return &mockTaxonomyRepo{
		categories:      make(map[int]*models.Category),
		tags:            make(map[int]*models.Tag),
		nextID:          1,
		postsByCategory: make(map[int]int),
		postsByTag:      make(map[int]int),
	}
}

func (m *mockTaxonomyRepo) CreateCategory(_ context.Context, c *models.Category) error {
	c.ID = m.nextID
	m.nextID++
	cp := *c
	m.categories[cp.ID] = &cp
	return nil
}

func (m *mockTaxonomyRepo) UpdateCategory(_ context.Context, c *models.Category) error {
	if _, ok := m.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *mockTaxonomyRepo) DeleteCategory(_ context.Context, id int) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockTaxonomyRepo) GetCategoryByID(_ context.Context, id int) (*models.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockTaxonomyRepo) GetCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockTaxonomyRepo) ListCategories(_ context.Context, limit, offset int) ([]models.Category, int, error) {
	var out []models.Category
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockTaxonomyRepo) CategorySlugExists(_ context.Context, slug string, excludeID int) (bool, error) {
	for _, c := range m.categories {
		if c.Slug == slug && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTaxonomyRepo) PostCountByCategory(_ context.Context, categoryID int) (int, error) {
	return m.postsByCategory[categoryID], nil
}

func (m *mockTaxonomyRepo) CreateTag(_ context.Context, t *models.Tag) error {
	t.ID = m.nextID
	m.nextID++
	cp := *t
	m.tags[cp.ID] = &cp
	return nil
}

func (m *mockTaxonomyRepo) UpdateTag(_ context.Context, t *models.Tag) error {
	if _, ok := m.tags[t.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *t
	m.tags[t.ID] = &cp
	return nil
}

func (m *mockTaxonomyRepo) DeleteTag(_ context.Context, id int) error {
	if _, ok := m.tags[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.tags, id)
	return nil
}

func (m *mockTaxonomyRepo) GetTagByID(_ context.Context, id int) (*models.Tag, error) {
	t, ok := m.tags[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockTaxonomyRepo) GetTagBySlug(_ context.Context, slug string) (*models.Tag, error) {
	for _, t := range m.tags {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockTaxonomyRepo) ListTags(_ context.Context, limit, offset int) ([]models.Tag, int, error) {
	var out []models.Tag
	for _, t := range m.tags {
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (m *mockTaxonomyRepo) TagSlugExists(_ context.Context, slug string, excludeID int) (bool, error) {
	for _, t := range m.tags {
		if t.Slug == slug && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTaxonomyRepo) TagNameOrSlugExists(_ context.Context, name, slug string, excludeID int) (bool, error) {
	for _, t := range m.tags {
		if (t.Name == name || (slug != "" && t.Slug == slug)) && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTaxonomyRepo) PostCountByTag(_ context.Context, tagID int) (int, error) {
	return m.postsByTag[tagID], nil
}

func TestCreateCategory_SlugProbe(t *testing.T) {
	repo := newMockTaxonomyRepo()
	service := NewTaxonomyService(repo)

	first, err := service.CreateCategory(context.Background(), &models.CreateCategoryRequest{Name: "Go News"})
	if err != nil {
		t.Fatalf("первая рубрика: %v", err)
	}
	second, err := service.CreateCategory(context.Background(), &models.CreateCategoryRequest{Name: "Go News"})
	if err != nil {
		t.Fatalf("вторая рубрика: %v", err)
	}
	if first.Slug != "go-news" || second.Slug != "go-news-1" {
		t.Fatalf("слаги = %q, %q; ожидались go-news и go-news-1", first.Slug, second.Slug)
	}
}

func TestDeleteCategory_InUse(t *testing.T) {
	repo := newMockTaxonomyRepo()
	service := NewTaxonomyService(repo)

	category, _ := service.CreateCategory(context.Background(), &models.CreateCategoryRequest{Name: "Busy"})
	repo.postsByCategory[category.ID] = 3

	if err := service.DeleteCategory(context.Background(), category.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("занятая рубрика: ожидался ErrConflict, получено %v", err)
	}

	repo.postsByCategory[category.ID] = 0
	if err := service.DeleteCategory(context.Background(), category.ID); err != nil {
		t.Fatalf("свободная рубрика должна удаляться: %v", err)
	}
}

func TestCreateTag_DuplicateName(t *testing.T) {
	repo := newMockTaxonomyRepo()
	service := NewTaxonomyService(repo)

	if _, err := service.CreateTag(context.Background(), &models.CreateTagRequest{Name: "golang"}); err != nil {
		t.Fatalf("первый тег: %v", err)
	}

	if _, err := service.CreateTag(context.Background(), &models.CreateTagRequest{Name: "golang"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("дубликат имени тега: ожидался ErrConflict, получено %v", err)
	}
}

func TestDeleteTag_InUse(t *testing.T) {
	repo := newMockTaxonomyRepo()
	service := NewTaxonomyService(repo)

	tag, _ := service.CreateTag(context.Background(), &models.CreateTagRequest{Name: "busy"})
	repo.postsByTag[tag.ID] = 1

	if err := service.DeleteTag(context.Background(), tag.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("занятый тег: ожидался ErrConflict, получено %v", err)
	}
}

func TestUpdateCategory_NotFound(t *testing.T) {
	service := NewTaxonomyService(newMockTaxonomyRepo())

	name := "Ghost"
	if _, err := service.UpdateCategory(context.Background(), 42,
		&models.UpdateCategoryRequest{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидался ErrNotFound, получено %v", err)
	}
}

func TestCreateCategory_InvalidName(t *testing.T) {
	service := NewTaxonomyService(newMockTaxonomyRepo())

	var verr *ValidationError
	if _, err := service.CreateCategory(context.Background(),
		&models.CreateCategoryRequest{Name: "   "}); !errors.As(err, &verr) {
		t.Fatalf("ожидалась ValidationError, получено %v", err)
	}
}
