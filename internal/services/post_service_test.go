package services

import (
	"context"
	"errors"
	"testing"

	"blogtalks/internal/models"
	"blogtalks/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// Мок-репозиторий постов
type mockPostRepo struct {
	posts  map[int]*models.Post
	nextID int

	// сколько первых вставок завершить нарушением уникальности
	failUnique int
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[int]*models.Post), nextID: 1}
}

func (m *mockPostRepo) Create(_ context.Context, p *models.Post, categoryIDs, tagIDs []int) error {
	if m.failUnique > 0 {
		m.failUnique--
		return &pgconn.PgError{Code: "23505", ConstraintName: "posts_slug_key"}
	}
	for _, existing := range m.posts {
		if existing.Slug == p.Slug {
			return &pgconn.PgError{Code: "23505", ConstraintName: "posts_slug_key"}
		}
	}
	p.ID = m.nextID
	m.nextID++
	cp := *p
	m.posts[cp.ID] = &cp
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id int) (*models.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPostRepo) List(_ context.Context, f models.PostFilter) ([]*models.Post, int, error) {
	var out []*models.Post
	for _, p := range m.posts {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockPostRepo) Update(_ context.Context, p *models.Post, categoryIDs, tagIDs *[]int) error {
	if _, ok := m.posts[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	m.posts[p.ID] = &cp
	return nil
}

func (m *mockPostRepo) Delete(_ context.Context, id int) error {
	if _, ok := m.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepo) SlugExists(_ context.Context, slug string, excludeID int) (bool, error) {
	for _, p := range m.posts {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func author(id int) *models.AuthUser {
	return &models.AuthUser{ID: id, Role: models.RoleAuthor}
}

func admin() *models.AuthUser {
	return &models.AuthUser{ID: 999, Role: models.RoleAdmin}
}

func TestPostCreate_SlugFromTitle(t *testing.T) {
	repo := newMockPostRepo()
	service := NewPostService(repo)

	post, err := service.Create(context.Background(), author(1), &models.CreatePostRequest{
		Title: "Hello, World!", Body: "text", Status: models.PostStatusPublished,
	})
	if err != nil {
		t.Fatalf("ошибка создания поста: %v", err)
	}
	if post.Slug != "hello-world" {
		t.Fatalf("slug = %q, ожидалось hello-world", post.Slug)
	}
}

func TestPostCreate_SlugCollision(t *testing.T) {
	repo := newMockPostRepo()
	service := NewPostService(repo)

	first, err := service.Create(context.Background(), author(1), &models.CreatePostRequest{
		Title: "Hello, World!", Body: "text",
	})
	if err != nil {
		t.Fatalf("первый пост: %v", err)
	}
	second, err := service.Create(context.Background(), author(1), &models.CreatePostRequest{
		Title: "Hello, World!", Body: "другой текст",
	})
	if err != nil {
		t.Fatalf("второй пост: %v", err)
	}

	if first.Slug != "hello-world" || second.Slug != "hello-world-1" {
		t.Fatalf("слаги = %q, %q; ожидались hello-world и hello-world-1", first.Slug, second.Slug)
	}

	third, err := service.Create(context.Background(), author(1), &models.CreatePostRequest{
		Title: "Hello, World!", Body: "и ещё один",
	})
	if err != nil {
		t.Fatalf("третий пост: %v", err)
	}
	if third.Slug != "hello-world-2" {
		t.Fatalf("третий slug = %q, ожидалось hello-world-2", third.Slug)
	}
}

func TestPostCreate_UniqueViolationRetry(t *testing.T) {
	repo := newMockPostRepo()
	repo.failUnique = 1 // первая вставка проигрывает гонку
	service := NewPostService(repo)

	post, err := service.Create(context.Background(), author(1), &models.CreatePostRequest{
		Title: "Racy Title", Body: "text",
	})
	if err != nil {
		t.Fatalf("повтор после 23505 должен пройти: %v", err)
	}
	if post.ID == 0 {
		t.Fatal("пост не сохранён после повтора")
	}
}

func TestPostCreate_Validation(t *testing.T) {
	service := NewPostService(newMockPostRepo())

	_, err := service.Create(context.Background(), author(1), &models.CreatePostRequest{
		Title: "", Body: "", Status: "archived",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ожидалась ValidationError, получено %v", err)
	}
	for _, field := range []string{"title", "body", "status"} {
		if len(verr.Fields[field]) == 0 {
			t.Errorf("ожидалась ошибка по полю %s: %+v", field, verr.Fields)
		}
	}
}

func TestPostGet_DraftVisibility(t *testing.T) {
	repo := newMockPostRepo()
	service := NewPostService(repo)

	post, err := service.Create(context.Background(), author(1), &models.CreatePostRequest{
		Title: "Draft Post", Body: "text", Status: models.PostStatusDraft,
	})
	if err != nil {
		t.Fatalf("создание черновика: %v", err)
	}

	// аноним
	if _, err := service.Get(context.Background(), nil, post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("аноним: ожидался ErrForbidden, получено %v", err)
	}
	// другой пользователь
	if _, err := service.Get(context.Background(), author(2), post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("чужой автор: ожидался ErrForbidden, получено %v", err)
	}
	// владелец
	if _, err := service.Get(context.Background(), author(1), post.ID); err != nil {
		t.Fatalf("владелец должен видеть черновик: %v", err)
	}
	// админ
	if _, err := service.Get(context.Background(), admin(), post.ID); err != nil {
		t.Fatalf("админ должен видеть черновик: %v", err)
	}
}

func TestPostList_NonAdminSeesPublishedOnly(t *testing.T) {
	repo := newMockPostRepo()
	service := NewPostService(repo)

	_, _ = service.Create(context.Background(), author(1), &models.CreatePostRequest{
		Title: "Draft", Body: "text", Status: models.PostStatusDraft,
	})
	_, _ = service.Create(context.Background(), author(1), &models.CreatePostRequest{
		Title: "Published", Body: "text", Status: models.PostStatusPublished,
	})

	// не-админ с фильтром draft всё равно получает только published
	posts, total, err := service.List(context.Background(), author(1),
		models.PostFilter{Status: models.PostStatusDraft, Limit: 10})
	if err != nil {
		t.Fatalf("ошибка выборки: %v", err)
	}
	if total != 1 || len(posts) != 1 || posts[0].Status != models.PostStatusPublished {
		t.Fatalf("не-админ видит лишнее: total=%d posts=%+v", total, posts)
	}

	// админ без фильтра видит всё
	_, total, err = service.List(context.Background(), admin(), models.PostFilter{Limit: 10})
	if err != nil {
		t.Fatalf("ошибка выборки: %v", err)
	}
	if total != 2 {
		t.Fatalf("админ должен видеть оба поста, total=%d", total)
	}
}

func TestPostUpdate_OwnerOrAdmin(t *testing.T) {
	repo := newMockPostRepo()
	service := NewPostService(repo)

	post, _ := service.Create(context.Background(), author(1), &models.CreatePostRequest{
		Title: "Mine", Body: "text", Status: models.PostStatusPublished,
	})

	newTitle := "Edited"
	if _, err := service.Update(context.Background(), author(2), post.ID,
		&models.UpdatePostRequest{Title: &newTitle}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("чужой автор: ожидался ErrForbidden, получено %v", err)
	}

	updated, err := service.Update(context.Background(), author(1), post.ID,
		&models.UpdatePostRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("владелец должен править пост: %v", err)
	}
	if updated.Title != "Edited" {
		t.Fatalf("title = %q, ожидалось Edited", updated.Title)
	}
	if updated.Slug != post.Slug {
		t.Fatalf("смена заголовка не должна менять слаг: %q -> %q", post.Slug, updated.Slug)
	}
}

func TestPostDelete(t *testing.T) {
	repo := newMockPostRepo()
	service := NewPostService(repo)

	post, _ := service.Create(context.Background(), author(1), &models.CreatePostRequest{
		Title: "Doomed", Body: "text",
	})

	if err := service.Delete(context.Background(), author(2), post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("чужой автор: ожидался ErrForbidden, получено %v", err)
	}
	if err := service.Delete(context.Background(), author(1), post.ID); err != nil {
		t.Fatalf("владелец должен удалить пост: %v", err)
	}
	if err := service.Delete(context.Background(), admin(), post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("повторное удаление: ожидался ErrNotFound, получено %v", err)
	}
}
