package models

import "time"

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

type Post struct {
	ID        int        `json:"post_id"`
	UserID    int        `json:"user_id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Body      string     `json:"body"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	Author     *PostAuthor `json:"author,omitempty"`
	Categories []Category  `json:"categories,omitempty"`
	Tags       []Tag       `json:"tags,omitempty"`
}

// PostAuthor — урезанная проекция автора в ответах (без email и хеша).
type PostAuthor struct {
	ID       int    `json:"user_id"`
	Username string `json:"username"`
}

type CreatePostRequest struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	Slug        string `json:"slug,omitempty"`
	Status      string `json:"status"`
	CategoryIDs []int  `json:"category_ids,omitempty"`
	TagIDs      []int  `json:"tag_ids,omitempty"`
}

type UpdatePostRequest struct {
	Title       *string `json:"title,omitempty"`
	Body        *string `json:"body,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Status      *string `json:"status,omitempty"`
	CategoryIDs *[]int  `json:"category_ids,omitempty"`
	TagIDs      *[]int  `json:"tag_ids,omitempty"`
}

// PostFilter — явная типизированная замена динамическим where-объектам ORM.
type PostFilter struct {
	Status       string // пустая строка — без фильтра по статусу
	CategorySlug string
	TagSlug      string
	Search       string
	Limit        int
	Offset       int
}
