package models

import "time"

const (
	CommentStatusPending  = "pending"
	CommentStatusApproved = "approved"
	CommentStatusSpam     = "spam"
)

// CommentDeletedBody — чем заменяется тело комментария при мягком удалении.
const CommentDeletedBody = "[Comment deleted]"

type Comment struct {
	ID              int        `json:"comment_id"`
	PostID          int        `json:"post_id"`
	UserID          *int       `json:"user_id,omitempty"`
	ParentCommentID *int       `json:"parent_comment_id,omitempty"`
	Body            string     `json:"body"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`

	Commenter *PostAuthor `json:"commenter,omitempty"`
}

// CommentNode — узел дерева ответов. Replies всегда не-nil,
// чтобы в JSON уходил [] вместо null.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}

type CreateCommentRequest struct {
	CommentBody     string `json:"commentBody"`
	ParentCommentID *int   `json:"parentCommentId,omitempty"`
}

type UpdateCommentRequest struct {
	CommentBody string `json:"commentBody"`
}

type ModerateCommentRequest struct {
	Status string `json:"status"` // approved|spam|pending
}
