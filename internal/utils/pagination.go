package utils

import (
	"net/url"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 50
)

// PaginationOptions — нормализованные параметры страницы.
type PaginationOptions struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationMeta — навигационные метаданные для ответа.
type PaginationMeta struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
	NextPage    *int `json:"nextPage"`
	PrevPage    *int `json:"prevPage"`
}

// ParsePagination читает page/limit из query-параметров.
// Нечисловой ввод — page 1 / limit 10; limit зажимается в [1,50], page ≥ 1.
func ParsePagination(query url.Values) PaginationOptions {
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil {
		page = defaultPage
	}
	if page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return PaginationOptions{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// BuildPaginationMeta считает totalPages (минимум 1) и указатели next/prev.
func BuildPaginationMeta(totalCount int, opts PaginationOptions) PaginationMeta {
	totalPages := (totalCount + opts.Limit - 1) / opts.Limit
	if totalPages < 1 {
		totalPages = 1
	}

	meta := PaginationMeta{
		CurrentPage: opts.Page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		Limit:       opts.Limit,
		HasNextPage: opts.Page < totalPages,
		HasPrevPage: opts.Page > 1,
	}
	if meta.HasNextPage {
		next := opts.Page + 1
		meta.NextPage = &next
	}
	if meta.HasPrevPage {
		prev := opts.Page - 1
		meta.PrevPage = &prev
	}
	return meta
}
