package blog

import (
	"time"

	"github.com/aerovista/core/internal/models"
)

// CreateBlogDTO is the request body for creating a post.
type CreateBlogDTO struct {
	Title       string   `json:"title" binding:"required"`
	Slug        string   `json:"slug"  binding:"required"`
	Summary     string   `json:"summary"`
	Text        string   `json:"text"  binding:"required"`
	CoverImage  string   `json:"coverImage"`
	Tags        []string `json:"tags"`
	Author      string   `json:"author"`
	IsPublished *bool    `json:"isPublished"`
}

// UpdateBlogDTO is the request body for updating a post (all fields optional).
type UpdateBlogDTO struct {
	Title       *string  `json:"title"`
	Slug        *string  `json:"slug"`
	Summary     *string  `json:"summary"`
	Text        *string  `json:"text"`
	CoverImage  *string  `json:"coverImage"`
	Tags        []string `json:"tags"`
	Author      *string  `json:"author"`
	IsPublished *bool    `json:"isPublished"`
}

// blogResponse is the API shape for a post. HTML is only filled on the
// public slug endpoint.
type blogResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Text        string     `json:"text"`
	HTML        string     `json:"html,omitempty"`
	CoverImage  string     `json:"coverImage"`
	Tags        []string   `json:"tags"`
	Author      string     `json:"author"`
	IsPublished bool       `json:"isPublished"`
	Read        int        `json:"read"`
	Created     time.Time  `json:"created"`
	Modified    *time.Time `json:"modified"`
}

func toResponse(b *models.BlogModel) blogResponse {
	tags := []string(b.Tags)
	if tags == nil {
		tags = []string{}
	}
	var modified *time.Time
	if !b.UpdatedAt.IsZero() {
		m := b.UpdatedAt
		modified = &m
	}
	return blogResponse{
		ID:          b.ID,
		Title:       b.Title,
		Slug:        b.Slug,
		Summary:     b.Summary,
		Text:        b.Text,
		CoverImage:  b.CoverImage,
		Tags:        tags,
		Author:      b.Author,
		IsPublished: b.IsPublished,
		Read:        b.ReadCount,
		Created:     b.CreatedAt,
		Modified:    modified,
	}
}
