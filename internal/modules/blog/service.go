package blog

import (
	"bytes"
	"errors"
	"strings"

	"github.com/aerovista/core/internal/models"
	"github.com/aerovista/core/internal/pkg/pagination"
	"github.com/aerovista/core/internal/pkg/response"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gorm.io/gorm"
)

var ErrSlugExists = errors.New("slug already exists")

// Service owns blog persistence and markdown rendering.
type Service struct {
	db *gorm.DB
	md goldmark.Markdown
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db: db,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// RenderHTML converts the markdown body to HTML.
func (s *Service) RenderHTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// List returns posts, optionally restricted to published only.
func (s *Service) List(q pagination.Query, publishedOnly bool, tag string) ([]models.BlogModel, response.Pagination, error) {
	tx := s.db.Model(&models.BlogModel{}).Order("created_at DESC")
	if publishedOnly {
		tx = tx.Where("is_published = ?", true)
	}
	if tag != "" {
		tx = tx.Where("tags LIKE ?", "%\""+tag+"\"%")
	}

	var posts []models.BlogModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

// GetBySlug loads a post by slug. Unpublished posts are hidden from the
// public.
func (s *Service) GetBySlug(slug string, includeUnpublished bool) (*models.BlogModel, error) {
	tx := s.db.Where("slug = ?", slug)
	if !includeUnpublished {
		tx = tx.Where("is_published = ?", true)
	}
	var post models.BlogModel
	if err := tx.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByID loads a post by primary key.
func (s *Service) GetByID(id string) (*models.BlogModel, error) {
	var post models.BlogModel
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post. The slug must be unique.
func (s *Service) Create(dto *CreateBlogDTO) (*models.BlogModel, error) {
	slug := strings.TrimSpace(dto.Slug)

	var count int64
	if err := s.db.Model(&models.BlogModel{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	post := &models.BlogModel{
		Title:      dto.Title,
		Slug:       slug,
		Summary:    dto.Summary,
		Text:       dto.Text,
		CoverImage: dto.CoverImage,
		Tags:       dto.Tags,
		Author:     dto.Author,
	}
	if dto.IsPublished != nil {
		post.IsPublished = *dto.IsPublished
	}
	if err := s.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// Update applies a partial update and returns the post, or nil when missing.
func (s *Service) Update(id string, dto *UpdateBlogDTO) (*models.BlogModel, error) {
	post, err := s.GetByID(id)
	if err != nil || post == nil {
		return post, err
	}

	if dto.Slug != nil && *dto.Slug != post.Slug {
		var count int64
		if err := s.db.Model(&models.BlogModel{}).
			Where("slug = ? AND id <> ?", *dto.Slug, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugExists
		}
		post.Slug = *dto.Slug
	}
	if dto.Title != nil {
		post.Title = *dto.Title
	}
	if dto.Summary != nil {
		post.Summary = *dto.Summary
	}
	if dto.Text != nil {
		post.Text = *dto.Text
	}
	if dto.CoverImage != nil {
		post.CoverImage = *dto.CoverImage
	}
	if dto.Tags != nil {
		post.Tags = dto.Tags
	}
	if dto.Author != nil {
		post.Author = *dto.Author
	}
	if dto.IsPublished != nil {
		post.IsPublished = *dto.IsPublished
	}

	if err := s.db.Save(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.BlogModel{}, "id = ?", id).Error
}

// IncrementReadCount bumps the read counter.
func (s *Service) IncrementReadCount(id string) error {
	return s.db.Model(&models.BlogModel{}).
		Where("id = ?", id).
		UpdateColumn("read_count", gorm.Expr("read_count + 1")).Error
}
