package blog

import (
	"testing"

	"github.com/aerovista/core/internal/models"
	"github.com/aerovista/core/internal/pkg/pagination"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.BlogModel{}))
	return NewService(db)
}

func boolPtr(b bool) *bool { return &b }

func TestCreateAndSlugConflict(t *testing.T) {
	svc := newTestService(t)

	post, err := svc.Create(&CreateBlogDTO{
		Title: "Drone mapping 101",
		Slug:  "drone-mapping-101",
		Text:  "# Heading\n\nBody text.",
		Tags:  []string{"mapping", "guide"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.False(t, post.IsPublished)

	_, err = svc.Create(&CreateBlogDTO{Title: "Dup", Slug: "drone-mapping-101", Text: "x"})
	assert.ErrorIs(t, err, ErrSlugExists)
}

func TestPublicListOnlyPublished(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(&CreateBlogDTO{Title: "Draft", Slug: "draft", Text: "x"})
	require.NoError(t, err)
	_, err = svc.Create(&CreateBlogDTO{Title: "Live", Slug: "live", Text: "x", IsPublished: boolPtr(true)})
	require.NoError(t, err)

	posts, pag, err := svc.List(pagination.Query{Page: 1, Size: 10}, true, "")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "live", posts[0].Slug)
	assert.EqualValues(t, 1, pag.Total)

	posts, _, err = svc.List(pagination.Query{Page: 1, Size: 10}, false, "")
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestGetBySlugHidesDrafts(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(&CreateBlogDTO{Title: "Draft", Slug: "draft", Text: "x"})
	require.NoError(t, err)

	post, err := svc.GetBySlug("draft", false)
	require.NoError(t, err)
	assert.Nil(t, post)

	post, err = svc.GetBySlug("draft", true)
	require.NoError(t, err)
	require.NotNil(t, post)
}

func TestUpdatePartial(t *testing.T) {
	svc := newTestService(t)

	post, err := svc.Create(&CreateBlogDTO{Title: "Old", Slug: "old", Text: "x"})
	require.NoError(t, err)

	title := "New title"
	updated, err := svc.Update(post.ID, &UpdateBlogDTO{Title: &title, IsPublished: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "old", updated.Slug)
	assert.True(t, updated.IsPublished)

	missing, err := svc.Update("no-such-id", &UpdateBlogDTO{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRenderHTML(t *testing.T) {
	svc := newTestService(t)

	html, err := svc.RenderHTML("# Title\n\nSome **bold** text.")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestIncrementReadCount(t *testing.T) {
	svc := newTestService(t)

	post, err := svc.Create(&CreateBlogDTO{Title: "T", Slug: "t", Text: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.IncrementReadCount(post.ID))
	require.NoError(t, svc.IncrementReadCount(post.ID))

	got, err := svc.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ReadCount)
}
