package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aerovista/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Importer copies the legacy MongoDB collections into the relational store.
// Runs are idempotent: rows whose natural key already exists are skipped.
type Importer struct {
	db  *gorm.DB
	log *zap.Logger
}

// Report counts what a run did per collection.
type Report struct {
	Imported map[string]int `json:"imported"`
	Skipped  map[string]int `json:"skipped"`
}

func newReport() *Report {
	return &Report{Imported: map[string]int{}, Skipped: map[string]int{}}
}

func New(db *gorm.DB, log *zap.Logger) *Importer {
	return &Importer{db: db, log: log}
}

// Run connects to the legacy database and imports every known collection.
// The database name comes from the URI path, falling back to "aerovista".
func (im *Importer) Run(ctx context.Context, uri string) (*Report, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to legacy mongo: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping legacy mongo: %w", err)
	}

	dbName := databaseFromURI(uri)
	legacy := client.Database(dbName)
	report := newReport()

	steps := []struct {
		collection string
		importFn   func(context.Context, *mongo.Collection, *Report) error
	}{
		{"blogs", im.importBlogs},
		{"portfolios", im.importPortfolios},
		{"quotations", im.importQuotations},
		{"newsletters", im.importSubscribers},
		{"chatmessages", im.importChatMessages},
	}
	for _, step := range steps {
		if err := step.importFn(ctx, legacy.Collection(step.collection), report); err != nil {
			return report, fmt.Errorf("import %s: %w", step.collection, err)
		}
		im.log.Info("collection imported",
			zap.String("collection", step.collection),
			zap.Int("imported", report.Imported[step.collection]),
			zap.Int("skipped", report.Skipped[step.collection]))
	}
	return report, nil
}

func databaseFromURI(uri string) string {
	trimmed := strings.TrimSuffix(uri, "/")
	if i := strings.LastIndex(trimmed, "/"); i > strings.Index(trimmed, "//")+1 {
		name := trimmed[i+1:]
		if j := strings.IndexByte(name, '?'); j >= 0 {
			name = name[:j]
		}
		if name != "" && !strings.Contains(name, "@") && !strings.Contains(name, ":") {
			return name
		}
	}
	return "aerovista"
}

func (im *Importer) eachDoc(ctx context.Context, col *mongo.Collection, fn func(doc map[string]interface{}) error) error {
	cursor, err := col.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return err
		}
		doc, _ := normalizeValue(map[string]interface{}(raw)).(map[string]interface{})
		if doc == nil {
			continue
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func (im *Importer) importBlogs(ctx context.Context, col *mongo.Collection, report *Report) error {
	return im.eachDoc(ctx, col, func(doc map[string]interface{}) error {
		m := MapBlog(doc)
		if m == nil {
			report.Skipped["blogs"]++
			return nil
		}

		var count int64
		if err := im.db.Model(&models.BlogModel{}).Where("slug = ?", m.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			report.Skipped["blogs"]++
			return nil
		}
		if err := im.db.Create(m).Error; err != nil {
			return err
		}
		report.Imported["blogs"]++
		return nil
	})
}

func (im *Importer) importPortfolios(ctx context.Context, col *mongo.Collection, report *Report) error {
	return im.eachDoc(ctx, col, func(doc map[string]interface{}) error {
		m := MapPortfolio(doc)
		if m == nil {
			report.Skipped["portfolios"]++
			return nil
		}

		var count int64
		if err := im.db.Model(&models.PortfolioModel{}).Where("id = ?", m.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			report.Skipped["portfolios"]++
			return nil
		}
		if err := im.db.Create(m).Error; err != nil {
			return err
		}
		report.Imported["portfolios"]++
		return nil
	})
}

func (im *Importer) importQuotations(ctx context.Context, col *mongo.Collection, report *Report) error {
	return im.eachDoc(ctx, col, func(doc map[string]interface{}) error {
		m := MapQuotation(doc)
		if m == nil {
			report.Skipped["quotations"]++
			return nil
		}

		var count int64
		if err := im.db.Model(&models.QuotationModel{}).Where("id = ?", m.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			report.Skipped["quotations"]++
			return nil
		}
		if err := im.db.Create(m).Error; err != nil {
			return err
		}
		report.Imported["quotations"]++
		return nil
	})
}

func (im *Importer) importSubscribers(ctx context.Context, col *mongo.Collection, report *Report) error {
	return im.eachDoc(ctx, col, func(doc map[string]interface{}) error {
		m := MapSubscriber(doc)
		if m == nil {
			report.Skipped["newsletters"]++
			return nil
		}

		var count int64
		if err := im.db.Model(&models.NewsletterModel{}).Where("email = ?", m.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			report.Skipped["newsletters"]++
			return nil
		}
		if err := im.db.Create(m).Error; err != nil {
			return err
		}
		report.Imported["newsletters"]++
		return nil
	})
}

func (im *Importer) importChatMessages(ctx context.Context, col *mongo.Collection, report *Report) error {
	return im.eachDoc(ctx, col, func(doc map[string]interface{}) error {
		m := MapChatMessage(doc)
		if m == nil {
			report.Skipped["chatmessages"]++
			return nil
		}

		var count int64
		if err := im.db.Model(&models.ChatMessageModel{}).Where("id = ?", m.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			report.Skipped["chatmessages"]++
			return nil
		}
		if err := im.db.Create(m).Error; err != nil {
			return err
		}
		report.Imported["chatmessages"]++
		return nil
	})
}

// MapBlog builds a blog row from a legacy document, nil when the document
// lacks a slug or title.
func MapBlog(doc map[string]interface{}) *models.BlogModel {
	slug := docString(doc, "slug")
	title := docString(doc, "title")
	if slug == "" || title == "" {
		return nil
	}

	m := &models.BlogModel{
		Title:       title,
		Slug:        slug,
		Summary:     docString(doc, "summary", "excerpt"),
		Text:        docString(doc, "content", "text"),
		CoverImage:  docString(doc, "coverImage", "cover_image", "image"),
		Tags:        docStrings(doc, "tags"),
		Author:      docString(doc, "author"),
		IsPublished: docBool(doc, "isPublished", "published"),
		ReadCount:   docInt(doc, "readCount", "views"),
	}
	applyBase(&m.Base, doc)
	return m
}

// MapPortfolio builds a portfolio row, nil without a title.
func MapPortfolio(doc map[string]interface{}) *models.PortfolioModel {
	title := docString(doc, "title")
	if title == "" {
		return nil
	}

	category := models.PortfolioCategory(docString(doc, "category"))
	if !models.ValidPortfolioCategory(category) {
		category = models.PortfolioOther
	}

	m := &models.PortfolioModel{
		Title:       title,
		Description: docString(doc, "description"),
		Category:    category,
		MediaURLs:   docStrings(doc, "mediaUrls", "images", "media"),
		Client:      docString(doc, "client"),
		Location:    docString(doc, "location"),
		Featured:    docBool(doc, "featured"),
	}
	if ts, ok := docTime(doc, "completedAt", "completed_at"); ok {
		m.CompletedAt = &ts
	}
	applyBase(&m.Base, doc)
	return m
}

// MapQuotation builds a quotation row, nil without name and email.
func MapQuotation(doc map[string]interface{}) *models.QuotationModel {
	name := docString(doc, "name")
	email := docString(doc, "email")
	if name == "" || email == "" {
		return nil
	}

	svc := models.ServiceType(docString(doc, "serviceType", "service"))
	if !models.ValidServiceType(svc) {
		svc = models.ServiceOther
	}
	status := models.QuotationStatus(docString(doc, "status"))
	if !models.ValidQuotationStatus(status) {
		status = models.QuotationPending
	}

	m := &models.QuotationModel{
		Name:        name,
		Email:       strings.ToLower(email),
		Phone:       docString(doc, "phone"),
		ServiceType: svc,
		Details:     docString(doc, "details", "message"),
		Budget:      docString(doc, "budget"),
		Status:      status,
		AdminNote:   docString(doc, "adminNote", "note"),
		SessionID:   docString(doc, "sessionId", "session_id"),
	}
	applyBase(&m.Base, doc)
	return m
}

// MapSubscriber builds a newsletter row, nil without an email.
func MapSubscriber(doc map[string]interface{}) *models.NewsletterModel {
	email := strings.ToLower(docString(doc, "email"))
	if email == "" {
		return nil
	}

	m := &models.NewsletterModel{
		Email:       email,
		Verified:    docBool(doc, "verified", "isVerified"),
		CancelToken: docString(doc, "cancelToken", "token"),
		SessionID:   docString(doc, "sessionId", "session_id"),
	}
	applyBase(&m.Base, doc)
	return m
}

// MapChatMessage builds a chat row, nil without conversation and text.
func MapChatMessage(doc map[string]interface{}) *models.ChatMessageModel {
	convID := docString(doc, "conversationId", "conversation_id", "roomId")
	text := docString(doc, "text", "message")
	if convID == "" || text == "" {
		return nil
	}

	sender := models.SenderType(docString(doc, "senderType", "sender"))
	if sender != models.SenderAdmin {
		sender = models.SenderVisitor
	}

	m := &models.ChatMessageModel{
		ConversationID: convID,
		SenderID:       docString(doc, "senderId", "sender_id"),
		SenderName:     docString(doc, "senderName", "sender_name"),
		SenderType:     sender,
		Text:           text,
		Read:           docBool(doc, "read", "isRead"),
	}
	if ts, ok := docTime(doc, "readAt", "read_at"); ok {
		m.ReadAt = &ts
	}
	applyBase(&m.Base, doc)
	return m
}

// applyBase carries over the legacy _id and timestamps so re-runs map the
// same document to the same row.
func applyBase(b *models.Base, doc map[string]interface{}) {
	if id := docString(doc, "_id", "id"); id != "" {
		b.ID = id
	}
	if ts, ok := docTime(doc, "createdAt", "created_at", "created"); ok {
		b.CreatedAt = ts
	}
	if ts, ok := docTime(doc, "updatedAt", "updated_at", "modified"); ok {
		b.UpdatedAt = ts
	}
}

var errNotFound = errors.New("key not found")

func docValue(doc map[string]interface{}, keys ...string) (interface{}, error) {
	for _, key := range keys {
		if v, ok := doc[key]; ok && v != nil {
			return v, nil
		}
	}
	return nil, errNotFound
}

func docString(doc map[string]interface{}, keys ...string) string {
	v, err := docValue(doc, keys...)
	if err != nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func docBool(doc map[string]interface{}, keys ...string) bool {
	v, err := docValue(doc, keys...)
	if err != nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

func docInt(doc map[string]interface{}, keys ...string) int {
	v, err := docValue(doc, keys...)
	if err != nil {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func docTime(doc map[string]interface{}, keys ...string) (time.Time, bool) {
	v, err := docValue(doc, keys...)
	if err != nil {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	case int64:
		if t > 1e11 {
			return time.UnixMilli(t), true
		}
		if t > 1e8 {
			return time.Unix(t, 0), true
		}
	case float64:
		return docTime(map[string]interface{}{"v": int64(t)}, "v")
	}
	return time.Time{}, false
}

func docStrings(doc map[string]interface{}, keys ...string) models.StringSlice {
	v, err := docValue(doc, keys...)
	if err != nil {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make(models.StringSlice, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
