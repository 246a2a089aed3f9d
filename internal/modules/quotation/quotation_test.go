package quotation

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
	require.NoError(t, db.AutoMigrate(&models.QuotationModel{}))
	return NewService(db)
}

func TestCreateQuotation(t *testing.T) {
	svc := newTestService(t)

	q, err := svc.Create(&CreateQuotationDTO{
		Name:        "Alice",
		Email:       "alice@example.com",
		ServiceType: "aerial-photography",
		Details:     "Wedding shoot, 2 hours",
		Budget:      "500-1000",
	}, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.QuotationPending, q.Status)
	assert.Equal(t, "sess-1", q.SessionID)

	_, err = svc.Create(&CreateQuotationDTO{
		Name: "Bob", Email: "b@example.com", ServiceType: "submarine", Details: "x",
	}, "")
	assert.ErrorIs(t, err, ErrUnknownServiceType)
}

func TestListFilterByStatus(t *testing.T) {
	svc := newTestService(t)

	q1, err := svc.Create(&CreateQuotationDTO{Name: "A", Email: "a@e.com", ServiceType: "mapping", Details: "x"}, "")
	require.NoError(t, err)
	_, err = svc.Create(&CreateQuotationDTO{Name: "B", Email: "b@e.com", ServiceType: "mapping", Details: "y"}, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(q1.ID, &UpdateStatusDTO{Status: "quoted"})
	require.NoError(t, err)

	items, _, err := svc.List(pagination.Query{Page: 1, Size: 10}, "quoted")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Name)

	items, pag, err := svc.List(pagination.Query{Page: 1, Size: 10}, "")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.EqualValues(t, 2, pag.Total)

	_, _, err = svc.List(pagination.Query{Page: 1, Size: 10}, "bogus")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestUpdateStatus(t *testing.T) {
	svc := newTestService(t)

	q, err := svc.Create(&CreateQuotationDTO{Name: "A", Email: "a@e.com", ServiceType: "inspection", Details: "x"}, "")
	require.NoError(t, err)

	note := "called the client"
	updated, err := svc.UpdateStatus(q.ID, &UpdateStatusDTO{Status: "reviewed", AdminNote: &note})
	require.NoError(t, err)
	assert.Equal(t, models.QuotationReviewed, updated.Status)
	assert.Equal(t, "called the client", updated.AdminNote)

	_, err = svc.UpdateStatus(q.ID, &UpdateStatusDTO{Status: "nonsense"})
	assert.ErrorIs(t, err, ErrUnknownStatus)

	missing, err := svc.UpdateStatus("nope", &UpdateStatusDTO{Status: "quoted"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}
