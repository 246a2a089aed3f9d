package models

// QuotationStatus tracks the review lifecycle of a quote request.
type QuotationStatus string

const (
	QuotationPending  QuotationStatus = "pending"
	QuotationReviewed QuotationStatus = "reviewed"
	QuotationQuoted   QuotationStatus = "quoted"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationRejected QuotationStatus = "rejected"
)

// ValidQuotationStatus reports whether s is a known status value.
func ValidQuotationStatus(s QuotationStatus) bool {
	switch s {
	case QuotationPending, QuotationReviewed, QuotationQuoted, QuotationAccepted, QuotationRejected:
		return true
	}
	return false
}

// ServiceType enumerates bookable drone services.
type ServiceType string

const (
	ServiceAerialPhotography ServiceType = "aerial-photography"
	ServiceMapping           ServiceType = "mapping"
	ServiceInspection        ServiceType = "inspection"
	ServiceVideography       ServiceType = "videography"
	ServiceSurveying         ServiceType = "surveying"
	ServiceOther             ServiceType = "other"
)

// ValidServiceType reports whether s is a known service type.
func ValidServiceType(s ServiceType) bool {
	switch s {
	case ServiceAerialPhotography, ServiceMapping, ServiceInspection, ServiceVideography, ServiceSurveying, ServiceOther:
		return true
	}
	return false
}

// QuotationModel is a quote request submitted from the public site.
type QuotationModel struct {
	Base
	Name        string          `json:"name"         gorm:"not null"`
	Email       string          `json:"email"        gorm:"not null;index;type:varchar(191)"`
	Phone       string          `json:"phone"        gorm:"type:varchar(32)"`
	ServiceType ServiceType     `json:"service_type" gorm:"type:varchar(32);index"`
	Details     string          `json:"details"      gorm:"type:text"`
	Budget      string          `json:"budget"       gorm:"type:varchar(64)"`
	Status      QuotationStatus `json:"status"       gorm:"type:varchar(16);default:pending;index"`
	AdminNote   string          `json:"admin_note"   gorm:"type:text"`
	SessionID   string          `json:"session_id"   gorm:"index;type:varchar(64)"`
}

func (QuotationModel) TableName() string { return "quotations" }
