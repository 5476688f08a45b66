package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TableMarketing             = "marketing"
	TableFinalisedMeasurements = "finalised_measurements"
	TableProductMeasurements   = "product_measurements"
)

// IsParentTable reports whether table holds Customer rows.
func IsParentTable(table string) bool {
	return table == TableMarketing || table == TableFinalisedMeasurements
}

// Customer is the parent record of a wizard flow. The same shape backs both
// the marketing and finalised_measurements tables; callers pick the table.
type Customer struct {
	ID                 string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PartyName          string `json:"party_name" gorm:"not null"`
	MobileNumber       string `json:"mobile_number" gorm:"not null"`
	Address1           string `json:"address1" gorm:"column:address1;not null"`
	Address2           string `json:"address2" gorm:"column:address2;not null"`
	StatusOfSite       string `json:"status_of_site" gorm:"not null"`
	LegalBillingName   string `json:"legal_billing_name"`
	PartyGSTNumber     string `json:"party_gst_number" gorm:"column:party_gst_number"`
	Category           string `json:"category"`
	MeasurementTakenBy string `json:"measurement_taken_by"`
	Gmap               string `json:"gmap" gorm:"not null"`

	VisitingDate           *time.Time `json:"visiting_date"`
	VisitingDoneOfSite     *time.Time `json:"visiting_done_of_site"`
	CustomerOfficeVisit    *time.Time `json:"customer_office_visit"`
	FollowUpAfterQuotation *time.Time `json:"follow_up_after_quotation"`
	AdvancePaymentDate     *time.Time `json:"advance_payment_date"`
	AdvancePaymentAmount   string     `json:"advance_payment_amount"`
	Installation           *time.Time `json:"installation"`
	FinishingVisit         *time.Time `json:"finishing_visit"`
	QualityCheckDoneBy     string     `json:"quality_check_done_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type SiteStatus string

const (
	SiteReady       SiteStatus = "ready"
	Site15Days      SiteStatus = "15-days"
	Site1To2Months  SiteStatus = "1-to-2-months"
	Site5To6Months  SiteStatus = "5-to-6-months"
	SiteStatusOther SiteStatus = "other"
)

type CustomerCategory string

const (
	CategoryCustomer     CustomerCategory = "customer"
	CategoryArchitecture CustomerCategory = "architecture"
	CategoryContractor   CustomerCategory = "contractor"
	CategoryOther        CustomerCategory = "other"
)
