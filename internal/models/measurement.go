package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Measurement is one product measurement owned by a Customer.
// Dimensions are free-form text as taken on site.
type Measurement struct {
	ID              string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID      string `json:"customer_id" gorm:"type:varchar(36);not null;index"`
	DesignSelection string `json:"design_selection" gorm:"not null"`
	DesignRef       string `json:"design_ref"`
	DesignRate      int    `json:"design_rate"`
	Quantity        int    `json:"quantity" gorm:"default:1"`
	Location        string `json:"location"`
	FloorNumber     string `json:"floor_number"`
	Granite         string `json:"granite"`
	Colour          string `json:"colour"`
	Lock            string `json:"lock"`
	MosquitoWindow  string `json:"mosquito_window"`
	Glass           string `json:"glass"`
	Note            string `json:"note" gorm:"type:text"`
	W1              string `json:"w1" gorm:"column:w1"`
	W2              string `json:"w2" gorm:"column:w2"`
	W3              string `json:"w3" gorm:"column:w3"`
	H1              string `json:"h1" gorm:"column:h1"`
	H2              string `json:"h2" gorm:"column:h2"`
	H3              string `json:"h3" gorm:"column:h3"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Measurement) TableName() string {
	return TableProductMeasurements
}

func (m *Measurement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type MosquitoWindow string

const (
	MosquitoOneSide  MosquitoWindow = "one-side"
	MosquitoBothSide MosquitoWindow = "both-side"
	MosquitoNone     MosquitoWindow = "none"
)
