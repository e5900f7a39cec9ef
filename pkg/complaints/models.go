package complaints

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Complaint is one persisted, enriched complaint. Sentiment, Category,
// IsSpam and Status are always populated; IPAddress and Location are the
// only nullable columns. Enrichment keeps the per-adapter outcome detail
// so a fallback value can be told apart from a real classification.
type Complaint struct {
	ID         string            `json:"id" gorm:"primaryKey;column:id"`
	Text       string            `json:"text" gorm:"column:text;not null"`
	Sentiment  string            `json:"sentiment" gorm:"column:sentiment"`
	Category   string            `json:"category" gorm:"column:category"`
	IsSpam     bool              `json:"is_spam" gorm:"column:is_spam"`
	IPAddress  *string           `json:"ip_address,omitempty" gorm:"column:ip_address"`
	Location   *string           `json:"location,omitempty" gorm:"column:location"`
	Status     string            `json:"status" gorm:"column:status"`
	Enrichment datatypes.JSONMap `json:"enrichment,omitempty" gorm:"column:enrichment"`
	CreatedAt  time.Time         `json:"created_at" gorm:"column:created_at"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// Filter narrows List queries. Zero values mean "no constraint"; Limit is
// defaulted by the service.
type Filter struct {
	Status    string
	IsSpam    *bool
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}
