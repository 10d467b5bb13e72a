package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Analysis is the per-user personality analysis record. Scores holds the
// five-axis percentile map as one JSON document ({"N":..,"E":..,"O":..,
// "A":..,"C":..}) so future facet additions do not churn the schema.
// UpdatedAt doubles as the daily-freshness gate for personalized advice.
type Analysis struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Scores   datatypes.JSON `gorm:"type:jsonb;column:scores" json:"scores"`
	UserType string         `gorm:"column:user_type" json:"user_type"`

	CommentN string `gorm:"column:comment_n" json:"comment_n"`
	CommentE string `gorm:"column:comment_e" json:"comment_e"`
	CommentO string `gorm:"column:comment_o" json:"comment_o"`
	CommentA string `gorm:"column:comment_a" json:"comment_a"`
	CommentC string `gorm:"column:comment_c" json:"comment_c"`

	AdviceTheory string `gorm:"column:advice_theory" json:"advice_theory"`
	Advice       string `gorm:"column:advice" json:"advice"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Analysis) TableName() string { return "analysis" }

func (a *Analysis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AxisComment returns the stored commentary for a Big-Five axis code
// ("N", "E", "O", "A", "C") and whether the code was recognized.
func (a *Analysis) AxisComment(axis string) (string, bool) {
	switch axis {
	case "N":
		return a.CommentN, true
	case "E":
		return a.CommentE, true
	case "O":
		return a.CommentO, true
	case "A":
		return a.CommentA, true
	case "C":
		return a.CommentC, true
	}
	return "", false
}
