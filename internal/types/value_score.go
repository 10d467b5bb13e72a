package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ValueScore is one personal value surfaced from a single answer.
// Append-only: one answer yields zero to six of these and they are never
// mutated afterwards.
type ValueScore struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	QuestionID uuid.UUID      `gorm:"type:uuid;not null" json:"question_id"`
	AnswerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"answer_id"`
	Answer     *Answer        `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnswerID;references:ID" json:"answer,omitempty"`
	Category   string         `gorm:"not null;column:category" json:"category"`
	Value      string         `gorm:"not null;column:value" json:"value"`
	Confidence float64        `gorm:"not null;column:confidence" json:"confidence"`
	Intensity  float64        `gorm:"not null;column:intensity" json:"intensity"`
	Polarity   int            `gorm:"not null;column:polarity" json:"polarity"`
	Evidence   datatypes.JSON `gorm:"type:jsonb;column:evidence" json:"evidence"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

func (ValueScore) TableName() string { return "value_score" }

func (v *ValueScore) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
