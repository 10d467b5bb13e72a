package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SlotCount is the number of value-map category slots.
const SlotCount = 7

// ValueMap is the per-user seven-category value map. Each slot carries a
// running-average score over the intensities of the value scores mapped to
// it, plus the sample count that average is over. The slots are stored as
// seven parallel (score_i, count_i) column pairs.
type ValueMap struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Score0 float64 `gorm:"not null;default:0;column:score_0" json:"score_0"`
	Score1 float64 `gorm:"not null;default:0;column:score_1" json:"score_1"`
	Score2 float64 `gorm:"not null;default:0;column:score_2" json:"score_2"`
	Score3 float64 `gorm:"not null;default:0;column:score_3" json:"score_3"`
	Score4 float64 `gorm:"not null;default:0;column:score_4" json:"score_4"`
	Score5 float64 `gorm:"not null;default:0;column:score_5" json:"score_5"`
	Score6 float64 `gorm:"not null;default:0;column:score_6" json:"score_6"`

	Count0 int `gorm:"not null;default:0;column:count_0" json:"count_0"`
	Count1 int `gorm:"not null;default:0;column:count_1" json:"count_1"`
	Count2 int `gorm:"not null;default:0;column:count_2" json:"count_2"`
	Count3 int `gorm:"not null;default:0;column:count_3" json:"count_3"`
	Count4 int `gorm:"not null;default:0;column:count_4" json:"count_4"`
	Count5 int `gorm:"not null;default:0;column:count_5" json:"count_5"`
	Count6 int `gorm:"not null;default:0;column:count_6" json:"count_6"`

	Comment            string    `gorm:"column:comment" json:"comment"`
	PersonalityInsight string    `gorm:"column:personality_insight" json:"personality_insight"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null" json:"updated_at"`
}

func (ValueMap) TableName() string { return "value_map" }

func (m *ValueMap) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SlotScore returns the running average for slot i (0..6).
func (m *ValueMap) SlotScore(i int) float64 {
	switch i {
	case 0:
		return m.Score0
	case 1:
		return m.Score1
	case 2:
		return m.Score2
	case 3:
		return m.Score3
	case 4:
		return m.Score4
	case 5:
		return m.Score5
	case 6:
		return m.Score6
	}
	panic(fmt.Sprintf("value map slot out of range: %d", i))
}

// SlotSampleCount returns the sample count for slot i (0..6).
func (m *ValueMap) SlotSampleCount(i int) int {
	switch i {
	case 0:
		return m.Count0
	case 1:
		return m.Count1
	case 2:
		return m.Count2
	case 3:
		return m.Count3
	case 4:
		return m.Count4
	case 5:
		return m.Count5
	case 6:
		return m.Count6
	}
	panic(fmt.Sprintf("value map slot out of range: %d", i))
}

// SlotScores returns the seven running averages in slot order.
func (m *ValueMap) SlotScores() [SlotCount]float64 {
	return [SlotCount]float64{m.Score0, m.Score1, m.Score2, m.Score3, m.Score4, m.Score5, m.Score6}
}
