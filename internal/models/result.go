package models

import (
	"time"

	"gorm.io/datatypes"
)

// Result is the immutable scored outcome of one completed assignment.
// AnswerScores keeps the raw per-question values the total was summed from.
type Result struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	AssignmentID uint `json:"assignment_id" gorm:"not null;index"`
	TotalScore   int  `json:"total_score" gorm:"not null"`

	AnswerScores datatypes.JSON `json:"answer_scores" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Assignment Assignment `json:"assignment" gorm:"foreignKey:AssignmentID"`
}

// ScorePoint is a single (timestamp, total) pair of a patient's score
// history, ready for the charting collaborator.
type ScorePoint struct {
	RecordedAt time.Time `json:"recorded_at"`
	TotalScore int       `json:"total_score"`
}

func (Result) TableName() string {
	return "assessment_results"
}
