package models

import (
	"time"

	"gorm.io/gorm"
)

// Template is a reusable assessment definition authored by a doctor.
// Options are shared across all questions of the template.
type Template struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	DoctorID  string `json:"doctor_id" gorm:"not null;index;size:255"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []TemplateQuestion `json:"questions" gorm:"foreignKey:TemplateID"`
	Options   []TemplateOption   `json:"options" gorm:"foreignKey:TemplateID"`

	// Computed fields (not stored)
	QuestionCount int `json:"question_count" gorm:"-"`
	OptionCount   int `json:"option_count" gorm:"-"`
}

// TemplateQuestion is a free-text prompt. Immutable once created; ordering
// is creation order (ascending ID).
type TemplateQuestion struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	TemplateID uint   `json:"template_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"type:text;not null" validate:"required"`

	CreatedAt time.Time `json:"created_at"`
}

// TemplateOption is a scored answer choice shared by every question of its
// template.
type TemplateOption struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	TemplateID uint   `json:"template_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null;size:200" validate:"required"`
	ScoreValue int    `json:"score_value" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

func (Template) TableName() string {
	return "assessment_templates"
}

func (TemplateQuestion) TableName() string {
	return "template_questions"
}

func (TemplateOption) TableName() string {
	return "template_options"
}
