package validator

// OptionSpecRequest is one raw option row as typed by the authoring doctor.
// ScoreValue arrives as text and must parse as an integer to be stored;
// rows that fail either check are dropped, not rejected.
type OptionSpecRequest struct {
	Text       string `json:"text"`
	ScoreValue string `json:"score_value"`
}

// TemplateCreateRequest represents the request structure for creating
// assessment templates
type TemplateCreateRequest struct {
	Name      string              `json:"name" validate:"required,min=1,max=200"`
	Questions []string            `json:"questions" validate:"required"`
	Options   []OptionSpecRequest `json:"options" validate:"required"`
}

// AssignRequest issues a template to a patient. Either PatientID or the
// exact PatientName must be supplied; the handler resolves the name.
type AssignRequest struct {
	TemplateID  uint   `json:"template_id" validate:"required"`
	PatientID   uint   `json:"patient_id" validate:"required_without=PatientName"`
	PatientName string `json:"patient_name" validate:"required_without=PatientID,omitempty,max=100"`
}

// SubmitCompletionRequest carries a patient's full answer set, one score
// value per question in template question order.
type SubmitCompletionRequest struct {
	AssignmentID uint  `json:"assignment_id" validate:"required"`
	AnswerScores []int `json:"answer_scores" validate:"required,min=1"`
}

// RecordSaveRequest upserts a patient's clinical notes and treatment plan.
type RecordSaveRequest struct {
	PatientID     uint   `json:"patient_id" validate:"required"`
	Notes         string `json:"notes" validate:"max=10000"`
	TreatmentPlan string `json:"treatment_plan" validate:"max=10000"`
}

// MoodLogRequest records a single mood entry for the current patient.
type MoodLogRequest struct {
	MoodScore int    `json:"mood_score" validate:"required,min=1,max=5"`
	Note      string `json:"note" validate:"max=2000"`
}
