package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
	"github.com/CareScope-Clinic/assessment-service/internal/repositories"
	"gorm.io/gorm"
)

// errStoreDown simulates a store-side rejection of a single operation.
var errStoreDown = errors.New("store rejected operation")

// mockStore is a shared in-memory backing for all fake repositories. The
// fail* switches let tests knock out individual operations: the joined
// retrieval paths, or single steps of the multi-row creation protocol.
type mockStore struct {
	mu     sync.Mutex
	nextID uint

	templates   map[uint]*models.Template
	questions   []*models.TemplateQuestion
	options     []*models.TemplateOption
	assignments map[uint]*models.Assignment
	results     []*models.Result
	patients    map[uint]*models.Patient
	alerts      []*models.Alert
	records     map[uint]*models.PatientRecord
	moods       []*models.MoodLog

	failCreateOptions   bool
	failCreateQuestions bool
	failJoined          bool
	failMarkCompleted   int
}

func newMockStore() *mockStore {
	return &mockStore{
		templates:   make(map[uint]*models.Template),
		assignments: make(map[uint]*models.Assignment),
		patients:    make(map[uint]*models.Patient),
		records:     make(map[uint]*models.PatientRecord),
	}
}

func (s *mockStore) id() uint {
	s.nextID++
	return s.nextID
}

// MockRepository implements repositories.Repository over a mockStore.
type MockRepository struct {
	store *mockStore
}

func NewMockRepository() *MockRepository {
	return &MockRepository{store: newMockStore()}
}

func (m *MockRepository) Template() repositories.TemplateRepository {
	return &mockTemplateRepo{store: m.store}
}
func (m *MockRepository) Assignment() repositories.AssignmentRepository {
	return &mockAssignmentRepo{store: m.store}
}
func (m *MockRepository) Result() repositories.ResultRepository {
	return &mockResultRepo{store: m.store}
}
func (m *MockRepository) Patient() repositories.PatientRepository {
	return &mockPatientRepo{store: m.store}
}
func (m *MockRepository) Record() repositories.RecordRepository {
	return &mockRecordRepo{store: m.store}
}
func (m *MockRepository) Mood() repositories.MoodRepository {
	return &mockMoodRepo{store: m.store}
}
func (m *MockRepository) User() repositories.UserRepository {
	return &mockUserRepo{}
}
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

// ===== TEMPLATE =====

type mockTemplateRepo struct {
	store *mockStore
}

func (r *mockTemplateRepo) Create(ctx context.Context, tx *gorm.DB, template *models.Template) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	template.ID = r.store.id()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = time.Now()
	}
	copied := *template
	r.store.templates[template.ID] = &copied
	return nil
}

func (r *mockTemplateRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Template, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	template, ok := r.store.templates[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *template
	return &copied, nil
}

func (r *mockTemplateRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Template, error) {
	template, err := r.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, q := range r.store.questions {
		if q.TemplateID == id {
			template.Questions = append(template.Questions, *q)
		}
	}
	for _, o := range r.store.options {
		if o.TemplateID == id {
			template.Options = append(template.Options, *o)
		}
	}
	return template, nil
}

func (r *mockTemplateRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Template, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*models.Template
	for _, id := range ids {
		if template, ok := r.store.templates[id]; ok {
			copied := *template
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *mockTemplateRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.templates, id)
	return nil
}

func (r *mockTemplateRepo) CreateQuestions(ctx context.Context, tx *gorm.DB, questions []*models.TemplateQuestion) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.failCreateQuestions {
		return errStoreDown
	}
	for _, q := range questions {
		q.ID = r.store.id()
		copied := *q
		r.store.questions = append(r.store.questions, &copied)
	}
	return nil
}

func (r *mockTemplateRepo) CreateOptions(ctx context.Context, tx *gorm.DB, options []*models.TemplateOption) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.failCreateOptions {
		return errStoreDown
	}
	for _, o := range options {
		o.ID = r.store.id()
		copied := *o
		r.store.options = append(r.store.options, &copied)
	}
	return nil
}

func (r *mockTemplateRepo) DeleteQuestions(ctx context.Context, tx *gorm.DB, templateID uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.questions[:0]
	for _, q := range r.store.questions {
		if q.TemplateID != templateID {
			kept = append(kept, q)
		}
	}
	r.store.questions = kept
	return nil
}

func (r *mockTemplateRepo) DeleteOptions(ctx context.Context, tx *gorm.DB, templateID uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.options[:0]
	for _, o := range r.store.options {
		if o.TemplateID != templateID {
			kept = append(kept, o)
		}
	}
	r.store.options = kept
	return nil
}

func (r *mockTemplateRepo) QuestionsByTemplate(ctx context.Context, tx *gorm.DB, templateID uint) ([]*models.TemplateQuestion, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*models.TemplateQuestion
	for _, q := range r.store.questions {
		if q.TemplateID == templateID {
			copied := *q
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *mockTemplateRepo) OptionsByTemplate(ctx context.Context, tx *gorm.DB, templateID uint) ([]*models.TemplateOption, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*models.TemplateOption
	for _, o := range r.store.options {
		if o.TemplateID == templateID {
			copied := *o
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *mockTemplateRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.TemplateFilters) ([]*models.Template, int64, error) {
	templates, err := r.ListAll(ctx, tx)
	if err != nil {
		return nil, 0, err
	}
	if filters.DoctorID != nil {
		filtered := templates[:0]
		for _, t := range templates {
			if t.DoctorID == *filters.DoctorID {
				filtered = append(filtered, t)
			}
		}
		templates = filtered
	}
	return templates, int64(len(templates)), nil
}

func (r *mockTemplateRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Template, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*models.Template, 0, len(r.store.templates))
	for _, template := range r.store.templates {
		copied := *template
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockTemplateRepo) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.templates[id]
	return ok, nil
}

func (r *mockTemplateRepo) Stats(ctx context.Context, tx *gorm.DB, templateID uint) (*repositories.TemplateStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stats := &repositories.TemplateStats{}
	scoreSum, scoreCount := 0, 0
	for _, assignment := range r.store.assignments {
		if assignment.TemplateID != templateID {
			continue
		}
		stats.TotalAssignments++
		if assignment.Status == models.AssignmentCompleted {
			stats.CompletedAssignments++
		}
		for _, result := range r.store.results {
			if result.AssignmentID == assignment.ID {
				scoreSum += result.TotalScore
				scoreCount++
			}
		}
	}
	if scoreCount > 0 {
		stats.AverageScore = float64(scoreSum) / float64(scoreCount)
	}
	for _, question := range r.store.questions {
		if question.TemplateID == templateID {
			stats.QuestionCount++
		}
	}
	for _, option := range r.store.options {
		if option.TemplateID == templateID {
			stats.OptionCount++
		}
	}
	return stats, nil
}

func (r *mockTemplateRepo) DoctorStats(ctx context.Context, tx *gorm.DB, doctorID string) (*repositories.DoctorStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stats := &repositories.DoctorStats{}
	owned := make(map[uint]bool)
	for _, template := range r.store.templates {
		if template.DoctorID == doctorID {
			stats.TotalTemplates++
			owned[template.ID] = true
		}
	}
	for _, assignment := range r.store.assignments {
		if !owned[assignment.TemplateID] {
			continue
		}
		stats.TotalAssignments++
		if assignment.Status == models.AssignmentAssigned {
			stats.PendingResults++
		}
	}
	return stats, nil
}

// ===== ASSIGNMENT =====

type mockAssignmentRepo struct {
	store *mockStore
}

func (r *mockAssignmentRepo) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	assignment.ID = r.store.id()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now()
	}
	copied := *assignment
	r.store.assignments[assignment.ID] = &copied
	return nil
}

func (r *mockAssignmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	assignment, ok := r.store.assignments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *assignment
	return &copied, nil
}

func (r *mockAssignmentRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	r.store.mu.Lock()
	joined := r.store.failJoined
	r.store.mu.Unlock()
	if joined {
		return nil, errStoreDown
	}

	assignment, err := r.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	templateRepo := &mockTemplateRepo{store: r.store}
	template, err := templateRepo.GetByIDWithDetails(ctx, tx, assignment.TemplateID)
	if err != nil {
		return nil, err
	}
	assignment.Template = *template
	return assignment, nil
}

func (r *mockAssignmentRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, id uint, completedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.failMarkCompleted > 0 {
		r.store.failMarkCompleted--
		return errStoreDown
	}

	assignment, ok := r.store.assignments[id]
	if !ok {
		return repositories.ErrNotFound
	}
	assignment.Status = models.AssignmentCompleted
	assignment.CompletedAt = &completedAt
	return nil
}

func (r *mockAssignmentRepo) FindActive(ctx context.Context, tx *gorm.DB, templateID, patientID uint) (*models.Assignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, assignment := range r.store.assignments {
		if assignment.TemplateID == templateID && assignment.PatientID == patientID && assignment.Status == models.AssignmentAssigned {
			copied := *assignment
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockAssignmentRepo) ListActiveWithTemplates(ctx context.Context, tx *gorm.DB, patientID uint) ([]*models.Assignment, error) {
	r.store.mu.Lock()
	joined := r.store.failJoined
	r.store.mu.Unlock()
	if joined {
		return nil, errStoreDown
	}

	assignments, err := r.ListActiveByPatient(ctx, tx, patientID)
	if err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, assignment := range assignments {
		if template, ok := r.store.templates[assignment.TemplateID]; ok {
			assignment.TemplateName = template.Name
		}
	}
	return assignments, nil
}

func (r *mockAssignmentRepo) ListActiveByPatient(ctx context.Context, tx *gorm.DB, patientID uint) ([]*models.Assignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*models.Assignment
	for _, assignment := range r.store.assignments {
		if assignment.PatientID == patientID && assignment.Status == models.AssignmentAssigned {
			copied := *assignment
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockAssignmentRepo) IDsByTemplateAndPatient(ctx context.Context, tx *gorm.DB, templateID, patientID uint) ([]uint, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var ids []uint
	for _, assignment := range r.store.assignments {
		if assignment.TemplateID == templateID && assignment.PatientID == patientID {
			ids = append(ids, assignment.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *mockAssignmentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*models.Assignment
	for _, assignment := range r.store.assignments {
		if filters.Status != nil && assignment.Status != *filters.Status {
			continue
		}
		if filters.TemplateID != nil && assignment.TemplateID != *filters.TemplateID {
			continue
		}
		if filters.PatientID != nil && assignment.PatientID != *filters.PatientID {
			continue
		}
		copied := *assignment
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

// ===== RESULT =====

type mockResultRepo struct {
	store *mockStore
}

func (r *mockResultRepo) Create(ctx context.Context, tx *gorm.DB, result *models.Result) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result.ID = r.store.id()
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}
	copied := *result
	r.store.results = append(r.store.results, &copied)
	return nil
}

func (r *mockResultRepo) GetByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) (*models.Result, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, result := range r.store.results {
		if result.AssignmentID == assignmentID {
			copied := *result
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockResultRepo) ListByTemplateAndPatient(ctx context.Context, tx *gorm.DB, templateID, patientID uint) ([]*models.Result, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.failJoined {
		return nil, errStoreDown
	}

	var out []*models.Result
	for _, result := range r.store.results {
		assignment, ok := r.store.assignments[result.AssignmentID]
		if !ok || assignment.TemplateID != templateID || assignment.PatientID != patientID {
			continue
		}
		copied := *result
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *mockResultRepo) ListByAssignmentIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uint) ([]*models.Result, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	wanted := make(map[uint]bool, len(assignmentIDs))
	for _, id := range assignmentIDs {
		wanted[id] = true
	}

	var out []*models.Result
	for _, result := range r.store.results {
		if wanted[result.AssignmentID] {
			copied := *result
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *mockResultRepo) CountByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	for _, result := range r.store.results {
		if result.AssignmentID == assignmentID {
			count++
		}
	}
	return count, nil
}

// ===== PATIENT =====

type mockPatientRepo struct {
	store *mockStore
}

func (r *mockPatientRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Patient, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	patient, ok := r.store.patients[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := r.withAlerts(patient)
	return &copied, nil
}

func (r *mockPatientRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Patient, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, patient := range r.store.patients {
		if patient.UserID == userID {
			copied := r.withAlerts(patient)
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// withAlerts mirrors the alert preload on single-patient fetches.
// Caller must hold the store lock.
func (r *mockPatientRepo) withAlerts(patient *models.Patient) models.Patient {
	copied := *patient
	copied.Alerts = nil
	for _, alert := range r.store.alerts {
		if alert.PatientID == patient.ID {
			copied.Alerts = append(copied.Alerts, *alert)
		}
	}
	return copied
}

func (r *mockPatientRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Patient, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, patient := range r.store.patients {
		if patient.Name == name {
			copied := *patient
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockPatientRepo) ListWithAlerts(ctx context.Context, tx *gorm.DB) ([]*models.Patient, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.failJoined {
		return nil, errStoreDown
	}

	var out []*models.Patient
	for _, patient := range r.store.patients {
		copied := *patient
		for _, alert := range r.store.alerts {
			if alert.PatientID == patient.ID {
				copied.Alerts = append(copied.Alerts, *alert)
			}
		}
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockPatientRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.PatientFilters) ([]*models.Patient, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*models.Patient
	for _, patient := range r.store.patients {
		copied := *patient
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *mockPatientRepo) AlertsByPatients(ctx context.Context, tx *gorm.DB, patientIDs []uint) ([]*models.Alert, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	wanted := make(map[uint]bool, len(patientIDs))
	for _, id := range patientIDs {
		wanted[id] = true
	}

	var out []*models.Alert
	for _, alert := range r.store.alerts {
		if wanted[alert.PatientID] {
			copied := *alert
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *mockPatientRepo) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.patients[id]
	return ok, nil
}

// ===== RECORD / MOOD =====

type mockRecordRepo struct {
	store *mockStore
}

func (r *mockRecordRepo) GetByPatient(ctx context.Context, tx *gorm.DB, patientID uint) (*models.PatientRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.records[patientID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *mockRecordRepo) Create(ctx context.Context, tx *gorm.DB, record *models.PatientRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record.ID = r.store.id()
	copied := *record
	r.store.records[record.PatientID] = &copied
	return nil
}

func (r *mockRecordRepo) Update(ctx context.Context, tx *gorm.DB, record *models.PatientRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.records[record.PatientID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *record
	r.store.records[record.PatientID] = &copied
	return nil
}

type mockMoodRepo struct {
	store *mockStore
}

func (r *mockMoodRepo) Create(ctx context.Context, tx *gorm.DB, log *models.MoodLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	log.ID = r.store.id()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	copied := *log
	r.store.moods = append(r.store.moods, &copied)
	return nil
}

func (r *mockMoodRepo) ListByPatient(ctx context.Context, tx *gorm.DB, patientID uint) ([]*models.MoodLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*models.MoodLog
	for _, log := range r.store.moods {
		if log.PatientID == patientID {
			copied := *log
			out = append(out, &copied)
		}
	}
	return out, nil
}

// ===== USER =====

type mockUserRepo struct{}

func (r *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}
func (r *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}
func (r *mockUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	return nil, nil
}
func (r *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}
func (r *mockUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) { return false, nil }
func (r *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (r *mockUserRepo) HasRole(ctx context.Context, id string, role models.UserRole) (bool, error) {
	return false, nil
}
