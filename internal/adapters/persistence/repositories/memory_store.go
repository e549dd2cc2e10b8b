package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"caseportal/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// MemoryStore is a driverless credential store backing STORE_DRIVER=memory and
// the test suite. It honors the same semantics as the GORM repositories:
// gorm.ErrRecordNotFound / gorm.ErrDuplicatedKey sentinels, newest-first
// listing, OTP fields excluded from default reads, CAS on OTP clear.
type MemoryStore struct {
	mu sync.RWMutex

	applications map[uint]*models.Application
	messages     map[uint][]*models.Message         // keyed by application id
	questions    map[uint][]*models.SecurityQuestion // keyed by application id
	admins       map[uint]*models.Admin

	nextAppID      uint
	nextMessageID  uint
	nextQuestionID uint
	nextAdminID    uint
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		applications:   make(map[uint]*models.Application),
		messages:       make(map[uint][]*models.Message),
		questions:      make(map[uint][]*models.SecurityQuestion),
		admins:         make(map[uint]*models.Admin),
		nextAppID:      1,
		nextMessageID:  1,
		nextQuestionID: 1,
		nextAdminID:    1,
	}
}

// Applications returns the ApplicationRepository view of the store
func (s *MemoryStore) Applications() ApplicationRepository {
	return &memoryApplicationRepository{store: s}
}

// SecurityQuestions returns the SecurityQuestionRepository view of the store
func (s *MemoryStore) SecurityQuestions() SecurityQuestionRepository {
	return &memorySecurityQuestionRepository{store: s}
}

// Admins returns the AdminRepository view of the store
func (s *MemoryStore) Admins() AdminRepository {
	return &memoryAdminRepository{store: s}
}

// copyApplication deep-copies a record so callers never alias store state
func copyApplication(a *models.Application) *models.Application {
	cp := *a
	if a.OTPCode != nil {
		code := *a.OTPCode
		cp.OTPCode = &code
	}
	if a.OTPExpires != nil {
		exp := *a.OTPExpires
		cp.OTPExpires = &exp
	}
	cp.Messages = nil
	cp.SecurityQuestions = nil
	return &cp
}

// ============================================================
// ApplicationRepository
// ============================================================

type memoryApplicationRepository struct {
	store *MemoryStore
}

func (r *memoryApplicationRepository) Create(_ context.Context, app *models.Application) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.applications {
		if existing.UserName == app.UserName ||
			strings.EqualFold(existing.Email, app.Email) ||
			existing.ApplicationNumber == app.ApplicationNumber {
			return gorm.ErrDuplicatedKey
		}
	}

	now := time.Now()
	app.ID = s.nextAppID
	s.nextAppID++
	app.CreatedAt = now
	app.UpdatedAt = now

	s.applications[app.ID] = copyApplication(app)
	return nil
}

func (r *memoryApplicationRepository) getLocked(id uint, withOTP bool) (*models.Application, error) {
	s := r.store
	stored, ok := s.applications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	app := copyApplication(stored)
	if !withOTP {
		app.OTPCode = nil
		app.OTPExpires = nil
	}
	for _, m := range s.messages[id] {
		msg := *m
		app.Messages = append(app.Messages, msg)
	}
	return app, nil
}

func (r *memoryApplicationRepository) GetByID(_ context.Context, id uint) (*models.Application, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.getLocked(id, false)
}

func (r *memoryApplicationRepository) GetByIDWithOTP(_ context.Context, id uint) (*models.Application, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.getLocked(id, true)
}

func (r *memoryApplicationRepository) GetByUserName(_ context.Context, userName string) (*models.Application, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, app := range s.applications {
		if app.UserName == userName {
			return r.getLocked(id, false)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryApplicationRepository) Update(_ context.Context, app *models.Application) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.applications[app.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	stored.UserName = app.UserName
	stored.Password = app.Password
	stored.Email = app.Email
	stored.ApplicationType = app.ApplicationType
	stored.ApplicationNumber = app.ApplicationNumber
	stored.ApplicantName = app.ApplicantName
	stored.DateOfSubmission = app.DateOfSubmission
	stored.Status = app.Status
	stored.UniqueClientIdentifier = app.UniqueClientIdentifier
	stored.BiometricsNumber = app.BiometricsNumber
	stored.BiometricsEnrolmentDate = app.BiometricsEnrolmentDate
	stored.BiometricsExpiryDate = app.BiometricsExpiryDate
	stored.BiometricsStatus = app.BiometricsStatus
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memoryApplicationRepository) Delete(_ context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.applications[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.applications, id)
	delete(s.messages, id)
	delete(s.questions, id)
	return nil
}

func (r *memoryApplicationRepository) List(_ context.Context, offset, limit int) ([]*models.Application, int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uint, 0, len(s.applications))
	for id := range s.applications {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.applications[ids[i]], s.applications[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	total := int64(len(ids))
	if offset >= len(ids) {
		return []*models.Application{}, total, nil
	}
	end := len(ids)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	apps := make([]*models.Application, 0, end-offset)
	for _, id := range ids[offset:end] {
		app, _ := r.getLocked(id, false)
		apps = append(apps, app)
	}
	return apps, total, nil
}

func (r *memoryApplicationRepository) ExistsByApplicationNumber(_ context.Context, number string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, app := range s.applications {
		if app.ApplicationNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryApplicationRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, app := range s.applications {
		if strings.EqualFold(app.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryApplicationRepository) SetOTP(_ context.Context, id uint, code string, expires time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.applications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	app.OTPCode = &code
	app.OTPExpires = &expires
	app.UpdatedAt = time.Now()
	return nil
}

func (r *memoryApplicationRepository) ClearOTPIfMatches(_ context.Context, id uint, code string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.applications[id]
	if !ok {
		return false, nil
	}
	if app.OTPCode == nil || *app.OTPCode != code {
		return false, nil
	}
	app.OTPCode = nil
	app.OTPExpires = nil
	app.UpdatedAt = time.Now()
	return true, nil
}

func (r *memoryApplicationRepository) ClearExpiredOTPs(_ context.Context, now time.Time) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var cleared int64
	for _, app := range s.applications {
		if app.OTPExpires != nil && app.OTPExpires.Before(now) {
			app.OTPCode = nil
			app.OTPExpires = nil
			cleared++
		}
	}
	return cleared, nil
}

func (r *memoryApplicationRepository) ExpireBiometrics(_ context.Context, now time.Time) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired int64
	for _, app := range s.applications {
		if app.BiometricsExpiryDate.Before(now) && app.BiometricsStatus != "Expired" {
			app.BiometricsStatus = "Expired"
			expired++
		}
	}
	return expired, nil
}

func (r *memoryApplicationRepository) AppendMessage(_ context.Context, msg *models.Message) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.applications[msg.ApplicationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	msg.ID = s.nextMessageID
	s.nextMessageID++

	stored := *msg
	s.messages[msg.ApplicationID] = append(s.messages[msg.ApplicationID], &stored)
	return nil
}

func (r *memoryApplicationRepository) MarkAllMessagesRead(_ context.Context, applicationID uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.messages[applicationID] {
		m.IsRead = true
	}
	return nil
}

// ============================================================
// SecurityQuestionRepository
// ============================================================

type memorySecurityQuestionRepository struct {
	store *MemoryStore
}

func (r *memorySecurityQuestionRepository) Create(_ context.Context, question *models.SecurityQuestion) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.applications[question.ApplicationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	question.ID = s.nextQuestionID
	s.nextQuestionID++

	stored := *question
	s.questions[question.ApplicationID] = append(s.questions[question.ApplicationID], &stored)
	return nil
}

func (r *memorySecurityQuestionRepository) GetByID(_ context.Context, applicationID, questionID uint) (*models.SecurityQuestion, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, q := range s.questions[applicationID] {
		if q.ID == questionID {
			cp := *q
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memorySecurityQuestionRepository) ListByApplication(_ context.Context, applicationID uint) ([]*models.SecurityQuestion, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	questions := make([]*models.SecurityQuestion, 0, len(s.questions[applicationID]))
	for _, q := range s.questions[applicationID] {
		cp := *q
		questions = append(questions, &cp)
	}
	return questions, nil
}

func (r *memorySecurityQuestionRepository) UpdateAnswer(_ context.Context, applicationID, questionID uint, answer string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range s.questions[applicationID] {
		if q.ID == questionID {
			q.Answer = answer
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memorySecurityQuestionRepository) Delete(_ context.Context, applicationID, questionID uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := s.questions[applicationID]
	for i, q := range questions {
		if q.ID == questionID {
			s.questions[applicationID] = append(questions[:i], questions[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ============================================================
// AdminRepository
// ============================================================

type memoryAdminRepository struct {
	store *MemoryStore
}

func (r *memoryAdminRepository) Create(_ context.Context, admin *models.Admin) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.admins {
		if existing.UserName == admin.UserName || strings.EqualFold(existing.Email, admin.Email) {
			return gorm.ErrDuplicatedKey
		}
	}

	now := time.Now()
	admin.ID = s.nextAdminID
	s.nextAdminID++
	admin.CreatedAt = now
	admin.UpdatedAt = now

	stored := *admin
	s.admins[admin.ID] = &stored
	return nil
}

func (r *memoryAdminRepository) GetByID(_ context.Context, id uint) (*models.Admin, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	admin, ok := s.admins[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *admin
	return &cp, nil
}

func (r *memoryAdminRepository) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, admin := range s.admins {
		if strings.EqualFold(admin.Email, email) {
			cp := *admin
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryAdminRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, admin := range s.admins {
		if strings.EqualFold(admin.Email, email) {
			return true, nil
		}
	}
	return false, nil
}
