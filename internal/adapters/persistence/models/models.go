package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Applicant & Case Tables
// ============================================================

// Application represents applications table — the primary case aggregate
type Application struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	UserName               string     `gorm:"uniqueIndex;size:50;not null" json:"user_name"`
	Password               string     `gorm:"size:255;not null" json:"-"` // plaintext in the applicant login path (legacy behavior)
	Email                  string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	ApplicationType        string     `gorm:"size:50;not null" json:"application_type"`
	ApplicationNumber      string     `gorm:"uniqueIndex;size:50;not null" json:"application_number"`
	ApplicantName          string     `gorm:"size:100;not null" json:"applicant_name"`
	DateOfSubmission       time.Time  `gorm:"not null" json:"date_of_submission"`
	Status                 string     `gorm:"size:20;not null;default:'Pending'" json:"status"`
	UniqueClientIdentifier string     `gorm:"size:64" json:"unique_client_identifier"`

	// Biometrics sub-record
	BiometricsNumber        string    `gorm:"size:50" json:"biometrics_number"`
	BiometricsEnrolmentDate time.Time `json:"biometrics_enrolment_date"`
	BiometricsExpiryDate    time.Time `json:"biometrics_expiry_date"`
	BiometricsStatus        string    `gorm:"size:20;not null;default:'NotCompleted'" json:"biometrics_status"`

	// Transient 2FA fields — present only while a login is mid-flight,
	// both cleared together after successful verification. Never serialized.
	OTPCode    *string    `gorm:"size:16" json:"-"`
	OTPExpires *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Messages          []Message          `gorm:"foreignKey:ApplicationID" json:"messages,omitempty"`
	SecurityQuestions []SecurityQuestion `gorm:"foreignKey:ApplicationID" json:"-"`
}

func (Application) TableName() string {
	return "applications"
}

// HasPendingOTP reports whether a login is mid-flight for this application
func (a *Application) HasPendingOTP() bool {
	return a.OTPCode != nil && a.OTPExpires != nil
}

// Message represents messages table (1:N with application, append-only)
type Message struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	SentAt        time.Time `gorm:"not null" json:"sent_at"`
	IsRead        bool      `gorm:"default:false" json:"is_read"`
}

func (Message) TableName() string {
	return "messages"
}

// SecurityQuestion represents security_questions table (1:N with application)
type SecurityQuestion struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ApplicationID uint   `gorm:"not null;index" json:"application_id"`
	Question      string `gorm:"size:255;not null" json:"question"`
	Answer        string `gorm:"size:255;not null" json:"-"`
}

func (SecurityQuestion) TableName() string {
	return "security_questions"
}

// Admin represents admins table. Created by the seeder only — there is no
// self-registration flow. Password is a bcrypt hash, unlike Application.
type Admin struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserName  string         `gorm:"uniqueIndex;size:50;not null" json:"user_name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Admin) TableName() string {
	return "admins"
}

// ============================================================
// Response DTOs
// ============================================================

// MessageResponse DTO — exposes a stable message id alongside the base fields
type MessageResponse struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
	SentAt  string `json:"sent_at"`
	IsRead  bool   `json:"is_read"`
}

// BiometricsResponse DTO
type BiometricsResponse struct {
	Number        string `json:"number"`
	EnrolmentDate string `json:"enrolment_date"`
	ExpiryDate    string `json:"expiry_date"`
	Status        string `json:"status"`
}

// ApplicationResponse DTO — dates rendered as ISO-8601 strings, OTP fields and
// password never exposed
type ApplicationResponse struct {
	ID                     uint               `json:"id"`
	UserName               string             `json:"user_name"`
	Email                  string             `json:"email"`
	ApplicationType        string             `json:"application_type"`
	ApplicationNumber      string             `json:"application_number"`
	ApplicantName          string             `json:"applicant_name"`
	DateOfSubmission       string             `json:"date_of_submission"`
	Status                 string             `json:"status"`
	UniqueClientIdentifier string             `json:"unique_client_identifier"`
	Biometrics             BiometricsResponse `json:"biometrics"`
	Messages               []MessageResponse  `json:"messages"`
	CreatedAt              string             `json:"created_at"`
	UpdatedAt              string             `json:"updated_at"`
}

func (a *Application) ToResponse() *ApplicationResponse {
	messages := make([]MessageResponse, 0, len(a.Messages))
	for _, m := range a.Messages {
		messages = append(messages, MessageResponse{
			ID:      m.ID,
			Content: m.Content,
			SentAt:  m.SentAt.UTC().Format(time.RFC3339),
			IsRead:  m.IsRead,
		})
	}

	return &ApplicationResponse{
		ID:                     a.ID,
		UserName:               a.UserName,
		Email:                  a.Email,
		ApplicationType:        a.ApplicationType,
		ApplicationNumber:      a.ApplicationNumber,
		ApplicantName:          a.ApplicantName,
		DateOfSubmission:       a.DateOfSubmission.UTC().Format(time.RFC3339),
		Status:                 a.Status,
		UniqueClientIdentifier: a.UniqueClientIdentifier,
		Biometrics: BiometricsResponse{
			Number:        a.BiometricsNumber,
			EnrolmentDate: a.BiometricsEnrolmentDate.UTC().Format(time.RFC3339),
			ExpiryDate:    a.BiometricsExpiryDate.UTC().Format(time.RFC3339),
			Status:        a.BiometricsStatus,
		},
		Messages:  messages,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// SecurityQuestionResponse DTO — answers are never returned to the client
type SecurityQuestionResponse struct {
	ID       uint   `json:"id"`
	Question string `json:"question"`
}

func (q *SecurityQuestion) ToResponse() *SecurityQuestionResponse {
	return &SecurityQuestionResponse{
		ID:       q.ID,
		Question: q.Question,
	}
}

// AdminResponse DTO
type AdminResponse struct {
	ID        uint   `json:"id"`
	UserName  string `json:"user_name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func (a *Admin) ToResponse() *AdminResponse {
	return &AdminResponse{
		ID:        a.ID,
		UserName:  a.UserName,
		Email:     a.Email,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Application{},
		&Message{},
		&SecurityQuestion{},
		&Admin{},
	)
}
