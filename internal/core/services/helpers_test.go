package services

import (
	"context"
	"errors"
	"time"

	"caseportal/internal/adapters/persistence/models"
	"caseportal/internal/adapters/persistence/repositories"
	"caseportal/internal/config"
)

// fakeMailer records every dispatched code and can be told to fail
type fakeMailer struct {
	sent []sentMail
	fail bool
}

type sentMail struct {
	To   string
	Code string
}

func (m *fakeMailer) Send(to, code string) error {
	if m.fail {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, sentMail{To: to, Code: code})
	return nil
}

func (m *fakeMailer) lastCode() string {
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].Code
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			TempTokenMins:    10,
			SessionTokenDays: 7,
		},
	}
}

// seedApplication creates a ready-to-login application in the store
func seedApplication(store *repositories.MemoryStore, userName string) *models.Application {
	app := &models.Application{
		UserName:                userName,
		Password:                "secret123",
		Email:                   userName + "@example.com",
		ApplicationType:         "Work Permit",
		ApplicationNumber:       "W" + userName,
		ApplicantName:           "Test Applicant",
		DateOfSubmission:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:                  "Pending",
		UniqueClientIdentifier:  "uci-" + userName,
		BiometricsNumber:        "B-" + userName,
		BiometricsEnrolmentDate: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		BiometricsExpiryDate:    time.Date(2035, 3, 2, 0, 0, 0, 0, time.UTC),
		BiometricsStatus:        "NotCompleted",
	}
	if err := store.Applications().Create(context.Background(), app); err != nil {
		panic(err)
	}
	return app
}

// validInput returns a fully populated, passing ApplicationInput
func validInput(userName string) *ApplicationInput {
	return &ApplicationInput{
		UserName:                userName,
		Password:                "secret123",
		Email:                   userName + "@example.com",
		ApplicationType:         "Work Permit",
		ApplicationNumber:       "W" + userName,
		ApplicantName:           "Test Applicant",
		DateOfSubmission:        "2025-03-01",
		BiometricsNumber:        "B-" + userName,
		BiometricsEnrolmentDate: "2025-03-02",
		BiometricsExpiryDate:    "2035-03-02",
	}
}
