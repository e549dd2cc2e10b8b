package config

import (
	"context"
	"log"
	"time"

	"caseportal/internal/adapters/persistence/models"
	"caseportal/internal/adapters/persistence/repositories"
	"caseportal/internal/pkg/password"
)

// Seeder handles credential store seeding. Admins are created out-of-band
// only — there is no self-registration flow, so the seeder is the single
// place an admin account comes from.
type Seeder struct {
	appRepo   repositories.ApplicationRepository
	adminRepo repositories.AdminRepository
	cfg       *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(appRepo repositories.ApplicationRepository, adminRepo repositories.AdminRepository, cfg *Config) *Seeder {
	return &Seeder{
		appRepo:   appRepo,
		adminRepo: adminRepo,
		cfg:       cfg,
	}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running credential store seeders...")

	if err := s.seedAdmin(ctx); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if s.cfg.IsDev() {
		if err := s.seedDemoApplication(ctx); err != nil {
			log.Printf("⚠️ Demo application seeder skipped: %v", err)
		}
	}

	log.Println("✅ Credential store seeding completed")
	return nil
}

// seedAdmin seeds the default admin account (bcrypt at rest).
// Override the credentials via ADMIN_EMAIL / ADMIN_PASSWORD in production.
func (s *Seeder) seedAdmin(ctx context.Context) error {
	email := getEnv("ADMIN_EMAIL", "admin@caseportal.local")

	exists, err := s.adminRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hashed, err := password.Hash(getEnv("ADMIN_PASSWORD", "admin123456"))
	if err != nil {
		return err
	}

	admin := &models.Admin{
		UserName: getEnv("ADMIN_USERNAME", "admin"),
		Email:    email,
		Password: hashed,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("✅ Admin account created: %s", admin.Email)
	return nil
}

// seedDemoApplication seeds a sample case for development only
func (s *Seeder) seedDemoApplication(ctx context.Context) error {
	exists, err := s.appRepo.ExistsByApplicationNumber(ctx, "W0000001")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	app := &models.Application{
		UserName:                "demo",
		Password:                "demo123", // plaintext, matching the applicant login path
		Email:                   "demo@caseportal.local",
		ApplicationType:         "Permanent Residence",
		ApplicationNumber:       "W0000001",
		ApplicantName:           "Demo Applicant",
		DateOfSubmission:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:                  "Pending",
		UniqueClientIdentifier:  "0000-0000-DEMO",
		BiometricsNumber:        "B0000001",
		BiometricsEnrolmentDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BiometricsExpiryDate:    time.Date(2035, 1, 1, 0, 0, 0, 0, time.UTC),
		BiometricsStatus:        "NotCompleted",
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return err
	}

	log.Printf("✅ Demo application created: %s", app.ApplicationNumber)
	return nil
}
