package services

import (
	"context"
	"log"
	"time"

	"caseportal/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs the scheduled housekeeping jobs: the expired-OTP sweep
// and the daily biometrics expiry pass.
type CronService struct {
	cron    *cron.Cron
	appRepo repositories.ApplicationRepository
}

// NewCronService creates a new cron service
func NewCronService(appRepo repositories.ApplicationRepository) *CronService {
	return &CronService{
		cron:    cron.New(),
		appRepo: appRepo,
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() {
	// Expired OTPs are unverifiable either way; the sweep just keeps the
	// both-present-or-both-absent invariant tidy on the rows.
	s.cron.AddFunc("@every 5m", s.sweepExpiredOTPs)

	// Biometrics past their expiry date flip to Expired once a day
	s.cron.AddFunc("@daily", s.expireBiometrics)

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler, waiting for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) sweepExpiredOTPs() {
	cleared, err := s.appRepo.ClearExpiredOTPs(context.Background(), time.Now())
	if err != nil {
		log.Printf("❌ OTP sweep error: %v", err)
		return
	}
	if cleared > 0 {
		log.Printf("🧹 Cleared %d expired OTPs", cleared)
	}
}

func (s *CronService) expireBiometrics() {
	expired, err := s.appRepo.ExpireBiometrics(context.Background(), time.Now())
	if err != nil {
		log.Printf("❌ Biometrics expiry error: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("⌛ Marked %d biometrics records Expired", expired)
	}
}
