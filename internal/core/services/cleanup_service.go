package services

import (
	"context"
	"log"
	"time"

	"rema-partners/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CleanupService purges revocation records whose stored expiry has passed.
// Such tokens fail the expiry check on their own, so the denylist row is dead
// weight once the expiry is behind us.
type CleanupService struct {
	revokedTokenRepo repositories.RevokedTokenRepository
	cron             *cron.Cron
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(revokedTokenRepo repositories.RevokedTokenRepository) *CleanupService {
	return &CleanupService{
		revokedTokenRepo: revokedTokenRepo,
		cron:             cron.New(),
	}
}

// Start schedules the hourly purge
func (s *CleanupService) Start() {
	_, err := s.cron.AddFunc("@hourly", s.purgeExpired)
	if err != nil {
		log.Printf("❌ Failed to schedule revocation cleanup: %v", err)
		return
	}
	s.cron.Start()
	log.Println("🚀 Revocation cleanup scheduled (hourly)")
}

// Stop stops the scheduler and waits for a running purge to finish
func (s *CleanupService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Revocation cleanup stopped")
}

func (s *CleanupService) purgeExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.revokedTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Revocation cleanup error: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("🧹 Purged %d expired revocation records", deleted)
	}
}
