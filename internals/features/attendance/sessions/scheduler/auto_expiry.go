package scheduler

import (
	"context"
	"log"
	"time"

	sessionService "hadirku_backend/internals/features/attendance/sessions/service"
)

// StartAutoExpiryScheduler: satu loop sweep (bukan timer per-sesi) yang
// mengakhiri paksa sesi Active melewati durasi maksimumnya lewat jalur
// AutoTimeout. Kegagalan transient hanya dilog — dicoba lagi di sweep
// berikutnya. Berhenti saat ctx dibatalkan (shutdown).
func StartAutoExpiryScheduler(ctx context.Context, manager *sessionService.SessionManagerService, interval time.Duration) {
	if interval <= 0 {
		interval = 60 * time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Printf("[AUTO-EXPIRY] Scheduler jalan, interval %s", interval)
		for {
			select {
			case <-ctx.Done():
				log.Println("[AUTO-EXPIRY] Scheduler berhenti.")
				return
			case <-ticker.C:
				ended, err := manager.ExpireOverdueSessions(ctx)
				if err != nil {
					log.Printf("[AUTO-EXPIRY] sweep gagal: %v", err)
					continue
				}
				if ended > 0 {
					log.Printf("[AUTO-EXPIRY] %d sesi diakhiri (auto_timeout)", ended)
				}
			}
		}
	}()
}
