package service

import (
	"encoding/json"
	"log"

	notifModel "hadirku_backend/internals/features/notifications/model"

	"gorm.io/gorm"
)

// OutboxDispatcher: implementasi NotificationDispatcher. Emit bersifat
// fire-and-forget — insert outbox jalan di goroutine, kegagalan hanya
// dilog dan tidak pernah menyentuh state sesi/ledger.
type OutboxDispatcher struct {
	DB *gorm.DB
}

func NewOutboxDispatcher(db *gorm.DB) *OutboxDispatcher {
	return &OutboxDispatcher{DB: db}
}

func (d *OutboxDispatcher) Emit(eventType string, payload map[string]any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[NOTIF] gagal marshal payload %s: %v", eventType, err)
		return
	}

	go func() {
		row := notifModel.NotificationModel{
			NotificationEventType: eventType,
			NotificationPayload:   raw,
		}
		if err := d.DB.Create(&row).Error; err != nil {
			log.Printf("[NOTIF] gagal simpan event %s: %v", eventType, err)
			return
		}
		log.Printf("[NOTIF] %s terkirim (%s)", eventType, row.NotificationID)
	}()
}
