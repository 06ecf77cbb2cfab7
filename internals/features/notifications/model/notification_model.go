package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationModel: outbox event engine (session_started, session_ended,
// attendance_marked). Transport ke klien (WebSocket/push) di luar scope;
// baris outbox ini yang dikonsumsi dispatcher eksternal.
type NotificationModel struct {
	NotificationID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:notification_id" json:"notification_id"`

	NotificationEventType string         `gorm:"type:varchar(40);not null;column:notification_event_type;index:idx_notifications_event_created,priority:1" json:"notification_event_type"`
	NotificationPayload   datatypes.JSON `gorm:"column:notification_payload" json:"notification_payload"`

	NotificationCreatedAt time.Time `gorm:"column:notification_created_at;autoCreateTime;index:idx_notifications_event_created,priority:2" json:"notification_created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
