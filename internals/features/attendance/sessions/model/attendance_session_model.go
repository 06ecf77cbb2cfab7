package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

/*
Mapping status sesi (SMALLINT):
1 = active
2 = completed
3 = cancelled

"Inactive" tidak pernah dipersist — sesi dibuat langsung Active;
"inactive" hanya berarti belum ada sesi untuk kelas tsb.
*/
type SessionStatus int16

const (
	SessionStatusUnspecified SessionStatus = 0
	SessionStatusActive      SessionStatus = 1
	SessionStatusCompleted   SessionStatus = 2
	SessionStatusCancelled   SessionStatus = 3
)

// Label: label string untuk response API.
func (s SessionStatus) Label() string {
	switch s {
	case SessionStatusActive:
		return "active"
	case SessionStatusCompleted:
		return "completed"
	case SessionStatusCancelled:
		return "cancelled"
	default:
		return "unspecified"
	}
}

// SessionEvent: event transisi lifecycle sesi.
type SessionEvent int16

const (
	SessionEventEnd SessionEvent = iota + 1
	SessionEventCancel
	SessionEventAutoTimeout
)

// Alasan sesi berakhir (kolom ended_reason).
const (
	EndedReasonManual      = "manual"
	EndedReasonAutoTimeout = "auto_timeout"
	EndedReasonCancelled   = "cancelled"
)

// ErrInvalidStateTransition: transisi dari state terminal, atau event tak dikenal.
var ErrInvalidStateTransition = errors.New("transisi status sesi tidak valid")

// TransitionSessionStatus: state machine murni, tanpa side effect.
// Pemanggil yang mempersist hasilnya. Transisi dari Completed/Cancelled
// selalu gagal supaya caller bisa memberi respons idempoten-tapi-informatif.
func TransitionSessionStatus(current SessionStatus, ev SessionEvent) (SessionStatus, string, error) {
	if current != SessionStatusActive {
		return current, "", ErrInvalidStateTransition
	}
	switch ev {
	case SessionEventEnd:
		return SessionStatusCompleted, EndedReasonManual, nil
	case SessionEventAutoTimeout:
		return SessionStatusCompleted, EndedReasonAutoTimeout, nil
	case SessionEventCancel:
		return SessionStatusCancelled, EndedReasonCancelled, nil
	default:
		return current, "", ErrInvalidStateTransition
	}
}

type AttendanceSessionModel struct {
	AttendanceSessionID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_session_id" json:"attendance_session_id"`

	AttendanceSessionClassID uuid.UUID     `gorm:"type:uuid;not null;column:attendance_session_class_id;index:idx_attendance_sessions_class_status,priority:1" json:"attendance_session_class_id"`
	AttendanceSessionStatus  SessionStatus `gorm:"type:smallint;not null;default:1;column:attendance_session_status;index:idx_attendance_sessions_class_status,priority:2" json:"attendance_session_status"`

	AttendanceSessionStartTime time.Time  `gorm:"not null;column:attendance_session_start_time" json:"attendance_session_start_time"`
	AttendanceSessionEndTime   *time.Time `gorm:"column:attendance_session_end_time" json:"attendance_session_end_time,omitempty"`

	AttendanceSessionLateThresholdMinutes     int `gorm:"not null;column:attendance_session_late_threshold_minutes" json:"attendance_session_late_threshold_minutes"`
	AttendanceSessionRecognitionWindowMinutes int `gorm:"not null;default:20;column:attendance_session_recognition_window_minutes" json:"attendance_session_recognition_window_minutes"`
	AttendanceSessionMaxDurationMinutes       int `gorm:"not null;default:120;column:attendance_session_max_duration_minutes" json:"attendance_session_max_duration_minutes"`

	// "manual" | "auto_timeout" | "cancelled" (nil selama Active)
	AttendanceSessionEndedReason *string `gorm:"type:varchar(20);column:attendance_session_ended_reason" json:"attendance_session_ended_reason,omitempty"`

	AttendanceSessionCreatedAt time.Time  `gorm:"column:attendance_session_created_at;autoCreateTime" json:"attendance_session_created_at"`
	AttendanceSessionUpdatedAt *time.Time `gorm:"column:attendance_session_updated_at;autoUpdateTime" json:"attendance_session_updated_at,omitempty"`
}

func (AttendanceSessionModel) TableName() string {
	return "attendance_sessions"
}

func (m AttendanceSessionModel) IsActive() bool {
	return m.AttendanceSessionStatus == SessionStatusActive
}

func (m AttendanceSessionModel) IsTerminal() bool {
	return m.AttendanceSessionStatus == SessionStatusCompleted ||
		m.AttendanceSessionStatus == SessionStatusCancelled
}

// RecognitionDeadline: batas atas (inklusif) penerimaan mark otomatis.
func (m AttendanceSessionModel) RecognitionDeadline() time.Time {
	return m.AttendanceSessionStartTime.Add(time.Duration(m.AttendanceSessionRecognitionWindowMinutes) * time.Minute)
}

// LateDeadline: lewat dari ini, mark otomatis dicatat Late, bukan Present.
func (m AttendanceSessionModel) LateDeadline() time.Time {
	return m.AttendanceSessionStartTime.Add(time.Duration(m.AttendanceSessionLateThresholdMinutes) * time.Minute)
}

// IsOverdue: sudah melewati durasi maksimum (kandidat auto-timeout).
func (m AttendanceSessionModel) IsOverdue(now time.Time) bool {
	return now.Sub(m.AttendanceSessionStartTime) > time.Duration(m.AttendanceSessionMaxDurationMinutes)*time.Minute
}
