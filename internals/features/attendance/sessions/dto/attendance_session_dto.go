package dto

import (
	"time"

	sessionModel "hadirku_backend/internals/features/attendance/sessions/model"
	sessionService "hadirku_backend/internals/features/attendance/sessions/service"

	"github.com/google/uuid"
)

/* =========================================================
   1) REQUEST DTO
   ========================================================= */

type StartAttendanceSessionRequest struct {
	AttendanceSessionClassID              uuid.UUID `json:"attendance_session_class_id" validate:"required"`
	AttendanceSessionLateThresholdMinutes int       `json:"attendance_session_late_threshold_minutes" validate:"min=0,max=180"`

	// Opsional — kosong → default engine (20 / 120 menit)
	AttendanceSessionRecognitionWindowMinutes *int `json:"attendance_session_recognition_window_minutes" validate:"omitempty,min=1,max=180"`
	AttendanceSessionMaxDurationMinutes       *int `json:"attendance_session_max_duration_minutes" validate:"omitempty,min=1,max=600"`
}

func (r StartAttendanceSessionRequest) ToInput() sessionService.StartSessionInput {
	in := sessionService.StartSessionInput{
		ClassID:              r.AttendanceSessionClassID,
		LateThresholdMinutes: r.AttendanceSessionLateThresholdMinutes,
	}
	if r.AttendanceSessionRecognitionWindowMinutes != nil {
		in.RecognitionWindowMinutes = *r.AttendanceSessionRecognitionWindowMinutes
	}
	if r.AttendanceSessionMaxDurationMinutes != nil {
		in.MaxDurationMinutes = *r.AttendanceSessionMaxDurationMinutes
	}
	return in
}

/* =========================================================
   2) RESPONSE DTO
   ========================================================= */

type AttendanceSessionResponse struct {
	AttendanceSessionID      uuid.UUID `json:"attendance_session_id"`
	AttendanceSessionClassID uuid.UUID `json:"attendance_session_class_id"`
	AttendanceSessionStatus  string    `json:"attendance_session_status"`

	AttendanceSessionStartTime time.Time  `json:"attendance_session_start_time"`
	AttendanceSessionEndTime   *time.Time `json:"attendance_session_end_time,omitempty"`

	AttendanceSessionLateThresholdMinutes     int `json:"attendance_session_late_threshold_minutes"`
	AttendanceSessionRecognitionWindowMinutes int `json:"attendance_session_recognition_window_minutes"`
	AttendanceSessionMaxDurationMinutes       int `json:"attendance_session_max_duration_minutes"`

	AttendanceSessionEndedReason *string `json:"attendance_session_ended_reason,omitempty"`

	AttendanceSessionCreatedAt time.Time  `json:"attendance_session_created_at"`
	AttendanceSessionUpdatedAt *time.Time `json:"attendance_session_updated_at,omitempty"`
}

/* =========================================================
   3) MAPPERS
   ========================================================= */

func FromAttendanceSessionModel(m sessionModel.AttendanceSessionModel) AttendanceSessionResponse {
	return AttendanceSessionResponse{
		AttendanceSessionID:                       m.AttendanceSessionID,
		AttendanceSessionClassID:                  m.AttendanceSessionClassID,
		AttendanceSessionStatus:                   m.AttendanceSessionStatus.Label(),
		AttendanceSessionStartTime:                m.AttendanceSessionStartTime,
		AttendanceSessionEndTime:                  m.AttendanceSessionEndTime,
		AttendanceSessionLateThresholdMinutes:     m.AttendanceSessionLateThresholdMinutes,
		AttendanceSessionRecognitionWindowMinutes: m.AttendanceSessionRecognitionWindowMinutes,
		AttendanceSessionMaxDurationMinutes:       m.AttendanceSessionMaxDurationMinutes,
		AttendanceSessionEndedReason:              m.AttendanceSessionEndedReason,
		AttendanceSessionCreatedAt:                m.AttendanceSessionCreatedAt,
		AttendanceSessionUpdatedAt:                m.AttendanceSessionUpdatedAt,
	}
}
