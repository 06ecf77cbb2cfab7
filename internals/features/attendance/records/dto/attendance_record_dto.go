package dto

import (
	"time"

	recordModel "hadirku_backend/internals/features/attendance/records/model"

	"github.com/google/uuid"
)

/* =========================================================
   1) REQUEST DTO
   ========================================================= */

// Mark manual (mentor/guru). Melewati window guard; reason opsional,
// dicatat sebagai override_reason.
type ManualMarkRequest struct {
	AttendanceRecordStudentID uuid.UUID `json:"attendance_record_student_id" validate:"required"`
	AttendanceRecordStatus    string    `json:"attendance_record_status" validate:"required,oneof=present absent late excused"`
	AttendanceRecordReason    *string   `json:"attendance_record_reason" validate:"omitempty,max=500"`
}

/* =========================================================
   2) RESPONSE DTO
   ========================================================= */

type AttendanceRecordResponse struct {
	AttendanceRecordID        uuid.UUID `json:"attendance_record_id"`
	AttendanceRecordSessionID uuid.UUID `json:"attendance_record_session_id"`
	AttendanceRecordStudentID uuid.UUID `json:"attendance_record_student_id"`

	AttendanceRecordStatus             string     `json:"attendance_record_status"`
	AttendanceRecordMarkedAt           *time.Time `json:"attendance_record_marked_at,omitempty"`
	AttendanceRecordVerificationMethod *string    `json:"attendance_record_verification_method,omitempty"`
	AttendanceRecordConfidence         *float64   `json:"attendance_record_confidence,omitempty"`

	AttendanceRecordIsOverride     bool       `json:"attendance_record_is_override"`
	AttendanceRecordOverriddenBy   *uuid.UUID `json:"attendance_record_overridden_by,omitempty"`
	AttendanceRecordOverrideReason *string    `json:"attendance_record_override_reason,omitempty"`

	AttendanceRecordCreatedAt time.Time  `json:"attendance_record_created_at"`
	AttendanceRecordUpdatedAt *time.Time `json:"attendance_record_updated_at,omitempty"`
}

/* =========================================================
   3) MAPPERS
   ========================================================= */

func FromAttendanceRecordModel(m recordModel.AttendanceRecordModel) AttendanceRecordResponse {
	var method *string
	if m.AttendanceRecordVerificationMethod != nil {
		label := "manual"
		if *m.AttendanceRecordVerificationMethod == recordModel.VerificationFaceRecognition {
			label = "face_recognition"
		}
		method = &label
	}

	return AttendanceRecordResponse{
		AttendanceRecordID:                 m.AttendanceRecordID,
		AttendanceRecordSessionID:          m.AttendanceRecordSessionID,
		AttendanceRecordStudentID:          m.AttendanceRecordStudentID,
		AttendanceRecordStatus:             m.AttendanceRecordStatus.StatusLabel(),
		AttendanceRecordMarkedAt:           m.AttendanceRecordMarkedAt,
		AttendanceRecordVerificationMethod: method,
		AttendanceRecordConfidence:         m.AttendanceRecordConfidence,
		AttendanceRecordIsOverride:         m.AttendanceRecordIsOverride,
		AttendanceRecordOverriddenBy:       m.AttendanceRecordOverriddenBy,
		AttendanceRecordOverrideReason:     m.AttendanceRecordOverrideReason,
		AttendanceRecordCreatedAt:          m.AttendanceRecordCreatedAt,
		AttendanceRecordUpdatedAt:          m.AttendanceRecordUpdatedAt,
	}
}

// Batch mapper
func FromAttendanceRecordModels(models []recordModel.AttendanceRecordModel) []AttendanceRecordResponse {
	out := make([]AttendanceRecordResponse, 0, len(models))
	for _, m := range models {
		out = append(out, FromAttendanceRecordModel(m))
	}
	return out
}
