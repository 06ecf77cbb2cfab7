package dto

import (
	"time"

	recordDTO "hadirku_backend/internals/features/attendance/records/dto"

	"github.com/google/uuid"
)

// Event dari boundary recognition (Edge Agent / kamera).
// Engine tidak menghitung recognition — hanya menerima tuple ini.
type RecognitionEventRequest struct {
	RecognitionSessionID  uuid.UUID `json:"recognition_session_id" validate:"required"`
	RecognitionStudentID  uuid.UUID `json:"recognition_student_id" validate:"required"`
	RecognitionConfidence float64   `json:"recognition_confidence" validate:"min=0,max=1"`
	RecognitionTimestamp  time.Time `json:"recognition_timestamp" validate:"required"`
}

// Hasil ingest: accepted, atau rejected dengan reason terstruktur
// (session_not_active | window_closed | attendance_record_locked)
// supaya caller bisa memutuskan prompt mark manual.
type RecognitionIngestResponse struct {
	Accepted bool                                `json:"accepted"`
	Reason   string                              `json:"reason,omitempty"`
	Record   *recordDTO.AttendanceRecordResponse `json:"record,omitempty"`
}
