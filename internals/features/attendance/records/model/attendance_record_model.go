package model

import (
	"time"

	"github.com/google/uuid"
)

/*
Mapping status kehadiran (SMALLINT):
0 = absent
1 = present
2 = late
3 = excused
*/
type AttendanceStatus int16

const (
	AttendanceAbsent  AttendanceStatus = 0
	AttendancePresent AttendanceStatus = 1
	AttendanceLate    AttendanceStatus = 2
	AttendanceExcused AttendanceStatus = 3
)

/*
Mapping metode verifikasi (SMALLINT, nullable — nil sebelum ada mark):
1 = face_recognition
2 = manual
*/
type VerificationMethod int16

const (
	VerificationFaceRecognition VerificationMethod = 1
	VerificationManual          VerificationMethod = 2
)

type AttendanceRecordModel struct {
	AttendanceRecordID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_record_id" json:"attendance_record_id"`

	AttendanceRecordSessionID uuid.UUID `gorm:"type:uuid;not null;column:attendance_record_session_id;index:idx_attendance_records_session_status,priority:1;uniqueIndex:uq_attendance_records_session_student,priority:1" json:"attendance_record_session_id"`
	AttendanceRecordStudentID uuid.UUID `gorm:"type:uuid;not null;column:attendance_record_student_id;uniqueIndex:uq_attendance_records_session_student,priority:2" json:"attendance_record_student_id"`

	AttendanceRecordStatus AttendanceStatus `gorm:"type:smallint;not null;default:0;column:attendance_record_status;index:idx_attendance_records_session_status,priority:2" json:"attendance_record_status"`

	AttendanceRecordMarkedAt           *time.Time          `gorm:"column:attendance_record_marked_at" json:"attendance_record_marked_at,omitempty"`
	AttendanceRecordVerificationMethod *VerificationMethod `gorm:"type:smallint;column:attendance_record_verification_method" json:"attendance_record_verification_method,omitempty"`

	// Confidence 0..1 dari face recognition (nil untuk mark manual / belum ada mark)
	AttendanceRecordConfidence *float64 `gorm:"column:attendance_record_confidence" json:"attendance_record_confidence,omitempty"`

	AttendanceRecordIsOverride     bool       `gorm:"not null;default:false;column:attendance_record_is_override" json:"attendance_record_is_override"`
	AttendanceRecordOverriddenBy   *uuid.UUID `gorm:"type:uuid;column:attendance_record_overridden_by" json:"attendance_record_overridden_by,omitempty"`
	AttendanceRecordOverrideReason *string    `gorm:"column:attendance_record_override_reason" json:"attendance_record_override_reason,omitempty"`

	AttendanceRecordCreatedAt time.Time  `gorm:"column:attendance_record_created_at;autoCreateTime" json:"attendance_record_created_at"`
	AttendanceRecordUpdatedAt *time.Time `gorm:"column:attendance_record_updated_at;autoUpdateTime" json:"attendance_record_updated_at,omitempty"`
}

func (AttendanceRecordModel) TableName() string {
	return "attendance_records"
}

// IsUntouched: masih record inisialisasi (Absent, belum pernah dimark).
func (m AttendanceRecordModel) IsUntouched() bool {
	return m.AttendanceRecordStatus == AttendanceAbsent && m.AttendanceRecordMarkedAt == nil
}

// HasManualOverride: sudah dikunci mark manual; mark otomatis tidak boleh menimpa.
func (m AttendanceRecordModel) HasManualOverride() bool {
	return m.AttendanceRecordIsOverride &&
		m.AttendanceRecordVerificationMethod != nil &&
		*m.AttendanceRecordVerificationMethod == VerificationManual
}

// ParseAttendanceStatus: dari string request ("present"/"absent"/"late"/"excused").
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	switch s {
	case "absent":
		return AttendanceAbsent, true
	case "present":
		return AttendancePresent, true
	case "late":
		return AttendanceLate, true
	case "excused":
		return AttendanceExcused, true
	default:
		return AttendanceAbsent, false
	}
}

// StatusLabel: label string untuk response/statistik.
func (s AttendanceStatus) StatusLabel() string {
	switch s {
	case AttendancePresent:
		return "present"
	case AttendanceLate:
		return "late"
	case AttendanceExcused:
		return "excused"
	default:
		return "absent"
	}
}
