package service

import (
	"time"

	sessionModel "hadirku_backend/internals/features/attendance/sessions/model"
)

// Alasan penolakan window (terstruktur, supaya caller bisa memutuskan
// apakah perlu prompt mark manual).
type WindowRejectReason string

const (
	WindowRejectSessionNotActive WindowRejectReason = "session_not_active"
	WindowRejectWindowClosed     WindowRejectReason = "window_closed"
)

// WindowDecision: hasil guard window recognition. Penolakan adalah
// hasil bisnis (soft), bukan error sistem.
type WindowDecision struct {
	Allowed bool
	Reason  WindowRejectReason
}

// EvaluateRecognitionWindow: event otomatis diterima iff sesi Active DAN
// event_timestamp - start_time <= recognition_window_minutes.
// Batas atas window inklusif — event tepat di batas tetap diterima
// (keputusan kebijakan eksplisit; lihat DESIGN.md).
func EvaluateRecognitionWindow(session sessionModel.AttendanceSessionModel, eventTime time.Time) WindowDecision {
	if !session.IsActive() {
		return WindowDecision{Allowed: false, Reason: WindowRejectSessionNotActive}
	}
	if eventTime.After(session.RecognitionDeadline()) {
		return WindowDecision{Allowed: false, Reason: WindowRejectWindowClosed}
	}
	return WindowDecision{Allowed: true}
}
