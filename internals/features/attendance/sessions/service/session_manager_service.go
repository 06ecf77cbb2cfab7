package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	recordModel "hadirku_backend/internals/features/attendance/records/model"
	recordService "hadirku_backend/internals/features/attendance/records/service"
	sessionModel "hadirku_backend/internals/features/attendance/sessions/model"

	"github.com/google/uuid"
)

/* ===============================
   Kolaborator (dependency-injected)
=============================== */

// SessionStore: akses persistence sesi. Create wajib atomic terhadap
// invariant satu-Active-per-kelas (index unik partial di Postgres,
// mutex di fake).
type SessionStore interface {
	Create(ctx context.Context, session *sessionModel.AttendanceSessionModel) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (sessionModel.AttendanceSessionModel, error)
	GetActiveByClass(ctx context.Context, classID uuid.UUID) (sessionModel.AttendanceSessionModel, error)
	ListActive(ctx context.Context) ([]sessionModel.AttendanceSessionModel, error)
	Update(ctx context.Context, session *sessionModel.AttendanceSessionModel) error
}

// EnrollmentProvider: kolaborator eksternal; dipanggil sekali saat startSession.
type EnrollmentProvider interface {
	ListEnrolledStudents(ctx context.Context, classID uuid.UUID) ([]uuid.UUID, error)
}

// NotificationDispatcher: fire-and-forget. Kegagalan kirim tidak boleh
// menggagalkan (apalagi me-rollback) transisi state — kontraknya Emit
// tidak pernah mengembalikan error dan tidak boleh blocking lama.
type NotificationDispatcher interface {
	Emit(eventType string, payload map[string]any)
}

const (
	EventSessionStarted   = "session_started"
	EventSessionEnded     = "session_ended"
	EventAttendanceMarked = "attendance_marked"
)

/* ===============================
   Input / hasil
=============================== */

type StartSessionInput struct {
	ClassID              uuid.UUID
	LateThresholdMinutes int
	// 0 → pakai default engine
	RecognitionWindowMinutes int
	MaxDurationMinutes       int
}

// MarkOutcome: hasil mark otomatis. Penolakan window / record terkunci
// adalah hasil bisnis, bukan error — caller (ingest) bisa menindaklanjuti
// dengan prompt mark manual.
type MarkOutcome struct {
	Accepted bool                               `json:"accepted"`
	Reason   string                             `json:"reason,omitempty"`
	Record   *recordModel.AttendanceRecordModel `json:"record,omitempty"`
}

const MarkRejectRecordLocked = "attendance_record_locked"

/* ===============================
   SessionManager
=============================== */

// SessionManagerService mengorkestrasi lifecycle sesi dan merupakan
// satu-satunya pemutasi state sesi. Semua mutasi untuk satu sesi
// diserialisasi lewat mutex per-sesi, sehingga mark tidak pernah
// menyelinap setelah sesi transisi ke state terminal.
type SessionManagerService struct {
	store      SessionStore
	ledger     *recordService.AttendanceLedgerService
	enrollment EnrollmentProvider
	dispatcher NotificationDispatcher
	clock      func() time.Time

	defaultWindowMinutes      int
	defaultMaxDurationMinutes int

	locks sync.Map // session id → *sync.Mutex
}

func NewSessionManagerService(
	store SessionStore,
	ledger *recordService.AttendanceLedgerService,
	enrollment EnrollmentProvider,
	dispatcher NotificationDispatcher,
	defaultWindowMinutes, defaultMaxDurationMinutes int,
) *SessionManagerService {
	return &SessionManagerService{
		store:                     store,
		ledger:                    ledger,
		enrollment:                enrollment,
		dispatcher:                dispatcher,
		clock:                     time.Now,
		defaultWindowMinutes:      defaultWindowMinutes,
		defaultMaxDurationMinutes: defaultMaxDurationMinutes,
	}
}

func (s *SessionManagerService) lockSession(id uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

/* ===============================
   Lifecycle
=============================== */

// StartSession: check-and-create atomic (index unik partial per class_id),
// lalu inisialisasi ledger (semua siswa terdaftar = Absent). Kalau
// inisialisasi gagal, sesi yang baru dibuat dihapus lagi — inisialisasi
// parsial bukan state valid.
func (s *SessionManagerService) StartSession(ctx context.Context, in StartSessionInput) (sessionModel.AttendanceSessionModel, error) {
	students, err := s.enrollment.ListEnrolledStudents(ctx, in.ClassID)
	if err != nil {
		return sessionModel.AttendanceSessionModel{}, err
	}

	windowMinutes := in.RecognitionWindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = s.defaultWindowMinutes
	}
	maxDuration := in.MaxDurationMinutes
	if maxDuration <= 0 {
		maxDuration = s.defaultMaxDurationMinutes
	}

	session := sessionModel.AttendanceSessionModel{
		AttendanceSessionID:                       uuid.New(),
		AttendanceSessionClassID:                  in.ClassID,
		AttendanceSessionStatus:                   sessionModel.SessionStatusActive,
		AttendanceSessionStartTime:                s.clock().UTC(),
		AttendanceSessionLateThresholdMinutes:     in.LateThresholdMinutes,
		AttendanceSessionRecognitionWindowMinutes: windowMinutes,
		AttendanceSessionMaxDurationMinutes:       maxDuration,
	}

	if err := s.store.Create(ctx, &session); err != nil {
		return sessionModel.AttendanceSessionModel{}, err
	}

	if err := s.ledger.Initialize(ctx, session, students); err != nil {
		// kompensasi: sesi tanpa ledger lengkap tidak boleh hidup
		if delErr := s.store.Delete(ctx, session.AttendanceSessionID); delErr != nil {
			log.Printf("[SESSION] gagal rollback sesi %s setelah init ledger gagal: %v", session.AttendanceSessionID, delErr)
		}
		return sessionModel.AttendanceSessionModel{}, err
	}

	s.dispatcher.Emit(EventSessionStarted, map[string]any{
		"session_id":     session.AttendanceSessionID,
		"class_id":       session.AttendanceSessionClassID,
		"start_time":     session.AttendanceSessionStartTime,
		"enrolled_count": len(students),
	})

	return session, nil
}

// EndSession: transisi Active→Completed (ended_reason=manual), ledger beku.
func (s *SessionManagerService) EndSession(ctx context.Context, sessionID, actor uuid.UUID) (sessionModel.AttendanceSessionModel, error) {
	return s.terminate(ctx, sessionID, sessionModel.SessionEventEnd, actor)
}

// CancelSession: transisi Active→Cancelled. Record dibiarkan sebagaimana
// terakhir tercatat — Cancel berarti sesi tidak dihitung, bukan sesi selesai.
func (s *SessionManagerService) CancelSession(ctx context.Context, sessionID, actor uuid.UUID) (sessionModel.AttendanceSessionModel, error) {
	return s.terminate(ctx, sessionID, sessionModel.SessionEventCancel, actor)
}

// ExpireSession: jalur AutoTimeout (dipakai scheduler). Guard: elapsed
// harus ≥ max_duration.
func (s *SessionManagerService) ExpireSession(ctx context.Context, sessionID uuid.UUID) (sessionModel.AttendanceSessionModel, error) {
	return s.terminate(ctx, sessionID, sessionModel.SessionEventAutoTimeout, uuid.Nil)
}

func (s *SessionManagerService) terminate(ctx context.Context, sessionID uuid.UUID, ev sessionModel.SessionEvent, actor uuid.UUID) (sessionModel.AttendanceSessionModel, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return sessionModel.AttendanceSessionModel{}, err
	}

	now := s.clock().UTC()
	if ev == sessionModel.SessionEventAutoTimeout && session.IsActive() && !session.IsOverdue(now) {
		return session, ErrSessionNotOverdue
	}

	newStatus, reason, err := sessionModel.TransitionSessionStatus(session.AttendanceSessionStatus, ev)
	if err != nil {
		return session, err
	}

	session.AttendanceSessionStatus = newStatus
	session.AttendanceSessionEndTime = &now
	session.AttendanceSessionEndedReason = &reason
	if err := s.store.Update(ctx, &session); err != nil {
		return sessionModel.AttendanceSessionModel{}, err
	}

	// Sesi terminal tidak butuh serialisasi lagi (operasi berikutnya gagal
	// di cek status), buang entry supaya map tidak tumbuh seumur proses.
	s.locks.Delete(sessionID)

	payload := map[string]any{
		"session_id":   session.AttendanceSessionID,
		"class_id":     session.AttendanceSessionClassID,
		"ended_reason": reason,
	}
	if actor != uuid.Nil {
		payload["actor"] = actor
	}
	s.dispatcher.Emit(EventSessionEnded, payload)

	return session, nil
}

// ExpireOverdueSessions: satu sweep — list semua sesi Active, akhiri yang
// melewati max duration. Race dengan terminasi manual di antara list dan
// act diperlakukan no-op (bukan error operator).
func (s *SessionManagerService) ExpireOverdueSessions(ctx context.Context) (int, error) {
	active, err := s.store.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	now := s.clock().UTC()
	ended := 0
	for _, session := range active {
		if !session.IsOverdue(now) {
			continue
		}
		if _, err := s.ExpireSession(ctx, session.AttendanceSessionID); err != nil {
			// stale read: sudah diakhiri manual → benign
			if errors.Is(err, sessionModel.ErrInvalidStateTransition) ||
				errors.Is(err, ErrSessionNotFound) ||
				errors.Is(err, ErrSessionNotOverdue) {
				continue
			}
			// transient (mis. DB) → coba lagi di sweep berikutnya
			log.Printf("[AUTO-EXPIRY] gagal mengakhiri sesi %s: %v", session.AttendanceSessionID, err)
			continue
		}
		ended++
	}
	return ended, nil
}

/* ===============================
   Marking
=============================== */

// MarkAutomatic: jalur event recognition. Window guard dicek di sini;
// penolakan window & record terkunci dikembalikan sebagai MarkOutcome
// (soft), identitas tak terdaftar sebagai ErrRecordNotFound (hard).
func (s *SessionManagerService) MarkAutomatic(ctx context.Context, sessionID, studentID uuid.UUID, confidence float64, ts time.Time) (MarkOutcome, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return MarkOutcome{}, err
	}

	if decision := EvaluateRecognitionWindow(session, ts); !decision.Allowed {
		return MarkOutcome{Accepted: false, Reason: string(decision.Reason)}, nil
	}

	record, err := s.ledger.MarkAutomatic(ctx, session, studentID, confidence, ts)
	if err != nil {
		if errors.Is(err, recordService.ErrRecordLocked) {
			return MarkOutcome{Accepted: false, Reason: MarkRejectRecordLocked, Record: &record}, nil
		}
		return MarkOutcome{}, err
	}

	s.emitMarked(session, record)
	return MarkOutcome{Accepted: true, Record: &record}, nil
}

// MarkManual: melewati window guard; hanya butuh sesi Active.
func (s *SessionManagerService) MarkManual(ctx context.Context, sessionID, studentID uuid.UUID, status recordModel.AttendanceStatus, actor uuid.UUID, reason *string) (recordModel.AttendanceRecordModel, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return recordModel.AttendanceRecordModel{}, err
	}
	if !session.IsActive() {
		return recordModel.AttendanceRecordModel{}, sessionModel.ErrInvalidStateTransition
	}

	record, err := s.ledger.MarkManual(ctx, session, studentID, status, actor, reason)
	if err != nil {
		return recordModel.AttendanceRecordModel{}, err
	}

	s.emitMarked(session, record)
	return record, nil
}

func (s *SessionManagerService) emitMarked(session sessionModel.AttendanceSessionModel, record recordModel.AttendanceRecordModel) {
	s.dispatcher.Emit(EventAttendanceMarked, map[string]any{
		"session_id": session.AttendanceSessionID,
		"class_id":   session.AttendanceSessionClassID,
		"student_id": record.AttendanceRecordStudentID,
		"status":     record.AttendanceRecordStatus.StatusLabel(),
	})
}

/* ===============================
   Query
=============================== */

func (s *SessionManagerService) GetSession(ctx context.Context, sessionID uuid.UUID) (sessionModel.AttendanceSessionModel, error) {
	return s.store.Get(ctx, sessionID)
}

// GetActiveSession: nil-style lookup — ErrSessionNotFound jika kelas
// sedang tidak punya sesi Active.
func (s *SessionManagerService) GetActiveSession(ctx context.Context, classID uuid.UUID) (sessionModel.AttendanceSessionModel, error) {
	return s.store.GetActiveByClass(ctx, classID)
}
