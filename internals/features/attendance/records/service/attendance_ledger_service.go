package service

import (
	"context"
	"errors"
	"time"

	recordModel "hadirku_backend/internals/features/attendance/records/model"
	sessionModel "hadirku_backend/internals/features/attendance/sessions/model"

	"github.com/google/uuid"
)

var (
	// ErrRecordNotFound: student tidak terdaftar saat inisialisasi sesi.
	// Event recognition untuk identitas tak terdaftar ditolak eksplisit,
	// bukan di-drop diam-diam, supaya bisa dilog di hulu.
	ErrRecordNotFound = errors.New("record kehadiran tidak ditemukan untuk student tsb")

	// ErrRecordLocked: record sudah dikunci override manual;
	// mark otomatis tidak pernah menimpanya.
	ErrRecordLocked = errors.New("record kehadiran terkunci oleh override manual")
)

// RecordStore: akses persistence record kehadiran. Diinject supaya
// service bisa dites dengan fake in-memory (tanpa DB).
type RecordStore interface {
	// BulkCreate harus atomic — inisialisasi parsial bukan state valid.
	BulkCreate(ctx context.Context, records []recordModel.AttendanceRecordModel) error
	GetBySessionStudent(ctx context.Context, sessionID, studentID uuid.UUID) (recordModel.AttendanceRecordModel, error)
	Update(ctx context.Context, record *recordModel.AttendanceRecordModel) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]recordModel.AttendanceRecordModel, error)
	CountByStatus(ctx context.Context, sessionID uuid.UUID) (map[recordModel.AttendanceStatus]int64, error)
}

// AttendanceStats: agregat per status untuk satu sesi.
type AttendanceStats struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Late    int64 `json:"late"`
	Excused int64 `json:"excused"`
}

// AttendanceLedgerService: satu-satunya yang memutasi field record kehadiran.
type AttendanceLedgerService struct {
	store RecordStore
	clock func() time.Time
}

func NewAttendanceLedgerService(store RecordStore) *AttendanceLedgerService {
	return &AttendanceLedgerService{store: store, clock: time.Now}
}

// Initialize: satu record Absent per student terdaftar, verification unset,
// marked_at nil. Bulk insert tunggal (atomic di store).
func (s *AttendanceLedgerService) Initialize(ctx context.Context, session sessionModel.AttendanceSessionModel, studentIDs []uuid.UUID) error {
	if len(studentIDs) == 0 {
		return nil
	}
	records := make([]recordModel.AttendanceRecordModel, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		records = append(records, recordModel.AttendanceRecordModel{
			AttendanceRecordSessionID: session.AttendanceSessionID,
			AttendanceRecordStudentID: studentID,
			AttendanceRecordStatus:    recordModel.AttendanceAbsent,
		})
	}
	return s.store.BulkCreate(ctx, records)
}

// MarkAutomatic: mark dari face recognition. Guard window sudah dicek
// pemanggil (SessionManager); di sini berlaku kebijakan konflik:
//   - override manual bersifat sticky → ErrRecordLocked
//   - auto-over-auto: last-write-wins (sighting terbaru menang,
//     terlepas confidence-nya)
//
// Late jika timestamp melewati late threshold sesi.
func (s *AttendanceLedgerService) MarkAutomatic(ctx context.Context, session sessionModel.AttendanceSessionModel, studentID uuid.UUID, confidence float64, ts time.Time) (recordModel.AttendanceRecordModel, error) {
	if !session.IsActive() {
		return recordModel.AttendanceRecordModel{}, sessionModel.ErrInvalidStateTransition
	}

	record, err := s.store.GetBySessionStudent(ctx, session.AttendanceSessionID, studentID)
	if err != nil {
		return recordModel.AttendanceRecordModel{}, err
	}
	if record.HasManualOverride() {
		return record, ErrRecordLocked
	}

	status := recordModel.AttendancePresent
	if ts.After(session.LateDeadline()) {
		status = recordModel.AttendanceLate
	}

	method := recordModel.VerificationFaceRecognition
	markedAt := ts
	record.AttendanceRecordStatus = status
	record.AttendanceRecordMarkedAt = &markedAt
	record.AttendanceRecordVerificationMethod = &method
	record.AttendanceRecordConfidence = &confidence

	if err := s.store.Update(ctx, &record); err != nil {
		return recordModel.AttendanceRecordModel{}, err
	}
	return record, nil
}

// MarkManual: selalu boleh selama sesi Active (tanpa cek window).
// Setiap mark manual adalah override — is_override=true + actor + reason —
// sehingga mark otomatis berikutnya terkunci, termasuk saat mentor mencatat
// siswa yang belum pernah dimark (mis. setelah event otomatisnya ditolak window).
func (s *AttendanceLedgerService) MarkManual(ctx context.Context, session sessionModel.AttendanceSessionModel, studentID uuid.UUID, status recordModel.AttendanceStatus, actor uuid.UUID, reason *string) (recordModel.AttendanceRecordModel, error) {
	if !session.IsActive() {
		return recordModel.AttendanceRecordModel{}, sessionModel.ErrInvalidStateTransition
	}

	record, err := s.store.GetBySessionStudent(ctx, session.AttendanceSessionID, studentID)
	if err != nil {
		return recordModel.AttendanceRecordModel{}, err
	}

	method := recordModel.VerificationManual
	markedAt := s.clock()
	record.AttendanceRecordStatus = status
	record.AttendanceRecordMarkedAt = &markedAt
	record.AttendanceRecordVerificationMethod = &method
	record.AttendanceRecordConfidence = nil
	record.AttendanceRecordIsOverride = true
	record.AttendanceRecordOverriddenBy = &actor
	record.AttendanceRecordOverrideReason = reason

	if err := s.store.Update(ctx, &record); err != nil {
		return recordModel.AttendanceRecordModel{}, err
	}
	return record, nil
}

func (s *AttendanceLedgerService) GetRecords(ctx context.Context, sessionID uuid.UUID) ([]recordModel.AttendanceRecordModel, error) {
	return s.store.ListBySession(ctx, sessionID)
}

func (s *AttendanceLedgerService) GetStats(ctx context.Context, sessionID uuid.UUID) (AttendanceStats, error) {
	counts, err := s.store.CountByStatus(ctx, sessionID)
	if err != nil {
		return AttendanceStats{}, err
	}
	return AttendanceStats{
		Present: counts[recordModel.AttendancePresent],
		Absent:  counts[recordModel.AttendanceAbsent],
		Late:    counts[recordModel.AttendanceLate],
		Excused: counts[recordModel.AttendanceExcused],
	}, nil
}
