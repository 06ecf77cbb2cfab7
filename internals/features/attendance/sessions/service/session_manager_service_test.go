package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	recordModel "hadirku_backend/internals/features/attendance/records/model"
	recordService "hadirku_backend/internals/features/attendance/records/service"
	sessionModel "hadirku_backend/internals/features/attendance/sessions/model"

	"github.com/google/uuid"
)

/* ===============================
   Fakes in-memory
=============================== */

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]sessionModel.AttendanceSessionModel

	// disisipkan ke hasil ListActive untuk mensimulasikan snapshot basi
	staleExtra []sessionModel.AttendanceSessionModel
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[uuid.UUID]sessionModel.AttendanceSessionModel{}}
}

func (s *fakeSessionStore) Create(_ context.Context, session *sessionModel.AttendanceSessionModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// invariant satu-Active-per-kelas, seperti index unik partial di Postgres
	for _, existing := range s.sessions {
		if existing.AttendanceSessionClassID == session.AttendanceSessionClassID && existing.IsActive() {
			return ErrSessionAlreadyActive
		}
	}
	s.sessions[session.AttendanceSessionID] = *session
	return nil
}

func (s *fakeSessionStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *fakeSessionStore) Get(_ context.Context, id uuid.UUID) (sessionModel.AttendanceSessionModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return sessionModel.AttendanceSessionModel{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *fakeSessionStore) GetActiveByClass(_ context.Context, classID uuid.UUID) (sessionModel.AttendanceSessionModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.AttendanceSessionClassID == classID && session.IsActive() {
			return session, nil
		}
	}
	return sessionModel.AttendanceSessionModel{}, ErrSessionNotFound
}

func (s *fakeSessionStore) ListActive(_ context.Context) ([]sessionModel.AttendanceSessionModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sessionModel.AttendanceSessionModel
	for _, session := range s.sessions {
		if session.IsActive() {
			out = append(out, session)
		}
	}
	out = append(out, s.staleExtra...)
	return out, nil
}

// Update hanya mentransisikan baris yang masih Active, meniru
// compare-and-set GormSessionStore (termasuk autoUpdateTime).
func (s *fakeSessionStore) Update(_ context.Context, session *sessionModel.AttendanceSessionModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.sessions[session.AttendanceSessionID]
	if !ok || !existing.IsActive() {
		return sessionModel.ErrInvalidStateTransition
	}
	updated := *session
	now := time.Now()
	updated.AttendanceSessionUpdatedAt = &now
	s.sessions[session.AttendanceSessionID] = updated
	return nil
}

type fakeRecordStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]map[uuid.UUID]recordModel.AttendanceRecordModel // session → student → record

	failBulkCreate bool
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: map[uuid.UUID]map[uuid.UUID]recordModel.AttendanceRecordModel{}}
}

func (s *fakeRecordStore) BulkCreate(_ context.Context, records []recordModel.AttendanceRecordModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failBulkCreate {
		return errors.New("insert ledger gagal")
	}
	for _, r := range records {
		byStudent, ok := s.records[r.AttendanceRecordSessionID]
		if !ok {
			byStudent = map[uuid.UUID]recordModel.AttendanceRecordModel{}
			s.records[r.AttendanceRecordSessionID] = byStudent
		}
		byStudent[r.AttendanceRecordStudentID] = r
	}
	return nil
}

func (s *fakeRecordStore) GetBySessionStudent(_ context.Context, sessionID, studentID uuid.UUID) (recordModel.AttendanceRecordModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[sessionID][studentID]
	if !ok {
		return recordModel.AttendanceRecordModel{}, recordService.ErrRecordNotFound
	}
	return r, nil
}

func (s *fakeRecordStore) Update(_ context.Context, record *recordModel.AttendanceRecordModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.AttendanceRecordSessionID][record.AttendanceRecordStudentID]; !ok {
		return recordService.ErrRecordNotFound
	}
	s.records[record.AttendanceRecordSessionID][record.AttendanceRecordStudentID] = *record
	return nil
}

func (s *fakeRecordStore) ListBySession(_ context.Context, sessionID uuid.UUID) ([]recordModel.AttendanceRecordModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordModel.AttendanceRecordModel
	for _, r := range s.records[sessionID] {
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeRecordStore) CountByStatus(_ context.Context, sessionID uuid.UUID) (map[recordModel.AttendanceStatus]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[recordModel.AttendanceStatus]int64{}
	for _, r := range s.records[sessionID] {
		counts[r.AttendanceRecordStatus]++
	}
	return counts, nil
}

type fakeEnrollment struct {
	students []uuid.UUID
	err      error
}

func (f *fakeEnrollment) ListEnrolledStudents(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return f.students, f.err
}

type capturedEvent struct {
	eventType string
	payload   map[string]any
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (f *fakeDispatcher) Emit(eventType string, payload map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, capturedEvent{eventType, payload})
}

func (f *fakeDispatcher) byType(eventType string) []capturedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []capturedEvent
	for _, e := range f.events {
		if e.eventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

/* ===============================
   Harness
=============================== */

var baseTime = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type managerFixture struct {
	manager    *SessionManagerService
	ledger     *recordService.AttendanceLedgerService
	sessions   *fakeSessionStore
	records    *fakeRecordStore
	enrollment *fakeEnrollment
	dispatcher *fakeDispatcher

	nowMu sync.Mutex
	now   time.Time
}

func newManagerFixture(students ...uuid.UUID) *managerFixture {
	fx := &managerFixture{
		sessions:   newFakeSessionStore(),
		records:    newFakeRecordStore(),
		enrollment: &fakeEnrollment{students: students},
		dispatcher: &fakeDispatcher{},
		now:        baseTime,
	}
	fx.ledger = recordService.NewAttendanceLedgerService(fx.records)
	fx.manager = NewSessionManagerService(fx.sessions, fx.ledger, fx.enrollment, fx.dispatcher, 20, 120)
	fx.manager.clock = func() time.Time {
		fx.nowMu.Lock()
		defer fx.nowMu.Unlock()
		return fx.now
	}
	return fx
}

func (fx *managerFixture) advance(d time.Duration) {
	fx.nowMu.Lock()
	fx.now = fx.now.Add(d)
	fx.nowMu.Unlock()
}

func (fx *managerFixture) mustStart(t *testing.T, classID uuid.UUID) sessionModel.AttendanceSessionModel {
	t.Helper()
	session, err := fx.manager.StartSession(context.Background(), StartSessionInput{
		ClassID:              classID,
		LateThresholdMinutes: 15,
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	return session
}

/* ===============================
   Lifecycle
=============================== */

func TestStartSession(t *testing.T) {
	students := []uuid.UUID{uuid.New(), uuid.New()}
	fx := newManagerFixture(students...)
	classID := uuid.New()

	session := fx.mustStart(t, classID)

	if !session.IsActive() {
		t.Errorf("sesi baru harus Active")
	}
	if session.AttendanceSessionRecognitionWindowMinutes != 20 {
		t.Errorf("window default = %d, want 20", session.AttendanceSessionRecognitionWindowMinutes)
	}
	if session.AttendanceSessionMaxDurationMinutes != 120 {
		t.Errorf("max duration default = %d, want 120", session.AttendanceSessionMaxDurationMinutes)
	}
	if !session.AttendanceSessionStartTime.Equal(baseTime) {
		t.Errorf("start_time = %v, want %v", session.AttendanceSessionStartTime, baseTime)
	}

	records, err := fx.ledger.GetRecords(context.Background(), session.AttendanceSessionID)
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(records) != len(students) {
		t.Fatalf("ledger berisi %d record, want %d", len(records), len(students))
	}
	for _, r := range records {
		if !r.IsUntouched() {
			t.Errorf("record awal harus Absent-untouched: %+v", r)
		}
	}

	started := fx.dispatcher.byType(EventSessionStarted)
	if len(started) != 1 {
		t.Fatalf("event session_started = %d, want 1", len(started))
	}
	if got := started[0].payload["enrolled_count"]; got != len(students) {
		t.Errorf("enrolled_count = %v, want %d", got, len(students))
	}
}

func TestStartSessionRejectsSecondActive(t *testing.T) {
	fx := newManagerFixture(uuid.New())
	classID := uuid.New()
	fx.mustStart(t, classID)

	_, err := fx.manager.StartSession(context.Background(), StartSessionInput{ClassID: classID, LateThresholdMinutes: 10})
	if !errors.Is(err, ErrSessionAlreadyActive) {
		t.Fatalf("err = %v, want ErrSessionAlreadyActive", err)
	}

	// kelas lain tetap bisa mulai
	if _, err := fx.manager.StartSession(context.Background(), StartSessionInput{ClassID: uuid.New(), LateThresholdMinutes: 10}); err != nil {
		t.Fatalf("kelas berbeda: %v", err)
	}
}

func TestStartSessionConcurrentSingleWinner(t *testing.T) {
	fx := newManagerFixture(uuid.New())
	classID := uuid.New()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.manager.StartSession(context.Background(), StartSessionInput{ClassID: classID, LateThresholdMinutes: 15})
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrSessionAlreadyActive):
			conflict++
		default:
			t.Fatalf("error tak terduga: %v", err)
		}
	}
	if ok != 1 || conflict != n-1 {
		t.Fatalf("sukses = %d, konflik = %d; want 1 dan %d", ok, conflict, n-1)
	}
}

func TestStartSessionCompensatesOnLedgerFailure(t *testing.T) {
	fx := newManagerFixture(uuid.New())
	fx.records.failBulkCreate = true
	classID := uuid.New()

	_, err := fx.manager.StartSession(context.Background(), StartSessionInput{ClassID: classID, LateThresholdMinutes: 15})
	if err == nil {
		t.Fatalf("StartSession harus gagal saat init ledger gagal")
	}

	// sesi yatim tidak boleh tertinggal; kelas bisa coba lagi
	if _, err := fx.manager.GetActiveSession(context.Background(), classID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("sesi harus sudah di-rollback, err = %v", err)
	}
	fx.records.failBulkCreate = false
	fx.mustStart(t, classID)
}

func TestEndSession(t *testing.T) {
	fx := newManagerFixture(uuid.New())
	actor := uuid.New()
	session := fx.mustStart(t, uuid.New())

	fx.advance(40 * time.Minute)
	ended, err := fx.manager.EndSession(context.Background(), session.AttendanceSessionID, actor)
	if err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if ended.AttendanceSessionStatus != sessionModel.SessionStatusCompleted {
		t.Errorf("status = %v, want Completed", ended.AttendanceSessionStatus)
	}
	if ended.AttendanceSessionEndedReason == nil || *ended.AttendanceSessionEndedReason != sessionModel.EndedReasonManual {
		t.Errorf("ended_reason = %v, want manual", ended.AttendanceSessionEndedReason)
	}
	if ended.AttendanceSessionEndTime == nil || !ended.AttendanceSessionEndTime.Equal(baseTime.Add(40*time.Minute)) {
		t.Errorf("end_time = %v, want %v", ended.AttendanceSessionEndTime, baseTime.Add(40*time.Minute))
	}

	stored, _ := fx.manager.GetSession(context.Background(), session.AttendanceSessionID)
	if stored.AttendanceSessionUpdatedAt == nil {
		t.Errorf("updated_at harus maju saat transisi terminal")
	}

	events := fx.dispatcher.byType(EventSessionEnded)
	if len(events) != 1 {
		t.Fatalf("event session_ended = %d, want 1", len(events))
	}
	if got := events[0].payload["actor"]; got != actor {
		t.Errorf("actor = %v, want %v", got, actor)
	}

	// end kedua: bukan idempoten diam-diam — error eksplisit
	if _, err := fx.manager.EndSession(context.Background(), session.AttendanceSessionID, actor); !errors.Is(err, sessionModel.ErrInvalidStateTransition) {
		t.Fatalf("end kedua: err = %v, want ErrInvalidStateTransition", err)
	}
	if got := fx.dispatcher.byType(EventSessionEnded); len(got) != 1 {
		t.Errorf("end kedua tidak boleh emit event lagi")
	}
}

func TestCancelSessionLeavesRecords(t *testing.T) {
	studentID := uuid.New()
	fx := newManagerFixture(studentID)
	session := fx.mustStart(t, uuid.New())
	ctx := context.Background()

	if _, err := fx.manager.MarkAutomatic(ctx, session.AttendanceSessionID, studentID, 0.95, baseTime.Add(3*time.Minute)); err != nil {
		t.Fatalf("MarkAutomatic: %v", err)
	}

	cancelled, err := fx.manager.CancelSession(ctx, session.AttendanceSessionID, uuid.New())
	if err != nil {
		t.Fatalf("CancelSession: %v", err)
	}
	if cancelled.AttendanceSessionStatus != sessionModel.SessionStatusCancelled {
		t.Errorf("status = %v, want Cancelled", cancelled.AttendanceSessionStatus)
	}
	if cancelled.AttendanceSessionEndedReason == nil || *cancelled.AttendanceSessionEndedReason != sessionModel.EndedReasonCancelled {
		t.Errorf("ended_reason = %v, want cancelled", cancelled.AttendanceSessionEndedReason)
	}

	// record dibiarkan sebagaimana terakhir tercatat
	records, err := fx.ledger.GetRecords(ctx, session.AttendanceSessionID)
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(records) != 1 || records[0].AttendanceRecordStatus != recordModel.AttendancePresent {
		t.Errorf("record setelah cancel: %+v", records)
	}
}

func TestTerminateEvictsSessionLock(t *testing.T) {
	fx := newManagerFixture(uuid.New())
	session := fx.mustStart(t, uuid.New())
	ctx := context.Background()

	if _, err := fx.manager.MarkAutomatic(ctx, session.AttendanceSessionID, uuid.New(), 0.9, baseTime); !errors.Is(err, recordService.ErrRecordNotFound) {
		t.Fatalf("mark pemanasan: %v", err)
	}
	if _, ok := fx.manager.locks.Load(session.AttendanceSessionID); !ok {
		t.Fatalf("mutex sesi harus ada selama sesi Active")
	}

	if _, err := fx.manager.EndSession(ctx, session.AttendanceSessionID, uuid.New()); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if _, ok := fx.manager.locks.Load(session.AttendanceSessionID); ok {
		t.Errorf("entry mutex sesi terminal harus dibuang")
	}
}

func TestTerminateUnknownSession(t *testing.T) {
	fx := newManagerFixture()
	if _, err := fx.manager.EndSession(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

/* ===============================
   Auto-expiry
=============================== */

func TestExpireSessionGuard(t *testing.T) {
	fx := newManagerFixture(uuid.New())
	session := fx.mustStart(t, uuid.New())

	fx.advance(60 * time.Minute) // belum lewat 120 menit
	if _, err := fx.manager.ExpireSession(context.Background(), session.AttendanceSessionID); !errors.Is(err, ErrSessionNotOverdue) {
		t.Fatalf("err = %v, want ErrSessionNotOverdue", err)
	}

	got, _ := fx.manager.GetSession(context.Background(), session.AttendanceSessionID)
	if !got.IsActive() {
		t.Errorf("sesi belum overdue tidak boleh diakhiri")
	}
}

func TestExpireOverdueSessionsSweep(t *testing.T) {
	fx := newManagerFixture(uuid.New())
	overdue := fx.mustStart(t, uuid.New())

	fx.advance(90 * time.Minute)
	fresh := fx.mustStart(t, uuid.New()) // mulai di t=90, belum overdue saat t=121

	fx.advance(31 * time.Minute) // overdue berumur 121m, fresh 31m
	ended, err := fx.manager.ExpireOverdueSessions(context.Background())
	if err != nil {
		t.Fatalf("ExpireOverdueSessions: %v", err)
	}
	if ended != 1 {
		t.Fatalf("ended = %d, want 1", ended)
	}

	gotOverdue, _ := fx.manager.GetSession(context.Background(), overdue.AttendanceSessionID)
	if gotOverdue.AttendanceSessionStatus != sessionModel.SessionStatusCompleted {
		t.Errorf("sesi overdue harus Completed, got %v", gotOverdue.AttendanceSessionStatus)
	}
	if gotOverdue.AttendanceSessionEndedReason == nil || *gotOverdue.AttendanceSessionEndedReason != sessionModel.EndedReasonAutoTimeout {
		t.Errorf("ended_reason = %v, want auto_timeout", gotOverdue.AttendanceSessionEndedReason)
	}

	gotFresh, _ := fx.manager.GetSession(context.Background(), fresh.AttendanceSessionID)
	if !gotFresh.IsActive() {
		t.Errorf("sesi yang belum overdue tidak boleh tersapu")
	}
}

func TestExpireOverdueSessionsStaleReadIsBenign(t *testing.T) {
	fx := newManagerFixture(uuid.New())
	session := fx.mustStart(t, uuid.New())
	ctx := context.Background()

	fx.advance(121 * time.Minute)
	if _, err := fx.manager.EndSession(ctx, session.AttendanceSessionID, uuid.New()); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	// snapshot basi masih memuat sesi (status lama Active) — sweep harus no-op
	stale := session
	stale.AttendanceSessionStatus = sessionModel.SessionStatusActive
	fx.sessions.staleExtra = []sessionModel.AttendanceSessionModel{stale}

	ended, err := fx.manager.ExpireOverdueSessions(ctx)
	if err != nil {
		t.Fatalf("sweep dengan snapshot basi: %v", err)
	}
	if ended != 0 {
		t.Errorf("ended = %d, want 0", ended)
	}

	got, _ := fx.manager.GetSession(ctx, session.AttendanceSessionID)
	if got.AttendanceSessionEndedReason == nil || *got.AttendanceSessionEndedReason != sessionModel.EndedReasonManual {
		t.Errorf("ended_reason tidak boleh ditimpa sweep: %v", got.AttendanceSessionEndedReason)
	}
}

func TestLedgerFrozenAfterAutoTimeout(t *testing.T) {
	studentID := uuid.New()
	fx := newManagerFixture(studentID)
	session := fx.mustStart(t, uuid.New())
	ctx := context.Background()

	fx.advance(121 * time.Minute)
	if _, err := fx.manager.ExpireSession(ctx, session.AttendanceSessionID); err != nil {
		t.Fatalf("ExpireSession: %v", err)
	}

	if _, err := fx.manager.MarkManual(ctx, session.AttendanceSessionID, studentID, recordModel.AttendancePresent, uuid.New(), nil); !errors.Is(err, sessionModel.ErrInvalidStateTransition) {
		t.Fatalf("mark manual setelah auto timeout: err = %v, want ErrInvalidStateTransition", err)
	}
}

/* ===============================
   Marking lewat manager
=============================== */

func TestMarkAutomaticAccepted(t *testing.T) {
	studentID := uuid.New()
	fx := newManagerFixture(studentID)
	session := fx.mustStart(t, uuid.New())

	outcome, err := fx.manager.MarkAutomatic(context.Background(), session.AttendanceSessionID, studentID, 0.91, baseTime.Add(4*time.Minute))
	if err != nil {
		t.Fatalf("MarkAutomatic: %v", err)
	}
	if !outcome.Accepted {
		t.Fatalf("outcome ditolak: %+v", outcome)
	}
	if outcome.Record == nil || outcome.Record.AttendanceRecordStatus != recordModel.AttendancePresent {
		t.Errorf("record = %+v, want Present", outcome.Record)
	}

	marked := fx.dispatcher.byType(EventAttendanceMarked)
	if len(marked) != 1 {
		t.Fatalf("event attendance_marked = %d, want 1", len(marked))
	}
	if got := marked[0].payload["status"]; got != "present" {
		t.Errorf("payload status = %v, want present", got)
	}
}

func TestMarkAutomaticWindowClosed(t *testing.T) {
	studentID := uuid.New()
	fx := newManagerFixture(studentID)
	session := fx.mustStart(t, uuid.New())
	ctx := context.Background()

	outcome, err := fx.manager.MarkAutomatic(ctx, session.AttendanceSessionID, studentID, 0.91, baseTime.Add(21*time.Minute))
	if err != nil {
		t.Fatalf("MarkAutomatic: %v", err)
	}
	if outcome.Accepted || outcome.Reason != string(WindowRejectWindowClosed) {
		t.Fatalf("outcome = %+v, want rejection window_closed", outcome)
	}

	// penolakan window tidak menyentuh record
	records, _ := fx.ledger.GetRecords(ctx, session.AttendanceSessionID)
	if len(records) != 1 || !records[0].IsUntouched() {
		t.Errorf("record berubah setelah penolakan window: %+v", records)
	}
	if len(fx.dispatcher.byType(EventAttendanceMarked)) != 0 {
		t.Errorf("penolakan tidak boleh emit attendance_marked")
	}
}

func TestMarkAutomaticSessionNotActive(t *testing.T) {
	studentID := uuid.New()
	fx := newManagerFixture(studentID)
	session := fx.mustStart(t, uuid.New())
	ctx := context.Background()

	if _, err := fx.manager.EndSession(ctx, session.AttendanceSessionID, uuid.New()); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	outcome, err := fx.manager.MarkAutomatic(ctx, session.AttendanceSessionID, studentID, 0.91, baseTime.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("MarkAutomatic: %v", err)
	}
	if outcome.Accepted || outcome.Reason != string(WindowRejectSessionNotActive) {
		t.Fatalf("outcome = %+v, want rejection session_not_active", outcome)
	}
}

func TestMarkAutomaticRecordLocked(t *testing.T) {
	studentID := uuid.New()
	fx := newManagerFixture(studentID)
	session := fx.mustStart(t, uuid.New())
	ctx := context.Background()

	if _, err := fx.manager.MarkAutomatic(ctx, session.AttendanceSessionID, studentID, 0.9, baseTime.Add(2*time.Minute)); err != nil {
		t.Fatalf("mark otomatis awal: %v", err)
	}
	reason := "izin resmi"
	if _, err := fx.manager.MarkManual(ctx, session.AttendanceSessionID, studentID, recordModel.AttendanceExcused, uuid.New(), &reason); err != nil {
		t.Fatalf("override manual: %v", err)
	}

	outcome, err := fx.manager.MarkAutomatic(ctx, session.AttendanceSessionID, studentID, 0.99, baseTime.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("MarkAutomatic: %v", err)
	}
	if outcome.Accepted || outcome.Reason != MarkRejectRecordLocked {
		t.Fatalf("outcome = %+v, want rejection %s", outcome, MarkRejectRecordLocked)
	}
	if outcome.Record == nil || outcome.Record.AttendanceRecordStatus != recordModel.AttendanceExcused {
		t.Errorf("record terkunci harus ikut dikembalikan apa adanya: %+v", outcome.Record)
	}
}

func TestMarkAutomaticUnknownStudent(t *testing.T) {
	fx := newManagerFixture(uuid.New())
	session := fx.mustStart(t, uuid.New())

	if _, err := fx.manager.MarkAutomatic(context.Background(), session.AttendanceSessionID, uuid.New(), 0.9, baseTime.Add(2*time.Minute)); !errors.Is(err, recordService.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestMarkManualViaManager(t *testing.T) {
	studentID := uuid.New()
	fx := newManagerFixture(studentID)
	session := fx.mustStart(t, uuid.New())
	ctx := context.Background()
	actor := uuid.New()

	// window sudah lewat — mark manual tetap boleh selama sesi Active
	fx.advance(30 * time.Minute)
	record, err := fx.manager.MarkManual(ctx, session.AttendanceSessionID, studentID, recordModel.AttendanceLate, actor, nil)
	if err != nil {
		t.Fatalf("MarkManual: %v", err)
	}
	if record.AttendanceRecordStatus != recordModel.AttendanceLate {
		t.Errorf("status = %v, want Late", record.AttendanceRecordStatus)
	}
	if !record.AttendanceRecordIsOverride {
		t.Errorf("mark manual harus menyetel is_override")
	}
	if len(fx.dispatcher.byType(EventAttendanceMarked)) != 1 {
		t.Errorf("mark manual harus emit attendance_marked")
	}
}

func TestGetActiveSession(t *testing.T) {
	fx := newManagerFixture(uuid.New())
	classID := uuid.New()
	ctx := context.Background()

	if _, err := fx.manager.GetActiveSession(ctx, classID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("kelas tanpa sesi: err = %v, want ErrSessionNotFound", err)
	}

	session := fx.mustStart(t, classID)
	got, err := fx.manager.GetActiveSession(ctx, classID)
	if err != nil {
		t.Fatalf("GetActiveSession: %v", err)
	}
	if got.AttendanceSessionID != session.AttendanceSessionID {
		t.Errorf("session id = %v, want %v", got.AttendanceSessionID, session.AttendanceSessionID)
	}

	if _, err := fx.manager.CancelSession(ctx, session.AttendanceSessionID, uuid.New()); err != nil {
		t.Fatalf("CancelSession: %v", err)
	}
	if _, err := fx.manager.GetActiveSession(ctx, classID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("setelah cancel: err = %v, want ErrSessionNotFound", err)
	}
}
