package service

import (
	"context"
	"errors"
	"strings"

	sessionModel "hadirku_backend/internals/features/attendance/sessions/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSessionStore: implementasi SessionStore di atas Postgres.
// Invariant satu-Active-per-kelas ditegakkan oleh index unik partial
// uq_attendance_sessions_active_per_class (lihat databases.Migrate);
// pelanggarannya diterjemahkan ke ErrSessionAlreadyActive.
type GormSessionStore struct {
	DB *gorm.DB
}

func NewGormSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{DB: db}
}

func (s *GormSessionStore) Create(ctx context.Context, session *sessionModel.AttendanceSessionModel) error {
	if err := s.DB.WithContext(ctx).Create(session).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrSessionAlreadyActive
		}
		return err
	}
	return nil
}

func (s *GormSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Delete(&sessionModel.AttendanceSessionModel{}, "attendance_session_id = ?", id).Error
}

func (s *GormSessionStore) Get(ctx context.Context, id uuid.UUID) (sessionModel.AttendanceSessionModel, error) {
	var session sessionModel.AttendanceSessionModel
	err := s.DB.WithContext(ctx).
		First(&session, "attendance_session_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sessionModel.AttendanceSessionModel{}, ErrSessionNotFound
	}
	if err != nil {
		return sessionModel.AttendanceSessionModel{}, err
	}
	return session, nil
}

func (s *GormSessionStore) GetActiveByClass(ctx context.Context, classID uuid.UUID) (sessionModel.AttendanceSessionModel, error) {
	var session sessionModel.AttendanceSessionModel
	err := s.DB.WithContext(ctx).
		First(&session, "attendance_session_class_id = ? AND attendance_session_status = ?",
			classID, sessionModel.SessionStatusActive).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sessionModel.AttendanceSessionModel{}, ErrSessionNotFound
	}
	if err != nil {
		return sessionModel.AttendanceSessionModel{}, err
	}
	return session, nil
}

func (s *GormSessionStore) ListActive(ctx context.Context) ([]sessionModel.AttendanceSessionModel, error) {
	var sessions []sessionModel.AttendanceSessionModel
	err := s.DB.WithContext(ctx).
		Where("attendance_session_status = ?", sessionModel.SessionStatusActive).
		Find(&sessions).Error
	return sessions, err
}

// Update: compare-and-set — hanya baris yang masih Active yang boleh
// ditransisikan, sehingga state terminal immutable juga di level DB
// (race antar-proses berujung ErrInvalidStateTransition, bukan overwrite).
func (s *GormSessionStore) Update(ctx context.Context, session *sessionModel.AttendanceSessionModel) error {
	res := s.DB.WithContext(ctx).
		Model(&sessionModel.AttendanceSessionModel{}).
		Where("attendance_session_id = ? AND attendance_session_status = ?",
			session.AttendanceSessionID, sessionModel.SessionStatusActive).
		Select("attendance_session_status",
			"attendance_session_end_time",
			"attendance_session_ended_reason",
			"attendance_session_updated_at").
		Updates(session)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return sessionModel.ErrInvalidStateTransition
	}
	return nil
}

/* ===============================
   PG error mapping
=============================== */

type pgSQLErr interface {
	SQLState() string
	Error() string
}

// isDuplicateKey: cek pelanggaran unique Postgres (SQLSTATE 23505).
// Fallback substring supaya tidak perlu import pgconn langsung.
func isDuplicateKey(err error) bool {
	var pgErr pgSQLErr
	if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
