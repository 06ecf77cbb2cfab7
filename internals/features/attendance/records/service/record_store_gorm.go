package service

import (
	"context"
	"errors"

	recordModel "hadirku_backend/internals/features/attendance/records/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecordStore: implementasi RecordStore di atas Postgres.
type GormRecordStore struct {
	DB *gorm.DB
}

func NewGormRecordStore(db *gorm.DB) *GormRecordStore {
	return &GormRecordStore{DB: db}
}

// BulkCreate: satu INSERT multi-row; GORM membungkusnya dalam transaksi
// sehingga inisialisasi ledger all-or-nothing.
func (s *GormRecordStore) BulkCreate(ctx context.Context, records []recordModel.AttendanceRecordModel) error {
	if len(records) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Create(&records).Error
}

func (s *GormRecordStore) GetBySessionStudent(ctx context.Context, sessionID, studentID uuid.UUID) (recordModel.AttendanceRecordModel, error) {
	var record recordModel.AttendanceRecordModel
	err := s.DB.WithContext(ctx).
		First(&record, "attendance_record_session_id = ? AND attendance_record_student_id = ?", sessionID, studentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return recordModel.AttendanceRecordModel{}, ErrRecordNotFound
	}
	if err != nil {
		return recordModel.AttendanceRecordModel{}, err
	}
	return record, nil
}

func (s *GormRecordStore) Update(ctx context.Context, record *recordModel.AttendanceRecordModel) error {
	return s.DB.WithContext(ctx).
		Model(&recordModel.AttendanceRecordModel{}).
		Where("attendance_record_id = ?", record.AttendanceRecordID).
		Select("attendance_record_status",
			"attendance_record_marked_at",
			"attendance_record_verification_method",
			"attendance_record_confidence",
			"attendance_record_is_override",
			"attendance_record_overridden_by",
			"attendance_record_override_reason").
		Updates(record).Error
}

func (s *GormRecordStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]recordModel.AttendanceRecordModel, error) {
	var records []recordModel.AttendanceRecordModel
	err := s.DB.WithContext(ctx).
		Where("attendance_record_session_id = ?", sessionID).
		Order("attendance_record_created_at asc").
		Find(&records).Error
	return records, err
}

func (s *GormRecordStore) CountByStatus(ctx context.Context, sessionID uuid.UUID) (map[recordModel.AttendanceStatus]int64, error) {
	type row struct {
		Status recordModel.AttendanceStatus `gorm:"column:attendance_record_status"`
		Total  int64                        `gorm:"column:total"`
	}
	var rows []row
	err := s.DB.WithContext(ctx).
		Model(&recordModel.AttendanceRecordModel{}).
		Select("attendance_record_status, COUNT(*) AS total").
		Where("attendance_record_session_id = ?", sessionID).
		Group("attendance_record_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[recordModel.AttendanceStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
