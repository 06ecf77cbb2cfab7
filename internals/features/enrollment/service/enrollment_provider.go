package service

import (
	"context"

	enrollModel "hadirku_backend/internals/features/enrollment/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEnrollmentProvider: implementasi EnrollmentProvider dari tabel
// class_students. Hanya siswa aktif yang masuk snapshot sesi.
type GormEnrollmentProvider struct {
	DB *gorm.DB
}

func NewGormEnrollmentProvider(db *gorm.DB) *GormEnrollmentProvider {
	return &GormEnrollmentProvider{DB: db}
}

func (p *GormEnrollmentProvider) ListEnrolledStudents(ctx context.Context, classID uuid.UUID) ([]uuid.UUID, error) {
	var studentIDs []uuid.UUID
	err := p.DB.WithContext(ctx).
		Model(&enrollModel.ClassStudentModel{}).
		Where("class_student_class_id = ? AND class_student_is_active = TRUE", classID).
		Order("class_student_created_at asc").
		Pluck("class_student_student_id", &studentIDs).Error
	return studentIDs, err
}
