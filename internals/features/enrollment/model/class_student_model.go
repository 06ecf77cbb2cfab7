package model

import (
	"time"

	"github.com/google/uuid"
)

// ClassStudentModel: keanggotaan siswa di sebuah kelas. Sumber data
// enrollment provider — ledger kehadiran diinisialisasi dari snapshot
// tabel ini saat sesi dimulai.
type ClassStudentModel struct {
	ClassStudentID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:class_student_id" json:"class_student_id"`

	ClassStudentClassID   uuid.UUID `gorm:"type:uuid;not null;column:class_student_class_id;index:idx_class_students_class_active,priority:1;uniqueIndex:uq_class_students_class_student,priority:1" json:"class_student_class_id"`
	ClassStudentStudentID uuid.UUID `gorm:"type:uuid;not null;column:class_student_student_id;uniqueIndex:uq_class_students_class_student,priority:2" json:"class_student_student_id"`

	ClassStudentIsActive bool `gorm:"not null;default:true;column:class_student_is_active;index:idx_class_students_class_active,priority:2" json:"class_student_is_active"`

	ClassStudentCreatedAt time.Time  `gorm:"column:class_student_created_at;autoCreateTime" json:"class_student_created_at"`
	ClassStudentUpdatedAt *time.Time `gorm:"column:class_student_updated_at;autoUpdateTime" json:"class_student_updated_at,omitempty"`
}

func (ClassStudentModel) TableName() string {
	return "class_students"
}
