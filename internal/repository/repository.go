package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Person           PersonRepository
	Program          ProgramRepository
	Room             RoomRepository
	Module           ModuleRepository
	Session          SessionRepository
	SessionChangeLog SessionChangeLogRepository
	Enrollment       EnrollmentRepository
	StudentModule    StudentModuleRepository
	Evaluation       EvaluationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Person:           NewPersonRepo(db),
		Program:          NewProgramRepo(db),
		Room:             NewRoomRepo(db),
		Module:           NewModuleRepo(db),
		Session:          NewSessionRepo(db),
		SessionChangeLog: NewSessionChangeLogRepo(db),
		Enrollment:       NewEnrollmentRepo(db),
		StudentModule:    NewStudentModuleRepo(db),
		Evaluation:       NewEvaluationRepo(db),
	}
}
