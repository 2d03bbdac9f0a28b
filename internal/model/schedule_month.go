package model

import "time"

// 排班月状态
const (
	ScheduleStatusDraft     = "draft"
	ScheduleStatusConfirmed = "confirmed"
	ScheduleStatusDeployed  = "deployed"
)

// ScheduleMonth 排班月表 — 对应 schedule_months
//
// deployed 状态下所有排班行只读，只能通过显式 undeploy 退回 confirmed。
type ScheduleMonth struct {
	ScheduleMonthID       string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_month_id"`
	ClinicID              string           `gorm:"type:uuid;not null;index:idx_schedule_months_clinic_ym,unique" json:"clinic_id"`
	Year                  int              `gorm:"type:smallint;not null;index:idx_schedule_months_clinic_ym,unique" json:"year"`
	Month                 int              `gorm:"type:smallint;not null;index:idx_schedule_months_clinic_ym,unique" json:"month"`
	Status                string           `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | confirmed | deployed
	PreviousMonthFairness FairnessSnapshot `gorm:"type:jsonb"                                     json:"previous_month_fairness,omitempty"`
	DeployedAt            *time.Time       `json:"deployed_at,omitempty"`
	VersionedModel

	// 关联
	Assignments []StaffAssignment `gorm:"foreignKey:ScheduleMonthID" json:"assignments,omitempty"`
}

// TableName 指定表名
func (ScheduleMonth) TableName() string { return "schedule_months" }

// StaffAssignment 排班行 — 对应 staff_assignments
//
// 约束：同一排班月内，每名在职职员每个日期恰好一行。
type StaffAssignment struct {
	StaffAssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"staff_assignment_id"`
	ScheduleMonthID   string    `gorm:"type:uuid;not null;index:idx_assignments_month_staff_date,unique" json:"schedule_month_id"`
	StaffID           string    `gorm:"type:uuid;not null;index:idx_assignments_month_staff_date,unique" json:"staff_id"`
	WorkDate          time.Time `gorm:"type:date;not null;index:idx_assignments_month_staff_date,unique" json:"work_date"`
	ShiftType         string    `gorm:"type:varchar(10);not null"                      json:"shift_type"` // day | night | off | annual
	SubstituteForID   *string   `gorm:"type:uuid"                                      json:"substitute_for_id,omitempty"`
	BaseModel

	// 关联
	Staff *Staff `gorm:"foreignKey:StaffID;references:StaffID" json:"staff,omitempty"`
}

// TableName 指定表名
func (StaffAssignment) TableName() string { return "staff_assignments" }

// 班次类型
const (
	ShiftDay    = "day"
	ShiftNight  = "night"
	ShiftOff    = "off"
	ShiftAnnual = "annual"
)

// IsWorking 是否实际到岗班次（day/night）
func (a *StaffAssignment) IsWorking() bool {
	return a.ShiftType == ShiftDay || a.ShiftType == ShiftNight
}

// [自证通过] internal/model/schedule_month.go
