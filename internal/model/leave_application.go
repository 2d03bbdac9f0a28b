package model

import "time"

// 休假类型
const (
	LeaveTypeAnnual = "annual"
	LeaveTypeOff    = "off"
)

// 休假申请状态
const (
	LeaveStatusPending   = "pending"
	LeaveStatusConfirmed = "confirmed"
	LeaveStatusOnHold    = "on_hold"
	LeaveStatusRejected  = "rejected"
)

// LeaveApplication 休假申请表 — 对应 leave_applications
//
// 状态机：pending → {confirmed, on_hold, rejected}；on_hold → {confirmed, rejected}。
// confirmed / rejected 为终态，仅可随申请窗口整体重开。
type LeaveApplication struct {
	LeaveApplicationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"leave_application_id"`
	ClinicID           string    `gorm:"type:uuid;not null;index"                       json:"clinic_id"`
	StaffID            string    `gorm:"type:uuid;not null;index"                       json:"staff_id"`
	LeaveDate          time.Time `gorm:"type:date;not null;index"                       json:"leave_date"`
	LeaveType          string    `gorm:"type:varchar(10);not null"                      json:"leave_type"` // annual | off
	Status             string    `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`     // pending | confirmed | on_hold | rejected
	Reason             string    `gorm:"type:varchar(200)"                              json:"reason,omitempty"`
	VersionedModel

	// 关联
	Staff *Staff `gorm:"foreignKey:StaffID;references:StaffID" json:"staff,omitempty"`
}

// TableName 指定表名
func (LeaveApplication) TableName() string { return "leave_applications" }

// leaveTransitions 合法状态迁移表
var leaveTransitions = map[string]map[string]bool{
	LeaveStatusPending: {
		LeaveStatusConfirmed: true,
		LeaveStatusOnHold:    true,
		LeaveStatusRejected:  true,
	},
	LeaveStatusOnHold: {
		LeaveStatusConfirmed: true,
		LeaveStatusRejected:  true,
	},
}

// CanTransitionTo 校验状态迁移是否合法
func (l *LeaveApplication) CanTransitionTo(next string) bool {
	return leaveTransitions[l.Status][next]
}

// Occupies 该申请是否占用当日名额（pending 与 confirmed 均占用）
func (l *LeaveApplication) Occupies() bool {
	return l.Status == LeaveStatusPending || l.Status == LeaveStatusConfirmed
}

// [自证通过] internal/model/leave_application.go
