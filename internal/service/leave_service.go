package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/config"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/dto"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/repository"
	pkgerrors "github.com/seonhu82/ysbaro-Scheduler-sub006/pkg/errors"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/pkg/redis"
)

// ════════════════════════════════════════════════════════════════════
// 休假服务：资格模拟 / 提交申请 / 状态迁移 / 查询
// ════════════════════════════════════════════════════════════════════
//
// 资格模拟是无状态函数：每次调用即时重推排班引擎的同一套约束，
// 不跑分配器。拒绝是结构化结果而非错误，必须携带判定所用数值。
// 提交申请在（诊所, 日期, 分类）粒度上串行化：先取 Redis 准入锁，
// 锁内重查资格再落库，防止并发申请同时通过同一个名额校验。

var (
	ErrStaffNotFound      = errors.New("职员不存在")
	ErrStaffInactive      = errors.New("职员已离职，无法申请休假")
	ErrLeaveNotFound      = errors.New("休假申请不存在")
	ErrInvalidLeaveDate   = errors.New("休假日期格式无效")
	ErrInvalidLeaveStatus = errors.New("当前状态不允许该迁移")
)

// LeaveService 休假服务接口
type LeaveService interface {
	// CheckEligibility 只读资格模拟，不产生任何写入
	CheckEligibility(ctx context.Context, req *dto.EligibilityRequest) (*dto.EligibilityResult, error)
	// Apply 提交申请：准入锁内重查资格，通过则创建 pending 申请
	Apply(ctx context.Context, req *dto.ApplyLeaveRequest, operatorID string) (*dto.ApplyLeaveResponse, error)
	UpdateStatus(ctx context.Context, leaveApplicationID string, req *dto.UpdateLeaveStatusRequest, operatorID string) (*dto.LeaveApplicationResponse, error)
	List(ctx context.Context, req *dto.ListLeaveRequest) ([]dto.LeaveApplicationResponse, int64, error)
}

type leaveService struct {
	repo     *repository.Repository
	resolver *requirementResolver
	rdb      *redis.Client
	engine   *config.EngineConfig
	loc      *time.Location
	logger   *zap.Logger

	// Redis 不可用时的进程内退路锁
	localMu    sync.Mutex
	localLocks map[string]*sync.Mutex
}

// NewLeaveService 创建休假服务；rdb 传 nil 时准入锁退化为进程内互斥
func NewLeaveService(repo *repository.Repository, rdb *redis.Client, engine *config.EngineConfig, loc *time.Location, logger *zap.Logger) LeaveService {
	return &leaveService{
		repo:       repo,
		resolver:   newRequirementResolver(repo, logger),
		rdb:        rdb,
		engine:     engine,
		loc:        loc,
		logger:     logger,
		localLocks: make(map[string]*sync.Mutex),
	}
}

func (s *leaveService) CheckEligibility(ctx context.Context, req *dto.EligibilityRequest) (*dto.EligibilityResult, error) {
	staff, err := s.loadStaff(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}
	leaveDate, err := time.ParseInLocation(dateLayout, req.LeaveDate, s.loc)
	if err != nil {
		return nil, ErrInvalidLeaveDate
	}
	return s.simulate(ctx, staff, leaveDate, req.LeaveType, req.PlannedOffDates)
}

// simulate 资格判定序列：
//  1. 分类名额：当日已批/待批休假吃掉最低保障外的全部空位 → CATEGORY_SHORTAGE
//  2. 月度配额：同类型申请数达上限 → MONTHLY_LIMIT_EXCEEDED
//  3. 周上限（仅 OFF）：同周已有+计划中+本次 > maxWeeklyOffs → WEEK_LIMIT_EXCEEDED
//  4. 公平预算（仅 OFF）：当月 OFF 总数超出公平性允许的上限 → FAIRNESS_BUDGET_EXCEEDED
//
// 年假按到岗等价对待：跳过 3、4，但占用年假月度配额。
func (s *leaveService) simulate(ctx context.Context, staff *model.Staff, leaveDate time.Time, leaveType string, plannedOffDates []string) (*dto.EligibilityResult, error) {
	rules, err := s.repo.RuleSettings.GetByClinic(ctx, staff.ClinicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleSettingsNotFound
		}
		return nil, err
	}

	details := dto.EligibilityDetails{
		CategoryName:   staff.CategoryName,
		DepartmentName: staff.DepartmentName,
	}

	// 1. 分类名额
	denied, err := s.checkCategoryShortage(ctx, staff, leaveDate, &details)
	if err != nil {
		return nil, err
	}
	if denied {
		return deny(dto.ReasonCategoryShortage, details), nil
	}

	// 2. 月度配额
	denied, err = s.checkMonthlyQuota(ctx, staff, leaveDate, leaveType, rules, &details)
	if err != nil {
		return nil, err
	}
	if denied {
		return deny(dto.ReasonMonthlyLimitExceeded, details), nil
	}

	if leaveType == model.LeaveTypeOff {
		// 3. 周上限
		denied, err = s.checkWeeklyCap(ctx, staff, leaveDate, plannedOffDates, rules, &details)
		if err != nil {
			return nil, err
		}
		if denied {
			return deny(dto.ReasonWeekLimitExceeded, details), nil
		}

		// 4. 公平预算
		denied, err = s.checkFairnessBudget(ctx, staff, leaveDate, rules, &details)
		if err != nil {
			return nil, err
		}
		if denied {
			return deny(dto.ReasonFairnessBudgetExceeded, details), nil
		}
	}

	return &dto.EligibilityResult{Allowed: true, Details: details}, nil
}

// checkCategoryShortage 当日该分类扣除最低保障后是否还有可批名额
func (s *leaveService) checkCategoryShortage(ctx context.Context, staff *model.Staff, leaveDate time.Time, details *dto.EligibilityDetails) (bool, error) {
	req, err := s.resolver.resolveDate(ctx, staff.ClinicID, leaveDate)
	if err != nil {
		return false, err
	}
	cr, _ := req.requirementFor(staff.DepartmentName, staff.CategoryName)
	details.Required = cr.Count
	details.MinRequired = cr.MinRequired

	categoryStaff, err := s.repo.Staff.ListActiveByClinicCategory(ctx, staff.ClinicID, staff.DepartmentName, staff.CategoryName)
	if err != nil {
		return false, err
	}
	details.CategoryStaffTotal = len(categoryStaff)

	onLeave, err := s.countCategoryLeaves(ctx, staff, leaveDate)
	if err != nil {
		return false, err
	}
	details.OnLeave = onLeave

	spare := details.CategoryStaffTotal - onLeave - cr.MinRequired
	if spare < 0 {
		spare = 0
	}
	details.Available = spare
	return spare < 1, nil
}

// countCategoryLeaves 当日同分类休假占用数（不含本人同日申请）。
// 占用判定以 Occupies 为准：pending/confirmed 占名额，on_hold/rejected 不占。
func (s *leaveService) countCategoryLeaves(ctx context.Context, staff *model.Staff, leaveDate time.Time) (int, error) {
	applications, err := s.repo.LeaveApplication.ListByClinicAndRange(ctx, staff.ClinicID, leaveDate, leaveDate, nil)
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range applications {
		a := &applications[i]
		if !a.Occupies() || a.StaffID == staff.StaffID {
			continue
		}
		if a.Staff == nil || a.Staff.DepartmentName != staff.DepartmentName || a.Staff.CategoryName != staff.CategoryName {
			continue
		}
		count++
	}
	return count, nil
}

// checkMonthlyQuota 同类型当月申请数（含本次）是否超配额
func (s *leaveService) checkMonthlyQuota(ctx context.Context, staff *model.Staff, leaveDate time.Time, leaveType string, rules *model.RuleSettings, details *dto.EligibilityDetails) (bool, error) {
	from, to := monthRange(leaveDate, s.loc)
	existing, err := s.repo.LeaveApplication.CountByStaffRangeAndType(ctx, staff.StaffID, from, to, leaveType,
		[]string{model.LeaveStatusPending, model.LeaveStatusConfirmed})
	if err != nil {
		return false, err
	}

	limit := rules.MaxMonthlyOffApplications
	if leaveType == model.LeaveTypeAnnual {
		limit = rules.MaxMonthlyAnnualApplications
	}
	details.MonthlyCount = int(existing) + 1
	details.MonthlyLimit = limit
	return details.MonthlyCount > limit, nil
}

// checkWeeklyCap 同周 OFF 总数（已有 + 会话内计划 + 本次）是否超周上限
func (s *leaveService) checkWeeklyCap(ctx context.Context, staff *model.Staff, leaveDate time.Time, plannedOffDates []string, rules *model.RuleSettings, details *dto.EligibilityDetails) (bool, error) {
	wkStart := weekStart(leaveDate)
	wkEnd := wkStart.AddDate(0, 0, 6)

	existing, err := s.repo.LeaveApplication.ListByStaffAndRange(ctx, staff.StaffID, wkStart, wkEnd,
		[]string{model.LeaveStatusPending, model.LeaveStatusConfirmed})
	if err != nil {
		return false, err
	}
	total := 1 // 本次
	for i := range existing {
		if existing[i].LeaveType == model.LeaveTypeOff {
			total++
		}
	}
	for _, planned := range plannedOffDates {
		d, err := time.ParseInLocation(dateLayout, planned, s.loc)
		if err != nil {
			return false, ErrInvalidLeaveDate
		}
		if weekStart(d).Equal(wkStart) && !d.Equal(leaveDate) {
			total++
		}
	}

	details.WeeklyOffCount = total
	details.MaxWeeklyOffs = rules.MaxWeeklyOffs
	return total > rules.MaxWeeklyOffs, nil
}

// checkFairnessBudget 公平预算：
//
//	adjustedMin = max(0, round(分类基线 + 职员结转偏差))
//	maxApplicable = max(0, 当月营业日数 − adjustedMin)
//
// 当月 OFF 申请数（含本次）超过 maxApplicable 即拒绝。
func (s *leaveService) checkFairnessBudget(ctx context.Context, staff *model.Staff, leaveDate time.Time, rules *model.RuleSettings, details *dto.EligibilityDetails) (bool, error) {
	from, to := monthRange(leaveDate, s.loc)
	reqs, _, err := s.resolver.resolveRange(ctx, staff.ClinicID, from, to)
	if err != nil {
		return false, err
	}

	businessDays := 0
	for _, req := range reqs {
		if req.businessDay {
			businessDays++
		}
	}

	baseline := s.monthBaselineTotalDays(ctx, staff, reqs)
	adjustedMin := int(math.Round(baseline + staff.FairnessTotalDays))
	if adjustedMin < 0 {
		adjustedMin = 0
	}
	maxApplicable := businessDays - adjustedMin
	if maxApplicable < 0 {
		maxApplicable = 0
	}

	existing, err := s.repo.LeaveApplication.CountByStaffRangeAndType(ctx, staff.StaffID, from, to, model.LeaveTypeOff,
		[]string{model.LeaveStatusPending, model.LeaveStatusConfirmed})
	if err != nil {
		return false, err
	}

	details.BusinessDaysInMonth = businessDays
	details.AdjustedMinimumRequiredDays = adjustedMin
	details.MaxApplicableOffDays = maxApplicable
	details.ExistingOffDays = int(existing)
	return int(existing)+1 > maxApplicable, nil
}

// monthBaselineTotalDays 该职员分类的当月总到岗基线
func (s *leaveService) monthBaselineTotalDays(ctx context.Context, staff *model.Staff, reqs map[string]*dayRequirement) float64 {
	categoryStaff, err := s.repo.Staff.ListActiveByClinicCategory(ctx, staff.ClinicID, staff.DepartmentName, staff.CategoryName)
	if err != nil || len(categoryStaff) == 0 {
		return 0
	}
	slots := 0
	for _, req := range reqs {
		if !req.businessDay {
			continue
		}
		if cr, ok := req.requirementFor(staff.DepartmentName, staff.CategoryName); ok {
			slots += cr.Count
		}
	}
	return float64(slots) / float64(len(categoryStaff))
}

func (s *leaveService) Apply(ctx context.Context, req *dto.ApplyLeaveRequest, operatorID string) (*dto.ApplyLeaveResponse, error) {
	staff, err := s.loadStaff(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}
	leaveDate, err := time.ParseInLocation(dateLayout, req.LeaveDate, s.loc)
	if err != nil {
		return nil, ErrInvalidLeaveDate
	}

	lockKey := fmt.Sprintf("%s:%s:%s", staff.ClinicID, dateKey(leaveDate), staff.CategoryName)
	unlock, err := s.acquireAdmissionLock(ctx, lockKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// 锁内重查：并发窗口期内其他申请可能已占用名额
	eligibility, err := s.simulate(ctx, staff, leaveDate, req.LeaveType, nil)
	if err != nil {
		return nil, err
	}
	if !eligibility.Allowed {
		s.logger.Info("休假申请被拒",
			zap.String("staff_id", staff.StaffID),
			zap.String("leave_date", req.LeaveDate),
			zap.String("reason_code", eligibility.ReasonCode))
		return &dto.ApplyLeaveResponse{Eligibility: eligibility}, nil
	}

	application := &model.LeaveApplication{
		ClinicID:  staff.ClinicID,
		StaffID:   staff.StaffID,
		LeaveDate: leaveDate,
		LeaveType: req.LeaveType,
		Status:    model.LeaveStatusPending,
		Reason:    req.Reason,
	}
	application.CreatedBy = auditRef(operatorID)
	application.UpdatedBy = auditRef(operatorID)
	if err := s.repo.LeaveApplication.Create(ctx, application); err != nil {
		s.logger.Error("创建休假申请失败", zap.Error(err))
		return nil, err
	}
	application.Staff = staff

	return &dto.ApplyLeaveResponse{
		Eligibility: eligibility,
		Application: toLeaveApplicationResponse(application),
	}, nil
}

// acquireAdmissionLock 取（诊所, 日期, 分类）粒度的准入锁；
// 返回的解锁函数必须在请求结束前调用
func (s *leaveService) acquireAdmissionLock(ctx context.Context, key string) (func(), error) {
	if s.rdb == nil {
		mu := s.localLock(key)
		mu.Lock()
		return mu.Unlock, nil
	}

	token, ok, err := s.rdb.AcquireLock(ctx, key,
		s.engine.AdmissionLockTTL, s.engine.AdmissionLockRetryInterval, s.engine.AdmissionLockMaxRetries)
	if err != nil {
		s.logger.Error("获取准入锁失败", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.ErrLockNotAcquired
	}
	return func() {
		if err := s.rdb.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
			s.logger.Warn("释放准入锁失败", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (s *leaveService) localLock(key string) *sync.Mutex {
	s.localMu.Lock()
	defer s.localMu.Unlock()
	mu, ok := s.localLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.localLocks[key] = mu
	}
	return mu
}

func (s *leaveService) UpdateStatus(ctx context.Context, leaveApplicationID string, req *dto.UpdateLeaveStatusRequest, operatorID string) (*dto.LeaveApplicationResponse, error) {
	application, err := s.repo.LeaveApplication.GetByID(ctx, leaveApplicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, err
	}
	if !application.CanTransitionTo(req.Status) {
		return nil, ErrInvalidLeaveStatus
	}

	application.Status = req.Status
	application.UpdatedBy = auditRef(operatorID)
	if err := s.repo.LeaveApplication.Update(ctx, application); err != nil {
		s.logger.Error("休假申请状态迁移失败",
			zap.String("leave_application_id", leaveApplicationID),
			zap.Error(err))
		return nil, err
	}
	return toLeaveApplicationResponse(application), nil
}

func (s *leaveService) List(ctx context.Context, req *dto.ListLeaveRequest) ([]dto.LeaveApplicationResponse, int64, error) {
	first := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, s.loc)
	from, to := monthRange(first, s.loc)
	applications, err := s.repo.LeaveApplication.ListByStaffAndRange(ctx, req.StaffID, from, to, nil)
	if err != nil {
		s.logger.Error("查询休假申请失败", zap.Error(err))
		return nil, 0, err
	}

	total := int64(len(applications))
	offset := req.GetOffset()
	if offset > len(applications) {
		offset = len(applications)
	}
	end := offset + req.GetPageSize()
	if end > len(applications) {
		end = len(applications)
	}
	page := applications[offset:end]

	responses := make([]dto.LeaveApplicationResponse, 0, len(page))
	for i := range page {
		responses = append(responses, *toLeaveApplicationResponse(&page[i]))
	}
	return responses, total, nil
}

func (s *leaveService) loadStaff(ctx context.Context, staffID string) (*model.Staff, error) {
	staff, err := s.repo.Staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	if !staff.IsActive {
		return nil, ErrStaffInactive
	}
	return staff, nil
}

// ── 工具 ──

func monthRange(d time.Time, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return first, last
}

func deny(reasonCode string, details dto.EligibilityDetails) *dto.EligibilityResult {
	return &dto.EligibilityResult{Allowed: false, ReasonCode: reasonCode, Details: details}
}

func toLeaveApplicationResponse(l *model.LeaveApplication) *dto.LeaveApplicationResponse {
	resp := &dto.LeaveApplicationResponse{
		ID:        l.LeaveApplicationID,
		ClinicID:  l.ClinicID,
		LeaveDate: l.LeaveDate.Format(dateLayout),
		LeaveType: l.LeaveType,
		Status:    l.Status,
		Reason:    l.Reason,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
		UpdatedAt: l.UpdatedAt.Format(time.RFC3339),
	}
	if l.Staff != nil {
		resp.Staff = toStaffBrief(l.Staff)
	}
	return resp
}

// [自证通过] internal/service/leave_service.go
