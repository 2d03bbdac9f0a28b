package service

import (
	"sort"
	"time"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/dto"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
)

// ── 排班生成上下文 ──
//
// 一次生成 = 一个 rosterContext。各阶段显式传递同一上下文，
// 不依赖任何环境态；重复生成同一月份（快照相同）结果一致。

const dateLayout = "2006-01-02"

// dayRequirement 单日人员需求（需求解析器输出）
type dayRequirement struct {
	date          time.Time
	businessDay   bool // 至少一名医生实际出诊（占位记录不算）
	hasNightShift bool
	matched       bool // 是否命中医生组合配置
	requiredTotal int
	nightStaff    int
	// 部门 → 分类 → 需求
	categories model.CategoryStaffMap
}

// requirementFor 查询指定部门/分类的需求
func (d *dayRequirement) requirementFor(dept, cat string) (model.CategoryRequirement, bool) {
	if d == nil || d.categories == nil {
		return model.CategoryRequirement{}, false
	}
	byCat, ok := d.categories[dept]
	if !ok {
		return model.CategoryRequirement{}, false
	}
	cr, ok := byCat[cat]
	return cr, ok
}

// rosterContext 单次排班生成的全部状态
type rosterContext struct {
	clinicID string
	year     int
	month    int
	loc      *time.Location

	schedule *model.ScheduleMonth
	rules    *model.RuleSettings
	staff    []model.Staff
	byID     map[string]*model.Staff

	dates        []time.Time                // 当月全部日期（升序）
	requirements map[string]*dayRequirement // dateKey → 需求
	holidays     map[string]string          // dateKey → 节假日名
	leaves       map[string]map[string]string // dateKey → staffID → 休假类型（confirmed/pending）

	// 排班矩阵：dateKey → staffID → 排班行
	matrix map[string]map[string]*model.StaffAssignment

	// 上月公平性结转（排班月创建时冻结的快照）
	carried model.FairnessSnapshot

	understaffed []dto.UnderstaffedDate
	weekResults  map[string]dto.WeekBalanceResult // weekKey → 阶段2结果
	warnings     []string
}

// newRosterContext 构建空矩阵的生成上下文
func newRosterContext(clinicID string, year, month int, loc *time.Location) *rosterContext {
	rc := &rosterContext{
		clinicID:     clinicID,
		year:         year,
		month:        month,
		loc:          loc,
		requirements: make(map[string]*dayRequirement),
		holidays:     make(map[string]string),
		leaves:       make(map[string]map[string]string),
		matrix:       make(map[string]map[string]*model.StaffAssignment),
		weekResults:  make(map[string]dto.WeekBalanceResult),
	}
	rc.dates = monthDates(year, month, loc)
	return rc
}

// ── 日期工具 ──

func dateKey(t time.Time) string { return t.Format(dateLayout) }

// monthDates 返回某月全部日期（升序）
func monthDates(year, month int, loc *time.Location) []time.Time {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	var dates []time.Time
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// weekStart 返回日期所在周的周日（周界：周日–周六）
func weekStart(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// weeks 按周分组当月日期（周首为周日；跨月周仅含月内日期）
func (rc *rosterContext) weeks() [][]time.Time {
	grouped := make(map[string][]time.Time)
	var order []string
	for _, d := range rc.dates {
		wk := dateKey(weekStart(d))
		if _, ok := grouped[wk]; !ok {
			order = append(order, wk)
		}
		grouped[wk] = append(grouped[wk], d)
	}
	sort.Strings(order)
	result := make([][]time.Time, 0, len(order))
	for _, wk := range order {
		result = append(result, grouped[wk])
	}
	return result
}

// ── 矩阵访问 ──

// setShift 写入/覆盖某日某职员的班次
func (rc *rosterContext) setShift(date time.Time, staffID, shiftType string) {
	dk := dateKey(date)
	if rc.matrix[dk] == nil {
		rc.matrix[dk] = make(map[string]*model.StaffAssignment)
	}
	if a, ok := rc.matrix[dk][staffID]; ok {
		a.ShiftType = shiftType
		return
	}
	rc.matrix[dk][staffID] = &model.StaffAssignment{
		StaffID:   staffID,
		WorkDate:  date,
		ShiftType: shiftType,
	}
}

// shiftOf 读取某日某职员的班次（无行时返回空串）
func (rc *rosterContext) shiftOf(date time.Time, staffID string) string {
	a := rc.matrix[dateKey(date)][staffID]
	if a == nil {
		return ""
	}
	return a.ShiftType
}

// workedDaysInWeek 职员在一周内的实际到岗天数（day/night）
func (rc *rosterContext) workedDaysInWeek(staffID string, week []time.Time) int {
	count := 0
	for _, d := range week {
		if a := rc.matrix[dateKey(d)][staffID]; a != nil && a.IsWorking() {
			count++
		}
	}
	return count
}

// workingCountInCategory 某日某部门/分类的到岗人数
func (rc *rosterContext) workingCountInCategory(date time.Time, dept, cat string) int {
	count := 0
	byID := rc.staffByID()
	for staffID, a := range rc.matrix[dateKey(date)] {
		if !a.IsWorking() {
			continue
		}
		s := byID[staffID]
		if s != nil && s.DepartmentName == dept && s.CategoryName == cat {
			count++
		}
	}
	return count
}

// staffByID 职员索引（首次访问时构建）
func (rc *rosterContext) staffByID() map[string]*model.Staff {
	if rc.byID == nil {
		rc.byID = make(map[string]*model.Staff, len(rc.staff))
		for i := range rc.staff {
			rc.byID[rc.staff[i].StaffID] = &rc.staff[i]
		}
	}
	return rc.byID
}

// leaveTypeOf 某日某职员的休假类型（confirmed/pending 申请）
func (rc *rosterContext) leaveTypeOf(date time.Time, staffID string) (string, bool) {
	lt, ok := rc.leaves[dateKey(date)][staffID]
	return lt, ok
}

// isHoliday 某日是否节假日
func (rc *rosterContext) isHoliday(date time.Time) bool {
	_, ok := rc.holidays[dateKey(date)]
	return ok
}

// holidayClosedFor 节假日当天该职员所属分类是否闭诊
func (rc *rosterContext) holidayClosedFor(date time.Time, s *model.Staff) bool {
	if !rc.isHoliday(date) {
		return false
	}
	return !rc.rules.HolidayOpenCategories.Contains(s.CategoryName)
}

// carriedFor 职员的上月结转偏差
func (rc *rosterContext) carriedFor(staffID string) model.FairnessVector {
	if rc.carried == nil {
		return model.FairnessVector{}
	}
	return rc.carried[staffID]
}

// assignmentRows 导出全部排班行（按日期、职员名序，便于稳定落库）
func (rc *rosterContext) assignmentRows() []model.StaffAssignment {
	var rows []model.StaffAssignment
	for _, d := range rc.dates {
		dk := dateKey(d)
		ids := make([]string, 0, len(rc.matrix[dk]))
		for id := range rc.matrix[dk] {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			rows = append(rows, *rc.matrix[dk][id])
		}
	}
	return rows
}

// sortedWeekResults 按周首日期序导出阶段2结果
func (rc *rosterContext) sortedWeekResults() []dto.WeekBalanceResult {
	keys := make([]string, 0, len(rc.weekResults))
	for k := range rc.weekResults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	results := make([]dto.WeekBalanceResult, 0, len(keys))
	for _, k := range keys {
		results = append(results, rc.weekResults[k])
	}
	return results
}

// sortedKeys 通用：map 键排序
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// [自证通过] internal/service/roster_context.go
