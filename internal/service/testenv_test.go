package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/config"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/repository"
)

// ── 测试环境 ──
//
// 所有 Service 测试共享的内存 Repository 装配。
// 时区固定 UTC，Redis 为 nil（准入锁走进程内退路）。

const testClinicID = "clinic-1"

type testEnv struct {
	repo *repository.Repository

	staff    *mockStaffRepo
	months   *mockScheduleMonthRepo
	assigns  *mockStaffAssignmentRepo
	days     *mockDoctorDayRecordRepo
	combos   *mockDoctorCombinationRepo
	leaves   *mockLeaveApplicationRepo
	scores   *mockFairnessScoreRepo
	rules    *mockRuleSettingsRepo
	holidays *mockHolidayRepo
}

func newTestEnv() *testEnv {
	e := &testEnv{
		staff:    newMockStaffRepo(),
		months:   newMockScheduleMonthRepo(),
		assigns:  newMockStaffAssignmentRepo(),
		days:     newMockDoctorDayRecordRepo(),
		combos:   newMockDoctorCombinationRepo(),
		scores:   newMockFairnessScoreRepo(),
		rules:    newMockRuleSettingsRepo(),
		holidays: newMockHolidayRepo(),
	}
	e.leaves = newMockLeaveApplicationRepo(e.staff)
	e.repo = &repository.Repository{
		Staff:             e.staff,
		ScheduleMonth:     e.months,
		StaffAssignment:   e.assigns,
		DoctorDayRecord:   e.days,
		DoctorCombination: e.combos,
		LeaveApplication:  e.leaves,
		FairnessScore:     e.scores,
		RuleSettings:      e.rules,
		Holiday:           e.holidays,
	}
	e.rules.settings[testClinicID] = &model.RuleSettings{
		RuleSettingsID:               "rules-1",
		ClinicID:                     testClinicID,
		WeekBusinessDays:             6,
		DefaultWorkDays:              4,
		MaxWeeklyOffs:                2,
		MaxMonthlyOffApplications:    4,
		MaxMonthlyAnnualApplications: 2,
	}
	return e
}

func (e *testEnv) scheduleService() ScheduleService {
	return NewScheduleService(e.repo, time.UTC, zap.NewNop())
}

func (e *testEnv) fairnessService() FairnessService {
	return NewFairnessService(e.repo, time.UTC, zap.NewNop())
}

func (e *testEnv) leaveService() LeaveService {
	engine := &config.EngineConfig{
		AdmissionLockTTL:           3 * time.Second,
		AdmissionLockRetryInterval: 10 * time.Millisecond,
		AdmissionLockMaxRetries:    3,
		Timezone:                   "UTC",
	}
	return NewLeaveService(e.repo, nil, engine, time.UTC, zap.NewNop())
}

func (e *testEnv) holidayService() HolidayService {
	return NewHolidayService(e.repo, time.UTC, zap.NewNop())
}

// addStaffGroup 批量添加某部门/分类职员，姓名 prefix-01 … prefix-NN
func (e *testEnv) addStaffGroup(dept, cat, prefix string, n int) []*model.Staff {
	staff := make([]*model.Staff, 0, n)
	for i := 1; i <= n; i++ {
		s := e.staff.add(&model.Staff{
			ClinicID:       testClinicID,
			Name:           fmt.Sprintf("%s-%02d", prefix, i),
			DepartmentName: dept,
			CategoryName:   cat,
		})
		staff = append(staff, s)
	}
	return staff
}

// addBusinessDay 添加某日出诊记录（每位医生一条，白班出诊）
func (e *testEnv) addBusinessDay(date time.Time, doctors []string, hasNightShift bool) {
	for _, name := range doctors {
		e.days.add(model.DoctorDayRecord{
			ClinicID:        testClinicID,
			WorkDate:        date,
			DoctorID:        "doc-" + name,
			DoctorShortName: name,
			HasDayShift:     true,
			HasNightShift:   hasNightShift,
		})
	}
}

// addPlaceholderDay 添加占位记录（无任何班次，当日闭诊）
func (e *testEnv) addPlaceholderDay(date time.Time, doctor string) {
	e.days.add(model.DoctorDayRecord{
		ClinicID:        testClinicID,
		WorkDate:        date,
		DoctorID:        "doc-" + doctor,
		DoctorShortName: doctor,
	})
}

// addCombination 添加医生组合配置
func (e *testEnv) addCombination(doctors []string, hasNightShift bool, nightStaff int, cats model.CategoryStaffMap) {
	total := 0
	for _, byCat := range cats {
		for _, cr := range byCat {
			total += cr.Count
		}
	}
	e.combos.add(&model.DoctorCombination{
		ClinicID:                testClinicID,
		DoctorNames:             model.CombinationKey(doctors),
		HasNightShift:           hasNightShift,
		RequiredStaffTotal:      total,
		NightStaffCount:         nightStaff,
		DepartmentCategoryStaff: cats,
	})
}

// addHoliday 添加节假日
func (e *testEnv) addHoliday(date time.Time, name string) {
	key := holidayKey(testClinicID, date)
	e.holidays.seq++
	e.holidays.holidays[key] = &model.Holiday{
		HolidayID:   fmt.Sprintf("holiday-%d", e.holidays.seq),
		ClinicID:    testClinicID,
		HolidayDate: date,
		Name:        name,
		Source:      model.HolidaySourceManual,
	}
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func catMap(dept, cat string, count, minRequired int) model.CategoryStaffMap {
	return model.CategoryStaffMap{
		dept: {cat: model.CategoryRequirement{Count: count, MinRequired: minRequired}},
	}
}

// [自证通过] internal/service/testenv_test.go
