//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pkgerrors "github.com/seonhu82/ysbaro-Scheduler-sub006/pkg/errors"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=ysbaro password=ysbaro_password dbname=ysbaro_scheduler_test sslmode=disable TimeZone=Asia/Seoul"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.Staff{},
		&model.ScheduleMonth{},
		&model.StaffAssignment{},
		&model.DoctorDayRecord{},
		&model.DoctorCombination{},
		&model.LeaveApplication{},
		&model.FairnessScore{},
		&model.RuleSettings{},
		&model.Holiday{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupTestData 创建基础测试数据并返回清理函数
func setupTestData(t *testing.T) (clinicID string, staff *model.Staff, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	clinicID = uuid.NewString()
	staff = &model.Staff{
		ClinicID:         clinicID,
		Name:             fmt.Sprintf("测试职员-%d", time.Now().UnixNano()),
		CategoryName:     "护理",
		DepartmentName:   "门诊部",
		WeeklyWorkDayCap: 4,
		IsActive:         true,
	}
	if err := testDB.WithContext(ctx).Create(staff).Error; err != nil {
		t.Fatalf("创建职员失败: %v", err)
	}

	cleanup = func() {
		testDB.Unscoped().Where("staff_id = ?", staff.StaffID).Delete(&model.Staff{})
	}
	return
}

// ═══════════════════════════════════════════════════════════
// Test: Optimistic Lock
// ═══════════════════════════════════════════════════════════

func TestOptimisticLock_ScheduleMonth_ConflictDetected(t *testing.T) {
	clinicID, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	sched := &model.ScheduleMonth{
		ClinicID: clinicID,
		Year:     2025,
		Month:    6,
		Status:   model.ScheduleStatusDraft,
	}
	if err := repo.ScheduleMonth.Create(ctx, sched); err != nil {
		t.Fatalf("创建 ScheduleMonth 失败: %v", err)
	}
	defer testDB.Unscoped().Where("schedule_month_id = ?", sched.ScheduleMonthID).Delete(&model.ScheduleMonth{})

	// 模拟并发：获取两份副本
	copy1, _ := repo.ScheduleMonth.GetByID(ctx, sched.ScheduleMonthID)
	copy2, _ := repo.ScheduleMonth.GetByID(ctx, sched.ScheduleMonthID)

	// 第一次更新成功
	copy1.Status = model.ScheduleStatusConfirmed
	if err := repo.ScheduleMonth.Update(ctx, copy1); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}

	// 第二次更新应失败（version 已过期）
	copy2.Status = model.ScheduleStatusConfirmed
	err := repo.ScheduleMonth.Update(ctx, copy2)
	if err == nil {
		t.Fatal("期望乐观锁冲突错误，但更新成功了")
	}
	if err != pkgerrors.ErrOptimisticLock {
		t.Errorf("期望 ErrOptimisticLock，得到: %v", err)
	}
}

func TestOptimisticLock_LeaveApplication_ConflictDetected(t *testing.T) {
	clinicID, staff, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	application := &model.LeaveApplication{
		ClinicID:  clinicID,
		StaffID:   staff.StaffID,
		LeaveDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		LeaveType: model.LeaveTypeOff,
		Status:    model.LeaveStatusPending,
	}
	if err := repo.LeaveApplication.Create(ctx, application); err != nil {
		t.Fatalf("创建 LeaveApplication 失败: %v", err)
	}
	defer testDB.Unscoped().Where("leave_application_id = ?", application.LeaveApplicationID).Delete(&model.LeaveApplication{})

	copy1, _ := repo.LeaveApplication.GetByID(ctx, application.LeaveApplicationID)
	copy2, _ := repo.LeaveApplication.GetByID(ctx, application.LeaveApplicationID)

	copy1.Status = model.LeaveStatusConfirmed
	if err := repo.LeaveApplication.Update(ctx, copy1); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}

	copy2.Status = model.LeaveStatusRejected
	err := repo.LeaveApplication.Update(ctx, copy2)
	if err == nil {
		t.Fatal("期望乐观锁冲突错误，但更新成功了")
	}
	if err != pkgerrors.ErrOptimisticLock {
		t.Errorf("期望 ErrOptimisticLock，得到: %v", err)
	}
}

func TestOptimisticLock_VersionIncrement(t *testing.T) {
	clinicID, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	sched := &model.ScheduleMonth{
		ClinicID: clinicID,
		Year:     2025,
		Month:    7,
		Status:   model.ScheduleStatusDraft,
	}
	if err := repo.ScheduleMonth.Create(ctx, sched); err != nil {
		t.Fatalf("创建 ScheduleMonth 失败: %v", err)
	}
	defer testDB.Unscoped().Where("schedule_month_id = ?", sched.ScheduleMonthID).Delete(&model.ScheduleMonth{})

	if sched.Version != 1 {
		t.Errorf("初始 version 应为 1，得到: %d", sched.Version)
	}

	// 连续更新 3 次
	for i := 0; i < 3; i++ {
		got, _ := repo.ScheduleMonth.GetByID(ctx, sched.ScheduleMonthID)
		got.Status = model.ScheduleStatusDraft
		if err := repo.ScheduleMonth.Update(ctx, got); err != nil {
			t.Fatalf("第 %d 次更新失败: %v", i+1, err)
		}
	}

	// 验证 version 递增到 4
	final, _ := repo.ScheduleMonth.GetByID(ctx, sched.ScheduleMonthID)
	if final.Version != 4 {
		t.Errorf("期望 version=4，得到: %d", final.Version)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Unique Constraint (one schedule month per clinic/year/month)
// ═══════════════════════════════════════════════════════════

func TestUniqueScheduleMonthPerClinic(t *testing.T) {
	clinicID, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	sched1 := &model.ScheduleMonth{
		ClinicID: clinicID,
		Year:     2025,
		Month:    6,
		Status:   model.ScheduleStatusDraft,
	}
	if err := repo.ScheduleMonth.Create(ctx, sched1); err != nil {
		t.Fatalf("创建第一个 ScheduleMonth 失败: %v", err)
	}
	defer testDB.Unscoped().Where("schedule_month_id = ?", sched1.ScheduleMonthID).Delete(&model.ScheduleMonth{})

	// 同诊所同年月的第二条记录——应违反唯一约束
	sched2 := &model.ScheduleMonth{
		ClinicID: clinicID,
		Year:     2025,
		Month:    6,
		Status:   model.ScheduleStatusDraft,
	}
	err := repo.ScheduleMonth.Create(ctx, sched2)
	if err == nil {
		// 如果未报错则手动清理并报告失败
		testDB.Unscoped().Where("schedule_month_id = ?", sched2.ScheduleMonthID).Delete(&model.ScheduleMonth{})
		t.Fatal("期望唯一约束违反，但创建成功了。确保 idx_schedule_months_clinic_ym 唯一索引已创建")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Batch Operations
// ═══════════════════════════════════════════════════════════

func TestStaffAssignment_BatchCreateAndClear(t *testing.T) {
	clinicID, staff, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	sched := &model.ScheduleMonth{
		ClinicID: clinicID,
		Year:     2025,
		Month:    6,
		Status:   model.ScheduleStatusDraft,
	}
	if err := repo.ScheduleMonth.Create(ctx, sched); err != nil {
		t.Fatalf("创建 ScheduleMonth 失败: %v", err)
	}
	defer testDB.Unscoped().Where("schedule_month_id = ?", sched.ScheduleMonthID).Delete(&model.ScheduleMonth{})

	// 批量创建 10 条排班行（同一职员，不同日期）
	assignments := make([]model.StaffAssignment, 10)
	for i := range assignments {
		assignments[i] = model.StaffAssignment{
			ScheduleMonthID: sched.ScheduleMonthID,
			StaffID:         staff.StaffID,
			WorkDate:        time.Date(2025, 6, i+1, 0, 0, 0, 0, time.UTC),
			ShiftType:       model.ShiftDay,
		}
	}
	if err := repo.StaffAssignment.BatchCreate(ctx, assignments); err != nil {
		t.Fatalf("BatchCreate 失败: %v", err)
	}
	defer testDB.Unscoped().Where("schedule_month_id = ?", sched.ScheduleMonthID).Delete(&model.StaffAssignment{})

	list, err := repo.StaffAssignment.ListByScheduleMonth(ctx, sched.ScheduleMonthID)
	if err != nil {
		t.Fatalf("ListByScheduleMonth 失败: %v", err)
	}
	if len(list) != 10 {
		t.Errorf("期望 10 条排班行，得到 %d 条", len(list))
	}
	if len(list) > 0 && list[0].Staff == nil {
		t.Error("排班行应预加载 Staff 关联")
	}

	// 重新生成前的幂等清理
	if err := repo.StaffAssignment.DeleteByScheduleMonth(ctx, sched.ScheduleMonthID); err != nil {
		t.Fatalf("DeleteByScheduleMonth 失败: %v", err)
	}
	list, err = repo.StaffAssignment.ListByScheduleMonth(ctx, sched.ScheduleMonthID)
	if err != nil {
		t.Fatalf("清空后查询失败: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("清空后期望 0 条排班行，得到 %d 条", len(list))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Holiday BatchUpsert
// ═══════════════════════════════════════════════════════════

func TestHoliday_BatchUpsertSkipsExisting(t *testing.T) {
	clinicID, _, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	existing := &model.Holiday{
		ClinicID:    clinicID,
		HolidayDate: time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC),
		Name:        "纪念日",
		Source:      model.HolidaySourceManual,
	}
	if err := repo.Holiday.Create(ctx, existing); err != nil {
		t.Fatalf("创建节假日失败: %v", err)
	}
	defer testDB.Unscoped().Where("clinic_id = ?", clinicID).Delete(&model.Holiday{})

	// 批量导入 3 条，其中 1 条与已有日期重复
	batch := []model.Holiday{
		{ClinicID: clinicID, HolidayDate: time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC), Name: "重复日", Source: model.HolidaySourceICS},
		{ClinicID: clinicID, HolidayDate: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), Name: "振替休日", Source: model.HolidaySourceICS},
		{ClinicID: clinicID, HolidayDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Name: "连休", Source: model.HolidaySourceICS},
	}
	inserted, err := repo.Holiday.BatchUpsert(ctx, batch)
	if err != nil {
		t.Fatalf("BatchUpsert 失败: %v", err)
	}
	if inserted != 2 {
		t.Errorf("期望插入 2 条，得到 %d 条", inserted)
	}

	list, err := repo.Holiday.ListByClinicAndRange(ctx,
		clinicID,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListByClinicAndRange 失败: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("期望 3 条节假日，得到 %d 条", len(list))
	}
	// 已存在日期保留原记录
	for _, h := range list {
		if h.HolidayDate.Format("2006-01-02") == "2025-06-06" && h.Name != "纪念日" {
			t.Errorf("已存在日期应保留原记录，得到: %s", h.Name)
		}
	}
}
