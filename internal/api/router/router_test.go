package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/config"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/api/handler"
)

const testOrigin = "http://localhost:5173"

func newTestRouter() http.Handler {
	cfg := &config.Config{}
	cfg.Server.CORS.AllowOrigins = []string{testOrigin}
	h := &handler.Handler{
		Schedule: &handler.ScheduleHandler{},
		Leave:    &handler.LeaveHandler{},
		Fairness: &handler.FairnessHandler{},
		Holiday:  &handler.HolidayHandler{},
	}
	return Setup(cfg, h, nil, zap.NewNop())
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("健康检查期望 200，得到 %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("健康检查响应异常: %s", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("响应应携带 X-Request-ID")
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
	if got := w.Header().Get("Content-Security-Policy"); got != "default-src 'none'" {
		t.Errorf("Content-Security-Policy = %q, want default-src 'none'", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/v1/leaves", nil)
	req.Header.Set("Origin", testOrigin)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("预检请求期望 204，得到 %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
		t.Errorf("Allow-Origin = %q, want %q", got, testOrigin)
	}
	if allowed := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(allowed, "X-Operator-ID") {
		t.Errorf("Allow-Headers 应包含 X-Operator-ID，得到 %q", allowed)
	}
}

func TestRequestID_RejectsNonUUID(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	r.ServeHTTP(w, req)

	rid := w.Header().Get("X-Request-ID")
	if rid == "" || rid == "not-a-uuid" {
		t.Errorf("非法 Request-ID 应被重新生成，得到 %q", rid)
	}
	if _, err := uuid.Parse(rid); err != nil {
		t.Errorf("响应 Request-ID 应为合法 UUID: %v", err)
	}
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/nonexistent", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("未注册路由期望 404，得到 %d", w.Code)
	}
}
