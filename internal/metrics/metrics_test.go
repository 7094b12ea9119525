package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCounterAndGauge(t *testing.T) {
	r := GetRegistry()

	counter := r.GetCounter("roster_solve_total")
	if counter == nil {
		t.Fatal("默认指标应已注册")
	}
	counter.Inc("feasible")
	counter.Add(2, "feasible")

	gauge := r.GetGauge("roster_active_jobs")
	if gauge == nil {
		t.Fatal("默认指标应已注册")
	}
	gauge.Set(3)
	gauge.Dec()
}

func TestRecordSolve(t *testing.T) {
	RecordSolve("schema-1", 0, -2, 0.75, true, 120*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, metric := range []string{
		"roster_solve_total",
		"roster_solve_duration_seconds",
		"roster_solution_hard_score",
		"roster_solution_soft_score",
		"roster_fill_rate",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("指标输出缺少 %s", metric)
		}
	}
	if !strings.Contains(body, `schema_id="schema-1"`) {
		t.Error("得分指标应带 schema_id 标签")
	}
}

func TestHandler_PrometheusFormat(t *testing.T) {
	RecordRequestMetrics("GET", "/api/v1/schemas", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "# TYPE roster_http_requests_total counter") {
		t.Error("输出应包含计数器TYPE行")
	}
	if !strings.Contains(body, "# TYPE roster_http_request_duration_seconds histogram") {
		t.Error("输出应包含直方图TYPE行")
	}
	if !strings.Contains(body, "_bucket{") || !strings.Contains(body, "le=") {
		t.Error("直方图输出应包含bucket行")
	}
}
