package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestNewCollector_RegistersMetrics はCollectorがメトリクスを登録できることを検証する。
func TestNewCollector_RegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	if c == nil {
		t.Fatal("expected non-nil collector")
	}
}

// TestCollector_RecordSignup は登録数カウンターの増加を検証する。
func TestCollector_RecordSignup(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSignup()
	c.RecordSignup()

	if got := testutil.ToFloat64(c.signups); got != 2 {
		t.Errorf("signups = %v, want 2", got)
	}
}

// TestCollector_RecordLoginCounters はログイン成功・失敗カウンターを検証する。
func TestCollector_RecordLoginCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess()
	c.RecordLoginFailure()
	c.RecordLoginFailure()

	if got := testutil.ToFloat64(c.loginSuccess); got != 1 {
		t.Errorf("loginSuccess = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.loginFail); got != 2 {
		t.Errorf("loginFail = %v, want 2", got)
	}
}

// TestCollector_RecordTokenRejected はトークン拒否カウンターを検証する。
func TestCollector_RecordTokenRejected(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTokenRejected()

	if got := testutil.ToFloat64(c.tokenRejected); got != 1 {
		t.Errorf("tokenRejected = %v, want 1", got)
	}
}

// TestCollector_RecordHTTPStatus はステータスコード別カウンターを検証する。
func TestCollector_RecordHTTPStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("200")); got != 2 {
		t.Errorf("httpStatus{200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("404")); got != 1 {
		t.Errorf("httpStatus{404} = %v, want 1", got)
	}
}

// TestCollector_RecordRequestLatency はレイテンシ記録がパニックしないことを検証する。
func TestCollector_RecordRequestLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequestLatency(150 * time.Millisecond)
}

// TestSetupMetricsRoute_ServesMetrics は/metricsパスでメトリクスが返ることを検証する。
func TestSetupMetricsRoute_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSignup()

	handler := SetupMetricsRoute(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "blogman_signup_total") {
		t.Error("response should contain blogman_signup_total metric")
	}
}
