// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector はメトリクス収集のインターフェース。
// 認証サービスやミドルウェアから利用する。
type MetricsCollector interface {
	RecordSignup()
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordTokenRejected()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	signups        prometheus.Counter
	loginSuccess   prometheus.Counter
	loginFail      prometheus.Counter
	tokenRejected  prometheus.Counter
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogman_signup_total",
			Help: "ユーザー登録成功の合計数",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogman_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogman_login_failure_total",
			Help: "ログイン失敗の合計数",
		}),
		tokenRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogman_token_rejected_total",
			Help: "検証に失敗したトークンの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "blogman_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.signups,
		c.loginSuccess,
		c.loginFail,
		c.tokenRejected,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordSignup はユーザー登録成功を記録する。
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
// ユーザー未登録とパスワード不一致を区別せずに数える。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordTokenRejected はトークン検証失敗を記録する。
func (c *Collector) RecordTokenRejected() {
	c.tokenRejected.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

var _ MetricsCollector = (*Collector)(nil)
