// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェアやサービス層から利用する。
type MetricsCollector interface {
	ObserveRequest(method string, statusCode int, duration time.Duration)
	RecordGeocodeSuccess()
	RecordGeocodeFailure(reason string)
	RecordAvatarUploadSuccess()
	RecordAvatarUploadFailure()
	RecordLogin()
	RecordRegistration()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests    *prometheus.CounterVec
	requestLatency  prometheus.Histogram
	geocodeSuccess  prometheus.Counter
	geocodeFail     *prometheus.CounterVec
	avatarUploadOK  prometheus.Counter
	avatarUploadNG  prometheus.Counter
	logins          prometheus.Counter
	registrations   prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tabiplan_http_requests_total",
			Help: "メソッド・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tabiplan_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		geocodeSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tabiplan_geocode_success_total",
			Help: "ジオコーディング成功の合計数",
		}),
		geocodeFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tabiplan_geocode_fail_total",
			Help: "理由別のジオコーディング失敗数",
		}, []string{"reason"}),
		avatarUploadOK: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tabiplan_avatar_upload_success_total",
			Help: "アバターアップロード成功の合計数",
		}),
		avatarUploadNG: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tabiplan_avatar_upload_fail_total",
			Help: "アバターアップロード失敗の合計数",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tabiplan_logins_total",
			Help: "ログイン成功の合計数",
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tabiplan_registrations_total",
			Help: "ユーザー登録の合計数",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.requestLatency,
		c.geocodeSuccess,
		c.geocodeFail,
		c.avatarUploadOK,
		c.avatarUploadNG,
		c.logins,
		c.registrations,
	)

	return c
}

// ObserveRequest はHTTPリクエストの完了を記録する。
func (c *Collector) ObserveRequest(method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.requestLatency.Observe(duration.Seconds())
}

// RecordGeocodeSuccess はジオコーディング成功を記録する。
func (c *Collector) RecordGeocodeSuccess() {
	c.geocodeSuccess.Inc()
}

// RecordGeocodeFailure はジオコーディング失敗を理由付きで記録する。
func (c *Collector) RecordGeocodeFailure(reason string) {
	c.geocodeFail.WithLabelValues(reason).Inc()
}

// RecordAvatarUploadSuccess はアバターアップロード成功を記録する。
func (c *Collector) RecordAvatarUploadSuccess() {
	c.avatarUploadOK.Inc()
}

// RecordAvatarUploadFailure はアバターアップロード失敗を記録する。
func (c *Collector) RecordAvatarUploadFailure() {
	c.avatarUploadNG.Inc()
}

// RecordLogin はログイン成功を記録する。
func (c *Collector) RecordLogin() {
	c.logins.Inc()
}

// RecordRegistration はユーザー登録を記録する。
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
