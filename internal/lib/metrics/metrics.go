// Package metrics содержит счётчики Prometheus для подсистемы аутентификации.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Результаты попытки входа.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginRoleNotPermitted   = "role_not_permitted"
	LoginError              = "error"
)

// Причины отказа в доступе на защищённых маршрутах.
const (
	RejectMissingToken     = "missing_token"
	RejectInvalidToken     = "invalid_token"
	RejectUnknownUser      = "unknown_user"
	RejectInactiveUser     = "inactive_user"
	RejectInsufficientRole = "insufficient_role"
	RejectStoreFailure     = "store_failure"
)

// AuthMetrics считает входы и отказы. Нулевой указатель допустим
// и ничего не считает.
type AuthMetrics struct {
	logins     *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

// NewAuthMetrics создаёт счётчики и регистрирует их в reg.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	m := &AuthMetrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "auth",
			Name:      "login_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "auth",
			Name:      "rejections_total",
			Help:      "Requests rejected by authentication or role checks.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.logins, m.rejections)
	return m
}

// LoginAttempt учитывает попытку входа с указанным результатом.
func (m *AuthMetrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

// Rejection учитывает отказ в доступе.
func (m *AuthMetrics) Rejection(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}
