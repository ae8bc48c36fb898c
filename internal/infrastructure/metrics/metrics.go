package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Sale metrics
	SalesRecorded    prometheus.Counter
	SalesRefunded    prometheus.Counter
	SaleAmount       prometheus.Histogram
	CommissionAmount prometheus.Histogram
	SaleErrors       *prometheus.CounterVec

	// Balance metrics
	BalanceIncrements prometheus.Counter
	BalanceDecrements prometheus.Counter
	// IncrementFailures counts sales that committed without a matching
	// balance update. Anything above zero means the reconciliation report
	// has work to do.
	IncrementFailures prometheus.Counter
	SellerBalance     *prometheus.GaugeVec

	// Payout metrics
	PayoutsCreated prometheus.Counter
	PayoutsPaid    prometheus.Counter
	PayoutsFailed  prometheus.Counter
	PayoutAmount   prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		SalesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revenue_sales_recorded_total",
			Help: "Total number of sales recorded",
		}),
		SalesRefunded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revenue_sales_refunded_total",
			Help: "Total number of sales refunded",
		}),
		SaleAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "revenue_sale_amount",
			Help:    "Sale prices",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 10000},
		}),
		CommissionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "revenue_commission_amount",
			Help:    "Platform commission per sale",
			Buckets: []float64{1, 10, 50, 100, 500, 1000},
		}),
		SaleErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revenue_sale_errors_total",
				Help: "Total number of sale errors by type",
			},
			[]string{"error_type"},
		),

		BalanceIncrements: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revenue_balance_increments_total",
			Help: "Total number of balance increments",
		}),
		BalanceDecrements: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revenue_balance_decrements_total",
			Help: "Total number of balance decrements",
		}),
		IncrementFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revenue_balance_increment_failures_total",
			Help: "Sales committed without a matching balance increment",
		}),
		SellerBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "revenue_seller_balance",
				Help: "Current pending balance per seller",
			},
			[]string{"seller_id", "currency"},
		),

		PayoutsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revenue_payouts_created_total",
			Help: "Total number of payouts created",
		}),
		PayoutsPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revenue_payouts_paid_total",
			Help: "Total number of payouts marked paid",
		}),
		PayoutsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "revenue_payouts_failed_total",
			Help: "Total number of payouts marked failed",
		}),
		PayoutAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "revenue_payout_amount",
			Help:    "Payout amounts",
			Buckets: []float64{50, 100, 500, 1000, 5000, 10000, 100000},
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revenue_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "revenue_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revenue_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "revenue_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revenue_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revenue_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revenue_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revenue_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
