package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	IngestMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_messages_total",
			Help: "Total number of messages accepted by ingest service (count)",
		},
		[]string{"status"},
	)

	RecorderMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recorder_messages_total",
			Help: "Total number of messages processed by recorder service (count)",
		},
		[]string{"status"},
	)

	ParseResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parse_results_total",
			Help: "Total number of parse attempts by result (count)",
		},
		[]string{"result"},
	)

	IngestProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_processing_duration_ms",
			Help:    "Processing duration for ingest service in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"status"},
	)

	RecorderProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recorder_processing_duration_ms",
			Help:    "Processing duration for recorder service in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"status"},
	)

	LedgerAppendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_append_duration_ms",
			Help:    "Duration of ledger row appends in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"status"},
	)

	DedupCheckDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dedup_check_duration_ms",
			Help:    "Duration of deduplication claim checks in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"status"},
	)

	ScreeningActiveRules = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "screening_active_rules",
			Help: "Number of active screening rules (count)",
		},
	)

	DedupCacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dedup_cache_size",
			Help: "Approximate size of deduplication cache (count)",
		},
	)

	DedupChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dedup_checks_total",
			Help: "Total number of deduplication claim checks (count)",
		},
		[]string{"status"},
	)

	LedgerAppendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_appends_total",
			Help: "Total number of ledger append attempts (count)",
		},
		[]string{"status"},
	)

	RateCacheHitRate = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_cache_hit_rate",
			Help: "Cache hit rate for exchange rate lookups (ratio, 0.0 to 1.0)",
		},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts (count)",
		},
		[]string{"service", "topic"},
	)

	DLQMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dlq_messages_total",
			Help: "Total number of messages sent to DLQ (count)",
		},
		[]string{"service", "topic", "reason"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)

	FallbackUsageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallback_usage_total",
			Help: "Total number of times fallback strategies were used (count)",
		},
		[]string{"service", "strategy", "reason"},
	)

	KafkaMessagesReadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_read_total",
			Help: "Total number of messages read from Kafka (count)",
		},
		[]string{"service", "topic"},
	)

	KafkaMessagesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_written_total",
			Help: "Total number of messages written to Kafka (count)",
		},
		[]string{"service", "topic"},
	)

	KafkaMessageSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_message_size_bytes",
			Help:    "Size of Kafka messages in bytes",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		},
		[]string{"service", "topic", "direction"},
	)

	KafkaConsumerLag = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kafka_consumer_lag",
			Help: "Kafka consumer lag (difference between latest offset and committed offset) (count)",
		},
		[]string{"service", "topic", "partition"},
	)

	KafkaReadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_read_duration_ms",
			Help:    "Duration of reading messages from Kafka in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"service", "topic"},
	)

	KafkaWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_write_duration_ms",
			Help:    "Duration of writing messages to Kafka in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"service", "topic"},
	)

	ScreeningRuleEvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_rule_evaluations_total",
			Help: "Total number of screening rule evaluations (count)",
		},
		[]string{"rule_id", "rule_name", "result"},
	)

	RateProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_provider_requests_total",
			Help: "Total number of requests to exchange rate providers (count)",
		},
		[]string{"provider", "status"},
	)

	RateProviderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rate_provider_duration_ms",
			Help:    "Duration of exchange rate provider requests in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"provider"},
	)

	DatabaseQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries (count)",
		},
		[]string{"service", "database", "operation", "status"},
	)

	DatabaseQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_ms",
			Help:    "Duration of database queries in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"service", "database", "operation"},
	)

	DatabaseConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections (count)",
		},
		[]string{"service", "database"},
	)

	MessageQueueSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "message_queue_size",
			Help: "Current size of message processing queue (count)",
		},
		[]string{"service"},
	)

	MessageQueueWaitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "message_queue_wait_duration_ms",
			Help:    "Duration messages wait in queue before processing in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"service"},
	)
)

func RegisterIngestMetrics() {
	prometheus.MustRegister(IngestMessagesTotal)
	prometheus.MustRegister(IngestProcessingDuration)
	registerFallbackUsageTotalOnce()
}

func RegisterRecorderMetrics() {
	prometheus.MustRegister(RecorderMessagesTotal)
	prometheus.MustRegister(RecorderProcessingDuration)
	prometheus.MustRegister(ParseResultsTotal)
	prometheus.MustRegister(ScreeningActiveRules)
	prometheus.MustRegister(ScreeningRuleEvaluationsTotal)
	prometheus.MustRegister(DedupCacheSize)
	prometheus.MustRegister(DedupChecksTotal)
	prometheus.MustRegister(DedupCheckDuration)
	prometheus.MustRegister(LedgerAppendsTotal)
	prometheus.MustRegister(LedgerAppendDuration)
	registerFallbackUsageTotalOnce()
}

func RegisterLedgerMetrics() {
	prometheus.MustRegister(RateLimitRequestsTotal)
	prometheus.MustRegister(RateCacheHitRate)
	prometheus.MustRegister(RateProviderRequestsTotal)
	prometheus.MustRegister(RateProviderDuration)
	prometheus.MustRegister(DedupCacheSize)
	prometheus.MustRegister(DatabaseQueriesTotal)
	prometheus.MustRegister(DatabaseQueryDuration)
	prometheus.MustRegister(DatabaseConnectionsActive)
	prometheus.MustRegister(MessageQueueSize)
	prometheus.MustRegister(MessageQueueWaitDuration)
	registerFallbackUsageTotalOnce()
}

func registerFallbackUsageTotalOnce() {
	prometheus.MustRegister(FallbackUsageTotal)
}

func RegisterBrokerMetrics() {
	prometheus.MustRegister(RetryAttemptsTotal)
	prometheus.MustRegister(DLQMessagesTotal)
	prometheus.MustRegister(KafkaMessagesReadTotal)
	prometheus.MustRegister(KafkaMessagesWrittenTotal)
	prometheus.MustRegister(KafkaMessageSizeBytes)
	prometheus.MustRegister(KafkaConsumerLag)
	prometheus.MustRegister(KafkaReadDuration)
	prometheus.MustRegister(KafkaWriteDuration)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(CircuitBreakerRequests)
	prometheus.MustRegister(CircuitBreakerFailures)
}

func ObserveIngestDuration(duration time.Duration, status string) {
	IngestProcessingDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func ObserveRecorderDuration(duration time.Duration, status string) {
	RecorderProcessingDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func ObserveLedgerAppendDuration(duration time.Duration, status string) {
	LedgerAppendDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func SetScreeningActiveRules(count int) {
	ScreeningActiveRules.Set(float64(count))
}

func SetDedupCacheSize(size int) {
	DedupCacheSize.Set(float64(size))
}

func SetRateCacheHitRate(rate float64) {
	RateCacheHitRate.Set(rate)
}

func IncParseResult(result string) {
	ParseResultsTotal.WithLabelValues(result).Inc()
}

func IncDedupCheck(status string) {
	DedupChecksTotal.WithLabelValues(status).Inc()
}

func ObserveDedupCheckDuration(duration time.Duration, status string) {
	DedupCheckDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func IncLedgerAppend(status string) {
	LedgerAppendsTotal.WithLabelValues(status).Inc()
}

// Helper functions for broker metrics
func IncKafkaMessagesRead(service, topic string) {
	KafkaMessagesReadTotal.WithLabelValues(service, topic).Inc()
}

func IncKafkaMessagesWritten(service, topic string) {
	KafkaMessagesWrittenTotal.WithLabelValues(service, topic).Inc()
}

func ObserveKafkaMessageSize(service, topic, direction string, sizeBytes int) {
	KafkaMessageSizeBytes.WithLabelValues(service, topic, direction).Observe(float64(sizeBytes))
}

func SetKafkaConsumerLag(service, topic string, partition int, lag int64) {
	KafkaConsumerLag.WithLabelValues(service, topic, fmt.Sprintf("%d", partition)).Set(float64(lag))
}

func ObserveKafkaReadDuration(service, topic string, duration time.Duration) {
	KafkaReadDuration.WithLabelValues(service, topic).Observe(float64(duration.Milliseconds()))
}

func ObserveKafkaWriteDuration(service, topic string, duration time.Duration) {
	KafkaWriteDuration.WithLabelValues(service, topic).Observe(float64(duration.Milliseconds()))
}

func IncScreeningRuleEvaluation(ruleID, ruleName, result string) {
	ScreeningRuleEvaluationsTotal.WithLabelValues(ruleID, ruleName, result).Inc()
}

func IncRateProviderRequest(provider, status string) {
	RateProviderRequestsTotal.WithLabelValues(provider, status).Inc()
}

func ObserveRateProviderDuration(provider string, duration time.Duration) {
	RateProviderDuration.WithLabelValues(provider).Observe(float64(duration.Milliseconds()))
}

func IncDatabaseQuery(service, database, operation, status string) {
	DatabaseQueriesTotal.WithLabelValues(service, database, operation, status).Inc()
}

func ObserveDatabaseQueryDuration(service, database, operation string, duration time.Duration) {
	DatabaseQueryDuration.WithLabelValues(service, database, operation).Observe(float64(duration.Milliseconds()))
}

func SetDatabaseConnectionsActive(service, database string, count int) {
	DatabaseConnectionsActive.WithLabelValues(service, database).Set(float64(count))
}

func SetMessageQueueSize(service string, size int) {
	MessageQueueSize.WithLabelValues(service).Set(float64(size))
}

func ObserveMessageQueueWaitDuration(service string, duration time.Duration) {
	MessageQueueWaitDuration.WithLabelValues(service).Observe(float64(duration.Milliseconds()))
}
