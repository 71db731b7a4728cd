package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second

	// KafkaProducerMaxAttempts bounds the writer's internal delivery retries.
	KafkaProducerMaxAttempts = 3
)

const (
	DefaultHTTPTimeout = 10 * time.Second
)

const (
	CacheKeyPrefixDedup = "dedup:"
	CacheKeyPrefixRate  = "fxrate:"
)

const (
	DefaultMessagesTopic = "chat_messages"
	DefaultRecordedTopic = "recorded_bets"
)

const (
	DefaultMongoDBName = "tally"
)

const (
	DefaultMigrationsPath = "migrations/postgres"
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultLimit       = 100
	MaxLimit           = 1000
	DefaultTruncateLen = 100
)

const (
	// Dedup claims expire out of Redis after a week; the ledger's unique
	// constraint stays authoritative beyond the window.
	DefaultDedupTTLSeconds = 604800
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)

const (
	FallbackAllow = "allow"
	FallbackDeny  = "deny"
)

const (
	ServiceIngest   = "ingest-service"
	ServiceRecorder = "recorder-service"
	ServiceLedger   = "ledger-service"
)

const (
	// Ledger row kinds. Week markers close out a betting week inside a
	// monthly sheet and are never deduplicated against chat messages.
	RowKindBet        = "bet"
	RowKindWeekMarker = "week_marker"

	WeekMarkerDetails = "End of Week"
)

const (
	// SheetTimeLayout names monthly ledger tabs ("January", "February", ...).
	SheetTimeLayout = "January"
)

const (
	DefaultCurrency = "USD"
)

const (
	// Summary conversion defaults. The static rate matches the long-standing
	// spreadsheet convention of 60 pesos to the dollar.
	DefaultQuoteCurrency       = "PHP"
	DefaultStaticRate          = 60.0
	DefaultCommissionRate      = 0.02
	DefaultRateCacheTTLSeconds = 3600
)
