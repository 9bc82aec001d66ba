package trailmark

import "time"

const (
	// PackageName is the root import path, used to name tracers.
	PackageName = "github.com/trailmark/trailmark"

	// ServiceName identifies the process in traces and logs.
	ServiceName = "trailmark"

	// DestinationsCollection holds destination documents with their
	// embedded reviews.
	DestinationsCollection = "destinations"
	// UsersCollection holds the accounts that reviews refer to.
	UsersCollection = "users"

	DefaultDatabaseName = "trailmark"
	DefaultPort         = 3000
	DefaultLogLevel     = "info"

	// DefaultShutdownWait bounds how long the web service waits for
	// in-flight requests and the database client on shutdown.
	DefaultShutdownWait = 10 * time.Second

	// DefaultConnectTimeout bounds the initial connection and ping to the
	// database.
	DefaultConnectTimeout = 10 * time.Second

	// ReviewsPreviewLimit is the number of reviews returned when a
	// destination's reviews are listed with their authors.
	ReviewsPreviewLimit = 3

	// WelcomeMessage is served from the root route.
	WelcomeMessage = "Welcome to Trip Advisor Backend"
)

// Environment variables read when building settings.
const (
	MongoURIEnvVar      = "MONGODB_URI"
	MongoDBNameEnvVar   = "MONGODB_DB"
	PortEnvVar          = "PORT"
	LogLevelEnvVar      = "TRAILMARK_LOG_LEVEL"
	SettingsFileEnvVar  = "TRAILMARK_SETTINGS"
	DefaultSettingsFile = "trailmark.yml"

	OtelCollectorEndpointEnvVar = "OTEL_COLLECTOR_ENDPOINT"
)

// OtelAttributeMaxLength caps the length of span attribute values.
const OtelAttributeMaxLength = 10000

// BuildRevision is set at link time.
var BuildRevision = ""
