package config

import "time"

// Application constants - all hardcoded values for the SurveyPrep system
const (
	// Upload Limits
	DefaultMaxUploadBytes = 50 * 1024 * 1024  // per file
	DefaultMaxBatchBytes  = 200 * 1024 * 1024 // per request
	DefaultMaxBatchFiles  = 25

	// Pipeline Defaults
	DefaultRuleSet      = "remove"
	DefaultDownloadName = "cleaned_master_data.csv"
	DefaultMergeWorkers = 4

	// Rate Limiting
	DefaultRateLimitRPS   = 100
	DefaultRateLimitBurst = 50

	// Timeouts
	DefaultRequestTimeout  = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultUploadsDir = "data/uploads"
	DefaultLogsDir    = "logs"

	// Log Settings
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultLogOutput   = "stdout"
	DefaultLogFilePath = "logs/surveyprep.log"

	// Telemetry
	DefaultServiceName = "surveyprep"
)
