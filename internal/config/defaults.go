package config

const (
	defaultConfigPath            = "~/.config/wordcore/config.toml"
	databaseFileName             = "wordcore.db"
	defaultDataDir               = "~/.local/share/wordcore"
	defaultLogDir                = "~/.local/share/wordcore/logs"
	defaultBackupDir             = "~/.local/share/wordcore/backups"
	defaultSocketName            = "wordcore.sock"
	defaultBusyTimeoutMS         = 5000
	defaultRetryAttempts         = 3
	defaultRetryInitialBackoffMS = 10
	defaultRetryMaxBackoffMS     = 200
	defaultBackupRetentionDays   = 30
	defaultEase                  = 2.5
	defaultIntervalDays          = 1
	defaultPassEaseBonus         = 0.1
	defaultFailEasePenalty       = 0.2
	defaultMinEase               = 1.3
	defaultMaxEase               = 3.0
	defaultMaxIntervalDays       = 180
	defaultMasteryStreak         = 5
	defaultMasteryEase           = 2.3
	defaultRecentErrorWindowDays = 14
	defaultOverdueWeight         = 1.0
	defaultLapseWeight           = 0.5
	defaultRecentFailWeight      = 1.5
	defaultDailyNewLimit         = 8
	defaultDailyReviewLimit      = 20
	defaultAutoAcceptThreshold   = 0.85
	defaultOCRStrength           = "BALANCED"
	defaultMaxCandidates         = 300
	defaultMaxFileBytes          = 5 << 20
	defaultCorrectionPenalty     = 0.4
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			BackupDir: defaultBackupDir,
		},
		Store: Store{
			BusyTimeoutMS:         defaultBusyTimeoutMS,
			RetryAttempts:         defaultRetryAttempts,
			RetryInitialBackoffMS: defaultRetryInitialBackoffMS,
			RetryMaxBackoffMS:     defaultRetryMaxBackoffMS,
			BackupRetentionDays:   defaultBackupRetentionDays,
		},
		SRS: SRS{
			DefaultEase:         defaultEase,
			DefaultIntervalDays: defaultIntervalDays,
			PassEaseBonus:       defaultPassEaseBonus,
			FailEasePenalty:     defaultFailEasePenalty,
			MinEase:             defaultMinEase,
			MaxEase:             defaultMaxEase,
			MaxIntervalDays:     defaultMaxIntervalDays,
			MasteryStreak:       defaultMasteryStreak,
			MasteryEase:         defaultMasteryEase,
		},
		Planner: Planner{
			RecentErrorWindowDays: defaultRecentErrorWindowDays,
			OverdueWeight:         defaultOverdueWeight,
			LapseWeight:           defaultLapseWeight,
			RecentFailWeight:      defaultRecentFailWeight,
		},
		Policy: Policy{
			DailyNewLimit:                 defaultDailyNewLimit,
			DailyReviewLimit:              defaultDailyReviewLimit,
			CorrectionAutoAcceptThreshold: defaultAutoAcceptThreshold,
			OCRStrength:                   defaultOCRStrength,
		},
		Import: Import{
			MaxCandidates:     defaultMaxCandidates,
			MaxFileBytes:      defaultMaxFileBytes,
			CorrectionPenalty: defaultCorrectionPenalty,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
