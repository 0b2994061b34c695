package config

// DefaultMaxUploadBytes caps multipart uploads at 32 MiB.
const DefaultMaxUploadBytes = 32 << 20

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/clausewise/data/db/contracts.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/clausewise/data/indices/clauses"
	}
	if cfg.Storage.AuditLogPath == "" {
		cfg.Storage.AuditLogPath = "/usr/local/var/clausewise/data/audit/audit.jsonl"
	}
	if cfg.Analysis.MinSentenceLength == 0 {
		cfg.Analysis.MinSentenceLength = 30
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".pdf", ".docx", ".txt"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
