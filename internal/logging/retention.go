package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"pagevision/internal/config"
)

// CleanupOldLogs deletes run logs and event logs in paths.log_dir that have
// not been written for logging.retention_days. The files in keep, normally
// the current session's logs, survive regardless of age. It returns the
// number of files removed; retention_days = 0 disables pruning.
func CleanupOldLogs(logger *slog.Logger, cfg *config.Config, keep ...string) int {
	if logger == nil {
		logger = NewNop()
	}
	if cfg == nil || cfg.Logging.RetentionDays <= 0 {
		return 0
	}
	dir := strings.TrimSpace(cfg.Paths.LogDir)
	if dir == "" {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -cfg.Logging.RetentionDays)

	kept := make([]string, 0, len(keep))
	for _, path := range keep {
		if path = strings.TrimSpace(path); path != "" {
			kept = append(kept, filepath.Clean(path))
		}
	}

	removed := 0
	for _, pattern := range []string{RunLogPattern, EventLogPattern} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		for _, path := range matches {
			if slices.Contains(kept, filepath.Clean(path)) {
				continue
			}
			info, err := os.Stat(path)
			if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
				continue
			}
			if err := os.Remove(path); err != nil {
				WarnWithContext(logger, "old log not removed", "log_retention_failed",
					String("path", path),
					Error(err),
					String(FieldErrorHint, "check ownership of paths.log_dir"),
					String(FieldImpact, "the file stays on disk until the next run"),
				)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		logger.Info("old logs pruned",
			Int("count", removed),
			Int("retention_days", cfg.Logging.RetentionDays),
			String(FieldEventType, "log_pruned"),
		)
	}
	return removed
}
