package vault

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// timestampLayout is the filename-safe timestamp used in backup and audit
// file names, e.g. 20250615_123000
const timestampLayout = "20060102_150405"

// BackupPath returns the timestamped backup destination for a database
// file, placed alongside it:
//
//	/vaults/personal.db -> /vaults/personal.backup.20250615_123000.db
func BackupPath(dbPath string, now time.Time) string {
	base, ext := splitExt(dbPath)
	return fmt.Sprintf("%s.backup.%s%s", base, now.Format(timestampLayout), ext)
}

// AuditPath returns the timestamped audit log path for a database file,
// placed alongside it:
//
//	/vaults/personal.db -> /vaults/personal.audit.20250615_123000.log
func AuditPath(dbPath string, now time.Time) string {
	base, _ := splitExt(dbPath)
	return fmt.Sprintf("%s.audit.%s.log", base, now.Format(timestampLayout))
}

func splitExt(path string) (base, ext string) {
	ext = filepath.Ext(path)
	return strings.TrimSuffix(path, ext), ext
}
