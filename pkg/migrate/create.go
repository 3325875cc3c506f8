package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

// versionClock is swapped in tests.
var versionClock = func() time.Time { return time.Now().UTC() }

// CreateSQLMigration scaffolds a WashDay schema change as a goose SQL file
// named <dir>/<YYYYMMDDHHMMSS>_<name>.sql, e.g. "add pickup window" becomes
// 20260301090000_add_pickup_window.sql.
func CreateSQLMigration(dir string, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("migrations dir is required")
	}
	if name == "" {
		return "", fmt.Errorf("schema change name is required")
	}

	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	version := versionClock().Format("20060102150405")
	filename := fmt.Sprintf("%s_%s.sql", version, safe)
	fullpath := filepath.Join(dir, filename)

	if _, err := os.Stat(fullpath); err == nil {
		return "", fmt.Errorf("migration already exists: %s", fullpath)
	}

	template := fmt.Sprintf(`-- WashDay schema change: %s
-- Must apply on postgres and on the sqlite database used by tests.

-- +goose Up
-- +goose StatementBegin
-- apply %s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- undo %s
-- +goose StatementEnd
`, safe, safe, safe)

	if err := os.WriteFile(fullpath, []byte(template), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}

	return fullpath, nil
}
