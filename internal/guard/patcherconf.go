package guard

import (
	"os"
	"strings"
)

const backupSection = "[Backup]"

// VersionPair holds the versions recorded in the patcher config. Either may
// be nil when the key is absent.
type VersionPair struct {
	// Current is the Spotify version the patcher last saw ("version").
	Current *string
	// Target is the version the backup was taken against ("with").
	Target *string
}

// Match reports whether both versions are present and byte-for-byte equal.
func (p VersionPair) Match() bool {
	return p.Current != nil && p.Target != nil && *p.Current == *p.Target
}

// ParseVersions extracts the version pair from the [Backup] section of a
// config-xpui.ini text. Scanning stops at the next section header. A
// version or with line whose value contains another '=' is ignored.
func ParseVersions(text string) VersionPair {
	var pair VersionPair
	inBackup := false

	for line := range strings.Lines(text) {
		trimmed := strings.TrimSpace(line)

		if trimmed == backupSection {
			inBackup = true
			continue
		}
		if !inBackup {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "version"):
			if v, ok := singleValue(line); ok {
				pair.Current = &v
			}
		case strings.HasPrefix(trimmed, "with"):
			if v, ok := singleValue(line); ok {
				pair.Target = &v
			}
		case strings.HasPrefix(trimmed, "["):
			return pair
		}
	}

	return pair
}

// singleValue returns the trimmed text after '=' when the line has exactly one.
func singleValue(line string) (string, bool) {
	parts := strings.Split(line, "=")
	if len(parts) != 2 {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// ReadVersions parses the patcher config file at path.
func ReadVersions(path string) (VersionPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return VersionPair{}, err
	}
	return ParseVersions(string(data)), nil
}

// FormatVersion renders an optional version, "<none>" when absent.
func FormatVersion(v *string) string {
	if v == nil {
		return "<none>"
	}
	return *v
}
