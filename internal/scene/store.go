package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// snapshotPrefix is the filename prefix for persisted snapshot files.
const snapshotPrefix = "scenetest-snapshot-"

func snapshotPath(target string, ts int64) string {
	safe := strings.ReplaceAll(target, "/", "_")
	safe = strings.ReplaceAll(safe, " ", "_")
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s%s-%d.json", snapshotPrefix, safe, ts))
}

// SaveSnapshot writes a snapshot to the temp dir for later diffing and
// returns the file path.
func SaveSnapshot(target string, s *SceneSnapshot) (string, error) {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return "", err
	}
	path := snapshotPath(target, s.Timestamp)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a previously saved snapshot file.
func LoadSnapshot(path string) (*SceneSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return UnmarshalSnapshot(data)
}

// LatestSnapshot returns the most recently saved snapshot path for a
// target, or "" when none exists.
func LatestSnapshot(target string) string {
	safe := strings.ReplaceAll(target, "/", "_")
	safe = strings.ReplaceAll(safe, " ", "_")
	prefix := snapshotPrefix + safe + "-"

	entries, err := os.ReadDir(os.TempDir())
	if err != nil {
		return ""
	}
	var latest string
	var latestMod time.Time
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestMod) {
			latestMod = info.ModTime()
			latest = filepath.Join(os.TempDir(), entry.Name())
		}
	}
	return latest
}

// CleanSnapshots removes persisted snapshots for a target older than maxAge.
func CleanSnapshots(target string, maxAge time.Duration) {
	safe := strings.ReplaceAll(target, "/", "_")
	safe = strings.ReplaceAll(safe, " ", "_")
	prefix := snapshotPrefix + safe + "-"

	entries, err := os.ReadDir(os.TempDir())
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(os.TempDir(), entry.Name()))
		}
	}
}
