package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// audioURLPrefix is where the HTTP server mounts the clip directory.
const audioURLPrefix = "/static/audio/"

// Store persists rendered clips on disk and hands out their serving
// URLs. File names are derived from the clip content, so re-rendering
// the same narrative reuses the file already on disk.
type Store struct {
	dir    string
	maxAge time.Duration
	log    *logrus.Entry
}

// NewStore creates a clip store rooted at dir.
func NewStore(dir string, maxAge time.Duration, log *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &Store{dir: dir, maxAge: maxAge, log: log.WithField("component", "speech")}, nil
}

// Save writes the clip and returns its URL path.
func (s *Store) Save(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty clip")
	}

	name := clipName(data)
	path := filepath.Join(s.dir, name)

	if _, err := os.Stat(path); err == nil {
		return audioURLPrefix + name, nil
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write clip: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("finalize clip: %w", err)
	}

	return audioURLPrefix + name, nil
}

// Open returns the on-disk path for a previously issued clip URL, or an
// error when the URL does not name a stored clip.
func (s *Store) Open(urlPath string) (string, error) {
	name := strings.TrimPrefix(urlPath, audioURLPrefix)
	if name == urlPath || name != filepath.Base(name) || !strings.HasSuffix(name, ".mp3") {
		return "", fmt.Errorf("not a clip URL: %s", urlPath)
	}

	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("clip not found: %w", err)
	}
	return path, nil
}

// Prune deletes clips older than the configured maximum age. A zero max
// age disables pruning.
func (s *Store) Prune() int {
	if s.maxAge <= 0 {
		return 0
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.WithError(err).Warn("prune: read audio dir failed")
		return 0
	}

	cutoff := time.Now().Add(-s.maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".mp3") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}

	if removed > 0 {
		s.log.WithField("removed", removed).Debug("pruned expired clips")
	}
	return removed
}

func clipName(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8]) + ".mp3"
}
