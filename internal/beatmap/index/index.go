// Package index builds the fingerprint-to-locator mapping for a
// directory of level files and level archives.
package index

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/okian/senstune/internal/beatmap"
	"github.com/okian/senstune/pkg/logger"
	"github.com/okian/senstune/pkg/metrics"
)

// File suffixes recognized by the scan.
const (
	levelSuffix   = ".osu"
	archiveSuffix = ".osz"
)

// Filesystem permissions for the extraction cache.
const (
	cacheDirPermission  = 0o755
	cacheFilePermission = 0o644
)

// Index maps level-content fingerprints to a locator: either the plain
// file path the level was found at, or the cache path an archive member
// was extracted to. The first occurrence of a fingerprint wins; later
// duplicates are ignored.
type Index struct {
	byFingerprint map[string]string
	cacheDir      string
	log           logger.Logger
}

// New creates an empty Index with default configuration.
func New(opts ...Option) *Index {
	i := &Index{
		byFingerprint: make(map[string]string),
		cacheDir:      filepath.Join(os.TempDir(), "senstune-levels"),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.log == nil {
		i.log = logger.Get()
	}
	return i
}

// Build scans dir recursively for level files and archives and records
// a locator for each distinct fingerprint. Unreadable files and corrupt
// archives are reported and skipped; only a missing dir is fatal.
func (i *Index) Build(ctx context.Context, dir string) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrMissingDir, dir)
	}

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			i.log.Warn(ctx, "skipping unreadable entry", logger.String("path", path), logger.Error(err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case levelSuffix:
			i.addFile(ctx, path)
		case archiveSuffix:
			i.addArchive(ctx, path)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("scan levels directory: %w", walkErr)
	}

	i.log.Info(ctx, "level index built",
		logger.String("dir", dir),
		logger.Int("levels", len(i.byFingerprint)),
	)
	return nil
}

// Lookup returns the locator for a fingerprint.
func (i *Index) Lookup(fingerprint string) (string, bool) {
	loc, ok := i.byFingerprint[fingerprint]
	return loc, ok
}

// Size returns the number of distinct fingerprints indexed.
func (i *Index) Size() int {
	return len(i.byFingerprint)
}

// addFile fingerprints a plain level file and records its path.
func (i *Index) addFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		i.log.Warn(ctx, "skipping unreadable level file", logger.String("path", path), logger.Error(err))
		metrics.RecordIndexError()
		return
	}
	i.record(beatmap.Fingerprint(data), path)
}

// addArchive enumerates an archive's level members, extracting each new
// fingerprint to the cache directory. Extraction is idempotent: a cache
// file named by fingerprint is never rewritten.
func (i *Index) addArchive(ctx context.Context, path string) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		i.log.Warn(ctx, "skipping corrupt archive", logger.String("path", path), logger.Error(err))
		metrics.RecordIndexError()
		return
	}
	defer rc.Close()

	for _, member := range rc.File {
		if !strings.EqualFold(filepath.Ext(member.Name), levelSuffix) {
			continue
		}
		data, err := readMember(member)
		if err != nil {
			i.log.Warn(ctx, "skipping corrupt archive member",
				logger.String("archive", path),
				logger.String("member", member.Name),
				logger.Error(err),
			)
			metrics.RecordIndexError()
			continue
		}

		fp := beatmap.Fingerprint(data)
		if _, seen := i.byFingerprint[fp]; seen {
			metrics.RecordDuplicateLevel()
			continue
		}

		cached, err := i.materialize(fp, data)
		if err != nil {
			i.log.Warn(ctx, "failed to cache archive member",
				logger.String("archive", path),
				logger.String("member", member.Name),
				logger.Error(err),
			)
			metrics.RecordIndexError()
			continue
		}
		i.record(fp, cached)
		metrics.RecordArchiveExtraction()
	}
}

// record inserts a fingerprint unless already present (first wins).
func (i *Index) record(fingerprint, locator string) {
	if _, seen := i.byFingerprint[fingerprint]; seen {
		metrics.RecordDuplicateLevel()
		return
	}
	i.byFingerprint[fingerprint] = locator
	metrics.RecordLevelIndexed()
}

// materialize writes data to the fingerprint-named cache file, skipping
// the write when a previous run already produced it.
func (i *Index) materialize(fingerprint string, data []byte) (string, error) {
	if err := os.MkdirAll(i.cacheDir, cacheDirPermission); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	path := filepath.Join(i.cacheDir, fingerprint+levelSuffix)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.WriteFile(path, data, cacheFilePermission); err != nil {
		return "", fmt.Errorf("write cache file: %w", err)
	}
	return path, nil
}

func readMember(member *zip.File) ([]byte, error) {
	r, err := member.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
