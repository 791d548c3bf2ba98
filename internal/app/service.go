// Package app drives one analysis batch: index the levels, walk the
// replays, and accumulate error samples into per-sensitivity buckets.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/senstune/internal/beatmap"
	"github.com/okian/senstune/internal/beatmap/index"
	"github.com/okian/senstune/internal/domain/analyze"
	"github.com/okian/senstune/internal/domain/match"
	"github.com/okian/senstune/internal/domain/model"
	"github.com/okian/senstune/internal/replay"
	"github.com/okian/senstune/pkg/logger"
	"github.com/okian/senstune/pkg/metrics"
)

// replaySuffix identifies replay files in the replays directory.
const replaySuffix = ".osr"

// Skip reasons used for metrics labels.
const (
	skipNoSensitivity = "no_sensitivity"
	skipMalformed     = "malformed"
	skipWrongMode     = "unsupported_mode"
	skipUnknownLevel  = "unknown_level"
	skipLevelParse    = "level_parse"
	skipNoSamples     = "no_samples"
)

// SensitivityResolver supplies a sensitivity for a replay that carries
// none. Returning false skips the replay. The command layer backs this
// with an interactive prompt.
type SensitivityResolver interface {
	Resolve(ctx context.Context, replayName string) (float64, bool)
}

// Service runs the batch analysis pipeline. The loop is synchronous:
// every replay is loaded and analyzed to completion before the next
// begins, so the level cache and buckets need no locking.
type Service struct {
	levelsDir  string
	replaysDir string
	cacheDir   string
	tolerance  float64
	minJump    float64
	globalSens float64
	resolver   SensitivityResolver

	runID string
	log   logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cacheDir:  filepath.Join(os.TempDir(), "senstune-levels"),
		tolerance: match.DefaultTolerance,
		minJump:   analyze.DefaultMinJumpDistance,
		runID:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	return s
}

// Run executes the batch and returns the accumulated buckets keyed by
// sensitivity. Per-replay failures are reported and skipped; only
// missing directories or an empty batch abort the run. Cancelling ctx
// aborts mid-run and discards the partial accumulation.
func (s *Service) Run(ctx context.Context) (map[float64]*model.SensitivityBucket, error) {
	log := s.log.Named("batch")
	log.Info(ctx, "starting analysis run",
		logger.String("run_id", s.runID),
		logger.String("levels_dir", s.levelsDir),
		logger.String("replays_dir", s.replaysDir),
	)

	idx := index.New(
		index.WithCacheDir(s.cacheDir),
		index.WithLogger(s.log.Named("index")),
	)
	if err := idx.Build(ctx, s.levelsDir); err != nil {
		return nil, err
	}
	if idx.Size() == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLevels, s.levelsDir)
	}

	names, err := s.listReplays()
	if err != nil {
		return nil, err
	}

	analyzer := analyze.New(
		analyze.WithMatcher(match.New(match.WithTolerance(s.tolerance))),
		analyze.WithMinJumpDistance(s.minJump),
	)

	// locator -> parsed level, reused across replays referencing the same fingerprint
	levels := make(map[string]*model.Level)
	buckets := make(map[float64]*model.SensitivityBucket)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run aborted: %w", err)
		}
		s.analyzeOne(ctx, analyzer, idx, levels, buckets, name)
	}

	metrics.UpdateBucketCount(len(buckets))
	if len(buckets) == 0 {
		return nil, ErrNoData
	}
	return buckets, nil
}

// analyzeOne processes a single replay file, merging its samples into
// the matching bucket. All failures downgrade to a logged skip.
func (s *Service) analyzeOne(
	ctx context.Context,
	analyzer *analyze.Analyzer,
	idx *index.Index,
	levels map[string]*model.Level,
	buckets map[float64]*model.SensitivityBucket,
	name string,
) {
	log := s.log.Named("batch")

	sens, ok := s.sensitivityFor(ctx, name)
	if !ok {
		log.Info(ctx, "replay skipped: no sensitivity provided", logger.String("replay", name))
		metrics.RecordReplaySkipped(skipNoSensitivity)
		return
	}

	rep, err := replay.Load(filepath.Join(s.replaysDir, name))
	if err != nil {
		reason := skipMalformed
		if errors.Is(err, replay.ErrUnsupportedMode) {
			reason = skipWrongMode
		}
		log.Warn(ctx, "replay skipped", logger.String("replay", name), logger.Error(err))
		metrics.RecordReplaySkipped(reason)
		return
	}

	locator, found := idx.Lookup(rep.Fingerprint)
	if !found {
		log.Warn(ctx, "replay skipped: level not indexed",
			logger.String("replay", name),
			logger.String("fingerprint", rep.Fingerprint),
		)
		metrics.RecordReplaySkipped(skipUnknownLevel)
		return
	}

	level, cached := levels[locator]
	if !cached {
		level, err = beatmap.ParseFile(locator)
		if err != nil {
			log.Warn(ctx, "replay skipped: level unreadable",
				logger.String("replay", name),
				logger.String("level", locator),
				logger.Error(err),
			)
			metrics.RecordReplaySkipped(skipLevelParse)
			return
		}
		levels[locator] = level
	}

	start := time.Now()
	res := analyzer.Analyze(rep, level)
	metrics.RecordAnalyzeDuration(float64(time.Since(start).Microseconds()) / 1000.0)

	if len(res.Radial) == 0 {
		log.Warn(ctx, "replay skipped: no samples extracted", logger.String("replay", name))
		metrics.RecordReplaySkipped(skipNoSamples)
		return
	}

	bucket := buckets[sens]
	if bucket == nil {
		bucket = &model.SensitivityBucket{Sensitivity: sens}
		buckets[sens] = bucket
	}
	bucket.Merge(res.Radial, res.Bias)

	metrics.RecordReplayAnalyzed()
	metrics.RecordSamples(len(res.Radial), len(res.Bias))
	log.Info(ctx, "replay analyzed",
		logger.String("replay", name),
		logger.Float64("sensitivity", sens),
		logger.Int("targets", len(res.Radial)),
		logger.Int("bias_samples", len(res.Bias)),
	)
}

// sensitivityFor resolves a replay's sensitivity: a global value wins,
// then a "sens<number>" filename tag, then the resolver.
func (s *Service) sensitivityFor(ctx context.Context, name string) (float64, bool) {
	if s.globalSens > 0 {
		return s.globalSens, true
	}
	if sens, ok := replay.SensitivityFromName(name); ok {
		return sens, true
	}
	if s.resolver != nil {
		return s.resolver.Resolve(ctx, name)
	}
	return 0, false
}

// listReplays returns the replay filenames sorted ascending, for
// deterministic batch order.
func (s *Service) listReplays() ([]string, error) {
	entries, err := os.ReadDir(s.replaysDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingReplaysDir, s.replaysDir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), replaySuffix) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoReplays, s.replaysDir)
	}
	sort.Strings(names)
	return names, nil
}
