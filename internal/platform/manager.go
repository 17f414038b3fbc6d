package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AlhaqGH/plhub/internal/cache"
)

// ConfirmFunc asks the user a yes/no question. A nil ConfirmFunc means
// non-interactive operation: missing dependencies abort the build.
type ConfirmFunc func(prompt string) bool

// Manager routes (platform, configuration) pairs to builders, wrapping each
// build with dependency validation and the cache's skip decision.
//
// Per build: START -> dependency check -> (missing required? prompt/abort) ->
// cache lookup -> (hit: replay cached result | miss: delegate build) ->
// update cache on success -> RESULT. No retries.
type Manager struct {
	cache     *cache.BuildCache
	history   *cache.History
	runner    Runner
	validator *Validator
	builders  map[Platform]Builder
	confirm   ConfirmFunc
}

// Option customizes a Manager.
type Option func(*Manager)

// WithRunner replaces the subprocess runner (used by tests).
func WithRunner(r Runner) Option {
	return func(m *Manager) {
		m.runner = r
		m.validator = NewValidator(r)
	}
}

// WithConfirm installs an interactive confirmation callback.
func WithConfirm(f ConfirmFunc) Option {
	return func(m *Manager) { m.confirm = f }
}

// WithBuilder registers or replaces the builder for a platform.
func WithBuilder(p Platform, b Builder) Option {
	return func(m *Manager) { m.builders[p] = b }
}

// NewManager creates a Manager with its build cache rooted at cacheDir.
func NewManager(cacheDir string, opts ...Option) (*Manager, error) {
	buildCache, err := cache.New(cacheDir)
	if err != nil {
		return nil, err
	}

	history, err := cache.OpenHistory(buildCache.Dir())
	if err != nil {
		return nil, err
	}

	runner := ExecRunner{}
	m := &Manager{
		cache:     buildCache,
		history:   history,
		runner:    runner,
		validator: NewValidator(runner),
		builders: map[Platform]Builder{
			Android: AndroidBuilder{},
			IOS:     NewIOSBuilder(),
			MacOS:   NewMacOSBuilder(),
			Windows: WindowsBuilder{},
			Web:     WebBuilder{},
		},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Close releases the history database.
func (m *Manager) Close() error {
	return m.history.Close()
}

// Cache exposes the build cache for the clean and stats commands.
func (m *Manager) Cache() *cache.BuildCache {
	return m.cache
}

// History exposes recorded builds.
func (m *Manager) History() *cache.History {
	return m.history
}

// CheckDependencies probes the platform's tool catalog.
func (m *Manager) CheckDependencies(ctx context.Context, p Platform) (bool, []DependencyInfo) {
	return m.validator.Check(ctx, p)
}

// Build executes the orchestrated build for cfg.
func (m *Manager) Build(ctx context.Context, cfg BuildConfig) *BuildResult {
	start := time.Now()

	result := m.build(ctx, cfg)
	result.Duration = time.Since(start)

	rec := cache.Record{
		Key:           cfg.CacheKey(),
		Platform:      string(cfg.Platform),
		Configuration: cfg.Configuration,
		Success:       result.Success,
		Cached:        result.Cached,
		Duration:      result.Duration.Seconds(),
		Artifacts:     result.Artifacts,
	}
	if err := m.history.Append(rec); err != nil {
		log.Warn().Err(err).Msg("failed to record build history")
	}

	return result
}

func (m *Manager) build(ctx context.Context, cfg BuildConfig) *BuildResult {
	builder, ok := m.builders[cfg.Platform]
	if !ok {
		return failure(fmt.Sprintf("no builder registered for platform %s", cfg.Platform))
	}

	satisfied, _ := m.validator.Check(ctx, cfg.Platform)
	if !satisfied && !cfg.Force {
		if m.confirm == nil || !m.confirm("Missing required dependencies. Continue anyway?") {
			return failure("missing required dependencies")
		}
	}

	key := cfg.CacheKey()

	if cfg.Incremental && cfg.EnableCache {
		files, err := builder.SourceFiles(cfg.ProjectDir)
		if err != nil {
			log.Warn().Err(err).Msg("source scan failed, forcing full build")
		} else if changed := m.cache.ChangedFiles(files, key); len(changed) == 0 {
			// Full cache hit: the prior successful build is replayed
			// without invoking the underlying tool.
			log.Info().Str("platform", string(cfg.Platform)).Msg("no changes detected, using cached build")
			return &BuildResult{Success: true, Cached: true}
		} else {
			log.Info().Int("changed", len(changed)).Msg("changes detected, rebuilding")
		}
	}

	result := builder.Execute(ctx, cfg, m.runner)

	if result.Success && cfg.EnableCache {
		files, err := builder.SourceFiles(cfg.ProjectDir)
		if err == nil {
			for _, f := range files {
				if err := m.cache.Update(f, key); err != nil {
					// In-memory cache is now ahead of disk; the next run may
					// rebuild redundantly but will never skip incorrectly.
					log.Warn().Err(err).Msg("failed to persist build cache")
					break
				}
			}
		}
	}

	return result
}

// Run launches the project on a device via the platform builder.
func (m *Manager) Run(ctx context.Context, p Platform, projectDir, device string) error {
	builder, ok := m.builders[p]
	if !ok {
		return fmt.Errorf("no builder registered for platform %s", p)
	}

	return builder.Run(ctx, projectDir, device, m.runner)
}

// Test runs the platform's native test suite.
func (m *Manager) Test(ctx context.Context, p Platform, projectDir string) error {
	builder, ok := m.builders[p]
	if !ok {
		return fmt.Errorf("no builder registered for platform %s", p)
	}

	return builder.Test(ctx, projectDir, m.runner)
}

// Deploy packages the project for the given target.
func (m *Manager) Deploy(ctx context.Context, p Platform, projectDir, target string) error {
	builder, ok := m.builders[p]
	if !ok {
		return fmt.Errorf("no builder registered for platform %s", p)
	}

	return builder.Deploy(ctx, projectDir, target, m.runner)
}

// Devices lists run targets for the platform.
func (m *Manager) Devices(ctx context.Context, p Platform) ([]Device, error) {
	builder, ok := m.builders[p]
	if !ok {
		return nil, fmt.Errorf("no builder registered for platform %s", p)
	}

	return builder.Devices(ctx, m.runner)
}

// ClearCache drops cache entries for one platform/configuration pair, or
// everything when p is empty.
func (m *Manager) ClearCache(p Platform, configuration, optimization string) error {
	if p == "" {
		return m.cache.Clear("")
	}

	cfg := BuildConfig{Platform: p, Configuration: configuration, Optimization: optimization}
	return m.cache.Clear(cfg.CacheKey())
}
