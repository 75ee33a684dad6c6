package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"stock-insight/internal/entity"
	"stock-insight/internal/forecast/config"
	"stock-insight/pkg/logger"
	"stock-insight/pkg/telegram"
)

const manifestSuffix = "_nbeats.json"

// artifactRegistry resolves model manifests from the artifact directory.
// Manifests are parsed lazily on first use and the directory listing is
// refreshed by a cron rescan, matching how retrained artifacts are dropped in
// by the training pipeline.
type artifactRegistry struct {
	cfg      *config.Config
	log      *logger.Logger
	notifier telegram.Notifier

	mu     sync.RWMutex
	known  map[string]string // symbol -> manifest path
	loaded map[string]*entity.ModelArtifact
}

// NewArtifactRegistry creates a registry and performs an initial scan.
func NewArtifactRegistry(cfg *config.Config, log *logger.Logger, notifier telegram.Notifier) (ArtifactRegistry, error) {
	r := &artifactRegistry{
		cfg:      cfg,
		log:      log,
		notifier: notifier,
		known:    make(map[string]string),
		loaded:   make(map[string]*entity.ModelArtifact),
	}
	if err := r.Rescan(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

// Rescan refreshes the symbol listing from the artifact directory. Parsed
// artifacts whose manifest disappeared are evicted.
func (r *artifactRegistry) Rescan(ctx context.Context) error {
	entries, err := os.ReadDir(r.cfg.Registry.Dir)
	if err != nil {
		return fmt.Errorf("failed to read artifact directory: %w", err)
	}

	known := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), manifestSuffix) {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSuffix(e.Name(), manifestSuffix))
		known[symbol] = filepath.Join(r.cfg.Registry.Dir, e.Name())
	}

	r.mu.Lock()
	r.known = known
	for symbol := range r.loaded {
		if _, ok := known[symbol]; !ok {
			delete(r.loaded, symbol)
		}
	}
	count := len(known)
	r.mu.Unlock()

	r.log.InfoContext(ctx, "Artifact registry scanned", logger.IntField("models", count))
	return nil
}

// Get resolves the artifact for a symbol, parsing the manifest on first use.
func (r *artifactRegistry) Get(ctx context.Context, symbol string) (*entity.ModelArtifact, error) {
	symbol = strings.ToUpper(symbol)

	r.mu.RLock()
	if artifact, ok := r.loaded[symbol]; ok {
		r.mu.RUnlock()
		return artifact, nil
	}
	path, ok := r.known[symbol]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrModelNotFound
	}

	artifact, err := parseManifest(path, symbol)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to parse model manifest", logger.ErrorField(err), logger.StringField("symbol", symbol))
		if sendErr := r.notifier.SendMessage(telegram.FormatErrorAlertMessage(time.Now(), "model manifest parse failure", err.Error())); sendErr != nil {
			r.log.Warn("Failed to send ops alert", logger.ErrorField(sendErr))
		}
		return nil, fmt.Errorf("failed to parse model manifest for %s: %w", symbol, err)
	}

	r.mu.Lock()
	r.loaded[symbol] = artifact
	r.mu.Unlock()

	r.log.InfoContext(ctx, "Model artifact loaded",
		logger.StringField("symbol", symbol),
		logger.StringField("version", artifact.Version))
	return artifact, nil
}

// Symbols lists all symbols with a manifest, sorted.
func (r *artifactRegistry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.known))
	for s := range r.known {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Loaded lists symbols whose manifest has been parsed, sorted.
func (r *artifactRegistry) Loaded() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.loaded))
	for s := range r.loaded {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func parseManifest(path, symbol string) (*entity.ModelArtifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact entity.ModelArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, err
	}
	if artifact.InputSize <= 0 || artifact.Horizon <= 0 {
		return nil, fmt.Errorf("manifest has invalid input_size or horizon")
	}
	if artifact.Symbol == "" {
		artifact.Symbol = symbol
	}
	artifact.Path = path
	return &artifact, nil
}
