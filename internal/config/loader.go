// Package config loads the versioned RuleConfig document that drives name
// classification and warning thresholds.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nutrilog/metacore/internal/classify"
)

// DefaultTTL is how long a fetched config is served before a refresh attempt.
const DefaultTTL = 15 * time.Minute

// Loader fetches a RuleConfig from a file path or HTTP(S) URL, caches it for
// a TTL, and degrades to the last good version or the built-in defaults.
// Config never returns an error: a broken source must not block computation.
type Loader struct {
	source     string
	ttl        time.Duration
	httpClient *http.Client
	log        *zap.Logger

	mu        sync.RWMutex
	cached    classify.RuleConfig
	haveCache bool
	fetchedAt time.Time
}

// NewLoader creates a loader for the given source. An empty source means
// built-in defaults only. A nil logger disables logging.
func NewLoader(source string, ttl time.Duration, log *zap.Logger) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		source: source,
		ttl:    ttl,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Config returns the current rule configuration. Fresh cache is served as-is;
// a stale or missing cache triggers a fetch, and any failure falls back to
// the previously cached version, or the built-in defaults.
func (l *Loader) Config(ctx context.Context) classify.RuleConfig {
	l.mu.RLock()
	if l.haveCache && time.Since(l.fetchedAt) < l.ttl {
		cfg := l.cached
		l.mu.RUnlock()
		return cfg
	}
	l.mu.RUnlock()

	if l.source == "" {
		return classify.DefaultRuleConfig()
	}

	cfg, err := l.fetch(ctx)
	if err != nil {
		l.mu.RLock()
		defer l.mu.RUnlock()
		if l.haveCache {
			l.log.Warn("config fetch failed, serving last good version",
				zap.String("source", l.source),
				zap.String("version", l.cached.Version),
				zap.Error(err))
			return l.cached
		}
		l.log.Warn("config fetch failed, serving built-in defaults",
			zap.String("source", l.source),
			zap.Error(err))
		return classify.DefaultRuleConfig()
	}

	cfg = cfg.Normalized()

	l.mu.Lock()
	l.cached = cfg
	l.haveCache = true
	l.fetchedAt = time.Now()
	l.mu.Unlock()

	l.log.Info("rule config loaded",
		zap.String("source", l.source),
		zap.String("version", cfg.Version))

	return cfg
}

// Classifier builds a classifier from the current config, falling back to
// the built-in patterns if the loaded library fails to compile.
func (l *Loader) Classifier(ctx context.Context) *classify.Classifier {
	cfg := l.Config(ctx)
	c, err := classify.NewClassifier(cfg)
	if err != nil {
		l.log.Warn("loaded pattern library failed to compile, using defaults",
			zap.String("version", cfg.Version),
			zap.Error(err))
		return classify.MustDefault()
	}
	return c
}

func (l *Loader) fetch(ctx context.Context) (classify.RuleConfig, error) {
	var (
		data []byte
		err  error
	)

	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		data, err = l.fetchHTTP(ctx)
	} else {
		data, err = os.ReadFile(l.source)
	}
	if err != nil {
		return classify.RuleConfig{}, err
	}

	var cfg classify.RuleConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return classify.RuleConfig{}, fmt.Errorf("parsing rule config: %w", err)
	}

	return cfg, nil
}

func (l *Loader) fetchHTTP(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("config endpoint returned %d", resp.StatusCode)
	}

	return body, nil
}
