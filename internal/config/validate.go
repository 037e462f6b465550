package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
	"github.com/heartmarshall/ongoing-monitor/internal/matching"
	"github.com/heartmarshall/ongoing-monitor/internal/similarity"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}

	if err := c.Matching.validate(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}

	if err := c.Reconcile.validate(); err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	if c.Reconcile.LockBackend == LockBackendRedis && c.Redis.URL == "" {
		return fmt.Errorf("redis.url is required when reconcile.lock_backend is %q", LockBackendRedis)
	}

	if strings.TrimSpace(c.Template.Name) == "" {
		return fmt.Errorf("template.name must not be empty")
	}

	return nil
}

func (m *MatchingConfig) validate() error {
	if presets := matching.PresetNames(); !slices.Contains(presets, m.Preset) {
		return fmt.Errorf("preset must be one of %v (got %q)", presets, m.Preset)
	}

	thresholds := []struct {
		name  string
		value int
	}{
		{"english_threshold", m.EnglishThreshold},
		{"chinese_threshold", m.ChineseThreshold},
		{"combined_threshold", m.CombinedThreshold},
		{"title_threshold", m.TitleThreshold},
	}
	for _, th := range thresholds {
		if th.value < 0 || th.value > 100 {
			return fmt.Errorf("%s must be within [0, 100] (got %d)", th.name, th.value)
		}
	}

	if _, err := similarity.ParseComparator(m.Comparator); err != nil {
		return err
	}

	if m.Guarantee != GuaranteeExactlyOnce && m.Guarantee != GuaranteeAtLeastOnce {
		return fmt.Errorf("guarantee must be %s or %s (got %q)", GuaranteeExactlyOnce, GuaranteeAtLeastOnce, m.Guarantee)
	}

	if m.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", m.Workers)
	}
	if m.EventLimit < 0 {
		return fmt.Errorf("event_limit must be >= 0 (got %d)", m.EventLimit)
	}

	m.Categories = ParseList(m.CategoriesRaw)
	for _, c := range m.Categories {
		if !domain.Category(c).IsValid() {
			return fmt.Errorf("categories: unknown category %q", c)
		}
	}

	return nil
}

func (r *ReconcileConfig) validate() error {
	if r.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", r.Workers)
	}
	if r.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", r.BatchSize)
	}
	if r.LockBackend != LockBackendLocal && r.LockBackend != LockBackendRedis {
		return fmt.Errorf("lock_backend must be %s or %s (got %q)", LockBackendLocal, LockBackendRedis, r.LockBackend)
	}
	if r.LockTTL <= 0 {
		return fmt.Errorf("lock_ttl must be > 0 (got %v)", r.LockTTL)
	}
	if r.LockRetry <= 0 {
		return fmt.Errorf("lock_retry must be > 0 (got %v)", r.LockRetry)
	}
	return nil
}

// ParseList splits a comma-separated string into trimmed, non-empty items.
// An empty string returns a nil slice.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var items []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
