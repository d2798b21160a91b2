package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"coin-dca/internal/model"
	"coin-dca/internal/sim"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load plan parameters from a separate YAML (e.g. examples/plans/*.yaml).
	// If both PlanFile and Plan are provided, Plan overrides PlanFile.
	PlanFile string     `yaml:"plan_file"`
	Plan     PlanConfig `yaml:"plan"`
}

// PlanConfig describes one contribution plan.
type PlanConfig struct {
	Name         string  `yaml:"name"`
	CoinID       string  `yaml:"coin_id"`
	VsCurrency   string  `yaml:"vs_currency"`
	Contribution float64 `yaml:"contribution"`
	Cadence      string  `yaml:"cadence"`
	StartDate    string  `yaml:"start_date"` // YYYY-MM-DD
	EndDate      string  `yaml:"end_date"`   // YYYY-MM-DD
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	// If vs_currency is not provided, default it to usd. This keeps plan
	// files concise; almost every plan is denominated in dollars.
	if c.Plan.VsCurrency == "" {
		c.Plan.VsCurrency = "usd"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If plan_file is set, load it and merge in any explicit overrides from c.Plan.
	if c.PlanFile != "" {
		planPath := c.PlanFile
		if !filepath.IsAbs(planPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), planPath)
			if _, err := os.Stat(cand); err == nil {
				planPath = cand
			}
		}
		loaded, err := loadPlanFile(planPath)
		if err != nil {
			return nil, err
		}
		c.Plan = MergePlan(loaded, c.Plan)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Plan.CoinID == "" {
		return errors.New("plan.coin_id is required")
	}
	if c.Plan.Contribution <= 0 {
		return fmt.Errorf("plan.contribution must be positive, got %v", c.Plan.Contribution)
	}
	if _, err := sim.ParseCadence(c.Plan.Cadence); err != nil {
		return fmt.Errorf("plan config invalid: %w", err)
	}
	if c.Plan.StartDate != "" || c.Plan.EndDate != "" {
		if _, _, err := c.Plan.DateRange(); err != nil {
			return fmt.Errorf("plan config invalid: %w", err)
		}
	}
	return nil
}

// ContributionDecimal returns the per-event contribution as a decimal.
func (p PlanConfig) ContributionDecimal() decimal.Decimal {
	return decimal.NewFromFloat(p.Contribution)
}

// ParsedCadence returns the plan's cadence.
func (p PlanConfig) ParsedCadence() (sim.Cadence, error) {
	return sim.ParseCadence(p.Cadence)
}

// DateRange parses the plan's start and end dates (UTC days). Both must be
// present for an explicit range; callers fall back to the fetched series'
// span when the range is empty.
func (p PlanConfig) DateRange() (time.Time, time.Time, error) {
	if p.StartDate == "" || p.EndDate == "" {
		return time.Time{}, time.Time{}, errors.New("start_date and end_date must both be set")
	}
	start, err := time.ParseInLocation(model.DayLayout, p.StartDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date (expected YYYY-MM-DD): %w", err)
	}
	end, err := time.ParseInLocation(model.DayLayout, p.EndDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date (expected YYYY-MM-DD): %w", err)
	}
	return start, end, nil
}

// HasDateRange reports whether the plan pins an explicit date range.
func (p PlanConfig) HasDateRange() bool {
	return p.StartDate != "" && p.EndDate != ""
}

type planFileWrapper struct {
	Plan PlanConfig `yaml:"plan"`
}

func loadPlanFile(path string) (PlanConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return PlanConfig{}, err
	}
	var w planFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return PlanConfig{}, err
	}
	return w.Plan, nil
}

// MergePlan overlays non-zero fields from override onto base.
// This is used when loading a plan file and then applying overrides from the
// enclosing config or an API request.
func MergePlan(base, override PlanConfig) PlanConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CoinID != "" {
		out.CoinID = override.CoinID
	}
	if override.VsCurrency != "" {
		out.VsCurrency = override.VsCurrency
	}
	if override.Contribution != 0 {
		out.Contribution = override.Contribution
	}
	if override.Cadence != "" {
		out.Cadence = override.Cadence
	}
	if override.StartDate != "" {
		out.StartDate = override.StartDate
	}
	if override.EndDate != "" {
		out.EndDate = override.EndDate
	}
	return out
}
