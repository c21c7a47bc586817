package spc

import (
	"fmt"

	"github.com/dkinsey/spc/constants"
	"github.com/dkinsey/spc/pkg/eventbus"
	"github.com/dkinsey/spc/pkg/limits"
	"github.com/dkinsey/spc/pkg/rules"
)

// Config describes one analysis run: the specification limits, the chart
// mode, the subgroup size for X-bar/R, and the enabled rule subset.  Every
// analysis is a pure function of its configuration and data; nothing is
// cached between runs.
type Config struct {
	USL          float64
	LSL          float64
	Target       float64
	HasTarget    bool
	SubgroupSize int
	Chart        limits.ChartType
	Rules        []int
	Verbose      bool

	hasUSL bool
	hasLSL bool
	bus    *eventbus.Bus
}

// ConfigOption applies one configuration value.
type ConfigOption func(c *Config) error

// NewConfig builds a validated configuration from functional options.  All
// option and validation errors are collected and returned together so the
// caller can report every problem at once.
func NewConfig(options ...ConfigOption) (Config, []error) {
	c := Config{
		SubgroupSize: 5,
		Chart:        limits.XbarR,
		Rules:        rules.AllRules(),
	}

	var errors []error
	for _, option := range options {
		if err := option(&c); err != nil {
			errors = append(errors, err)
		}
	}
	errors = append(errors, c.Validate()...)

	if len(errors) > 0 {
		return Config{}, errors
	}
	return c, nil
}

// Validate checks the configuration invariants: both specification limits
// present with USL > LSL, subgroup size within the tabulated range, a known
// chart type, and rule ids within 1-8.
func (c Config) Validate() []error {
	var errors []error
	switch {
	case !c.hasUSL || !c.hasLSL:
		errors = append(errors, ConfigError{Field: "usl/lsl", Reason: "both specification limits are required"})
	case c.USL <= c.LSL:
		errors = append(errors, ConfigError{Field: "usl", Reason: fmt.Sprintf("usl %g must be greater than lsl %g", c.USL, c.LSL)})
	}
	if c.SubgroupSize < constants.MinSubgroup || c.SubgroupSize > constants.MaxSubgroup {
		errors = append(errors, ConfigError{Field: "subgroup-size", Reason: fmt.Sprintf("size %d outside valid range %d-%d", c.SubgroupSize, constants.MinSubgroup, constants.MaxSubgroup)})
	}
	switch c.Chart {
	case limits.XbarR, limits.IMR:
	default:
		errors = append(errors, ConfigError{Field: "chart", Reason: fmt.Sprintf("unknown chart type %q", c.Chart)})
	}
	for _, id := range c.Rules {
		if id < rules.MinRule || id > rules.MaxRule {
			errors = append(errors, ConfigError{Field: "rules", Reason: fmt.Sprintf("rule id %d outside valid range %d-%d", id, rules.MinRule, rules.MaxRule)})
		}
	}
	return errors
}

// USL sets the upper specification limit.
func USL(v float64) ConfigOption {
	return func(c *Config) error {
		c.USL = v
		c.hasUSL = true
		return nil
	}
}

// LSL sets the lower specification limit.
func LSL(v float64) ConfigOption {
	return func(c *Config) error {
		c.LSL = v
		c.hasLSL = true
		return nil
	}
}

// Target sets the optional process target value.
func Target(v float64) ConfigOption {
	return func(c *Config) error {
		c.Target = v
		c.HasTarget = true
		return nil
	}
}

// SubgroupSize sets the subgroup size for X-bar/R charts.
func SubgroupSize(n int) ConfigOption {
	return func(c *Config) error {
		c.SubgroupSize = n
		return nil
	}
}

// Chart selects the chart pair, "xbar-r" or "i-mr".
func Chart(t limits.ChartType) ConfigOption {
	return func(c *Config) error {
		c.Chart = t
		return nil
	}
}

// Rules replaces the enabled rule subset.  The default enables all eight.
func Rules(ids ...int) ConfigOption {
	return func(c *Config) error {
		c.Rules = ids
		return nil
	}
}

// Verbose enables diagnostic event printing in the command line client.
func Verbose() ConfigOption {
	return func(c *Config) error {
		c.Verbose = true
		return nil
	}
}

// WithBus injects an event bus for structured diagnostic events.  Without a
// bus the engine emits nothing.
func WithBus(b *eventbus.Bus) ConfigOption {
	return func(c *Config) error {
		c.bus = b
		return nil
	}
}
