// Package spc is a statistical-process-control computation engine: control
// chart limits for X-bar/R and I-MR charts, process capability indices, an
// approximate normality estimate, and a Western Electric rule scanner with a
// deterministic severity merge.  Every analysis is a pure function of its
// configuration and data; the engine performs no I/O.
package spc

import (
	"github.com/dkinsey/spc/pkg/capability"
	"github.com/dkinsey/spc/pkg/eventbus"
	"github.com/dkinsey/spc/pkg/limits"
	"github.com/dkinsey/spc/pkg/rules"
	"github.com/dkinsey/spc/pkg/series"
	"github.com/dkinsey/spc/pkg/stat"
)

// Event types published on an injected bus.  The engine itself never logs.
const (
	EventLimitsComputed eventbus.EventType = "limits.computed"
	EventAnomalyFlagged eventbus.EventType = "anomaly.flagged"
	EventAnalysisDone   eventbus.EventType = "analysis.done"
)

// Status classifies one raw data row from the anomalies attributed to it.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Result is the complete output of one analysis run.
type Result struct {
	Limits    limits.Set         `json:"limits"`
	Series    series.Derived     `json:"series"`
	Metrics   capability.Metrics `json:"metrics"`
	Anomalies []rules.Anomaly    `json:"anomalies"`
	Statuses  []Status           `json:"statuses"`
}

// Analyze runs the full computation over raw measurement rows: derive the
// configured chart's series, compute control limits, capability metrics and
// the normality estimate over the flattened population, scan the enabled
// rules, and attribute per-row statuses.  Configuration and data-sufficiency
// errors are returned immediately; zero-variance input is a valid state and
// yields +Inf capability indices instead of an error.
func Analyze(rows [][]float64, c Config) (*Result, error) {
	if errs := c.Validate(); len(errs) > 0 {
		return nil, errs[0]
	}

	var d series.Derived
	var set limits.Set
	switch c.Chart {
	case limits.IMR:
		var err error
		d, err = series.Individuals(rows)
		if err != nil {
			return nil, err
		}
		set, err = limits.FromIndividuals(d)
		if err != nil {
			return nil, err
		}
	default:
		groups, err := series.Form(rows, c.SubgroupSize)
		if err != nil {
			return nil, err
		}
		d = series.FromSubgroups(groups)
		set, err = limits.FromSubgroups(d, c.SubgroupSize)
		if err != nil {
			return nil, err
		}
	}
	c.publish(EventLimitsComputed, set)

	pop := series.Flatten(rows)
	metrics := capability.Compute(pop, c.USL, c.LSL)
	metrics.NormalityP = stat.NormalityP(pop)

	anomalies, err := rules.Scan(d.Primary, set, c.Rules)
	if err != nil {
		return nil, err
	}
	for _, a := range anomalies {
		c.publish(EventAnomalyFlagged, a)
	}

	r := &Result{
		Limits:    set,
		Series:    d,
		Metrics:   metrics,
		Anomalies: anomalies,
		Statuses:  rowStatuses(len(rows), d, anomalies),
	}
	c.publish(EventAnalysisDone, r)
	return r, nil
}

// publish emits a diagnostic event when a bus was injected
func (c Config) publish(t eventbus.EventType, data interface{}) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(eventbus.Event{Type: t, Data: data})
}

// rowStatuses attributes each anomaly back to the raw rows behind its series
// index and keeps the highest status per row.  Rows whose measurements were
// dropped by the chunking policy stay normal.
func rowStatuses(n int, d series.Derived, anomalies []rules.Anomaly) []Status {
	out := make([]Status, n)
	for i := range out {
		out[i] = StatusNormal
	}
	for _, a := range anomalies {
		if a.Index >= len(d.Rows) {
			continue
		}
		st := statusFor(a.Severity)
		for _, row := range d.Rows[a.Index] {
			if row >= 0 && row < n && outranksStatus(st, out[row]) {
				out[row] = st
			}
		}
	}
	return out
}

// statusFor maps a detection severity to a row status.  Info-level patterns
// still mark the row as warning: a detected non-random pattern is never a
// normal row.
func statusFor(s rules.Severity) Status {
	switch s {
	case rules.Critical:
		return StatusCritical
	default:
		return StatusWarning
	}
}

func outranksStatus(a, b Status) bool {
	return rank(a) > rank(b)
}

func rank(s Status) int {
	switch s {
	case StatusCritical:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}
