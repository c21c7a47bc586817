// Package rules implements the Western Electric pattern detectors run over
// the primary chart series.  Each detector is an isolated state machine
// scanned left to right; detections that land on the same index are merged
// so downstream consumers see at most one record per point.
package rules

import (
	"fmt"
	"math"

	"github.com/dkinsey/spc/pkg/fsm"
	"github.com/dkinsey/spc/pkg/limits"
)

// Severity ranks a detection.  Critical outranks Warning outranks Info.
type Severity int

const (
	Info Severity = iota + 1
	Warning
	Critical
)

func (s Severity) String() string {
	switch s {
	case Critical:
		return "critical"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Anomaly is a single rule detection at one index of the derived series.
type Anomaly struct {
	Index       int      `json:"index"`
	Value       float64  `json:"value"`
	Rule        int      `json:"rule"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// MinRule and MaxRule bound the implemented rule identifiers.
const (
	MinRule = 1
	MaxRule = 8
)

// AllRules returns the full rule set in order.
func AllRules() []int {
	ids := make([]int, 0, MaxRule)
	for i := MinRule; i <= MaxRule; i++ {
		ids = append(ids, i)
	}
	return ids
}

// Detector states.  A detector watches until its pattern condition holds,
// alarms while it holds, and returns to watching when the run or window
// stops qualifying.
const (
	Watching fsm.State = "watching"
	Alarmed  fsm.State = "alarmed"
)

// bounds carries the zone geometry every detector shares.  sigma is the
// one-third distance between the center line and the UCL; zone A is
// (2σ,3σ], zone B (1σ,2σ], zone C [0,1σ].
type bounds struct {
	center float64
	ucl    float64
	lcl    float64
	sigma  float64
}

func (b bounds) dist(v float64) float64 {
	return math.Abs(v - b.center)
}

// side is +1 above center, -1 below, 0 exactly on it
func (b bounds) side(v float64) int {
	switch {
	case v > b.center:
		return 1
	case v < b.center:
		return -1
	default:
		return 0
	}
}

// detector consumes one point at a time and reports a detection at the
// triggering index when its pattern condition holds.
type detector interface {
	id() int
	observe(i int, v float64) (*Anomaly, error)
}

// base carries the identity and alarm state machine shared by detectors.
type base struct {
	rule    int
	sev     Severity
	machine *fsm.Machine
}

func newBase(rule int, sev Severity) (base, error) {
	m, err := fsm.NewMachine(Watching,
		fsm.WithTransitions(Watching, Alarmed),
		fsm.WithTransitions(Alarmed, Watching),
	)
	if err != nil {
		return base{}, fmt.Errorf("failed to create detector FSM for rule %d: %v", rule, err)
	}
	return base{rule: rule, sev: sev, machine: m}, nil
}

func (b *base) id() int {
	return b.rule
}

// mark records whether the pattern condition holds at the current point,
// transitioning the alarm state machine on change.
func (b *base) mark(alarmed bool) error {
	switch {
	case alarmed && b.machine.State() != Alarmed:
		return b.machine.Transition(Alarmed)
	case !alarmed && b.machine.State() != Watching:
		return b.machine.Transition(Watching)
	default:
		return nil
	}
}

// State exposes the alarm state for tests and diagnostics.
func (b *base) State() fsm.State {
	return b.machine.State()
}

func (b *base) record(i int, v float64, desc string) *Anomaly {
	return &Anomaly{
		Index:       i,
		Value:       v,
		Rule:        b.rule,
		Severity:    b.sev,
		Description: desc,
	}
}

// newDetectors builds one detector per enabled rule id, preserving rule
// order.  Unknown ids are rejected.
func newDetectors(b bounds, enabled []int) ([]detector, error) {
	seen := map[int]bool{}
	var out []detector
	for _, id := range enabled {
		if seen[id] {
			continue
		}
		seen[id] = true
		d, err := newDetector(id, b)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func newDetector(id int, b bounds) (detector, error) {
	var sev Severity
	switch id {
	case 1:
		sev = Critical
	case 2, 3, 4, 5, 8:
		sev = Warning
	case 6, 7:
		sev = Info
	default:
		return nil, fmt.Errorf("unknown rule id: %d", id)
	}
	bs, err := newBase(id, sev)
	if err != nil {
		return nil, err
	}
	switch id {
	case 1:
		return &beyondLimits{base: bs, b: b}, nil
	case 2:
		return &sameSideRun{base: bs, b: b}, nil
	case 3:
		return &trendRun{base: bs}, nil
	case 4:
		return &alternatingRun{base: bs}, nil
	case 5:
		return &zoneAWindow{base: bs, b: b}, nil
	case 6:
		return &zoneBWindow{base: bs, b: b}, nil
	case 7:
		return &zoneCRun{base: bs, b: b}, nil
	default:
		return &beyondCRun{base: bs, b: b}, nil
	}
}

// Scan runs every enabled detector over the primary series and returns the
// merged, index-sorted detections.  Detector state is fully isolated, so
// the scans have no data dependency on each other.
func Scan(primary []float64, set limits.Set, enabled []int) ([]Anomaly, error) {
	b := bounds{
		center: set.Primary.Center,
		ucl:    set.Primary.UCL,
		lcl:    set.Primary.LCL,
		sigma:  set.Sigma(),
	}
	detectors, err := newDetectors(b, enabled)
	if err != nil {
		return nil, err
	}

	var all []Anomaly
	for _, d := range detectors {
		for i, v := range primary {
			a, err := d.observe(i, v)
			if err != nil {
				return nil, err
			}
			if a != nil {
				all = append(all, *a)
			}
		}
	}
	return merge(all), nil
}
