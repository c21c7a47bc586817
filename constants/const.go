// Package constants holds the standard control-chart constants used to
// derive limits from averaged ranges.  Values are fixed reference constants
// from the published tables, not computed, so that limit calculations match
// industry SPC software exactly.
package constants

import "fmt"

// MinSubgroup and MaxSubgroup bound the subgroup sizes for which constants
// are tabulated.
const (
	MinSubgroup = 2
	MaxSubgroup = 25
)

// Key selects a single constant from the table.
type Key string

const (
	A2  Key = "A2"
	D3  Key = "D3"
	D4  Key = "D4"
	C4  Key = "c4"
	D2  Key = "d2"
	D3S Key = "d3"
)

// RangeError is returned when constants are requested for a subgroup size
// outside [MinSubgroup, MaxSubgroup].
type RangeError struct {
	N int
}

func (e RangeError) Error() string {
	return fmt.Sprintf("no control chart constants for subgroup size %d, valid sizes are %d-%d", e.N, MinSubgroup, MaxSubgroup)
}

// Set holds all tabulated constants for one subgroup size.  D2 and D3S are
// the range distribution constants written d2 and d3 in the tables.
type Set struct {
	A2  float64
	D3  float64
	D4  float64
	C4  float64
	D2  float64
	D3S float64
}

// table rows are indexed by subgroup size, n=2..25
var table = map[int]Set{
	2:  {A2: 1.880, D3: 0, D4: 3.267, C4: 0.7979, D2: 1.128, D3S: 0.853},
	3:  {A2: 1.023, D3: 0, D4: 2.574, C4: 0.8862, D2: 1.693, D3S: 0.888},
	4:  {A2: 0.729, D3: 0, D4: 2.282, C4: 0.9213, D2: 2.059, D3S: 0.880},
	5:  {A2: 0.577, D3: 0, D4: 2.115, C4: 0.9400, D2: 2.326, D3S: 0.864},
	6:  {A2: 0.483, D3: 0, D4: 2.004, C4: 0.9515, D2: 2.534, D3S: 0.848},
	7:  {A2: 0.419, D3: 0.076, D4: 1.924, C4: 0.9594, D2: 2.704, D3S: 0.833},
	8:  {A2: 0.373, D3: 0.136, D4: 1.864, C4: 0.9650, D2: 2.847, D3S: 0.820},
	9:  {A2: 0.337, D3: 0.184, D4: 1.816, C4: 0.9693, D2: 2.970, D3S: 0.808},
	10: {A2: 0.308, D3: 0.223, D4: 1.777, C4: 0.9727, D2: 3.078, D3S: 0.797},
	11: {A2: 0.285, D3: 0.256, D4: 1.744, C4: 0.9754, D2: 3.173, D3S: 0.787},
	12: {A2: 0.266, D3: 0.283, D4: 1.717, C4: 0.9776, D2: 3.258, D3S: 0.778},
	13: {A2: 0.249, D3: 0.307, D4: 1.693, C4: 0.9794, D2: 3.336, D3S: 0.770},
	14: {A2: 0.235, D3: 0.328, D4: 1.672, C4: 0.9810, D2: 3.407, D3S: 0.763},
	15: {A2: 0.223, D3: 0.347, D4: 1.653, C4: 0.9823, D2: 3.472, D3S: 0.756},
	16: {A2: 0.212, D3: 0.363, D4: 1.637, C4: 0.9835, D2: 3.532, D3S: 0.750},
	17: {A2: 0.203, D3: 0.378, D4: 1.622, C4: 0.9845, D2: 3.588, D3S: 0.744},
	18: {A2: 0.194, D3: 0.391, D4: 1.608, C4: 0.9854, D2: 3.640, D3S: 0.739},
	19: {A2: 0.187, D3: 0.403, D4: 1.597, C4: 0.9862, D2: 3.689, D3S: 0.734},
	20: {A2: 0.180, D3: 0.415, D4: 1.585, C4: 0.9869, D2: 3.735, D3S: 0.729},
	21: {A2: 0.173, D3: 0.425, D4: 1.575, C4: 0.9876, D2: 3.778, D3S: 0.724},
	22: {A2: 0.167, D3: 0.434, D4: 1.566, C4: 0.9882, D2: 3.819, D3S: 0.720},
	23: {A2: 0.162, D3: 0.443, D4: 1.557, C4: 0.9887, D2: 3.858, D3S: 0.716},
	24: {A2: 0.157, D3: 0.451, D4: 1.548, C4: 0.9892, D2: 3.895, D3S: 0.712},
	25: {A2: 0.153, D3: 0.459, D4: 1.541, C4: 0.9896, D2: 3.931, D3S: 0.708},
}

// LookupAll returns every constant for subgroup size n, or a RangeError when
// n is outside the tabulated range.
func LookupAll(n int) (Set, error) {
	s, ok := table[n]
	if !ok {
		return Set{}, RangeError{N: n}
	}
	return s, nil
}

// Lookup returns a single constant for subgroup size n.
func Lookup(n int, key Key) (float64, error) {
	s, err := LookupAll(n)
	if err != nil {
		return 0, err
	}
	switch key {
	case A2:
		return s.A2, nil
	case D3:
		return s.D3, nil
	case D4:
		return s.D4, nil
	case C4:
		return s.C4, nil
	case D2:
		return s.D2, nil
	case D3S:
		return s.D3S, nil
	default:
		return 0, fmt.Errorf("unknown control chart constant: %s", key)
	}
}
