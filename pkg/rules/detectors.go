package rules

import "fmt"

// Rule 1: any point strictly beyond a control limit.  Boundary values are
// not violations.
type beyondLimits struct {
	base
	b bounds
}

func (d *beyondLimits) observe(i int, v float64) (*Anomaly, error) {
	switch {
	case v > d.b.ucl:
		if err := d.mark(true); err != nil {
			return nil, err
		}
		return d.record(i, v, fmt.Sprintf("rule 1: value %g above UCL %g", v, d.b.ucl)), nil
	case v < d.b.lcl:
		if err := d.mark(true); err != nil {
			return nil, err
		}
		return d.record(i, v, fmt.Sprintf("rule 1: value %g below LCL %g", v, d.b.lcl)), nil
	default:
		return nil, d.mark(false)
	}
}

// Rule 2: nine consecutive points on the same side of the center line.  The
// run resets to 1 on a side change and to 0 when a point lands exactly on
// the center.  The rule re-fires with an increasing count for every point
// while the run continues.
type sameSideRun struct {
	base
	b    bounds
	side int
	run  int
}

func (d *sameSideRun) observe(i int, v float64) (*Anomaly, error) {
	s := d.b.side(v)
	switch {
	case s == 0:
		d.run = 0
		d.side = 0
	case s == d.side:
		d.run++
	default:
		d.side = s
		d.run = 1
	}
	if d.run < 9 {
		return nil, d.mark(false)
	}
	if err := d.mark(true); err != nil {
		return nil, err
	}
	dir := "above"
	if d.side < 0 {
		dir = "below"
	}
	return d.record(i, v, fmt.Sprintf("rule 2: %d consecutive points %s center %g, value %g", d.run, dir, d.b.center, v)), nil
}

// Rule 3: six consecutive points steadily increasing or decreasing.  A zero
// difference resets the run; a direction change restarts it at 2 since the
// previous and current points begin the new trend.
type trendRun struct {
	base
	prev    float64
	hasPrev bool
	dir     int
	run     int
}

func (d *trendRun) observe(i int, v float64) (*Anomaly, error) {
	if !d.hasPrev {
		d.prev = v
		d.hasPrev = true
		d.run = 1
		return nil, d.mark(false)
	}
	diff := v - d.prev
	d.prev = v
	switch {
	case diff == 0:
		d.dir = 0
		d.run = 1
	case (diff > 0 && d.dir > 0) || (diff < 0 && d.dir < 0):
		d.run++
	case diff > 0:
		d.dir = 1
		d.run = 2
	default:
		d.dir = -1
		d.run = 2
	}
	if d.run < 6 {
		return nil, d.mark(false)
	}
	if err := d.mark(true); err != nil {
		return nil, err
	}
	word := "increasing"
	if d.dir < 0 {
		word = "decreasing"
	}
	return d.record(i, v, fmt.Sprintf("rule 3: %d consecutive %s points, value %g", d.run, word, v)), nil
}

// Rule 4: fourteen consecutive points alternating up and down.  A zero
// difference resets the counter to 1.
type alternatingRun struct {
	base
	prev    float64
	hasPrev bool
	lastDir int
	count   int
}

func (d *alternatingRun) observe(i int, v float64) (*Anomaly, error) {
	if !d.hasPrev {
		d.prev = v
		d.hasPrev = true
		d.count = 1
		return nil, d.mark(false)
	}
	diff := v - d.prev
	d.prev = v
	switch {
	case diff == 0:
		d.lastDir = 0
		d.count = 1
	default:
		s := 1
		if diff < 0 {
			s = -1
		}
		switch {
		case d.lastDir == 0:
			d.count = 2
		case s == -d.lastDir:
			d.count++
		default:
			d.count = 2
		}
		d.lastDir = s
	}
	if d.count < 14 {
		return nil, d.mark(false)
	}
	if err := d.mark(true); err != nil {
		return nil, err
	}
	return d.record(i, v, fmt.Sprintf("rule 4: %d consecutive alternating points, value %g", d.count, v)), nil
}

// Rule 5: two of three consecutive points in zone A on the same side as the
// current point.  Evaluated for every index from position 2 onward over the
// current point and its two predecessors.
type zoneAWindow struct {
	base
	b    bounds
	hist []float64
}

func (d *zoneAWindow) observe(i int, v float64) (*Anomaly, error) {
	var out *Anomaly
	if len(d.hist) >= 2 {
		cs := d.b.side(v)
		if cs != 0 {
			window := append([]float64{v}, d.hist[len(d.hist)-2:]...)
			count := 0
			for _, p := range window {
				dist := d.b.dist(p)
				if d.b.side(p) == cs && dist > 2*d.b.sigma && dist <= 3*d.b.sigma {
					count++
				}
			}
			if count >= 2 {
				dir := "above"
				bound := d.b.center + 2*d.b.sigma
				if cs < 0 {
					dir = "below"
					bound = d.b.center - 2*d.b.sigma
				}
				out = d.record(i, v, fmt.Sprintf("rule 5: %d of 3 points in zone A %s center, beyond boundary %g, value %g", count, dir, bound, v))
			}
		}
	}
	if err := d.mark(out != nil); err != nil {
		return nil, err
	}
	d.hist = append(d.hist, v)
	return out, nil
}

// Rule 6: four of five consecutive points beyond zone C on either side.
// Evaluated for every index from position 4 onward over the current point
// and its four predecessors.
type zoneBWindow struct {
	base
	b    bounds
	hist []float64
}

func (d *zoneBWindow) observe(i int, v float64) (*Anomaly, error) {
	var out *Anomaly
	if len(d.hist) >= 4 {
		window := append([]float64{v}, d.hist[len(d.hist)-4:]...)
		count := 0
		for _, p := range window {
			if d.b.dist(p) > d.b.sigma {
				count++
			}
		}
		if count >= 4 {
			out = d.record(i, v, fmt.Sprintf("rule 6: %d of 5 points beyond 1-sigma boundary %g from center %g, value %g", count, d.b.sigma, d.b.center, v))
		}
	}
	if err := d.mark(out != nil); err != nil {
		return nil, err
	}
	d.hist = append(d.hist, v)
	return out, nil
}

// Rule 7: fifteen consecutive points inside zone C, hugging the center line.
type zoneCRun struct {
	base
	b   bounds
	run int
}

func (d *zoneCRun) observe(i int, v float64) (*Anomaly, error) {
	if d.b.dist(v) <= d.b.sigma {
		d.run++
	} else {
		d.run = 0
	}
	if d.run < 15 {
		return nil, d.mark(false)
	}
	if err := d.mark(true); err != nil {
		return nil, err
	}
	return d.record(i, v, fmt.Sprintf("rule 7: %d consecutive points within 1-sigma %g of center %g, value %g", d.run, d.b.sigma, d.b.center, v)), nil
}

// Rule 8: eight consecutive points beyond zone C on either side, avoiding
// the center line.
type beyondCRun struct {
	base
	b   bounds
	run int
}

func (d *beyondCRun) observe(i int, v float64) (*Anomaly, error) {
	if d.b.dist(v) > d.b.sigma {
		d.run++
	} else {
		d.run = 0
	}
	if d.run < 8 {
		return nil, d.mark(false)
	}
	if err := d.mark(true); err != nil {
		return nil, err
	}
	return d.record(i, v, fmt.Sprintf("rule 8: %d consecutive points beyond 1-sigma %g of center %g, value %g", d.run, d.b.sigma, d.b.center, v)), nil
}
