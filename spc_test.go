package spc

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkinsey/spc/pkg/eventbus"
	"github.com/dkinsey/spc/pkg/limits"
	"github.com/dkinsey/spc/pkg/rules"
	"github.com/dkinsey/spc/pkg/series"
)

func TestAnalyzeStableProcess(t *testing.T) {
	rows := [][]float64{
		{10.2, 10.3, 10.1, 10.4, 10.2},
		{10.1, 10.2, 10.3, 10.1, 10.2},
		{10.3, 10.2, 10.4, 10.3, 10.1},
	}
	cfg, errs := NewConfig(USL(11.0), LSL(9.5))
	assert.Empty(t, errs)

	r, err := Analyze(rows, cfg)
	assert.Nil(t, err)

	assert.Equal(t, limits.XbarR, r.Limits.Type)
	assert.InDelta(t, 10.226667, r.Limits.Primary.Center, 1e-5)
	assert.InDelta(t, 0.266667, r.Limits.Variability.Center, 1e-5)
	assert.Len(t, r.Series.Primary, 3)

	assert.Empty(t, r.Anomalies)
	assert.Equal(t, []Status{StatusNormal, StatusNormal, StatusNormal}, r.Statuses)

	assert.Greater(t, r.Metrics.Cp, 1.33)
	assert.Equal(t, 100.0, r.Metrics.PassRate)
	assert.Greater(t, r.Metrics.NormalityP, 0.0)
	assert.LessOrEqual(t, r.Metrics.NormalityP, 1.0)
}

func TestAnalyzeConstantIndividuals(t *testing.T) {
	rows := [][]float64{{10}, {10}, {10}, {10}, {10}}
	cfg, errs := NewConfig(USL(11.0), LSL(9.5), Chart(limits.IMR))
	assert.Empty(t, errs)

	r, err := Analyze(rows, cfg)
	assert.Nil(t, err)

	assert.Equal(t, limits.IMR, r.Limits.Type)
	assert.Equal(t, 10.0, r.Limits.Primary.Center)
	assert.Equal(t, 10.0, r.Limits.Primary.UCL)
	assert.Equal(t, 10.0, r.Limits.Primary.LCL)
	assert.Equal(t, limits.Chart{}, r.Limits.Variability)

	assert.True(t, math.IsInf(r.Metrics.Cp, 1))
	assert.True(t, math.IsInf(r.Metrics.Cpk, 1))
	assert.Equal(t, 0.0, r.Metrics.StdDev)
	assert.Equal(t, 1.0, r.Metrics.NormalityP)

	assert.Empty(t, r.Anomalies)
	for _, s := range r.Statuses {
		assert.Equal(t, StatusNormal, s)
	}
}

func TestAnalyzeSameSideShift(t *testing.T) {
	// nine individuals above their own mean, pulled down by a trailing dip
	var rows [][]float64
	for i := 0; i < 9; i++ {
		rows = append(rows, []float64{10.0})
	}
	for i := 0; i < 3; i++ {
		rows = append(rows, []float64{5.0})
	}
	cfg, errs := NewConfig(USL(25.0), LSL(1.0), Chart(limits.IMR), Rules(2))
	assert.Empty(t, errs)

	r, err := Analyze(rows, cfg)
	assert.Nil(t, err)

	assert.Len(t, r.Anomalies, 1)
	assert.Equal(t, 8, r.Anomalies[0].Index)
	assert.Equal(t, 2, r.Anomalies[0].Rule)
	assert.Equal(t, rules.Warning, r.Anomalies[0].Severity)

	assert.Len(t, r.Statuses, 12)
	for i, s := range r.Statuses {
		if i == 8 {
			assert.Equal(t, StatusWarning, s)
		} else {
			assert.Equal(t, StatusNormal, s)
		}
	}
}

func TestAnalyzeCriticalStatus(t *testing.T) {
	rows := [][]float64{{10}, {10.2}, {9.9}, {10.1}, {10}, {10.2}, {9.9}, {20}}
	cfg, errs := NewConfig(USL(25.0), LSL(1.0), Chart(limits.IMR), Rules(1))
	assert.Empty(t, errs)

	r, err := Analyze(rows, cfg)
	assert.Nil(t, err)

	assert.Len(t, r.Anomalies, 1)
	assert.Equal(t, 7, r.Anomalies[0].Index)
	assert.Equal(t, rules.Critical, r.Anomalies[0].Severity)
	assert.Equal(t, StatusCritical, r.Statuses[7])
	for _, s := range r.Statuses[:7] {
		assert.Equal(t, StatusNormal, s)
	}
}

func TestAnalyzeChunkedRowsAttribution(t *testing.T) {
	// width-1 rows chunked into subgroups of 2; trailing partial dropped
	rows := [][]float64{{10}, {10.2}, {9.9}, {10.1}, {10.3}}
	cfg, errs := NewConfig(USL(11.0), LSL(9.5), SubgroupSize(2))
	assert.Empty(t, errs)

	r, err := Analyze(rows, cfg)
	assert.Nil(t, err)
	assert.Len(t, r.Series.Primary, 2)
	assert.Len(t, r.Statuses, 5)
	// the dropped trailing row stays normal
	assert.Equal(t, StatusNormal, r.Statuses[4])
}

func TestAnalyzeInvalidConfig(t *testing.T) {
	_, err := Analyze([][]float64{{10, 10, 10, 10, 10}}, Config{})
	var ce ConfigError
	assert.True(t, errors.As(err, &ce))
}

func TestAnalyzeInsufficientData(t *testing.T) {
	cfg, errs := NewConfig(USL(11.0), LSL(9.5))
	assert.Empty(t, errs)
	_, err := Analyze([][]float64{{1, 2}}, cfg)
	var ide series.InsufficientDataError
	assert.True(t, errors.As(err, &ide))

	imr, errs := NewConfig(USL(11.0), LSL(9.5), Chart(limits.IMR))
	assert.Empty(t, errs)
	_, err = Analyze([][]float64{{10.0}}, imr)
	assert.True(t, errors.As(err, &ide))
}

func TestAnalyzePublishesEvents(t *testing.T) {
	bus := eventbus.New()
	ch, done := bus.Subscribe()

	var mu sync.Mutex
	var got []eventbus.EventType
	go func() {
		for ev := range ch {
			mu.Lock()
			got = append(got, ev.Type)
			mu.Unlock()
		}
		close(done)
	}()

	rows := [][]float64{{10}, {10.2}, {9.9}, {10.1}, {10}, {10.2}, {9.9}, {20}}
	cfg, errs := NewConfig(USL(25.0), LSL(1.0), Chart(limits.IMR), Rules(1), WithBus(bus))
	assert.Empty(t, errs)

	_, err := Analyze(rows, cfg)
	assert.Nil(t, err)
	assert.Nil(t, bus.Shutdown(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []eventbus.EventType{EventLimitsComputed, EventAnomalyFlagged, EventAnalysisDone}, got)
}
