package probability_test

import (
	"math/rand/v2"
	"testing"

	"github.com/aretw0/infrasim/pkg/probability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fixed is a Source that always returns the same draw.
type fixed float64

func (f fixed) Float64() float64 { return float64(f) }

// counting is a Source that records how many draws were made.
type counting struct{ n int }

func (c *counting) Float64() float64 { c.n++; return 0.5 }

func TestNoProbNeverDraws(t *testing.T) {
	src := &counting{}
	c := probability.NoProb()
	for h := 0; h <= 24; h++ {
		assert.True(t, c.Sample(src, float64(h)))
	}
	assert.Zero(t, src.n)
	assert.Equal(t, probability.NoProb(), probability.Check{}, "zero value is NoProb")
}

func TestConstant(t *testing.T) {
	assert.True(t, probability.Constant(1).Sample(fixed(0.999999), 3))
	assert.False(t, probability.Constant(0).Sample(fixed(0), 3))
	assert.True(t, probability.Constant(0.5).Sample(fixed(0.49), 3))
	assert.False(t, probability.Constant(0.5).Sample(fixed(0.5), 3), "u < p is strict")
}

func TestConstantEventuallyFires(t *testing.T) {
	src := probability.NewSource(7)
	pc := probability.Constant(0.5)
	i := 0
	for i < 30 && !pc.Sample(src, 0) {
		i++
	}
	assert.Less(t, i, 30)
}

func TestInterpolatedExactAndBracketed(t *testing.T) {
	pc := probability.Interpolated(map[int]float64{0: 0.0, 1: 0.0, 24: 1.0})

	assert.Equal(t, 0.0, pc.Probability(0))
	assert.Equal(t, 0.0, pc.Probability(1))
	assert.Equal(t, 1.0, pc.Probability(24), "24 is a distinct sample point, not wrapped to 0")
	assert.InDelta(t, 11.0/23.0, pc.Probability(12), 1e-12)

	src := probability.NewSource(42)
	for range 1000 {
		require.False(t, pc.Sample(src, 0))
		require.False(t, pc.Sample(src, 1))
		require.True(t, pc.Sample(src, 24))
	}
}

func TestInterpolatedConvergence(t *testing.T) {
	pc := probability.Interpolated(map[int]float64{0: 0.0, 1: 0.0, 24: 1.0})
	src := probability.NewSource(2016)

	const trials = 20000
	hits := 0
	for range trials {
		if pc.Sample(src, 12) {
			hits++
		}
	}
	assert.InDelta(t, 0.478, float64(hits)/trials, 0.02)
}

func TestInterpolatedCloudProfile(t *testing.T) {
	runToSlow := probability.Interpolated(map[int]float64{
		0: 0.001, 8: 0.02, 12: 0.07, 14: 0.07, 22: 0.03, 24: 0.001,
	})
	assert.Equal(t, 0.07, runToSlow.Probability(13))
	assert.InDelta(t, 0.02+(0.07-0.02)*2/4, runToSlow.Probability(10), 1e-12)
	assert.InDelta(t, 0.0155, runToSlow.Probability(23), 1e-12)
}

func TestInterpolatedOutOfRangeClamps(t *testing.T) {
	pc := probability.Interpolated(map[int]float64{6: 0.2, 18: 0.8})
	assert.Equal(t, 0.2, pc.Probability(0))
	assert.Equal(t, 0.8, pc.Probability(24))
	assert.Equal(t, 0.0, probability.Interpolated(nil).Probability(5))
}

func TestInterpolatedStaysInUnitInterval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hours := rapid.SliceOfNDistinct(rapid.IntRange(0, 24), 1, 25, rapid.ID[int]).Draw(t, "hours")
		points := make(map[int]float64, len(hours))
		for _, h := range hours {
			points[h] = rapid.Float64Range(0, 1).Draw(t, "p")
		}
		pc := probability.Interpolated(points)
		hour := rapid.Float64Range(0, 24).Draw(t, "hour")

		p := pc.Probability(hour)
		if p < 0 || p > 1 {
			t.Fatalf("probability %v out of [0,1] at hour %v for %v", p, hour, points)
		}
		lo, hi := 1.0, 0.0
		for _, v := range points {
			lo = min(lo, v)
			hi = max(hi, v)
		}
		if p < lo-1e-12 || p > hi+1e-12 {
			t.Fatalf("probability %v escapes the convex hull [%v,%v]", p, lo, hi)
		}
	})
}

func TestSampleMatchesDraw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.Float64Range(0, 1).Draw(t, "p")
		u := rapid.Float64Range(0, 1).Filter(func(v float64) bool { return v < 1 }).Draw(t, "u")
		got := probability.Constant(p).Sample(fixed(u), 0)
		if got != (u < p) {
			t.Fatalf("Sample(u=%v) = %v for p=%v", u, got, p)
		}
	})
}

func TestNewSourceReproducible(t *testing.T) {
	a, b := probability.NewSource(99), probability.NewSource(99)
	for range 100 {
		require.Equal(t, a.Float64(), b.Float64())
	}
	var _ probability.Source = rand.New(rand.NewPCG(1, 2))
}
