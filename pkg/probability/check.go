// Package probability implements stochastic gates whose success rate may vary
// with the hour of the day.
package probability

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
)

// Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded, reproducible Source.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Kind tags the variant of a Check.
type Kind int

const (
	// KindNone always succeeds without drawing.
	KindNone Kind = iota
	KindConstant
	KindInterpolated
)

// Point is a probability sample at a given hour of the day.
type Point struct {
	Hour int
	P    float64
}

// Check is a stochastic gate. The zero value is NoProb.
type Check struct {
	kind   Kind
	p      float64
	points []Point
}

// NoProb always succeeds. It is used for purely condition-gated rules.
func NoProb() Check { return Check{kind: KindNone} }

// Constant succeeds with probability p.
func Constant(p float64) Check { return Check{kind: KindConstant, p: p} }

// Interpolated succeeds with a probability linearly interpolated between
// hourly sample points. Hours range over 0..24 inclusive and 24 is its own
// sample point.
func Interpolated(points map[int]float64) Check {
	pts := make([]Point, 0, len(points))
	for h, p := range points {
		pts = append(pts, Point{Hour: h, P: p})
	}
	slices.SortFunc(pts, func(a, b Point) int { return a.Hour - b.Hour })
	return Check{kind: KindInterpolated, points: pts}
}

// Kind returns the variant of c.
func (c Check) Kind() Kind { return c.kind }

// Points returns a copy of the sample points of an interpolated check.
func (c Check) Points() []Point { return slices.Clone(c.points) }

// Probability returns the success probability at the given hour.
// Hours outside the configured range take the value of the nearest sample.
func (c Check) Probability(hour float64) float64 {
	switch c.kind {
	case KindNone:
		return 1
	case KindConstant:
		return c.p
	}

	pts := c.points
	if len(pts) == 0 {
		return 0
	}
	if hour <= float64(pts[0].Hour) {
		return pts[0].P
	}
	last := pts[len(pts)-1]
	if hour >= float64(last.Hour) {
		return last.P
	}

	i := sort.Search(len(pts), func(i int) bool { return float64(pts[i].Hour) >= hour })
	hi := pts[i]
	if float64(hi.Hour) == hour {
		return hi.P
	}
	lo := pts[i-1]
	return lo.P + (hi.P-lo.P)*(hour-float64(lo.Hour))/float64(hi.Hour-lo.Hour)
}

// Sample draws once from r and reports whether the gate opens at hour.
// NoProb never draws.
func (c Check) Sample(r Source, hour float64) bool {
	if c.kind == KindNone {
		return true
	}
	return r.Float64() < c.Probability(hour)
}

func (c Check) String() string {
	switch c.kind {
	case KindNone:
		return "always"
	case KindConstant:
		return fmt.Sprintf("p=%g", c.p)
	default:
		parts := make([]string, len(c.points))
		for i, pt := range c.points {
			parts[i] = fmt.Sprintf("%dh:%g", pt.Hour, pt.P)
		}
		return "p{" + strings.Join(parts, " ") + "}"
	}
}
