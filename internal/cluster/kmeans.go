// Package cluster implements seeded k-means over dense vectors together with
// the centroid and representative helpers used to build article groups.
package cluster

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Options tunes a k-means run. Zero fields fall back to DefaultOptions.
type Options struct {
	Seed      int64
	NInit     int
	MaxIter   int
	Tolerance float64
}

// DefaultOptions mirrors the usual k-means settings: 10 restarts, 300 iterations.
func DefaultOptions() Options {
	return Options{Seed: 42, NInit: 10, MaxIter: 300, Tolerance: 1e-6}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.NInit <= 0 {
		o.NInit = def.NInit
	}
	if o.MaxIter <= 0 {
		o.MaxIter = def.MaxIter
	}
	if o.Tolerance <= 0 {
		o.Tolerance = def.Tolerance
	}
	return o
}

// Assignment is the best partition found across all restarts.
type Assignment struct {
	Labels    []int
	Centroids [][]float64
	Inertia   float64
}

// ErrNoPoints is returned when k-means is asked to cluster nothing.
var ErrNoPoints = errors.New("kmeans: no points")

// Clamp bounds the requested cluster count to [1, n].
func Clamp(k, n int) int {
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}
	return k
}

// KMeans assigns every point to one of k groups, minimizing the within-group
// sum of squared Euclidean distances. k is clamped to the number of points.
// Identical inputs and seed always produce the same assignment.
func KMeans(points [][]float64, k int, opts Options) (Assignment, error) {
	n := len(points)
	if n == 0 {
		return Assignment{}, ErrNoPoints
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return Assignment{}, fmt.Errorf("kmeans: point %d has dimension %d, want %d", i, len(p), dim)
		}
	}

	k = Clamp(k, n)
	opts = opts.withDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))

	best := Assignment{Inertia: math.Inf(1)}
	for run := 0; run < opts.NInit; run++ {
		centroids := seedPlusPlus(points, k, rng)
		candidate := lloyd(points, centroids, opts)
		if candidate.Inertia < best.Inertia {
			best = candidate
		}
	}
	return best, nil
}

// seedPlusPlus picks initial centroids with k-means++ weighting.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.Intn(n)]))

	dist := make([]float64, n)
	for i, p := range points {
		dist[i] = sqDist(p, centroids[0])
	}

	for len(centroids) < k {
		next := rng.Intn(n)
		if total := floats.Sum(dist); total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			lastPositive := -1
			next = -1
			for i, d := range dist {
				if d <= 0 {
					continue
				}
				lastPositive = i
				acc += d
				if acc >= target {
					next = i
					break
				}
			}
			if next < 0 {
				next = lastPositive
			}
		}

		c := clone(points[next])
		centroids = append(centroids, c)
		for i, p := range points {
			if d := sqDist(p, c); d < dist[i] {
				dist[i] = d
			}
		}
	}
	return centroids
}

func lloyd(points, centroids [][]float64, opts Options) Assignment {
	labels := make([]int, len(points))
	for iter := 0; iter < opts.MaxIter; iter++ {
		for i, p := range points {
			labels[i] = nearest(p, centroids)
		}

		next := recompute(points, labels, centroids)
		shift := 0.0
		for j := range centroids {
			shift += sqDist(centroids[j], next[j])
		}
		centroids = next
		if shift <= opts.Tolerance {
			break
		}
	}

	inertia := 0.0
	for i, p := range points {
		labels[i] = nearest(p, centroids)
		inertia += sqDist(p, centroids[labels[i]])
	}
	return Assignment{Labels: labels, Centroids: centroids, Inertia: inertia}
}

// recompute averages members per label; a label with no members keeps its
// previous centroid.
func recompute(points [][]float64, labels []int, prev [][]float64) [][]float64 {
	dim := len(points[0])
	sums := make([][]float64, len(prev))
	counts := make([]int, len(prev))
	for j := range sums {
		sums[j] = make([]float64, dim)
	}
	for i, p := range points {
		floats.Add(sums[labels[i]], p)
		counts[labels[i]]++
	}
	for j := range sums {
		if counts[j] == 0 {
			sums[j] = clone(prev[j])
			continue
		}
		floats.Scale(1/float64(counts[j]), sums[j])
	}
	return sums
}

func nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for j, c := range centroids {
		if d := sqDist(p, c); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
