package cluster

import "gonum.org/v1/gonum/floats"

// Groups turns labels into member index lists, dropping labels with no
// members. Groups are ordered by their earliest member index.
func Groups(labels []int) [][]int {
	var groups [][]int
	slot := map[int]int{}
	for i, label := range labels {
		g, ok := slot[label]
		if !ok {
			g = len(groups)
			slot[label] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

// Mean returns the component-wise average of points.
func Mean(points [][]float64) []float64 {
	if len(points) == 0 {
		return nil
	}
	sum := make([]float64, len(points[0]))
	for _, p := range points {
		floats.Add(sum, p)
	}
	floats.Scale(1/float64(len(points)), sum)
	return sum
}

// CosineDistance is 1 - cos(a, b). A zero vector is treated as maximally distant.
func CosineDistance(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - floats.Dot(a, b)/(na*nb)
}

// Representative returns the index of the member closest to centroid by
// cosine distance; ties go to the earliest member.
func Representative(members [][]float64, centroid []float64) int {
	best := -1
	bestDist := 0.0
	for i, m := range members {
		d := CosineDistance(m, centroid)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// ToFloat64 widens an embedding for clustering math.
func ToFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// ToFloat32 narrows a centroid back to the embedding representation.
func ToFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
