package services

import (
	"math"
	"math/rand/v2"
	"sort"
	"trip-planner-service/internal/domain"

	"github.com/rotisserie/eris"
)

const maxKMeansIterations = 100

// ClusterByDay partitions POIs into dayCount geographic buckets with seeded
// k-means on (lon, lat) and writes the bucket index on each stop.
//
// Buckets are relabelled by descending size so bucket 0 is the largest.
// Buckets may be empty when there are fewer distinct locations than days.
// The same input order and seed always yield the same labels.
func ClusterByDay(pois []*domain.Stop, dayCount int, seed uint64) error {
	if dayCount < 1 {
		return eris.Wrapf(domain.ErrInvalidDuration, "cluster by day: got %d", dayCount)
	}
	n := len(pois)
	if n == 0 {
		return nil
	}

	points := make([][2]float64, n)
	for i, p := range pois {
		points[i] = [2]float64{p.Coordinates.Lon, p.Coordinates.Lat}
	}

	var assign []int
	if n <= dayCount {
		assign = make([]int, n)
		for i := range assign {
			assign[i] = i
		}
	} else {
		assign = kmeans(points, dayCount, seed)
	}

	labels := relabelBySize(assign, dayCount)
	for i, p := range pois {
		p.Cluster = labels[assign[i]]
	}
	return nil
}

func kmeans(points [][2]float64, k int, seed uint64) []int {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	centroids := seedCentroids(points, k, rng)

	assign := make([]int, len(points))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if best != assign[i] {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([][2]float64, k)
		counts := make([]int, k)
		for i, p := range points {
			c := assign[i]
			sums[c][0] += p[0]
			sums[c][1] += p[1]
			counts[c]++
		}
		for c := range centroids {
			// an emptied cluster keeps its previous centroid
			if counts[c] == 0 {
				continue
			}
			centroids[c] = [2]float64{sums[c][0] / float64(counts[c]), sums[c][1] / float64(counts[c])}
		}
	}
	return assign
}

// seedCentroids is k-means++: each new centroid is drawn with probability
// proportional to its squared distance from the closest chosen one.
func seedCentroids(points [][2]float64, k int, rng *rand.Rand) [][2]float64 {
	centroids := make([][2]float64, 0, k)
	centroids = append(centroids, points[rng.IntN(len(points))])

	d2 := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				d = math.Min(d, sqDist(p, c))
			}
			d2[i] = d
			total += d
		}

		if total == 0 {
			centroids = append(centroids, points[rng.IntN(len(points))])
			continue
		}

		target := rng.Float64() * total
		pick := len(points) - 1
		acc := 0.0
		for i, d := range d2 {
			acc += d
			if acc >= target && d > 0 {
				pick = i
				break
			}
		}
		centroids = append(centroids, points[pick])
	}
	return centroids
}

func nearestCentroid(p [2]float64, centroids [][2]float64) int {
	best := 0
	bestD := math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func sqDist(a, b [2]float64) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx + dy*dy
}

// relabelBySize maps raw cluster ids to ids ordered by descending member
// count, ties broken by the earliest member.
func relabelBySize(assign []int, k int) []int {
	type bucket struct {
		raw   int
		size  int
		first int
	}
	buckets := make([]bucket, k)
	for c := range buckets {
		buckets[c] = bucket{raw: c, first: math.MaxInt}
	}
	for i, c := range assign {
		buckets[c].size++
		if i < buckets[c].first {
			buckets[c].first = i
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].size != buckets[j].size {
			return buckets[i].size > buckets[j].size
		}
		return buckets[i].first < buckets[j].first
	})

	labels := make([]int, k)
	for newID, b := range buckets {
		labels[b.raw] = newID
	}
	return labels
}
