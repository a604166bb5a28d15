package match

import (
	"math"
	"sort"
)

// maxRawDetections caps the pooled detection set before reduction. A
// pathological low threshold or highly repetitive imagery can otherwise make
// the raw set explode; only the highest-scoring detections are retained and
// the rest are dropped silently. The cap applies to the final
// higher-is-better score, after any squared-difference inversion.
const maxRawDetections = 1000

// clusterDistanceFactor scales a detection's own footprint into the minimum
// center distance required between accepted cluster centers.
const clusterDistanceFactor = 0.8

// maxOverlapRatio is the largest allowed overlap between any two emitted
// matches, measured as intersection area over the smaller box's area.
const maxOverlapRatio = 0.5

// Reduce collapses the pooled per-orientation detections into the final
// ordered Match list.
//
// Two sequential greedy passes run in descending confidence order (ties
// broken by input order, stable):
//
//  1. Distance clustering collapses the blob of near-threshold windows that
//     correlation produces around every true peak: a detection becomes a
//     new cluster center only if it sits at least 0.8 × max(width, height)
//     of its own footprint away from every already-accepted center.
//  2. Overlap suppression resolves collisions between different orientation
//     hypotheses at the same physical location, which the size-sensitive
//     clustering pass does not fully catch: a detection survives only if
//     its overlap ratio against every kept rectangle stays at or below 0.5.
//
// The passes use different metrics (center distance vs. area overlap) and
// are deliberately not merged; collapsing them would silently weaken one
// invariant to satisfy the other.
//
// Survivors become Matches with ids assigned in output order and bounding
// boxes emitted both in pixels and normalized to [0,1] by the target image
// dimensions. An empty input, or an input that entirely fails both passes,
// yields an empty list; that is not an error.
func Reduce(detections []Detection, imgWidth, imgHeight int) []Match {
	ordered := make([]Detection, len(detections))
	copy(ordered, detections)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	if len(ordered) > maxRawDetections {
		ordered = ordered[:maxRawDetections]
	}

	clustered := clusterByDistance(ordered)
	kept := suppressOverlap(clustered)

	matches := make([]Match, 0, len(kept))
	for i, d := range kept {
		matches = append(matches, Match{
			ID:         i,
			Confidence: math.Round(d.Confidence*10000) / 10000,
			BoundingBox: Box{
				X:      float64(d.X) / float64(imgWidth),
				Y:      float64(d.Y) / float64(imgHeight),
				Width:  float64(d.Width) / float64(imgWidth),
				Height: float64(d.Height) / float64(imgHeight),
			},
			PDFCoordinates: Box{
				X:      float64(d.X),
				Y:      float64(d.Y),
				Width:  float64(d.Width),
				Height: float64(d.Height),
			},
			Rotation:   d.Rotation,
			PageNumber: 1,
		})
	}
	return matches
}

// clusterByDistance is the first reduction pass. Input must already be
// ordered by descending confidence; the accepted-centers set is local to
// the call, so no state leaks across requests.
func clusterByDistance(ordered []Detection) []Detection {
	accepted := make([]Detection, 0, len(ordered))

	for _, d := range ordered {
		footprint := d.Width
		if d.Height > footprint {
			footprint = d.Height
		}
		minDist := float64(footprint) * clusterDistanceFactor

		duplicate := false
		for _, a := range accepted {
			dx := float64(d.X - a.X)
			dy := float64(d.Y - a.Y)
			if math.Sqrt(dx*dx+dy*dy) < minDist {
				duplicate = true
				break
			}
		}
		if !duplicate {
			accepted = append(accepted, d)
		}
	}
	return accepted
}

// suppressOverlap is the second reduction pass. Input must already be
// ordered by descending confidence.
func suppressOverlap(ordered []Detection) []Detection {
	kept := make([]Detection, 0, len(ordered))

	for _, d := range ordered {
		overlaps := false
		for _, k := range kept {
			if overlapRatio(d, k) > maxOverlapRatio {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, d)
		}
	}
	return kept
}

// overlapRatio returns the intersection area of two detections divided by
// the smaller detection's area. Right-angle rotations of one template all
// share the same area, so for same-template detections this equals the
// ratio against either box; using the smaller area keeps the bound tight
// when footprints differ.
func overlapRatio(a, b Detection) float64 {
	ix := math.Max(0, math.Min(float64(a.X+a.Width), float64(b.X+b.Width))-math.Max(float64(a.X), float64(b.X)))
	iy := math.Max(0, math.Min(float64(a.Y+a.Height), float64(b.Y+b.Height))-math.Max(float64(a.Y), float64(b.Y)))
	intersection := ix * iy

	areaA := float64(a.Width * a.Height)
	areaB := float64(b.Width * b.Height)
	smaller := math.Min(areaA, areaB)
	if smaller <= 0 {
		return 0
	}
	return intersection / smaller
}
