package match

import (
	"context"
	"fmt"
	"math"

	"github.com/ironsheep/symbol-search-mcp/internal/imaging"
)

// scoreEpsilon guards denominator and equality comparisons in score
// computation against floating-point noise.
const scoreEpsilon = 1e-9

// Scan slides one oriented template over every window position of the target
// plane and returns every position whose similarity score meets the
// threshold as a Detection tagged with the given rotation.
//
// No suppression happens here: a true positive intentionally produces a
// cluster of adjacent passing windows around its peak, which the reducer
// collapses later.
//
// Parameters:
//   - ctx: Cancellation is checked between window rows; a canceled context
//     aborts the scan with the context's error.
//   - target: Grayscale intensity plane of the page image.
//   - tmpl: Grayscale intensity plane of the oriented template.
//   - rotation: Orientation tag recorded on each Detection (degrees).
//   - threshold: Minimum final score in [0,1] for a window to be recorded.
//   - method: Similarity score; see Method.
//
// # Errors
//
//   - ErrInvalidInput if the threshold is outside [0,1] or either plane is
//     empty.
//   - ErrTemplateTooLarge if the oriented template exceeds the target in
//     either dimension. This is checked here, per orientation, because a
//     90-degree rotation changes which template dimension is larger.
//
// # Performance
//
// Time complexity is O(targetW × targetH × tmplW × tmplH). Template moments
// are precomputed once; each window is scored in a single pass over the
// template footprint. The scan is a pure function of its inputs and is the
// engine's unit of parallelism.
func Scan(ctx context.Context, target, tmpl [][]float64, rotation int, threshold float64, method Method) ([]Detection, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: confidence threshold must be between 0.0 and 1.0, got %g", ErrInvalidInput, threshold)
	}

	imgW, imgH := imaging.PlaneSize(target)
	tmplW, tmplH := imaging.PlaneSize(tmpl)

	if imgW == 0 || imgH == 0 {
		return nil, fmt.Errorf("%w: target image is empty", ErrInvalidInput)
	}
	if tmplW == 0 || tmplH == 0 {
		return nil, fmt.Errorf("%w: template is empty", ErrInvalidInput)
	}
	if tmplW > imgW || tmplH > imgH {
		return nil, fmt.Errorf("%w: template (%dx%d) is larger than image (%dx%d)",
			ErrTemplateTooLarge, tmplW, tmplH, imgW, imgH)
	}

	// Template moments, computed once for the whole scan.
	n := float64(tmplW * tmplH)
	var sumT, sumTT float64
	for ty := 0; ty < tmplH; ty++ {
		for tx := 0; tx < tmplW; tx++ {
			v := tmpl[ty][tx]
			sumT += v
			sumTT += v * v
		}
	}
	tVar := sumTT - sumT*sumT/n

	var detections []Detection

	for y := 0; y+tmplH <= imgH; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x+tmplW <= imgW; x++ {
			var sumW, sumWW, sumTW float64
			for ty := 0; ty < tmplH; ty++ {
				trow := tmpl[ty]
				wrow := target[y+ty]
				for tx := 0; tx < tmplW; tx++ {
					w := wrow[x+tx]
					sumW += w
					sumWW += w * w
					sumTW += trow[tx] * w
				}
			}

			var score float64
			switch method {
			case MethodNormalizedSquaredDifference:
				score = sqDiffScore(sumTT, sumWW, sumTW)
			default:
				score = correlationScore(n, sumT, tVar, sumW, sumWW, sumTW)
			}

			if score >= threshold {
				detections = append(detections, Detection{
					X:          x,
					Y:          y,
					Width:      tmplW,
					Height:     tmplH,
					Confidence: score,
					Rotation:   rotation,
				})
			}
		}
	}

	return detections, nil
}

// correlationScore computes zero-mean normalized cross-correlation from
// running window sums, clamped to [0, 1].
//
// Flat regions make the denominator vanish. A flat template over a flat
// window of the same intensity is a perfect match (1.0); any other
// zero-variance combination carries no correlation signal and scores 0.
func correlationScore(n, sumT, tVar, sumW, sumWW, sumTW float64) float64 {
	wVar := sumWW - sumW*sumW/n
	denom := tVar * wVar
	if denom <= scoreEpsilon {
		if tVar <= scoreEpsilon && wVar <= scoreEpsilon && math.Abs(sumT-sumW)/n <= scoreEpsilon {
			return 1.0
		}
		return 0.0
	}

	score := (sumTW - sumT*sumW/n) / math.Sqrt(denom)
	return clampScore(score)
}

// sqDiffScore computes normalized squared difference from running window
// sums and inverts it to the higher-is-better convention, clamped to [0, 1].
//
// The raw metric is sum((t-w)^2) / sqrt(sum(t^2) * sum(w^2)), which scores
// lower-is-better; the engine reports 1 - raw so the threshold comparison
// reads the same for both methods. An all-black template over an all-black
// window is an exact match; all-black against anything else scores 0.
func sqDiffScore(sumTT, sumWW, sumTW float64) float64 {
	diff := sumTT + sumWW - 2*sumTW
	denom := math.Sqrt(sumTT * sumWW)
	if denom <= scoreEpsilon {
		if diff <= scoreEpsilon {
			return 1.0
		}
		return 0.0
	}
	return clampScore(1.0 - diff/denom)
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
