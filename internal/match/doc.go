// Package match implements multi-orientation template matching for symbol
// search in rasterized construction drawings.
//
// Given a large page image and a small template image (a symbol cropped from
// a drawing, such as a door tag or fixture glyph), the engine locates every
// instance of the symbol across unknown position and unknown right-angle
// orientation, and returns a clean, non-overlapping match set under a
// caller-supplied confidence threshold.
//
// # Pipeline
//
// A search runs three stages in sequence:
//
//  1. Template rotation: the template is expanded into four orientation
//     variants (0, 90, 180, 270 degrees), each with its resulting footprint.
//  2. Correlation scanning: each oriented template is slid over every window
//     position of the page; windows whose normalized similarity score meets
//     the threshold become raw detections. The four scans are independent
//     and run concurrently.
//  3. Candidate reduction: the pooled detections are capped, collapsed by
//     center-distance clustering, then filtered by area-overlap suppression
//     to produce the final ordered match list.
//
// A true positive produces a contiguous blob of near-threshold windows
// around its peak, not a single point; the reduction stage exists to
// collapse that blob. Clustering and overlap suppression are kept as two
// distinct passes because they use different metrics (center distance vs.
// area overlap) and catch different duplicate classes: clustering collapses
// peak spread within one orientation, overlap suppression resolves
// collisions between different orientation hypotheses at the same physical
// location.
//
// # Scoring
//
// Two methods are supported, both normalized so 1.0 is a perfect match and
// the threshold comparison "score >= threshold" always means accept:
//
//   - MethodNormalizedCorrelation: zero-mean normalized cross-correlation,
//     invariant to uniform brightness and contrast offsets.
//   - MethodNormalizedSquaredDifference: normalized squared difference,
//     inverted (1 - raw) since the raw metric scores lower-is-better.
//
// # Statelessness
//
// The engine retains no state across requests and performs no I/O after its
// input images are in memory. Scans honor context cancellation between
// window rows, since a scan over a large page is the dominant cost.
package match
