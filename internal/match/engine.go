package match

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/ironsheep/symbol-search-mcp/internal/imaging"
)

// orientedScan pairs one orientation's template plane with its rotation tag.
type orientedScan struct {
	rotation int
	plane    [][]float64
}

// Search locates every instance of the template inside the target image
// across the four right-angle orientations and returns the deduplicated,
// confidence-ordered match list.
//
// The four orientation scans are pure functions of (target, oriented
// template, threshold) and run as independent goroutines; their outputs are
// pooled only after all complete, since reduction requires the full pooled
// set for correct confidence ordering. Pooling follows the fixed orientation
// order 0, 90, 180, 270, so results are deterministic regardless of
// goroutine scheduling.
//
// # Errors
//
//   - ErrInvalidInput: threshold outside [0,1] or a zero-sized image.
//   - ErrTemplateTooLarge: the template exceeds the target in either
//     dimension at its declared orientation. A rotated variant that no
//     longer fits is skipped rather than failing the request, so a
//     non-square template equal in size to the target still yields its
//     single possible match.
//   - Context errors if ctx is canceled mid-scan.
//
// Finding nothing is not an error: the result has success=true and
// totalMatches=0.
func Search(ctx context.Context, target, template image.Image, threshold float64, method Method) (*SearchResult, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: confidence threshold must be between 0.0 and 1.0, got %g", ErrInvalidInput, threshold)
	}

	imgW := target.Bounds().Dx()
	imgH := target.Bounds().Dy()
	tmplW := template.Bounds().Dx()
	tmplH := template.Bounds().Dy()

	if imgW <= 0 || imgH <= 0 {
		return nil, fmt.Errorf("%w: target image is empty", ErrInvalidInput)
	}
	if tmplW <= 0 || tmplH <= 0 {
		return nil, fmt.Errorf("%w: template is empty", ErrInvalidInput)
	}
	if tmplW > imgW || tmplH > imgH {
		return nil, fmt.Errorf("%w: template (%dx%d) is larger than image (%dx%d)",
			ErrTemplateTooLarge, tmplW, tmplH, imgW, imgH)
	}

	targetPlane := imaging.GrayPlane(target)

	// Prepare the oriented template planes up front. Orientations whose
	// rotated footprint no longer fits the target contribute no windows
	// and are skipped.
	scans := make([]orientedScan, 0, 4)
	for _, angle := range imaging.Orientations() {
		rotW, rotH := imaging.RotatedSize(tmplW, tmplH, angle)
		if rotW > imgW || rotH > imgH {
			continue
		}
		rotated, err := imaging.RotateTemplate(template, angle)
		if err != nil {
			return nil, fmt.Errorf("%w: rotating template to %d degrees: %v", ErrScanFailure, angle, err)
		}
		scans = append(scans, orientedScan{rotation: angle, plane: imaging.GrayPlane(rotated)})
	}

	results := make([][]Detection, len(scans))
	errs := make([]error, len(scans))

	var wg sync.WaitGroup
	for i, sc := range scans {
		wg.Add(1)
		go func(i int, sc orientedScan) {
			defer wg.Done()
			results[i], errs[i] = Scan(ctx, targetPlane, sc.plane, sc.rotation, threshold, method)
		}(i, sc)
	}
	wg.Wait()

	var pooled []Detection
	for i := range scans {
		if errs[i] != nil {
			return nil, errs[i]
		}
		pooled = append(pooled, results[i]...)
	}

	matches := Reduce(pooled, imgW, imgH)

	return &SearchResult{
		Success:        true,
		Matches:        matches,
		TotalMatches:   len(matches),
		ImageWidth:     imgW,
		ImageHeight:    imgH,
		TemplateWidth:  tmplW,
		TemplateHeight: tmplH,
	}, nil
}

// SearchFiles loads the target and template images from disk and runs
// Search.
//
// Missing or undecodable files are classified as ErrInvalidInput and are
// detected eagerly, before any scanning begins. The cache keeps repeated
// searches against the same page from re-decoding it.
func SearchFiles(ctx context.Context, cache *imaging.ImageCache, imagePath, templatePath string, threshold float64, method Method) (*SearchResult, error) {
	target, err := cache.Load(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	template, err := cache.Load(templatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return Search(ctx, target, template, threshold, method)
}

// IsInputError reports whether err belongs to the request-level error
// taxonomy (as opposed to a context cancellation), which callers use to
// pick an exit code or protocol error class.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrTemplateTooLarge) || errors.Is(err, ErrScanFailure)
}
