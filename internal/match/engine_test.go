package match

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ironsheep/symbol-search-mcp/internal/imaging"
)

// newPage creates a white page image.
func newPage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

// stampL draws the 50x50 L-shaped test symbol with its top-left corner at
// (ox, oy): a vertical bar joined to a bottom bar. The shape is asymmetric
// under rotation, so only the 0-degree scan finds it at full confidence.
func stampL(img *image.RGBA, ox, oy int) {
	for y := 5; y < 45; y++ {
		for x := 5; x < 15; x++ {
			img.Set(ox+x, oy+y, color.Black)
		}
	}
	for y := 35; y < 45; y++ {
		for x := 5; x < 45; x++ {
			img.Set(ox+x, oy+y, color.Black)
		}
	}
}

// symbolL returns the 50x50 L symbol as a standalone template image.
func symbolL() *image.RGBA {
	tmpl := newPage(50, 50)
	stampL(tmpl, 0, 0)
	return tmpl
}

// stampPlus draws a 40x40 plus-sign symbol, symmetric under 90-degree
// rotation, with its top-left corner at (ox, oy).
func stampPlus(img *image.RGBA, ox, oy int) {
	for y := 0; y < 40; y++ {
		for x := 15; x < 25; x++ {
			img.Set(ox+x, oy+y, color.Black)
		}
	}
	for y := 15; y < 25; y++ {
		for x := 0; x < 40; x++ {
			img.Set(ox+x, oy+y, color.Black)
		}
	}
}

func symbolPlus() *image.RGBA {
	tmpl := newPage(40, 40)
	stampPlus(tmpl, 0, 0)
	return tmpl
}

func TestSearch_SingleSymbol(t *testing.T) {
	page := newPage(1000, 800)
	stampL(page, 100, 100)

	result, err := Search(context.Background(), page, symbolL(), 0.99, MethodNormalizedCorrelation)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if !result.Success {
		t.Fatal("Success: got false, want true")
	}
	if result.TotalMatches != 1 || len(result.Matches) != 1 {
		t.Fatalf("matches: got %d, want exactly 1", len(result.Matches))
	}
	if result.ImageWidth != 1000 || result.ImageHeight != 800 {
		t.Errorf("image dimensions: got %dx%d, want 1000x800", result.ImageWidth, result.ImageHeight)
	}
	if result.TemplateWidth != 50 || result.TemplateHeight != 50 {
		t.Errorf("template dimensions: got %dx%d, want 50x50", result.TemplateWidth, result.TemplateHeight)
	}

	m := result.Matches[0]
	want := Box{X: 100, Y: 100, Width: 50, Height: 50}
	if m.PDFCoordinates != want {
		t.Errorf("PDFCoordinates: got %+v, want %+v", m.PDFCoordinates, want)
	}
	if m.Rotation != 0 {
		t.Errorf("Rotation: got %d, want 0", m.Rotation)
	}
	if m.Confidence < 0.99 {
		t.Errorf("Confidence: got %v, want ~1.0", m.Confidence)
	}
	if m.ID != 0 {
		t.Errorf("ID: got %d, want 0", m.ID)
	}
	if m.PageNumber != 1 {
		t.Errorf("PageNumber: got %d, want 1", m.PageNumber)
	}

	wantNorm := Box{X: 0.1, Y: 0.125, Width: 0.05, Height: 0.0625}
	if m.BoundingBox != wantNorm {
		t.Errorf("BoundingBox: got %+v, want %+v", m.BoundingBox, wantNorm)
	}
}

func TestSearch_TwoSymbols(t *testing.T) {
	page := newPage(1000, 800)
	stampL(page, 100, 100)
	stampL(page, 500, 500)

	result, err := Search(context.Background(), page, symbolL(), 0.99, MethodNormalizedCorrelation)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if result.TotalMatches != 2 {
		t.Fatalf("matches: got %d, want exactly 2", result.TotalMatches)
	}

	locations := map[Box]bool{}
	for _, m := range result.Matches {
		if m.Confidence < 0.99 {
			t.Errorf("match %d confidence: got %v, want ~1.0", m.ID, m.Confidence)
		}
		locations[m.PDFCoordinates] = true
	}
	if !locations[(Box{X: 100, Y: 100, Width: 50, Height: 50})] {
		t.Error("missing match at (100,100)")
	}
	if !locations[(Box{X: 500, Y: 500, Width: 50, Height: 50})] {
		t.Error("missing match at (500,500)")
	}
	if result.Matches[0].ID == result.Matches[1].ID {
		t.Error("matches must have distinct ids")
	}
}

func TestSearch_RotationSymmetricSymbol(t *testing.T) {
	// A plus sign scores ~1.0 in all four orientation scans at the same
	// location; reduction must collapse them to a single match.
	page := newPage(200, 200)
	stampPlus(page, 50, 50)

	result, err := Search(context.Background(), page, symbolPlus(), 0.95, MethodNormalizedCorrelation)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if result.TotalMatches != 1 {
		t.Fatalf("matches: got %d, want exactly 1", result.TotalMatches)
	}
	m := result.Matches[0]
	if m.PDFCoordinates.X != 50 || m.PDFCoordinates.Y != 50 {
		t.Errorf("match at (%v,%v), want (50,50)", m.PDFCoordinates.X, m.PDFCoordinates.Y)
	}
	// The 0-degree scan pools first, so the tie goes to the unrotated
	// hypothesis.
	if m.Rotation != 0 {
		t.Errorf("Rotation: got %d, want 0", m.Rotation)
	}
}

func TestSearch_InvalidThreshold(t *testing.T) {
	page := newPage(100, 100)
	tmpl := newPage(10, 10)

	for _, threshold := range []float64{1.1, -0.1} {
		_, err := Search(context.Background(), page, tmpl, threshold, MethodNormalizedCorrelation)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("threshold %g: got %v, want ErrInvalidInput", threshold, err)
		}
	}
}

func TestSearch_TemplateLargerThanImage(t *testing.T) {
	page := newPage(100, 100)
	tmpl := newPage(200, 200)

	_, err := Search(context.Background(), page, tmpl, 0.7, MethodNormalizedCorrelation)
	if !errors.Is(err, ErrTemplateTooLarge) {
		t.Errorf("got %v, want ErrTemplateTooLarge", err)
	}
}

func TestSearch_TemplateEqualsImage(t *testing.T) {
	// A template the exact size of the target has a single window at the
	// origin.
	tmpl := symbolL()
	page := symbolL()

	result, err := Search(context.Background(), page, tmpl, 0.99, MethodNormalizedCorrelation)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if result.TotalMatches != 1 {
		t.Fatalf("matches: got %d, want 1", result.TotalMatches)
	}
	m := result.Matches[0]
	if m.PDFCoordinates.X != 0 || m.PDFCoordinates.Y != 0 {
		t.Errorf("match at (%v,%v), want origin", m.PDFCoordinates.X, m.PDFCoordinates.Y)
	}
	if m.Confidence < 0.99 {
		t.Errorf("Confidence: got %v, want ~1.0", m.Confidence)
	}
}

func TestSearch_NonSquareTemplateEqualHeight(t *testing.T) {
	// A non-square template whose 90-degree footprint no longer fits must
	// not fail the whole request; the unrotated orientation still scans.
	page := newPage(120, 30)
	for y := 5; y < 25; y++ {
		for x := 10; x < 50; x++ {
			if (x+y)%3 == 0 {
				page.Set(x, y, color.Black)
			}
		}
	}

	tmpl := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			if (x+10+y+5)%3 == 0 {
				tmpl.Set(x, y, color.Black)
			} else {
				tmpl.Set(x, y, color.White)
			}
		}
	}

	result, err := Search(context.Background(), page, tmpl, 0.99, MethodNormalizedCorrelation)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.TotalMatches < 1 {
		t.Fatal("expected at least one match from the unrotated scan")
	}
	if result.Matches[0].PDFCoordinates.X != 10 || result.Matches[0].PDFCoordinates.Y != 5 {
		t.Errorf("match at (%v,%v), want (10,5)",
			result.Matches[0].PDFCoordinates.X, result.Matches[0].PDFCoordinates.Y)
	}
}

func TestSearch_Determinism(t *testing.T) {
	page := newPage(240, 160)
	stampL(page, 30, 30)
	stampL(page, 150, 80)

	first, err := Search(context.Background(), page, symbolL(), 0.8, MethodNormalizedCorrelation)
	if err != nil {
		t.Fatalf("first Search failed: %v", err)
	}
	second, err := Search(context.Background(), page, symbolL(), 0.8, MethodNormalizedCorrelation)
	if err != nil {
		t.Fatalf("second Search failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must produce an identical ordered match list")
	}
}

func TestSearch_MatchInvariants(t *testing.T) {
	page := newPage(300, 200)
	stampL(page, 20, 20)
	stampL(page, 120, 60)
	stampL(page, 220, 120)

	const threshold = 0.7
	result, err := Search(context.Background(), page, symbolL(), threshold, MethodNormalizedCorrelation)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	for i, m := range result.Matches {
		if m.Confidence < threshold {
			t.Errorf("match %d: confidence %v below threshold %v", i, m.Confidence, threshold)
		}
		box := m.PDFCoordinates
		if box.X < 0 || box.Y < 0 || box.X+box.Width > 300 || box.Y+box.Height > 200 {
			t.Errorf("match %d: box %+v outside image bounds", i, box)
		}
		if i > 0 && result.Matches[i-1].Confidence < m.Confidence {
			t.Errorf("matches not ordered by descending confidence at index %d", i)
		}
	}

	// Non-overlap invariant: intersection over the smaller box's area must
	// not exceed 0.5 for any pair.
	for i := 0; i < len(result.Matches); i++ {
		for j := i + 1; j < len(result.Matches); j++ {
			a, b := result.Matches[i].PDFCoordinates, result.Matches[j].PDFCoordinates
			da := Detection{X: int(a.X), Y: int(a.Y), Width: int(a.Width), Height: int(a.Height)}
			db := Detection{X: int(b.X), Y: int(b.Y), Width: int(b.Width), Height: int(b.Height)}
			if ratio := overlapRatio(da, db); ratio > 0.5 {
				t.Errorf("matches %d and %d overlap ratio %f exceeds 0.5", i, j, ratio)
			}
		}
	}
}

func TestSearch_NoMatches(t *testing.T) {
	page := newPage(200, 150)

	result, err := Search(context.Background(), page, symbolL(), 0.99, MethodNormalizedCorrelation)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if !result.Success {
		t.Error("finding nothing is not an error")
	}
	if result.TotalMatches != 0 || len(result.Matches) != 0 {
		t.Errorf("matches: got %d, want 0", result.TotalMatches)
	}
}

func TestSearch_SquaredDifferenceMethod(t *testing.T) {
	page := newPage(200, 150)
	stampL(page, 60, 40)

	result, err := Search(context.Background(), page, symbolL(), 0.9, MethodNormalizedSquaredDifference)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if result.TotalMatches != 1 {
		t.Fatalf("matches: got %d, want 1", result.TotalMatches)
	}
	m := result.Matches[0]
	if m.PDFCoordinates.X != 60 || m.PDFCoordinates.Y != 40 {
		t.Errorf("match at (%v,%v), want (60,40)", m.PDFCoordinates.X, m.PDFCoordinates.Y)
	}
	if m.Confidence < 0.99 {
		t.Errorf("Confidence: got %v, want ~1.0", m.Confidence)
	}
}

func TestSearch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := newPage(200, 150)
	if _, err := Search(ctx, page, symbolL(), 0.9, MethodNormalizedCorrelation); err == nil {
		t.Error("Search should fail on a canceled context")
	}
}

func TestSearch_ZeroSizedTemplate(t *testing.T) {
	page := newPage(100, 100)
	tmpl := image.NewRGBA(image.Rect(0, 0, 0, 0))

	_, err := Search(context.Background(), page, tmpl, 0.7, MethodNormalizedCorrelation)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

func TestSearchFiles(t *testing.T) {
	dir := t.TempDir()
	pagePath := filepath.Join(dir, "page.png")
	tmplPath := filepath.Join(dir, "symbol.png")

	page := newPage(200, 150)
	stampL(page, 60, 40)
	writePNG(t, pagePath, page)
	writePNG(t, tmplPath, symbolL())

	cache := imaging.NewImageCache()
	result, err := SearchFiles(context.Background(), cache, pagePath, tmplPath, 0.99, MethodNormalizedCorrelation)
	if err != nil {
		t.Fatalf("SearchFiles failed: %v", err)
	}

	if result.TotalMatches != 1 {
		t.Fatalf("matches: got %d, want 1", result.TotalMatches)
	}
	if result.Matches[0].PDFCoordinates.X != 60 || result.Matches[0].PDFCoordinates.Y != 40 {
		t.Errorf("match at (%v,%v), want (60,40)",
			result.Matches[0].PDFCoordinates.X, result.Matches[0].PDFCoordinates.Y)
	}
}

func TestSearchFiles_MissingFile(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "symbol.png")
	writePNG(t, tmplPath, symbolL())

	cache := imaging.NewImageCache()

	_, err := SearchFiles(context.Background(), cache, filepath.Join(dir, "missing.png"), tmplPath, 0.7, MethodNormalizedCorrelation)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing image: got %v, want ErrInvalidInput", err)
	}

	pagePath := filepath.Join(dir, "page.png")
	writePNG(t, pagePath, newPage(100, 100))

	_, err = SearchFiles(context.Background(), cache, pagePath, filepath.Join(dir, "missing.png"), 0.7, MethodNormalizedCorrelation)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing template: got %v, want ErrInvalidInput", err)
	}
}

func TestFailureResult(t *testing.T) {
	result := FailureResult(ErrTemplateTooLarge)
	if result.Success {
		t.Error("Success: got true, want false")
	}
	if result.Error == "" {
		t.Error("Error: got empty, want populated")
	}
	if len(result.Matches) != 0 {
		t.Error("Matches must be empty on failure")
	}
}

func TestIsInputError(t *testing.T) {
	for _, err := range []error{ErrInvalidInput, ErrTemplateTooLarge, ErrScanFailure} {
		if !IsInputError(err) {
			t.Errorf("IsInputError(%v): got false, want true", err)
		}
	}
	if IsInputError(context.Canceled) {
		t.Error("IsInputError(context.Canceled): got true, want false")
	}
}
