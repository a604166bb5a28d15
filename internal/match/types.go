package match

import "strings"

// Method selects the similarity score computed between the template and each
// target window.
type Method int

const (
	// MethodNormalizedCorrelation scores windows with zero-mean normalized
	// cross-correlation. Invariant to uniform brightness/contrast offsets
	// between template and window; 1.0 is a perfect match.
	MethodNormalizedCorrelation Method = iota

	// MethodNormalizedSquaredDifference scores windows with normalized
	// squared difference, inverted to the same higher-is-better convention
	// (finalScore = 1 - rawScore) before the threshold comparison.
	MethodNormalizedSquaredDifference
)

// String returns the canonical method name used on the wire.
func (m Method) String() string {
	switch m {
	case MethodNormalizedSquaredDifference:
		return "NORMALIZED_SQUARED_DIFFERENCE"
	default:
		return "NORMALIZED_CORRELATION"
	}
}

// ParseMethod maps a method name to a Method.
//
// Besides the canonical names, the OpenCV-style aliases accepted by earlier
// tooling ("TM_CCOEFF_NORMED", "cv2.TM_SQDIFF_NORMED", ...) are recognized
// so existing callers keep working. Unrecognized or empty names fall back to
// normalized correlation.
func ParseMethod(name string) Method {
	switch strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(name)), "CV2.") {
	case "NORMALIZED_SQUARED_DIFFERENCE", "TM_SQDIFF_NORMED", "TM_SQDIFF":
		return MethodNormalizedSquaredDifference
	default:
		return MethodNormalizedCorrelation
	}
}

// Detection is a raw, unfiltered candidate produced by one orientation's
// scan, in target-image pixel coordinates (top-left corner). Detections are
// ephemeral: the reducer consumes them and emits Matches.
type Detection struct {
	X          int     // Window origin, left edge
	Y          int     // Window origin, top edge
	Width      int     // Oriented template footprint width
	Height     int     // Oriented template footprint height
	Confidence float64 // Final higher-is-better score in [0,1]
	Rotation   int     // Orientation of the matching template, degrees
}

// Box is a rectangle expressed as origin plus size. Depending on context the
// units are pixels or coordinates normalized to [0,1] by the target image
// dimensions.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Match is a final, deduplicated result. Immutable once emitted; the match
// list is ordered by descending confidence and ids follow that order.
type Match struct {
	// ID is a stable integer id assigned in output order.
	ID int `json:"id"`

	// Confidence is the match score in [0,1], rounded to 4 decimals.
	Confidence float64 `json:"confidence"`

	// BoundingBox is the match rectangle normalized to [0,1] by the target
	// image width and height.
	BoundingBox Box `json:"boundingBox"`

	// PDFCoordinates is the same rectangle in target-image pixels.
	PDFCoordinates Box `json:"pdfCoordinates"`

	// Rotation is the orientation of the matched template: 0, 90, 180 or
	// 270 degrees.
	Rotation int `json:"rotation"`

	// PageNumber is filled in by the caller after receiving matches; the
	// engine itself is page-agnostic and always emits 1.
	PageNumber int `json:"pageNumber"`
}

// SearchResult is the JSON-serializable response for one search request.
//
// On failure, Success is false, Error is populated, and Matches is empty;
// the engine never returns a partial match list alongside an error.
type SearchResult struct {
	Success        bool    `json:"success"`
	Matches        []Match `json:"matches,omitempty"`
	TotalMatches   int     `json:"totalMatches"`
	ImageWidth     int     `json:"imageWidth,omitempty"`
	ImageHeight    int     `json:"imageHeight,omitempty"`
	TemplateWidth  int     `json:"templateWidth,omitempty"`
	TemplateHeight int     `json:"templateHeight,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// FailureResult wraps an error in the structured failure form of
// SearchResult.
func FailureResult(err error) *SearchResult {
	return &SearchResult{
		Success: false,
		Error:   err.Error(),
	}
}
