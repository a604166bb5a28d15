package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
)

// Orientations returns the orientation set used for template matching, in
// degrees.
//
// Drawing symbols are conventionally placed at right angles, so the set is
// fixed at {0, 90, 180, 270}. Callers wanting finer angular steps should
// parameterize this set; the rest of the pipeline is angle-agnostic.
func Orientations() []int {
	return []int{0, 90, 180, 270}
}

// RotateTemplate rotates a template image by the given angle in degrees.
//
// The angle must be one of Orientations(). Rotation is an affine transform
// about the template's center, re-sampled onto a canvas sized to exactly
// contain the rotated corners:
//
//	newW = h*|sin| + w*|cos|
//	newH = h*|cos| + w*|sin|
//
// For 90 and 270 degrees this swaps width and height; for 180 degrees the
// dimensions are unchanged. An angle of 0 returns an untouched copy of the
// input.
//
// A zero-sized template is rejected: there is nothing to rotate and a later
// correlation scan against it would be meaningless.
func RotateTemplate(img image.Image, angle int) (image.Image, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("cannot rotate zero-sized template (%dx%d)", bounds.Dx(), bounds.Dy())
	}

	switch angle {
	case 0:
		return imaging.Clone(img), nil
	case 90, 180, 270:
		return transform.Rotate(img, float64(angle), &transform.RotationOptions{
			ResizeBounds: true,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported rotation angle %d: must be one of 0, 90, 180, 270", angle)
	}
}

// RotateResult contains a rotated template encoded as base64 PNG.
type RotateResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Angle       int    `json:"angle"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RotatePreview rotates a template and returns the result as base64 PNG,
// for inspecting what footprint each orientation of a symbol will present
// to the scanner.
func RotatePreview(img image.Image, angle int) (*RotateResult, error) {
	rotated, err := RotateTemplate(img, angle)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, rotated); err != nil {
		return nil, fmt.Errorf("failed to encode rotated template: %w", err)
	}

	return &RotateResult{
		Width:       rotated.Bounds().Dx(),
		Height:      rotated.Bounds().Dy(),
		Angle:       angle,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// RotatedSize reports the template footprint after rotating a w x h template
// by the given angle, without performing the rotation.
//
// This lets the scanner reject an orientation whose footprint exceeds the
// target image before paying for the rotation itself.
func RotatedSize(w, h, angle int) (newW, newH int) {
	switch angle {
	case 90, 270:
		return h, w
	default:
		return w, h
	}
}
