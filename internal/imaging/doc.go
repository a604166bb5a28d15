// Package imaging provides the image handling layer for the symbol search
// engine: loading and caching page images, cropping symbol templates out of
// pages, rotating templates through the right-angle orientation set, and
// extracting grayscale intensity planes for correlation scanning.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive
//     (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other operations are
// stateless value transforms over immutable inputs and can be called
// concurrently.
//
// # Grayscale Convention
//
// Intensity planes use ITU-R BT.601 luminance weights
// (0.299*R + 0.587*G + 0.114*B) with samples normalized to [0, 1]. Matching
// on luminance rather than color is deliberate: construction drawings are
// line work, and color carries no useful signal for the correlation score.
package imaging
