package vision

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/core"
)

const (
	// maxImageWidth is the widest image sent to the API. Device screenshots
	// are commonly 1440px wide; downscaling keeps payloads small without
	// hurting element detection.
	maxImageWidth = 1080

	jpegQuality = 85
)

// OptimizeImage prepares a screenshot for the vision API: decode, downscale
// to at most maxImageWidth, re-encode as JPEG and base64-encode.
func OptimizeImage(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", core.ErrScreenshotFailed.WithCause(
			fmt.Errorf("decode screenshot: %w", err))
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageWidth {
		img = downscale(img, maxImageWidth)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", core.ErrScreenshotFailed.WithCause(
			fmt.Errorf("encode screenshot: %w", err))
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// downscale resizes the image to the given width, preserving aspect ratio.
func downscale(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	height := bounds.Dy() * width / bounds.Dx()

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}
