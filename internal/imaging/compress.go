package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrImageDecode is returned when the input bytes cannot be decoded as an
// image. It is not retried.
var ErrImageDecode = errors.New("image decode failed")

const (
	startQuality     = 80
	qualityStep      = 20
	minQuality       = 30
	startSizeLimit   = 1024
	minSizeLimit     = 256
	compressRounds   = 4
	thumbnailSize    = 256
	thumbnailQuality = 50

	// ModelByteThreshold is the size above which the gateway re-encodes an
	// upload before sending it to the vision model. ~90KB of JPEG keeps the
	// base64 payload safely inside the model's input budget.
	ModelByteThreshold = 90 * 1024
)

// CompressUnderLimit re-encodes data as JPEG until it fits maxBytes,
// tightening quality and dimensions over a fixed number of rounds. Each
// round feeds on the previous round's output so compression compounds. If
// the rounds are exhausted a small thumbnail is returned regardless of its
// size: the limit is a best-effort target, not a hard guarantee.
func CompressUnderLimit(data []byte, maxBytes int) ([]byte, error) {
	quality := startQuality
	sizeLimit := startSizeLimit
	current := data

	for i := 0; i < compressRounds; i++ {
		out, err := reencode(current, sizeLimit, quality)
		if err != nil {
			return nil, err
		}
		if len(out) <= maxBytes {
			return out, nil
		}
		quality = max(minQuality, quality-qualityStep)
		sizeLimit = max(minSizeLimit, sizeLimit/2)
		current = out
	}

	return reencode(current, thumbnailSize, thumbnailQuality)
}

// FitForModel shrinks an upload that exceeds ModelByteThreshold, stepping
// down progressively, and reports whether the bytes were re-encoded (the
// output is then JPEG regardless of the input format). This is a best-effort
// optimization for the model's input-size constraints: on decode failure the
// original bytes are returned along with the error so the caller can log and
// proceed.
func FitForModel(data []byte) ([]byte, bool, error) {
	if len(data) <= ModelByteThreshold {
		return data, false, nil
	}

	out, err := reencode(data, 1024, 80)
	if err != nil {
		return data, false, err
	}
	if len(out) > ModelByteThreshold {
		if smaller, err := reencode(data, 800, 70); err == nil {
			out = smaller
		}
	}
	return out, true, nil
}

// reencode decodes data, scales it to fit inside a maxSize square without
// enlarging, and encodes it as JPEG at the given quality.
func reencode(data []byte, maxSize, quality int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	bounds := src.Bounds()
	w, h := fitBox(bounds.Dx(), bounds.Dy(), maxSize)

	var img image.Image = src
	if w != bounds.Dx() || h != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}

// fitBox clamps the longer side to maxSize, scaling the shorter side
// proportionally. Images already inside the box keep their dimensions.
func fitBox(w, h, maxSize int) (int, int) {
	if w <= maxSize && h <= maxSize {
		return w, h
	}
	if w > h {
		return maxSize, max(1, h*maxSize/w)
	}
	return max(1, w*maxSize/h), maxSize
}
