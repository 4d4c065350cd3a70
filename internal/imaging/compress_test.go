package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"testing"
)

// noisyJPEG builds a JPEG full of random pixels. Noise compresses badly,
// which keeps the encoded size large enough to exercise the tightening loop.
func noisyJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCompressUnderLimit(t *testing.T) {
	src := noisyJPEG(t, 2000, 1500)
	const limit = 60 * 1024

	if len(src) <= limit {
		t.Fatalf("test image too small to exercise compression: %d bytes", len(src))
	}

	out, err := CompressUnderLimit(src, limit)
	if err != nil {
		t.Fatalf("CompressUnderLimit failed: %v", err)
	}

	if bytes.Equal(out, src) {
		t.Error("compressor returned the untouched original")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a decodable image: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("output format = %s, want jpeg", format)
	}

	// Either the loop converged under the limit, or the forced thumbnail
	// fallback was taken.
	if len(out) > limit && (cfg.Width > thumbnailSize || cfg.Height > thumbnailSize) {
		t.Errorf("output is %d bytes (limit %d) and %dx%d (not a thumbnail)", len(out), limit, cfg.Width, cfg.Height)
	}
}

func TestCompressUnderLimitAlreadySmall(t *testing.T) {
	src := noisyJPEG(t, 64, 64)

	out, err := CompressUnderLimit(src, 1024*1024)
	if err != nil {
		t.Fatalf("CompressUnderLimit failed: %v", err)
	}
	if len(out) > 1024*1024 {
		t.Errorf("output %d bytes exceeds generous limit", len(out))
	}
}

func TestCompressUnderLimitDecodeError(t *testing.T) {
	_, err := CompressUnderLimit([]byte("definitely not an image"), 1024)
	if !errors.Is(err, ErrImageDecode) {
		t.Errorf("err = %v, want ErrImageDecode", err)
	}
}

func TestFitForModel(t *testing.T) {
	t.Run("small input passes through", func(t *testing.T) {
		src := noisyJPEG(t, 64, 64)
		out, reencoded, err := FitForModel(src)
		if err != nil {
			t.Fatalf("FitForModel failed: %v", err)
		}
		if reencoded {
			t.Error("small input must not be reported as re-encoded")
		}
		if !bytes.Equal(out, src) {
			t.Error("small input should be returned untouched")
		}
	})

	t.Run("large input is shrunk", func(t *testing.T) {
		src := noisyJPEG(t, 2400, 1800)
		if len(src) <= ModelByteThreshold {
			t.Skipf("test image unexpectedly small: %d bytes", len(src))
		}
		out, reencoded, err := FitForModel(src)
		if err != nil {
			t.Fatalf("FitForModel failed: %v", err)
		}
		if !reencoded {
			t.Error("shrunk output must be reported as re-encoded")
		}
		if len(out) >= len(src) {
			t.Errorf("output %d bytes not smaller than input %d", len(out), len(src))
		}
		if _, _, err := image.Decode(bytes.NewReader(out)); err != nil {
			t.Errorf("output is not a decodable image: %v", err)
		}
	})

	t.Run("undecodable input falls back to original", func(t *testing.T) {
		src := bytes.Repeat([]byte("x"), ModelByteThreshold+1)
		out, reencoded, err := FitForModel(src)
		if err == nil {
			t.Error("expected a decode error")
		}
		if reencoded {
			t.Error("failed re-encode must not be reported as re-encoded")
		}
		if !bytes.Equal(out, src) {
			t.Error("fallback should return the original bytes")
		}
	})
}

func TestFitBox(t *testing.T) {
	tests := []struct {
		w, h, maxSize int
		wantW, wantH  int
	}{
		{2000, 1000, 1024, 1024, 512},
		{1000, 2000, 1024, 512, 1024},
		{800, 600, 1024, 800, 600},
		{1024, 1024, 1024, 1024, 1024},
		{5000, 10, 256, 256, 1},
	}

	for _, tt := range tests {
		gotW, gotH := fitBox(tt.w, tt.h, tt.maxSize)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("fitBox(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.w, tt.h, tt.maxSize, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}

func TestDetectMIME(t *testing.T) {
	pad := func(b []byte) []byte {
		for len(b) < 16 {
			b = append(b, 0)
		}
		return b
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", pad([]byte{0xFF, 0xD8, 0xFF, 0xE0}), MIMEJPEG},
		{"png", pad([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}), MIMEPNG},
		{"gif", pad([]byte("GIF89a")), MIMEGIF},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), MIMEWEBP},
		{"riff but not webp", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), ""},
		{"text", pad([]byte("hello world, this is text")), ""},
		{"too short", []byte{0xFF, 0xD8}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMIME(tt.data); got != tt.want {
				t.Errorf("DetectMIME = %q, want %q", got, tt.want)
			}
		})
	}
}
