package imaging

import "bytes"

// MIME types the recognition flow accepts.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEGIF  = "image/gif"
	MIMEWEBP = "image/webp"
)

var allowedMIMEs = map[string]bool{
	MIMEJPEG: true,
	MIMEPNG:  true,
	MIMEGIF:  true,
	MIMEWEBP: true,
}

// IsAllowedMIME reports whether mime is one of the supported upload types.
func IsAllowedMIME(mime string) bool {
	return allowedMIMEs[mime]
}

// DetectMIME sniffs the image type from magic bytes. The declared
// Content-Type of an upload can be absent or wrong, so the byte signature
// wins. Returns "" when the signature is not a supported image type.
func DetectMIME(data []byte) string {
	if len(data) < 12 {
		return ""
	}
	switch {
	case data[0] == 0xFF && data[1] == 0xD8:
		return MIMEJPEG
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47}):
		return MIMEPNG
	case bytes.HasPrefix(data, []byte("GIF")):
		return MIMEGIF
	case bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return MIMEWEBP
	}
	return ""
}
