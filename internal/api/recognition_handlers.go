package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bauerDev/oda-server/internal/ai"
	"github.com/bauerDev/oda-server/internal/imaging"
	"github.com/bauerDev/oda-server/internal/session"
)

// RecognitionHandler accepts one image upload, validates it, forwards it to
// the vision model and returns the normalized RecognitionResult. On success
// the result and the image (as a data URL) are also written to the caller's
// session so the preview endpoint can render them.
func (app *App) RecognitionHandler(w http.ResponseWriter, r *http.Request) {
	// Slack over the hard cap so an oversized upload is still readable and
	// can be rejected with its actual size.
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize+1024*1024)

	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		// An upload so large it blows past even the slack hits the reader
		// cap mid-parse; that is still a size problem, not a malformed form.
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			app.writeJSON(w, http.StatusRequestEntityTooLarge, apiError{
				Error:      "Image too large",
				Message:    fmt.Sprintf("upload exceeds the %d byte limit", app.MaxUploadSize),
				Suggestion: "Compress the image client-side and try again.",
			})
			return
		}
		app.writeError(w, http.StatusBadRequest, "Failed to parse upload")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		file, _, err = r.FormFile("file")
		if err != nil {
			app.writeError(w, http.StatusBadRequest, "No image file uploaded (field name: image)")
			return
		}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	mimeType := imaging.DetectMIME(data)
	if !imaging.IsAllowedMIME(mimeType) {
		app.writeError(w, http.StatusBadRequest, "Unsupported image type. Use JPG, PNG, WEBP or GIF.")
		return
	}

	// Size gate before anything touches the model: an oversized payload must
	// never cost an upstream call.
	if int64(len(data)) > app.MaxUploadSize {
		app.writeJSON(w, http.StatusRequestEntityTooLarge, apiError{
			Error:      "Image too large",
			Message:    fmt.Sprintf("upload is %d bytes, limit is %d bytes", len(data), app.MaxUploadSize),
			Suggestion: "Compress the image client-side and try again.",
		})
		return
	}

	if app.OpenAIKey == "" {
		app.writeError(w, http.StatusInternalServerError, "Missing OPENAI_API_KEY")
		return
	}

	toSend, reencoded, err := imaging.FitForModel(data)
	if err != nil {
		slog.Warn("server-side resize failed, using original", "err", err)
	}
	if reencoded {
		// Re-encoding always produces JPEG.
		mimeType = imaging.MIMEJPEG
	}

	raw, err := app.Vision.RecognizeArtwork(r.Context(), toSend, mimeType)
	if err != nil {
		app.writeJSON(w, http.StatusBadGateway, apiError{
			Error:      "OpenAI request failed",
			Message:    err.Error(),
			Suggestion: "Check OPENAI_API_KEY and that the model supports vision (e.g. gpt-4o-mini).",
		})
		return
	}

	result, ok := ai.NormalizeRecognition(raw)
	if !ok {
		// No extractable JSON: degrade to the raw text, never a hard failure.
		app.writeJSON(w, http.StatusOK, map[string]string{"raw": raw})
		return
	}

	if result.IsArtwork {
		app.storeHandoff(r, result, toSend, mimeType)
	}

	app.writeJSON(w, http.StatusOK, result)
}

// storeHandoff writes the result and the source image under separate session
// keys. Both writes are best-effort: a quota failure is logged, never
// surfaced, and does not block the response.
func (app *App) storeHandoff(r *http.Request, result *ai.RecognitionResult, image []byte, mimeType string) {
	sess := app.sessionFrom(r)
	if sess == nil {
		return
	}

	if encoded, err := json.Marshal(result); err == nil {
		if err := sess.Put(session.KeyRecognitionResult, string(encoded)); err != nil {
			slog.Warn("could not save recognition result to session", "err", err)
		}
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	if err := sess.Put(session.KeyRecognitionImage, dataURL); err != nil {
		slog.Warn("could not save recognition image to session", "err", err)
	}
}

// previewResponse is what the preview page renders.
type previewResponse struct {
	Available bool                  `json:"available"`
	Result    *ai.RecognitionResult `json:"result,omitempty"`
	Raw       string                `json:"raw,omitempty"`
	ImageSrc  string                `json:"image_src,omitempty"`
	Message   string                `json:"message,omitempty"`
}

// PreviewHandler re-derives a displayable record from whatever the session
// holds. The stored payload crossed a storage boundary, so it is re-parsed
// with the same tolerant extraction used on the model response rather than
// trusted blindly. An empty session is a valid "nothing to show yet" state.
func (app *App) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	sess := app.sessionFrom(r)

	var stored, storedImage string
	if sess != nil {
		stored, _ = sess.Get(session.KeyRecognitionResult)
		storedImage, _ = sess.Get(session.KeyRecognitionImage)
	}

	if stored == "" {
		app.writeJSON(w, http.StatusOK, previewResponse{
			Available: false,
			Message:   "No recognition data available. Go back and analyze an image first.",
		})
		return
	}

	result, ok := ai.NormalizeRecognition(stored)
	if !ok {
		app.writeJSON(w, http.StatusOK, previewResponse{Available: true, Raw: stored, ImageSrc: storedImage})
		return
	}

	// The dedicated image key wins over any URL embedded in the result.
	// Transient blob: object URLs do not survive a navigation and are never
	// used.
	imageSrc := storedImage
	if imageSrc == "" && result.ImageURL != nil && !strings.HasPrefix(*result.ImageURL, "blob:") {
		imageSrc = *result.ImageURL
	}

	app.writeJSON(w, http.StatusOK, previewResponse{Available: true, Result: result, ImageSrc: imageSrc})
}
