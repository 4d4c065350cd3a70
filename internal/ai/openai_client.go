package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	openAIAPIURL = "https://api.openai.com/v1/chat/completions"

	// DefaultModel must support vision input.
	DefaultModel = "gpt-4o-mini"

	recognitionMaxTokens = 3500
	charactersMaxTokens  = 4000
)

const recognitionSystemPrompt = `You are an expert art historian. I will give you an image (base64) and you must return ONLY a valid JSON with exactly these keys: is_artwork, title, author, year, movement, technique, dimensions, location, description, image_url. "is_artwork" must be a boolean: true if the image clearly depicts an artwork (painting, sculpture, drawing, etc.) that can be identified or analyzed; false if the image does NOT depict an artwork (e.g. random photo, person, landscape, meme, screenshot, document, or anything that is not a work of art). When is_artwork is false, set all other fields to null. When is_artwork is true, all values must be in English. Each other key must be a simple text string (no Markdown, no HTML) or null if unknown. The "description" field must be approximately 2000 characters: a detailed analysis of the artwork including subject, composition, technique, historical context, and significance. Format the description with a blank line (double newline) between each paragraph. "image_url" must be a URL if available or null. Do not add any extra text, explanations, or delimiters; respond only with the raw JSON.`

func charactersSystemPrompt(title, author string) string {
	return fmt.Sprintf(`Analyze the artwork "%s" by %s using the provided image and return valid JSON.

Mandatory requirements:
- The JSON must have a root key "obra" with general information about the painting (title, author, date, location, and overall objective).
- The "obra" object MUST also include a boolean field "has_characters".
- There must be a key "personajes" that is an array.
- If the image does NOT contain identifiable characters/figures (e.g. abstract art, landscape, still life, architecture without people), set "obra.has_characters" to false and set "personajes" to [].
- If you are not sure, prefer "obra.has_characters": false and "personajes": [] (do NOT guess).
- Only include characters that are clearly present in the image. Do not infer characters from the title, author, or common art-history associations.
- If "obra.has_characters" is true, each character must include at least: "nombre", "disciplina", "ubicacion" (approximate position within the artwork), "identificacion_visual" (how the character is recognized in the painting), "representa" (what idea, philosophical current or concept they symbolize in the work), "objetivo_del_autor" (the concrete intention of %s in including that character).
- The information must be based on the most accepted historiographical consensus, avoiding unnecessary speculation. If the character identity is not known, do not invent it; set "obra.has_characters" to false and return an empty array.
- The result must be exclusively JSON, with no additional explanations, comments or text outside the block.
- The JSON must be readable, coherent and suitable for academic or technical use (web, API or database).
- Do not include fictitious characters or repeat information between fields. Use clear and precise language in English for all fields.`, title, author, author)
}

type OpenAIClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIClient{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			// Vision completions with a ~2000 character description can be
			// slow; an unbounded call is worse than a generous cap.
			Timeout: 120 * time.Second,
		},
	}
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// RecognizeArtwork sends the image inline as a base64 data URL and returns
// the model's raw text response. Parsing is the normalizer's job.
func (c *OpenAIClient) RecognizeArtwork(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	return c.chatCompletion(ctx, recognitionSystemPrompt, []openAIContentPart{
		{Type: "text", Text: "Return only the requested JSON, no additional text."},
		{Type: "image_url", ImageURL: &openAIImageURL{URL: dataURL}},
	}, recognitionMaxTokens)
}

// AnalyzeCharacters asks the model to identify figures depicted in a
// catalogued artwork, referenced by its public image URL.
func (c *OpenAIClient) AnalyzeCharacters(ctx context.Context, title, author, imageURL string) (string, error) {
	userText := fmt.Sprintf(`Analyze the image of "%s" by %s and return only the JSON as specified.`, title, author)

	return c.chatCompletion(ctx, charactersSystemPrompt(title, author), []openAIContentPart{
		{Type: "text", Text: userText},
		{Type: "image_url", ImageURL: &openAIImageURL{URL: imageURL}},
	}, charactersMaxTokens)
}

func (c *OpenAIClient) chatCompletion(ctx context.Context, systemPrompt string, userContent []openAIContentPart, maxTokens int) (string, error) {
	reqBody := openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature: 0,
		MaxTokens:   maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", openAIAPIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if openAIResp.Error != nil {
		return "", fmt.Errorf("OpenAI API error: %s", openAIResp.Error.Message)
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return openAIResp.Choices[0].Message.Content, nil
}
