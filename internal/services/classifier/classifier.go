package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Document categories recognized by the lab intake.
const (
	CategoryCertificado    = "certificado_calibracion"
	CategoryInforme        = "informe_ensayo"
	CategoryCadenaCustodia = "cadena_custodia"
	CategorySolicitud      = "solicitud_ensayo"
	CategoryOtro           = "otro"
)

var categories = []string{
	CategoryCertificado,
	CategoryInforme,
	CategoryCadenaCustodia,
	CategorySolicitud,
	CategoryOtro,
}

// Classification is the model's verdict on one document.
type Classification struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Resumen    string  `json:"resumen"`
}

// Client classifies lab documents with Gemini.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewClient creates a Gemini-backed classifier.
func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-3-flash-preview"
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"

	return &Client{client: client, model: model}, nil
}

// Close closes the client connection
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Classify sends the document text to Gemini and parses its JSON verdict.
func (c *Client) Classify(ctx context.Context, text string) (*Classification, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty document")
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(buildPrompt(text)))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var raw string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw += string(txt)
		}
	}

	return parseVerdict(raw)
}

func buildPrompt(text string) string {
	return fmt.Sprintf(`Eres el asistente de recepción de documentos de un laboratorio
geotécnico. Clasifica el siguiente documento en una de estas categorías:
%s

Responde SOLO con JSON: {"category": "...", "confidence": 0.0-1.0, "resumen": "una frase"}.

Documento:
%s`, strings.Join(categories, ", "), truncate(text, 8000))
}

// parseVerdict tolerates the model wrapping its JSON in a markdown fence.
func parseVerdict(raw string) (*Classification, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var out Classification
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil {
		return nil, fmt.Errorf("unparseable classifier response: %w", err)
	}
	if !validCategory(out.Category) {
		out.Category = CategoryOtro
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		out.Confidence = 0
	}
	return &out, nil
}

func validCategory(c string) bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
