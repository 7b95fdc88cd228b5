package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"finance-api/models"
)

// ReceiptScanService turns a receipt photo into a prefilled transaction
// draft via the Anthropic vision API. The draft carries no special trust:
// it goes back to the client, which submits it as ordinary input.
type ReceiptScanService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewReceiptScanService() *ReceiptScanService {
	return &ReceiptScanService{
		apiKey:     os.Getenv("ANTHROPIC_API_KEY"),
		model:      "claude-3-5-sonnet-latest",
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type imageBlock struct {
	Type   string `json:"type"`
	Source struct {
		Type      string `json:"type"`
		MediaType string `json:"media_type"`
		Data      string `json:"data"`
	} `json:"source"`
}

type textBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ScanReceipt extracts {amount, category, date, description} from a
// base64-encoded receipt image.
func (s *ReceiptScanService) ScanReceipt(ctx context.Context, imageBase64, mimeType string) (*models.TransactionDraft, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not configured")
	}

	img := imageBlock{Type: "image"}
	img.Source.Type = "base64"
	img.Source.MediaType = mimeType
	img.Source.Data = imageBase64

	prompt := fmt.Sprintf(`Analyze this receipt and extract:
- total amount as a decimal string
- date in RFC3339 format
- a short description of the purchase
- the best matching expense category from: %s

Respond with ONLY a JSON object {"amount": "...", "date": "...", "description": "...", "category": "..."}.
If this is not a receipt, respond with {}.`, strings.Join(models.ExpenseCategories, ", "))

	payload := aiRequest{
		Model:     s.model,
		MaxTokens: 500,
		Messages: []aiMessage{{
			Role:    "user",
			Content: []interface{}{img, textBlock{Type: "text", Text: prompt}},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.anthropic.com/v1/messages", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("anthropic API returned status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed aiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Content) == 0 {
		return nil, fmt.Errorf("empty response from anthropic API")
	}

	text := strings.TrimSpace(parsed.Content[0].Text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var draft models.TransactionDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &draft); err != nil {
		return nil, fmt.Errorf("unexpected scan response: %w", err)
	}
	if draft.Amount == "" {
		return nil, fmt.Errorf("no receipt detected in image")
	}
	return &draft, nil
}
