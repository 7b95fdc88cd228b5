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
	"finance-api/utils"
)

// AIInsightsService generates monthly spending insights through the
// Anthropic messages API. It is an optional collaborator: callers fall
// back to generic insights when it errors.
type AIInsightsService struct {
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type aiRequest struct {
	Model     string      `json:"model"`
	MaxTokens int         `json:"max_tokens"`
	System    string      `json:"system,omitempty"`
	Messages  []aiMessage `json:"messages"`
}

type aiMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type aiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func NewAIInsightsService() *AIInsightsService {
	return &AIInsightsService{
		apiKey:     os.Getenv("ANTHROPIC_API_KEY"),
		model:      "claude-3-5-sonnet-latest",
		maxTokens:  1000,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate asks for exactly three short insights as a JSON string array.
func (s *AIInsightsService) Generate(ctx context.Context, stats models.MonthlyStats, month time.Time) ([]string, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not configured")
	}

	var categories strings.Builder
	for category, amount := range stats.ByCategory {
		fmt.Fprintf(&categories, "  - %s: %s\n", category, utils.FormatCents(amount))
	}

	prompt := fmt.Sprintf(`Analyze this financial data and provide 3 concise, actionable insights.
Focus on spending patterns and practical advice. Keep each insight under 25 words.

Financial data for %s:
- Total income: %s
- Total expenses: %s
- Expenses by category:
%s
Respond with ONLY a JSON array of 3 strings, nothing else.`,
		month.Format("January 2006"),
		utils.FormatCents(stats.TotalIncome),
		utils.FormatCents(stats.TotalExpenses),
		categories.String())

	text, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// The model occasionally wraps the array in a code fence.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var insights []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &insights); err != nil {
		return nil, fmt.Errorf("unexpected insight response: %w", err)
	}
	return insights, nil
}

func (s *AIInsightsService) complete(ctx context.Context, prompt string) (string, error) {
	payload := aiRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages:  []aiMessage{{Role: "user", Content: prompt}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.anthropic.com/v1/messages", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("anthropic API returned status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed aiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("empty response from anthropic API")
	}
	return parsed.Content[0].Text, nil
}
