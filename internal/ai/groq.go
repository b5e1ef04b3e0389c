package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const groqURL = "https://api.groq.com/openai/v1/chat/completions"

type groqClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGroqClient creates a Groq chat-completions client for title cleanup.
func NewGroqClient(apiKey string) Client {
	return &groqClient{
		apiKey: apiKey,
		model:  "llama-3.3-70b-versatile",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CleanTitle sends the raw title and body excerpt to Groq and parses the
// strict {"title","note"} answer. Any transport, status or decode problem
// comes back as an error; retrying is the caller's policy, not ours.
func (c *groqClient) CleanTitle(ctx context.Context, req TitleRequest) (TitleResult, error) {
	if c.apiKey == "" {
		return TitleResult{}, ErrUnavailable
	}
	reqBody := groqRequest{
		Model: c.model,
		Messages: []groqMessage{
			{Role: "system", Content: buildSystemPrompt()},
			{Role: "user", Content: buildUserPrompt(req)},
		},
		Temperature: 0.2, // low temperature for consistency
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return TitleResult{}, fmt.Errorf("failed to marshal groq request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, groqURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return TitleResult{}, fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return TitleResult{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return TitleResult{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return TitleResult{}, fmt.Errorf("groq API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var groqResp groqResponse
	if err := json.Unmarshal(bodyBytes, &groqResp); err != nil {
		return TitleResult{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if groqResp.Error != nil {
		return TitleResult{}, fmt.Errorf("API error: %s", groqResp.Error.Message)
	}
	if len(groqResp.Choices) == 0 {
		return TitleResult{}, fmt.Errorf("no choices returned from groq API")
	}

	cleaned := cleanMarkdownJSON(groqResp.Choices[0].Message.Content)

	var result TitleResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return TitleResult{}, fmt.Errorf("failed to unmarshal AI answer (raw length: %d): %w", len(cleaned), err)
	}
	if strings.TrimSpace(result.Title) == "" {
		return TitleResult{}, fmt.Errorf("empty title in AI answer")
	}
	return result, nil
}

// cleanMarkdownJSON removes backticks and "json" prefix if the model tries
// to be helpful.
func cleanMarkdownJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
