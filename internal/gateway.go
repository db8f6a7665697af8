package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const completionsPath = "/v1/chat/completions"

// System instructions establishing step-by-step assistant behavior
const (
	textSystemPrompt = "You are a helpful homework assistant. Provide clear, step-by-step solutions " +
		"to academic questions. Always show your work and explain each step. Format your response " +
		"with clear sections for the answer and steps to solve."
	imageSystemPrompt = "You are a helpful homework assistant. When analyzing images, provide clear, " +
		"step-by-step solutions. Always show your work and explain each step. Format your response " +
		"with clear sections for the answer and steps to solve."
)

// DefaultImageQuestion is the user prompt sent with an image when no free-text
// question accompanies it
const DefaultImageQuestion = "Please analyze this homework problem and provide a step-by-step solution."

// Fallback replies used when the response shape lacks a completion
const (
	fallbackAnswer      = "Sorry, I could not process your question."
	fallbackImageAnswer = "Sorry, I could not analyze this image."
)

// Assistant is the surface the message flow controller talks to
type Assistant interface {
	AskQuestion(ctx context.Context, question string) (string, error)
	AnalyzeImage(ctx context.Context, imageBase64, question string) (string, error)
}

// Client is a stateless adapter to a remote chat-completion endpoint.
// It translates domain requests into provider payloads and normalizes the
// response into plain text. Retry policy is the caller's responsibility.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cfg        GatewayConfig
}

// NewClient creates a gateway client from configuration
func NewClient(cfg GatewayConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		cfg:        cfg,
	}
}

// Wire types for the provider chat-completion contract

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// chatMessage carries either a plain string content or a list of content
// parts (text plus image), depending on the operation mode
type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AskQuestion submits a text-only question and returns the completion text
func (c *Client) AskQuestion(ctx context.Context, question string) (string, error) {
	req := chatRequest{
		Model: c.cfg.TextModel,
		Messages: []chatMessage{
			{Role: "system", Content: textSystemPrompt},
			{Role: "user", Content: question},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	resp, err := c.makeRequest(ctx, req)
	if err != nil {
		return "", err
	}
	return completionText(resp, fallbackAnswer), nil
}

// AnalyzeImage submits a base64-encoded JPEG image plus an optional free-text
// question and returns the completion text. An empty question falls back to
// the default analysis prompt.
func (c *Client) AnalyzeImage(ctx context.Context, imageBase64, question string) (string, error) {
	if question == "" {
		question = DefaultImageQuestion
	}

	req := chatRequest{
		Model: c.cfg.VisionModel,
		Messages: []chatMessage{
			{Role: "system", Content: imageSystemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: question},
				{Type: "image_url", ImageURL: &imageURL{
					URL: "data:image/jpeg;base64," + imageBase64,
				}},
			}},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	resp, err := c.makeRequest(ctx, req)
	if err != nil {
		return "", err
	}
	return completionText(resp, fallbackImageAnswer), nil
}

func (c *Client) makeRequest(ctx context.Context, body chatRequest) (*chatResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &GatewayError{Status: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, &GatewayError{Status: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Status: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &GatewayError{
			StatusCode: resp.StatusCode,
			Status:     fmt.Sprintf("API request failed: %s", resp.Status),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &GatewayError{Status: "decode response", Err: err}
	}

	LogDebug("Gateway call completed in %v", time.Since(start))
	return &parsed, nil
}

// completionText extracts the first choice's text, or the fallback string
// when the response shape lacks a completion
func completionText(resp *chatResponse, fallback string) string {
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return fallback
	}
	return resp.Choices[0].Message.Content
}
