package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
)

// ScreeningSource is the content_ratings source written by classifier verdicts.
const ScreeningSource = "ai_screen"

var (
	// ErrUnexpectedReply is returned when the classifier reply carries no text.
	ErrUnexpectedReply = errors.New("unexpected response from AI")
	// ErrUnparsableReply is returned when the classifier text is not a verdict.
	ErrUnparsableReply = errors.New("failed to parse AI response")

	fencePattern = regexp.MustCompile("```(?:json)?\\n?")
)

// Classifier judges whether content suits young children.
type Classifier interface {
	Classify(ctx context.Context, req models.ScreeningRequest) (*models.ScreeningResult, error)
}

// HTTPClassifier asks a hosted language model for a verdict via a messages API.
type HTTPClassifier struct {
	api   *APIService
	model string
}

// NewHTTPClassifier creates a classifier posting to api with the given model.
func NewHTTPClassifier(api *APIService, model string) *HTTPClassifier {
	return &HTTPClassifier{api: api, model: model}
}

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Classify sends the screening prompt and parses the verdict.
func (c *HTTPClassifier) Classify(ctx context.Context, req models.ScreeningRequest) (*models.ScreeningResult, error) {
	data, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: 256,
		Messages:  []chatMessage{{Role: "user", Content: ScreeningPrompt(req)}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode screening request: %w", err)
	}

	resp, err := c.api.Post(ctx, "/v1/messages", data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to reach classifier: %w", err)
	}
	if !resp.OK() {
		return nil, &shared.UpstreamError{Status: resp.StatusCode, Message: "AI screening failed"}
	}

	var reply messagesResponse
	if err := json.Unmarshal(resp.Body, &reply); err != nil || len(reply.Content) == 0 || reply.Content[0].Type != "text" {
		return nil, ErrUnexpectedReply
	}
	return ParseVerdict(reply.Content[0].Text)
}

// ParseVerdict decodes a classifier verdict, ignoring markdown code fences around it.
func ParseVerdict(text string) (*models.ScreeningResult, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(fencePattern.ReplaceAllString(text, ""), "```", ""))

	var raw struct {
		Approved *bool   `json:"approved"`
		Score    float64 `json:"score"`
		Notes    string  `json:"notes"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil || raw.Approved == nil {
		return nil, ErrUnparsableReply
	}
	return &models.ScreeningResult{Approved: *raw.Approved, Score: raw.Score, Notes: raw.Notes}, nil
}

// ScreeningPrompt renders the reviewer prompt for req, filling defaults for missing fields.
func ScreeningPrompt(req models.ScreeningRequest) string {
	channel := strings.TrimSpace(req.ChannelName)
	if channel == "" {
		channel = "Unknown"
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "No description provided"
	}
	ageMin, ageMax := 0, 6
	if req.AgeMin != nil {
		ageMin = *req.AgeMin
	}
	if req.AgeMax != nil {
		ageMax = *req.AgeMax
	}

	return fmt.Sprintf(`You are a child safety content reviewer for a parent-verified platform for children ages 0-6.

Content to review:
Title: %s
Channel: %s
Description: %s
Target age range: %d-%d years

Assess this content for age-appropriateness for young children (0-6 years). Consider:
1. Is the content safe and appropriate for young children?
2. Does it contain any concerning themes (violence, inappropriate language, scary content, adult topics)?
3. Is it genuinely educational or entertaining for the target age group?
4. Does the channel name suggest family-friendly content?

Respond with ONLY valid JSON, no markdown, no extra text:
{
  "approved": true,
  "score": 0.95,
  "notes": "Brief explanation under 100 words"
}`, strings.TrimSpace(req.Title), channel, description, ageMin, ageMax)
}
