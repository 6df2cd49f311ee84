package summary

import (
	"context"
	"encoding/json"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/pkg/errors"
)

// maxTranscriptChars caps the transcript sent upstream to respect
// the model context limit. A marker is appended when cut.
const maxTranscriptChars = 100000

const truncationMarker = "\n\n[TRANSCRIPT TRUNCATED]"

const defaultModel = "gpt-4o-mini"

// ActionItem is one follow-up record of the LLM output.
// Unknown or missing fields fall back to documented defaults
// at the persistence boundary.
type ActionItem struct {
	ID               string `json:"id"`
	Description      string `json:"description"`
	Owner            string `json:"owner"`
	DueDate          string `json:"dueDate"`
	Priority         string `json:"priority"`
	RelatedSegmentID string `json:"relatedSegmentId"`
}

// Result is the structured summary contract returned by the LLM
type Result struct {
	Overview        string             `json:"overview"`
	DetailedMinutes *string            `json:"detailed_minutes"`
	AgendaItems     []model.AgendaItem `json:"agenda_items"`
	Decisions       []model.Decision   `json:"decisions"`
	Highlights      []model.Highlight  `json:"highlights"`
	ActionItems     []ActionItem       `json:"action_items"`
}

// Client generates structured meeting summaries with a single
// request/response LLM call
type Client struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

// NewClient creates the client from config keys summary.key, summary.url,
// summary.model, summary.systemPrompt. The prompt content is configuration,
// not pipeline logic.
func NewClient() (*Client, error) {
	key := cmdapp.Config.GetString("summary.key")
	if key == "" {
		return nil, errs.NewConfiguration("summary.key")
	}
	cfg := openai.DefaultConfig(key)
	if url := cmdapp.Config.GetString("summary.url"); url != "" {
		cfg.BaseURL = url
	}
	res := Client{client: openai.NewClientWithConfig(cfg)}
	res.model = cmdapp.Config.GetString("summary.model")
	if res.model == "" {
		res.model = defaultModel
	}
	res.systemPrompt = cmdapp.Config.GetString("summary.systemPrompt")
	if res.systemPrompt == "" {
		return nil, errs.NewConfiguration("summary.systemPrompt")
	}
	return &res, nil
}

// Model returns the configured model name, stored as generated_by_model
func (c *Client) Model() string {
	return c.model
}

// GenerateSummary runs the LLM call and parses the structured JSON output.
// A malformed response is a SummarizationError - terminal, not retried.
func (c *Client) GenerateSummary(ctx context.Context, transcriptText, meetingTitle, template, language string) (*Result, error) {
	cmdapp.Log.Infof("Generating summary for '%s', transcript %d chars", meetingTitle, len(transcriptText))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(transcriptText, meetingTitle, template, language)},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, errs.NewVendor(apiErr.HTTPStatusCode, apiErr.Message)
		}
		return nil, errors.Wrap(err, "Can't call LLM")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, errs.NewSummarization("empty response from LLM")
	}
	var result Result
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return nil, errs.NewSummarization("invalid JSON response from LLM: %v", err)
	}
	return &result, nil
}

func userPrompt(transcriptText, meetingTitle, template, language string) string {
	var sb strings.Builder
	if meetingTitle != "" {
		sb.WriteString("Meeting Title: " + meetingTitle + "\n")
	}
	if template != "" {
		sb.WriteString("Template: " + template + "\n")
	}
	sb.WriteString("Language: " + language + "\n\n")
	sb.WriteString("Transcript:\n")
	sb.WriteString(Truncate(transcriptText))
	return sb.String()
}

// Truncate cuts the transcript at the character ceiling, marking the cut
func Truncate(text string) string {
	if len(text) <= maxTranscriptChars {
		return text
	}
	return text[:maxTranscriptChars] + truncationMarker
}
