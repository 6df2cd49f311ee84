package asr

import (
	"context"
	"encoding/json"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/pkg/errors"
)

// SyncClient wraps the synchronous ASR vendor: create+transcribe
// is a single blocking call, no job handle, no polling.
type SyncClient struct {
	client *openai.Client
	model  string
}

// NewSyncClient creates the client from config keys asr.sync.key, asr.sync.url, asr.sync.model
func NewSyncClient() (*SyncClient, error) {
	key := cmdapp.Config.GetString("asr.sync.key")
	if key == "" {
		return nil, errs.NewConfiguration("asr.sync.key")
	}
	cfg := openai.DefaultConfig(key)
	if url := cmdapp.Config.GetString("asr.sync.url"); url != "" {
		cfg.BaseURL = url
	}
	model := cmdapp.Config.GetString("asr.sync.model")
	if model == "" {
		model = openai.Whisper1
	}
	return &SyncClient{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

// Transcribe runs the blocking transcription call and returns the raw payload
func (c *SyncClient) Transcribe(ctx context.Context, audioPath string, language string) (*SyncResult, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, errs.NewNotFound("audio file " + audioPath)
	}
	cmdapp.Log.Infof("Transcribing %s (language: %s)", audioPath, language)

	req := openai.AudioRequest{
		Model:    c.model,
		FilePath: audioPath,
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
		},
	}
	resp, err := c.client.CreateTranscription(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, errs.NewVendor(apiErr.HTTPStatusCode, apiErr.Message)
		}
		return nil, errors.Wrap(err, "Can't call vendor")
	}

	res := SyncResult{Text: resp.Text, Language: resp.Language, Duration: resp.Duration}
	for _, s := range resp.Segments {
		res.Segments = append(res.Segments, SyncSegment{ID: s.ID, Start: s.Start, End: s.End, Text: s.Text})
	}
	res.Raw, err = json.Marshal(resp)
	if err != nil {
		return nil, errors.Wrap(err, "Can't keep raw response")
	}
	return &res, nil
}
