package worker

import (
	"context"

	"github.com/meetscribe/meetscribe/internal/pkg/asr"
	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/transcript"
)

// batchTranscriber drives the polling vendor through create, poll, fetch
type batchTranscriber struct {
	client *asr.BatchClient
}

func (t *batchTranscriber) Transcribe(ctx context.Context, audioPath string, language string) (*transcript.Normalized, error) {
	jobID, err := t.client.CreateJob(audioPath, language)
	if err != nil {
		return nil, err
	}
	cmdapp.Log.Infof("Transcription job created: %s", jobID)
	res, err := t.client.PollUntilDone(jobID)
	if err != nil {
		return nil, err
	}
	return transcript.NormalizeBatch(res), nil
}

// syncTranscriber makes a single blocking vendor call
type syncTranscriber struct {
	client *asr.SyncClient
}

func (t *syncTranscriber) Transcribe(ctx context.Context, audioPath string, language string) (*transcript.Normalized, error) {
	res, err := t.client.Transcribe(ctx, audioPath, language)
	if err != nil {
		return nil, err
	}
	return transcript.NormalizeSync(res), nil
}

// NewTranscriber selects the vendor adapter by config key asr.provider
func NewTranscriber() (Transcriber, error) {
	provider := cmdapp.Config.GetString("asr.provider")
	switch provider {
	case asr.ProviderBatch, "":
		client, err := asr.NewBatchClient()
		if err != nil {
			return nil, err
		}
		return &batchTranscriber{client: client}, nil
	case asr.ProviderSync:
		client, err := asr.NewSyncClient()
		if err != nil {
			return nil, err
		}
		return &syncTranscriber{client: client}, nil
	}
	return nil, errs.NewConfiguration("asr.provider")
}
