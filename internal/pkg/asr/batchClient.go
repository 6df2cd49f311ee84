package asr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/utils"
	"github.com/pkg/errors"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxWait      = time.Hour
)

// BatchClient talks to the batch/polling ASR vendor:
// create job, poll status, fetch result as three separate calls.
type BatchClient struct {
	httpclient *retryablehttp.Client
	url        string
	apiKey     string

	// PollInterval and MaxWait are overridable for tests
	PollInterval time.Duration
	MaxWait      time.Duration
}

// NewBatchClient creates the client from config keys asr.batch.url, asr.batch.key
func NewBatchClient() (*BatchClient, error) {
	res := BatchClient{}
	var err error
	res.url, err = utils.GetURLFromConfig("asr.batch.url")
	if err != nil {
		return nil, err
	}
	res.apiKey = cmdapp.Config.GetString("asr.batch.key")
	if res.apiKey == "" {
		return nil, errs.NewConfiguration("asr.batch.key")
	}
	res.httpclient = retryablehttp.NewClient()
	res.httpclient.RetryMax = 3
	res.httpclient.Logger = nil
	res.PollInterval = defaultPollInterval
	res.MaxWait = defaultMaxWait
	return &res, nil
}

type jobConfig struct {
	Type                string            `json:"type"`
	TranscriptionConfig map[string]string `json:"transcription_config"`
}

type createResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateJob uploads the audio and returns the vendor job id
func (c *BatchClient) CreateJob(audioPath string, language string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return "", errs.NewNotFound("audio file " + audioPath)
	}
	audio, err := os.Open(audioPath)
	if err != nil {
		return "", errors.Wrap(err, "Can't open "+audioPath)
	}
	defer audio.Close()

	cfg := jobConfig{Type: "transcription",
		TranscriptionConfig: map[string]string{"language": language, "diarization": "speaker"}}
	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, "Can't marshal job config")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("data_file", filepath.Base(audioPath))
	if err != nil {
		return "", errors.Wrap(err, "Can't add file to request")
	}
	if _, err = io.Copy(part, audio); err != nil {
		return "", errors.Wrap(err, "Can't add file to request")
	}
	if err = writer.WriteField("config", string(cfgBytes)); err != nil {
		return "", errors.Wrap(err, "Can't add config to request")
	}
	writer.Close()

	urlStr := utils.URLJoin(c.url, "v2", "jobs")
	cmdapp.Log.Infof("Create transcription job: %s", urlStr)
	req, err := retryablehttp.NewRequest("POST", urlStr, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "Can't call vendor")
	}
	defer resp.Body.Close()
	if err := asVendorError(resp.StatusCode, resp.Body); err != nil {
		return "", err
	}
	var respData createResponse
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return "", errors.Wrap(err, "Can't decode response")
	}
	if respData.ID == "" {
		return "", errors.New("No job ID returned by vendor")
	}
	return respData.ID, nil
}

// GetStatus fetches the raw status payload for a job
func (c *BatchClient) GetStatus(jobID string) (map[string]interface{}, error) {
	urlStr := utils.URLJoin(c.url, "v2", "jobs", jobID)
	resp, err := c.get(urlStr)
	if err != nil {
		return nil, errors.Wrap(err, "Can't get status")
	}
	defer resp.Body.Close()
	if err := asVendorError(resp.StatusCode, resp.Body); err != nil {
		return nil, err
	}
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "Can't decode status response")
	}
	return result, nil
}

// GetResult fetches the transcript for a completed job
func (c *BatchClient) GetResult(jobID string) (*BatchResult, error) {
	urlStr := utils.URLJoin(c.url, "v2", "jobs", jobID, "transcript")
	resp, err := c.get(urlStr)
	if err != nil {
		return nil, errors.Wrap(err, "Can't get result")
	}
	defer resp.Body.Close()
	if err := asVendorError(resp.StatusCode, resp.Body); err != nil {
		return nil, err
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read response")
	}
	var result BatchResult
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return nil, errors.Wrap(err, "Can't decode result response")
	}
	result.Raw = bodyBytes
	return &result, nil
}

// PollUntilDone polls status every PollInterval until a terminal state
// or the MaxWait wall-clock budget runs out. An unrecognized status is a
// hard error with the full payload - vendor contract drift must surface,
// not get retried past.
func (c *BatchClient) PollUntilDone(jobID string) (*BatchResult, error) {
	start := time.Now()
	for {
		payload, err := c.GetStatus(jobID)
		if err != nil {
			return nil, err
		}
		st := extractStatus(payload)
		switch st {
		case "done":
			return c.GetResult(jobID)
		case "failed", "rejected", "error":
			return nil, errs.NewVendor(0, fmt.Sprintf("job %s failed: %s", jobID, extractError(payload)))
		case "running", "queued", "processing", "transcribing", "started":
			elapsed := time.Since(start)
			if elapsed > c.MaxWait {
				return nil, errs.NewTimeout("job "+jobID, int(c.MaxWait.Seconds()))
			}
			if int(elapsed.Seconds())%30 == 0 {
				cmdapp.Log.Infof("Job %s still processing (status: %s, elapsed: %ds)", jobID, st, int(elapsed.Seconds()))
			}
			time.Sleep(c.PollInterval)
		default:
			raw, _ := json.Marshal(payload)
			return nil, errors.Errorf("Unknown job status '%s'. Full response: %s", st, string(raw))
		}
	}
}

// extractStatus digs the status string out of a possibly nested payload
func extractStatus(payload map[string]interface{}) string {
	obj := payload
	if j, ok := payload["job"].(map[string]interface{}); ok {
		obj = j
	}
	for _, key := range []string{"status", "job_status", "state"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return strings.ToLower(s)
		}
		if s, ok := payload[key].(string); ok && s != "" {
			return strings.ToLower(s)
		}
	}
	return "unknown"
}

// extractError tries vendor error fields in order before giving up
func extractError(payload map[string]interface{}) string {
	obj := payload
	if j, ok := payload["job"].(map[string]interface{}); ok {
		obj = j
	}
	for _, key := range []string{"error", "detail", "message"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return "Unknown error"
}

// asVendorError turns a non-2xx response into VendorError with the
// vendor detail extracted from a JSON error body when present
func asVendorError(code int, body io.Reader) error {
	if code >= 200 && code <= 299 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(body)
	detail := strings.TrimSpace(string(bodyBytes))
	var errBody struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(bodyBytes, &errBody); err == nil && errBody.Detail != "" {
		detail = errBody.Detail
	}
	return errs.NewVendor(code, detail)
}

func (c *BatchClient) get(urlStr string) (*http.Response, error) {
	req, err := retryablehttp.NewRequest("GET", urlStr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return c.httpclient.Do(req)
}
