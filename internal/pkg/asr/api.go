package asr

// Word is one recognized word with timestamps and optional diarization
type Word struct {
	Word       string  `json:"word"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Confidence float64 `json:"confidence"`
	Speaker    string  `json:"speaker"`
	SpeakerID  string  `json:"speaker_id"`
}

// Alternative is one recognition hypothesis of a batch vendor result block
type Alternative struct {
	Content string `json:"content"`
	Words   []Word `json:"words"`
}

// Result is one block of a batch vendor response
type Result struct {
	Alternatives []Alternative `json:"alternatives"`
}

// Metadata of a batch vendor response
type Metadata struct {
	Duration float64 `json:"duration"`
}

// BatchResult is the raw payload of the batch/polling vendor.
// Raw keeps the unparsed body for the audit trail.
type BatchResult struct {
	Metadata Metadata `json:"metadata"`
	Results  []Result `json:"results"`
	// Text is a vendor-level fallback for word-less responses
	Text string `json:"text"`

	Raw []byte `json:"-"`
}

// SyncSegment is a ready-made segment of the synchronous vendor
type SyncSegment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// SyncResult is the raw payload of the synchronous vendor.
// No diarization is available on this path.
type SyncResult struct {
	Text     string        `json:"text"`
	Language string        `json:"language"`
	Duration float64       `json:"duration"`
	Segments []SyncSegment `json:"segments"`

	Raw []byte `json:"-"`
}

// Provider names accepted by config key asr.provider
const (
	ProviderBatch = "batch"
	ProviderSync  = "sync"
)
