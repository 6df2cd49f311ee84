package transcript

import (
	"fmt"
	"strings"

	"github.com/meetscribe/meetscribe/internal/pkg/asr"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
)

// Normalized is the one internal transcript representation all
// vendor payloads converge to
type Normalized struct {
	Content         string
	Segments        []model.Segment
	DurationSeconds *int
	// RawResponse keeps the opaque vendor payload for audit/debug
	RawResponse string
}

const (
	// maxSegmentDuration closes a segment that grew past this many seconds
	maxSegmentDuration = 10.0
	// maxSegmentWords closes a segment at this word count
	maxSegmentWords = 30

	unknownSpeaker = "Unknown"
)

var sentenceEndings = map[rune]bool{'.': true, '!': true, '?': true, '。': true, '！': true, '？': true}

// NormalizeBatch converts a batch vendor payload with word-level timestamps
// into the internal representation. Pure and deterministic.
//
// Words accumulate into a current segment which is closed when, in priority
// order: the speaker changes (boundary before the word), the just-appended
// word ends a sentence, the segment exceeds 10s, or it reaches 30 words.
func NormalizeBatch(raw *asr.BatchResult) *Normalized {
	res := &Normalized{RawResponse: string(raw.Raw)}

	var contentParts []string
	var words []asr.Word
	for _, r := range raw.Results {
		for _, alt := range r.Alternatives {
			if c := strings.TrimSpace(alt.Content); c != "" {
				contentParts = append(contentParts, c)
			}
			words = append(words, alt.Words...)
		}
	}
	res.Content = strings.Join(contentParts, " ")
	if res.Content == "" {
		res.Content = raw.Text
	}

	res.Segments = buildSegments(words)

	if n := len(res.Segments); n > 0 {
		d := int(res.Segments[n-1].EndTime)
		res.DurationSeconds = &d
	} else if n := len(words); n > 0 {
		d := int(words[n-1].EndTime)
		res.DurationSeconds = &d
	} else if raw.Metadata.Duration > 0 {
		d := int(raw.Metadata.Duration)
		res.DurationSeconds = &d
	}
	return res
}

type segmentBuilder struct {
	words     []asr.Word
	startTime float64
	speaker   string
	speakerID string

	out []model.Segment
}

func buildSegments(words []asr.Word) []model.Segment {
	b := segmentBuilder{}
	for _, w := range words {
		sp := w.Speaker
		if sp == "" {
			sp = unknownSpeaker
		}
		if len(b.words) > 0 && sp != b.speaker {
			b.close()
		}
		if len(b.words) == 0 {
			b.startTime = w.StartTime
			b.speaker = sp
			b.speakerID = w.SpeakerID
		}
		b.words = append(b.words, w)

		switch {
		case endsSentence(w.Word):
			b.close()
		case w.EndTime-b.startTime > maxSegmentDuration:
			b.close()
		case len(b.words) >= maxSegmentWords:
			b.close()
		}
	}
	b.close()
	return b.out
}

func (b *segmentBuilder) close() {
	if len(b.words) == 0 {
		return
	}
	texts := make([]string, 0, len(b.words))
	for _, w := range b.words {
		texts = append(texts, w.Word)
	}
	b.out = append(b.out, model.Segment{
		ID:        fmt.Sprintf("seg_%d", len(b.out)),
		Text:      strings.Join(texts, " "),
		StartTime: b.startTime,
		EndTime:   b.words[len(b.words)-1].EndTime,
		Speaker:   b.speaker,
		SpeakerID: speakerID(b.speakerID, b.speaker),
	})
	b.words = nil
}

func endsSentence(word string) bool {
	w := strings.TrimSpace(word)
	if w == "" {
		return false
	}
	runes := []rune(w)
	return sentenceEndings[runes[len(runes)-1]]
}

// speakerID falls back to a derived id when the vendor gives none
func speakerID(vendorID, speaker string) string {
	if vendorID != "" {
		return vendorID
	}
	return strings.ToLower(strings.ReplaceAll(speaker, " ", "_"))
}

// NormalizeSync passes the synchronous vendor's ready-made segments
// through with an Unknown speaker sentinel - no diarization on this path.
func NormalizeSync(raw *asr.SyncResult) *Normalized {
	res := &Normalized{Content: raw.Text, RawResponse: string(raw.Raw)}
	for _, s := range raw.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		res.Segments = append(res.Segments, model.Segment{
			ID:        fmt.Sprintf("seg_%d", s.ID),
			Text:      text,
			StartTime: s.Start,
			EndTime:   s.End,
			Speaker:   unknownSpeaker,
			SpeakerID: "unknown",
		})
	}
	if raw.Duration > 0 {
		d := int(raw.Duration)
		res.DurationSeconds = &d
	}
	return res
}
