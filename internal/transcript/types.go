// Package transcript holds the time-coded, speaker-labelled segment model that
// every downstream stage consumes.
package transcript

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Offset is a position from the start of the media. It marshals as float seconds.
type Offset time.Duration

// MaxSeconds is the largest offset time.Duration can hold, in whole seconds.
const MaxSeconds = float64(math.MaxInt64 / int64(time.Second))

// Seconds builds an Offset from fractional seconds, saturating at MaxSeconds.
func Seconds(s float64) Offset {
	if s > MaxSeconds {
		return Offset(time.Duration(MaxSeconds) * time.Second)
	}
	return Offset(time.Duration(math.Round(s * float64(time.Second))))
}

// Seconds returns the offset as fractional seconds.
func (o Offset) Seconds() float64 {
	return time.Duration(o).Seconds()
}

// String formats as MM:SS, or HH:MM:SS past the first hour.
func (o Offset) String() string {
	total := int(time.Duration(o) / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func (o Offset) MarshalJSON() ([]byte, error) {
	return json.Marshal(math.Round(o.Seconds()*1000) / 1000)
}

func (o *Offset) UnmarshalJSON(data []byte) error {
	var s float64
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("offset must be seconds: %w", err)
	}
	if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return fmt.Errorf("offset must be a non-negative number, got %v", s)
	}
	if s > MaxSeconds {
		return fmt.Errorf("offset %v seconds is out of range", s)
	}
	*o = Seconds(s)
	return nil
}

// Segment is one unit of transcribed speech.
type Segment struct {
	Start   Offset `json:"start"`
	End     Offset `json:"end"`
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text"`
}

// Transcript is the ordered output of one transcription run.
type Transcript struct {
	SourceFile string    `json:"source_file"`
	Duration   Offset    `json:"duration"`
	Speakers   []string  `json:"speakers,omitempty"`
	Segments   []Segment `json:"segments"`
	RawText    string    `json:"raw_text,omitempty"`
}
