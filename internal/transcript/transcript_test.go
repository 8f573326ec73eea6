package transcript

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(start, end float64, speaker, text string) Segment {
	return Segment{Start: Seconds(start), End: Seconds(end), Speaker: speaker, Text: text}
}

func TestOffsetString(t *testing.T) {
	assert.Equal(t, "00:00", Offset(0).String())
	assert.Equal(t, "01:05", Seconds(65.4).String())
	assert.Equal(t, "01:02:03", Seconds(3723).String())
}

func TestOffsetJSON(t *testing.T) {
	data, err := json.Marshal(Seconds(12.5))
	require.NoError(t, err)
	assert.Equal(t, "12.5", string(data))

	var o Offset
	require.NoError(t, json.Unmarshal([]byte("3.25"), &o))
	assert.Equal(t, Offset(3250*time.Millisecond), o)

	assert.Error(t, json.Unmarshal([]byte("-1"), &o))
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &o))
}

func TestOffsetOutOfRange(t *testing.T) {
	for _, in := range []string{"1e300", "9223372037", "1.8e19"} {
		t.Run(in, func(t *testing.T) {
			var o Offset
			assert.Error(t, json.Unmarshal([]byte(in), &o))
		})
	}

	var o Offset
	require.NoError(t, json.Unmarshal([]byte("9223372036"), &o))
	assert.Equal(t, MaxSeconds, o.Seconds())

	assert.Equal(t, MaxSeconds, Seconds(1e300).Seconds())
}

func TestTranscriptValidate(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		wantErr  bool
	}{
		{"empty", nil, false},
		{"ordered", []Segment{seg(0, 2, "A", "hi"), seg(2, 4, "B", "hello")}, false},
		{"cross speaker overlap allowed", []Segment{seg(0, 3, "A", "hi"), seg(2, 4, "B", "hello")}, false},
		{"same speaker overlap", []Segment{seg(0, 3, "A", "hi"), seg(2, 4, "A", "again")}, true},
		{"unordered", []Segment{seg(5, 6, "A", "late"), seg(1, 2, "B", "early")}, true},
		{"zero length", []Segment{seg(1, 1, "A", "blip")}, true},
		{"blank text", []Segment{seg(0, 1, "A", "  ")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Transcript{Segments: tt.segments}
			err := tr.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssignSpeakers(t *testing.T) {
	tr := &Transcript{
		Speakers: []string{"Speaker 0", "Speaker 1", "Speaker 2"},
		Segments: []Segment{seg(0, 1, "Speaker 0", "a"), seg(1, 2, "Speaker 1", "b"), seg(2, 3, "Speaker 2", "c")},
	}

	named := tr.AssignSpeakers([]string{"Alex", " Sam "})

	assert.Equal(t, []string{"Alex", "Sam", "Speaker 2"}, named.Speakers)
	assert.Equal(t, "Alex", named.Segments[0].Speaker)
	assert.Equal(t, "Sam", named.Segments[1].Speaker)
	assert.Equal(t, "Speaker 2", named.Segments[2].Speaker)

	// the original is untouched
	assert.Equal(t, "Speaker 0", tr.Segments[0].Speaker)
	assert.Equal(t, "Speaker 0", tr.Speakers[0])
}

func TestText(t *testing.T) {
	tr := &Transcript{Segments: []Segment{seg(0, 1, "Alex", "Welcome"), seg(61, 62, "", "Questions?")}}

	assert.Equal(t, "[00:00] Alex: Welcome\n[01:01] Speaker: Questions?", tr.Text(true))
	assert.Equal(t, "Welcome\nQuestions?", tr.Text(false))

	raw := &Transcript{RawText: "just words"}
	assert.Equal(t, "just words", raw.Text(true))
}

func TestNumbered(t *testing.T) {
	out := Numbered([]Segment{seg(0, 5, "Alex", "Intro"), seg(5, 9, "Sam", "Loops")})
	assert.Equal(t, "#0 [00:00-00:05] Alex: Intro\n#1 [00:05-00:09] Sam: Loops\n", out)
}
