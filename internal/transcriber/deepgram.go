package transcriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
	"github.com/nguyentantai21042004/course-scribe/internal/retry"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

// the SDK reports a 400 without a Deepgram error body as "<status>: <body>"
var leadingStatus = regexp.MustCompile(`^([1-5]\d\d) [A-Za-z]`)

// Transcribe uploads the audio file and parses the utterances.
func (d *implDeepgram) Transcribe(ctx context.Context, audioPath string, opts Options) (*transcript.Transcript, error) {
	info, err := os.Stat(audioPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, apperrors.Inputf("transcribe", audioPath, "file does not exist")
	case err != nil:
		return nil, apperrors.Input("transcribe", audioPath, err)
	case info.IsDir():
		return nil, apperrors.Inputf("transcribe", audioPath, "is a directory")
	case info.Size() == 0:
		return nil, apperrors.Inputf("transcribe", audioPath, "file is empty")
	}
	if d.client == nil {
		return nil, apperrors.Config("transcribe", "deepgram client not configured: DEEPGRAM_API_KEY is empty")
	}

	d.logger.Info(ctx, "Transcribing %s (%d KB, model %s)", filepath.Base(audioPath), info.Size()/1024, opts.Model)

	var resp *api.PreRecordedResponse
	err = retry.Do(ctx, d.policy, "transcribe", func(ctx context.Context) error {
		r, err := d.fromFile(ctx, audioPath, opts)
		if err != nil {
			d.logger.Debug(ctx, "Deepgram call failed: %v", err)
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	tr := parse(resp, audioPath)
	d.logger.Info(ctx, "Transcription complete: %d segments, %d speakers, %s",
		len(tr.Segments), len(tr.Speakers), tr.Duration)
	return tr, nil
}

func (d *implDeepgram) fromFile(ctx context.Context, audioPath string, opts Options) (*api.PreRecordedResponse, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	resp, err := d.client.FromFile(ctx, audioPath, requestOptions(opts))
	if err != nil {
		return nil, classify(err)
	}
	if resp == nil || resp.Results == nil || len(resp.Results.Channels) == 0 {
		return nil, apperrors.Malformed("deepgram response has no channels")
	}
	return resp, nil
}

func requestOptions(opts Options) *interfaces.PreRecordedTranscriptionOptions {
	return &interfaces.PreRecordedTranscriptionOptions{
		Model:       opts.Model,
		Language:    opts.Language,
		SmartFormat: true,
		Punctuate:   true,
		Utterances:  true,
		Diarize:     opts.Diarize,
	}
}

// classify maps SDK errors onto StatusError and the malformed sentinel so the
// retry policy can judge them.
func classify(err error) error {
	var se *interfaces.StatusError
	if errors.As(err, &se) && se.Resp != nil {
		out := &apperrors.StatusError{Service: "deepgram", StatusCode: se.Resp.StatusCode}
		if se.DeepgramError != nil {
			out.Body = strings.TrimSpace(se.DeepgramError.ErrCode + " " + se.DeepgramError.ErrMsg)
		}
		return out
	}

	if m := leadingStatus.FindStringSubmatch(err.Error()); m != nil {
		code, _ := strconv.Atoi(m[1])
		return &apperrors.StatusError{Service: "deepgram", StatusCode: code, Body: err.Error()}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperrors.Malformed("decode deepgram response: %v", err)
	}
	return fmt.Errorf("deepgram request: %w", err)
}

// parse maps utterances onto segments. Numbered speakers become "Speaker N";
// zero-length or empty utterances are dropped.
func parse(resp *api.PreRecordedResponse, source string) *transcript.Transcript {
	tr := &transcript.Transcript{
		SourceFile: source,
		Speakers:   []string{},
		Segments:   []transcript.Segment{},
	}
	if resp.Metadata != nil {
		tr.Duration = transcript.Seconds(resp.Metadata.Duration)
	}

	if alts := resp.Results.Channels[0].Alternatives; len(alts) > 0 {
		tr.RawText = strings.TrimSpace(alts[0].Transcript)
	}

	seen := make(map[int]bool)
	var ids []int
	for _, u := range resp.Results.Utterances {
		text := strings.TrimSpace(u.Transcript)
		if text == "" || u.End <= u.Start || u.Start < 0 {
			continue
		}
		seg := transcript.Segment{
			Start: transcript.Seconds(u.Start),
			End:   transcript.Seconds(u.End),
			Text:  text,
		}
		if u.Speaker != nil {
			seg.Speaker = speakerLabel(*u.Speaker)
			if !seen[*u.Speaker] {
				seen[*u.Speaker] = true
				ids = append(ids, *u.Speaker)
			}
		}
		tr.Segments = append(tr.Segments, seg)
	}

	sort.SliceStable(tr.Segments, func(i, j int) bool {
		return tr.Segments[i].Start < tr.Segments[j].Start
	})

	sort.Ints(ids)
	for _, id := range ids {
		tr.Speakers = append(tr.Speakers, speakerLabel(id))
	}
	return tr
}

func speakerLabel(id int) string {
	return fmt.Sprintf("Speaker %d", id)
}
