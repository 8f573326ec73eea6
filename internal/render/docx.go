package render

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/course-scribe/internal/batch"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reTask    = regexp.MustCompile(`^\[[ xX]\]\s+(.+)$`)
)

// TranscriptDocx writes the markdown rendering of a transcript as a styled docx.
func TranscriptDocx(path string, tr *transcript.Transcript, opts TranscriptOptions) error {
	md, err := TranscriptMarkdown(tr, opts)
	if err != nil {
		return err
	}
	return markdownToDocx(md, path)
}

// DigestDocx writes the weekly digest as a styled docx.
func DigestDocx(path string, items []batch.MergedItem, week int) error {
	md, err := DigestMarkdown(items, week)
	if err != nil {
		return err
	}
	return markdownToDocx(md, path)
}

// markdownToDocx converts the subset of markdown the renderers emit.
func markdownToDocx(markdown, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			text := m[1]
			marker := "• "
			if t := reTask.FindStringSubmatch(text); t != nil {
				marker, text = "☐ ", t[1]
			}
			if line != trimmed {
				marker = "    " + marker
			}
			addRichText(doc.AddParagraph(""), marker+text)
			continue
		}

		if strings.HasPrefix(trimmed, ">") {
			addRichText(doc.AddParagraph(""), strings.TrimSpace(strings.TrimLeft(trimmed, ">")))
			continue
		}

		addRichText(doc.AddParagraph(""), trimmed)
	}

	return doc.SaveTo(outputPath)
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	s = strings.Trim(s, "_")
	return s
}
