package render

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/course-scribe/internal/actions"
	"github.com/nguyentantai21042004/course-scribe/internal/batch"
	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
)

func validateDigest(items []batch.MergedItem) error {
	for i, it := range items {
		if actions.Normalize(it.Text) == "" {
			return apperrors.Valuef("render digest", "item %d has no text", i)
		}
		if len(it.Sources) == 0 {
			return apperrors.Valuef("render digest", "item %d %q has no source", i, it.Text)
		}
	}
	return nil
}

// DigestMarkdown renders the weekly to-do list: owned items, then unassigned.
func DigestMarkdown(items []batch.MergedItem, week int) (string, error) {
	if err := validateDigest(items); err != nil {
		return "", err
	}

	var sb strings.Builder
	if week > 0 {
		fmt.Fprintf(&sb, "# Weekly To-Do - Week %d\n\n", week)
	} else {
		sb.WriteString("# Weekly To-Do\n\n")
	}

	if len(items) == 0 {
		sb.WriteString("_No action items._\n")
		return sb.String(), nil
	}

	var owned, unowned []batch.MergedItem
	for _, it := range items {
		if len(it.Owners) > 0 {
			owned = append(owned, it)
		} else {
			unowned = append(unowned, it)
		}
	}

	writeSection := func(title string, list []batch.MergedItem) {
		if len(list) == 0 {
			return
		}
		fmt.Fprintf(&sb, "## %s\n\n", title)
		for _, it := range list {
			sb.WriteString("- [ ] " + it.Text)
			var tags []string
			if len(it.Owners) > 0 {
				tags = append(tags, "owners: "+strings.Join(it.Owners, ", "))
			}
			if it.Due != "" {
				tags = append(tags, "due: "+it.Due)
			}
			if it.Priority != "" && it.Priority != actions.PriorityNormal {
				tags = append(tags, "priority: "+string(it.Priority))
			}
			if len(tags) > 0 {
				sb.WriteString(" (" + strings.Join(tags, "; ") + ")")
			}
			sb.WriteString("\n")
			fmt.Fprintf(&sb, "  - *from %s*\n", strings.Join(it.Sources, ", "))
			if it.Note != "" {
				fmt.Fprintf(&sb, "  - note: %s\n", it.Note)
			}
		}
		sb.WriteString("\n")
	}

	writeSection("Assigned", owned)
	writeSection("Unassigned", unowned)
	return sb.String(), nil
}

// DigestJSON renders the merged items as a JSON array.
func DigestJSON(items []batch.MergedItem) ([]byte, error) {
	if err := validateDigest(items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []batch.MergedItem{}
	}
	return marshal(items)
}
