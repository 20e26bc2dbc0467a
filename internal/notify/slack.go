package notify

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"storebot/internal/batch"
	"storebot/internal/domain"
	"storebot/internal/vision"
)

// SlackAPI is the subset of *slack.Client the notifier calls.
type SlackAPI interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
	UploadFileV2(params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
}

type Notifier struct {
	api     SlackAPI
	channel string
}

func NewNotifier(api SlackAPI, channel string) *Notifier {
	return &Notifier{api: api, channel: channel}
}

// digestOrder fixes the line order of the per-action breakdown.
var digestOrder = []domain.Action{
	domain.ActionChangeHours,
	domain.ActionTemporaryClosure,
	domain.ActionPermanentClosure,
	domain.ActionAddressChange,
	domain.ActionNoChange,
	domain.ActionError,
}

// SendDigest posts the run summary and, when the run produced any
// rows, uploads the workbook alongside it.
func (n *Notifier) SendDigest(runDate time.Time, summary batch.Summary, workbookPath string, usage vision.Usage) error {
	text := FormatDigest(runDate, summary, usage)
	if _, _, err := n.api.PostMessage(n.channel, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("posting digest: %w", err)
	}

	if summary.Total == 0 {
		log.Printf("notify digest posted channel=%s rows=0 (workbook upload skipped)", n.channel)
		return nil
	}

	fi, err := os.Stat(workbookPath)
	if err != nil {
		return fmt.Errorf("stating workbook: %w", err)
	}
	if fi.Size() <= 0 {
		return fmt.Errorf("workbook %s is empty", workbookPath)
	}

	_, err = n.api.UploadFileV2(slack.UploadFileV2Parameters{
		File:           workbookPath,
		FileSize:       int(fi.Size()),
		Filename:       filepath.Base(workbookPath),
		Channel:        n.channel,
		Title:          fmt.Sprintf("Store classifications %s", runDate.Format("2006-01-02")),
		InitialComment: fmt.Sprintf("Bulk-upload workbook for %d stores", summary.Total),
	})
	if err != nil {
		return fmt.Errorf("uploading workbook: %w", err)
	}
	log.Printf("notify digest posted channel=%s rows=%d file=%s", n.channel, summary.Total, workbookPath)
	return nil
}

// FormatDigest renders the summary message. Categories print in
// descending count order, ties alphabetical, so the digest is stable.
func FormatDigest(runDate time.Time, summary batch.Summary, usage vision.Usage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Store photo classification run %s: %d stores\n", runDate.Format("2006-01-02"), summary.Total)

	for _, action := range digestOrder {
		count := summary.Counts[action]
		if count == 0 {
			continue
		}
		fmt.Fprintf(&b, "• %s: %d (%.1f%%)\n", action, count, summary.Percent(action))
	}

	if len(summary.Categories) > 0 {
		type cat struct {
			label string
			count int
		}
		cats := make([]cat, 0, len(summary.Categories))
		for label, count := range summary.Categories {
			cats = append(cats, cat{label, count})
		}
		sort.Slice(cats, func(i, j int) bool {
			if cats[i].count != cats[j].count {
				return cats[i].count > cats[j].count
			}
			return cats[i].label < cats[j].label
		})
		b.WriteString("Top reasons:\n")
		limit := 5
		if len(cats) < limit {
			limit = len(cats)
		}
		for _, c := range cats[:limit] {
			fmt.Fprintf(&b, "    %s: %d\n", c.label, c.count)
		}
	}

	if usage.TotalTokens() > 0 {
		fmt.Fprintf(&b, "Tokens used: %s", formatTokenCount(usage.TotalTokens()))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTokenCount(tokens int64) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	rounded := (tokens + 50) / 100
	whole := rounded / 10
	decimal := rounded % 10
	if decimal == 0 {
		return fmt.Sprintf("%dk", whole)
	}
	return fmt.Sprintf("%d.%dk", whole, decimal)
}
