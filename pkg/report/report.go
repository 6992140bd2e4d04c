// Package report writes healing ledgers to disk for CI artifacts.
package report

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/heal/pkg/heal"
)

// DirSink implements heal.AttachmentSink by writing each attachment to a
// file in a directory.
type DirSink struct {
	outputDir string
}

// NewDirSink creates a sink writing into outputDir.
func NewDirSink(outputDir string) *DirSink {
	return &DirSink{outputDir: outputDir}
}

// Attach writes body to <outputDir>/<name><ext>, with the extension derived
// from contentType.
func (s *DirSink) Attach(name, contentType string, body []byte) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid attachment name %q", name)
	}
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(s.outputDir, name+extensionFor(contentType))
	if err := os.WriteFile(path, body, 0600); err != nil {
		return fmt.Errorf("failed to write attachment: %w", err)
	}
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "application/json":
		return ".json"
	case "text/markdown":
		return ".md"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// Metrics summarizes a healing ledger.
type Metrics struct {
	Resolutions int `json:"resolutions"`
	Direct      int `json:"direct"`
	Healed      int `json:"healed"`
	NotFound    int `json:"not_found"`
}

// Summarize counts direct hits, healed resolutions and failures.
func Summarize(entries []heal.HealedEntry) Metrics {
	m := Metrics{Resolutions: len(entries)}
	for _, e := range entries {
		switch {
		case !e.Found():
			m.NotFound++
		case e.Healed():
			m.Healed++
		default:
			m.Direct++
		}
	}
	return m
}

// Summary is the run-level report written next to the healing log.
type Summary struct {
	RunID     string             `json:"run_id"`
	Plan      string             `json:"plan"`
	StartTime time.Time          `json:"start_time"`
	EndTime   time.Time          `json:"end_time"`
	Duration  time.Duration      `json:"duration"`
	Metrics   Metrics            `json:"metrics"`
	Entries   []heal.HealedEntry `json:"entries"`
}

// NewSummary builds a summary for a finished run.
func NewSummary(plan string, start, end time.Time, entries []heal.HealedEntry) *Summary {
	return &Summary{
		RunID:     uuid.New().String(),
		Plan:      plan,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		Metrics:   Summarize(entries),
		Entries:   entries,
	}
}

// WriteMetricsJSON writes the summary metrics as JSON through sink.
func WriteMetricsJSON(sink heal.AttachmentSink, summary *Summary) error {
	data, err := json.MarshalIndent(struct {
		RunID string `json:"run_id"`
		Metrics
	}{summary.RunID, summary.Metrics}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	return sink.Attach("metrics", "application/json", data)
}

// WriteSummaryMarkdown renders a human-readable summary through sink.
func WriteSummaryMarkdown(sink heal.AttachmentSink, summary *Summary) error {
	var md strings.Builder

	md.WriteString("# Self-Healing Locator Summary\n\n")
	md.WriteString(fmt.Sprintf("**Plan:** %s\n\n", summary.Plan))
	md.WriteString(fmt.Sprintf("**Run:** %s\n\n", summary.RunID))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration))

	md.WriteString("## Metrics\n\n")
	md.WriteString(fmt.Sprintf("- **Resolutions:** %d\n", summary.Metrics.Resolutions))
	md.WriteString(fmt.Sprintf("- **Direct:** %d\n", summary.Metrics.Direct))
	md.WriteString(fmt.Sprintf("- **Healed:** %d\n", summary.Metrics.Healed))
	md.WriteString(fmt.Sprintf("- **Not Found:** %d\n\n", summary.Metrics.NotFound))

	if len(summary.Entries) > 0 {
		md.WriteString("## Resolutions\n\n")
		md.WriteString("| | Element | Used selector | Reason | Tried |\n")
		md.WriteString("|---|---|---|---|---|\n")
		for _, e := range summary.Entries {
			status := "✅"
			switch {
			case !e.Found():
				status = "❌"
			case e.Healed():
				status = "🩹"
			}
			key := e.Key
			if key == "" {
				key = "(unnamed)"
			}
			md.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d |\n",
				status, escapeCell(key), codeCell(e.UsedSelector), e.Reason, len(e.TriedSelectors)))
		}
		md.WriteString("\n")
	}

	return sink.Attach("summary", "text/markdown", []byte(md.String()))
}

// escapeCell makes s safe for a table cell: pipes would split the cell and
// angle brackets would be read as HTML.
func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "<", "&lt;", ">", "&gt;").Replace(s)
}

// codeCell renders s as a code span. The fence is one backtick longer than
// the longest backtick run in s, padded when s starts or ends with one.
func codeCell(s string) string {
	if s == "" {
		return "-"
	}

	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	body := strings.ReplaceAll(s, "|", `\|`)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		body = " " + body + " "
	}
	fence := strings.Repeat("`", longest+1)
	return fence + body + fence
}
