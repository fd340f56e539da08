package bot

import (
	"strings"
	"testing"

	"github.com/m3rciful/reportbot/report"
	"github.com/m3rciful/reportbot/storage"
)

func TestPromptMarkup(t *testing.T) {
	p := report.Prompt{
		Text: "pick one",
		Keyboard: [][]report.Button{
			{
				{Label: "✅ Confirm", Action: report.ActionConfirm},
				{Label: "❌ Cancel", Action: report.ActionCancel},
			},
		},
	}

	markup := promptMarkup(p)
	if markup == nil {
		t.Fatal("expected markup")
	}
	if len(markup.InlineKeyboard) != 1 || len(markup.InlineKeyboard[0]) != 2 {
		t.Fatalf("keyboard shape: %v", markup.InlineKeyboard)
	}
	btn := markup.InlineKeyboard[0][0]
	if btn.Text != "✅ Confirm" {
		t.Fatalf("button text = %q", btn.Text)
	}
	if btn.Unique != string(report.ActionConfirm) {
		t.Fatalf("button unique = %q, want %q", btn.Unique, report.ActionConfirm)
	}
}

func TestPromptMarkupEmpty(t *testing.T) {
	if m := promptMarkup(report.Prompt{Text: "plain"}); m != nil {
		t.Fatalf("expected nil markup, got %v", m)
	}
}

func TestMyReportsText(t *testing.T) {
	if got := myReportsText(nil); !strings.Contains(got, "no reports yet") {
		t.Fatalf("empty list text: %q", got)
	}

	resolved := "resolved"
	entries := []storage.Entry{
		{ReportID: "20250601120000-0001", Type: "user", Target: "@spammer", Reason: "spam", Verdict: &resolved},
		{ReportID: "20250601120100-0002", Type: "channel", Target: "@bad_channel", Reason: "illegal"},
	}
	got := myReportsText(entries)
	for _, want := range []string{
		"#20250601120000-0001",
		"@spammer",
		"Status: resolved",
		"#20250601120100-0002",
		"Status: pending",
		report.TypeChannel.Label(),
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("listing missing %q:\n%s", want, got)
		}
	}
}
