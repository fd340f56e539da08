package report

import (
	"regexp"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestAdminTextContents(t *testing.T) {
	c := Completed{
		ID:       "20250601120000-0001",
		Reporter: Reporter{ID: 7, FullName: "Test User"},
		Draft: Draft{
			Type:    TypeChannel,
			Target:  "https://t.me/bad_channel",
			Reason:  ReasonIllegal,
			Details: "pirated content",
		},
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	text := c.AdminText()
	for _, want := range []string{
		"🚨 **NEW REPORT**",
		"#20250601120000-0001",
		"2025-06-01 12:00:00",
		"(ID: `7`)",
		TypeChannel.Label(),
		"https://t.me/bad_channel",
		"Illegal",
		"pirated content",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("admin text missing %q:\n%s", want, text)
		}
	}
}

func TestAdminTextEscapesReporterName(t *testing.T) {
	c := Completed{
		Reporter: Reporter{ID: 7, FullName: "evil_*name*"},
		Draft:    Draft{Type: TypeUser, Target: "@spammer", Reason: ReasonSpam, Details: "x"},
	}
	text := c.AdminText()
	if strings.Contains(text, "evil_*name*") {
		t.Fatalf("reporter name not escaped:\n%s", text)
	}
}

func TestSummaryTruncatesDetails(t *testing.T) {
	d := Draft{
		Type:    TypeUser,
		Target:  "@spammer",
		Reason:  ReasonSpam,
		Details: strings.Repeat("a", 300),
	}
	text := summaryText(d)
	if strings.Contains(text, strings.Repeat("a", 201)) {
		t.Fatal("summary preview should be capped at 200 characters")
	}
	if !strings.Contains(text, strings.Repeat("a", 200)) {
		t.Fatal("summary preview should keep the first 200 characters")
	}
}

func TestSummaryTruncatesOnRuneBoundary(t *testing.T) {
	d := Draft{
		Type:    TypeUser,
		Target:  "@spammer",
		Reason:  ReasonSpam,
		Details: strings.Repeat("€", 300),
	}
	text := summaryText(d)
	if !utf8.ValidString(text) {
		t.Fatal("summary contains invalid UTF-8 after preview truncation")
	}
	if strings.Contains(text, strings.Repeat("€", 201)) {
		t.Fatal("preview should be capped at 200 runes")
	}
	if !strings.Contains(text, strings.Repeat("€", 200)) {
		t.Fatal("preview should keep the first 200 runes intact")
	}
}

func TestSummaryShortDetailsUntouched(t *testing.T) {
	d := Draft{Type: TypeUser, Target: "@spammer", Reason: ReasonSpam, Details: "short"}
	if text := summaryText(d); !strings.Contains(text, "**Details:** short") {
		t.Fatalf("summary: %q", text)
	}
}

func TestCooldownTextFloorsToOneSecond(t *testing.T) {
	if got := CooldownText(300 * time.Millisecond); !strings.Contains(got, "wait 1 seconds") {
		t.Fatalf("cooldown text: %q", got)
	}
}

func TestReasonTitle(t *testing.T) {
	if got := ReasonSpam.Title(); got != "Spam" {
		t.Fatalf("title = %q, want Spam", got)
	}
	if got := ReasonIllegal.Title(); got != "Illegal" {
		t.Fatalf("title = %q, want Illegal", got)
	}
}

func TestNewReportIDFormatAndUniqueness(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	re := regexp.MustCompile(`^20250601120000-\d{4}$`)

	a := NewReportID(now)
	b := NewReportID(now)
	if !re.MatchString(a) || !re.MatchString(b) {
		t.Fatalf("unexpected id format: %s / %s", a, b)
	}
	if a == b {
		t.Fatalf("ids from the same instant must differ: %s", a)
	}
}
