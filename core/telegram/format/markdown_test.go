package format

import "testing"

func TestEscapeMarkdownV1(t *testing.T) {
	got, err := EscapeMarkdown("a_b*c[d`e", MarkdownV1, "")
	if err != nil {
		t.Fatalf("escape: %v", err)
	}
	want := `a\_b\*c\[d` + "\\`" + `e`
	if got != want {
		t.Fatalf("escaped = %q, want %q", got, want)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("hello.world!", MarkdownV2, "")
	if err != nil {
		t.Fatalf("escape: %v", err)
	}
	if got != `hello\.world\!` {
		t.Fatalf("escaped = %q", got)
	}
}

func TestEscapeMarkdownUnknownVersion(t *testing.T) {
	if _, err := EscapeMarkdown("x", 3, ""); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}
