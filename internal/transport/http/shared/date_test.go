package shared

import (
	"testing"
	"time"
)

func TestParseDatePlainDate(t *testing.T) {
	parsed, err := ParseDate(" 2025-06-15 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Fatalf("expected %s, got %s", want.Format(time.DateOnly), parsed.Format(time.DateOnly))
	}
}

func TestParseDateRFC3339(t *testing.T) {
	parsed, err := ParseDate("2025-06-15T09:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Day() != 15 {
		t.Fatalf("expected June 15, got %v", parsed)
	}
}

func TestParseDateRejectsBlank(t *testing.T) {
	if _, err := ParseDate("   "); err == nil {
		t.Fatal("expected error for blank date")
	}
}

func TestValidatorDateCollectsIssue(t *testing.T) {
	v := NewValidator()
	if _, ok := v.Date("from", "junk"); ok {
		t.Fatal("expected malformed date rejected")
	}
	if !v.HasIssues() {
		t.Fatal("expected a recorded issue")
	}
	if issues := v.Issues(); issues[0].Field != "from" {
		t.Fatalf("expected issue on from, got %s", issues[0].Field)
	}
}
