package domain

import "testing"

func TestParseRegistrationID(t *testing.T) {
	id, err := ParseRegistrationID("42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != RegistrationID(42) {
		t.Fatalf("expected 42, got %v", id)
	}
}

func TestParseRegistrationIDRejectsZero(t *testing.T) {
	if _, err := ParseRegistrationID("0"); err == nil {
		t.Fatal("expected error for zero id")
	}
}

func TestParseRegistrationIDRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "abc", "-1", "1.5"} {
		if _, err := ParseRegistrationID(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestZeroValues(t *testing.T) {
	if !RegistrationID(0).IsZero() || RegistrationID(1).IsZero() {
		t.Fatal("RegistrationID zero check broken")
	}
	if !RequestID("").IsZero() || RequestID("req-1").IsZero() {
		t.Fatal("RequestID zero check broken")
	}
	if !Commitment("").IsZero() || Commitment("c1").IsZero() {
		t.Fatal("Commitment zero check broken")
	}
}
