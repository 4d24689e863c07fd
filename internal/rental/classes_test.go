package rental

import (
	"testing"
	"time"
)

func TestDigitalDuration(t *testing.T) {
	cases := []struct {
		in        string
		wantClass string
		wantDur   time.Duration
	}{
		{"SINGLE_READ", ClassSingleRead, 24 * time.Hour},
		{"TIME_LIMITED", ClassTimeLimited, 7 * 24 * time.Hour},
		{"UNLIMITED_READS", ClassUnlimitedReads, 30 * 24 * time.Hour},
		{"time_limited", ClassTimeLimited, 7 * 24 * time.Hour},
		{"", ClassSingleRead, 24 * time.Hour},
		{"bogus", ClassSingleRead, 24 * time.Hour},
	}
	for _, c := range cases {
		class, dur := DigitalDuration(c.in)
		if class != c.wantClass || dur != c.wantDur {
			t.Fatalf("DigitalDuration(%q) = %s %s, want %s %s", c.in, class, dur, c.wantClass, c.wantDur)
		}
	}
}

func TestHardcopyTerms(t *testing.T) {
	cases := []struct {
		in        string
		wantClass string
		wantDur   time.Duration
		wantBps   int64
	}{
		{"SHORT_TERM", ClassShortTerm, 7 * 24 * time.Hour, 1500},
		{"MEDIUM_TERM", ClassMediumTerm, 14 * 24 * time.Hour, 2500},
		{"LONG_TERM", ClassLongTerm, 30 * 24 * time.Hour, 4000},
		{"EXTENDED_TERM", ClassExtendedTerm, 60 * 24 * time.Hour, 6000},
		{"", ClassShortTerm, 7 * 24 * time.Hour, 1500},
		{"weird", ClassShortTerm, 7 * 24 * time.Hour, 1500},
	}
	for _, c := range cases {
		class, dur, bps := HardcopyTerms(c.in)
		if class != c.wantClass || dur != c.wantDur || bps != c.wantBps {
			t.Fatalf("HardcopyTerms(%q) = %s %s %d, want %s %s %d", c.in, class, dur, bps, c.wantClass, c.wantDur, c.wantBps)
		}
	}
}

func TestGuaranteeAmount(t *testing.T) {
	if got := GuaranteeAmount(10000, 8000); got != 8000 {
		t.Fatalf("expected 8000, got %d", got)
	}
	if got := GuaranteeAmount(10000, 0); got != 8000 {
		t.Fatalf("zero bps should fall back to default, got %d", got)
	}
	if got := GuaranteeAmount(0, 8000); got != 0 {
		t.Fatalf("zero list price should yield 0, got %d", got)
	}
}

func TestRentalFee(t *testing.T) {
	if got := RentalFee(10000, 1500); got != 1500 {
		t.Fatalf("expected 1500, got %d", got)
	}
	if got := RentalFee(9999, 2500); got != 2499 {
		t.Fatalf("expected truncation to 2499, got %d", got)
	}
	if got := RentalFee(0, 1500); got != 0 {
		t.Fatalf("expected 0 for free book, got %d", got)
	}
}
