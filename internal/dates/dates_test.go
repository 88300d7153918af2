package dates

import "testing"

func TestParse_CanonicalAndLegacy(t *testing.T) {
	cases := []struct {
		in   string
		want Day
		ok   bool
	}{
		{"2026-08-29", "2026-08-29", true},
		{"29-08-2026", "2026-08-29", true},
		{"01-02-2026", "2026-02-01", true},
		{"", "", true},
		{"  2026-08-29  ", "2026-08-29", true},
		{"2026/08/29", "", false},
		{"garbage", "", false},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got %q", tc.in, got)
			}
			continue
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		from, to Day
		want     int
	}{
		{"2026-08-28", "2026-08-29", 1},
		{"2026-08-29", "2026-08-29", 0},
		{"2026-08-25", "2026-08-29", 4},
		{"2026-08-29", "2026-08-28", -1},
		{"2026-12-31", "2027-01-01", 1},
		{"", "2026-08-29", 0},
	}
	for _, tc := range cases {
		if got := DaysBetween(tc.from, tc.to); got != tc.want {
			t.Fatalf("DaysBetween(%q, %q) = %d, want %d", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestDay_Before(t *testing.T) {
	if !Day("2026-08-28").Before("2026-08-29") {
		t.Fatal("expected 2026-08-28 before 2026-08-29")
	}
	if Day("2026-08-29").Before("2026-08-29") {
		t.Fatal("a day is not before itself")
	}
	if Day("").Before("2026-08-29") {
		t.Fatal("unset day must not compare as before")
	}
}
