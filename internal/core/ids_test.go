package core

import "testing"

func TestFormatMemberID(t *testing.T) {
	cases := map[int]string{1: "MEMB-001", 42: "MEMB-042", 999: "MEMB-999", 1000: "MEMB-1000"}
	for n, want := range cases {
		if got := FormatMemberID(n); got != want {
			t.Errorf("FormatMemberID(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestParseMemberID(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"MEMB-001", 1, true},
		{"MEMB-1000", 1000, true},
		{"MEMB-", 0, false},
		{"MEMB-12a", 0, false},
		{"memb-001", 0, false},
		{"1700000000000", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseMemberID(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseMemberID(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDisplaySavingID(t *testing.T) {
	cases := map[string]string{
		"SAV-004": "SAV-004",
		"7":       "SAV-007",
		"12":      "SAV-012",
		"1234":    "SAV-1234",
	}
	for in, want := range cases {
		if got := DisplaySavingID(in); got != want {
			t.Errorf("DisplaySavingID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseSavingID(t *testing.T) {
	if n, ok := ParseSavingID("SAV-010"); !ok || n != 10 {
		t.Fatalf("unexpected parse: %d %v", n, ok)
	}
	if _, ok := ParseSavingID("10"); ok {
		t.Fatalf("bare number must not parse as formatted id")
	}
}
