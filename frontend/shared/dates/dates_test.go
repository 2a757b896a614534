package dates

import (
	"testing"
	"time"
)

func TestToDisplayAndBack(t *testing.T) {
	cases := []struct {
		iso     string
		display string
	}{
		{iso: "2024-05-01", display: "01/05/2024"},
		{iso: "2026-12-31", display: "31/12/2026"},
		{iso: "2024-02-29", display: "29/02/2024"},
	}
	for _, tc := range cases {
		got, err := ToDisplay(tc.iso)
		if err != nil || got != tc.display {
			t.Fatalf("ToDisplay(%q) = %q, %v; want %q", tc.iso, got, err, tc.display)
		}
		back, err := ToISO(got)
		if err != nil || back != tc.iso {
			t.Fatalf("ToISO(%q) = %q, %v; want %q", got, back, err, tc.iso)
		}
	}
}

func TestConversionsPassThroughAndEmpty(t *testing.T) {
	if got, _ := ToDisplay("01/05/2024"); got != "01/05/2024" {
		t.Fatalf("display passthrough: %q", got)
	}
	if got, _ := ToISO("2024-05-01"); got != "2024-05-01" {
		t.Fatalf("iso passthrough: %q", got)
	}
	if got, _ := ToDisplay("2024-05-01 10:22:00"); got != "01/05/2024" {
		t.Fatalf("datetime input: %q", got)
	}
	if got, err := ToDisplay(""); got != "" || err != nil {
		t.Fatalf("empty: %q %v", got, err)
	}
	if _, err := ToDisplay("2024-13-01"); err == nil {
		t.Fatalf("expected invalid month error")
	}
	if _, err := ToISO("31/02/2024"); err == nil {
		t.Fatalf("expected invalid day error")
	}
	if got := DisplayOrRaw("soon"); got != "soon" {
		t.Fatalf("DisplayOrRaw: %q", got)
	}
	if got := ISOOrEmpty("soon"); got != "" {
		t.Fatalf("ISOOrEmpty: %q", got)
	}
}

func TestIsOverdue(t *testing.T) {
	today := time.Date(2026, 3, 15, 16, 45, 0, 0, time.UTC)
	cases := []struct {
		date string
		want bool
	}{
		{date: "15/03/2026", want: true},
		{date: "14/03/2026", want: true},
		{date: "01/01/2020", want: true},
		{date: "16/03/2026", want: false},
		{date: "15/03/2027", want: false},
		{date: "", want: false},
		{date: "2026-03-10", want: false},
	}
	for _, tc := range cases {
		if got := IsOverdue(tc.date, today); got != tc.want {
			t.Fatalf("IsOverdue(%q) = %v, want %v", tc.date, got, tc.want)
		}
	}
}
