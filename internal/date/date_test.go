package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBucketKeys(t *testing.T) {
	d := New(2024, time.March, 5)
	if got := d.DayKey(); got != "2024-03-05" {
		t.Errorf("DayKey = %q, want 2024-03-05", got)
	}
	if got := d.MonthKey(); got != "2024-03" {
		t.Errorf("MonthKey = %q, want 2024-03", got)
	}
	if got := d.YearKey(); got != "2024" {
		t.Errorf("YearKey = %q, want 2024", got)
	}
}

func TestFromTimeNormalizesToMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	d := FromTime(time.Date(2024, time.December, 31, 23, 59, 0, 0, loc))
	if d.DayKey() != "2024-12-31" {
		t.Errorf("DayKey = %q, want 2024-12-31", d.DayKey())
	}
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Errorf("expected midnight, got %s", d.Format(time.RFC3339))
	}
}

func TestLabelFromKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"2024-03-05", "5 March 2024"},
		{"2024-03", "March 2024"},
		{"2024", "2024"},
		{"not-a-date", "not-a-date"},
	}
	for _, tt := range tests {
		if got := LabelFromKey(tt.key); got != tt.want {
			t.Errorf("LabelFromKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestParseRelative(t *testing.T) {
	now := time.Date(2024, time.March, 5, 15, 4, 0, 0, time.UTC)
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"today", "2024-03-05", false},
		{"tomorrow", "2024-03-06", false},
		{"yesterday", "2024-03-04", false},
		{"+3d", "2024-03-08", false},
		{"-1w", "2024-02-27", false},
		{"2025-01-01", "2025-01-01", false},
		{"+3m", "", true},
		{"soon", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRelative(tt.in, now)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRelative(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRelative(%q): %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseRelative(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	in := New(2024, time.March, 20)
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2024-03-20"` {
		t.Fatalf("marshal = %s", data)
	}
	var out Date
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Equal(in.Time) {
		t.Errorf("round trip = %s, want %s", out, in)
	}
}
