package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "valid timezone America/Chicago", timezone: "America/Chicago"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
			if got := ValidateTimezone(tt.timezone); got == tt.wantErr {
				t.Errorf("ValidateTimezone(%q) = %v", tt.timezone, got)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		hour, minute int
		want         string
	}{
		{0, 5, "12:05 AM"},
		{9, 30, "9:30 AM"},
		{12, 0, "12:00 PM"},
		{21, 7, "9:07 PM"},
	}
	for _, tt := range tests {
		now := time.Date(2026, 1, 1, tt.hour, tt.minute, 0, 0, time.UTC)
		if got := FormatClock(now); got != tt.want {
			t.Errorf("FormatClock(%02d:%02d) = %q, want %q", tt.hour, tt.minute, got, tt.want)
		}
	}
}

func TestFormatShortDate(t *testing.T) {
	if got := FormatShortDate("2026-03-09"); got != "Mar 9" {
		t.Errorf("FormatShortDate() = %q, want %q", got, "Mar 9")
	}
	if got := FormatShortDate("someday"); got != "someday" {
		t.Errorf("FormatShortDate(invalid) = %q, want input unchanged", got)
	}
}

func TestFormatLongDate(t *testing.T) {
	d := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	if got := FormatLongDate(d); got != "Friday, October 16" {
		t.Errorf("FormatLongDate() = %q", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "iso with offset",
			input: "2026-03-09T07:15:00-05:00",
			want:  time.Date(2026, 3, 9, 12, 15, 0, 0, time.UTC),
		},
		{
			name:  "iso without offset uses location",
			input: "2026-03-09T07:15:00",
			want:  time.Date(2026, 3, 9, 7, 15, 0, 0, loc),
		},
		{
			name:  "space separated",
			input: "2026-03-09 07:15",
			want:  time.Date(2026, 3, 9, 7, 15, 0, 0, loc),
		},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "not a time", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input, loc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestamp() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2026, 1, 18, 23, 0, 0, 0, time.UTC)
	tests := []struct {
		start time.Time
		want  int
	}{
		{time.Date(2026, 1, 18, 1, 0, 0, 0, time.UTC), 0},
		{time.Date(2026, 1, 17, 23, 59, 0, 0, time.UTC), 1},
		{time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC), 365},
	}
	for _, tt := range tests {
		if got := DaysSince(tt.start, now); got != tt.want {
			t.Errorf("DaysSince(%v) = %d, want %d", tt.start, got, tt.want)
		}
	}
}
