package timeutil

import (
	"testing"
	"time"
)

func TestUptime(t *testing.T) {
	tests := map[string]struct {
		in   time.Duration
		want string
	}{
		"zero":       {in: 0, want: "0s"},
		"negative":   {in: -time.Second, want: "0s"},
		"sub second": {in: 900 * time.Millisecond, want: "0s"},
		"seconds":    {in: 42 * time.Second, want: "42s"},
		"minutes":    {in: 3*time.Minute + 5*time.Second, want: "3m 5s"},
		"hours":      {in: 2*time.Hour + 7*time.Second, want: "2h 0m 7s"},
		"many hours": {in: 49*time.Hour + 59*time.Minute, want: "49h 59m 0s"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Uptime(tc.in); got != tc.want {
				t.Fatalf("Uptime(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	lo, hi := 100*time.Millisecond, 400*time.Millisecond
	if got := Clamp(50*time.Millisecond, lo, hi); got != lo {
		t.Fatalf("expected %v, got %v", lo, got)
	}
	if got := Clamp(time.Second, lo, hi); got != hi {
		t.Fatalf("expected %v, got %v", hi, got)
	}
	if got := Clamp(200*time.Millisecond, lo, hi); got != 200*time.Millisecond {
		t.Fatalf("expected passthrough, got %v", got)
	}
	if got := Clamp(time.Second, hi, lo); got != hi {
		t.Fatalf("inverted range should collapse to lo, got %v", got)
	}
}
