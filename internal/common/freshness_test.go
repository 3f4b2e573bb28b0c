package common

import (
	"testing"
	"time"
)

func TestIsFresh(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name    string
		updated time.Time
		ttl     time.Duration
		want    bool
	}{
		{"just updated", now, 5 * time.Minute, true},
		{"within window", now.Add(-4 * time.Minute), 5 * time.Minute, true},
		{"past window", now.Add(-6 * time.Minute), 5 * time.Minute, false},
		{"zero time never fresh", time.Time{}, 5 * time.Minute, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsFresh(tc.updated, tc.ttl); got != tc.want {
				t.Errorf("IsFresh(%v, %v) = %v, want %v", tc.updated, tc.ttl, got, tc.want)
			}
		})
	}
}
