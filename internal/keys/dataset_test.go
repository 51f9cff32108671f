package keys

import (
	"testing"
	"time"
)

func TestDataset(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.FixedZone("MSK", 3*3600))
	tests := []struct {
		selector string
		want     string
	}{
		{"russian", "datasets/russian/20240309T110507Z.json"},
		{"My Set", "datasets/my-set/20240309T110507Z.json"},
	}
	for _, tt := range tests {
		if got := Dataset(tt.selector, at); got != tt.want {
			t.Errorf("Dataset(%q) = %q, want %q", tt.selector, got, tt.want)
		}
	}
}
