package generate

import (
	"testing"
)

func TestExtractArray(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantLen int
		wantErr bool
	}{
		{"bare array", `[1, 2]`, 2, false},
		{"json fence", "```json\n[{\"a\": 1}]\n```", 1, false},
		{"plain fence", "```\n[1, 2, 3]\n```", 3, false},
		{"wrapped by key", `{"slides": [1, 2]}`, 2, false},
		{"wrapped by other key", `{"items": [1]}`, 1, false},
		{"prose around array", "Here you go:\n[1, 2]\nEnjoy!", 2, false},
		{"two arrays in object", `{"a": [1], "b": [2]}`, 0, true},
		{"scalar", `42`, 0, true},
		{"garbage", `not json`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractArray(tt.text, "slides")
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractArray() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.wantLen {
				t.Errorf("extractArray() len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestStripFence(t *testing.T) {
	if got := stripFence("  [1]  "); got != "[1]" {
		t.Errorf("stripFence() = %q", got)
	}
	if got := stripFence("```json\n[1]\n```\n"); got != "[1]" {
		t.Errorf("stripFence() = %q", got)
	}
}
