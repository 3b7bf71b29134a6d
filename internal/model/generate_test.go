package model

import "testing"

func TestModeCost(t *testing.T) {
	tests := []struct {
		mode Mode
		want int64
	}{
		{ModeText, 1},
		{ModeImage, 2},
	}

	for _, tt := range tests {
		if got := tt.mode.Cost(); got != tt.want {
			t.Errorf("Cost(%s) = %d, want %d", tt.mode, got, tt.want)
		}
	}
}

func TestModeIsValid(t *testing.T) {
	if !ModeText.IsValid() || !ModeImage.IsValid() {
		t.Error("text and image modes should be valid")
	}
	if Mode("video").IsValid() {
		t.Error("unknown mode should be invalid")
	}
}
