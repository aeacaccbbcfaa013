package utils

import (
	"image/color"
	"math"
	"testing"
)

func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"终点", 1.0, 1.0},
		{"中点", 0.5, 0.875},
		{"越界", 2.0, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EaseOutCubic(tt.input); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("EaseOutCubic(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEaseInQuad(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"中点", 0.5, 0.25},
		{"终点", 1.0, 1.0},
		{"负值", -1.0, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EaseInQuad(tt.input); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("EaseInQuad(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(10, 20, 0.25); got != 12.5 {
		t.Errorf("Lerp = %v, want 12.5", got)
	}
}

func TestLerpRGBA(t *testing.T) {
	a := color.RGBA{R: 0, G: 100, B: 200, A: 255}
	b := color.RGBA{R: 100, G: 0, B: 200, A: 255}
	got := LerpRGBA(a, b, 0.5)
	want := color.RGBA{R: 50, G: 50, B: 200, A: 255}
	if got != want {
		t.Errorf("LerpRGBA = %v, want %v", got, want)
	}
	if got := LerpRGBA(a, b, 3); got != b {
		t.Errorf("LerpRGBA should clamp t: got %v", got)
	}
}
