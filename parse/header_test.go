package parse

import (
	"testing"

	"github.com/tsawler/startlist/model"
)

func TestHeaderDetector_Detect(t *testing.T) {
	tests := []struct {
		line   string
		want   model.ClassLabel
		wantOK bool
	}{
		{"J 15 år  5 km, fri", "J 15 år", true},
		{"Menn senior, 15 km klassisk", "Menn senior", true},
		{"Kvinner 17 år 7,5 km fri", "Kvinner 17 år", true},
		{"Gutter 16 år 10km", "Gutter 16 år", true},
		{"   K 19-20 år  10 km   ", "K 19-20 år", true},
		{"113   Edvard   Ski km   11:00:00", "", false},
		{"Startliste Herrer", "", false},
		{"Løypa er km-merket", "", false},
		{"5 km", "", false},
		{",  5 km", "", false},
		{"", "", false},
	}

	d := NewHeaderDetector("")
	for _, tt := range tests {
		got, ok := d.Detect(tt.line)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Detect(%q) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestHeaderDetector_CustomUnit(t *testing.T) {
	d := NewHeaderDetector("mi")
	if d.Unit() != "mi" {
		t.Fatalf("Unit() = %q, want mi", d.Unit())
	}

	got, ok := d.Detect("Boys 12  3 mi")
	if !ok || got != "Boys 12" {
		t.Errorf("Detect = %q, %v; want Boys 12, true", got, ok)
	}

	if _, ok := d.Detect("J 15 år  5 km, fri"); ok {
		t.Error("km header must not match a mi detector")
	}
}

func TestNewHeaderDetector_DefaultUnit(t *testing.T) {
	if got := NewHeaderDetector("").Unit(); got != DefaultDistanceUnit {
		t.Errorf("Unit() = %q, want %q", got, DefaultDistanceUnit)
	}
}
