package models

import (
	"math"
	"testing"
)

func TestLocation_Valid(t *testing.T) {
	tests := []struct {
		loc  Location
		want bool
	}{
		{Location{Lat: 51.5155, Lon: -0.0922}, true},
		{Location{Lat: -90, Lon: 180}, true},
		{Location{Lat: 90.1, Lon: 0}, false},
		{Location{Lat: 0, Lon: -180.5}, false},
		{Location{Lat: math.NaN(), Lon: 0}, false},
		{Location{Lat: 0, Lon: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		if got := tt.loc.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.loc, got, tt.want)
		}
	}
}

func TestAddress_HasPin(t *testing.T) {
	if (Address{}).HasPin() {
		t.Fatal("zero address reports a pin")
	}
	if !(Address{Pin: Location{Lat: 51.5, Lon: -0.1}}).HasPin() {
		t.Fatal("pinned address reports no pin")
	}
	if (Address{Pin: Location{Lat: 200}}).HasPin() {
		t.Fatal("out of range pin accepted")
	}
}
