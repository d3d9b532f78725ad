package services

import (
	"math"
	"testing"

	"popays-telegram/models"
)

func TestHaversineDistanceKm(t *testing.T) {
	// Identity: zero distance from a point to itself.
	pts := [][2]float64{
		{0, 0},
		{40.522999, 70.956422},
		{-33.8688, 151.2093},
		{89.9, 179.9},
	}
	for _, p := range pts {
		if d := HaversineDistanceKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("distance(%v, %v to itself) = %v, want 0", p[0], p[1], d)
		}
	}

	// Symmetry.
	d1 := HaversineDistanceKm(40.522999, 70.956422, 40.535181, 70.956138)
	d2 := HaversineDistanceKm(40.535181, 70.956138, 40.522999, 70.956422)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}

	// Non-negative and plausible: the two branches are under 2km apart.
	if d1 < 0 {
		t.Errorf("distance negative: %v", d1)
	}
	if d1 > 2 {
		t.Errorf("branch-to-branch distance %v km, expected under 2", d1)
	}

	// One degree of latitude is about 111km.
	d := HaversineDistanceKm(0, 0, 1, 0)
	if d < 110 || d > 112 {
		t.Errorf("1 degree latitude = %v km, want ~111", d)
	}
}

func TestNearestBranch(t *testing.T) {
	branches := []models.Branch{
		{Key: "a", Name: "A", Lat: 0, Lon: 0},
		{Key: "b", Name: "B", Lat: 1, Lon: 1},
	}

	got, dist, err := NearestBranch(0, 0.0001, branches)
	if err != nil {
		t.Fatalf("NearestBranch: %v", err)
	}
	if got.Name != "A" {
		t.Errorf("nearest = %s, want A", got.Name)
	}
	if dist < 0 {
		t.Errorf("distance negative: %v", dist)
	}

	got, _, err = NearestBranch(1.0001, 1, branches)
	if err != nil {
		t.Fatalf("NearestBranch: %v", err)
	}
	if got.Name != "B" {
		t.Errorf("nearest = %s, want B", got.Name)
	}
}

func TestNearestBranch_TieKeepsFirst(t *testing.T) {
	// Equidistant branches: the first registered one must win.
	branches := []models.Branch{
		{Key: "a", Name: "A", Lat: 1, Lon: 0},
		{Key: "b", Name: "B", Lat: -1, Lon: 0},
	}
	got, _, err := NearestBranch(0, 0, branches)
	if err != nil {
		t.Fatalf("NearestBranch: %v", err)
	}
	if got.Name != "A" {
		t.Errorf("tie broke to %s, want first registered A", got.Name)
	}
}

func TestNearestBranch_EmptyRegistry(t *testing.T) {
	if _, _, err := NearestBranch(0, 0, nil); err == nil {
		t.Error("expected error for empty branch registry")
	}
}
