package config

import (
	"fmt"
	"math"
	"os"

	"popays-telegram/models"

	"gopkg.in/yaml.v3"
)

// defaultBranches is the built-in registry used when BRANCHES_FILE is not
// set. Coordinates are the two POPAYS branches in Qo'qon.
var defaultBranches = []models.Branch{
	{Key: "kosmonavt", Name: "Kosmonavt filiali", Address: "Kosmonavt", Lat: 40.522999, Lon: 70.956422},
	{Key: "derezlik", Name: "Derezlik filiali", Address: "Derezlik ko'chasi", Lat: 40.535181, Lon: 70.956138},
}

type branchFile struct {
	Branches []models.Branch `yaml:"branches"`
}

// LoadBranches returns the branch registry, from the YAML file named by
// BRANCHES_FILE or the built-in default. An empty or malformed registry is
// a configuration error; callers treat it as fatal at startup.
func LoadBranches() ([]models.Branch, error) {
	path := os.Getenv("BRANCHES_FILE")
	if path == "" {
		return validateBranches(defaultBranches)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read branches file: %w", err)
	}
	var f branchFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse branches file: %w", err)
	}
	return validateBranches(f.Branches)
}

func validateBranches(branches []models.Branch) ([]models.Branch, error) {
	if len(branches) == 0 {
		return nil, fmt.Errorf("branch registry is empty")
	}
	for _, b := range branches {
		if b.Name == "" {
			return nil, fmt.Errorf("branch %q has no name", b.Key)
		}
		if !isFinite(b.Lat) || !isFinite(b.Lon) || (b.Lat == 0 && b.Lon == 0) {
			return nil, fmt.Errorf("branch %q has invalid coordinates (%v, %v)", b.Key, b.Lat, b.Lon)
		}
	}
	return branches, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
