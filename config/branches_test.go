package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBranches_Default(t *testing.T) {
	t.Setenv("BRANCHES_FILE", "")
	branches, err := LoadBranches()
	if err != nil {
		t.Fatalf("LoadBranches: %v", err)
	}
	if len(branches) != 2 {
		t.Fatalf("default registry has %d branches, want 2", len(branches))
	}
	if branches[0].Key != "kosmonavt" || branches[1].Key != "derezlik" {
		t.Errorf("unexpected default branches: %+v", branches)
	}
}

func TestLoadBranches_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "branches.yml")
	data := `branches:
  - key: markaz
    name: Markaz filiali
    address: Markaz
    lat: 40.5
    lon: 70.9
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BRANCHES_FILE", path)

	branches, err := LoadBranches()
	if err != nil {
		t.Fatalf("LoadBranches: %v", err)
	}
	if len(branches) != 1 || branches[0].Key != "markaz" {
		t.Errorf("unexpected branches: %+v", branches)
	}
}

func TestLoadBranches_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":       "branches: []\n",
		"no name":     "branches:\n  - key: x\n    lat: 40.5\n    lon: 70.9\n",
		"zero coords": "branches:\n  - key: x\n    name: X\n    lat: 0\n    lon: 0\n",
		"bad yaml":    "branches: [\n",
	}
	for name, data := range cases {
		path := filepath.Join(t.TempDir(), "branches.yml")
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("BRANCHES_FILE", path)
		if _, err := LoadBranches(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
