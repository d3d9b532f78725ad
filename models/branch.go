package models

// Branch is one restaurant branch from the branch registry. The registry is
// loaded once at startup and never mutated at runtime.
type Branch struct {
	Key     string  `yaml:"key"`
	Name    string  `yaml:"name"`
	Address string  `yaml:"address"`
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
}
