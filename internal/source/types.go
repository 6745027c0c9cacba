package source

// RawLog is one meal-log YAML document.
type RawLog struct {
	User  string    `yaml:"user"`
	Meals []RawMeal `yaml:"meals"`
}

// RawMeal is a single meal entry as written in a log file.
type RawMeal struct {
	ID    string  `yaml:"id,omitempty"`
	Type  string  `yaml:"type"`
	Cost  float64 `yaml:"cost"`
	Date  string  `yaml:"date"`
	Notes string  `yaml:"notes,omitempty"`
}

// DiscoveredFile is a meal-log file found during directory scanning.
type DiscoveredFile struct {
	Path string
	Name string // file name without extension
}
