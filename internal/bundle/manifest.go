package bundle

import "fmt"

// Manifest describes the bundle contents.
type Manifest struct {
	Name      string   `yaml:"name"`
	Language  string   `yaml:"language"`
	Version   string   `yaml:"version"`
	Detectors []string `yaml:"detectors,omitempty"`
}

var knownDetectors = map[string]bool{
	"double-word":  true,
	"double-space": true,
}

func (m *Manifest) validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest: name is required")
	}
	if m.Language == "" {
		return fmt.Errorf("manifest: language is required")
	}
	for _, d := range m.Detectors {
		if !knownDetectors[d] {
			return fmt.Errorf("manifest: unknown detector %q", d)
		}
	}
	return nil
}
