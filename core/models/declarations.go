package models

// Global is a compile-time constant exposed to extension code.
type Global struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
	Type  string `yaml:"type"`
}

// Import is a single auto-import. As overrides the declared name when set.
type Import struct {
	Name string `yaml:"name"`
	As   string `yaml:"as,omitempty"`
	From string `yaml:"from"`
}

func (i Import) DeclaredName() string {
	if i.As != "" {
		return i.As
	}
	return i.Name
}
