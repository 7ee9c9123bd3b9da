package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadFile merges profiles from a YAML file into the registry. File entries
// replace builtin profiles with the same name, so a deployment can correct a
// site's locators without a rebuild.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profiles file: %w", err)
	}
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse profiles file: %w", err)
	}
	for _, p := range f.Profiles {
		if p.Name == "" {
			return fmt.Errorf("profiles file %s: profile without a name", path)
		}
		r.Register(p)
	}
	return nil
}
