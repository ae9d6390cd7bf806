package session

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadProperties loads session properties from a YAML file at path,
// mirroring aretext's config.LoadRuleSet/app.LoadOrCreateConfig shape:
// read the file, unmarshal, wrap any failure with the failing call's
// name via github.com/pkg/errors rather than a bare fmt.Errorf. Missing
// fields in the file keep DefaultProperties' values, since Properties is
// unmarshaled directly onto a populated default rather than a zero value.
func LoadProperties(path string) (Properties, error) {
	props := DefaultProperties()

	data, err := os.ReadFile(path)
	if err != nil {
		return Properties{}, errors.Wrapf(err, "os.ReadFile")
	}

	if err := yaml.Unmarshal(data, &props); err != nil {
		return Properties{}, errors.Wrapf(err, "yaml.Unmarshal")
	}

	return props, nil
}

// SaveProperties writes props to path as YAML, creating the containing
// directory if needed.
func SaveProperties(path string, props Properties) error {
	data, err := yaml.Marshal(props)
	if err != nil {
		return errors.Wrapf(err, "yaml.Marshal")
	}

	dirPath := filepath.Dir(path)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return errors.Wrapf(err, "os.MkdirAll")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "os.WriteFile")
	}

	return nil
}
