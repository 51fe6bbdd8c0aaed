package heartfall

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var defaultProfilesYAML []byte

// DefaultProfiles returns the built-in desktop and mobile profiles.
func DefaultProfiles() ProfileSet {
	set, err := ParseProfiles(defaultProfilesYAML)
	if err != nil {
		panic(fmt.Sprintf("heartfall: embedded profiles: %v", err))
	}
	return set
}

// ParseProfiles decodes YAML on top of the built-in defaults, so a file only
// needs to name the values it changes. Unknown keys are rejected.
func ParseProfiles(data []byte) (ProfileSet, error) {
	var set ProfileSet
	if err := decodeStrict(defaultProfilesYAML, &set); err != nil {
		return ProfileSet{}, fmt.Errorf("parse default profiles: %w", err)
	}
	if !bytes.Equal(data, defaultProfilesYAML) {
		if err := decodeStrict(data, &set); err != nil {
			return ProfileSet{}, fmt.Errorf("parse profiles: %w", err)
		}
	}
	if err := set.Validate(); err != nil {
		return ProfileSet{}, fmt.Errorf("invalid profiles: %w", err)
	}
	return set, nil
}

// LoadProfiles reads a YAML profile file. An empty path returns the defaults.
func LoadProfiles(path string) (ProfileSet, error) {
	if path == "" {
		return DefaultProfiles(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ProfileSet{}, fmt.Errorf("read profiles: %w", err)
	}
	return ParseProfiles(data)
}

func decodeStrict(data []byte, out *ProfileSet) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		// An empty document leaves the defaults untouched.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
