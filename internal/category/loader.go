package category

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadFile reads an owner category table from a YAML, JSON or TOML file.
// The file holds a top-level "mappings" list.
func LoadFile(path string) ([]Mapping, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading category mappings: %w", err)
	}

	var mappings []Mapping
	if err := v.UnmarshalKey("mappings", &mappings); err != nil {
		return nil, fmt.Errorf("error decoding category mappings: %w", err)
	}
	if len(mappings) == 0 {
		return nil, fmt.Errorf("category mappings file %s has no mappings", path)
	}

	return mappings, nil
}
