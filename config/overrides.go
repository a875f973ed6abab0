package config

import (
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ComboOverrides pins the clip combination for an ASC source track,
// bypassing the automatic combination search. Keys are ASC names,
// values are the animation names to use, in merge order.
type ComboOverrides map[string][]string

func LoadComboOverrides(path string) (ComboOverrides, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read overrides file %q", path)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse overrides file %q", path)
	}

	overrides := make(ComboOverrides, len(raw))
	for asc, names := range raw {
		overrides[strings.ToUpper(asc)] = names
	}
	return overrides, nil
}

func (o ComboOverrides) Lookup(ascName string) []string {
	if o == nil {
		return nil
	}
	return o[strings.ToUpper(ascName)]
}
