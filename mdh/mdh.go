// Package mdh indexes the skeleton hierarchy documents produced by the
// hierarchy conversion stage. The checksum binds animation sample data
// to one specific node layout.
package mdh

import (
	"encoding/json"
	"io/fs"
	"io/ioutil"
	"log"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type Node struct {
	Name   string `json:"name"`
	Parent int    `json:"parent"`
}

type Hierarchy struct {
	Checksum uint32 `json:"checksum"`
	Nodes    []Node `json:"nodes"`

	// Raw is the complete source document; the bake output embeds it
	// verbatim so fields this tool does not model survive the trip.
	Raw json.RawMessage `json:"-"`
}

func Load(path string) (*Hierarchy, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read hierarchy %q", path)
	}

	var h Hierarchy
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse hierarchy %q", path)
	}
	h.Raw = json.RawMessage(data)

	return &h, nil
}

// Index maps a skeleton checksum to its hierarchy.
type Index map[uint32]*Hierarchy

// BuildIndex scans dir recursively for *.MDH.json documents. Duplicate
// checksums keep the last document found, matching the original
// behavior of the conversion pipeline.
func BuildIndex(dir string) (Index, error) {
	index := make(Index)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToUpper(d.Name()), ".MDH.JSON") {
			return nil
		}

		h, err := Load(path)
		if err != nil {
			return err
		}
		if prev, ok := index[h.Checksum]; ok && len(prev.Nodes) != len(h.Nodes) {
			log.Printf("[mdh] checksum collision %v between different hierarchies (%q)", h.Checksum, path)
		}
		index[h.Checksum] = h
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to scan %q for hierarchies", dir)
	}

	return index, nil
}
