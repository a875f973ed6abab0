// Package bake hands reconstructed tracks to the downstream tooling:
// one JSON document per track, consumed by the blender bake script.
package bake

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/CarnageMarkus/GothicAnimsDecompile/asc"
	"github.com/CarnageMarkus/GothicAnimsDecompile/mdh"
)

// Document is the on-disk hand-off format: the matched hierarchy
// embedded verbatim plus the merged animation.
type Document struct {
	Hierarchy json.RawMessage `json:"hierarchy"`
	Animation *asc.Merged     `json:"animation"`
}

func WriteDocument(path string, merged *asc.Merged, h *mdh.Hierarchy) error {
	doc := &Document{
		Hierarchy: h.Raw,
		Animation: merged,
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal document %q", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return errors.Wrapf(err, "Failed to create %q", filepath.Dir(path))
	}
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "Failed to write document %q", path)
	}
	return nil
}

// RunBlender bakes one document: blender runs headless with the bake
// script, receiving the document and output folder after "--".
func RunBlender(blenderExe, bakeScript, docPath, convertDir string) error {
	cmd := exec.Command(blenderExe, "--background", "--python", bakeScript,
		"--", docPath, convertDir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Printf("[bake] blender bake: %v", docPath)
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "Blender failed for %q", docPath)
	}
	return nil
}
