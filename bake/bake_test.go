package bake

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/CarnageMarkus/GothicAnimsDecompile/asc"
	"github.com/CarnageMarkus/GothicAnimsDecompile/mdh"
)

// The blender side reads the document by exact key name; this pins the
// wire format down.
func TestWriteDocumentKeyNames(t *testing.T) {
	h := &mdh.Hierarchy{
		Checksum: 42,
		Nodes:    []mdh.Node{{Name: "BIP01", Parent: -1}},
		Raw:      json.RawMessage(`{"checksum": 42, "nodes": [{"name": "BIP01", "parent": -1}]}`),
	}
	merged := &asc.Merged{
		Checksum:   42,
		FrameCount: 1,
		FPS:        25,
		FPSSource:  25,
		Layer:      1,
		Frames: map[string]*asc.BoneTracks{
			"BIP01": {
				Translation: map[int][3]float32{0: {1.2345, 0, 0}},
				Rotation:    map[int][4]float32{0: {0, 0, 0, 1}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "sub", "HUM_WALK.ASC.json")
	if err := WriteDocument(path, merged, h); err != nil {
		t.Fatal(err)
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["hierarchy"]; !ok {
		t.Error("missing hierarchy key")
	}

	var animation map[string]json.RawMessage
	if err := json.Unmarshal(doc["animation"], &animation); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"checksum", "frame_count", "fps", "fps_source", "layer", "source_script", "frames"} {
		if _, ok := animation[key]; !ok {
			t.Errorf("missing animation key %q", key)
		}
	}

	var frames map[string]map[string]map[string][]float64
	if err := json.Unmarshal(animation["frames"], &frames); err != nil {
		t.Fatal(err)
	}
	// sample indices come out as decimal strings
	if got := frames["BIP01"]["translation"]["0"]; len(got) != 3 || got[0] != 1.2345 {
		t.Errorf("unexpected translation entry: %v", frames["BIP01"])
	}
	if got := frames["BIP01"]["rotation"]["0"]; len(got) != 4 || got[3] != 1 {
		t.Errorf("unexpected rotation entry: %v", frames["BIP01"])
	}
}
