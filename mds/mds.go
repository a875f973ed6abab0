package mds

import (
	"path/filepath"
	"strings"
)

// Animation is one "ani" declaration of a model script: a short clip
// cut out of a full-length ASC source animation.
type Animation struct {
	Name       string
	Layer      int32
	Next       string
	BlendIn    float32
	BlendOut   float32
	Flags      string
	Model      string // ASC file this clip was sampled from
	Direction  string // "F" or "R"
	FirstFrame int32
	LastFrame  int32
	FPS        float32 // 25 unless overridden with a FPS: tag
	Speed      float32 // speed modifier, 0 = unmodified playback
	CVS        float32
}

func (a *Animation) Span() int32 {
	return a.LastFrame - a.FirstFrame
}

// Script is a parsed model script: the animation declarations of one
// model, in declaration order.
type Script struct {
	Name        string
	MeshAndTree string
	Meshes      []string
	Animations  []*Animation
}

// GroupByModel partitions clips by the ASC source animation they
// reference. Declarations without an ASC reference (aliases, blends)
// never reach this point, but a non-ASC model is skipped anyway.
func GroupByModel(anis []*Animation) map[string][]*Animation {
	groups := make(map[string][]*Animation)
	for _, ani := range anis {
		model := strings.ToUpper(ani.Model)
		if !strings.HasSuffix(model, ".ASC") {
			continue
		}
		groups[model] = append(groups[model], ani)
	}
	return groups
}

// ScriptName derives the sample-file name prefix from a script path:
// "HUMANS_BABE.MDS" and "HUMANS.MDS" both map to "HUMANS".
func ScriptName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.SplitN(strings.ToUpper(stem), "_", 2)[0]
}
