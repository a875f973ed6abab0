// Package man loads animation sample streams: the extracted form of
// the binary MAN files, one flat run of node samples per clip.
package man

import (
	"encoding/json"
	"io/ioutil"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Sample is one node transform. Rotation components are stored in
// x,y,z,w order, as in the extracted documents.
type Sample struct {
	Position mgl32.Vec3 `json:"position"`
	Rotation [4]float32 `json:"rotation"`
}

func (s *Sample) Quat() mgl32.Quat {
	return mgl32.Quat{
		W: s.Rotation[3],
		V: mgl32.Vec3{s.Rotation[0], s.Rotation[1], s.Rotation[2]},
	}
}

// Animation is one clip's sample stream. Samples is FrameCount runs of
// the node cycle: the node of Samples[i] is NodeIndices[i % len(NodeIndices)].
type Animation struct {
	Name        string   `json:"name"`
	Checksum    uint32   `json:"checksum"`
	FrameCount  uint32   `json:"frame_count"`
	FPS         float32  `json:"fps"`
	FPSSource   float32  `json:"fps_source"`
	Layer       int32    `json:"layer"`
	NodeIndices []int    `json:"node_indices"`
	Samples     []Sample `json:"samples"`
}

func Load(path string) (*Animation, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read animation %q", path)
	}

	var a Animation
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse animation %q", path)
	}

	return &a, nil
}
