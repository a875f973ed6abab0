package asc

import (
	"github.com/pkg/errors"

	"github.com/CarnageMarkus/GothicAnimsDecompile/man"
	"github.com/CarnageMarkus/GothicAnimsDecompile/mdh"
	"github.com/CarnageMarkus/GothicAnimsDecompile/utils"
)

var (
	ErrChecksumMismatch = errors.New("animation checksums differ")
	ErrUnknownSkeleton  = errors.New("no hierarchy for checksum")
	ErrEmptyInput       = errors.New("no sample streams")
)

// BoneTracks holds one bone's decoded values keyed by the clip-local
// flat sample index at which they occurred.
type BoneTracks struct {
	Translation map[int][3]float32 `json:"translation"`
	Rotation    map[int][4]float32 `json:"rotation"`
}

// Merged is one reconstructed ASC track. Header fields are copied from
// the last sample stream folded in; see MergeAnimations.
type Merged struct {
	Checksum     uint32                 `json:"checksum"`
	FrameCount   uint32                 `json:"frame_count"`
	FPS          float32                `json:"fps"`
	FPSSource    float32                `json:"fps_source"`
	Layer        int32                  `json:"layer"`
	SourceScript struct{}               `json:"source_script"`
	Frames       map[string]*BoneTracks `json:"frames"`
}

// ValidateChecksums confirms every stream carries the same skeleton
// checksum and resolves it against the hierarchy index.
func ValidateChecksums(streams []*man.Animation, index mdh.Index) (*mdh.Hierarchy, error) {
	if len(streams) == 0 {
		return nil, ErrEmptyInput
	}

	checksums := make(map[uint32]bool)
	for _, st := range streams {
		checksums[st.Checksum] = true
	}
	if len(checksums) != 1 {
		return nil, errors.Wrapf(ErrChecksumMismatch, "%v checksums across %v streams", len(checksums), len(streams))
	}

	checksum := streams[0].Checksum
	h, ok := index[checksum]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSkeleton, "checksum %v", checksum)
	}
	return h, nil
}

// DecodeSamples unfolds a stream's flat sample run into per-bone
// tracks. The node cycle assigns sample i to node
// NodeIndices[i % len(NodeIndices)]; keys are the flat index i, not
// rebased to the clip's first frame. Values are rounded per component
// to 4 decimal places.
func DecodeSamples(a *man.Animation, h *mdh.Hierarchy) (map[string]*BoneTracks, error) {
	if a.Checksum != h.Checksum {
		return nil, errors.Wrapf(ErrChecksumMismatch, "stream %v vs hierarchy %v", a.Checksum, h.Checksum)
	}
	if len(a.NodeIndices) == 0 {
		return nil, errors.Errorf("Animation %q has an empty node cycle", a.Name)
	}

	frames := make(map[string]*BoneTracks, len(a.NodeIndices))

	nodeOffset := 0
	for i := range a.Samples {
		if nodeOffset >= len(a.NodeIndices) {
			nodeOffset = 0
		}
		nodeIndex := a.NodeIndices[nodeOffset]
		nodeOffset++

		if nodeIndex < 0 || nodeIndex >= len(h.Nodes) {
			return nil, errors.Errorf("Animation %q node index %v outside hierarchy (%v nodes)",
				a.Name, nodeIndex, len(h.Nodes))
		}
		boneName := h.Nodes[nodeIndex].Name

		bt, ok := frames[boneName]
		if !ok {
			bt = &BoneTracks{
				Translation: make(map[int][3]float32),
				Rotation:    make(map[int][4]float32),
			}
			frames[boneName] = bt
		}

		sample := &a.Samples[i]
		bt.Translation[i] = utils.RfVec3(sample.Position)
		bt.Rotation[i] = utils.RfQuat(sample.Rotation)
	}

	return frames, nil
}

// MergeAnimations folds the chosen clips' sample streams into one
// track. Streams are decoded and folded in the given order; an entry
// at an already-written (bone, track, index) key overwrites the
// earlier one. Header fields come from whichever stream the loop
// decoded last, matching the behavior of the original exporter.
func MergeAnimations(ascName string, streams []*man.Animation, index mdh.Index) (*Merged, *mdh.Hierarchy, error) {
	h, err := ValidateChecksums(streams, index)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "ASC %v", ascName)
	}

	merged := &Merged{
		Checksum: h.Checksum,
		Frames:   make(map[string]*BoneTracks),
	}

	for _, st := range streams {
		frames, err := DecodeSamples(st, h)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "ASC %v", ascName)
		}

		merged.FrameCount = st.FrameCount
		merged.FPS = st.FPS
		merged.FPSSource = st.FPSSource
		merged.Layer = st.Layer

		for boneName, tracks := range frames {
			bt, ok := merged.Frames[boneName]
			if !ok {
				bt = &BoneTracks{
					Translation: make(map[int][3]float32),
					Rotation:    make(map[int][4]float32),
				}
				merged.Frames[boneName] = bt
			}
			for i, v := range tracks.Translation {
				bt.Translation[i] = v
			}
			for i, v := range tracks.Rotation {
				bt.Rotation[i] = v
			}
		}
	}

	return merged, h, nil
}
