package bake

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/CarnageMarkus/GothicAnimsDecompile/asc"
	"github.com/CarnageMarkus/GothicAnimsDecompile/mdh"
)

// firstSamplePose returns the bone's earliest decoded translation and
// rotation. Sample keys are clip-local flat indices, so the smallest
// key is the first decoded value for that bone.
func firstSamplePose(bt *asc.BoneTracks) (translation [3]float32, rotation [4]float32) {
	rotation = [4]float32{0, 0, 0, 1}

	first := -1
	for i := range bt.Translation {
		if first < 0 || i < first {
			first = i
		}
	}
	if first >= 0 {
		translation = bt.Translation[first]
	}

	first = -1
	for i := range bt.Rotation {
		if first < 0 || i < first {
			first = i
		}
	}
	if first >= 0 {
		q := mgl32.Quat{
			W: bt.Rotation[first][3],
			V: mgl32.Vec3{bt.Rotation[first][0], bt.Rotation[first][1], bt.Rotation[first][2]},
		}.Normalize()
		rotation = q.V.Vec4(q.W)
	}
	return
}

// ExportSkeletonGLTF writes a preview skeleton: one node per hierarchy
// node, posed from the first decoded sample of the merged track. Meant
// for eyeballing a reconstruction without running the full bake.
func ExportSkeletonGLTF(path string, h *mdh.Hierarchy, merged *asc.Merged) error {
	doc := gltf.NewDocument()

	nodeIds := make([]uint32, len(h.Nodes))
	for i, node := range h.Nodes {
		gltfNode := &gltf.Node{
			Name:     node.Name,
			Rotation: [4]float32{0, 0, 0, 1},
		}
		if bt, ok := merged.Frames[node.Name]; ok {
			gltfNode.Translation, gltfNode.Rotation = firstSamplePose(bt)
		}

		nodeIds[i] = uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, gltfNode)
	}

	for i, node := range h.Nodes {
		if node.Parent < 0 || node.Parent >= len(h.Nodes) {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, nodeIds[i])
			continue
		}
		parent := doc.Nodes[nodeIds[node.Parent]]
		parent.Children = append(parent.Children, nodeIds[i])
	}

	if err := gltf.Save(doc, path); err != nil {
		return errors.Wrapf(err, "Failed to save gltf %q", path)
	}
	return nil
}
