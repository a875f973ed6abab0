package mds_test

import (
	"testing"

	"github.com/CarnageMarkus/GothicAnimsDecompile/mds"
)

const testScript = `
// humans, trimmed for the parser
Model ("HUMANS")
{
	meshAndTree ("HUM_BODY_NAKED0.ASC" DONT_USE_MESH)
	registerMesh ("HUM_BODY_BABE0.ASC")

	aniEnum
	{
		ani ("s_walk" 1 "s_walk" 0.0 0.1 M. "HUM_WALK_M01.ASC" F 0 49)
		ani ("t_walk_2_run" 2 "s_run" 0.1 0.1 MF "HUM_WALK_M01.asc" R 50 60 FPS:10.0)
		{
			*eventSFX (5 "Whoosh")
		}
		ani ("s_swim" 1 "s_swim" 0.0 0.0 M. "HUM_SWIM_M01.ASC" F 1 30 FPS:25 CVS:0.2)
		aniAlias ("s_run2" 1 "s_run" 0.0 0.0 M. "s_walk" F)
		aniBlend ("t_run_2_sprint" "s_sprint" 0.2 0.2)
		modelTag ("DEF_HIT_LIMB" "ZS_RIGHTHAND")
	}
}
`

func TestParseScript(t *testing.T) {
	script, err := mds.ParseScript([]byte(testScript), "HUMANS")
	if err != nil {
		t.Fatal(err)
	}

	if script.Name != "HUMANS" {
		t.Errorf("script name = %q", script.Name)
	}
	if script.MeshAndTree != "HUM_BODY_NAKED0.ASC" {
		t.Errorf("meshAndTree = %q", script.MeshAndTree)
	}
	if len(script.Meshes) != 1 || script.Meshes[0] != "HUM_BODY_BABE0.ASC" {
		t.Errorf("meshes = %v", script.Meshes)
	}

	// aliases, blends and tags carry no sample frames and are dropped
	if len(script.Animations) != 3 {
		t.Fatalf("parsed %d anis, expected 3: %v", len(script.Animations), script.Animations)
	}

	walk := script.Animations[0]
	if walk.Name != "s_walk" || walk.Layer != 1 || walk.Next != "s_walk" ||
		walk.BlendOut != 0.1 || walk.Flags != "M." ||
		walk.Model != "HUM_WALK_M01.ASC" || walk.Direction != "F" ||
		walk.FirstFrame != 0 || walk.LastFrame != 49 {
		t.Errorf("unexpected ani fields: %+v", walk)
	}
	if walk.FPS != 25.0 || walk.Speed != 0 {
		t.Errorf("defaults not applied: fps=%v speed=%v", walk.FPS, walk.Speed)
	}

	run := script.Animations[1]
	if run.FPS != 10.0 {
		t.Errorf("FPS tag not applied: %v", run.FPS)
	}
	if run.Direction != "R" {
		t.Errorf("direction = %q", run.Direction)
	}

	swim := script.Animations[2]
	if swim.CVS != 0.2 {
		t.Errorf("CVS tag not applied: %v", swim.CVS)
	}
}

func TestGroupByModel(t *testing.T) {
	script, err := mds.ParseScript([]byte(testScript), "HUMANS")
	if err != nil {
		t.Fatal(err)
	}

	groups := mds.GroupByModel(script.Animations)
	if len(groups) != 2 {
		t.Fatalf("grouped into %d models, expected 2: %v", len(groups), groups)
	}

	// case-folded model names group together, declaration order kept
	walk := groups["HUM_WALK_M01.ASC"]
	if len(walk) != 2 || walk[0].Name != "s_walk" || walk[1].Name != "t_walk_2_run" {
		t.Errorf("unexpected walk group: %v", walk)
	}
	if len(groups["HUM_SWIM_M01.ASC"]) != 1 {
		t.Errorf("unexpected swim group: %v", groups["HUM_SWIM_M01.ASC"])
	}
}

var scriptNameTests = []struct {
	path string
	out  string
}{
	{"ANIMS/HUMANS.MDS", "HUMANS"},
	{"ANIMS/HUMANS_BABE.MDS", "HUMANS"},
	{"orcwarrior.mds", "ORCWARRIOR"},
}

func TestScriptName(t *testing.T) {
	for _, test := range scriptNameTests {
		if result := mds.ScriptName(test.path); result != test.out {
			t.Errorf("ScriptName(%q)=%q; expected %q", test.path, result, test.out)
		}
	}
}
