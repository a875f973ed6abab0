package asc

import (
	"testing"

	"github.com/CarnageMarkus/GothicAnimsDecompile/mds"
)

func ani(name string, first, last int32) *mds.Animation {
	return &mds.Animation{Name: name, Model: "TEST.ASC", FirstFrame: first, LastFrame: last, FPS: 25.0}
}

var coverTests = []struct {
	name string
	anis []*mds.Animation
	out  bool
}{
	{"single", []*mds.Animation{ani("a", 0, 9)}, true},
	{"contiguous", []*mds.Animation{ani("a", 0, 9), ani("b", 10, 19), ani("c", 20, 29)}, true},
	{"unsorted contiguous", []*mds.Animation{ani("c", 20, 29), ani("a", 0, 9), ani("b", 10, 19)}, true},
	{"overlap", []*mds.Animation{ani("a", 0, 9), ani("b", 5, 14)}, false},
	{"touching", []*mds.Animation{ani("a", 0, 9), ani("b", 9, 19)}, false},
	{"gap", []*mds.Animation{ani("a", 0, 9), ani("b", 15, 24)}, false},
}

func TestIsContinuousAndNonOverlapping(t *testing.T) {
	for _, test := range coverTests {
		if result := IsContinuousAndNonOverlapping(test.anis); result != test.out {
			t.Errorf("%s: got %v, expected %v", test.name, result, test.out)
		}
	}
}

func assertNames(t *testing.T, chosen []*mds.Animation, names ...string) {
	t.Helper()
	if len(chosen) != len(names) {
		t.Fatalf("chose %d clips, expected %d", len(chosen), len(names))
	}
	for i, name := range names {
		if chosen[i].Name != name {
			t.Errorf("chosen[%d] = %q, expected %q", i, chosen[i].Name, name)
		}
	}
}

func TestFindBestComboSingle(t *testing.T) {
	only := ani("a", 3, 17)
	chosen, reason := FindBestCombo("TEST.ASC", []*mds.Animation{only}, nil)
	if reason != ReasonOnlyAnimation {
		t.Errorf("reason = %v, expected %v", reason, ReasonOnlyAnimation)
	}
	assertNames(t, chosen, "a")
}

func TestFindBestComboTiling(t *testing.T) {
	// full tiling must win in any declaration order
	orders := [][]*mds.Animation{
		{ani("a", 0, 9), ani("b", 10, 19), ani("c", 20, 29)},
		{ani("c", 20, 29), ani("a", 0, 9), ani("b", 10, 19)},
		{ani("b", 10, 19), ani("c", 20, 29), ani("a", 0, 9)},
	}
	for _, anis := range orders {
		chosen, reason := FindBestCombo("TEST.ASC", anis, nil)
		if reason != ReasonBestCombination {
			t.Errorf("reason = %v, expected %v", reason, ReasonBestCombination)
		}
		if len(chosen) != 3 {
			t.Errorf("chose %d clips, expected 3", len(chosen))
		}
		if !IsContinuousAndNonOverlapping(chosen) {
			t.Errorf("chosen combination does not tile the range")
		}
	}
}

func TestFindBestComboPrefersLargerTiling(t *testing.T) {
	// a+b tiles [0,19] with 2 clips, a+c+d with 3; the larger one wins
	anis := []*mds.Animation{
		ani("a", 0, 9),
		ani("b", 10, 19),
		ani("c", 10, 14),
		ani("d", 15, 19),
	}
	chosen, reason := FindBestCombo("TEST.ASC", anis, nil)
	if reason != ReasonBestCombination {
		t.Errorf("reason = %v, expected %v", reason, ReasonBestCombination)
	}
	assertNames(t, chosen, "a", "c", "d")
}

func TestFindBestComboSpanTieUnmodifiedWins(t *testing.T) {
	spedUp := ani("fast", 0, 9)
	spedUp.FPS = 50.0
	normal := ani("normal", 0, 9)

	chosen, reason := FindBestCombo("TEST.ASC", []*mds.Animation{spedUp, normal}, nil)
	if reason != ReasonLargestSpan {
		t.Errorf("reason = %v, expected %v", reason, ReasonLargestSpan)
	}
	assertNames(t, chosen, "normal")
}

func TestFindBestComboSpanTieAllModified(t *testing.T) {
	first := ani("first", 0, 9)
	first.Speed = 0.5
	second := ani("second", 0, 9)
	second.FPS = 10.0

	chosen, reason := FindBestCombo("TEST.ASC", []*mds.Animation{first, second}, nil)
	if reason != ReasonLargestSpan {
		t.Errorf("reason = %v, expected %v", reason, ReasonLargestSpan)
	}
	assertNames(t, chosen, "first")
}

func TestFindBestComboOverlapFallsBackToAll(t *testing.T) {
	// no tiling and no single clip spanning [0,14]: everything is kept
	anis := []*mds.Animation{ani("a", 0, 9), ani("b", 5, 14)}
	chosen, reason := FindBestCombo("TEST.ASC", anis, nil)
	if reason != ReasonNoFullCover {
		t.Errorf("reason = %v, expected %v", reason, ReasonNoFullCover)
	}
	assertNames(t, chosen, "a", "b")
}

func TestFindBestComboGapFallsBackToAll(t *testing.T) {
	anis := []*mds.Animation{ani("a", 0, 9), ani("b", 15, 24)}
	chosen, reason := FindBestCombo("TEST.ASC", anis, nil)
	if reason != ReasonNoFullCover {
		t.Errorf("reason = %v, expected %v", reason, ReasonNoFullCover)
	}
	assertNames(t, chosen, "a", "b")
}

func TestFindBestComboLargestSpanCoversRange(t *testing.T) {
	// b alone spans the whole observed range, a is redundant
	anis := []*mds.Animation{ani("a", 0, 4), ani("b", 0, 9)}
	chosen, reason := FindBestCombo("TEST.ASC", anis, nil)
	if reason != ReasonLargestSpan {
		t.Errorf("reason = %v, expected %v", reason, ReasonLargestSpan)
	}
	assertNames(t, chosen, "b")
}

func TestFindBestComboManualOverride(t *testing.T) {
	anis := []*mds.Animation{ani("a", 0, 9), ani("b", 10, 19), ani("c", 0, 19)}

	chosen, reason := FindBestCombo("TEST.ASC", anis, []string{"C"})
	if reason != ReasonManualOverride {
		t.Errorf("reason = %v, expected %v", reason, ReasonManualOverride)
	}
	assertNames(t, chosen, "c")

	// unknown override name falls back to the search chain
	chosen, reason = FindBestCombo("TEST.ASC", anis, []string{"missing"})
	if reason != ReasonBestCombination {
		t.Errorf("reason = %v, expected %v", reason, ReasonBestCombination)
	}
	assertNames(t, chosen, "a", "b")
}
