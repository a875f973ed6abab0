// Package asc reconstructs full-length ASC animation tracks from the
// short clips a model script declares: it picks the clip combination
// that tiles the full frame range and merges their sample streams into
// one timeline per track.
package asc

import (
	"log"
	"sort"
	"strings"

	"github.com/CarnageMarkus/GothicAnimsDecompile/mds"
)

// Reason records which selection strategy produced a clip combination.
type Reason int

const (
	ReasonOnlyAnimation Reason = iota
	ReasonBestCombination
	ReasonLargestSpan
	ReasonNoFullCover
	ReasonManualOverride
)

func (r Reason) String() string {
	switch r {
	case ReasonOnlyAnimation:
		return "only animation"
	case ReasonBestCombination:
		return "best combination"
	case ReasonLargestSpan:
		return "largest frame span"
	case ReasonNoFullCover:
		return "could not find combination covering full range"
	case ReasonManualOverride:
		return "manual override"
	}
	return "unknown"
}

// IsContinuousAndNonOverlapping reports whether the clips' frame
// ranges, sorted by first frame, abut exactly: no overlap, no gap.
// A single clip trivially qualifies.
func IsContinuousAndNonOverlapping(anis []*mds.Animation) bool {
	sorted := make([]*mds.Animation, len(anis))
	copy(sorted, anis)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FirstFrame < sorted[j].FirstFrame
	})

	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]
		if curr.FirstFrame <= prev.LastFrame { // overlap
			return false
		}
		if curr.FirstFrame != prev.LastFrame+1 { // gap
			return false
		}
	}
	return true
}

func frameBounds(anis []*mds.Animation) (int32, int32) {
	start, end := anis[0].FirstFrame, anis[0].LastFrame
	for _, ani := range anis[1:] {
		if ani.FirstFrame < start {
			start = ani.FirstFrame
		}
		if ani.LastFrame > end {
			end = ani.LastFrame
		}
	}
	return start, end
}

// eachCombination visits every r-element index combination of n
// elements in lexicographic order, which keeps the input's relative
// order inside every combination.
func eachCombination(n, r int, visit func(idx []int)) {
	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}
	for {
		visit(idx)

		i := r - 1
		for i >= 0 && idx[i] == i+n-r {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < r; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func resolveOverride(anis []*mds.Animation, names []string) []*mds.Animation {
	chosen := make([]*mds.Animation, 0, len(names))
	for _, name := range names {
		found := false
		for _, ani := range anis {
			if strings.EqualFold(ani.Name, name) {
				chosen = append(chosen, ani)
				found = true
				break
			}
		}
		if !found {
			return nil
		}
	}
	return chosen
}

// FindBestCombo selects the clips used to reconstruct one ASC track.
//
// The strategies run in order: a manual override (when every named
// clip exists), the largest exact tiling of the frame range, the
// largest-span clip with unmodified playback preferred as tie-break,
// and finally every candidate clip when nothing else covers the full
// observed range. Callers must pass clips in declaration order; the
// tie-break between equal-size tilings is enumeration order.
func FindBestCombo(ascName string, anis []*mds.Animation, override []string) ([]*mds.Animation, Reason) {
	if len(override) > 0 {
		if chosen := resolveOverride(anis, override); chosen != nil {
			logCombo(ascName, ReasonManualOverride, chosen, anis)
			return chosen, ReasonManualOverride
		}
		log.Printf("[asc] %v: override names clips missing from the script, falling back to search", ascName)
	}

	if len(anis) == 1 {
		return anis, ReasonOnlyAnimation
	}

	reason := ReasonBestCombination
	fullStart, fullEnd := frameBounds(anis)

	var best []*mds.Animation
	for r := 2; r <= len(anis); r++ {
		eachCombination(len(anis), r, func(idx []int) {
			combo := make([]*mds.Animation, len(idx))
			for i, j := range idx {
				combo[i] = anis[j]
			}
			if IsContinuousAndNonOverlapping(combo) && len(combo) > len(best) {
				best = combo
			}
		})
	}

	if best == nil {
		// no tiling exists, keep the clip covering the biggest range
		reason = ReasonLargestSpan
		maxSpan := anis[0].Span()
		for _, ani := range anis[1:] {
			if ani.Span() > maxSpan {
				maxSpan = ani.Span()
			}
		}
		for _, ani := range anis {
			if ani.Span() == maxSpan {
				best = append(best, ani)
			}
		}

		// several clips tie on span: prefer one that is not sped up
		// by fps or speed modifiers
		if len(best) > 1 {
			var notSpedUp []*mds.Animation
			for _, ani := range best {
				if ani.FPS == 25.0 && ani.Speed == 0 {
					notSpedUp = append(notSpedUp, ani)
				}
			}
			if len(notSpedUp) == 0 {
				best = best[:1]
			} else {
				best = notSpedUp[:1]
			}
		}
	}

	bestStart, bestEnd := frameBounds(best)
	if bestStart != fullStart || bestEnd != fullEnd {
		reason = ReasonNoFullCover
		best = anis
	}

	logCombo(ascName, reason, best, anis)
	return best, reason
}

// logCombo prints the picked clips and, when some candidates were
// excluded, the dropped ones. Advisory output only.
func logCombo(ascName string, reason Reason, chosen, anis []*mds.Animation) {
	log.Printf("[asc] Reconstruct: %v", ascName)
	log.Printf("[asc] -picked (reason: %v):", reason)
	for _, ani := range chosen {
		log.Printf("[asc]   ani: %v, Range: %v-%v", ani.Name, ani.FirstFrame, ani.LastFrame)
	}

	if len(chosen) == len(anis) {
		return
	}
	inChosen := make(map[*mds.Animation]bool, len(chosen))
	for _, ani := range chosen {
		inChosen[ani] = true
	}
	log.Printf("[asc] -dropped:")
	for _, ani := range anis {
		if !inChosen[ani] {
			log.Printf("[asc]   ani: %v, Range: %v-%v", ani.Name, ani.FirstFrame, ani.LastFrame)
		}
	}
}
