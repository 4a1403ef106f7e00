/*
Package location provides the canonical representation for feature
locations used by the sbol graph: zero-width Cuts, Ranges with fuzzy
endpoints, and Compound (joined) locations, together with the conversion
rules to and from the GenBank location AST produced by
github.com/bebop/sbolconvert/bio/genbank.
*/
package location

import (
	"golang.org/x/exp/slices"

	"github.com/bebop/sbolconvert/bio/genbank"
)

// Orientation is the strand orientation of a location.
type Orientation int

const (
	Forward Orientation = iota
	Reverse
)

// Fuzz classifies how precisely a Range endpoint is known, mirroring
// GenBank's BeforePosition/ExactPosition/AfterPosition distinction. The
// numeric values are part of the wire contract (sbol.RangeExtras encodes
// them directly) and must not change.
type Fuzz int

const (
	FuzzBefore Fuzz = 0
	FuzzExact  Fuzz = 1
	FuzzAfter  Fuzz = 2
)

// Location is implemented by Cut, Range, and Compound.
type Location interface {
	isLocation()
}

// Cut is a zero-width location between two bases.
type Cut struct {
	At          int
	Orientation Orientation
}

func (Cut) isLocation() {}

// Range is a location spanning [Start, End), with optionally fuzzy
// endpoints.
type Range struct {
	Start, End         int
	Orientation        Orientation
	StartFuzz, EndFuzz Fuzz
}

func (Range) isLocation() {}

// Compound is a GenBank join(...) location: an ordered list of Range or Cut
// parts. Each part carries its own Orientation; there is no separate
// orientation on the Compound itself, since a join's parts can legally
// mix strands (see SPEC_FULL.md end-to-end scenario 2).
type Compound struct {
	Parts        []Location
	JoinOperator string
}

func (Compound) isLocation() {}

// FromGenbank converts a parsed GenBank location into the canonical model.
// It also returns the overall feature orientation implied by the outermost
// complement wrapper (Reverse iff the whole location string was wrapped in
// a top-level complement(...)), which callers use as the SequenceFeature's
// orientation.
func FromGenbank(gbLoc genbank.Location) (loc Location, featureOrientation Orientation) {
	featureOrientation = Forward
	if gbLoc.Complement {
		featureOrientation = Reverse
	}
	return fromGenbank(gbLoc, false), featureOrientation
}

func fromGenbank(node genbank.Location, ancestorComplement bool) Location {
	effective := node.Complement != ancestorComplement
	if len(node.SubLocations) == 0 {
		return leafFromGenbank(node, effective)
	}
	parts := make([]Location, 0, len(node.SubLocations))
	for _, sub := range node.SubLocations {
		parts = append(parts, fromGenbank(sub, effective))
	}
	return Compound{Parts: parts, JoinOperator: "join"}
}

func leafFromGenbank(node genbank.Location, reverse bool) Location {
	orientation := Forward
	if reverse {
		orientation = Reverse
	}
	if node.Start == node.End {
		return Cut{At: node.Start, Orientation: orientation}
	}
	startFuzz := FuzzExact
	if node.FivePrimePartial {
		startFuzz = FuzzBefore
	}
	endFuzz := FuzzExact
	if node.ThreePrimePartial {
		endFuzz = FuzzAfter
	}
	return Range{Start: node.Start, End: node.End, Orientation: orientation, StartFuzz: startFuzz, EndFuzz: endFuzz}
}

// ToGenbank converts a canonical Location back into a GenBank location AST
// node, ready for genbank.BuildLocationString / genbank.BuildFeatureString.
// Compound locations are emitted as join(...) with per-part complement
// flags; this module never re-introduces an outer complement(join(...))
// wrapper, so every part's orientation is explicit and unambiguous.
func ToGenbank(loc Location) genbank.Location {
	switch l := loc.(type) {
	case Cut:
		return genbank.Location{Start: l.At, End: l.At, Complement: l.Orientation == Reverse}
	case Range:
		return genbank.Location{
			Start:             l.Start,
			End:               l.End,
			Complement:        l.Orientation == Reverse,
			FivePrimePartial:  l.StartFuzz == FuzzBefore,
			ThreePrimePartial: l.EndFuzz == FuzzAfter,
		}
	case Compound:
		subs := make([]genbank.Location, len(l.Parts))
		for i, part := range l.Parts {
			subs[i] = ToGenbank(part)
		}
		return genbank.Location{Join: true, SubLocations: subs}
	default:
		panic("location: unknown Location implementation")
	}
}

// Bounds returns the (start, end) of a Cut or Range leaf.
func Bounds(loc Location) (start, end int) {
	switch l := loc.(type) {
	case Cut:
		return l.At, l.At
	case Range:
		return l.Start, l.End
	default:
		panic("location: Bounds called on non-leaf Location")
	}
}

func orientationOf(loc Location) Orientation {
	switch l := loc.(type) {
	case Cut:
		return l.Orientation
	case Range:
		return l.Orientation
	default:
		panic("location: orientationOf called on non-leaf Location")
	}
}

func strandWeight(o Orientation) int {
	if o == Reverse {
		return -1
	}
	return 1
}

// Leaves returns the flattened list of Cut/Range leaves under loc, in
// order, descending into Compound parts.
func Leaves(loc Location) []Location {
	switch l := loc.(type) {
	case Compound:
		var out []Location
		for _, part := range l.Parts {
			out = append(out, Leaves(part)...)
		}
		return out
	default:
		return []Location{loc}
	}
}

// IsFuzzy reports whether any Range leaf under loc has a non-Exact
// endpoint.
func IsFuzzy(loc Location) bool {
	for _, leaf := range Leaves(loc) {
		if r, ok := leaf.(Range); ok {
			if r.StartFuzz != FuzzExact || r.EndFuzz != FuzzExact {
				return true
			}
		}
	}
	return false
}

// SortParts sorts parts in place by (start, end, strand), ascending when
// featureOrientation is Forward and descending when Reverse. This ordering
// is deterministic and is part of the round-trip contract (SPEC_FULL.md
// §6.2).
func SortParts(parts []Location, featureOrientation Orientation) {
	slices.SortFunc(parts, func(a, b Location) int {
		aStart, aEnd := Bounds(a)
		bStart, bEnd := Bounds(b)
		c := compareTriple(aStart, aEnd, strandWeight(orientationOf(a)), bStart, bEnd, strandWeight(orientationOf(b)))
		if featureOrientation == Reverse {
			return -c
		}
		return c
	})
}

func compareTriple(a1, a2, a3, b1, b2, b3 int) int {
	if a1 != b1 {
		return a1 - b1
	}
	if a2 != b2 {
		return a2 - b2
	}
	return a3 - b3
}

// FlattenBounds flattens every leaf's (start, end) pair under loc, in order,
// for use as a feature-level sort key.
func FlattenBounds(loc Location) []int {
	var out []int
	for _, leaf := range Leaves(loc) {
		start, end := Bounds(leaf)
		out = append(out, start, end)
	}
	return out
}
