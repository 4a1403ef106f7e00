/*
Package sbol is the in-memory graph model for the semantic graph model
(SGM) this module converts to and from GenBank: Component, Sequence,
SequenceFeature, Range/Cut, SubComponent, and Collection, plus the
GBK-only carrier ("side-car") extensions that let a round trip through SGM
lose nothing spec.md §1 requires it to preserve.

Carrier data is modeled as explicit optional fields (a Component's Extras
pointer, a Range's Extras pointer) and distinct top-level variants
(Reference, StructuredComment) rather than runtime subclassing, per the
design note in spec.md §9.
*/
package sbol

import (
	"github.com/bebop/sbolconvert/location"
	"github.com/bebop/sbolconvert/sbolerr"
)

// Identified holds the fields every SGM object carries: its identity URI,
// display id, optional human name, and description. It is embedded by
// value in every concrete type below.
type Identified struct {
	ID          string
	DisplayID   string
	Name        string
	Description string
}

// Identity returns the object's identity URI.
func (i Identified) Identity() string { return i.ID }

// TopLevel is satisfied by every object that can live at the top level of
// a Document: Component, Sequence, Collection, Reference, StructuredComment.
type TopLevel interface {
	Identity() string
	isTopLevel()
}

// Feature is satisfied by the two kinds of object a Component owns in its
// Features list: SequenceFeature and SubComponent.
type Feature interface {
	Identity() string
	isFeature()
}

// RangeOrCut is satisfied by Range and Cut, the two location-owner kinds a
// SequenceFeature, SubComponent, or Reference can own.
type RangeOrCut interface {
	Identity() string
	isRangeOrCut()
}

// Range is an owned SGM location spanning [Start, End), pointing at a
// Sequence. Extras is non-nil only for GBK-derived ranges with a fuzzy
// endpoint.
type Range struct {
	Identified
	Start, End  int
	Orientation location.Orientation
	Sequence    string
	Extras      *RangeExtras
}

func (*Range) isRangeOrCut() {}

// RangeExtras is the "Extended Range" carrier: the two fuzz codes the base
// Range type cannot express (spec.md §3).
type RangeExtras struct {
	StartPosition int
	EndPosition   int
}

// Cut is an owned, zero-width SGM location.
type Cut struct {
	Identified
	At          int
	Orientation location.Orientation
	Sequence    string
}

func (*Cut) isRangeOrCut() {}

// SequenceFeature is a named, owned region of a Component with one or
// more locations. Extras is non-nil only for GBK-derived features, which
// carry the original qualifier list.
type SequenceFeature struct {
	Identified
	Roles       []string
	Orientation location.Orientation
	Locations   []RangeOrCut
	Extras      *FeatureExtras
}

func (*SequenceFeature) isFeature() {}

// FeatureExtras is the "Extended Feature" carrier: the GBK qualifier bag,
// preserved as two parallel "N:"-prefixed ordered lists (spec.md §3).
type FeatureExtras struct {
	QualifierKeys   []string
	QualifierValues []string
}

// SubComponent is an owned reference from a Component to another
// Component, optionally located within the parent's sequence.
type SubComponent struct {
	Identified
	InstanceOf string
	Locations  []RangeOrCut
}

func (*SubComponent) isFeature() {}

// Sequence holds the literal elements of a Component's sequence.
type Sequence struct {
	Identified
	Encoding string
	Elements string
}

func (*Sequence) isTopLevel() {}

// Component is the core SGM entity: a typed, roled region of biological
// sequence that owns Features and references at most one Sequence.
// Extras is non-nil only for GBK-derived components.
type Component struct {
	Identified
	Types     []string
	Roles     []string
	Features  []Feature
	Sequences []string
	Extras    *GBKExtras
}

func (*Component) isTopLevel() {}

// GBKExtras is the "Extended Component" carrier: every GBK annotation
// field that has no home on the base Component, plus the fuzzy_features
// slot for features whose locations the base Range cannot express
// (spec.md §3).
type GBKExtras struct {
	SeqVersion    string
	Date          string
	Division      string
	Locus         string
	Molecule      string
	Organism      string
	Source        string
	Topology      string
	GI            string
	Comment       string
	DBXrefs       string
	RecordID      string
	Taxonomy      string
	Keywords      string
	Accessions    []string
	FuzzyFeatures []*SequenceFeature
}

// Collection is a named, ordered-by-reference group of other TopLevel
// objects (Components, typically).
type Collection struct {
	Identified
	Members []string
}

func (*Collection) isTopLevel() {}

// Reference is the "Reference side-car": a GBK publication reference,
// associated to exactly one Component by display-id (spec.md §3).
type Reference struct {
	Identified
	Authors    string
	Comment    string
	Journal    string
	Consortium string
	Title      string
	MedlineID  string
	PubmedID   string
	Locations  []RangeOrCut
	Component  string
}

func (*Reference) isTopLevel() {}

// StructuredComment is the "StructuredComment side-car": a GBK structured
// comment's heading and ordered key/value pairs, associated to exactly
// one Component by display-id (spec.md §3).
type StructuredComment struct {
	Identified
	Heading          string
	Component        string
	StructuredKeys   []string
	StructuredValues []string
}

func (*StructuredComment) isTopLevel() {}

// Document is the in-memory SGM graph: every TopLevel object, keyed by
// identity, in insertion order.
type Document struct {
	objects map[string]TopLevel
	order   []string
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{objects: make(map[string]TopLevel)}
}

// Add inserts obj into the document. A duplicate identity is a
// StructuralError.
func (d *Document) Add(obj TopLevel) error {
	id := obj.Identity()
	if _, exists := d.objects[id]; exists {
		return &sbolerr.StructuralError{Identity: id, Msg: "duplicate identity in document"}
	}
	d.objects[id] = obj
	d.order = append(d.order, id)
	return nil
}

// Get looks up a TopLevel object by identity.
func (d *Document) Get(identity string) (TopLevel, bool) {
	obj, ok := d.objects[identity]
	return obj, ok
}

// All returns every TopLevel object in insertion order.
func (d *Document) All() []TopLevel {
	out := make([]TopLevel, len(d.order))
	for i, id := range d.order {
		out[i] = d.objects[id]
	}
	return out
}

// Components returns every Component in the document, in insertion order.
func (d *Document) Components() []*Component {
	var out []*Component
	for _, id := range d.order {
		if c, ok := d.objects[id].(*Component); ok {
			out = append(out, c)
		}
	}
	return out
}

// Sequences returns every Sequence in the document, in insertion order.
func (d *Document) Sequences() []*Sequence {
	var out []*Sequence
	for _, id := range d.order {
		if s, ok := d.objects[id].(*Sequence); ok {
			out = append(out, s)
		}
	}
	return out
}

// References returns every Reference side-car in the document, in
// insertion order.
func (d *Document) References() []*Reference {
	var out []*Reference
	for _, id := range d.order {
		if r, ok := d.objects[id].(*Reference); ok {
			out = append(out, r)
		}
	}
	return out
}

// StructuredComments returns every StructuredComment side-car in the
// document, in insertion order.
func (d *Document) StructuredComments() []*StructuredComment {
	var out []*StructuredComment
	for _, id := range d.order {
		if s, ok := d.objects[id].(*StructuredComment); ok {
			out = append(out, s)
		}
	}
	return out
}

// Collections returns every Collection in the document, in insertion
// order.
func (d *Document) Collections() []*Collection {
	var out []*Collection
	for _, id := range d.order {
		if c, ok := d.objects[id].(*Collection); ok {
			out = append(out, c)
		}
	}
	return out
}
