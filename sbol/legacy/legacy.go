/*
Package legacy is the SGM-legacy graph: the simpler SBOL2-shaped model
that sits between an SGM Document and the external GBK emitter on the
legacy export path (spec.md §4.5). It has no carrier/side-car concept of
its own — every GBK-only fact a Component carries must already have been
folded into a Range/Cut/Component by the time legacyexport builds one of
these.
*/
package legacy

import (
	"github.com/bebop/sbolconvert/location"
	"github.com/bebop/sbolconvert/sbolerr"
)

// Identified holds the fields every legacy object carries.
type Identified struct {
	ID          string
	DisplayID   string
	Name        string
	Description string
}

// Identity returns the object's identity URI.
func (i Identified) Identity() string { return i.ID }

// TopLevel is satisfied by ComponentDefinition, Sequence, and Collection.
type TopLevel interface {
	Identity() string
	isTopLevel()
}

// ComponentDefinition is the legacy counterpart of sbol.Component.
type ComponentDefinition struct {
	Identified
	Types               []string
	Roles               []string
	Components          []*Component
	SequenceAnnotations []*SequenceAnnotation
	Sequences           []string
}

func (*ComponentDefinition) isTopLevel() {}

// Component is an instance of a ComponentDefinition, owned by a parent
// ComponentDefinition (the legacy counterpart of sbol.SubComponent).
type Component struct {
	Identified
	Definition string
}

// SequenceAnnotation locates one Component instance within its parent
// ComponentDefinition's sequence.
type SequenceAnnotation struct {
	Identified
	ComponentInstance string
	Locations         []location.Location
}

// Sequence is the legacy counterpart of sbol.Sequence.
type Sequence struct {
	Identified
	Encoding string
	Elements string
}

func (*Sequence) isTopLevel() {}

// Collection is the legacy counterpart of sbol.Collection.
type Collection struct {
	Identified
	Members []string
}

func (*Collection) isTopLevel() {}

// Document is the in-memory legacy graph, keyed by identity. It also
// serves as the memo table for legacyexport's recursive conversion walk
// (spec.md §4.5): a converted object is looked up by src.Identity()+"/1"
// before being rebuilt.
type Document struct {
	objects map[string]TopLevel
	order   []string
}

// NewDocument returns an empty legacy Document.
func NewDocument() *Document {
	return &Document{objects: make(map[string]TopLevel)}
}

// Find returns the object previously stored for identity, if any. It is
// the memoization lookup legacyexport.Convert consults before converting.
func (d *Document) Find(identity string) (TopLevel, bool) {
	obj, ok := d.objects[identity]
	return obj, ok
}

// Add inserts obj into the document. A duplicate identity is a
// StructuralError.
func (d *Document) Add(obj TopLevel) error {
	id := obj.Identity()
	if _, exists := d.objects[id]; exists {
		return &sbolerr.StructuralError{Identity: id, Msg: "duplicate identity in legacy document"}
	}
	d.objects[id] = obj
	d.order = append(d.order, id)
	return nil
}

// All returns every TopLevel object in insertion order.
func (d *Document) All() []TopLevel {
	out := make([]TopLevel, len(d.order))
	for i, id := range d.order {
		out[i] = d.objects[id]
	}
	return out
}

// ComponentDefinitions returns every ComponentDefinition in the document,
// in insertion order.
func (d *Document) ComponentDefinitions() []*ComponentDefinition {
	var out []*ComponentDefinition
	for _, id := range d.order {
		if cd, ok := d.objects[id].(*ComponentDefinition); ok {
			out = append(out, cd)
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
