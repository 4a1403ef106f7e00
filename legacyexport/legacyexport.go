/*
Package legacyexport walks an SGM Document down to an SGM-legacy Document
and on to GenBank records, implementing the legacy conversion path of
spec.md §4.5: Collection, Component, and Sequence recurse; everything else
is an UnsupportedVariant.
*/
package legacyexport

import (
	"fmt"
	"strings"

	"github.com/bebop/sbolconvert/bio/genbank"
	"github.com/bebop/sbolconvert/location"
	"github.com/bebop/sbolconvert/ontology"
	"github.com/bebop/sbolconvert/sbol"
	"github.com/bebop/sbolconvert/sbol/legacy"
	"github.com/bebop/sbolconvert/sbolerr"
)

// memoSuffix is appended to a source identity to form its memo key in the
// target legacy document, per spec.md §4.5.
const memoSuffix = "/1"

// Convert converts src (a Component, Sequence, or Collection) into its
// legacy counterpart, adding every object it builds to target and reusing
// anything already memoized there. source is consulted to resolve the
// identity references (SubComponent.InstanceOf, Component.Sequences,
// Collection.Members) src alone cannot walk.
func Convert(source *sbol.Document, target *legacy.Document, src sbol.TopLevel) (legacy.TopLevel, error) {
	memoKey := src.Identity() + memoSuffix
	if existing, ok := target.Find(memoKey); ok {
		return existing, nil
	}

	switch obj := src.(type) {
	case *sbol.Collection:
		return convertCollection(source, target, obj, memoKey)
	case *sbol.Component:
		return convertComponent(source, target, obj, memoKey)
	case *sbol.Sequence:
		return convertSequence(target, obj, memoKey)
	default:
		return nil, &sbolerr.UnsupportedVariant{Identity: src.Identity(), TypeName: fmt.Sprintf("%T", src)}
	}
}

func convertCollection(source *sbol.Document, target *legacy.Document, col *sbol.Collection, memoKey string) (legacy.TopLevel, error) {
	legacyCol := &legacy.Collection{Identified: copyIdentified(col.Identified, memoKey)}
	if err := target.Add(legacyCol); err != nil {
		return nil, err
	}
	for _, memberID := range col.Members {
		member, ok := source.Get(memberID)
		if !ok {
			return nil, &sbolerr.StructuralError{Identity: col.Identity(), Msg: "collection member not found: " + memberID}
		}
		if _, err := Convert(source, target, member); err != nil {
			return nil, err
		}
		legacyCol.Members = append(legacyCol.Members, memberID)
	}
	return legacyCol, nil
}

func convertComponent(source *sbol.Document, target *legacy.Document, comp *sbol.Component, memoKey string) (legacy.TopLevel, error) {
	cd := &legacy.ComponentDefinition{
		Identified: copyIdentified(comp.Identified, memoKey),
		Types:      legacy.RemapTypes(comp.Types),
		Roles:      append([]string(nil), comp.Roles...),
	}
	// Registered before recursing so a cycle through SubComponent.InstanceOf
	// (forbidden by SGM's ownership model, but cheap to guard) resolves to
	// this same object rather than looping.
	if err := target.Add(cd); err != nil {
		return nil, err
	}

	for _, seqID := range comp.Sequences {
		seqObj, ok := source.Get(seqID)
		if !ok {
			return nil, &sbolerr.StructuralError{Identity: comp.Identity(), Msg: "referenced sequence not found: " + seqID}
		}
		convertedSeq, err := Convert(source, target, seqObj)
		if err != nil {
			return nil, err
		}
		cd.Sequences = append(cd.Sequences, convertedSeq.Identity())
	}

	for _, feature := range comp.Features {
		sub, ok := feature.(*sbol.SubComponent)
		if !ok {
			continue
		}
		definitionObj, ok := source.Get(sub.InstanceOf)
		if !ok {
			return nil, &sbolerr.StructuralError{Identity: sub.Identity(), Msg: "subcomponent instance-of not found: " + sub.InstanceOf}
		}
		converted, err := Convert(source, target, definitionObj)
		if err != nil {
			return nil, err
		}

		instance := &legacy.Component{
			Identified: legacy.Identified{ID: sub.Identity() + memoSuffix, DisplayID: sub.DisplayID, Name: sub.Name, Description: sub.Description},
			Definition: converted.Identity(),
		}
		cd.Components = append(cd.Components, instance)

		if len(sub.Locations) > 0 {
			annotation := &legacy.SequenceAnnotation{
				Identified:        legacy.Identified{ID: sub.Identity() + "/annotation" + memoSuffix},
				ComponentInstance: instance.Identity(),
			}
			for _, owned := range sub.Locations {
				annotation.Locations = append(annotation.Locations, toLocation(owned))
			}
			cd.SequenceAnnotations = append(cd.SequenceAnnotations, annotation)
		}
	}

	return cd, nil
}

func convertSequence(target *legacy.Document, seq *sbol.Sequence, memoKey string) (legacy.TopLevel, error) {
	legacySeq := &legacy.Sequence{
		Identified: copyIdentified(seq.Identified, memoKey),
		Encoding:   legacy.RemapType(seq.Encoding),
		Elements:   seq.Elements,
	}
	if err := target.Add(legacySeq); err != nil {
		return nil, err
	}
	return legacySeq, nil
}

func copyIdentified(src sbol.Identified, memoKey string) legacy.Identified {
	return legacy.Identified{ID: memoKey, DisplayID: src.DisplayID, Name: src.Name, Description: src.Description}
}

func toLocation(owned sbol.RangeOrCut) location.Location {
	switch l := owned.(type) {
	case *sbol.Range:
		startFuzz, endFuzz := location.FuzzExact, location.FuzzExact
		if l.Extras != nil {
			startFuzz = location.Fuzz(l.Extras.StartPosition)
			endFuzz = location.Fuzz(l.Extras.EndPosition)
		}
		return location.Range{Start: l.Start, End: l.End, Orientation: l.Orientation, StartFuzz: startFuzz, EndFuzz: endFuzz}
	case *sbol.Cut:
		return location.Cut{At: l.At, Orientation: l.Orientation}
	default:
		panic("legacyexport: unknown RangeOrCut implementation")
	}
}

// ToGenbank walks every serializable ComponentDefinition (one with exactly
// one Sequence) in doc and builds a GenBank record for it, rebuilding
// features from its SequenceAnnotations. A backbone ComponentDefinition
// gets an outer record with its insert SubComponents as features; any
// insert that is itself serializable also gets its own standalone record.
func ToGenbank(doc *legacy.Document, bridge *ontology.Bridge) ([]*genbank.Genbank, error) {
	var records []*genbank.Genbank
	for _, cd := range doc.ComponentDefinitions() {
		if len(cd.Sequences) != 1 {
			continue
		}
		record, err := toRecord(doc, cd, bridge)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func toRecord(doc *legacy.Document, cd *legacy.ComponentDefinition, bridge *ontology.Bridge) (*genbank.Genbank, error) {
	seqObj, ok := doc.Find(cd.Sequences[0])
	if !ok {
		return nil, &sbolerr.StructuralError{Identity: cd.Identity(), Msg: "referenced legacy sequence not found"}
	}
	seq, ok := seqObj.(*legacy.Sequence)
	if !ok {
		return nil, &sbolerr.StructuralError{Identity: cd.Identity(), Msg: "legacy sequence reference is not a Sequence"}
	}

	record := &genbank.Genbank{
		Meta: genbank.Meta{
			Name:       cd.DisplayID,
			Definition: cd.Description,
			Version:    "1",
		},
		Sequence: strings.ToUpper(seq.Elements),
	}
	// WriteTo renders the LOCUS line from Meta.Locus.Name, not Meta.Name.
	record.Meta.Locus.Name = cd.DisplayID

	instances := make(map[string]*legacy.Component, len(cd.Components))
	for _, instance := range cd.Components {
		instances[instance.Identity()] = instance
	}

	for _, annotation := range cd.SequenceAnnotations {
		instance, ok := instances[annotation.ComponentInstance]
		if !ok {
			return nil, &sbolerr.StructuralError{Identity: cd.Identity(), Msg: "sequence annotation references unknown component instance"}
		}
		defObj, ok := doc.Find(instance.Definition)
		if !ok {
			return nil, &sbolerr.StructuralError{Identity: instance.Identity(), Msg: "component instance definition not found"}
		}
		def, ok := defObj.(*legacy.ComponentDefinition)
		if !ok {
			return nil, &sbolerr.StructuralError{Identity: instance.Identity(), Msg: "component instance definition is not a ComponentDefinition"}
		}

		role := ""
		if len(def.Roles) > 0 {
			role = strings.TrimPrefix(def.Roles[0], sbol.SONamespace+"/")
		}

		leaves := append([]location.Location(nil), annotation.Locations...)
		var canonical location.Location
		switch len(leaves) {
		case 0:
			continue
		case 1:
			canonical = leaves[0]
		default:
			canonical = location.Compound{Parts: leaves, JoinOperator: "join"}
		}

		record.Features = append(record.Features, genbank.Feature{
			Type:     bridge.SOToGB(role),
			Location: location.ToGenbank(canonical),
		})
	}

	return record, nil
}
