/*
Package importer converts parsed GenBank records into an SGM Document,
implementing spec.md §4.3: one Extended Component and Sequence per
record, carrier side-cars for every GBK-only annotation, and one
SequenceFeature (or fuzzy_features entry) per GBK feature.
*/
package importer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bebop/sbolconvert/bio/genbank"
	"github.com/bebop/sbolconvert/location"
	"github.com/bebop/sbolconvert/ontology"
	"github.com/bebop/sbolconvert/sbol"
	"github.com/bebop/sbolconvert/sbolerr"
)

var referenceRangeRegexp = regexp.MustCompile(`(\d+)\s+to\s+(\d+)`)

// Import converts an ordered sequence of parsed GenBank records into a
// single SGM Document, namespacing every identity it mints under
// namespace.
func Import(records []*genbank.Genbank, namespace string, bridge *ontology.Bridge) (*sbol.Document, error) {
	doc := sbol.NewDocument()
	namespace = strings.TrimSuffix(namespace, "/")

	for _, record := range records {
		if err := importRecord(doc, record, namespace, bridge); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func importRecord(doc *sbol.Document, record *genbank.Genbank, namespace string, bridge *ontology.Bridge) error {
	displayID := record.Meta.Name
	if displayID == "" {
		displayID = record.Meta.Locus.Name
	}
	componentID := namespace + "/" + displayID

	topology, err := determineTopology(record)
	if err != nil {
		return err
	}

	component := &sbol.Component{
		Identified: sbol.Identified{ID: componentID, DisplayID: displayID, Description: record.Meta.Definition},
		Types:      []string{sbol.TypeDNA, topology},
		Roles:      []string{sbol.RoleEngineeredRegion},
		Sequences:  []string{componentID + "_sequence"},
	}

	extras, err := buildExtras(record, displayID)
	if err != nil {
		return err
	}
	component.Extras = extras

	sequence := &sbol.Sequence{
		Identified: sbol.Identified{ID: componentID + "_sequence", DisplayID: displayID + "_sequence"},
		Encoding:   sbol.EncodingIUPACDNA,
		Elements:   strings.ToLower(record.Sequence),
	}

	if err := importFeatures(doc, component, record, componentID, sequence.ID, bridge); err != nil {
		return err
	}

	if err := importReferences(doc, record, componentID, displayID, sequence.ID); err != nil {
		return err
	}

	if err := doc.Add(component); err != nil {
		return err
	}
	if err := doc.Add(sequence); err != nil {
		return err
	}
	return importStructuredComments(doc, record.Meta.Other[sbol.OtherKeyStructuredComment], componentID, displayID)
}

func determineTopology(record *genbank.Genbank) (string, error) {
	if raw, ok := record.Meta.Other[sbol.OtherKeyTopology]; ok {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "circular":
			return sbol.TypeCircular, nil
		case "linear":
			return sbol.TypeLinear, nil
		}
	}
	switch strings.ToLower(record.Meta.Locus.GenbankDivision) {
	case "circular":
		return sbol.TypeCircular, nil
	case "linear":
		return sbol.TypeLinear, nil
	}
	if record.Meta.Locus.Circular {
		return sbol.TypeCircular, nil
	}
	return sbol.TypeLinear, nil
}

func buildExtras(record *genbank.Genbank, displayID string) (*sbol.GBKExtras, error) {
	for key := range record.Meta.Other {
		if !sbol.AllowedOtherKeys[key] {
			return nil, &sbolerr.StructuralError{Identity: displayID, Msg: fmt.Sprintf("unrecognized GenBank annotation key %q", key)}
		}
	}

	dbxrefs := sbol.EncodeDBXrefs(splitOnSemicolon(record.Meta.Other[sbol.OtherKeyDBXrefs]))

	return &sbol.GBKExtras{
		SeqVersion: record.Meta.Version,
		Date:       record.Meta.Locus.ModificationDate,
		Division:   record.Meta.Locus.GenbankDivision,
		Locus:      record.Meta.Locus.Name,
		Molecule:   record.Meta.Locus.MoleculeType,
		Organism:   record.Meta.Organism,
		Source:     record.Meta.Source,
		Topology:   record.Meta.Other[sbol.OtherKeyTopology],
		GI:         record.Meta.Other[sbol.OtherKeyGI],
		Comment:    record.Meta.Other[sbol.OtherKeyComment],
		DBXrefs:    dbxrefs,
		RecordID:   record.Meta.Accession,
		Taxonomy:   strings.Join(record.Meta.Taxonomy, ","),
		Keywords:   record.Meta.Keywords,
		Accessions: fieldsOrNil(record.Meta.Accession),
	}, nil
}

func splitOnSemicolon(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fieldsOrNil(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func importFeatures(doc *sbol.Document, component *sbol.Component, record *genbank.Genbank, componentID, sequenceID string, bridge *ontology.Bridge) error {
	for i, gbFeature := range record.Features {
		feature, fuzzy, err := importFeature(gbFeature, componentID, sequenceID, i, bridge)
		if err != nil {
			return err
		}
		if fuzzy {
			component.Extras.FuzzyFeatures = append(component.Extras.FuzzyFeatures, feature)
		} else {
			component.Features = append(component.Features, feature)
		}
	}
	return nil
}

func importFeature(gbFeature genbank.Feature, componentID, sequenceID string, index int, bridge *ontology.Bridge) (*sbol.SequenceFeature, bool, error) {
	featureID := fmt.Sprintf("%s/Feature_%d", componentID, index)

	name := fmt.Sprintf("_converted_feature_%d", index)
	if labels, ok := gbFeature.Attributes["label"]; ok && len(labels) > 0 {
		name = labels[0]
	}

	canonicalLoc, orientation := location.FromGenbank(gbFeature.Location)
	fuzzy := location.IsFuzzy(canonicalLoc)

	locations := make([]sbol.RangeOrCut, 0, 1)
	for i, leaf := range location.Leaves(canonicalLoc) {
		locations = append(locations, buildRangeOrCut(leaf, fmt.Sprintf("%s/Location_%d", featureID, i+1), sequenceID))
	}

	extras := &sbol.FeatureExtras{}
	for _, key := range sortedAttributeKeys(gbFeature.Attributes) {
		values := gbFeature.Attributes[key]
		if len(values) > 1 {
			sbol.WarnQualifierTruncation(featureID, key, len(values)-1)
		}
		idx := len(extras.QualifierKeys)
		extras.QualifierKeys = append(extras.QualifierKeys, sbol.EncodePrefixed(":", idx, key))
		extras.QualifierValues = append(extras.QualifierValues, sbol.EncodePrefixed(":", idx, values[0]))
	}

	feature := &sbol.SequenceFeature{
		Identified:  sbol.Identified{ID: featureID, DisplayID: name, Name: name},
		Roles:       []string{sbol.SORole(bridge.GBToSO(gbFeature.Type))},
		Orientation: orientation,
		Locations:   locations,
		Extras:      extras,
	}
	return feature, fuzzy, nil
}

func sortedAttributeKeys(attrs map[string][]string) []string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func buildRangeOrCut(leaf location.Location, identity, sequenceID string) sbol.RangeOrCut {
	switch l := leaf.(type) {
	case location.Cut:
		return &sbol.Cut{Identified: sbol.Identified{ID: identity}, At: l.At, Orientation: l.Orientation, Sequence: sequenceID}
	case location.Range:
		r := &sbol.Range{Identified: sbol.Identified{ID: identity}, Start: l.Start, End: l.End, Orientation: l.Orientation, Sequence: sequenceID}
		if l.StartFuzz != location.FuzzExact || l.EndFuzz != location.FuzzExact {
			r.Extras = &sbol.RangeExtras{StartPosition: int(l.StartFuzz), EndPosition: int(l.EndFuzz)}
		}
		return r
	default:
		panic("importer: unknown location.Location leaf kind")
	}
}

func importReferences(doc *sbol.Document, record *genbank.Genbank, componentID, displayID, sequenceID string) error {
	for i, ref := range record.Meta.References {
		refID := fmt.Sprintf("%s/Reference_%d", componentID, i)
		reference := &sbol.Reference{
			Identified: sbol.Identified{ID: refID},
			Authors:    ref.Authors,
			Comment:    ref.Remark,
			Journal:    ref.Journal,
			Consortium: ref.Consortium,
			Title:      ref.Title,
			PubmedID:   ref.PubMed,
			Component:  displayID,
		}
		if loc, ok := parseReferenceRange(ref.Range); ok {
			reference.Locations = []sbol.RangeOrCut{
				&sbol.Range{Identified: sbol.Identified{ID: refID + "/Range_1"}, Start: loc.Start, End: loc.End, Orientation: loc.Orientation, Sequence: sequenceID},
			}
		}
		if err := doc.Add(reference); err != nil {
			return err
		}
	}
	return nil
}

func parseReferenceRange(raw string) (location.Range, bool) {
	match := referenceRangeRegexp.FindStringSubmatch(raw)
	if match == nil {
		return location.Range{}, false
	}
	start, err1 := strconv.Atoi(match[1])
	end, err2 := strconv.Atoi(match[2])
	if err1 != nil || err2 != nil {
		return location.Range{}, false
	}
	orientation := location.Forward
	if strings.Contains(strings.ToLower(raw), "complement") {
		orientation = location.Reverse
	}
	return location.Range{Start: start - 1, End: end, Orientation: orientation, StartFuzz: location.FuzzExact, EndFuzz: location.FuzzExact}, true
}

func importStructuredComments(doc *sbol.Document, raw, componentID, displayID string) error {
	headings, pairsByHeading, err := sbol.DecodeStructuredComments(raw)
	if err != nil {
		return err
	}

	for i, heading := range headings {
		scID := fmt.Sprintf("%s/StructuredComment_%d", componentID, i+1)
		sc := &sbol.StructuredComment{
			Identified: sbol.Identified{ID: scID},
			Heading:    heading,
			Component:  displayID,
		}
		for j, pair := range pairsByHeading[heading] {
			sc.StructuredKeys = append(sc.StructuredKeys, sbol.EncodePrefixed("::", j+1, pair.Key))
			sc.StructuredValues = append(sc.StructuredValues, sbol.EncodePrefixed("::", j+1, pair.Value))
		}
		if err := doc.Add(sc); err != nil {
			return err
		}
	}
	return nil
}
