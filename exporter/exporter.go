/*
Package exporter converts an SGM Document back into GenBank records,
implementing spec.md §4.4: one record per serializable Component (a
Component with exactly one Sequence), with every carrier side-car
rehydrated into its GenBank annotation and every feature rebuilt from its
canonical locations and qualifier carrier.
*/
package exporter

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/bebop/sbolconvert/bio/genbank"
	"github.com/bebop/sbolconvert/location"
	"github.com/bebop/sbolconvert/ontology"
	"github.com/bebop/sbolconvert/sbol"
	"github.com/bebop/sbolconvert/sbolerr"
)

// defaultGBKSource is emitted in place of an empty carrier Source, the
// sentinel spec.md §4.3 step 4 says to preserve verbatim on import so
// export can restore it here.
const defaultGBKSource = "."

// Export converts every serializable Component (one with exactly one
// Sequence) in doc into a GenBank record, returning a per-identity success
// map alongside the records.
func Export(doc *sbol.Document, bridge *ontology.Bridge) (map[string]bool, []*genbank.Genbank, error) {
	referencesByComponent := indexReferences(doc)
	commentsByComponent := indexStructuredComments(doc)

	results := make(map[string]bool)
	var records []*genbank.Genbank

	for _, comp := range doc.Components() {
		if len(comp.Sequences) == 0 {
			continue
		}
		if len(comp.Sequences) > 1 {
			return nil, nil, &sbolerr.StructuralError{Identity: comp.Identity(), Msg: "component has more than one sequence"}
		}

		record, err := exportComponent(doc, comp, referencesByComponent[comp.DisplayID], commentsByComponent[comp.DisplayID], bridge)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, record)
		results[comp.Identity()] = true
	}
	return results, records, nil
}

func indexReferences(doc *sbol.Document) map[string][]*sbol.Reference {
	known := make(map[string]bool)
	for _, comp := range doc.Components() {
		known[comp.DisplayID] = true
	}
	index := make(map[string][]*sbol.Reference)
	for _, ref := range doc.References() {
		if ref.Component == "" || !known[ref.Component] {
			sbol.WarnCarrierOrphan("Reference", ref.Identity(), ref.Component)
			continue
		}
		index[ref.Component] = append(index[ref.Component], ref)
	}
	return index
}

func indexStructuredComments(doc *sbol.Document) map[string][]*sbol.StructuredComment {
	known := make(map[string]bool)
	for _, comp := range doc.Components() {
		known[comp.DisplayID] = true
	}
	index := make(map[string][]*sbol.StructuredComment)
	for _, sc := range doc.StructuredComments() {
		if sc.Component == "" || !known[sc.Component] {
			sbol.WarnCarrierOrphan("StructuredComment", sc.Identity(), sc.Component)
			continue
		}
		index[sc.Component] = append(index[sc.Component], sc)
	}
	return index
}

func exportComponent(doc *sbol.Document, comp *sbol.Component, refs []*sbol.Reference, comments []*sbol.StructuredComment, bridge *ontology.Bridge) (*genbank.Genbank, error) {
	seqObj, ok := doc.Get(comp.Sequences[0])
	if !ok {
		return nil, &sbolerr.StructuralError{Identity: comp.Identity(), Msg: "referenced sequence not found in document"}
	}
	sequence, ok := seqObj.(*sbol.Sequence)
	if !ok {
		return nil, &sbolerr.StructuralError{Identity: comp.Identity(), Msg: "sequence reference does not point at a Sequence"}
	}

	record := &genbank.Genbank{
		Meta: genbank.Meta{
			Name:       comp.DisplayID,
			Definition: comp.Description,
			Version:    "1", // constant-1 override, spec.md §4.4 step 8
			Other:      map[string]string{},
		},
		Sequence: strings.ToUpper(sequence.Elements),
	}
	// WriteTo renders the LOCUS line from Meta.Locus.Name, not Meta.Name.
	record.Meta.Locus.Name = comp.DisplayID

	if comp.Extras != nil {
		rehydrateExtras(record, comp.Extras)
	}
	rehydrateReferences(record, refs)
	if err := rehydrateStructuredComments(record, comments); err != nil {
		return nil, err
	}

	features, err := exportFeatures(comp, bridge)
	if err != nil {
		return nil, err
	}
	record.Features = features

	if len(record.Meta.Other) == 0 {
		record.Meta.Other = nil
	}
	return record, nil
}

func rehydrateExtras(record *genbank.Genbank, extras *sbol.GBKExtras) {
	record.Meta.Locus.ModificationDate = extras.Date
	record.Meta.Locus.GenbankDivision = extras.Division
	if extras.Locus != "" {
		record.Meta.Locus.Name = extras.Locus
	}
	record.Meta.Locus.MoleculeType = extras.Molecule
	record.Meta.Organism = extras.Organism
	record.Meta.Locus.Circular = extras.Topology == sbol.TypeCircular || strings.EqualFold(extras.Topology, "circular")

	record.Meta.Source = extras.Source
	if record.Meta.Source == "" {
		record.Meta.Source = defaultGBKSource
	}

	if extras.Taxonomy != "" {
		record.Meta.Taxonomy = strings.Split(extras.Taxonomy, ",")
	}
	record.Meta.Keywords = extras.Keywords
	record.Meta.Accession = strings.Join(sortedAccessions(extras.Accessions), " ")

	if extras.GI != "" {
		record.Meta.Other[sbol.OtherKeyGI] = extras.GI
	}
	if extras.Comment != "" {
		record.Meta.Other[sbol.OtherKeyComment] = extras.Comment
	}
	if extras.Topology != "" {
		record.Meta.Other[sbol.OtherKeyTopology] = extras.Topology
	}
	if dbxrefs := sbol.DecodeDBXrefs(extras.DBXrefs); len(dbxrefs) > 0 {
		record.Meta.Other[sbol.OtherKeyDBXrefs] = strings.Join(dbxrefs, "; ")
	}
}

func sortedAccessions(accessions []string) []string {
	sorted := make([]string, len(accessions))
	copy(sorted, accessions)
	sort.Strings(sorted)
	return sorted
}

func rehydrateReferences(record *genbank.Genbank, refs []*sbol.Reference) {
	for _, ref := range refs {
		gbRef := genbank.Reference{
			Authors:    ref.Authors,
			Title:      ref.Title,
			Journal:    ref.Journal,
			Consortium: ref.Consortium,
			PubMed:     ref.PubmedID,
			Remark:     ref.Comment,
		}
		if len(ref.Locations) > 0 {
			if r, ok := ref.Locations[0].(*sbol.Range); ok {
				gbRef.Range = fmt.Sprintf("(bases %d to %d)", r.Start+1, r.End)
				if r.Orientation == location.Reverse {
					gbRef.Range += " complement"
				}
			}
		}
		record.Meta.References = append(record.Meta.References, gbRef)
	}
}

func rehydrateStructuredComments(record *genbank.Genbank, comments []*sbol.StructuredComment) error {
	if len(comments) == 0 {
		return nil
	}
	headings := make([]string, 0, len(comments))
	pairsByHeading := make(map[string][]sbol.StructuredCommentPair)
	for _, sc := range comments {
		headings = append(headings, sc.Heading)
		keys, err := sbol.SortedValues("::", sc.StructuredKeys)
		if err != nil {
			return err
		}
		values, err := sbol.SortedValues("::", sc.StructuredValues)
		if err != nil {
			return err
		}
		if len(keys) != len(values) {
			return &sbolerr.StructuralError{Identity: sc.Identity(), Msg: "structured comment keys/values length mismatch"}
		}
		pairs := make([]sbol.StructuredCommentPair, len(keys))
		for i := range keys {
			pairs[i] = sbol.StructuredCommentPair{Key: keys[i], Value: values[i]}
		}
		pairsByHeading[sc.Heading] = pairs
	}
	record.Meta.Other[sbol.OtherKeyStructuredComment] = sbol.EncodeStructuredComments(headings, pairsByHeading)
	return nil
}

func exportFeatures(comp *sbol.Component, bridge *ontology.Bridge) ([]genbank.Feature, error) {
	var sources []*sbol.SequenceFeature
	sources = append(sources, asSequenceFeatures(comp.Features)...)
	if comp.Extras != nil {
		sources = append(sources, comp.Extras.FuzzyFeatures...)
	}

	features := make([]genbank.Feature, 0, len(sources))
	for _, feature := range sources {
		gbFeature, err := exportFeature(feature, bridge)
		if err != nil {
			return nil, err
		}
		features = append(features, gbFeature)
	}

	sortFeaturesCanonically(features)
	return features, nil
}

func asSequenceFeatures(owned []sbol.Feature) []*sbol.SequenceFeature {
	var out []*sbol.SequenceFeature
	for _, f := range owned {
		if sf, ok := f.(*sbol.SequenceFeature); ok {
			out = append(out, sf)
		}
	}
	return out
}

func exportFeature(feature *sbol.SequenceFeature, bridge *ontology.Bridge) (genbank.Feature, error) {
	if feature.Orientation != location.Forward && feature.Orientation != location.Reverse {
		return genbank.Feature{}, &sbolerr.StructuralError{Identity: feature.Identity(), Msg: "unknown feature orientation"}
	}

	leaves := make([]location.Location, 0, len(feature.Locations))
	for _, loc := range feature.Locations {
		leaves = append(leaves, locationFromOwned(loc))
	}
	if len(leaves) > 1 {
		location.SortParts(leaves, feature.Orientation)
	}

	var canonical location.Location
	if len(leaves) == 1 {
		canonical = leaves[0]
	} else {
		canonical = location.Compound{Parts: leaves, JoinOperator: "join"}
	}

	role := stripSONamespace(firstOrEmpty(feature.Roles))
	gbFeature := genbank.Feature{
		Type:     bridge.SOToGB(role),
		Location: location.ToGenbank(canonical),
	}

	if feature.Extras != nil {
		attrs, err := rebuildQualifiers(feature.Extras)
		if err != nil {
			return genbank.Feature{}, err
		}
		gbFeature.Attributes = attrs
	}
	return gbFeature, nil
}

func locationFromOwned(owned sbol.RangeOrCut) location.Location {
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
		panic("exporter: unknown RangeOrCut implementation")
	}
}

func stripSONamespace(role string) string {
	return strings.TrimPrefix(role, sbol.SONamespace+"/")
}

func firstOrEmpty(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}

func rebuildQualifiers(extras *sbol.FeatureExtras) (map[string][]string, error) {
	if !sbol.IndicesMatch(":", extras.QualifierKeys, extras.QualifierValues) {
		return nil, &sbolerr.StructuralError{Msg: "feature qualifier_key/qualifier_value index mismatch"}
	}
	keys, err := sbol.SortedValues(":", extras.QualifierKeys)
	if err != nil {
		return nil, err
	}
	values, err := sbol.SortedValues(":", extras.QualifierValues)
	if err != nil {
		return nil, err
	}
	attrs := make(map[string][]string, len(keys))
	for i := range keys {
		attrs[keys[i]] = []string{values[i]}
	}
	return attrs, nil
}

// sortFeaturesCanonically applies the round-trip-contract feature sort of
// spec.md §4.4 step 7: (location-positions, strand, qualifier-count, type).
func sortFeaturesCanonically(features []genbank.Feature) {
	slices.SortFunc(features, func(a, b genbank.Feature) int {
		if c := compareIntSlices(locationPositions(a.Location), locationPositions(b.Location)); c != 0 {
			return c
		}
		if c := strandOf(a.Location) - strandOf(b.Location); c != 0 {
			return c
		}
		if c := len(a.Attributes) - len(b.Attributes); c != 0 {
			return c
		}
		return strings.Compare(a.Type, b.Type)
	})
}

func locationPositions(loc genbank.Location) []int {
	if len(loc.SubLocations) == 0 {
		return []int{loc.Start, loc.End}
	}
	var out []int
	for _, sub := range loc.SubLocations {
		out = append(out, locationPositions(sub)...)
	}
	return out
}

func strandOf(loc genbank.Location) int {
	if loc.Complement {
		return -1
	}
	return 1
}

func compareIntSlices(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return len(a) - len(b)
}
