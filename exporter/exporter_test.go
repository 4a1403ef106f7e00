package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/sbolconvert/location"
	"github.com/bebop/sbolconvert/ontology"
	"github.com/bebop/sbolconvert/sbol"
)

func testBridge(t *testing.T) *ontology.Bridge {
	t.Helper()
	bridge, err := ontology.NewBridge()
	require.NoError(t, err)
	return bridge
}

func newComponentAndSequence(id, elements string) (*sbol.Component, *sbol.Sequence) {
	comp := &sbol.Component{
		Identified: sbol.Identified{ID: id, DisplayID: "rec1", Description: "a test plasmid"},
		Sequences:  []string{id + "_sequence"},
		Extras:     &sbol.GBKExtras{Source: "", Division: "linear"},
	}
	seq := &sbol.Sequence{Identified: sbol.Identified{ID: id + "_sequence"}, Elements: elements}
	return comp, seq
}

func TestExportSkipsComponentWithoutSequence(t *testing.T) {
	doc := sbol.NewDocument()
	require.NoError(t, doc.Add(&sbol.Component{Identified: sbol.Identified{ID: "c1"}}))

	results, records, err := Export(doc, testBridge(t))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, results)
}

func TestExportErrorsOnMultipleSequences(t *testing.T) {
	doc := sbol.NewDocument()
	require.NoError(t, doc.Add(&sbol.Component{Identified: sbol.Identified{ID: "c1"}, Sequences: []string{"s1", "s2"}}))

	_, _, err := Export(doc, testBridge(t))
	require.Error(t, err)
}

func TestExportSourceDefaultSentinel(t *testing.T) {
	doc := sbol.NewDocument()
	comp, seq := newComponentAndSequence("c1", "acgt")
	require.NoError(t, doc.Add(comp))
	require.NoError(t, doc.Add(seq))

	_, records, err := Export(doc, testBridge(t))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ".", records[0].Meta.Source)
}

func TestExportSequenceVersionIsAlwaysConstantOne(t *testing.T) {
	doc := sbol.NewDocument()
	comp, seq := newComponentAndSequence("c1", "acgt")
	comp.Extras.SeqVersion = "7"
	require.NoError(t, doc.Add(comp))
	require.NoError(t, doc.Add(seq))

	_, records, err := Export(doc, testBridge(t))
	require.NoError(t, err)
	assert.Equal(t, "1", records[0].Meta.Version)
}

func TestExportRehydratesLocusModificationDate(t *testing.T) {
	doc := sbol.NewDocument()
	comp, seq := newComponentAndSequence("c1", "acgt")
	comp.Extras.Date = "01-JAN-2024"
	require.NoError(t, doc.Add(comp))
	require.NoError(t, doc.Add(seq))

	_, records, err := Export(doc, testBridge(t))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "01-JAN-2024", records[0].Meta.Locus.ModificationDate)
}

func TestExportSequenceUppercased(t *testing.T) {
	doc := sbol.NewDocument()
	comp, seq := newComponentAndSequence("c1", "acgt")
	require.NoError(t, doc.Add(comp))
	require.NoError(t, doc.Add(seq))

	_, records, err := Export(doc, testBridge(t))
	require.NoError(t, err)
	assert.Equal(t, "ACGT", records[0].Sequence)
}

func TestExportSingleCDSFeature(t *testing.T) {
	doc := sbol.NewDocument()
	comp, seq := newComponentAndSequence("c1", "acgt")
	comp.Features = []sbol.Feature{
		&sbol.SequenceFeature{
			Identified:  sbol.Identified{ID: "c1/f1", Name: "gene1"},
			Roles:       []string{sbol.SORole("SO:0000316")},
			Orientation: location.Forward,
			Locations: []sbol.RangeOrCut{
				&sbol.Range{Identified: sbol.Identified{ID: "c1/f1/loc1"}, Start: 0, End: 300, Orientation: location.Forward, Sequence: seq.ID},
			},
			Extras: &sbol.FeatureExtras{QualifierKeys: []string{"0:label"}, QualifierValues: []string{"0:gene1"}},
		},
	}
	require.NoError(t, doc.Add(comp))
	require.NoError(t, doc.Add(seq))

	_, records, err := Export(doc, testBridge(t))
	require.NoError(t, err)
	require.Len(t, records[0].Features, 1)
	feature := records[0].Features[0]
	assert.Equal(t, "CDS", feature.Type)
	assert.Equal(t, 0, feature.Location.Start)
	assert.Equal(t, 300, feature.Location.End)
	assert.Equal(t, []string{"gene1"}, feature.Attributes["label"])
}

// scenario 2: mixed-strand compound re-sorts ascending and re-emits.
func TestExportMixedStrandCompoundSorts(t *testing.T) {
	doc := sbol.NewDocument()
	comp, seq := newComponentAndSequence("c1", "acgtacgtacgtacgtacgtacgtacgt")
	comp.Features = []sbol.Feature{
		&sbol.SequenceFeature{
			Identified:  sbol.Identified{ID: "c1/f1"},
			Roles:       []string{sbol.SORole("SO:0000110")},
			Orientation: location.Forward,
			Locations: []sbol.RangeOrCut{
				&sbol.Range{Identified: sbol.Identified{ID: "c1/f1/loc2"}, Start: 199, End: 250, Orientation: location.Reverse, Sequence: seq.ID},
				&sbol.Range{Identified: sbol.Identified{ID: "c1/f1/loc1"}, Start: 0, End: 100, Orientation: location.Forward, Sequence: seq.ID},
			},
		},
	}
	require.NoError(t, doc.Add(comp))
	require.NoError(t, doc.Add(seq))

	_, records, err := Export(doc, testBridge(t))
	require.NoError(t, err)
	loc := records[0].Features[0].Location
	require.True(t, loc.Join)
	require.Len(t, loc.SubLocations, 2)
	assert.Equal(t, 0, loc.SubLocations[0].Start)
	assert.False(t, loc.SubLocations[0].Complement)
	assert.Equal(t, 199, loc.SubLocations[1].Start)
	assert.True(t, loc.SubLocations[1].Complement)
}

func TestExportFuzzyFeatureIncludedAndMarked(t *testing.T) {
	doc := sbol.NewDocument()
	comp, seq := newComponentAndSequence("c1", "acgtacgtacgtacgtacgtacgtacgt")
	comp.Extras.FuzzyFeatures = []*sbol.SequenceFeature{
		{
			Identified:  sbol.Identified{ID: "c1/f1"},
			Roles:       []string{sbol.SORole("SO:0000316")},
			Orientation: location.Forward,
			Locations: []sbol.RangeOrCut{
				&sbol.Range{Identified: sbol.Identified{ID: "c1/f1/loc1"}, Start: 0, End: 300, Orientation: location.Forward, Sequence: seq.ID,
					Extras: &sbol.RangeExtras{StartPosition: int(location.FuzzBefore), EndPosition: int(location.FuzzAfter)}},
			},
		},
	}
	require.NoError(t, doc.Add(comp))
	require.NoError(t, doc.Add(seq))

	_, records, err := Export(doc, testBridge(t))
	require.NoError(t, err)
	require.Len(t, records[0].Features, 1)
	assert.True(t, records[0].Features[0].Location.FivePrimePartial)
	assert.True(t, records[0].Features[0].Location.ThreePrimePartial)
}

func TestExportStructuredCommentsRehydrated(t *testing.T) {
	doc := sbol.NewDocument()
	comp, seq := newComponentAndSequence("c1", "acgt")
	require.NoError(t, doc.Add(comp))
	require.NoError(t, doc.Add(seq))
	require.NoError(t, doc.Add(&sbol.StructuredComment{
		Identified:       sbol.Identified{ID: "c1/sc1"},
		Heading:          "Assembly-Data",
		Component:        "rec1",
		StructuredKeys:   []string{"1::k1", "2::k2"},
		StructuredValues: []string{"1::v1", "2::v2"},
	}))

	_, records, err := Export(doc, testBridge(t))
	require.NoError(t, err)
	raw := records[0].Meta.Other["structured_comment"]
	headings, pairs, err := sbol.DecodeStructuredComments(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Assembly-Data"}, headings)
	assert.Equal(t, []sbol.StructuredCommentPair{{Key: "k1", Value: "v1"}, {Key: "k2", Value: "v2"}}, pairs["Assembly-Data"])
}

func TestExportReferenceRehydrated(t *testing.T) {
	doc := sbol.NewDocument()
	comp, seq := newComponentAndSequence("c1", "acgt")
	require.NoError(t, doc.Add(comp))
	require.NoError(t, doc.Add(seq))
	require.NoError(t, doc.Add(&sbol.Reference{
		Identified: sbol.Identified{ID: "c1/ref1"},
		Authors:    "Doe J.",
		Title:      "A Study",
		Component:  "rec1",
		Locations: []sbol.RangeOrCut{
			&sbol.Range{Identified: sbol.Identified{ID: "c1/ref1/r1"}, Start: 0, End: 500, Orientation: location.Forward, Sequence: seq.ID},
		},
	}))

	_, records, err := Export(doc, testBridge(t))
	require.NoError(t, err)
	require.Len(t, records[0].Meta.References, 1)
	assert.Equal(t, "Doe J.", records[0].Meta.References[0].Authors)
	assert.Equal(t, "(bases 1 to 500)", records[0].Meta.References[0].Range)
}
