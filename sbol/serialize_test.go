package sbol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/sbolconvert/location"
)

func buildRoundTripFixture() *Document {
	doc := NewDocument()
	seq := &Sequence{Identified: Identified{ID: "c1_sequence", DisplayID: "c1_sequence"}, Encoding: EncodingIUPACDNA, Elements: "acgtacgtacgt"}
	comp := &Component{
		Identified: Identified{ID: "c1", DisplayID: "rec1", Description: "a fixture"},
		Types:      []string{TypeDNA, TypeLinear},
		Roles:      []string{RoleEngineeredRegion},
		Sequences:  []string{"c1_sequence"},
		Extras: &GBKExtras{
			Organism:   "E. coli",
			Source:     "bacteria",
			Accessions: []string{"ABC123"},
		},
		Features: []Feature{
			&SequenceFeature{
				Identified:  Identified{ID: "c1/f1", Name: "gene1"},
				Roles:       []string{SORole("SO:0000316")},
				Orientation: location.Forward,
				Locations: []RangeOrCut{
					&Range{Identified: Identified{ID: "c1/f1/loc1"}, Start: 0, End: 300, Orientation: location.Forward, Sequence: "c1_sequence"},
				},
				Extras: &FeatureExtras{QualifierKeys: []string{"0:label"}, QualifierValues: []string{"0:gene1"}},
			},
		},
	}
	doc.Add(seq)
	doc.Add(comp)
	doc.Add(&Reference{
		Identified: Identified{ID: "c1/ref1"},
		Authors:    "Doe J.",
		Component:  "rec1",
		Locations: []RangeOrCut{
			&Range{Identified: Identified{ID: "c1/ref1/r1"}, Start: 0, End: 500, Orientation: location.Forward, Sequence: "c1_sequence"},
		},
	})
	doc.Add(&StructuredComment{
		Identified:       Identified{ID: "c1/sc1"},
		Heading:          "Assembly-Data",
		Component:        "rec1",
		StructuredKeys:   []string{"1::k1"},
		StructuredValues: []string{"1::v1"},
	})
	doc.Add(&Collection{Identified: Identified{ID: "coll1"}, Members: []string{"c1"}})
	return doc
}

func TestWriteReadDocumentRoundTrip(t *testing.T) {
	original := buildRoundTripFixture()

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(original, &buf))

	decoded, err := ReadDocument(&buf)
	require.NoError(t, err)

	comps := decoded.Components()
	require.Len(t, comps, 1)
	comp := comps[0]
	assert.Equal(t, "rec1", comp.DisplayID)
	assert.Equal(t, "a fixture", comp.Description)
	assert.ElementsMatch(t, []string{TypeDNA, TypeLinear}, comp.Types)
	assert.Equal(t, []string{"c1_sequence"}, comp.Sequences)
	require.NotNil(t, comp.Extras)
	assert.Equal(t, "E. coli", comp.Extras.Organism)
	assert.Equal(t, []string{"ABC123"}, comp.Extras.Accessions)

	require.Len(t, comp.Features, 1)
	feature := comp.Features[0].(*SequenceFeature)
	assert.Equal(t, "gene1", feature.Name)
	assert.Equal(t, location.Forward, feature.Orientation)
	require.Len(t, feature.Locations, 1)
	r := feature.Locations[0].(*Range)
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 300, r.End)
	keys, err := SortedValues(":", feature.Extras.QualifierKeys)
	require.NoError(t, err)
	assert.Equal(t, []string{"label"}, keys)

	seqs := decoded.Sequences()
	require.Len(t, seqs, 1)
	assert.Equal(t, "acgtacgtacgt", seqs[0].Elements)

	refs := decoded.References()
	require.Len(t, refs, 1)
	assert.Equal(t, "Doe J.", refs[0].Authors)
	assert.Equal(t, "rec1", refs[0].Component)
	require.Len(t, refs[0].Locations, 1)
	refRange := refs[0].Locations[0].(*Range)
	assert.Equal(t, 500, refRange.End)

	comments := decoded.StructuredComments()
	require.Len(t, comments, 1)
	assert.Equal(t, "Assembly-Data", comments[0].Heading)

	collections := decoded.Collections()
	require.Len(t, collections, 1)
	assert.Equal(t, []string{"c1"}, collections[0].Members)
}

func TestReadDocumentRejectsMalformedLine(t *testing.T) {
	_, err := ReadDocument(bytes.NewBufferString("not-a-valid-line\n"))
	require.Error(t, err)
}
