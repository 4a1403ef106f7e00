package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/sbolconvert/bio/genbank"
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

// scenario 1: linear, one CDS with an explicit label.
func TestImportLinearSingleCDS(t *testing.T) {
	record := &genbank.Genbank{
		Meta: genbank.Meta{
			Name:       "plasmid1",
			Definition: "a test plasmid",
			Locus:      genbank.Locus{Name: "plasmid1", GenbankDivision: "linear"},
		},
		Sequence: "ACGT",
		Features: []genbank.Feature{
			{Type: "CDS", Location: genbank.Location{Start: 0, End: 300}, Attributes: map[string][]string{"label": {"gene1"}}},
		},
	}

	doc, err := Import([]*genbank.Genbank{record}, "https://example.org", testBridge(t))
	require.NoError(t, err)

	comps := doc.Components()
	require.Len(t, comps, 1)
	comp := comps[0]
	assert.Contains(t, comp.Types, sbol.TypeDNA)
	assert.Contains(t, comp.Types, sbol.TypeLinear)
	require.Len(t, comp.Features, 1)

	feature := comp.Features[0].(*sbol.SequenceFeature)
	assert.Equal(t, "gene1", feature.Name)
	assert.Equal(t, sbol.SORole("SO:0000316"), feature.Roles[0])
	require.Len(t, feature.Locations, 1)
	r := feature.Locations[0].(*sbol.Range)
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 300, r.End)
	assert.Equal(t, location.Forward, r.Orientation)
}

func TestImportCapturesLocusModificationDate(t *testing.T) {
	record := &genbank.Genbank{
		Meta: genbank.Meta{
			Name:  "plasmid1",
			Locus: genbank.Locus{Name: "plasmid1", ModificationDate: "01-JAN-2024"},
		},
		Sequence: "ACGT",
	}

	doc, err := Import([]*genbank.Genbank{record}, "https://example.org", testBridge(t))
	require.NoError(t, err)

	comp := doc.Components()[0]
	require.NotNil(t, comp.Extras)
	assert.Equal(t, "01-JAN-2024", comp.Extras.Date)
}

func TestImportFeatureWithoutLabelGetsSyntheticName(t *testing.T) {
	record := &genbank.Genbank{
		Meta: genbank.Meta{Name: "rec1"},
		Features: []genbank.Feature{
			{Type: "misc_feature", Location: genbank.Location{Start: 0, End: 10}},
		},
	}
	doc, err := Import([]*genbank.Genbank{record}, "https://example.org", testBridge(t))
	require.NoError(t, err)

	feature := doc.Components()[0].Features[0].(*sbol.SequenceFeature)
	assert.Equal(t, "_converted_feature_0", feature.Name)
	assert.Nil(t, feature.Extras.QualifierKeys)
}

// scenario 3: fuzzy endpoints route to fuzzy_features, not features.
func TestImportFuzzyFeatureRoutesToFuzzyFeatures(t *testing.T) {
	record := &genbank.Genbank{
		Meta: genbank.Meta{Name: "rec1"},
		Features: []genbank.Feature{
			{Type: "CDS", Location: genbank.Location{Start: 0, End: 300, FivePrimePartial: true, ThreePrimePartial: true}},
		},
	}
	doc, err := Import([]*genbank.Genbank{record}, "https://example.org", testBridge(t))
	require.NoError(t, err)

	comp := doc.Components()[0]
	assert.Empty(t, comp.Features)
	require.Len(t, comp.Extras.FuzzyFeatures, 1)
	r := comp.Extras.FuzzyFeatures[0].Locations[0].(*sbol.Range)
	require.NotNil(t, r.Extras)
	assert.Equal(t, int(location.FuzzBefore), r.Extras.StartPosition)
	assert.Equal(t, int(location.FuzzAfter), r.Extras.EndPosition)
}

func TestImportTopologyPrefersAnnotationOverDivision(t *testing.T) {
	record := &genbank.Genbank{
		Meta: genbank.Meta{
			Name:  "rec1",
			Locus: genbank.Locus{GenbankDivision: "linear"},
			Other: map[string]string{"topology": "circular"},
		},
	}
	doc, err := Import([]*genbank.Genbank{record}, "https://example.org", testBridge(t))
	require.NoError(t, err)
	assert.Contains(t, doc.Components()[0].Types, sbol.TypeCircular)
}

func TestImportTopologyDefaultsLinear(t *testing.T) {
	record := &genbank.Genbank{Meta: genbank.Meta{Name: "rec1"}}
	doc, err := Import([]*genbank.Genbank{record}, "https://example.org", testBridge(t))
	require.NoError(t, err)
	assert.Contains(t, doc.Components()[0].Types, sbol.TypeLinear)
}

func TestImportUnknownAnnotationKeyIsHardError(t *testing.T) {
	record := &genbank.Genbank{
		Meta: genbank.Meta{Name: "rec1", Other: map[string]string{"DBSOURCE": "something"}},
	}
	_, err := Import([]*genbank.Genbank{record}, "https://example.org", testBridge(t))
	require.Error(t, err)
}

// scenario 4: two structured comment headings, each with two key/value pairs.
func TestImportStructuredComments(t *testing.T) {
	raw := sbol.EncodeStructuredComments(
		[]string{"Assembly-Data", "Genome-Annotation-Data"},
		map[string][]sbol.StructuredCommentPair{
			"Assembly-Data":          {{Key: "k1", Value: "v1"}, {Key: "k2", Value: "v2"}},
			"Genome-Annotation-Data": {{Key: "k3", Value: "v3"}, {Key: "k4", Value: "v4"}},
		},
	)
	record := &genbank.Genbank{
		Meta: genbank.Meta{Name: "rec1", Other: map[string]string{"structured_comment": raw}},
	}
	doc, err := Import([]*genbank.Genbank{record}, "https://example.org", testBridge(t))
	require.NoError(t, err)

	comments := doc.StructuredComments()
	require.Len(t, comments, 2)
	assert.Equal(t, "Assembly-Data", comments[0].Heading)
	assert.Equal(t, []string{"1::k1", "2::k2"}, comments[0].StructuredKeys)
	assert.Equal(t, []string{"1::v1", "2::v2"}, comments[0].StructuredValues)
}

// scenario 5: single-author reference with a position range.
func TestImportReferenceWithLocation(t *testing.T) {
	record := &genbank.Genbank{
		Meta: genbank.Meta{
			Name: "rec1",
			References: []genbank.Reference{
				{Authors: "Doe J.", Title: "A Study", Range: "(bases 1 to 500)"},
			},
		},
	}
	doc, err := Import([]*genbank.Genbank{record}, "https://example.org", testBridge(t))
	require.NoError(t, err)

	refs := doc.References()
	require.Len(t, refs, 1)
	require.Len(t, refs[0].Locations, 1)
	r := refs[0].Locations[0].(*sbol.Range)
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 500, r.End)
}

func TestImportDBXrefsJoinedWithDoubleColon(t *testing.T) {
	record := &genbank.Genbank{
		Meta: genbank.Meta{Name: "rec1", Other: map[string]string{"DBLINK": "BioProject:PRJNA1; BioSample:SAMN1"}},
	}
	doc, err := Import([]*genbank.Genbank{record}, "https://example.org", testBridge(t))
	require.NoError(t, err)
	assert.Equal(t, "BioProject:PRJNA1::BioSample:SAMN1", doc.Components()[0].Extras.DBXrefs)
}

func TestImportPreservesEmptySourceSentinel(t *testing.T) {
	record := &genbank.Genbank{Meta: genbank.Meta{Name: "rec1", Source: ""}}
	doc, err := Import([]*genbank.Genbank{record}, "https://example.org", testBridge(t))
	require.NoError(t, err)
	assert.Equal(t, "", doc.Components()[0].Extras.Source)
}
