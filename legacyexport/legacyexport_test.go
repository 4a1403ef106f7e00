package legacyexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/sbolconvert/location"
	"github.com/bebop/sbolconvert/ontology"
	"github.com/bebop/sbolconvert/sbol"
	"github.com/bebop/sbolconvert/sbol/legacy"
	"github.com/bebop/sbolconvert/sbolerr"
)

func testBridge(t *testing.T) *ontology.Bridge {
	t.Helper()
	bridge, err := ontology.NewBridge()
	require.NoError(t, err)
	return bridge
}

func buildBackboneWithInsert() *sbol.Document {
	doc := sbol.NewDocument()
	insertSeq := &sbol.Sequence{Identified: sbol.Identified{ID: "insert_seq"}, Elements: "acgt", Encoding: sbol.EncodingIUPACDNA}
	insert := &sbol.Component{
		Identified: sbol.Identified{ID: "insert", DisplayID: "insert"},
		Types:      []string{sbol.TypeDNA},
		Sequences:  []string{"insert_seq"},
	}
	backboneSeq := &sbol.Sequence{Identified: sbol.Identified{ID: "backbone_seq"}, Elements: "ggggacgtgggg", Encoding: sbol.EncodingIUPACDNA}
	backbone := &sbol.Component{
		Identified: sbol.Identified{ID: "backbone", DisplayID: "backbone"},
		Types:      []string{sbol.TypeDNA, sbol.TypeCircular},
		Sequences:  []string{"backbone_seq"},
		Features: []sbol.Feature{
			&sbol.SubComponent{
				Identified: sbol.Identified{ID: "backbone/sub1", DisplayID: "insert"},
				InstanceOf: "insert",
				Locations: []sbol.RangeOrCut{
					&sbol.Range{Identified: sbol.Identified{ID: "backbone/sub1/loc1"}, Start: 4, End: 8, Orientation: location.Forward, Sequence: "backbone_seq"},
				},
			},
		},
	}
	for _, obj := range []sbol.TopLevel{insertSeq, insert, backboneSeq, backbone} {
		if err := doc.Add(obj); err != nil {
			panic(err)
		}
	}
	return doc
}

func TestConvertComponentWithSubComponentAndSequence(t *testing.T) {
	src := buildBackboneWithInsert()
	backbone, _ := src.Get("backbone")
	target := legacy.NewDocument()

	converted, err := Convert(src, target, backbone)
	require.NoError(t, err)

	cd, ok := converted.(*legacy.ComponentDefinition)
	require.True(t, ok)
	assert.Contains(t, cd.Types, legacy.BiopaxDNA)
	require.Len(t, cd.Sequences, 1)
	require.Len(t, cd.Components, 1)
	require.Len(t, cd.SequenceAnnotations, 1)
	assert.Equal(t, cd.Components[0].Identity(), cd.SequenceAnnotations[0].ComponentInstance)

	// the insert's ComponentDefinition must also now be memoized in target.
	insertCD, ok := target.Find("insert/1")
	require.True(t, ok)
	assert.Equal(t, cd.Components[0].Definition, insertCD.Identity())
}

func TestConvertMemoizesByIdentity(t *testing.T) {
	src := sbol.NewDocument()
	seq := &sbol.Sequence{Identified: sbol.Identified{ID: "s1"}, Elements: "acgt"}
	require.NoError(t, src.Add(seq))
	target := legacy.NewDocument()

	first, err := Convert(src, target, seq)
	require.NoError(t, err)
	second, err := Convert(src, target, seq)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestConvertSequenceEncodingRemap(t *testing.T) {
	src := sbol.NewDocument()
	seq := &sbol.Sequence{Identified: sbol.Identified{ID: "s1"}, Elements: "acgt", Encoding: sbol.EncodingIUPACDNA}
	require.NoError(t, src.Add(seq))
	target := legacy.NewDocument()

	converted, err := Convert(src, target, seq)
	require.NoError(t, err)
	legacySeq := converted.(*legacy.Sequence)
	assert.Equal(t, legacy.SBOLEncodingIUPAC, legacySeq.Encoding)
	assert.Equal(t, "acgt", legacySeq.Elements)
}

func TestConvertUnsupportedVariantIsHardError(t *testing.T) {
	src := sbol.NewDocument()
	ref := &sbol.Reference{Identified: sbol.Identified{ID: "ref1"}}
	require.NoError(t, src.Add(ref))
	target := legacy.NewDocument()

	_, err := Convert(src, target, ref)
	require.Error(t, err)
	var unsupported *sbolerr.UnsupportedVariant
	assert.ErrorAs(t, err, &unsupported)
}

// scenario 6: a plasmid backbone with one located insert converts to a
// single GBK record carrying the insert as a feature.
func TestToGenbankEmitsBackboneWithInsertFeature(t *testing.T) {
	src := buildBackboneWithInsert()
	backbone, _ := src.Get("backbone")
	// give the insert a role so the emitted feature type is meaningful.
	insertObj, _ := src.Get("insert")
	insertObj.(*sbol.Component).Roles = []string{sbol.SORole("SO:0000316")}

	target := legacy.NewDocument()
	_, err := Convert(src, target, backbone)
	require.NoError(t, err)

	records, err := ToGenbank(target, testBridge(t))
	require.NoError(t, err)
	require.Len(t, records, 2) // backbone + insert both have exactly one sequence

	var found bool
	for _, rec := range records {
		if rec.Meta.Name == "backbone" {
			found = true
			require.Len(t, rec.Features, 1)
			assert.Equal(t, "CDS", rec.Features[0].Type)
			assert.Equal(t, 4, rec.Features[0].Location.Start)
			assert.Equal(t, 8, rec.Features[0].Location.End)
		}
	}
	assert.True(t, found)
}
