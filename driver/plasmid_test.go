package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/sbolconvert/location"
	"github.com/bebop/sbolconvert/sbol"
)

// scenario 6: a plasmid backbone with one plasmid-role backbone subcomponent
// and two insert subcomponents; after the pre-pass the inserts' descriptions
// equal their own display ids.
func buildPlasmidFixture() *sbol.Document {
	doc := sbol.NewDocument()
	backbonePart := &sbol.Component{
		Identified: sbol.Identified{ID: "backbone_part", DisplayID: "backbone_part"},
		Roles:      []string{sbol.RolePlasmid},
	}
	insert1 := &sbol.Component{
		Identified: sbol.Identified{ID: "insert1", DisplayID: "insert1", Description: "placeholder"},
	}
	insert2 := &sbol.Component{
		Identified: sbol.Identified{ID: "insert2", DisplayID: "insert2", Description: "placeholder"},
	}
	plasmid := &sbol.Component{
		Identified: sbol.Identified{ID: "plasmid", DisplayID: "plasmid"},
		Types:      []string{sbol.TypeDNA, sbol.TypeCircular},
		Features: []sbol.Feature{
			&sbol.SubComponent{Identified: sbol.Identified{ID: "plasmid/sub_bb"}, InstanceOf: "backbone_part"},
			&sbol.SubComponent{
				Identified: sbol.Identified{ID: "plasmid/sub1"},
				InstanceOf: "insert1",
				Locations: []sbol.RangeOrCut{
					&sbol.Range{Identified: sbol.Identified{ID: "plasmid/sub1/loc1"}, Start: 0, End: 10, Orientation: location.Forward},
				},
			},
			&sbol.SubComponent{Identified: sbol.Identified{ID: "plasmid/sub2"}, InstanceOf: "insert2"},
		},
	}
	for _, obj := range []sbol.TopLevel{backbonePart, insert1, insert2, plasmid} {
		if err := doc.Add(obj); err != nil {
			panic(err)
		}
	}
	return doc
}

func TestPlasmidPrePassRewritesInsertDescriptions(t *testing.T) {
	doc := buildPlasmidFixture()

	require.NoError(t, plasmidPrePass(doc))

	insert1, _ := doc.Get("insert1")
	insert2, _ := doc.Get("insert2")
	assert.Equal(t, "insert1", insert1.(*sbol.Component).Description)
	assert.Equal(t, "insert2", insert2.(*sbol.Component).Description)
}

func TestPlasmidPrePassLeavesNonPlasmidComponentsAlone(t *testing.T) {
	doc := sbol.NewDocument()
	comp := &sbol.Component{Identified: sbol.Identified{ID: "c1", DisplayID: "c1", Description: "untouched"}}
	require.NoError(t, doc.Add(comp))

	require.NoError(t, plasmidPrePass(doc))
	assert.Equal(t, "untouched", comp.Description)
}

func TestPlasmidPrePassErrorsOnMultipleBackbones(t *testing.T) {
	doc := sbol.NewDocument()
	bb1 := &sbol.Component{Identified: sbol.Identified{ID: "bb1", DisplayID: "bb1"}, Roles: []string{sbol.RolePlasmid}}
	bb2 := &sbol.Component{Identified: sbol.Identified{ID: "bb2", DisplayID: "bb2"}, Roles: []string{sbol.RolePlasmid}}
	plasmid := &sbol.Component{
		Identified: sbol.Identified{ID: "p1", DisplayID: "p1"},
		Features: []sbol.Feature{
			&sbol.SubComponent{Identified: sbol.Identified{ID: "p1/a"}, InstanceOf: "bb1"},
			&sbol.SubComponent{Identified: sbol.Identified{ID: "p1/b"}, InstanceOf: "bb2"},
		},
	}
	for _, obj := range []sbol.TopLevel{bb1, bb2, plasmid} {
		require.NoError(t, doc.Add(obj))
	}

	err := plasmidPrePass(doc)
	require.Error(t, err)
}
