package sbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/sbolconvert/sbolerr"
)

func TestDocumentAddAndGet(t *testing.T) {
	doc := NewDocument()
	comp := &Component{Identified: Identified{ID: "https://example.org/comp1"}}
	require.NoError(t, doc.Add(comp))

	got, ok := doc.Get("https://example.org/comp1")
	require.True(t, ok)
	assert.Same(t, TopLevel(comp), got)
}

func TestDocumentAddDuplicateIdentityIsStructuralError(t *testing.T) {
	doc := NewDocument()
	comp := &Component{Identified: Identified{ID: "https://example.org/comp1"}}
	require.NoError(t, doc.Add(comp))
	err := doc.Add(&Component{Identified: Identified{ID: "https://example.org/comp1"}})
	require.Error(t, err)
	var structuralErr *sbolerr.StructuralError
	assert.ErrorAs(t, err, &structuralErr)
}

func TestDocumentPreservesInsertionOrder(t *testing.T) {
	doc := NewDocument()
	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		require.NoError(t, doc.Add(&Sequence{Identified: Identified{ID: id}}))
	}
	all := doc.All()
	require.Len(t, all, 3)
	for i, obj := range all {
		assert.Equal(t, ids[i], obj.Identity())
	}
}

func TestDocumentTypedAccessorsFilterByKind(t *testing.T) {
	doc := NewDocument()
	require.NoError(t, doc.Add(&Component{Identified: Identified{ID: "comp"}}))
	require.NoError(t, doc.Add(&Sequence{Identified: Identified{ID: "seq"}}))
	require.NoError(t, doc.Add(&Reference{Identified: Identified{ID: "ref"}}))

	assert.Len(t, doc.Components(), 1)
	assert.Len(t, doc.Sequences(), 1)
	assert.Len(t, doc.References(), 1)
	assert.Len(t, doc.StructuredComments(), 0)
}

func TestComponentAtMostOneSequenceInvariantIsCallerEnforced(t *testing.T) {
	comp := &Component{Sequences: []string{"seq1", "seq2"}}
	assert.Len(t, comp.Sequences, 2) // importer/exporter reject this before it reaches here
}
