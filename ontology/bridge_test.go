package ontology

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/sbolconvert/sbolerr"
)

func TestNewBridgeEmbedded(t *testing.T) {
	bridge, err := NewBridge()
	require.NoError(t, err)

	assert.Equal(t, "SO:0000316", bridge.GBToSO("CDS"))
	assert.Equal(t, "CDS", bridge.SOToGB("SO:0000316"))
}

func TestBridgeDefaultsOnMiss(t *testing.T) {
	bridge, err := NewBridge()
	require.NoError(t, err)

	assert.Equal(t, DefaultSOTerm, bridge.GBToSO("not_a_real_feature_type"))
	assert.Equal(t, DefaultGBTerm, bridge.SOToGB("SO:9999999"))
}

func TestReadMappingCSVToleratesWhitespaceAndTrailingBlankLines(t *testing.T) {
	csvData := "  GenBank_Ontology , SO_Ontology \n  CDS ,  SO:0000316 \n\n\n"
	mapping, err := readMappingCSV(strings.NewReader(csvData), "GenBank_Ontology", "SO_Ontology")
	require.NoError(t, err)
	assert.Equal(t, "SO:0000316", mapping["CDS"])
}

func TestNewBridgeFromFilesMissingIsConfigError(t *testing.T) {
	_, err := NewBridgeFromFiles("/nonexistent/gb2so.csv", "/nonexistent/so2gb.csv")
	require.Error(t, err)
	var configErr *sbolerr.ConfigError
	assert.ErrorAs(t, err, &configErr)
}
