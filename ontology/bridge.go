/*
Package ontology bridges the GenBank controlled feature-type vocabulary and
the Sequence Ontology (SO), in both directions, with sensible defaults when
a term has no counterpart.

The translation tables are loaded from two CSV files, embedded into the
binary so a Bridge is usable with no on-disk configuration. A caller that
wants to override the shipped mappings can point NewBridgeFromFiles at
replacement CSVs with the same header conventions.
*/
package ontology

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lunny/log"

	"github.com/bebop/sbolconvert/sbolerr"
)

//go:embed gb2so.csv so2gb.csv
var embeddedCSVs embed.FS

// DefaultSOTerm is returned by GBToSO when a GenBank feature type has no
// mapped SO term.
const DefaultSOTerm = "SO:0000110"

// DefaultGBTerm is returned by SOToGB when an SO term has no mapped GenBank
// feature type.
const DefaultGBTerm = "misc_feature"

// Bridge holds the loaded gb2so and so2gb translation tables.
type Bridge struct {
	gb2so map[string]string
	so2gb map[string]string
}

// NewBridge loads the gb2so and so2gb tables from the package's embedded
// defaults.
func NewBridge() (*Bridge, error) {
	gb2soFile, err := embeddedCSVs.Open("gb2so.csv")
	if err != nil {
		return nil, &sbolerr.ConfigError{Path: "gb2so.csv", Msg: "embedded ontology data missing, reinstall the package", Err: err}
	}
	defer gb2soFile.Close()

	so2gbFile, err := embeddedCSVs.Open("so2gb.csv")
	if err != nil {
		return nil, &sbolerr.ConfigError{Path: "so2gb.csv", Msg: "embedded ontology data missing, reinstall the package", Err: err}
	}
	defer so2gbFile.Close()

	return newBridgeFromReaders(gb2soFile, "GenBank_Ontology", "SO_Ontology", so2gbFile, "SO_Ontology", "GenBank_Ontology")
}

// NewBridgeFromFiles loads the gb2so and so2gb tables from the filesystem,
// for callers who want to override the embedded defaults. A missing file is
// a hard ConfigError.
func NewBridgeFromFiles(gb2soPath, so2gbPath string) (*Bridge, error) {
	gb2soFile, err := os.Open(gb2soPath)
	if err != nil {
		return nil, &sbolerr.ConfigError{Path: gb2soPath, Msg: "required CSV data file is not present, please reinstall the package", Err: err}
	}
	defer gb2soFile.Close()

	so2gbFile, err := os.Open(so2gbPath)
	if err != nil {
		return nil, &sbolerr.ConfigError{Path: so2gbPath, Msg: "required CSV data file is not present, please reinstall the package", Err: err}
	}
	defer so2gbFile.Close()

	return newBridgeFromReaders(gb2soFile, "GenBank_Ontology", "SO_Ontology", so2gbFile, "SO_Ontology", "GenBank_Ontology")
}

func newBridgeFromReaders(gb2so io.Reader, gb2soKeyCol, gb2soValCol string, so2gb io.Reader, so2gbKeyCol, so2gbValCol string) (*Bridge, error) {
	gb2soMap, err := readMappingCSV(gb2so, gb2soKeyCol, gb2soValCol)
	if err != nil {
		return nil, err
	}
	so2gbMap, err := readMappingCSV(so2gb, so2gbKeyCol, so2gbValCol)
	if err != nil {
		return nil, err
	}
	return &Bridge{gb2so: gb2soMap, so2gb: so2gbMap}, nil
}

// readMappingCSV parses a two-column, header-row CSV into a map from
// keyCol to valCol, tolerating arbitrary leading whitespace on each field
// and trailing empty lines.
func readMappingCSV(r io.Reader, keyCol, valCol string) (map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &sbolerr.ConfigError{Msg: "could not read ontology CSV header", Err: err}
	}
	keyIndex, valIndex := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case keyCol:
			keyIndex = i
		case valCol:
			valIndex = i
		}
	}
	if keyIndex == -1 || valIndex == -1 {
		return nil, &sbolerr.ConfigError{Msg: fmt.Sprintf("ontology CSV missing expected columns %q/%q", keyCol, valCol)}
	}

	mapping := make(map[string]string)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &sbolerr.ConfigError{Msg: "malformed ontology CSV row", Err: err}
		}
		if len(record) <= keyIndex || len(record) <= valIndex {
			continue
		}
		key := strings.TrimSpace(record[keyIndex])
		val := strings.TrimSpace(record[valIndex])
		if key == "" {
			continue
		}
		mapping[key] = val
	}
	return mapping, nil
}

// GBToSO looks up the SO term for a GenBank feature type. On a miss it logs
// a non-fatal warning and returns DefaultSOTerm.
func (b *Bridge) GBToSO(gbTerm string) string {
	if so, ok := b.gb2so[gbTerm]; ok {
		return so
	}
	log.Warnf("no SO ontology term found for GenBank feature type %q, using default %s", gbTerm, DefaultSOTerm)
	return DefaultSOTerm
}

// SOToGB looks up the GenBank feature type for a bare SO term (e.g.
// "SO:0000316", no namespace prefix). On a miss it logs a non-fatal warning
// and returns DefaultGBTerm.
func (b *Bridge) SOToGB(soTerm string) string {
	if gb, ok := b.so2gb[soTerm]; ok {
		return gb
	}
	log.Warnf("no GenBank feature type found for SO ontology term %q, using default %s", soTerm, DefaultGBTerm)
	return DefaultGBTerm
}
