package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGBK = `LOCUS       sample                    12 bp    DNA     linear   UNK 01-JAN-2024
DEFINITION  a minimal fixture record.
ACCESSION   sample
FEATURES             Location/Qualifiers
     CDS             1..12
                     /label="sample"
ORIGIN
        1 acgtacgtacgt
//
`

func TestMain(t *testing.T) {
	rescueStdout := os.Stdout
	_, w, _ := os.Pipe()
	os.Stdout = w

	arg := os.Args[0:1]
	os.Args = append(arg, "-h")
	main()
	os.Args = os.Args[0:1]
	w.Close()
	os.Stdout = rescueStdout
}

func TestImportThenExportRoundTrips(t *testing.T) {
	dir := t.TempDir()
	gbkPath := filepath.Join(dir, "sample.gbk")
	require.NoError(t, os.WriteFile(gbkPath, []byte(sampleGBK), 0o644))

	ntPath := filepath.Join(dir, "sample.nt")
	app := application()
	require.NoError(t, app.Run([]string{"sbolconvert", "import", "-i", gbkPath, "-o", ntPath}))
	assert.FileExists(t, ntPath)

	outPath := filepath.Join(dir, "roundtrip.gbk")
	app = application()
	require.NoError(t, app.Run([]string{"sbolconvert", "export", "-i", ntPath, "-o", outPath}))

	roundtripped, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(roundtripped), "ACGTACGTAC GT")
	assert.Contains(t, string(roundtripped), "CDS")
	assert.Contains(t, string(roundtripped), "01-JAN-2024")
}

func TestConvertCommandEmitsLegacyArtifacts(t *testing.T) {
	dir := t.TempDir()
	gbkPath := filepath.Join(dir, "sample.gbk")
	require.NoError(t, os.WriteFile(gbkPath, []byte(sampleGBK), 0o644))

	ntPath := filepath.Join(dir, "sample.nt")
	app := application()
	require.NoError(t, app.Run([]string{"sbolconvert", "import", "-i", gbkPath, "-o", ntPath}))

	app = application()
	require.NoError(t, app.Run([]string{"sbolconvert", "convert", "-i", ntPath, "-o", dir, "--fasta"}))

	assert.FileExists(t, filepath.Join(dir, "sample.xml"))
	assert.FileExists(t, filepath.Join(dir, "sample.gbk"))
	assert.FileExists(t, filepath.Join(dir, "sample.fasta"))
}
