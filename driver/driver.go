/*
Package driver wires the SGM-to-legacy-to-GBK path (spec.md §4.6) into a
single entry point: read an SGM document, run the plasmid pre-pass,
convert every serializable Component to SGM-legacy, validate and report,
then emit legacy XML, GBK, and (optionally) FASTA.
*/
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lunny/log"

	"github.com/bebop/sbolconvert/bio/fasta"
	"github.com/bebop/sbolconvert/bio/genbank"
	"github.com/bebop/sbolconvert/legacyexport"
	"github.com/bebop/sbolconvert/ontology"
	"github.com/bebop/sbolconvert/sbol"
	"github.com/bebop/sbolconvert/sbol/legacy"
	"github.com/bebop/sbolconvert/sbolerr"
)

// Options configures a single driver run.
type Options struct {
	// InputPath is the SGM document to read. Its extension selects the
	// parser: only ".nt", this module's own sorted-ntriples subset, is
	// supported (spec.md §1 treats a general RDF/Turtle/RDF-XML reader as
	// an external collaborator out of scope).
	InputPath string
	// OutDir is where the legacy XML, GBK, and optional FASTA files are
	// written. Defaults to the input file's directory.
	OutDir string
	// Debug additionally logs the input path, the validation report, and the
	// number of records written. Warnings are logged whether or not it is set.
	Debug bool
	// FASTA additionally emits a .fasta file of every serializable
	// Component's sequence.
	FASTA bool
}

// Run executes one end-to-end conversion, per spec.md §4.6 / §4.5.
func Run(opts Options) error {
	if opts.Debug {
		log.Info("reading ", opts.InputPath)
	}

	doc, err := readSGM(opts.InputPath)
	if err != nil {
		return err
	}

	if err := plasmidPrePass(doc); err != nil {
		return err
	}

	bridge, err := ontology.NewBridge()
	if err != nil {
		return err
	}

	target := legacy.NewDocument()
	for _, comp := range doc.Components() {
		if len(comp.Sequences) == 0 {
			continue // not serializable, spec.md §4.5
		}
		if _, err := legacyexport.Convert(doc, target, comp); err != nil {
			return err
		}
	}

	report := validate(target)
	if opts.Debug {
		log.Info(report)
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = filepath.Dir(opts.InputPath)
	}
	base := strings.TrimSuffix(filepath.Base(opts.InputPath), filepath.Ext(opts.InputPath))

	if err := writeLegacyXML(target, filepath.Join(outDir, base+".xml")); err != nil {
		return err
	}

	records, err := legacyexport.ToGenbank(target, bridge)
	if err != nil {
		return err
	}
	if err := writeGBK(records, filepath.Join(outDir, base+".gbk")); err != nil {
		return err
	}

	if opts.FASTA {
		if err := writeFASTA(target, filepath.Join(outDir, base+".fasta")); err != nil {
			return err
		}
	}

	if opts.Debug {
		log.Info("wrote ", len(records), " record(s) to ", outDir)
	}
	return nil
}

func readSGM(path string) (*sbol.Document, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".nt":
		file, err := os.Open(path)
		if err != nil {
			return nil, &sbolerr.ConfigError{Path: path, Msg: "opening SGM document", Err: err}
		}
		defer file.Close()
		return sbol.ReadDocument(file)
	default:
		return nil, &sbolerr.ConfigError{Path: path, Msg: fmt.Sprintf("unsupported SGM format %q: only .nt is supported", ext)}
	}
}

// validate checks the legacy document's structural invariants and returns
// a one-line human-readable report.
func validate(doc *legacy.Document) string {
	cds := doc.ComponentDefinitions()
	seqs := doc.Sequences()
	var warnings int
	for _, cd := range cds {
		instances := make(map[string]bool, len(cd.Components))
		for _, instance := range cd.Components {
			instances[instance.Identity()] = true
		}
		for _, sa := range cd.SequenceAnnotations {
			if !instances[sa.ComponentInstance] {
				warnings++
			}
		}
	}
	return fmt.Sprintf("legacy document: %d component definition(s), %d sequence(s), %d dangling annotation(s)", len(cds), len(seqs), warnings)
}

func writeGBK(records []*genbank.Genbank, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, record := range records {
		if _, err := record.WriteTo(file); err != nil {
			return err
		}
	}
	return nil
}

func writeFASTA(doc *legacy.Document, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, cd := range doc.ComponentDefinitions() {
		if len(cd.Sequences) != 1 {
			continue
		}
		seqObj, ok := doc.Find(cd.Sequences[0])
		if !ok {
			continue
		}
		seq, ok := seqObj.(*legacy.Sequence)
		if !ok {
			continue
		}
		record := fasta.Record{Identifier: cd.DisplayID, Sequence: strings.ToUpper(seq.Elements)}
		if _, err := record.WriteTo(file); err != nil {
			return err
		}
	}
	return nil
}
