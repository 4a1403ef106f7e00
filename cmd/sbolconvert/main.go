// main is the entry point for our command line utility. We separate it from
// the actual &cli.App to help with testing.
package main

import (
	"bufio"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/bebop/sbolconvert/bio/genbank"
	"github.com/bebop/sbolconvert/driver"
	"github.com/bebop/sbolconvert/exporter"
	"github.com/bebop/sbolconvert/importer"
	"github.com/bebop/sbolconvert/ontology"
	"github.com/bebop/sbolconvert/sbol"
)

func main() {
	run(os.Args)
}

// run is separated from main and application for debugging's sake.
func run(args []string) {
	app := application()
	if err := app.Run(args); err != nil {
		log.Fatal(err)
	}
}

// application defines our app. It's where we template commands and where
// initial arg parsing occurs.
func application() *cli.App {
	return &cli.App{
		Name:  "sbolconvert",
		Usage: "Convert between GenBank flat files and an SBOL3-like semantic graph model, losslessly.",

		Commands: []*cli.Command{
			{
				Name:    "import",
				Aliases: []string{"i"},
				Usage:   "Import a GenBank file into the sorted-ntriples semantic graph format.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "i", Usage: "Input GenBank file path.", Required: true},
					&cli.StringFlag{Name: "o", Usage: "Output .nt path. Defaults to the input path with its extension replaced."},
					&cli.StringFlag{Name: "namespace", Value: "https://example.org", Usage: "URI namespace prefix minted for imported identities."},
				},
				Action: importCommand,
			},
			{
				Name:    "export",
				Aliases: []string{"e"},
				Usage:   "Export a semantic graph document directly back to GenBank (spec.md §4.4, no legacy hop).",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "i", Usage: "Input .nt path.", Required: true},
					&cli.StringFlag{Name: "o", Usage: "Output GenBank file path. Defaults to the input path with its extension replaced."},
				},
				Action: exportCommand,
			},
			{
				Name:    "convert",
				Aliases: []string{"c"},
				Usage:   "Convert a semantic graph document through the SGM-legacy bridge, emitting legacy XML, GenBank, and optionally FASTA.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "i", Usage: "Input .nt path.", Required: true},
					&cli.StringFlag{Name: "o", Aliases: []string{"out-dir"}, Usage: "Output directory. Defaults to the input file's directory."},
					&cli.BoolFlag{Name: "fasta", Usage: "Additionally emit a .fasta file."},
					&cli.BoolFlag{Name: "d", Aliases: []string{"debug"}, Usage: "Log verbose conversion diagnostics."},
				},
				Action: convertCommand,
			},
		},
	}
}

func importCommand(c *cli.Context) error {
	inputPath := c.String("i")
	outputPath := c.String("o")
	if outputPath == "" {
		outputPath = replaceExt(inputPath, ".nt")
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	records, err := readAllGenbank(in)
	if err != nil {
		return err
	}

	bridge, err := ontology.NewBridge()
	if err != nil {
		return err
	}

	doc, err := importer.Import(records, c.String("namespace"), bridge)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return sbol.WriteDocument(doc, out)
}

func exportCommand(c *cli.Context) error {
	inputPath := c.String("i")
	outputPath := c.String("o")
	if outputPath == "" {
		outputPath = replaceExt(inputPath, ".gbk")
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	doc, err := sbol.ReadDocument(in)
	if err != nil {
		return err
	}

	bridge, err := ontology.NewBridge()
	if err != nil {
		return err
	}

	_, records, err := exporter.Export(doc, bridge)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	for _, record := range records {
		if _, err := record.WriteTo(out); err != nil {
			return err
		}
	}
	return nil
}

func convertCommand(c *cli.Context) error {
	return driver.Run(driver.Options{
		InputPath: c.String("i"),
		OutDir:    c.String("o"),
		Debug:     c.Bool("d"),
		FASTA:     c.Bool("fasta"),
	})
}

// readAllGenbank drains every record out of a multi-record GenBank file,
// the way cmd/poly's own convert command does for its genbank parser.
func readAllGenbank(r io.Reader) ([]*genbank.Genbank, error) {
	parser := genbank.NewParser(r, bufio.MaxScanTokenSize)
	var records []*genbank.Genbank
	for {
		record, err := parser.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
