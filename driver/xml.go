package driver

import (
	"encoding/xml"
	"os"

	"github.com/bebop/sbolconvert/location"
	"github.com/bebop/sbolconvert/sbol/legacy"
)

// xmlDocument is the RDF/XML shape of an SGM-legacy document in a
// tag-per-field style: a flat element list with "about" identity
// attributes instead of true subject/predicate/object triples.
type xmlDocument struct {
	XMLName              xml.Name                 `xml:"RDF"`
	ComponentDefinitions []xmlComponentDefinition `xml:"ComponentDefinition"`
	Sequences            []xmlSequence            `xml:"Sequence"`
}

type xmlComponentDefinition struct {
	About               string                   `xml:"about,attr"`
	DisplayID           string                   `xml:"displayId"`
	Types               []string                 `xml:"type"`
	Roles               []string                 `xml:"role"`
	Components          []xmlComponent           `xml:"component"`
	SequenceAnnotations []xmlSequenceAnnotation  `xml:"sequenceAnnotation"`
	Sequences           []string                 `xml:"sequence"`
}

type xmlComponent struct {
	About      string `xml:"about,attr"`
	Definition string `xml:"definition"`
}

type xmlSequenceAnnotation struct {
	About             string        `xml:"about,attr"`
	ComponentInstance string        `xml:"component"`
	Locations         []xmlLocation `xml:"location"`
}

type xmlLocation struct {
	Start       int    `xml:"start"`
	End         int    `xml:"end"`
	Orientation string `xml:"orientation"`
}

type xmlSequence struct {
	About    string `xml:"about,attr"`
	Encoding string `xml:"encoding"`
	Elements string `xml:"elements"`
}

func writeLegacyXML(doc *legacy.Document, path string) error {
	xmlDoc := toXMLDocument(doc)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := xml.NewEncoder(file)
	encoder.Indent("", "  ")
	return encoder.Encode(xmlDoc)
}

func toXMLDocument(doc *legacy.Document) xmlDocument {
	var out xmlDocument
	for _, cd := range doc.ComponentDefinitions() {
		out.ComponentDefinitions = append(out.ComponentDefinitions, toXMLComponentDefinition(cd))
	}
	for _, seq := range doc.Sequences() {
		out.Sequences = append(out.Sequences, xmlSequence{About: seq.Identity(), Encoding: seq.Encoding, Elements: seq.Elements})
	}
	return out
}

func toXMLComponentDefinition(cd *legacy.ComponentDefinition) xmlComponentDefinition {
	xmlCD := xmlComponentDefinition{
		About:     cd.Identity(),
		DisplayID: cd.DisplayID,
		Types:     cd.Types,
		Roles:     cd.Roles,
		Sequences: cd.Sequences,
	}
	for _, instance := range cd.Components {
		xmlCD.Components = append(xmlCD.Components, xmlComponent{About: instance.Identity(), Definition: instance.Definition})
	}
	for _, annotation := range cd.SequenceAnnotations {
		xmlSA := xmlSequenceAnnotation{About: annotation.Identity(), ComponentInstance: annotation.ComponentInstance}
		for _, loc := range annotation.Locations {
			xmlSA.Locations = append(xmlSA.Locations, toXMLLocation(loc))
		}
		xmlCD.SequenceAnnotations = append(xmlCD.SequenceAnnotations, xmlSA)
	}
	return xmlCD
}

func toXMLLocation(loc location.Location) xmlLocation {
	start, end := location.Bounds(loc)
	orientation := "inline"
	if l, ok := loc.(location.Range); ok && l.Orientation == location.Reverse {
		orientation = "reverseComplement"
	}
	if l, ok := loc.(location.Cut); ok && l.Orientation == location.Reverse {
		orientation = "reverseComplement"
	}
	return xmlLocation{Start: start, End: end, Orientation: orientation}
}
