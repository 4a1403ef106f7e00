/*
Serialization of a Document into the sorted-ntriples subset this module
itself defines and consumes: one `subject\tpredicate\tobject` line per
fact, sorted lexicographically by (subject, predicate, object) for
determinism. This is not a general RDF/Turtle reader — spec.md §1 treats a
full RDF toolchain as an external collaborator out of scope — but a small,
documented wire format sufficient for the driver to round-trip documents
this module itself produced.
*/
package sbol

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/bebop/sbolconvert/location"
	"github.com/bebop/sbolconvert/sbolerr"
)

type triple struct {
	subject, predicate, object string
}

// WriteDocument serializes every object in doc, sorted for determinism.
func WriteDocument(doc *Document, w io.Writer) error {
	var triples []triple
	for _, obj := range doc.All() {
		triples = append(triples, topLevelTriples(obj)...)
	}
	sort.Slice(triples, func(i, j int) bool {
		if triples[i].subject != triples[j].subject {
			return triples[i].subject < triples[j].subject
		}
		if triples[i].predicate != triples[j].predicate {
			return triples[i].predicate < triples[j].predicate
		}
		return triples[i].object < triples[j].object
	})

	buf := bufio.NewWriter(w)
	for _, t := range triples {
		if _, err := fmt.Fprintf(buf, "%s\t%s\t%s\n", t.subject, t.predicate, escapeField(t.object)); err != nil {
			return err
		}
	}
	return buf.Flush()
}

// ReadDocument parses the format WriteDocument produces back into a
// Document.
func ReadDocument(r io.Reader) (*Document, error) {
	bySubject := make(map[string][]triple)
	var subjectOrder []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			return nil, &sbolerr.StructuralError{Msg: fmt.Sprintf("malformed serialized line %q", line)}
		}
		t := triple{subject: parts[0], predicate: parts[1], object: unescapeField(parts[2])}
		if _, seen := bySubject[t.subject]; !seen {
			subjectOrder = append(subjectOrder, t.subject)
		}
		bySubject[t.subject] = append(bySubject[t.subject], t)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc := NewDocument()
	for _, subject := range subjectOrder {
		triples := bySubject[subject]
		switch typeOf(triples) {
		case TypeComponent:
			comp, err := decodeComponent(subject, bySubject)
			if err != nil {
				return nil, err
			}
			if err := doc.Add(comp); err != nil {
				return nil, err
			}
		case TypeSequence:
			if err := doc.Add(decodeSequence(subject, triples)); err != nil {
				return nil, err
			}
		case TypeCollection:
			col, err := decodeCollection(subject, triples)
			if err != nil {
				return nil, err
			}
			if err := doc.Add(col); err != nil {
				return nil, err
			}
		case ReferenceTypeURI:
			ref, err := decodeReference(subject, bySubject)
			if err != nil {
				return nil, err
			}
			if err := doc.Add(ref); err != nil {
				return nil, err
			}
		case StructuredCommentTypeURI:
			if err := doc.Add(decodeStructuredComment(subject, triples)); err != nil {
				return nil, err
			}
		case "", TypeSequenceFeature, TypeSubComponent, TypeRange, TypeCut:
			// an owned object (feature, location) reachable only through
			// its parent's predicate values; reconstructed by the parent.
		default:
			return nil, &sbolerr.StructuralError{Identity: subject, Msg: "unrecognized serialized object kind"}
		}
	}
	return doc, nil
}

func escapeField(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

func unescapeField(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func typeOf(triples []triple) string {
	for _, t := range triples {
		if t.predicate == PropRDFType {
			return t.object
		}
	}
	return ""
}

func lookup(triples []triple, predicate string) []string {
	var out []string
	for _, t := range triples {
		if t.predicate == predicate {
			out = append(out, t.object)
		}
	}
	return out
}

func lookupOne(triples []triple, predicate string) string {
	vals := lookup(triples, predicate)
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func identifiedTriples(subject string, id Identified) []triple {
	var out []triple
	if id.DisplayID != "" {
		out = append(out, triple{subject, PropDisplayID, id.DisplayID})
	}
	if id.Name != "" {
		out = append(out, triple{subject, PropName, id.Name})
	}
	if id.Description != "" {
		out = append(out, triple{subject, PropDescription, id.Description})
	}
	return out
}

func decodeIdentified(subject string, triples []triple) Identified {
	return Identified{
		ID:          subject,
		DisplayID:   lookupOne(triples, PropDisplayID),
		Name:        lookupOne(triples, PropName),
		Description: lookupOne(triples, PropDescription),
	}
}

func orientationURI(o location.Orientation) string {
	if o == location.Reverse {
		return OrientationReverse
	}
	return OrientationInline
}

func decodeOrientation(s string) location.Orientation {
	if s == OrientationReverse {
		return location.Reverse
	}
	return location.Forward
}

func topLevelTriples(obj TopLevel) []triple {
	switch o := obj.(type) {
	case *Component:
		return componentTriples(o)
	case *Sequence:
		return sequenceTriples(o)
	case *Collection:
		return collectionTriples(o)
	case *Reference:
		return referenceTriples(o)
	case *StructuredComment:
		return structuredCommentTriples(o)
	default:
		return nil
	}
}

func componentTriples(c *Component) []triple {
	out := []triple{{c.ID, PropRDFType, TypeComponent}}
	out = append(out, identifiedTriples(c.ID, c.Identified)...)
	for i, t := range c.Types {
		out = append(out, triple{c.ID, PropType, EncodePrefixed(":", i, t)})
	}
	for i, r := range c.Roles {
		out = append(out, triple{c.ID, PropRole, EncodePrefixed(":", i, r)})
	}
	for i, s := range c.Sequences {
		out = append(out, triple{c.ID, PropSequence, EncodePrefixed(":", i, s)})
	}
	for i, f := range c.Features {
		out = append(out, triple{c.ID, PropFeature, EncodePrefixed(":", i, f.Identity())})
		out = append(out, featureTriples(f)...)
	}
	if c.Extras != nil {
		out = append(out, extrasTriples(c.ID, c.Extras)...)
		for i, ff := range c.Extras.FuzzyFeatures {
			out = append(out, triple{c.ID, PropFuzzyFeatures, EncodePrefixed(":", i, ff.Identity())})
			out = append(out, featureTriples(ff)...)
		}
	}
	return out
}

func extrasTriples(subject string, extras *GBKExtras) []triple {
	var out []triple
	add := func(prop, val string) {
		if val != "" {
			out = append(out, triple{subject, prop, val})
		}
	}
	add(PropSeqVersion, extras.SeqVersion)
	add(PropDate, extras.Date)
	add(PropDivision, extras.Division)
	add(PropLocus, extras.Locus)
	add(PropMolecule, extras.Molecule)
	add(PropOrganism, extras.Organism)
	add(PropSource, extras.Source)
	add(PropTopology, extras.Topology)
	add(PropGI, extras.GI)
	add(PropComment, extras.Comment)
	add(PropDBXrefs, extras.DBXrefs)
	add(PropRecordID, extras.RecordID)
	add(PropTaxonomy, extras.Taxonomy)
	add(PropKeywords, extras.Keywords)
	for i, a := range extras.Accessions {
		out = append(out, triple{subject, PropAccessions, EncodePrefixed(":", i, a)})
	}
	return out
}

func hasExtras(triples []triple) bool {
	for _, prop := range []string{
		PropSeqVersion, PropDate, PropDivision, PropLocus, PropMolecule, PropOrganism,
		PropSource, PropTopology, PropGI, PropComment, PropDBXrefs, PropRecordID,
		PropTaxonomy, PropKeywords, PropAccessions, PropFuzzyFeatures,
	} {
		if len(lookup(triples, prop)) > 0 {
			return true
		}
	}
	return false
}

func decodeComponent(subject string, bySubject map[string][]triple) (*Component, error) {
	triples := bySubject[subject]
	types, err := SortedValues(":", lookup(triples, PropType))
	if err != nil {
		return nil, err
	}
	roles, err := SortedValues(":", lookup(triples, PropRole))
	if err != nil {
		return nil, err
	}
	sequences, err := SortedValues(":", lookup(triples, PropSequence))
	if err != nil {
		return nil, err
	}
	featureRefs, err := SortedValues(":", lookup(triples, PropFeature))
	if err != nil {
		return nil, err
	}

	comp := &Component{
		Identified: decodeIdentified(subject, triples),
		Types:      types,
		Roles:      roles,
		Sequences:  sequences,
	}
	for _, ref := range featureRefs {
		feature, err := decodeFeature(ref, bySubject)
		if err != nil {
			return nil, err
		}
		comp.Features = append(comp.Features, feature)
	}

	if hasExtras(triples) {
		extras, err := decodeExtras(triples)
		if err != nil {
			return nil, err
		}
		fuzzyRefs, err := SortedValues(":", lookup(triples, PropFuzzyFeatures))
		if err != nil {
			return nil, err
		}
		for _, ref := range fuzzyRefs {
			feature, err := decodeFeature(ref, bySubject)
			if err != nil {
				return nil, err
			}
			if sf, ok := feature.(*SequenceFeature); ok {
				extras.FuzzyFeatures = append(extras.FuzzyFeatures, sf)
			}
		}
		comp.Extras = extras
	}
	return comp, nil
}

func decodeExtras(triples []triple) (*GBKExtras, error) {
	accessions, err := SortedValues(":", lookup(triples, PropAccessions))
	if err != nil {
		return nil, err
	}
	return &GBKExtras{
		SeqVersion: lookupOne(triples, PropSeqVersion),
		Date:       lookupOne(triples, PropDate),
		Division:   lookupOne(triples, PropDivision),
		Locus:      lookupOne(triples, PropLocus),
		Molecule:   lookupOne(triples, PropMolecule),
		Organism:   lookupOne(triples, PropOrganism),
		Source:     lookupOne(triples, PropSource),
		Topology:   lookupOne(triples, PropTopology),
		GI:         lookupOne(triples, PropGI),
		Comment:    lookupOne(triples, PropComment),
		DBXrefs:    lookupOne(triples, PropDBXrefs),
		RecordID:   lookupOne(triples, PropRecordID),
		Taxonomy:   lookupOne(triples, PropTaxonomy),
		Keywords:   lookupOne(triples, PropKeywords),
		Accessions: accessions,
	}, nil
}

func featureTriples(f Feature) []triple {
	switch feat := f.(type) {
	case *SequenceFeature:
		return sequenceFeatureTriples(feat)
	case *SubComponent:
		return subComponentTriples(feat)
	default:
		return nil
	}
}

func sequenceFeatureTriples(sf *SequenceFeature) []triple {
	out := []triple{{sf.ID, PropRDFType, TypeSequenceFeature}}
	out = append(out, identifiedTriples(sf.ID, sf.Identified)...)
	for i, r := range sf.Roles {
		out = append(out, triple{sf.ID, PropRole, EncodePrefixed(":", i, r)})
	}
	out = append(out, triple{sf.ID, PropOrientation, orientationURI(sf.Orientation)})
	for i, loc := range sf.Locations {
		out = append(out, triple{sf.ID, PropLocation, EncodePrefixed(":", i, loc.Identity())})
		out = append(out, rangeOrCutTriples(loc)...)
	}
	if sf.Extras != nil {
		for _, k := range sf.Extras.QualifierKeys {
			out = append(out, triple{sf.ID, PropQualifierKey, k})
		}
		for _, v := range sf.Extras.QualifierValues {
			out = append(out, triple{sf.ID, PropQualifierValue, v})
		}
	}
	return out
}

func subComponentTriples(sub *SubComponent) []triple {
	out := []triple{{sub.ID, PropRDFType, TypeSubComponent}}
	out = append(out, identifiedTriples(sub.ID, sub.Identified)...)
	out = append(out, triple{sub.ID, PropInstanceOf, sub.InstanceOf})
	for i, loc := range sub.Locations {
		out = append(out, triple{sub.ID, PropLocation, EncodePrefixed(":", i, loc.Identity())})
		out = append(out, rangeOrCutTriples(loc)...)
	}
	return out
}

func decodeFeature(subject string, bySubject map[string][]triple) (Feature, error) {
	triples := bySubject[subject]
	switch typeOf(triples) {
	case TypeSequenceFeature:
		return decodeSequenceFeature(subject, bySubject)
	case TypeSubComponent:
		return decodeSubComponent(subject, bySubject)
	default:
		return nil, &sbolerr.StructuralError{Identity: subject, Msg: "unrecognized feature kind"}
	}
}

func decodeSequenceFeature(subject string, bySubject map[string][]triple) (*SequenceFeature, error) {
	triples := bySubject[subject]
	roles, err := SortedValues(":", lookup(triples, PropRole))
	if err != nil {
		return nil, err
	}
	locRefs, err := SortedValues(":", lookup(triples, PropLocation))
	if err != nil {
		return nil, err
	}
	locations, err := decodeLocations(locRefs, bySubject)
	if err != nil {
		return nil, err
	}
	sf := &SequenceFeature{
		Identified:  decodeIdentified(subject, triples),
		Roles:       roles,
		Orientation: decodeOrientation(lookupOne(triples, PropOrientation)),
		Locations:   locations,
	}
	if keys, values := lookup(triples, PropQualifierKey), lookup(triples, PropQualifierValue); len(keys) > 0 || len(values) > 0 {
		sf.Extras = &FeatureExtras{QualifierKeys: keys, QualifierValues: values}
	} else {
		sf.Extras = &FeatureExtras{}
	}
	return sf, nil
}

func decodeSubComponent(subject string, bySubject map[string][]triple) (*SubComponent, error) {
	triples := bySubject[subject]
	locRefs, err := SortedValues(":", lookup(triples, PropLocation))
	if err != nil {
		return nil, err
	}
	locations, err := decodeLocations(locRefs, bySubject)
	if err != nil {
		return nil, err
	}
	return &SubComponent{
		Identified: decodeIdentified(subject, triples),
		InstanceOf: lookupOne(triples, PropInstanceOf),
		Locations:  locations,
	}, nil
}

func decodeLocations(refs []string, bySubject map[string][]triple) ([]RangeOrCut, error) {
	var out []RangeOrCut
	for _, ref := range refs {
		loc, err := decodeRangeOrCut(ref, bySubject[ref])
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, nil
}

func rangeOrCutTriples(owned RangeOrCut) []triple {
	switch l := owned.(type) {
	case *Range:
		out := []triple{{l.ID, PropRDFType, TypeRange}}
		out = append(out, identifiedTriples(l.ID, l.Identified)...)
		out = append(out, triple{l.ID, PropStart, strconv.Itoa(l.Start)})
		out = append(out, triple{l.ID, PropEnd, strconv.Itoa(l.End)})
		out = append(out, triple{l.ID, PropOrientation, orientationURI(l.Orientation)})
		out = append(out, triple{l.ID, PropSequence, l.Sequence})
		if l.Extras != nil {
			out = append(out, triple{l.ID, PropStartPosition, strconv.Itoa(l.Extras.StartPosition)})
			out = append(out, triple{l.ID, PropEndPosition, strconv.Itoa(l.Extras.EndPosition)})
		}
		return out
	case *Cut:
		out := []triple{{l.ID, PropRDFType, TypeCut}}
		out = append(out, identifiedTriples(l.ID, l.Identified)...)
		out = append(out, triple{l.ID, PropAt, strconv.Itoa(l.At)})
		out = append(out, triple{l.ID, PropOrientation, orientationURI(l.Orientation)})
		out = append(out, triple{l.ID, PropSequence, l.Sequence})
		return out
	default:
		return nil
	}
}

func decodeRangeOrCut(subject string, triples []triple) (RangeOrCut, error) {
	switch typeOf(triples) {
	case TypeRange:
		start, err := strconv.Atoi(lookupOne(triples, PropStart))
		if err != nil {
			return nil, &sbolerr.StructuralError{Identity: subject, Msg: "malformed range start"}
		}
		end, err := strconv.Atoi(lookupOne(triples, PropEnd))
		if err != nil {
			return nil, &sbolerr.StructuralError{Identity: subject, Msg: "malformed range end"}
		}
		r := &Range{
			Identified:  decodeIdentified(subject, triples),
			Start:       start,
			End:         end,
			Orientation: decodeOrientation(lookupOne(triples, PropOrientation)),
			Sequence:    lookupOne(triples, PropSequence),
		}
		if startPos := lookupOne(triples, PropStartPosition); startPos != "" {
			endPos := lookupOne(triples, PropEndPosition)
			sp, _ := strconv.Atoi(startPos)
			ep, _ := strconv.Atoi(endPos)
			r.Extras = &RangeExtras{StartPosition: sp, EndPosition: ep}
		}
		return r, nil
	case TypeCut:
		at, err := strconv.Atoi(lookupOne(triples, PropAt))
		if err != nil {
			return nil, &sbolerr.StructuralError{Identity: subject, Msg: "malformed cut position"}
		}
		return &Cut{
			Identified:  decodeIdentified(subject, triples),
			At:          at,
			Orientation: decodeOrientation(lookupOne(triples, PropOrientation)),
			Sequence:    lookupOne(triples, PropSequence),
		}, nil
	default:
		return nil, &sbolerr.StructuralError{Identity: subject, Msg: "unrecognized location kind"}
	}
}

func sequenceTriples(s *Sequence) []triple {
	out := []triple{{s.ID, PropRDFType, TypeSequence}}
	out = append(out, identifiedTriples(s.ID, s.Identified)...)
	if s.Encoding != "" {
		out = append(out, triple{s.ID, PropEncoding, s.Encoding})
	}
	if s.Elements != "" {
		out = append(out, triple{s.ID, PropElements, s.Elements})
	}
	return out
}

func decodeSequence(subject string, triples []triple) *Sequence {
	return &Sequence{
		Identified: decodeIdentified(subject, triples),
		Encoding:   lookupOne(triples, PropEncoding),
		Elements:   lookupOne(triples, PropElements),
	}
}

func collectionTriples(c *Collection) []triple {
	out := []triple{{c.ID, PropRDFType, TypeCollection}}
	out = append(out, identifiedTriples(c.ID, c.Identified)...)
	for i, m := range c.Members {
		out = append(out, triple{c.ID, PropMember, EncodePrefixed(":", i, m)})
	}
	return out
}

func decodeCollection(subject string, triples []triple) (*Collection, error) {
	members, err := SortedValues(":", lookup(triples, PropMember))
	if err != nil {
		return nil, err
	}
	return &Collection{Identified: decodeIdentified(subject, triples), Members: members}, nil
}

func referenceTriples(r *Reference) []triple {
	out := []triple{{r.ID, PropRDFType, ReferenceTypeURI}}
	out = append(out, identifiedTriples(r.ID, r.Identified)...)
	add := func(prop, val string) {
		if val != "" {
			out = append(out, triple{r.ID, prop, val})
		}
	}
	add(PropRefAuthors, r.Authors)
	add(PropRefComment, r.Comment)
	add(PropRefJournal, r.Journal)
	add(PropRefConsortium, r.Consortium)
	add(PropRefTitle, r.Title)
	add(PropRefMedlineID, r.MedlineID)
	add(PropRefPubmedID, r.PubmedID)
	add(PropRefComponent, r.Component)
	for i, loc := range r.Locations {
		out = append(out, triple{r.ID, PropRefLocation, EncodePrefixed(":", i, loc.Identity())})
		out = append(out, rangeOrCutTriples(loc)...)
	}
	return out
}

func decodeReference(subject string, bySubject map[string][]triple) (*Reference, error) {
	triples := bySubject[subject]
	locRefs, err := SortedValues(":", lookup(triples, PropRefLocation))
	if err != nil {
		return nil, err
	}
	locations, err := decodeLocations(locRefs, bySubject)
	if err != nil {
		return nil, err
	}
	return &Reference{
		Identified: decodeIdentified(subject, triples),
		Authors:    lookupOne(triples, PropRefAuthors),
		Comment:    lookupOne(triples, PropRefComment),
		Journal:    lookupOne(triples, PropRefJournal),
		Consortium: lookupOne(triples, PropRefConsortium),
		Title:      lookupOne(triples, PropRefTitle),
		MedlineID:  lookupOne(triples, PropRefMedlineID),
		PubmedID:   lookupOne(triples, PropRefPubmedID),
		Component:  lookupOne(triples, PropRefComponent),
		Locations:  locations,
	}, nil
}

func structuredCommentTriples(sc *StructuredComment) []triple {
	out := []triple{{sc.ID, PropRDFType, StructuredCommentTypeURI}}
	out = append(out, identifiedTriples(sc.ID, sc.Identified)...)
	if sc.Heading != "" {
		out = append(out, triple{sc.ID, PropSCHeading, sc.Heading})
	}
	if sc.Component != "" {
		out = append(out, triple{sc.ID, PropSCComponent, sc.Component})
	}
	for _, k := range sc.StructuredKeys {
		out = append(out, triple{sc.ID, PropSCStructuredKeys, k})
	}
	for _, v := range sc.StructuredValues {
		out = append(out, triple{sc.ID, PropSCStructuredValues, v})
	}
	return out
}

func decodeStructuredComment(subject string, triples []triple) *StructuredComment {
	return &StructuredComment{
		Identified:       decodeIdentified(subject, triples),
		Heading:          lookupOne(triples, PropSCHeading),
		Component:        lookupOne(triples, PropSCComponent),
		StructuredKeys:   lookup(triples, PropSCStructuredKeys),
		StructuredValues: lookup(triples, PropSCStructuredValues),
	}
}
