package sbol

import (
	"strings"

	"github.com/bebop/sbolconvert/sbolerr"
)

// The GenBank parser this module builds on (bio/genbank) has no first-class
// slots for DBLINK, structured comments, topology, or GI — it files
// anything it doesn't special-case into Meta.Other, keyed by the raw
// header tag, as one whitespace-joined string. These constants and the
// encode/decode helpers below are this module's convention for reading
// and writing those fields through that map; importer and exporter share
// them so a document this module writes round-trips through a document
// this module reads.
const (
	OtherKeyDBXrefs           = "DBLINK"
	OtherKeyComment           = "COMMENT"
	OtherKeyStructuredComment = "structured_comment"
	OtherKeyTopology          = "topology"
	OtherKeyGI                = "gi"
)

// AllowedOtherKeys enumerates the Meta.Other keys the importer will
// consume. Anything else is an unrecognized annotation and is a hard
// StructuralError (spec.md §4.3 step 4), since silently dropping it would
// be a silent loss of data.
var AllowedOtherKeys = map[string]bool{
	OtherKeyDBXrefs:           true,
	OtherKeyComment:           true,
	OtherKeyStructuredComment: true,
	OtherKeyTopology:          true,
	OtherKeyGI:                true,
}

// EncodeDBXrefs joins an ordered list of dbxref strings with the "::"
// delimiter spec.md §3 invariant 6 specifies.
func EncodeDBXrefs(refs []string) string {
	return strings.Join(refs, "::")
}

// DecodeDBXrefs splits a "::"-joined dbxrefs carrier string back into its
// ordered list. An empty string decodes to an empty (nil) list.
func DecodeDBXrefs(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, "::")
}

// structuredCommentHeadingSep separates heading blocks; structuredCommentPairSep
// separates key=value pairs within a heading; structuredCommentKVSep
// separates a pair's key from its value.
const (
	structuredCommentHeadingSep = "||"
	structuredCommentPairSep    = ";"
	structuredCommentKVSep      = "="
)

// StructuredCommentPair is one key/value entry within a structured
// comment heading.
type StructuredCommentPair struct {
	Key   string
	Value string
}

// EncodeStructuredComments serializes an ordered list of (heading, pairs)
// blocks into the single string stored in Meta.Other[OtherKeyStructuredComment].
func EncodeStructuredComments(headings []string, pairsByHeading map[string][]StructuredCommentPair) string {
	blocks := make([]string, 0, len(headings))
	for _, heading := range headings {
		pairStrs := make([]string, 0, len(pairsByHeading[heading]))
		for _, pair := range pairsByHeading[heading] {
			pairStrs = append(pairStrs, pair.Key+structuredCommentKVSep+pair.Value)
		}
		blocks = append(blocks, heading+structuredCommentPairSep+strings.Join(pairStrs, structuredCommentPairSep))
	}
	return strings.Join(blocks, structuredCommentHeadingSep)
}

// DecodeStructuredComments parses the string produced by
// EncodeStructuredComments back into ordered headings and their pairs.
func DecodeStructuredComments(raw string) (headings []string, pairsByHeading map[string][]StructuredCommentPair, err error) {
	pairsByHeading = make(map[string][]StructuredCommentPair)
	if raw == "" {
		return nil, pairsByHeading, nil
	}
	for _, block := range strings.Split(raw, structuredCommentHeadingSep) {
		fields := strings.Split(block, structuredCommentPairSep)
		if len(fields) == 0 || fields[0] == "" {
			return nil, nil, &sbolerr.StructuralError{Msg: "malformed structured comment block: missing heading"}
		}
		heading := fields[0]
		headings = append(headings, heading)
		for _, kv := range fields[1:] {
			if kv == "" {
				continue
			}
			parts := strings.SplitN(kv, structuredCommentKVSep, 2)
			if len(parts) != 2 {
				return nil, nil, &sbolerr.StructuralError{Msg: "malformed structured comment pair " + kv}
			}
			pairsByHeading[heading] = append(pairsByHeading[heading], StructuredCommentPair{Key: parts[0], Value: parts[1]})
		}
	}
	return headings, pairsByHeading, nil
}
