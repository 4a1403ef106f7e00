package legacy

// BioPAX/SBOL-encoding type URIs that SGM type and encoding URIs remap to
// on the legacy path (spec.md §4.5).
const (
	BiopaxDNA         = "http://www.biopax.org/release/biopax-level3.owl#DnaRegion"
	BiopaxRNA         = "http://www.biopax.org/release/biopax-level3.owl#RnaRegion"
	BiopaxProtein     = "http://www.biopax.org/release/biopax-level3.owl#Protein"
	SBOLEncodingIUPAC = "http://www.chem.qmul.ac.uk/iubmb/misc/naseq.html"
)

// remappedTypes maps the SGM-side type/encoding URIs that have a legacy
// counterpart to that counterpart. Anything not present in this table is
// copied through unchanged.
var remappedTypes = map[string]string{
	"https://identifiers.org/SO:0000352":   BiopaxDNA,
	"https://identifiers.org/SO:0000356":   BiopaxRNA,
	"https://identifiers.org/SO:0000104":   BiopaxProtein,
	"https://identifiers.org/edam:format_1207": SBOLEncodingIUPAC,
}

// RemapType translates a single SGM type/encoding URI to its legacy
// counterpart, or returns it unchanged if there is no mapping.
func RemapType(sgmType string) string {
	if remapped, ok := remappedTypes[sgmType]; ok {
		return remapped
	}
	return sgmType
}

// RemapTypes translates a whole slice of SGM type URIs, preserving order.
func RemapTypes(sgmTypes []string) []string {
	out := make([]string, len(sgmTypes))
	for i, t := range sgmTypes {
		out[i] = RemapType(t)
	}
	return out
}
