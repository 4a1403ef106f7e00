package sbol

// Wire property URIs. These strings appear in the serialized SGM document
// and must never change (SPEC_FULL.md §8 / spec.md §6).
const (
	GBKExtrasNamespace = "http://www.ncbi.nlm.nih.gov/genbank"

	PropSeqVersion    = GBKExtrasNamespace + "#seq_version"
	PropDate          = GBKExtrasNamespace + "#date"
	PropDivision      = GBKExtrasNamespace + "#division"
	PropLocus         = GBKExtrasNamespace + "#locus"
	PropMolecule      = GBKExtrasNamespace + "#molecule"
	PropOrganism      = GBKExtrasNamespace + "#organism"
	PropSource        = GBKExtrasNamespace + "#source"
	PropTopology      = GBKExtrasNamespace + "#topology"
	PropGI            = GBKExtrasNamespace + "#gi"
	PropComment       = GBKExtrasNamespace + "#comment"
	PropDBXrefs       = GBKExtrasNamespace + "#dbxrefs"
	PropRecordID      = GBKExtrasNamespace + "#id"
	PropTaxonomy      = GBKExtrasNamespace + "#taxonomy"
	PropKeywords      = GBKExtrasNamespace + "#keywords"
	PropAccessions    = GBKExtrasNamespace + "#accessions"
	PropFuzzyFeatures = GBKExtrasNamespace + "#fuzzyFeatures"

	FeatureQualifierNamespace = GBKExtrasNamespace + "#featureQualifier"
	PropQualifierKey          = FeatureQualifierNamespace + "#key"
	PropQualifierValue        = FeatureQualifierNamespace + "#value"

	LocationPositionNamespace = GBKExtrasNamespace + "#locationPosition"
	PropStartPosition         = LocationPositionNamespace + "#start"
	PropEndPosition           = LocationPositionNamespace + "#end"

	ReferenceTypeURI     = GBKExtrasNamespace + "#reference"
	PropRefAuthors       = ReferenceTypeURI + "#authors"
	PropRefComment       = ReferenceTypeURI + "#comment"
	PropRefJournal       = ReferenceTypeURI + "#journal"
	PropRefConsortium    = ReferenceTypeURI + "#consrtm"
	PropRefTitle         = ReferenceTypeURI + "#title"
	PropRefMedlineID     = ReferenceTypeURI + "#medline_id"
	PropRefPubmedID      = ReferenceTypeURI + "#pubmed_id"
	PropRefComponent     = ReferenceTypeURI + "#component"
	PropRefLocation      = ReferenceTypeURI + "#location"

	StructuredCommentTypeURI = GBKExtrasNamespace + "#structured_comment"
	PropSCHeading            = StructuredCommentTypeURI + "#heading"
	PropSCComponent          = StructuredCommentTypeURI + "#component"
	PropSCStructuredKeys     = StructuredCommentTypeURI + "#structuredKeys"
	PropSCStructuredValues   = StructuredCommentTypeURI + "#structuredValues"
)

// DefaultNamespace is used when a caller does not supply one for an
// anonymous conversion.
const DefaultNamespace = "https://test.sbol3.genbank/"

// SBOL3Namespace carries the core graph vocabulary: object kinds and the
// structural (non-carrier) predicates every serialized document uses,
// independent of the GBK-carrier properties above.
const SBOL3Namespace = "http://sbols.org/v3"

const (
	TypeComponent       = SBOL3Namespace + "#Component"
	TypeSequence        = SBOL3Namespace + "#Sequence"
	TypeSequenceFeature = SBOL3Namespace + "#SequenceFeature"
	TypeSubComponent    = SBOL3Namespace + "#SubComponent"
	TypeRange           = SBOL3Namespace + "#Range"
	TypeCut             = SBOL3Namespace + "#Cut"
	TypeCollection      = SBOL3Namespace + "#Collection"

	PropRDFType     = "rdf:type"
	PropDisplayID   = SBOL3Namespace + "#displayId"
	PropName        = SBOL3Namespace + "#name"
	PropDescription = SBOL3Namespace + "#description"
	PropType        = SBOL3Namespace + "#type"
	PropRole        = SBOL3Namespace + "#role"
	PropSequence    = SBOL3Namespace + "#sequence"
	PropFeature     = SBOL3Namespace + "#feature"
	PropLocation    = SBOL3Namespace + "#location"
	PropEncoding    = SBOL3Namespace + "#encoding"
	PropElements    = SBOL3Namespace + "#elements"
	PropOrientation = SBOL3Namespace + "#orientation"
	PropStart       = SBOL3Namespace + "#start"
	PropEnd         = SBOL3Namespace + "#end"
	PropAt          = SBOL3Namespace + "#at"
	PropInstanceOf  = SBOL3Namespace + "#instanceOf"
	PropMember      = SBOL3Namespace + "#member"

	OrientationInline  = SBOL3Namespace + "#inline"
	OrientationReverse = SBOL3Namespace + "#reverseComplement"
)

// SONamespace prefixes a bare "SO:NNNNNNN" term (as returned by
// ontology.Bridge) into the full URI form SGM uses on the wire (spec.md
// §4.1): SONamespace + "/" + term.
const SONamespace = "https://identifiers.org"

// SORole builds the full role/type URI for a bare SO term such as
// "SO:0000316".
func SORole(soTerm string) string {
	return SONamespace + "/" + soTerm
}

const (
	TypeDNA      = "https://identifiers.org/SO:0000352"
	TypeLinear   = "https://identifiers.org/SO:0000987"
	TypeCircular = "https://identifiers.org/SO:0000988"

	EncodingIUPACDNA = "https://identifiers.org/edam:format_1207"

	RoleEngineeredRegion = "https://identifiers.org/SO:0000804"
	RolePlasmid          = "https://identifiers.org/SO:0000155"
)
