/*
Package sbolerr defines the fatal error kinds shared by the ontology,
sbol, sbol/legacy, importer, exporter, legacyexport, and driver packages.

Non-fatal conditions (ontology misses, orphaned side-cars, qualifier
truncation) are not errors at all here: callers log them through
github.com/lunny/log and continue, per the warning/error split documented
in SPEC_FULL.md.
*/
package sbolerr

import "fmt"

// ConfigError reports a missing or malformed ontology CSV.
type ConfigError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error loading %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("config error loading %s: %s", e.Path, e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// StructuralError reports a document that violates an invariant: more than
// one Sequence on a Component, more than one plasmid-role SubComponent in a
// plasmid, an unknown orientation, or an unrecognized GenBank annotation key.
type StructuralError struct {
	Identity string
	Msg      string
}

func (e *StructuralError) Error() string {
	if e.Identity != "" {
		return fmt.Sprintf("structural error on %s: %s", e.Identity, e.Msg)
	}
	return fmt.Sprintf("structural error: %s", e.Msg)
}

// UnsupportedVariant reports a top-level object the legacy converter has no
// dispatch rule for.
type UnsupportedVariant struct {
	Identity string
	TypeName string
}

func (e *UnsupportedVariant) Error() string {
	return fmt.Sprintf("not set up to convert %s (%s)", e.Identity, e.TypeName)
}
