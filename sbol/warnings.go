package sbol

import "github.com/lunny/log"

// WarnLookupMiss logs an ontology lookup miss. The ontology package itself
// already logs on miss; this wraps the same convention for lookups that
// happen inside sbol construction (e.g. a caller resolving a role back to
// a display string).
func WarnLookupMiss(context, term, fallback string) {
	log.Warnf("%s: no mapping for %q, using default %s", context, term, fallback)
}

// WarnCarrierOrphan logs a side-car whose Component back-pointer does not
// match any Component's display id. The caller drops the side-car.
func WarnCarrierOrphan(kind, identity, component string) {
	log.Warnf("dropping orphaned %s %s: no Component with display id %q", kind, identity, component)
}

// WarnQualifierTruncation logs a multi-valued GBK qualifier that lost all
// but its first value on import.
func WarnQualifierTruncation(feature, qualifier string, discarded int) {
	log.Warnf("feature %s: qualifier %q had %d extra value(s) discarded", feature, qualifier, discarded)
}
