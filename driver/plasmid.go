package driver

import (
	"github.com/bebop/sbolconvert/sbol"
	"github.com/bebop/sbolconvert/sbolerr"
)

// plasmidPrePass runs spec.md §4.5's workaround for the legacy emitter's
// length limits: for every circular plasmid construct, it finds the single
// plasmid-role SubComponent (the backbone) and rewrites every other
// SubComponent-referenced Component's description to its own display id.
func plasmidPrePass(doc *sbol.Document) error {
	for _, comp := range doc.Components() {
		if !isPlasmidConstruct(doc, comp) {
			continue
		}
		_, others, err := splitBackbone(doc, comp)
		if err != nil {
			return err
		}
		for _, sub := range others {
			referenced, ok := doc.Get(sub.InstanceOf)
			if !ok {
				continue
			}
			if rc, ok := referenced.(*sbol.Component); ok {
				rc.Description = rc.DisplayID
			}
		}
	}
	return nil
}

func isPlasmidConstruct(doc *sbol.Document, comp *sbol.Component) bool {
	if containsRole(comp.Roles, sbol.RolePlasmid) {
		return true
	}
	for _, feature := range comp.Features {
		sub, ok := feature.(*sbol.SubComponent)
		if !ok {
			continue
		}
		if isPlasmidRole(doc, sub) {
			return true
		}
	}
	return false
}

// splitBackbone separates comp's SubComponent features into the single
// plasmid-role backbone and every other ("insert") SubComponent. More than
// one plasmid-role SubComponent is a StructuralError (spec.md §7).
func splitBackbone(doc *sbol.Document, comp *sbol.Component) (backbone *sbol.SubComponent, others []*sbol.SubComponent, err error) {
	for _, feature := range comp.Features {
		sub, ok := feature.(*sbol.SubComponent)
		if !ok {
			continue
		}
		if isPlasmidRole(doc, sub) {
			if backbone != nil {
				return nil, nil, &sbolerr.StructuralError{Identity: comp.Identity(), Msg: "more than one plasmid-role subcomponent"}
			}
			backbone = sub
			continue
		}
		others = append(others, sub)
	}
	return backbone, others, nil
}

func isPlasmidRole(doc *sbol.Document, sub *sbol.SubComponent) bool {
	referenced, ok := doc.Get(sub.InstanceOf)
	if !ok {
		return false
	}
	rc, ok := referenced.(*sbol.Component)
	if !ok {
		return false
	}
	return containsRole(rc.Roles, sbol.RolePlasmid)
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
