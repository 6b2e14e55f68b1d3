package models

import "fmt"

// RequirementLevel says how a method relates to one input family.
type RequirementLevel string

const (
	RequirementRequired      RequirementLevel = "required"
	RequirementOptional      RequirementLevel = "optional"
	RequirementNotApplicable RequirementLevel = "not_applicable"
)

// ValidRequirementLevel reports whether l is in the closed enumeration.
func ValidRequirementLevel(l RequirementLevel) bool {
	switch l {
	case RequirementRequired, RequirementOptional, RequirementNotApplicable:
		return true
	}
	return false
}

// MethodRequirements is the declarative requirement row for one decoding
// method, loaded from the matrix pack. Purely descriptive: no logic.
type MethodRequirements struct {
	MethodID     string                      `json:"method_id"`
	MethodFamily string                      `json:"method_family"`
	Label        string                      `json:"label"`
	Requires     map[Family]RequirementLevel `json:"requires"`
	SourceFile   string                      `json:"source_file"`
}

// Validate enforces the structural invariants: every canonical family has
// an explicit level, and every level is from the closed enumeration.
func (m MethodRequirements) Validate() error {
	for _, f := range Families() {
		level, ok := m.Requires[f]
		if !ok {
			return fmt.Errorf("method %s: missing requirement level for family %q", m.MethodID, f)
		}
		if !ValidRequirementLevel(level) {
			return fmt.Errorf("method %s: invalid requirement level %q for family %q", m.MethodID, level, f)
		}
	}
	for f := range m.Requires {
		if !ValidFamily(f) {
			return fmt.Errorf("method %s: unknown family %q in requirements", m.MethodID, f)
		}
	}
	return nil
}

// RequiredFamilies lists the families this method requires, in canonical order.
func (m MethodRequirements) RequiredFamilies() []Family {
	var required []Family
	for _, f := range Families() {
		if m.Requires[f] == RequirementRequired {
			required = append(required, f)
		}
	}
	return required
}

// RequirementsMatrix is the full set of method requirement rows loaded
// from the matrix pack, plus the pack schema version.
type RequirementsMatrix struct {
	SchemaVersion string
	Methods       map[string]MethodRequirements
}

// Method looks up the requirements for one method id.
func (m RequirementsMatrix) Method(methodID string) (MethodRequirements, bool) {
	req, ok := m.Methods[methodID]
	return req, ok
}

// MethodsByFamily returns the methods belonging to one method family.
func (m RequirementsMatrix) MethodsByFamily(family string) map[string]MethodRequirements {
	out := make(map[string]MethodRequirements)
	for id, req := range m.Methods {
		if req.MethodFamily == family {
			out[id] = req
		}
	}
	return out
}
