package score

import "fmt"

// Role classifies a method by what it does in the pipeline. The role
// decides which layers the method must pass and which fusion weights apply.
type Role string

const (
	RoleIngest       Role = "ingest"
	RoleProcessor    Role = "processor"
	RoleAnalyzer     Role = "analyzer"
	RoleExtractor    Role = "extractor"
	RoleScore        Role = "score"
	RoleUtility      Role = "utility"
	RoleOrchestrator Role = "orchestrator"
	RoleCore         Role = "core"
)

// AllRoles returns the closed set of roles.
func AllRoles() []Role {
	return []Role{
		RoleIngest, RoleProcessor, RoleAnalyzer, RoleExtractor,
		RoleScore, RoleUtility, RoleOrchestrator, RoleCore,
	}
}

// ParseRole converts a string to a Role, rejecting unknown names.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	for _, known := range AllRoles() {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// RequiredLayers returns the layers a role must pass. Minimal validation
// for helpers and coordination, the structural subset for data movers, and
// all eight for anything that analyzes or scores.
func (r Role) RequiredLayers() []LayerID {
	switch r {
	case RoleUtility, RoleOrchestrator:
		return []LayerID{LayerBase, LayerChain, LayerMeta}
	case RoleIngest, RoleProcessor, RoleExtractor:
		return []LayerID{LayerBase, LayerChain, LayerUnit, LayerMeta}
	case RoleAnalyzer, RoleScore, RoleCore:
		return AllLayers()
	default:
		// Unknown roles are never under-validated.
		return AllLayers()
	}
}
