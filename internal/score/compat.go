package score

import "fmt"

// Declared compatibility levels. A method declares each context identifier
// at exactly one of these values; anything absent from the map scores the
// undeclared penalty configured at registry load.
const (
	CompatPrimary    = 1.0
	CompatSecondary  = 0.7
	CompatCompatible = 0.3
)

// CompatLevel names the qualitative level behind a compatibility score.
func CompatLevel(v float64) string {
	switch v {
	case CompatPrimary:
		return "primary"
	case CompatSecondary:
		return "secondary"
	case CompatCompatible:
		return "compatible"
	default:
		return "undeclared"
	}
}

// CompatibilityMapping holds a method's declared compatibility with each
// context axis. Identifiers absent from a map score the undeclared penalty.
type CompatibilityMapping struct {
	MethodID   string             `json:"method_id"`
	Questions  map[string]float64 `json:"questions"`
	Dimensions map[string]float64 `json:"dimensions"`
	Policies   map[string]float64 `json:"policies"`

	undeclared float64
}

// NewCompatibilityMapping validates that every declared score is one of the
// discrete levels and builds the mapping. undeclaredPenalty is the score
// returned for identifiers absent from the maps.
func NewCompatibilityMapping(methodID string, questions, dimensions, policies map[string]float64, undeclaredPenalty float64) (CompatibilityMapping, error) {
	if undeclaredPenalty < 0.0 || undeclaredPenalty > 1.0 {
		return CompatibilityMapping{}, fmt.Errorf("undeclared penalty %v out of range [0,1]", undeclaredPenalty)
	}
	for axis, m := range map[string]map[string]float64{
		"questions": questions, "dimensions": dimensions, "policies": policies,
	} {
		for id, v := range m {
			if v != CompatPrimary && v != CompatSecondary && v != CompatCompatible {
				return CompatibilityMapping{}, fmt.Errorf(
					"method %s %s[%s]: score %v is not a declared level {1.0, 0.7, 0.3}",
					methodID, axis, id, v)
			}
		}
	}
	return CompatibilityMapping{
		MethodID:   methodID,
		Questions:  questions,
		Dimensions: dimensions,
		Policies:   policies,
		undeclared: undeclaredPenalty,
	}, nil
}

// QuestionScore returns the declared score for a question, or the
// undeclared penalty.
func (m CompatibilityMapping) QuestionScore(id string) float64 {
	if v, ok := m.Questions[id]; ok {
		return v
	}
	return m.undeclared
}

// DimensionScore returns the declared score for a dimension, or the
// undeclared penalty.
func (m CompatibilityMapping) DimensionScore(id string) float64 {
	if v, ok := m.Dimensions[id]; ok {
		return v
	}
	return m.undeclared
}

// PolicyScore returns the declared score for a policy area, or the
// undeclared penalty.
func (m CompatibilityMapping) PolicyScore(id string) float64 {
	if v, ok := m.Policies[id]; ok {
		return v
	}
	return m.undeclared
}

// CheckAntiUniversality reports an error when the method's average declared
// score is at or above threshold on all three axes at once. No method may
// be declared uniformly excellent everywhere. Incomplete mappings cannot be
// universal.
func (m CompatibilityMapping) CheckAntiUniversality(threshold float64) error {
	if len(m.Questions) == 0 || len(m.Dimensions) == 0 || len(m.Policies) == 0 {
		return nil
	}
	avgQ := average(m.Questions)
	avgD := average(m.Dimensions)
	avgP := average(m.Policies)
	if avgQ >= threshold && avgD >= threshold && avgP >= threshold {
		return fmt.Errorf(
			"method %s is declared universal: averages q=%.3f d=%.3f p=%.3f all >= %.3f",
			m.MethodID, avgQ, avgD, avgP, threshold)
	}
	return nil
}

func average(m map[string]float64) float64 {
	if len(m) == 0 {
		return 0
	}
	var sum float64
	for _, v := range m {
		sum += v
	}
	return sum / float64(len(m))
}
