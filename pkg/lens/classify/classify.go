package classify

import "strings"

// Category describes the shape of a single field inside a structured
// agent result. The category decides how the field is rendered.
type Category int

const (
	Unclassified Category = iota
	Boolean
	NumericScore
	StringRiskLevel
	StringGeneric
	ListOfStrings
)

func (c Category) String() string {
	switch c {
	case Boolean:
		return "boolean"
	case NumericScore:
		return "numeric_score"
	case StringRiskLevel:
		return "string_risk_level"
	case StringGeneric:
		return "string_generic"
	case ListOfStrings:
		return "list_of_strings"
	default:
		return "unclassified"
	}
}

// Field is one entry of a structured agent result. Order matters: fields
// keep the position the server emitted them in.
type Field struct {
	Name  string
	Value interface{}
}

// Classify maps a field to its render category. Rules are applied in
// order, first match wins:
//
//  1. booleans
//  2. lists (empty lists are Unclassified and suppressed entirely)
//  3. numbers whose field name contains "score" or "level"
//  4. strings whose field name contains both "risk" and "level"
//  5. any other string
//
// Everything else is Unclassified and silently dropped from output.
func Classify(fieldName string, value interface{}) Category {
	name := strings.ToLower(fieldName)

	switch v := value.(type) {
	case bool:
		return Boolean
	case []string:
		if len(v) == 0 {
			return Unclassified
		}
		return ListOfStrings
	case float64:
		if strings.Contains(name, "score") || strings.Contains(name, "level") {
			return NumericScore
		}
		return Unclassified
	case int:
		if strings.Contains(name, "score") || strings.Contains(name, "level") {
			return NumericScore
		}
		return Unclassified
	case string:
		if strings.Contains(name, "risk") && strings.Contains(name, "level") {
			return StringRiskLevel
		}
		return StringGeneric
	default:
		return Unclassified
	}
}

// IsPriority reports whether a field is a priority indicator: a compact
// value (score, compliance flag, risk level) shown ahead of the narrative
// body. Independent of Classify except for the two category shortcuts.
func IsPriority(fieldName string, cat Category) bool {
	if cat == Boolean || cat == NumericScore {
		return true
	}
	name := strings.ToLower(fieldName)
	if strings.Contains(name, "compliant") || strings.Contains(name, "status") {
		return true
	}
	return name == "risk_level" || name == "tracking_risk_level"
}

// Partition splits fields into the priority bucket and the rest.
// The split is stable: inside each bucket fields keep their original
// order. Output reproducibility depends on this.
func Partition(fields []Field) (priority, rest []Field) {
	for _, f := range fields {
		cat := Classify(f.Name, f.Value)
		if cat == Unclassified {
			continue
		}
		if IsPriority(f.Name, cat) {
			priority = append(priority, f)
		} else {
			rest = append(rest, f)
		}
	}
	return priority, rest
}
