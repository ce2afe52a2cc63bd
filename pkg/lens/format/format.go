// Package format turns agent results into the display representation the
// conversation view renders: a compact list of priority indicators on top
// and a markdown narrative body below.
package format

import (
	"fmt"
	"strings"

	"github.com/Hirdyansh9/priv-lens/pkg/lens/classify"
)

// Indicator is a field elevated to top-of-display rendering (score,
// compliance flag, risk level).
type Indicator struct {
	Name     string
	Category classify.Category
	Value    interface{}
}

// Formatted is the render-ready form of one agent result.
type Formatted struct {
	AgentName string
	Priority  []Indicator
	Body      string
}

// Format renders an agent result. Narrative results pass through
// verbatim with no indicators. Structured results are partitioned into
// priority indicators and the rest, priority fields rendered first,
// original order preserved inside each group.
func Format(agentName string, result Result) Formatted {
	if !result.Structured {
		return Formatted{AgentName: agentName, Body: result.Text}
	}

	priority, rest := classify.Partition(result.Fields)

	out := Formatted{AgentName: agentName}
	for _, f := range priority {
		out.Priority = append(out.Priority, Indicator{
			Name:     f.Name,
			Category: classify.Classify(f.Name, f.Value),
			Value:    f.Value,
		})
	}

	var b strings.Builder
	for _, f := range append(append([]classify.Field{}, priority...), rest...) {
		renderField(&b, f)
	}
	out.Body = strings.TrimRight(b.String(), "\n")
	return out
}

// FormatMessage renders a conversation message through the same path an
// agent result takes, so history entries that carry structured payloads
// come out identical to live outcomes.
func FormatMessage(msg Message) Formatted {
	if msg.Kind == KindStructuredResult {
		return Format(msg.AgentName, Structured(msg.Fields))
	}
	return Formatted{AgentName: msg.AgentName, Body: msg.Body}
}

func renderField(b *strings.Builder, f classify.Field) {
	label := HumanizeFieldName(f.Name)

	switch classify.Classify(f.Name, f.Value) {
	case classify.ListOfStrings:
		fmt.Fprintf(b, "**%s**\n\n", label)
		for _, item := range f.Value.([]string) {
			fmt.Fprintf(b, "- %s\n", item)
		}
		b.WriteString("\n")
	case classify.Boolean:
		if f.Value.(bool) {
			fmt.Fprintf(b, "**%s:** Yes ✓\n\n", label)
		} else {
			fmt.Fprintf(b, "**%s:** No ✗\n\n", label)
		}
	case classify.NumericScore:
		score := toFloat(f.Value)
		tier := classify.TierForScore(score)
		fmt.Fprintf(b, "**%s:** %s (%s Risk)\n\n", label, trimFloat(score), tier)
	case classify.StringRiskLevel:
		level := f.Value.(string)
		tier := classify.TierForLevel(level)
		fmt.Fprintf(b, "**%s:** %s (%s Risk)\n\n", label, level, tier)
	case classify.StringGeneric:
		fmt.Fprintf(b, "**%s**\n\n%s\n\n", label, f.Value.(string))
	}
}

// HumanizeFieldName turns a snake_case field name into a title label:
// underscores become spaces, each word is capitalized.
func HumanizeFieldName(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.4f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
