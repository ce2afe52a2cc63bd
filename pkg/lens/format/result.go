package format

import "github.com/Hirdyansh9/priv-lens/pkg/lens/classify"

// Result is an agent's output: either a narrative string or a structured
// set of fields in server order.
type Result struct {
	Structured bool
	Text       string
	Fields     []classify.Field
}

// Narrative wraps a plain string result.
func Narrative(text string) Result {
	return Result{Text: text}
}

// Structured wraps an ordered field set.
func Structured(fields []classify.Field) Result {
	return Result{Structured: true, Fields: fields}
}

// MessageKind discriminates conversation messages. Earlier revisions of
// the system stored structured agent payloads as raw JSON inside the
// message text and re-parsed on every render, which made a JSON-looking
// chat message indistinguishable from an agent result. The kind is now
// decided once, when the message crosses the server boundary.
type MessageKind int

const (
	KindText MessageKind = iota
	KindStructuredResult
)

// Message is one conversation entry. Append order is display order.
type Message struct {
	Kind       MessageKind
	IsFromUser bool

	// KindText
	Body string

	// KindStructuredResult
	AgentName string
	Fields    []classify.Field
}

// TextMessage builds a plain narrative message.
func TextMessage(body string, fromUser bool) Message {
	return Message{Kind: KindText, Body: body, IsFromUser: fromUser}
}

// DecodeMessage classifies a persisted message exactly once. If the text
// is a JSON object of agent-result shape it becomes a structured-result
// message; anything else stays narrative, verbatim.
func DecodeMessage(text string, fromUser bool) Message {
	if fields, ok := ParseStructured(text); ok {
		return Message{
			Kind:       KindStructuredResult,
			IsFromUser: fromUser,
			Fields:     fields,
		}
	}
	return TextMessage(text, fromUser)
}
