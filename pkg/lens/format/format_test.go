package format

import (
	"strings"
	"testing"

	"github.com/Hirdyansh9/priv-lens/pkg/lens/classify"
)

func TestFormatNarrative(t *testing.T) {
	got := Format("Policy Simplifier", Narrative("This policy is fine."))
	if got.Body != "This policy is fine." {
		t.Errorf("Body = %q", got.Body)
	}
	if len(got.Priority) != 0 {
		t.Errorf("narrative results must not carry priority indicators, got %d", len(got.Priority))
	}
}

func TestFormatStructured(t *testing.T) {
	fields := []classify.Field{
		{Name: "security_measures", Value: []string{"encryption", "audits"}},
		{Name: "is_compliant", Value: true},
		{Name: "compliance_score", Value: float64(7)},
		{Name: "risk_level", Value: "Medium"},
		{Name: "user_options", Value: "Opt out in settings."},
		{Name: "unknown_trackers", Value: []string{}},
	}

	got := Format("GDPR Compliance Checker", Structured(fields))

	// Priority bucket: boolean, score, risk_level in original order.
	wantPriority := []string{"is_compliant", "compliance_score", "risk_level"}
	if len(got.Priority) != len(wantPriority) {
		t.Fatalf("priority len = %d, want %d", len(got.Priority), len(wantPriority))
	}
	for i, name := range wantPriority {
		if got.Priority[i].Name != name {
			t.Errorf("Priority[%d] = %q, want %q", i, got.Priority[i].Name, name)
		}
	}

	for _, want := range []string{
		"**Is Compliant:** Yes ✓",
		"**Compliance Score:** 7 (High Risk)",
		"**Risk Level:** Medium (Medium Risk)",
		"**Security Measures**",
		"- encryption",
		"- audits",
		"**User Options**",
		"Opt out in settings.",
	} {
		if !strings.Contains(got.Body, want) {
			t.Errorf("Body missing %q\nbody:\n%s", want, got.Body)
		}
	}

	// Empty list suppressed entirely.
	if strings.Contains(got.Body, "Unknown Trackers") {
		t.Errorf("empty list must be suppressed, body:\n%s", got.Body)
	}

	// Priority fields render before the rest.
	if strings.Index(got.Body, "Is Compliant") > strings.Index(got.Body, "Security Measures") {
		t.Errorf("priority fields must render first, body:\n%s", got.Body)
	}
}

func TestFormatBooleanNo(t *testing.T) {
	got := Format("x", Structured([]classify.Field{{Name: "coppa_compliant", Value: false}}))
	if !strings.Contains(got.Body, "**Coppa Compliant:** No ✗") {
		t.Errorf("body = %q", got.Body)
	}
}

func TestHumanizeFieldName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"missing_elements", "Missing Elements"},
		{"tracking_risk_level", "Tracking Risk Level"},
		{"score", "Score"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := HumanizeFieldName(tt.in); got != tt.want {
			t.Errorf("HumanizeFieldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseStructured(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
	}{
		{"agent payload", `{"is_compliant": true, "compliance_score": 7, "missing_elements": ["dpo contact"]}`, true},
		{"plain chat", "What data do they collect?", false},
		{"markdown error", "**Error:** request failed", false},
		{"empty object", "{}", false},
		{"nested object", `{"a": {"b": 1}}`, false},
		{"mixed array", `{"a": ["x", 1]}`, false},
		{"json array", `["a", "b"]`, false},
		{"trailing garbage", `{"a": "b"} extra`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseStructured(tt.text)
			if ok != tt.wantOK {
				t.Errorf("ParseStructured(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
		})
	}
}

func TestParseStructuredPreservesOrder(t *testing.T) {
	fields, ok := ParseStructured(`{"zeta": "1", "alpha": "2", "mid": "3"}`)
	if !ok {
		t.Fatal("parse failed")
	}
	want := []string{"zeta", "alpha", "mid"}
	for i, name := range want {
		if fields[i].Name != name {
			t.Errorf("fields[%d] = %q, want %q", i, fields[i].Name, name)
		}
	}
}

func TestDecodeMessage(t *testing.T) {
	m := DecodeMessage(`{"risk_level": "High", "risk_factors": ["weak auth"]}`, false)
	if m.Kind != KindStructuredResult {
		t.Fatalf("Kind = %v, want structured", m.Kind)
	}
	if len(m.Fields) != 2 {
		t.Errorf("fields = %d, want 2", len(m.Fields))
	}

	m = DecodeMessage("Hello! Ask me anything.", false)
	if m.Kind != KindText || m.Body != "Hello! Ask me anything." {
		t.Errorf("narrative decode broken: %+v", m)
	}
}
