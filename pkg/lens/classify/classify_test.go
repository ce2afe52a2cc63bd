package classify

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value interface{}
		want  Category
	}{
		{"boolean", "is_compliant", true, Boolean},
		{"boolean false", "coppa_compliant", false, Boolean},
		{"non-empty list", "missing_elements", []string{"a", "b"}, ListOfStrings},
		{"empty list suppressed", "missing_elements", []string{}, Unclassified},
		{"numeric score", "compliance_score", float64(7), NumericScore},
		{"numeric level", "threat_level", float64(2), NumericScore},
		{"numeric without score name", "count", float64(4), Unclassified},
		{"int score", "minimization_score", 9, NumericScore},
		{"string risk level", "risk_level", "High", StringRiskLevel},
		{"string tracking risk level", "tracking_risk_level", "Low", StringRiskLevel},
		{"string risk level mixed case", "Risk_Level", "Medium", StringRiskLevel},
		{"plain string", "recommendations", "avoid sharing", StringGeneric},
		{"risk without level", "risk_summary", "bad", StringGeneric},
		{"nil value", "anything", nil, Unclassified},
		{"map value", "nested", map[string]interface{}{"x": 1}, Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.field, tt.value); got != tt.want {
				t.Errorf("Classify(%q, %v) = %v, want %v", tt.field, tt.value, got, tt.want)
			}
		})
	}
}

func TestIsPriority(t *testing.T) {
	tests := []struct {
		field string
		cat   Category
		want  bool
	}{
		{"anything", Boolean, true},
		{"anything", NumericScore, true},
		{"is_compliant_text", StringGeneric, true},
		{"breach_status", StringGeneric, true},
		{"risk_level", StringRiskLevel, true},
		{"tracking_risk_level", StringRiskLevel, true},
		{"some_risk_level_note", StringGeneric, false},
		{"recommendations", ListOfStrings, false},
	}

	for _, tt := range tests {
		if got := IsPriority(tt.field, tt.cat); got != tt.want {
			t.Errorf("IsPriority(%q, %v) = %v, want %v", tt.field, tt.cat, got, tt.want)
		}
	}
}

func TestPartitionStableOrder(t *testing.T) {
	fields := []Field{
		{Name: "security_measures", Value: []string{"tls"}},
		{Name: "risk_level", Value: "High"},
		{Name: "data_at_risk", Value: []string{"email"}},
		{Name: "compliance_score", Value: float64(4)},
		{Name: "empty_list", Value: []string{}},
		{Name: "mitigation_advice", Value: "rotate passwords"},
	}

	priority, rest := Partition(fields)

	wantPriority := []string{"risk_level", "compliance_score"}
	wantRest := []string{"security_measures", "data_at_risk", "mitigation_advice"}

	if len(priority) != len(wantPriority) {
		t.Fatalf("priority len = %d, want %d", len(priority), len(wantPriority))
	}
	for i, name := range wantPriority {
		if priority[i].Name != name {
			t.Errorf("priority[%d] = %q, want %q", i, priority[i].Name, name)
		}
	}
	if len(rest) != len(wantRest) {
		t.Fatalf("rest len = %d, want %d", len(rest), len(wantRest))
	}
	for i, name := range wantRest {
		if rest[i].Name != name {
			t.Errorf("rest[%d] = %q, want %q", i, rest[i].Name, name)
		}
	}
}

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{0, TierLow},
		{3, TierLow},
		{3.0001, TierMedium},
		{6, TierMedium},
		{6.0001, TierHigh},
		{10, TierHigh},
	}
	for _, tt := range tests {
		if got := TierForScore(tt.score); got != tt.want {
			t.Errorf("TierForScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestTierForLevel(t *testing.T) {
	tests := []struct {
		level string
		want  Tier
	}{
		{"Critical", TierHigh},
		{"HIGH", TierHigh},
		{"Medium-High", TierHigh}, // high/critical checked before medium
		{"medium", TierMedium},
		{"Low", TierLow},
		{"unknown", TierLow},
		{"", TierLow},
	}
	for _, tt := range tests {
		if got := TierForLevel(tt.level); got != tt.want {
			t.Errorf("TierForLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
