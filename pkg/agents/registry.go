package agents

// Info describes an agent to API consumers.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// spec is the internal definition of one agent: its public metadata plus
// how its prompt is assembled and parsed.
type spec struct {
	info       Info
	structured bool

	// policyK > 0 enables semantic retrieval over the policy chunks;
	// otherwise the full policy text goes into the prompt.
	policyK int

	// legalSource selects a regulation corpus for the legal knowledge
	// base. Empty means the agent does not consult it.
	legalSource string
	legalK      int
	legalQuery  string
}

const (
	KeyGdprCompliance       = "gdpr_compliance"
	KeyPrivacyRights        = "privacy_rights"
	KeyDataMinimization     = "data_minimization"
	KeyTrackerDetector      = "tracker_detector"
	KeyPolicySimplifier     = "policy_simplifier"
	KeyBreachRisk           = "breach_risk"
	KeyPrivacyFunctionality = "privacy_functionality"
	KeyKidsPrivacy          = "kids_privacy"
)

var registry = map[string]spec{
	KeyGdprCompliance: {
		info: Info{
			Name:        "GDPR Compliance Checker",
			Description: "Analyzes policies for GDPR compliance and provides recommendations",
			Icon:        "shield-check",
		},
		structured:  true,
		policyK:     8,
		legalSource: "GDPR",
		legalK:      6,
		legalQuery:  "GDPR compliance requirements data subject rights consent processing",
	},
	KeyPrivacyRights: {
		info: Info{
			Name:        "Privacy Rights Assistant",
			Description: "Helps you understand and exercise your data rights",
			Icon:        "user-check",
		},
	},
	KeyDataMinimization: {
		info: Info{
			Name:        "Data Minimization Advisor",
			Description: "Identifies excessive data collection and how to minimize sharing",
			Icon:        "minimize",
		},
		structured: true,
		policyK:    6,
	},
	KeyTrackerDetector: {
		info: Info{
			Name:        "Third-Party Tracker Detector",
			Description: "Reveals all third-party trackers and data sharing",
			Icon:        "eye",
		},
		structured: true,
		policyK:    6,
	},
	KeyPolicySimplifier: {
		info: Info{
			Name:        "Policy Simplifier",
			Description: "Translates complex legal text into plain language",
			Icon:        "file-text",
		},
	},
	KeyBreachRisk: {
		info: Info{
			Name:        "Data Breach Risk Assessor",
			Description: "Evaluates security measures and breach risks",
			Icon:        "alert-triangle",
		},
		structured: true,
		policyK:    6,
	},
	KeyPrivacyFunctionality: {
		info: Info{
			Name:        "Privacy vs. Functionality Advisor",
			Description: "Helps balance privacy with app features",
			Icon:        "scale",
		},
	},
	KeyKidsPrivacy: {
		info: Info{
			Name:        "Kids' Privacy Guardian",
			Description: "Assesses COPPA compliance and children's data protection",
			Icon:        "baby",
		},
		structured:  true,
		policyK:     6,
		legalSource: "COPPA",
		legalK:      5,
		legalQuery:  "COPPA children privacy parental consent age verification personal information",
	},
}

// Definitions returns the public metadata of every registered agent,
// keyed by agent key.
func Definitions() map[string]Info {
	out := make(map[string]Info, len(registry))
	for key, s := range registry {
		out[key] = s.info
	}
	return out
}

// Lookup returns the metadata for one agent key.
func Lookup(key string) (Info, bool) {
	s, ok := registry[key]
	return s.info, ok
}
