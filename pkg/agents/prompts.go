package agents

import "fmt"

// promptData carries everything a prompt template can reference. Fields
// that an agent does not use are simply left empty.
type promptData struct {
	policyText    string
	policyContext string
	legalContext  string
	params        map[string]string
}

func (d promptData) param(key, fallback string) string {
	if v, ok := d.params[key]; ok && v != "" {
		return v
	}
	return fallback
}

const gdprFormatInstructions = `You MUST respond with a single JSON object with exactly these keys:
{
  "is_compliant": "boolean, whether the policy appears GDPR compliant",
  "missing_elements": ["list of strings, missing GDPR requirements"],
  "compliant_elements": ["list of strings, present GDPR requirements"],
  "recommendations": ["list of strings, specific recommendations to improve compliance"],
  "compliance_score": "integer compliance score from 1-10"
}
Respond with the JSON object only.`

const dataMinimizationFormatInstructions = `You MUST respond with a single JSON object with exactly these keys:
{
  "excessive_data_points": ["list of strings, data points that seem excessive"],
  "necessary_data_points": ["list of strings, data points that appear necessary"],
  "optional_data_points": ["list of strings, data points users could avoid sharing"],
  "minimization_score": "integer from 1-10, where 10 is best",
  "recommendations": "string, recommendations for users to minimize data sharing"
}
Respond with the JSON object only.`

const trackerFormatInstructions = `You MUST respond with a single JSON object with exactly these keys:
{
  "advertising_trackers": ["list of strings, advertising/marketing trackers mentioned"],
  "analytics_trackers": ["list of strings, analytics trackers mentioned"],
  "social_media_trackers": ["list of strings, social media trackers mentioned"],
  "unknown_trackers": ["list of strings, other third-party services mentioned"],
  "tracking_risk_level": "string, one of: Low, Medium, High, Critical",
  "user_options": "string, options users have to limit tracking"
}
Respond with the JSON object only.`

const breachRiskFormatInstructions = `You MUST respond with a single JSON object with exactly these keys:
{
  "security_measures": ["list of strings, security measures mentioned in policy"],
  "breach_notification": "string, how breaches are handled and users notified",
  "data_at_risk": ["list of strings, types of data that could be compromised"],
  "risk_level": "string, one of: Low, Medium, High, Critical",
  "risk_factors": ["list of strings, specific risk factors identified"],
  "mitigation_advice": ["list of strings, advice for users to protect themselves"]
}
Respond with the JSON object only.`

const kidsPrivacyFormatInstructions = `You MUST respond with a single JSON object with exactly these keys:
{
  "coppa_compliant": "boolean, whether policy appears COPPA compliant",
  "age_restrictions": "string, age restrictions and verification methods",
  "parental_consent": "string, parental consent mechanisms",
  "child_data_collected": ["list of strings, data collected from children"],
  "safety_concerns": ["list of strings, safety concerns for children"],
  "recommendations": ["list of strings, recommendations for parents"]
}
Respond with the JSON object only.`

// buildPrompt assembles the full prompt for one agent. The key must be a
// registered agent key.
func buildPrompt(key string, d promptData) string {
	switch key {
	case KeyGdprCompliance:
		return fmt.Sprintf(`You are a GDPR compliance expert. Analyze the following privacy policy sections for GDPR compliance.

Use the official GDPR requirements provided below as your authoritative reference.

=== OFFICIAL GDPR REQUIREMENTS ===
%s

=== PRIVACY POLICY SECTIONS TO ANALYZE ===
%s

Based on the official GDPR requirements and the retrieved policy sections, provide a comprehensive compliance assessment.

Check for these key GDPR requirements (as detailed in the legal references above):
1. Legal basis for processing (Article 6)
2. Data subject rights (Articles 15-22: access, rectification, erasure, portability, restriction, objection)
3. Data retention periods (Article 5)
4. Data breach notification procedures (Articles 33-34)
5. Data Protection Officer (DPO) contact information (Articles 37-39)
6. International data transfers safeguards (Articles 44-46)
7. Automated decision-making information (Article 22)
8. Cookie consent mechanisms (Article 7)
9. Age restrictions and child data protection (Article 8)
10. Clear and plain language (Article 12)

Cite specific GDPR articles when identifying missing or present elements.

%s`, d.legalContext, d.policyContext, gdprFormatInstructions)

	case KeyPrivacyRights:
		return fmt.Sprintf(`You are a privacy rights advocate helping users understand their data rights.

Based on the following privacy policy and user's jurisdiction, explain:
1. What rights they have (access, deletion, portability, etc.)
2. How to exercise those rights
3. Expected response timeframes
4. Any potential limitations or exceptions

Policy Text:
%s

User's Jurisdiction: %s
User's Question: %s

Provide clear, actionable guidance in plain language with specific steps they can take.

Format your response using markdown with bullet points (using - for bullets) to organize information clearly.
Each bullet point should start with a capital letter.`,
			d.policyText,
			d.param("jurisdiction", "General/International"),
			d.param("question", "What are my privacy rights?"))

	case KeyDataMinimization:
		return fmt.Sprintf(`You are a data minimization expert. Analyze these privacy policy sections to identify:
1. What data is collected
2. Which data collection is truly necessary vs excessive
3. What data users can avoid sharing

Evaluate based on:
- Purpose limitation (is data collected only for stated purposes?)
- Data necessity (is all data truly needed?)
- User control (can users limit data sharing?)

Relevant Policy Sections:
%s

Based on the retrieved sections, provide a comprehensive data minimization assessment.

%s`, d.policyContext, dataMinimizationFormatInstructions)

	case KeyTrackerDetector:
		return fmt.Sprintf(`You are a privacy tracker detection expert. Analyze these privacy policy sections to identify:

1. All third-party services that receive user data
2. Advertising and marketing trackers
3. Analytics and measurement tools
4. Social media integrations
5. What data each receives
6. User's ability to opt-out

Relevant Policy Sections:
%s

Based on the retrieved sections, provide a comprehensive tracker analysis.

%s`, d.policyContext, trackerFormatInstructions)

	case KeyPolicySimplifier:
		return fmt.Sprintf(`You are an expert at translating legal jargon into simple, clear language.

Take this privacy policy section and explain it as if talking to a 12-year-old:
- Use simple words
- Use short sentences
- Use concrete examples
- Highlight the most important points
- Explain why it matters to the user

Policy Section:
%s

Specific Question (if any): %s

Provide a clear, friendly explanation that anyone can understand.`,
			d.policyText, d.param("question", ""))

	case KeyBreachRisk:
		return fmt.Sprintf(`You are a cybersecurity expert analyzing privacy policies for data breach risks.

Assess:
1. What security measures are in place
2. How breaches are detected and handled
3. User notification procedures
4. What sensitive data could be at risk
5. Historical breach information (if mentioned)

Relevant Policy Sections:
%s

Based on the retrieved sections, provide a comprehensive breach risk assessment.

%s`, d.policyContext, breachRiskFormatInstructions)

	case KeyPrivacyFunctionality:
		return fmt.Sprintf(`You are a privacy consultant helping users make informed trade-offs.

Analyze this privacy policy to explain:
1. What data is needed for core functionality
2. What data is used for optional features
3. What features users can disable to improve privacy
4. Alternative privacy-friendly options
5. The real-world impact of various privacy choices

Policy Text:
%s

User's Concern: %s

Help them understand the trade-offs and make an informed decision.

Format your response using markdown with bullet points (using - for bullets) to organize information clearly.
Each bullet point should start with a capital letter.`,
			d.policyText, d.param("concern", ""))

	case KeyKidsPrivacy:
		return fmt.Sprintf(`You are a children's privacy protection expert. Analyze these policy sections for COPPA compliance.

Use the official COPPA requirements provided below as your authoritative reference.

=== OFFICIAL COPPA REQUIREMENTS ===
%s

=== PRIVACY POLICY SECTIONS TO ANALYZE ===
%s

Based on the official COPPA requirements and the retrieved policy sections, provide a comprehensive children's privacy assessment.

Check for these key COPPA requirements (as detailed in the legal references above):
1. COPPA compliance (15 U.S.C. §§ 6501-6506)
2. Age verification and restrictions (under 13)
3. Verifiable parental consent mechanisms
4. What personal information is collected from children
5. How children's data is protected and secured
6. Parental rights (review, delete, refuse further collection)
7. Educational vs commercial use
8. Third-party data sharing involving children
9. Conditional access prohibitions
10. Data retention and deletion policies for children's data

Reference specific COPPA requirements when identifying compliance issues or gaps.

%s`, d.legalContext, d.policyContext, kidsPrivacyFormatInstructions)
	}

	return ""
}

const comparePrompt = `Compare these privacy policies across key dimensions:

1. Data Collection: What data each collects
2. Data Sharing: Who they share with
3. User Rights: What rights users have
4. Security: Security measures in place
5. Retention: How long data is kept
6. Risk Level: Overall privacy risk

Policies to compare:
%s

Provide a clear comparison table and overall recommendation for which is most privacy-friendly.`
