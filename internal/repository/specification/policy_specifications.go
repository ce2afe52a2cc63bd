package specification

import "gorm.io/gorm"

// ByPolicyID filters on the integer policy primary key.
type ByPolicyID struct {
	PolicyID uint
}

func (s ByPolicyID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.PolicyID)
}

// ForPolicy filters child rows (messages, chunks) by their policy.
type ForPolicy struct {
	PolicyID uint
}

func (s ForPolicy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("policy_id = ?", s.PolicyID)
}

// ByLegalSource filters legal chunks by regulation corpus ("gdpr", "coppa").
type ByLegalSource struct {
	Source string
}

func (s ByLegalSource) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source = ?", s.Source)
}
