package mapper

import (
	"encoding/json"
	"time"

	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PolicyMapper struct{}

func NewPolicyMapper() *PolicyMapper {
	return &PolicyMapper{}
}

func (m *PolicyMapper) ToEntity(p *model.Policy) *entity.Policy {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	var analysis map[string]interface{}
	if len(p.Analysis) > 0 {
		// A corrupted analysis blob degrades to nil rather than failing a read.
		_ = json.Unmarshal(p.Analysis, &analysis)
	}

	return &entity.Policy{
		Id:           p.Id,
		UserId:       p.UserId,
		Title:        p.Title,
		SourceType:   entity.PolicySourceType(p.SourceType),
		SourceURL:    p.SourceURL,
		PolicyText:   p.PolicyText,
		CompanyName:  p.CompanyName,
		RiskScore:    p.RiskScore,
		FinalSummary: p.FinalSummary,
		Analysis:     analysis,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    p.DeletedAt.Valid,
	}
}

func (m *PolicyMapper) ToModel(p *entity.Policy) *model.Policy {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	var analysis datatypes.JSON
	if p.Analysis != nil {
		if raw, err := json.Marshal(p.Analysis); err == nil {
			analysis = datatypes.JSON(raw)
		}
	}

	return &model.Policy{
		Id:           p.Id,
		UserId:       p.UserId,
		Title:        p.Title,
		SourceType:   string(p.SourceType),
		SourceURL:    p.SourceURL,
		PolicyText:   p.PolicyText,
		CompanyName:  p.CompanyName,
		RiskScore:    p.RiskScore,
		FinalSummary: p.FinalSummary,
		Analysis:     analysis,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

func (m *PolicyMapper) ToEntities(policies []*model.Policy) []*entity.Policy {
	entities := make([]*entity.Policy, len(policies))
	for i, p := range policies {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
