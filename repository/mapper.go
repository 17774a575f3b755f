// Package repository provides the data access layer for templates, purchases and deployments.
package repository

import (
	"log/slog"
	"time"

	"github.com/ultrabuild/ultrabuild/db"
	"github.com/ultrabuild/ultrabuild/domain"
	"github.com/ultrabuild/ultrabuild/encryption"
)

type TemplateMapper struct {
	encryption *encryption.EncryptionService
}

func NewTemplateMapper(encryptionSvc *encryption.EncryptionService) *TemplateMapper {
	return &TemplateMapper{encryption: encryptionSvc}
}

func (m *TemplateMapper) ToDomain(t *db.TemplateModel) *domain.Template {
	code := ""
	if t.EncryptedCode != "" && m.encryption != nil {
		decrypted, err := m.encryption.Decrypt(t.EncryptedCode)
		if err != nil {
			// The template stays listable when the key changed
			slog.Error("Failed to decrypt template code",
				"template_id", t.ID,
				"template_name", t.Name,
				"error", err)
		} else {
			code = decrypted
		}
	}

	return &domain.Template{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Price:       t.Price,
		CreatorID:   t.CreatorID,
		Downloads:   int(t.Downloads),
		Rating:      t.Rating,
		Code:        code,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (m *TemplateMapper) ToModel(t *domain.Template) (*db.TemplateModel, error) {
	encrypted := ""
	if t.Code != "" {
		if m.encryption == nil {
			return nil, domain.NotConfigured("encryption key")
		}
		var err error
		encrypted, err = m.encryption.Encrypt(t.Code)
		if err != nil {
			return nil, err
		}
	}

	return &db.TemplateModel{
		BaseModel: db.BaseModel{
			ID:        t.ID,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		},
		Name:          t.Name,
		Description:   t.Description,
		Price:         t.Price,
		CreatorID:     t.CreatorID,
		Downloads:     int64(t.Downloads),
		Rating:        t.Rating,
		EncryptedCode: encrypted,
	}, nil
}

func purchaseToModel(p *domain.Purchase) *db.PurchaseModel {
	return &db.PurchaseModel{
		ID:         p.ID,
		TemplateID: p.TemplateID,
		BuyerID:    p.BuyerID,
		Price:      p.Price,
		CreatedAt:  p.CreatedAt,
	}
}

func purchaseToDomain(p *db.PurchaseModel) *domain.Purchase {
	return &domain.Purchase{
		ID:         p.ID,
		TemplateID: p.TemplateID,
		BuyerID:    p.BuyerID,
		Price:      p.Price,
		CreatedAt:  p.CreatedAt,
	}
}

func deploymentToModel(r *domain.DeploymentResult) *db.DeploymentModel {
	return &db.DeploymentModel{
		BaseModel:    db.BaseModel{ID: r.ID},
		ProjectName:  r.ProjectName,
		Target:       r.Target.String(),
		Success:      r.Success,
		URL:          r.URL,
		DeploymentID: r.DeploymentID,
		Logs:         r.Logs,
		DurationMS:   r.Duration.Milliseconds(),
		DeployedAt:   r.Timestamp,
	}
}

func deploymentToDomain(m *db.DeploymentModel) *domain.DeploymentResult {
	target, err := domain.ParseDeploymentTarget(m.Target)
	if err != nil {
		target = domain.DeploymentTargetUnknown
	}
	return &domain.DeploymentResult{
		ID:           m.ID,
		ProjectName:  m.ProjectName,
		Target:       target,
		Success:      m.Success,
		URL:          m.URL,
		DeploymentID: m.DeploymentID,
		Logs:         m.Logs,
		Timestamp:    m.DeployedAt,
		Duration:     time.Duration(m.DurationMS) * time.Millisecond,
	}
}
