package repository

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ultrabuild/ultrabuild/db"
	"github.com/ultrabuild/ultrabuild/domain"
	"gorm.io/gorm"
)

// TemplateRevenue is the per-template sales aggregate
type TemplateRevenue struct {
	TemplateID uuid.UUID `json:"templateId"`
	Name       string    `json:"name"`
	Purchases  int64     `json:"purchases"`
	Revenue    float64   `json:"revenue"`
}

type LedgerRepository interface {
	SaveTemplate(template *domain.Template) error
	FindTemplate(id uuid.UUID) (*domain.Template, error)
	ListTemplates() ([]*domain.Template, error)
	RecordPurchase(purchase *domain.Purchase) error
	ListPurchases(templateID uuid.UUID) ([]*domain.Purchase, error)
	TotalRevenue() (float64, error)
	RevenueByTemplate() ([]TemplateRevenue, error)
}

type ledgerRepository struct {
	db     *gorm.DB
	mapper *TemplateMapper
}

func NewLedgerRepository(db *gorm.DB, mapper *TemplateMapper) LedgerRepository {
	return &ledgerRepository{db: db, mapper: mapper}
}

// SaveTemplate inserts or fully replaces a template row
func (r *ledgerRepository) SaveTemplate(template *domain.Template) error {
	m, err := r.mapper.ToModel(template)
	if err != nil {
		return fmt.Errorf("failed to map template: %w", err)
	}
	if err := r.db.Save(m).Error; err != nil {
		slog.Error("Database operation failed",
			"layer", "repository",
			"operation", "save_template",
			"template_id", template.ID,
			"error", err)
		return err
	}
	return nil
}

func (r *ledgerRepository) FindTemplate(id uuid.UUID) (*domain.Template, error) {
	var m db.TemplateModel
	if err := r.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("template %s %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return r.mapper.ToDomain(&m), nil
}

func (r *ledgerRepository) ListTemplates() ([]*domain.Template, error) {
	var models []db.TemplateModel
	if err := r.db.Order("created_at").Find(&models).Error; err != nil {
		return nil, err
	}

	templates := make([]*domain.Template, len(models))
	for i := range models {
		templates[i] = r.mapper.ToDomain(&models[i])
	}
	return templates, nil
}

// RecordPurchase stores the purchase and bumps the template's download counter in one transaction
func (r *ledgerRepository) RecordPurchase(purchase *domain.Purchase) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(purchaseToModel(purchase)).Error; err != nil {
			return err
		}
		res := tx.Model(&db.TemplateModel{}).
			Where("id = ?", purchase.TemplateID).
			UpdateColumn("downloads", gorm.Expr("downloads + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("template %s %w", purchase.TemplateID, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		slog.Error("Database operation failed",
			"layer", "repository",
			"operation", "record_purchase",
			"template_id", purchase.TemplateID,
			"error", err)
	}
	return err
}

func (r *ledgerRepository) ListPurchases(templateID uuid.UUID) ([]*domain.Purchase, error) {
	var models []db.PurchaseModel
	if err := r.db.Where("template_id = ?", templateID).Order("created_at").Find(&models).Error; err != nil {
		return nil, err
	}

	purchases := make([]*domain.Purchase, len(models))
	for i := range models {
		purchases[i] = purchaseToDomain(&models[i])
	}
	return purchases, nil
}

func (r *ledgerRepository) TotalRevenue() (float64, error) {
	var total float64
	if err := r.db.Model(&db.PurchaseModel{}).Select("COALESCE(SUM(price), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// RevenueByTemplate reads the template_revenue view, best sellers first
func (r *ledgerRepository) RevenueByTemplate() ([]TemplateRevenue, error) {
	var rows []TemplateRevenue
	err := r.db.Raw(`SELECT template_id, name, purchases, revenue FROM template_revenue ORDER BY revenue DESC, name`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type DeploymentRepository interface {
	SaveDeployment(result *domain.DeploymentResult) error
	ListDeployments(limit int) ([]*domain.DeploymentResult, error)
}

type deploymentRepository struct {
	db *gorm.DB
}

func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepository{db: db}
}

func (r *deploymentRepository) SaveDeployment(result *domain.DeploymentResult) error {
	if err := r.db.Create(deploymentToModel(result)).Error; err != nil {
		slog.Error("Database operation failed",
			"layer", "repository",
			"operation", "save_deployment",
			"deployment_id", result.ID,
			"error", err)
		return err
	}
	return nil
}

// ListDeployments returns the most recent deployments first. A limit <= 0 returns all.
func (r *deploymentRepository) ListDeployments(limit int) ([]*domain.DeploymentResult, error) {
	q := r.db.Order("deployed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var models []db.DeploymentModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	results := make([]*domain.DeploymentResult, len(models))
	for i := range models {
		results[i] = deploymentToDomain(&models[i])
	}
	return results, nil
}
