// Package db provides database models and utilities for ULTRABUILD persistence.
package db

import (
	"time"

	"github.com/google/uuid"
)

type BaseModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TemplateModel struct {
	BaseModel
	Name          string  `gorm:"not null;check:name <> ''"`
	Description   string  `gorm:"type:text"`
	Price         float64 `gorm:"not null;check:price >= 0"`
	CreatorID     string  `gorm:"not null;index"`
	Downloads     int64   `gorm:"not null"`
	Rating        float64 `gorm:"not null"`
	EncryptedCode string  `gorm:"type:text"` // Fernet token of the template source

	Purchases []PurchaseModel `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
}

func (TemplateModel) TableName() string {
	return "templates"
}

type PurchaseModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	TemplateID uuid.UUID `gorm:"type:char(36);not null;index"`
	BuyerID    string    `gorm:"not null"`
	Price      float64   `gorm:"not null"`
	CreatedAt  time.Time
}

func (PurchaseModel) TableName() string {
	return "purchases"
}

type DeploymentModel struct {
	BaseModel
	ProjectName  string `gorm:"not null"`
	Target       string `gorm:"not null;index;check:target <> ''"` // vercel, github, docker, aws
	Success      bool   `gorm:"not null;index"`
	URL          string
	DeploymentID string
	Logs         string `gorm:"type:text"`
	DurationMS   int64  `gorm:"not null"`
	DeployedAt   time.Time
}

func (DeploymentModel) TableName() string {
	return "deployments"
}

type MigrationModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;unique"`
	AppliedAt time.Time
}

func (MigrationModel) TableName() string {
	return "migrations"
}
