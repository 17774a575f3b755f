package domain

import (
	"time"

	"github.com/google/uuid"
)

// Template is a sellable project template
type Template struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatorID   string    `json:"creatorId"`
	Downloads   int       `json:"downloads"`
	Rating      float64   `json:"rating"`
	Code        string    `json:"code"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Purchase records one sale of a template
type Purchase struct {
	ID         uuid.UUID `json:"id"`
	TemplateID uuid.UUID `json:"templateId"`
	BuyerID    string    `json:"buyerId"`
	Price      float64   `json:"price"`
	CreatedAt  time.Time `json:"createdAt"`
}
