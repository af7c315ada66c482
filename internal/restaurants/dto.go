package restaurants

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	"github.com/feastlyhq/feastly-backend/pkg/types"
)

// RestaurantDTO exposes restaurant data in API responses.
type RestaurantDTO struct {
	ID            uuid.UUID           `json:"id"`
	OwnerID       uuid.UUID           `json:"owner_id"`
	Name          string              `json:"name"`
	UniqueKey     string              `json:"unique_key"`
	Description   *string             `json:"description,omitempty"`
	Phone         *string             `json:"phone,omitempty"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	Lat           *float64            `json:"lat,omitempty"`
	Lng           *float64            `json:"lng,omitempty"`
	CuisineTags   []string            `json:"cuisine_tags"`
	Images        []string            `json:"images"`
	BannerURL     *string             `json:"banner_url,omitempty"`
	BusinessHours types.BusinessHours `json:"business_hours,omitempty"`
	Rating        *float64            `json:"rating,omitempty"`
	DeliveryTime  int                 `json:"delivery_time_mins"`
	IsOpen        bool                `json:"is_open"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// MenuSectionDTO is a section with its items, positions preserved.
type MenuSectionDTO struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Position int           `json:"position"`
	Items    []MenuItemDTO `json:"items"`
}

// MenuItemDTO exposes a single dish.
type MenuItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	SectionID    uuid.UUID       `json:"section_id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     *string         `json:"image_url,omitempty"`
	Position     int             `json:"position"`
	IsVegetarian bool            `json:"is_vegetarian"`
	IsAvailable  bool            `json:"is_available"`
}

// CreateRestaurantInput holds onboarding data for a new restaurant.
type CreateRestaurantInput struct {
	Name          string              `json:"name" validate:"required"`
	Description   *string             `json:"description"`
	Phone         *string             `json:"phone"`
	Address       string              `json:"address" validate:"required"`
	City          string              `json:"city" validate:"required"`
	Lat           *float64            `json:"lat"`
	Lng           *float64            `json:"lng"`
	CuisineTags   []string            `json:"cuisine_tags"`
	BusinessHours types.BusinessHours `json:"business_hours"`
	DeliveryTime  *int                `json:"delivery_time_mins"`
}

// UpdateRestaurantInput captures the allowed restaurant fields for mutation.
// Nil fields are left untouched.
type UpdateRestaurantInput struct {
	Name          *string              `json:"name"`
	Description   *string              `json:"description"`
	Phone         *string              `json:"phone"`
	Address       *string              `json:"address"`
	City          *string              `json:"city"`
	Lat           *float64             `json:"lat"`
	Lng           *float64             `json:"lng"`
	CuisineTags   *[]string            `json:"cuisine_tags"`
	Images        *[]string            `json:"images"`
	BannerURL     *string              `json:"banner_url"`
	BusinessHours *types.BusinessHours `json:"business_hours"`
	DeliveryTime  *int                 `json:"delivery_time_mins"`
}

// CreateSectionInput holds creation-time data for a menu section.
type CreateSectionInput struct {
	Name     string `json:"name" validate:"required"`
	Position *int   `json:"position"`
}

// UpdateSectionInput captures the mutable section fields.
type UpdateSectionInput struct {
	Name     *string `json:"name"`
	Position *int    `json:"position"`
}

// CreateItemInput holds creation-time data for a menu item.
type CreateItemInput struct {
	SectionID    uuid.UUID       `json:"section_id" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Description  *string         `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     *string         `json:"image_url"`
	Position     *int            `json:"position"`
	IsVegetarian *bool           `json:"is_vegetarian"`
}

// UpdateItemInput captures the mutable item fields.
type UpdateItemInput struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	ImageURL     *string          `json:"image_url"`
	Position     *int             `json:"position"`
	IsVegetarian *bool            `json:"is_vegetarian"`
	IsAvailable  *bool            `json:"is_available"`
}

// FromModel maps the persisted restaurant into a DTO.
func FromModel(m *models.Restaurant) *RestaurantDTO {
	if m == nil {
		return nil
	}
	return &RestaurantDTO{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Name:          m.Name,
		UniqueKey:     m.UniqueKey,
		Description:   m.Description,
		Phone:         m.Phone,
		Address:       m.Address,
		City:          m.City,
		Lat:           m.Lat,
		Lng:           m.Lng,
		CuisineTags:   append([]string(nil), m.CuisineTags...),
		Images:        append([]string(nil), m.Images...),
		BannerURL:     m.BannerURL,
		BusinessHours: m.BusinessHours,
		Rating:        m.Rating,
		DeliveryTime:  m.DeliveryTime,
		IsOpen:        m.IsOpen,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// SectionFromModel maps a section and its loaded items into a DTO.
func SectionFromModel(m *models.MenuSection) MenuSectionDTO {
	dto := MenuSectionDTO{
		ID:       m.ID,
		Name:     m.Name,
		Position: m.Position,
		Items:    make([]MenuItemDTO, 0, len(m.Items)),
	}
	for i := range m.Items {
		dto.Items = append(dto.Items, ItemFromModel(&m.Items[i]))
	}
	return dto
}

// ItemFromModel maps a menu item into a DTO.
func ItemFromModel(m *models.MenuItem) MenuItemDTO {
	return MenuItemDTO{
		ID:           m.ID,
		SectionID:    m.SectionID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		ImageURL:     m.ImageURL,
		Position:     m.Position,
		IsVegetarian: m.IsVegetarian,
		IsAvailable:  m.IsAvailable,
	}
}
