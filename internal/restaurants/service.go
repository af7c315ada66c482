package restaurants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/feastlyhq/feastly-backend/pkg/db"
	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastlyhq/feastly-backend/pkg/errors"
	"github.com/feastlyhq/feastly-backend/pkg/pagination"
)

type restaurantRepository interface {
	Create(ctx context.Context, restaurant *models.Restaurant) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	FindByKey(ctx context.Context, key string) (*models.Restaurant, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error)
	List(ctx context.Context, search string, limit, offset int) ([]models.Restaurant, error)
	Update(ctx context.Context, restaurant *models.Restaurant) error
	CreateSection(ctx context.Context, section *models.MenuSection) error
	FindSectionByID(ctx context.Context, id uuid.UUID) (*models.MenuSection, error)
	ListSections(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuSection, error)
	UpdateSection(ctx context.Context, section *models.MenuSection) error
	DeleteSection(ctx context.Context, id uuid.UUID) error
	CreateItem(ctx context.Context, item *models.MenuItem) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

// Service exposes restaurant and menu operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateRestaurantInput) (*RestaurantDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*RestaurantDTO, error)
	GetByKey(ctx context.Context, key string) (*RestaurantDTO, error)
	GetMine(ctx context.Context, ownerID uuid.UUID) (*RestaurantDTO, error)
	List(ctx context.Context, search string, limit, offset int) ([]RestaurantDTO, error)
	Update(ctx context.Context, ownerID uuid.UUID, input UpdateRestaurantInput) (*RestaurantDTO, error)
	SetOpen(ctx context.Context, ownerID uuid.UUID, open bool) (*RestaurantDTO, error)
	Menu(ctx context.Context, restaurantID uuid.UUID) ([]MenuSectionDTO, error)
	OwnerMenu(ctx context.Context, ownerID uuid.UUID) ([]MenuSectionDTO, error)
	AddSection(ctx context.Context, ownerID uuid.UUID, input CreateSectionInput) (*MenuSectionDTO, error)
	UpdateSection(ctx context.Context, ownerID, sectionID uuid.UUID, input UpdateSectionInput) (*MenuSectionDTO, error)
	DeleteSection(ctx context.Context, ownerID, sectionID uuid.UUID) error
	AddItem(ctx context.Context, ownerID uuid.UUID, input CreateItemInput) (*MenuItemDTO, error)
	UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, input UpdateItemInput) (*MenuItemDTO, error)
	DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error
	SetItemAvailability(ctx context.Context, ownerID, itemID uuid.UUID, available bool) (*MenuItemDTO, error)
}

type service struct {
	repo restaurantRepository
}

// NewService builds a restaurant service with the provided repository.
func NewService(repo restaurantRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("restaurant repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateRestaurantInput) (*RestaurantDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name is required")
	}
	if strings.TrimSpace(input.Address) == "" || strings.TrimSpace(input.City) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant address and city are required")
	}

	restaurant := &models.Restaurant{
		OwnerID:       ownerID,
		Name:          name,
		UniqueKey:     generateUniqueKey(name),
		Description:   input.Description,
		Phone:         input.Phone,
		Address:       strings.TrimSpace(input.Address),
		City:          strings.TrimSpace(input.City),
		Lat:           input.Lat,
		Lng:           input.Lng,
		CuisineTags:   pq.StringArray(input.CuisineTags),
		Images:        pq.StringArray{},
		BusinessHours: input.BusinessHours.Normalize(),
		IsOpen:        true,
	}
	if input.DeliveryTime != nil && *input.DeliveryTime > 0 {
		restaurant.DeliveryTime = *input.DeliveryTime
	}

	if err := s.repo.Create(ctx, restaurant); err != nil {
		if db.IsUniqueViolation(err, "idx_restaurants_owner_id") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "this account already has a restaurant")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create restaurant")
	}
	return FromModel(restaurant), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*RestaurantDTO, error) {
	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "restaurant")
	}
	return FromModel(restaurant), nil
}

func (s *service) GetByKey(ctx context.Context, key string) (*RestaurantDTO, error) {
	restaurant, err := s.repo.FindByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		return nil, notFoundOrDependency(err, "restaurant")
	}
	return FromModel(restaurant), nil
}

func (s *service) GetMine(ctx context.Context, ownerID uuid.UUID) (*RestaurantDTO, error) {
	restaurant, err := s.ownedRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return FromModel(restaurant), nil
}

func (s *service) List(ctx context.Context, search string, limit, offset int) ([]RestaurantDTO, error) {
	rows, err := s.repo.List(ctx, strings.TrimSpace(search), pagination.NormalizeLimit(limit), pagination.NormalizeOffset(offset))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurants")
	}
	dtos := make([]RestaurantDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, ownerID uuid.UUID, input UpdateRestaurantInput) (*RestaurantDTO, error) {
	restaurant, err := s.ownedRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name cannot be empty")
		}
		restaurant.Name = name
	}
	if input.Description != nil {
		restaurant.Description = cloneStringPtr(input.Description)
	}
	if input.Phone != nil {
		restaurant.Phone = cloneStringPtr(input.Phone)
	}
	if input.Address != nil {
		restaurant.Address = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		restaurant.City = strings.TrimSpace(*input.City)
	}
	if input.Lat != nil {
		restaurant.Lat = cloneFloatPtr(input.Lat)
	}
	if input.Lng != nil {
		restaurant.Lng = cloneFloatPtr(input.Lng)
	}
	if input.CuisineTags != nil {
		restaurant.CuisineTags = cloneStrings(*input.CuisineTags)
	}
	if input.Images != nil {
		restaurant.Images = cloneStrings(*input.Images)
	}
	if input.BannerURL != nil {
		restaurant.BannerURL = cloneStringPtr(input.BannerURL)
	}
	if input.BusinessHours != nil {
		restaurant.BusinessHours = input.BusinessHours.Normalize()
	}
	if input.DeliveryTime != nil {
		if *input.DeliveryTime <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery time must be positive")
		}
		restaurant.DeliveryTime = *input.DeliveryTime
	}

	if err := validateBanner(restaurant); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, restaurant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update restaurant")
	}
	return FromModel(restaurant), nil
}

func (s *service) SetOpen(ctx context.Context, ownerID uuid.UUID, open bool) (*RestaurantDTO, error) {
	restaurant, err := s.ownedRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	restaurant.IsOpen = open
	if err := s.repo.Update(ctx, restaurant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update restaurant")
	}
	return FromModel(restaurant), nil
}

// Menu returns the customer-facing menu: sections in position order with
// unavailable items filtered out.
func (s *service) Menu(ctx context.Context, restaurantID uuid.UUID) ([]MenuSectionDTO, error) {
	if _, err := s.repo.FindByID(ctx, restaurantID); err != nil {
		return nil, notFoundOrDependency(err, "restaurant")
	}
	sections, err := s.repo.ListSections(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu sections")
	}
	dtos := make([]MenuSectionDTO, 0, len(sections))
	for i := range sections {
		dto := SectionFromModel(&sections[i])
		available := dto.Items[:0]
		for _, item := range dto.Items {
			if item.IsAvailable {
				available = append(available, item)
			}
		}
		dto.Items = available
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// OwnerMenu returns the full menu including unavailable items.
func (s *service) OwnerMenu(ctx context.Context, ownerID uuid.UUID) ([]MenuSectionDTO, error) {
	restaurant, err := s.ownedRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	sections, err := s.repo.ListSections(ctx, restaurant.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu sections")
	}
	dtos := make([]MenuSectionDTO, 0, len(sections))
	for i := range sections {
		dtos = append(dtos, SectionFromModel(&sections[i]))
	}
	return dtos, nil
}

func (s *service) AddSection(ctx context.Context, ownerID uuid.UUID, input CreateSectionInput) (*MenuSectionDTO, error) {
	restaurant, err := s.ownedRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "section name is required")
	}
	section := &models.MenuSection{
		RestaurantID: restaurant.ID,
		Name:         name,
	}
	if input.Position != nil {
		section.Position = *input.Position
	}
	if err := s.repo.CreateSection(ctx, section); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu section")
	}
	dto := SectionFromModel(section)
	return &dto, nil
}

func (s *service) UpdateSection(ctx context.Context, ownerID, sectionID uuid.UUID, input UpdateSectionInput) (*MenuSectionDTO, error) {
	section, _, err := s.ownedSection(ctx, ownerID, sectionID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "section name cannot be empty")
		}
		section.Name = name
	}
	if input.Position != nil {
		section.Position = *input.Position
	}
	if err := s.repo.UpdateSection(ctx, section); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu section")
	}
	dto := SectionFromModel(section)
	return &dto, nil
}

func (s *service) DeleteSection(ctx context.Context, ownerID, sectionID uuid.UUID) error {
	if _, _, err := s.ownedSection(ctx, ownerID, sectionID); err != nil {
		return err
	}
	if err := s.repo.DeleteSection(ctx, sectionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete menu section")
	}
	return nil
}

func (s *service) AddItem(ctx context.Context, ownerID uuid.UUID, input CreateItemInput) (*MenuItemDTO, error) {
	section, restaurant, err := s.ownedSection(ctx, ownerID, input.SectionID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
	}
	item := &models.MenuItem{
		RestaurantID: restaurant.ID,
		SectionID:    section.ID,
		Name:         name,
		Description:  input.Description,
		Price:        input.Price,
		ImageURL:     input.ImageURL,
		IsAvailable:  true,
	}
	if input.Position != nil {
		item.Position = *input.Position
	}
	if input.IsVegetarian != nil {
		item.IsVegetarian = *input.IsVegetarian
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu item")
	}
	dto := ItemFromModel(item)
	return &dto, nil
}

func (s *service) UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, input UpdateItemInput) (*MenuItemDTO, error) {
	item, err := s.ownedItem(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		item.Name = name
	}
	if input.Description != nil {
		item.Description = cloneStringPtr(input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
		item.Price = *input.Price
	}
	if input.ImageURL != nil {
		item.ImageURL = cloneStringPtr(input.ImageURL)
	}
	if input.Position != nil {
		item.Position = *input.Position
	}
	if input.IsVegetarian != nil {
		item.IsVegetarian = *input.IsVegetarian
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu item")
	}
	dto := ItemFromModel(item)
	return &dto, nil
}

func (s *service) DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	if _, err := s.ownedItem(ctx, ownerID, itemID); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete menu item")
	}
	return nil
}

func (s *service) SetItemAvailability(ctx context.Context, ownerID, itemID uuid.UUID, available bool) (*MenuItemDTO, error) {
	item, err := s.ownedItem(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	item.IsAvailable = available
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu item")
	}
	dto := ItemFromModel(item)
	return &dto, nil
}

func (s *service) ownedRestaurant(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	restaurant, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, notFoundOrDependency(err, "restaurant")
	}
	return restaurant, nil
}

func (s *service) ownedSection(ctx context.Context, ownerID, sectionID uuid.UUID) (*models.MenuSection, *models.Restaurant, error) {
	restaurant, err := s.ownedRestaurant(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	section, err := s.repo.FindSectionByID(ctx, sectionID)
	if err != nil {
		return nil, nil, notFoundOrDependency(err, "menu section")
	}
	if section.RestaurantID != restaurant.ID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "menu section belongs to another restaurant")
	}
	return section, restaurant, nil
}

func (s *service) ownedItem(ctx context.Context, ownerID, itemID uuid.UUID) (*models.MenuItem, error) {
	restaurant, err := s.ownedRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, notFoundOrDependency(err, "menu item")
	}
	if item.RestaurantID != restaurant.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "menu item belongs to another restaurant")
	}
	return item, nil
}

// validateBanner enforces that the banner, when set, is one of the gallery
// images.
func validateBanner(restaurant *models.Restaurant) error {
	if restaurant.BannerURL == nil || *restaurant.BannerURL == "" {
		restaurant.BannerURL = nil
		return nil
	}
	for _, img := range restaurant.Images {
		if img == *restaurant.BannerURL {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "banner must be one of the gallery images")
}

// generateUniqueKey derives a URL-safe key from the restaurant name with a
// short random suffix so renames never collide.
func generateUniqueKey(name string) string {
	slug := slugify(name)
	suffix := strings.Split(uuid.NewString(), "-")[0]
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}

func slugify(value string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func notFoundOrDependency(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, resource+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+resource)
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}

func cloneFloatPtr(value *float64) *float64 {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}

func cloneStrings(value []string) pq.StringArray {
	if value == nil {
		return nil
	}
	res := make(pq.StringArray, len(value))
	copy(res, value)
	return res
}
