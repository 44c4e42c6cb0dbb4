package services

import (
	"strings"

	"crmbackend/internal/domain"
	"crmbackend/internal/domain/models"
	"crmbackend/internal/repositories"
	"crmbackend/internal/utils"
)

type ProductService struct {
	ProductRepo repositories.ProductRepository
	RequestID   string
}

type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
	Active      *bool  `json:"active"`
}

type ProductPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Currency    *string `json:"currency"`
	Active      *bool   `json:"active"`
}

func (s ProductService) List(locationID string, p domain.Pagination, filters map[string]string) ([]models.Product, domain.ListMeta, error) {
	list, total, err := s.ProductRepo.List(locationID, p, filters)
	if err != nil {
		return nil, domain.ListMeta{}, err
	}
	return list, domain.NewListMeta(p, total), nil
}

func (s ProductService) Get(locationID string, id int64) (models.Product, error) {
	return s.ProductRepo.GetByID(locationID, id)
}

func (s ProductService) Create(locationID string, in ProductInput) (models.Product, error) {
	name := utils.NormalizeSpace(in.Name)
	if name == "" {
		return models.Product{}, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	if in.Price < 0 {
		return models.Product{}, domain.ValidationError{Field: "price", Msg: "must not be negative"}
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	product := models.Product{
		LocationID:  locationID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Currency:    currency,
		Active:      active,
	}
	id, err := s.ProductRepo.Create(product)
	if err != nil {
		return models.Product{}, err
	}
	utils.LogEvent(s.RequestID, "products", "create", "product_id="+itoa(id))
	return s.ProductRepo.GetByID(locationID, id)
}

func (s ProductService) Update(locationID string, id int64, in ProductPatch) (models.Product, error) {
	product, err := s.ProductRepo.GetByID(locationID, id)
	if err != nil {
		return models.Product{}, err
	}

	if in.Name != nil {
		name := utils.NormalizeSpace(*in.Name)
		if name == "" {
			return models.Product{}, domain.ValidationError{Field: "name", Msg: "must not be empty"}
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return models.Product{}, domain.ValidationError{Field: "price", Msg: "must not be negative"}
		}
		product.Price = *in.Price
	}
	if in.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*in.Currency))
		if currency == "" {
			return models.Product{}, domain.ValidationError{Field: "currency", Msg: "must not be empty"}
		}
		product.Currency = currency
	}
	if in.Active != nil {
		product.Active = *in.Active
	}

	if err := s.ProductRepo.Update(product); err != nil {
		return models.Product{}, err
	}
	utils.LogEvent(s.RequestID, "products", "update", "product_id="+itoa(id))
	return s.ProductRepo.GetByID(locationID, id)
}

func (s ProductService) Delete(locationID string, id int64) error {
	if err := s.ProductRepo.Delete(locationID, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "products", "delete", "product_id="+itoa(id))
	return nil
}
