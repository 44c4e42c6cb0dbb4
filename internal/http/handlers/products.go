package handlers

import (
	"crmbackend/internal/http/middleware"
	"crmbackend/internal/http/query"
	"crmbackend/internal/http/respond"
	"crmbackend/internal/repositories"
	"crmbackend/internal/services"

	"github.com/gin-gonic/gin"
)

func productService(c *gin.Context) services.ProductService {
	return services.ProductService{
		ProductRepo: repositories.ProductRepository{},
		RequestID:   middleware.GetRequestID(c),
	}
}

// GET /api/products?location_id=&active=
func GetProducts(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}

	params := c.Request.URL.Query()
	pagination := query.ParsePagination(params)
	filters := query.ParseFilters(params, "active")

	list, meta, err := productService(c).List(locationID, pagination, filters)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OKList(c, list, meta)
}

// GET /api/products/:id
func GetProductByID(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	product, err := productService(c).Get(locationID, id)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, product)
}

// POST /api/products
func CreateProduct(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}

	var in services.ProductInput
	if !BindJSONOrError(c, &in) {
		return
	}

	product, err := productService(c).Create(locationID, in)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.Created(c, product)
}

// PUT /api/products/:id
func UpdateProduct(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	var in services.ProductPatch
	if !BindJSONOrError(c, &in) {
		return
	}

	product, err := productService(c).Update(locationID, id, in)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, product)
}

// DELETE /api/products/:id
func DeleteProduct(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	if err := productService(c).Delete(locationID, id); err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.Deleted(c, id)
}
