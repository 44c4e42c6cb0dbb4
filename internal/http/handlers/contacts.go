package handlers

import (
	"strings"

	"crmbackend/internal/http/middleware"
	"crmbackend/internal/http/query"
	"crmbackend/internal/http/respond"
	"crmbackend/internal/repositories"
	"crmbackend/internal/services"

	"github.com/gin-gonic/gin"
)

func contactService(c *gin.Context) services.ContactService {
	return services.ContactService{
		ContactRepo: repositories.ContactRepository{},
		RequestID:   middleware.GetRequestID(c),
	}
}

// GET /api/contacts/by-email?location_id=&email=
// Ungated by design: backs the embedded public widget. Returns only the
// trimmed contact projection.
func GetContactByEmail(c *gin.Context) {
	locationID := strings.TrimSpace(c.Query("location_id"))
	if locationID == "" {
		respond.ValidationErr(c, "location_id parameter is required")
		return
	}
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		respond.ValidationErr(c, "Email parameter is required")
		return
	}

	contact, err := contactService(c).LookupByEmail(locationID, email)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, contact)
}

// GET /api/contacts/by-phone?location_id=&phone=
func GetContactByPhone(c *gin.Context) {
	locationID := strings.TrimSpace(c.Query("location_id"))
	if locationID == "" {
		respond.ValidationErr(c, "location_id parameter is required")
		return
	}
	phone := strings.TrimSpace(c.Query("phone"))
	if phone == "" {
		respond.ValidationErr(c, "Phone parameter is required")
		return
	}

	contact, err := contactService(c).LookupByPhone(locationID, phone)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, contact)
}

// GET /api/contacts?location_id=&page=&limit=&sortBy=&sortOrder=&search=&tag=
func GetContacts(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}

	params := c.Request.URL.Query()
	pagination := query.ParsePagination(params)
	filters := query.ParseFilters(params, "search", "tag")

	list, meta, err := contactService(c).List(locationID, pagination, filters)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OKList(c, list, meta)
}

// GET /api/contacts/:id
func GetContactByID(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	contact, err := contactService(c).Get(locationID, id)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, contact)
}

// POST /api/contacts
func CreateContact(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}

	var in services.ContactInput
	if !BindJSONOrError(c, &in) {
		return
	}

	contact, err := contactService(c).Create(locationID, in)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.Created(c, contact)
}

// PUT /api/contacts/:id
func UpdateContact(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	var in services.ContactPatch
	if !BindJSONOrError(c, &in) {
		return
	}

	contact, err := contactService(c).Update(locationID, id, in)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, contact)
}

// DELETE /api/contacts/:id
func DeleteContact(c *gin.Context) {
	locationID, ok := ScopedLocation(c)
	if !ok {
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	if err := contactService(c).Delete(locationID, id); err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.Deleted(c, id)
}
