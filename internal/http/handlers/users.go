package handlers

import (
	"crmbackend/internal/http/middleware"
	"crmbackend/internal/http/query"
	"crmbackend/internal/http/respond"
	"crmbackend/internal/repositories"
	"crmbackend/internal/services"

	"github.com/gin-gonic/gin"
)

func userService(c *gin.Context) services.UserService {
	return services.UserService{
		UserRepo:  repositories.UserRepository{},
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/dashboard/users?page=&limit=&role=
// Managers get their own agents only; admins get the tenant, paginated.
func GetDashboardUsers(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		respond.Error(c, 401, "no caller on context")
		return
	}

	params := c.Request.URL.Query()
	pagination := query.ParsePagination(params)
	filters := query.ParseFilters(params, "role")

	out, err := userService(c).List(caller, pagination, filters["role"])
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, out)
}

// GET /api/dashboard/users/:id
func GetDashboardUserByID(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		respond.Error(c, 401, "no caller on context")
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	user, err := userService(c).Get(caller, id)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, user)
}

// POST /api/dashboard/users
func CreateDashboardUser(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		respond.Error(c, 401, "no caller on context")
		return
	}

	var in services.CreateUserInput
	if !BindJSONOrError(c, &in) {
		return
	}

	user, err := userService(c).Create(caller, in)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.Created(c, user)
}

// PUT /api/dashboard/users/:id
func UpdateDashboardUser(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		respond.Error(c, 401, "no caller on context")
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	var in services.UpdateUserInput
	if !BindJSONOrError(c, &in) {
		return
	}

	user, err := userService(c).Update(caller, id, in)
	if err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.OK(c, user)
}

// DELETE /api/dashboard/users/:id
func DeleteDashboardUser(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		respond.Error(c, 401, "no caller on context")
		return
	}
	id, ok := IDParam(c)
	if !ok {
		return
	}

	if err := userService(c).Delete(caller, id); err != nil {
		respond.DomainError(c, err)
		return
	}
	respond.Deleted(c, id)
}
