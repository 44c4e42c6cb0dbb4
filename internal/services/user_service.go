package services

import (
	"strings"

	"crmbackend/internal/domain"
	"crmbackend/internal/domain/models"
	"crmbackend/internal/repositories"
	"crmbackend/internal/utils"
)

// UserService owns dashboard-user management. Managers are narrowed to the
// agents on their own team; that narrowing is an application-level filter
// applied after the gate has already allowed the request.
type UserService struct {
	UserRepo  repositories.UserRepository
	RequestID string
}

// UserList is the list payload: manager results carry the whole team at
// once, so HasMore is hardwired false on that path.
type UserList struct {
	Users   []models.PublicUser `json:"users"`
	Meta    domain.ListMeta     `json:"meta"`
	HasMore bool                `json:"hasMore"`
}

type CreateUserInput struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	ManagerID   int64    `json:"manager_id"`
	LocationIDs []string `json:"location_ids"`
}

type UpdateUserInput struct {
	Name        *string  `json:"name"`
	Email       *string  `json:"email"`
	Role        *string  `json:"role"`
	ManagerID   *int64   `json:"manager_id"`
	LocationIDs []string `json:"location_ids"`
}

// List returns the users the caller may see. Admin: tenant-wide, paginated,
// optional role filter. Manager: their own agents only, all at once.
func (s UserService) List(caller domain.Caller, p domain.Pagination, roleFilter string) (UserList, error) {
	if caller.Role == domain.RoleManager {
		agents, err := s.UserRepo.ListTeamAgents(caller.TenantID, caller.UserID)
		if err != nil {
			return UserList{}, err
		}
		out := UserList{
			Users:   publicUsers(agents),
			Meta:    domain.NewListMeta(p, len(agents)),
			HasMore: false,
		}
		return out, nil
	}

	role := ""
	if roleFilter != "" {
		parsed, err := domain.ParseRole(roleFilter)
		if err != nil {
			return UserList{}, err
		}
		role = string(parsed)
	}

	users, total, err := s.UserRepo.List(caller.TenantID, p, role)
	if err != nil {
		return UserList{}, err
	}
	return UserList{
		Users:   publicUsers(users),
		Meta:    domain.NewListMeta(p, total),
		HasMore: p.Offset()+len(users) < total,
	}, nil
}

func (s UserService) Get(caller domain.Caller, id int64) (models.PublicUser, error) {
	user, err := s.UserRepo.GetByID(id)
	if err != nil {
		return models.PublicUser{}, err
	}
	if user.TenantID != caller.TenantID {
		return models.PublicUser{}, domain.NotFoundError{Resource: "user"}
	}
	if err := s.managerMayTouch(caller, user); err != nil {
		return models.PublicUser{}, err
	}
	return user.ToPublic(), nil
}

// Create rejects duplicate in-tenant emails with a conflict before any
// insert happens.
func (s UserService) Create(caller domain.Caller, in CreateUserInput) (models.PublicUser, error) {
	name := utils.NormalizeSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" {
		return models.PublicUser{}, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	if email == "" {
		return models.PublicUser{}, domain.ValidationError{Field: "email", Msg: "is required"}
	}
	if len(in.Password) < 8 {
		return models.PublicUser{}, domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return models.PublicUser{}, err
	}
	if caller.Role == domain.RoleManager && role != domain.RoleAgent {
		return models.PublicUser{}, domain.ForbiddenError{Msg: "managers may only create agents"}
	}

	exists, err := s.UserRepo.EmailExists(caller.TenantID, email)
	if err != nil {
		return models.PublicUser{}, err
	}
	if exists {
		return models.PublicUser{}, domain.ConflictError{Resource: "user", Msg: "email already registered"}
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return models.PublicUser{}, err
	}

	managerID := in.ManagerID
	if caller.Role == domain.RoleManager {
		managerID = caller.UserID
	}

	user := models.User{
		TenantID:     caller.TenantID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		ManagerID:    managerID,
		LocationIDs:  in.LocationIDs,
	}
	id, err := s.UserRepo.Create(user)
	if err != nil {
		return models.PublicUser{}, err
	}

	utils.LogEvent(s.RequestID, "users", "create", "user_id="+itoa(id))

	created, err := s.UserRepo.GetByID(id)
	if err != nil {
		return models.PublicUser{}, err
	}
	return created.ToPublic(), nil
}

func (s UserService) Update(caller domain.Caller, id int64, in UpdateUserInput) (models.PublicUser, error) {
	user, err := s.UserRepo.GetByID(id)
	if err != nil {
		return models.PublicUser{}, err
	}
	if user.TenantID != caller.TenantID {
		return models.PublicUser{}, domain.NotFoundError{Resource: "user"}
	}
	if err := s.managerMayTouch(caller, user); err != nil {
		return models.PublicUser{}, err
	}

	if in.Name != nil {
		name := utils.NormalizeSpace(*in.Name)
		if name == "" {
			return models.PublicUser{}, domain.ValidationError{Field: "name", Msg: "must not be empty"}
		}
		user.Name = name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			return models.PublicUser{}, domain.ValidationError{Field: "email", Msg: "must not be empty"}
		}
		if email != user.Email {
			exists, err := s.UserRepo.EmailExists(caller.TenantID, email)
			if err != nil {
				return models.PublicUser{}, err
			}
			if exists {
				return models.PublicUser{}, domain.ConflictError{Resource: "user", Msg: "email already registered"}
			}
		}
		user.Email = email
	}
	if in.Role != nil {
		role, err := domain.ParseRole(*in.Role)
		if err != nil {
			return models.PublicUser{}, err
		}
		if caller.Role == domain.RoleManager && role != domain.RoleAgent {
			return models.PublicUser{}, domain.ForbiddenError{Msg: "managers may only assign the agent role"}
		}
		user.Role = role
	}
	if in.ManagerID != nil && caller.Role == domain.RoleAdmin {
		user.ManagerID = *in.ManagerID
	}
	if in.LocationIDs != nil {
		user.LocationIDs = in.LocationIDs
	}

	if err := s.UserRepo.Update(user); err != nil {
		return models.PublicUser{}, err
	}

	utils.LogEvent(s.RequestID, "users", "update", "user_id="+itoa(id))

	updated, err := s.UserRepo.GetByID(id)
	if err != nil {
		return models.PublicUser{}, err
	}
	return updated.ToPublic(), nil
}

func (s UserService) Delete(caller domain.Caller, id int64) error {
	if id == caller.UserID {
		return domain.ValidationError{Msg: "cannot delete your own account"}
	}
	user, err := s.UserRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user.TenantID != caller.TenantID {
		return domain.NotFoundError{Resource: "user"}
	}
	if err := s.managerMayTouch(caller, user); err != nil {
		return err
	}

	if err := s.UserRepo.Delete(caller.TenantID, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "users", "delete", "user_id="+itoa(id))
	return nil
}

// managerMayTouch restricts managers to agents on their own team. Admins
// pass through.
func (s UserService) managerMayTouch(caller domain.Caller, target models.User) error {
	if caller.Role != domain.RoleManager {
		return nil
	}
	if target.ID == caller.UserID {
		return nil
	}
	if target.Role != domain.RoleAgent {
		return domain.ForbiddenError{Msg: "managers may only manage agents"}
	}
	member, err := s.UserRepo.IsTeamMember(caller.UserID, target.ID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ForbiddenError{Msg: "user is not on your team"}
	}
	return nil
}

func publicUsers(users []models.User) []models.PublicUser {
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToPublic())
	}
	return out
}
