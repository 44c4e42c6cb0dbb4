package services

import (
	"strings"

	"crmbackend/internal/domain"
	"crmbackend/internal/domain/models"
	"crmbackend/internal/repositories"
	"crmbackend/internal/utils"
)

type ContactService struct {
	ContactRepo repositories.ContactRepository
	RequestID   string
}

type ContactInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Tags      string `json:"tags"`
}

type ContactPatch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Tags      *string `json:"tags"`
}

func (s ContactService) List(locationID string, p domain.Pagination, filters map[string]string) ([]models.Contact, domain.ListMeta, error) {
	list, total, err := s.ContactRepo.List(locationID, p, filters)
	if err != nil {
		return nil, domain.ListMeta{}, err
	}
	return list, domain.NewListMeta(p, total), nil
}

func (s ContactService) Get(locationID string, id int64) (models.Contact, error) {
	return s.ContactRepo.GetByID(locationID, id)
}

// LookupByEmail backs the ungated widget endpoint; the result is trimmed to
// the public projection.
func (s ContactService) LookupByEmail(locationID, email string) (models.PublicContact, error) {
	c, err := s.ContactRepo.FindByEmail(locationID, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return models.PublicContact{}, err
	}
	return c.ToPublic(), nil
}

func (s ContactService) LookupByPhone(locationID, phone string) (models.PublicContact, error) {
	c, err := s.ContactRepo.FindByPhone(locationID, strings.TrimSpace(phone))
	if err != nil {
		return models.PublicContact{}, err
	}
	return c.ToPublic(), nil
}

func (s ContactService) Create(locationID string, in ContactInput) (models.Contact, error) {
	first := utils.NormalizeSpace(in.FirstName)
	if first == "" {
		return models.Contact{}, domain.ValidationError{Field: "first_name", Msg: "is required"}
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)
	if email == "" && phone == "" {
		return models.Contact{}, domain.ValidationError{Msg: "email or phone is required"}
	}

	contact := models.Contact{
		LocationID: locationID,
		FirstName:  first,
		LastName:   utils.NormalizeSpace(in.LastName),
		Email:      email,
		Phone:      phone,
		Tags:       normalizeTags(in.Tags),
	}
	id, err := s.ContactRepo.Create(contact)
	if err != nil {
		return models.Contact{}, err
	}
	utils.LogEvent(s.RequestID, "contacts", "create", "contact_id="+itoa(id))
	return s.ContactRepo.GetByID(locationID, id)
}

func (s ContactService) Update(locationID string, id int64, in ContactPatch) (models.Contact, error) {
	contact, err := s.ContactRepo.GetByID(locationID, id)
	if err != nil {
		return models.Contact{}, err
	}

	if in.FirstName != nil {
		first := utils.NormalizeSpace(*in.FirstName)
		if first == "" {
			return models.Contact{}, domain.ValidationError{Field: "first_name", Msg: "must not be empty"}
		}
		contact.FirstName = first
	}
	if in.LastName != nil {
		contact.LastName = utils.NormalizeSpace(*in.LastName)
	}
	if in.Email != nil {
		contact.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		contact.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Tags != nil {
		contact.Tags = normalizeTags(*in.Tags)
	}

	if err := s.ContactRepo.Update(contact); err != nil {
		return models.Contact{}, err
	}
	utils.LogEvent(s.RequestID, "contacts", "update", "contact_id="+itoa(id))
	return s.ContactRepo.GetByID(locationID, id)
}

func (s ContactService) Delete(locationID string, id int64) error {
	if err := s.ContactRepo.Delete(locationID, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "contacts", "delete", "contact_id="+itoa(id))
	return nil
}

func normalizeTags(raw string) string {
	return strings.Join(utils.SplitTagList(raw), ",")
}
