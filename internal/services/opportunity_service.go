package services

import (
	"crmbackend/internal/domain"
	"crmbackend/internal/domain/models"
	"crmbackend/internal/repositories"
	"crmbackend/internal/utils"
)

type OpportunityService struct {
	OpportunityRepo repositories.OpportunityRepository
	RequestID       string
}

type OpportunityInput struct {
	ContactID     int64  `json:"contact_id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	MonetaryValue int64  `json:"monetary_value"`
}

type OpportunityPatch struct {
	ContactID     *int64  `json:"contact_id"`
	Name          *string `json:"name"`
	Status        *string `json:"status"`
	MonetaryValue *int64  `json:"monetary_value"`
}

// List routes a status filter to the status-scoped lookup; the generic list
// path only runs when no status is requested.
func (s OpportunityService) List(locationID, statusFilter string, p domain.Pagination) ([]models.Opportunity, domain.ListMeta, error) {
	if statusFilter != "" {
		status, err := models.ParseOpportunityStatus(statusFilter)
		if err != nil {
			return nil, domain.ListMeta{}, err
		}
		list, total, err := s.OpportunityRepo.ListByStatus(locationID, status, p)
		if err != nil {
			return nil, domain.ListMeta{}, err
		}
		return list, domain.NewListMeta(p, total), nil
	}

	list, total, err := s.OpportunityRepo.List(locationID, p)
	if err != nil {
		return nil, domain.ListMeta{}, err
	}
	return list, domain.NewListMeta(p, total), nil
}

func (s OpportunityService) Get(locationID string, id int64) (models.Opportunity, error) {
	return s.OpportunityRepo.GetByID(locationID, id)
}

func (s OpportunityService) Summary(locationID string) (models.OpportunitySummary, error) {
	return s.OpportunityRepo.Summary(locationID)
}

func (s OpportunityService) Create(locationID string, in OpportunityInput) (models.Opportunity, error) {
	name := utils.NormalizeSpace(in.Name)
	if name == "" {
		return models.Opportunity{}, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	if in.ContactID <= 0 {
		return models.Opportunity{}, domain.ValidationError{Field: "contact_id", Msg: "is required"}
	}
	status := models.OpportunityOpen
	if in.Status != "" {
		parsed, err := models.ParseOpportunityStatus(in.Status)
		if err != nil {
			return models.Opportunity{}, err
		}
		status = parsed
	}
	if in.MonetaryValue < 0 {
		return models.Opportunity{}, domain.ValidationError{Field: "monetary_value", Msg: "must not be negative"}
	}

	opp := models.Opportunity{
		LocationID:    locationID,
		ContactID:     in.ContactID,
		Name:          name,
		Status:        status,
		MonetaryValue: in.MonetaryValue,
	}
	id, err := s.OpportunityRepo.Create(opp)
	if err != nil {
		return models.Opportunity{}, err
	}
	utils.LogEvent(s.RequestID, "opportunities", "create", "opportunity_id="+itoa(id))
	return s.OpportunityRepo.GetByID(locationID, id)
}

func (s OpportunityService) Update(locationID string, id int64, in OpportunityPatch) (models.Opportunity, error) {
	opp, err := s.OpportunityRepo.GetByID(locationID, id)
	if err != nil {
		return models.Opportunity{}, err
	}

	if in.ContactID != nil {
		if *in.ContactID <= 0 {
			return models.Opportunity{}, domain.ValidationError{Field: "contact_id", Msg: "must be positive"}
		}
		opp.ContactID = *in.ContactID
	}
	if in.Name != nil {
		name := utils.NormalizeSpace(*in.Name)
		if name == "" {
			return models.Opportunity{}, domain.ValidationError{Field: "name", Msg: "must not be empty"}
		}
		opp.Name = name
	}
	if in.Status != nil {
		status, err := models.ParseOpportunityStatus(*in.Status)
		if err != nil {
			return models.Opportunity{}, err
		}
		opp.Status = status
	}
	if in.MonetaryValue != nil {
		if *in.MonetaryValue < 0 {
			return models.Opportunity{}, domain.ValidationError{Field: "monetary_value", Msg: "must not be negative"}
		}
		opp.MonetaryValue = *in.MonetaryValue
	}

	if err := s.OpportunityRepo.Update(opp); err != nil {
		return models.Opportunity{}, err
	}
	utils.LogEvent(s.RequestID, "opportunities", "update", "opportunity_id="+itoa(id))
	return s.OpportunityRepo.GetByID(locationID, id)
}

func (s OpportunityService) Delete(locationID string, id int64) error {
	if err := s.OpportunityRepo.Delete(locationID, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "opportunities", "delete", "opportunity_id="+itoa(id))
	return nil
}
