package services

import (
	"crmbackend/internal/domain"
	"crmbackend/internal/domain/models"
	"crmbackend/internal/repositories"
	"crmbackend/internal/utils"
)

type ConversationService struct {
	ConversationRepo repositories.ConversationRepository
	RequestID        string
}

func (s ConversationService) List(locationID string, p domain.Pagination, filters map[string]string) ([]models.Conversation, domain.ListMeta, error) {
	list, total, err := s.ConversationRepo.List(locationID, p, filters)
	if err != nil {
		return nil, domain.ListMeta{}, err
	}
	return list, domain.NewListMeta(p, total), nil
}

func (s ConversationService) Get(locationID string, id int64) (models.Conversation, error) {
	return s.ConversationRepo.GetByID(locationID, id)
}

func (s ConversationService) MarkRead(locationID string, id int64) (models.Conversation, error) {
	if err := s.ConversationRepo.MarkRead(locationID, id); err != nil {
		return models.Conversation{}, err
	}
	utils.LogEvent(s.RequestID, "conversations", "mark_read", "conversation_id="+itoa(id))
	return s.ConversationRepo.GetByID(locationID, id)
}
