package service

import (
	"context"
	"winnerstore/internal/client"
	"winnerstore/internal/dto"
	"winnerstore/internal/model"
	"winnerstore/internal/repository"
)

type ContactService interface {
	Submit(ctx context.Context, req *dto.ContactRequest) (*model.ContactMessage, error)
	List(ctx context.Context) ([]*model.ContactMessage, error)
	MarkRead(ctx context.Context, id uint) error
}

type contactServiceImpl struct {
	contactRepo  repository.ContactRepository
	notifyClient client.NotifyClient
}

func NewContactService(
	contactRepo repository.ContactRepository,
	notifyClient client.NotifyClient,
) ContactService {
	return &contactServiceImpl{
		contactRepo:  contactRepo,
		notifyClient: notifyClient,
	}
}

func (s *contactServiceImpl) Submit(ctx context.Context, req *dto.ContactRequest) (*model.ContactMessage, error) {
	message := &model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}

	if err := s.contactRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	// Fire-and-forget side channel.
	s.notifyClient.NotifyContactMessage(message)

	return message, nil
}

func (s *contactServiceImpl) List(ctx context.Context) ([]*model.ContactMessage, error) {
	return s.contactRepo.List(ctx)
}

func (s *contactServiceImpl) MarkRead(ctx context.Context, id uint) error {
	return s.contactRepo.MarkRead(ctx, id)
}
