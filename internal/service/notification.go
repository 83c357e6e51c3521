package service

import (
	"context"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) List(ctx context.Context, accountID int64, page, pageSize int32) ([]domain.Notification, int32, error) {
	return s.noteRepo.List(ctx, accountID, page, pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id string, accountID int64) error {
	return s.noteRepo.MarkAsRead(ctx, id, accountID)
}
