package repository

import (
	"context"

	"github.com/globalconnect/backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User, passwordHash string) error
	GetByID(ctx context.Context, id int) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Search(ctx context.Context, filters domain.SearchFilters, limit int) ([]domain.User, error)
	SetLocation(ctx context.Context, userID int, lat, lon float64, locationName string) error
}

type InterestRepository interface {
	ListDistinct(ctx context.Context) ([]string, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	GetConversation(ctx context.Context, userID, peerID int, limit int) ([]*domain.Message, error)
	GetRecentConversations(ctx context.Context, userID int, limit int) ([]*domain.Message, error)
	MarkRead(ctx context.Context, messageID string, userID int) error
}
