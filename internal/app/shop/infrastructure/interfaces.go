package infrastructure

import (
	"context"
)

// MessagePublisher интерфейс для отправки событий в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// IdentityProvider интерфейс внешнего identity provider (Supabase).
// Верификация токена и проверка прав администратора - два отдельных вызова
type IdentityProvider interface {
	GetUser(ctx context.Context, accessToken string) (*ProviderUser, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// ProviderUser - пользователь, как его возвращает identity provider
type ProviderUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
