package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"workoutshop/internal/app/shop/infrastructure"
)

// SupabaseClient - клиент внешнего identity provider.
// Используется в режиме AUTH_MODE=supabase: токен пользователя проверяется
// запросом к provider, права администратора - вторым запросом за метаданными
type SupabaseClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewSupabaseClient создает новый клиент Supabase Auth API
func NewSupabaseClient(baseURL, serviceKey string) *SupabaseClient {
	return &SupabaseClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetUser проверяет access токен и возвращает пользователя.
// Любая ошибка транспорта или провайдера наружу неразличима
// от невалидного токена
func (c *SupabaseClient) GetUser(ctx context.Context, accessToken string) (*infrastructure.ProviderUser, error) {
	url := fmt.Sprintf("%s/auth/v1/user", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var user infrastructure.ProviderUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if user.ID == "" {
		return nil, fmt.Errorf("provider returned empty user")
	}

	return &user, nil
}

// IsAdmin запрашивает метаданные пользователя от имени сервиса
// и читает признак администратора из user_metadata
func (c *SupabaseClient) IsAdmin(ctx context.Context, userID string) (bool, error) {
	url := fmt.Sprintf("%s/auth/v1/admin/users/%s", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body struct {
		UserMetadata struct {
			IsAdmin bool `json:"isAdmin"`
		} `json:"user_metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}

	return body.UserMetadata.IsAdmin, nil
}
