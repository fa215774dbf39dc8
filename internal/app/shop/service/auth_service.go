package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"workoutshop/internal/app/shop/entity"
	"workoutshop/internal/app/shop/infrastructure"
	"workoutshop/internal/app/shop/repository"
	"workoutshop/internal/app/shop/util"
	"workoutshop/pkg/metrics"

	"github.com/google/uuid"
)

// maxAuditAttempts ограничивает объем выдачи журнала аудита
const maxAuditAttempts = 50

// AuthService обрабатывает бизнес-логику аутентификации.
// Вход разрешен только администраторам, все отказы неразличимы снаружи:
// этап отказа пишется только в журнал аудита
type AuthService struct {
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditRepository
	jwtManager   *util.JWTManager
	provider     infrastructure.IdentityProvider // nil при локальной проверке токенов
	adminEmails  []string
}

// NewAuthService создает новый сервис аутентификации.
// provider передается только в режиме внешнего провайдера токенов
func NewAuthService(
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditRepository,
	jwtManager *util.JWTManager,
	provider infrastructure.IdentityProvider,
	adminEmails []string,
) *AuthService {
	return &AuthService{
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
		jwtManager:   jwtManager,
		provider:     provider,
		adminEmails:  adminEmails,
	}
}

// Login выполняет вход по email и паролю.
// Несуществующий email, неверный пароль и отсутствие прав администратора
// дают один и тот же ответ, чтобы не раскрывать существование учетной записи
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest, remoteAddr string) (*entity.AuthResponse, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			s.recordAttempt(ctx, req.Email, "password", entity.AuditStageCredentialLookup, false, remoteAddr)
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	// Пустой хэш у учетных записей, созданных через Google:
	// вход по паролю для них невозможен
	if customer.PasswordHash == "" || !util.CheckPassword(req.Password, customer.PasswordHash) {
		s.recordAttempt(ctx, req.Email, "password", entity.AuditStagePasswordCheck, false, remoteAddr)
		metrics.AuthLogins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	if !customer.IsAdmin {
		s.recordAttempt(ctx, req.Email, "password", entity.AuditStageAdminCheck, false, remoteAddr)
		metrics.AuthLogins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(customer.ID, customer.Email, customer.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.recordAttempt(ctx, req.Email, "password", entity.AuditStageSuccess, true, remoteAddr)
	metrics.AuthLogins.WithLabelValues("success").Inc()
	metrics.AuthTokensIssued.WithLabelValues("password").Inc()

	return &entity.AuthResponse{
		AccessToken: token,
		User:        *customer,
	}, nil
}

// GoogleLogin выполняет вход через Google-профиль.
// Учетная запись создается или обновляется при каждом входе, и только
// потом проверяются права: не-администратор получает тот же отказ,
// что и при любой другой причине
func (s *AuthService) GoogleLogin(ctx context.Context, req *entity.GoogleAuthRequest, remoteAddr string) (*entity.AuthResponse, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrCustomerNotFound) {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if customer == nil {
		// Признак администратора у новой учетной записи берется
		// из списка разрешенных email
		customer = &entity.Customer{
			ID:        uuid.New(),
			Name:      req.Name,
			Email:     strings.ToLower(req.Email),
			Image:     req.Image,
			GoogleID:  req.GoogleID,
			IsAdmin:   s.isAdminEmail(req.Email),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.customerRepo.Create(ctx, customer); err != nil {
			return nil, fmt.Errorf("failed to create customer: %w", err)
		}
	} else {
		// Имя и аватар не перетираются повторными входами,
		// идентификатор Google всегда обновляется до последнего
		if customer.Name == "" {
			customer.Name = req.Name
		}
		if customer.Image == "" {
			customer.Image = req.Image
		}
		customer.GoogleID = req.GoogleID

		if err := s.customerRepo.Update(ctx, customer); err != nil {
			return nil, fmt.Errorf("failed to update customer: %w", err)
		}
	}

	// Проверка прав идет по сохраненному признаку, а не по списку:
	// список влияет только на создание новой учетной записи
	if !customer.IsAdmin {
		s.recordAttempt(ctx, req.Email, "google", entity.AuditStageAdminCheck, false, remoteAddr)
		metrics.AuthLogins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(customer.ID, customer.Email, customer.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.recordAttempt(ctx, req.Email, "google", entity.AuditStageSuccess, true, remoteAddr)
	metrics.AuthLogins.WithLabelValues("success").Inc()
	metrics.AuthTokensIssued.WithLabelValues("google").Inc()

	return &entity.AuthResponse{
		AccessToken: token,
		User:        *customer,
	}, nil
}

// ValidateToken проверяет access token и возвращает его содержимое.
// При настроенном внешнем провайдере проверка делегируется ему,
// любая его ошибка дает недействительный токен
func (s *AuthService) ValidateToken(ctx context.Context, accessToken string) (*entity.TokenVerifyResponse, error) {
	if s.provider != nil {
		return s.validateExternalToken(ctx, accessToken)
	}

	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &entity.TokenVerifyResponse{
		Valid:   true,
		UserID:  claims.UserID,
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
	}, nil
}

// GetProfile возвращает профиль покупателя по ID из токена
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// ListLoginAttempts возвращает последние попытки входа по email
// из журнала аудита
func (s *AuthService) ListLoginAttempts(ctx context.Context, email string) ([]entity.LoginAttempt, error) {
	attempts, err := s.auditRepo.ListByEmail(ctx, strings.ToLower(email), maxAuditAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to list login attempts: %w", err)
	}

	return attempts, nil
}

func (s *AuthService) validateExternalToken(ctx context.Context, accessToken string) (*entity.TokenVerifyResponse, error) {
	user, err := s.provider.GetUser(ctx, accessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	isAdmin, err := s.provider.IsAdmin(ctx, user.ID)
	if err != nil {
		// Провайдер недоступен - токен считается недействительным
		return nil, ErrInvalidToken
	}

	// Локальная учетная запись связывается по email
	customer, err := s.customerRepo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &entity.TokenVerifyResponse{
		Valid:   true,
		UserID:  customer.ID,
		Email:   user.Email,
		IsAdmin: isAdmin,
	}, nil
}

func (s *AuthService) isAdminEmail(email string) bool {
	for _, allowed := range s.adminEmails {
		if strings.EqualFold(allowed, email) {
			return true
		}
	}
	return false
}

// recordAttempt пишет попытку входа в журнал аудита.
// Ошибки аудита не прерывают вход
func (s *AuthService) recordAttempt(ctx context.Context, email, flow, stage string, success bool, remoteAddr string) {
	attempt := &entity.LoginAttempt{
		Email:      strings.ToLower(email),
		Flow:       flow,
		Stage:      stage,
		Success:    success,
		RemoteAddr: remoteAddr,
	}

	if err := s.auditRepo.RecordLoginAttempt(ctx, attempt); err != nil {
		fmt.Printf("failed to record login attempt: %v\n", err)
	}
}
