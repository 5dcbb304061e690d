// Package user содержит логику бизнес-уровня для регистрации, входа,
// одобрения пользователей и передачи прав администратора.
package user

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nasifhossain/DAO-Hall/internal/lib/jwt"
	"github.com/nasifhossain/DAO-Hall/internal/lib/password"
	"github.com/nasifhossain/DAO-Hall/internal/lib/rabbitmq"
	"github.com/nasifhossain/DAO-Hall/internal/lib/sl"
	"github.com/nasifhossain/DAO-Hall/internal/models"
	"github.com/nasifhossain/DAO-Hall/internal/storage"
)

// Доменные ошибки сервиса. Обработчики транслируют их в HTTP-статусы;
// любая другая ошибка отдаётся наружу как 500 без деталей.
var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotApproved        = errors.New("not approved by admin yet")
	ErrNotFound           = errors.New("user not found")
	ErrOldAdminNotFound   = errors.New("old admin not found")
	ErrWalletInUse        = errors.New("wallet already in use")
	ErrNoWallet           = errors.New("wallet address not set")
	ErrWalletMismatch     = errors.New("wallet address does not match")
)

// approvedListKey ключ кэша списка одобренных пользователей.
const approvedListKey = "users:approved"

// approvedListTTL время жизни кэшированного списка.
const approvedListTTL = 5 * time.Minute

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByWallet(ctx context.Context, wallet string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ApproveUser(ctx context.Context, id string) (*models.User, error)
	UpdateWallet(ctx context.Context, email, wallet string) (*models.User, error)
	ListUsersByApproval(ctx context.Context, approved bool) ([]*models.User, error)
	TransferAdmin(ctx context.Context, oldWallet, newEmail, newWallet string) (*models.User, error)
}

// Cache описывает кэш списков пользователей.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// AuditPublisher публикует события аудита.
type AuditPublisher interface {
	Publish(routingKey string, event rabbitmq.AuditEvent) error
}

// Service отвечает за регистрацию, авторизацию и административные операции
// над пользователями. Вся работа с блокчейном остаётся на фронтенде;
// сервис лишь ведёт учёт.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	cache    Cache
	audit    AuditPublisher
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker, cache Cache, audit AuditPublisher, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		cache:    cache,
		audit:    audit,
		log:      log,
	}
}

// publishAudit отправляет событие аудита. Сбой публикации не прерывает
// операцию — событие лишь логируется.
func (s *Service) publishAudit(routingKey, actor, subject string) {
	if s.audit == nil {
		return
	}
	event := rabbitmq.AuditEvent{
		Action:     routingKey,
		Actor:      actor,
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.audit.Publish(routingKey, event); err != nil {
		s.log.Warn("failed to publish audit event", slog.String("action", routingKey), sl.Err(err))
	}
}

// invalidateApprovedList сбрасывает кэш списка одобренных пользователей.
func (s *Service) invalidateApprovedList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, approvedListKey); err != nil {
		s.log.Warn("failed to invalidate approved users cache", sl.Err(err))
	}
}

// Register создает нового пользователя с хэшированием пароля.
//
// Новая запись не одобрена и не имеет прав администратора. Предварительная
// проверка email — быстрый путь для дружелюбной ошибки; гарантию уникальности
// даёт индекс базы, нарушение которого также отображается в ErrUserExists.
func (s *Service) Register(ctx context.Context, name, email, rawPassword string) (*models.User, error) {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, err
	}

	created, err := s.users.CreateUser(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.publishAudit(rabbitmq.KeyUserRegistered, email, created.ID)
	return created, nil
}

// Login проверяет пароль пользователя и выдаёт JWT.
//
// Неизвестный email и неверный пароль дают одну и ту же ошибку, чтобы
// по ответу нельзя было определить существование учётной записи.
// Неодобренный пользователь отклоняется до проверки пароля.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !u.IsApproved {
		return "", nil, ErrNotApproved
	}
	if err := password.CompareHash(u.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(u.ID, u.IsAdmin)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// LoginByWallet выдаёт JWT по адресу кошелька без проверки пароля:
// подключённый кошелёк считается достаточным подтверждением личности.
func (s *Service) LoginByWallet(ctx context.Context, wallet string) (string, *models.User, error) {
	u, err := s.users.GetUserByWallet(ctx, wallet)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", nil, ErrNotFound
		}
		return "", nil, err
	}
	if !u.IsApproved {
		return "", nil, ErrNotApproved
	}

	token, err := s.jwtMaker.GenerateToken(u.ID, u.IsAdmin)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Approve одобряет пользователя по идентификатору.
func (s *Service) Approve(ctx context.Context, actorID, targetID string) (*models.User, error) {
	u, err := s.users.ApproveUser(ctx, targetID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.invalidateApprovedList(ctx)
	s.publishAudit(rabbitmq.KeyUserApproved, actorID, u.ID)
	return u, nil
}

// ListPending возвращает пользователей, ожидающих одобрения.
func (s *Service) ListPending(ctx context.Context) ([]*models.User, error) {
	return s.users.ListUsersByApproval(ctx, false)
}

// ListApproved возвращает одобренных пользователей, кэшируя результат.
func (s *Service) ListApproved(ctx context.Context) ([]*models.User, error) {
	if s.cache != nil {
		var cached []*models.User
		found, err := s.cache.Get(ctx, approvedListKey, &cached)
		if err != nil {
			s.log.Warn("failed to read approved users cache", sl.Err(err))
		} else if found {
			return cached, nil
		}
	}

	users, err := s.users.ListUsersByApproval(ctx, true)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, approvedListKey, users, approvedListTTL); err != nil {
			s.log.Warn("failed to write approved users cache", sl.Err(err))
		}
	}
	return users, nil
}

// Profile возвращает пользователя по email.
func (s *Service) Profile(ctx context.Context, email string) (*models.User, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// BindWallet привязывает адрес кошелька к пользователю с данным email.
//
// Адрес, уже привязанный к другой учётной записи, отклоняется; повторная
// привязка того же адреса тем же пользователем допустима. Как и при
// регистрации, фактическую гарантию даёт частичный уникальный индекс.
func (s *Service) BindWallet(ctx context.Context, email, wallet string) (*models.User, error) {
	existing, err := s.users.GetUserByWallet(ctx, wallet)
	if err == nil && existing.Email != email {
		return nil, ErrWalletInUse
	}
	if err != nil && !errors.Is(err, storage.ErrUserNotFound) {
		return nil, err
	}

	u, err := s.users.UpdateWallet(ctx, email, wallet)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			return nil, ErrNotFound
		case errors.Is(err, storage.ErrWalletTaken):
			return nil, ErrWalletInUse
		}
		return nil, err
	}

	s.invalidateApprovedList(ctx)
	return u, nil
}

// CheckTransfer проверяет, готов ли кандидат принять права администратора.
// Ничего не изменяет; возвращает email и кошелёк кандидата для подтверждения
// на фронтенде перед вызовом transferOwnership в контракте.
func (s *Service) CheckTransfer(ctx context.Context, candidateEmail string) (*models.User, error) {
	u, err := s.users.GetUserByEmail(ctx, candidateEmail)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if u.WalletAddress == nil {
		return nil, ErrNoWallet
	}
	return u, nil
}

// Transfer фиксирует уже выполненную на контракте передачу владения:
// кандидат получает флаг администратора, вызывающий теряет. Обе записи
// меняются в одной транзакции хранилища, так что число администраторов
// остаётся прежним.
//
// Вызывающий определяется по subject токена; его запись должна иметь
// привязанный кошелёк — по нему снимается флаг.
func (s *Service) Transfer(ctx context.Context, actorID, newEmail, newWallet, by string) (*models.User, error) {
	actor, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrOldAdminNotFound
		}
		return nil, err
	}
	if actor.WalletAddress == nil {
		return nil, ErrOldAdminNotFound
	}

	newAdmin, err := s.users.TransferAdmin(ctx, *actor.WalletAddress, newEmail, newWallet)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			return nil, ErrNotFound
		case errors.Is(err, storage.ErrAdminNotFound):
			return nil, ErrOldAdminNotFound
		case errors.Is(err, storage.ErrWalletMismatch):
			return nil, ErrWalletMismatch
		}
		return nil, err
	}

	s.invalidateApprovedList(ctx)
	s.publishAudit(rabbitmq.KeyAdminTransferred, by, newAdmin.ID)
	return newAdmin, nil
}
