package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nasifhossain/DAO-Hall/internal/models"
)

const (
	emailConstraint  = "users_email_key"
	walletConstraint = "users_wallet_address_key"
)

// uniqueViolation возвращает ошибку хранилища, если err — нарушение
// уникального индекса, иначе nil.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case emailConstraint:
		return ErrEmailTaken
	case walletConstraint:
		return ErrWalletTaken
	}
	return nil
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var wallet sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&wallet, &u.IsApproved, &u.IsAdmin, &u.CreatedAt); err != nil {
		return nil, err
	}
	if wallet.Valid {
		u.WalletAddress = &wallet.String
	}
	return u, nil
}

const userColumns = `id, name, email, password_hash, wallet_address, is_approved, is_admin, created_at`

// CreateUser сохраняет нового пользователя и возвращает запись с присвоенным id.
//
// Флаги approval/admin выставляет база (false по умолчанию). Нарушение
// уникальности email транслируется в ErrEmailTaken — это страховка от гонки
// двух одновременных регистраций, прошедших проверку существования.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	query := `INSERT INTO users (name, email, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING ` + userColumns
	created, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash))
	if err != nil {
		if uerr := uniqueViolation(err); uerr != nil {
			return nil, fmt.Errorf("%s: %w", op, uerr)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetUserByEmail возвращает пользователя по email или ErrUserNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByWallet возвращает пользователя по адресу кошелька или ErrUserNotFound.
func (s *Storage) GetUserByWallet(ctx context.Context, wallet string) (*models.User, error) {
	const op = "storage.GetUserByWallet"
	query := `SELECT ` + userColumns + ` FROM users WHERE wallet_address = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, wallet))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по идентификатору или ErrUserNotFound.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ApproveUser выставляет флаг одобрения и возвращает обновлённую запись.
func (s *Storage) ApproveUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.ApproveUser"
	query := `UPDATE users SET is_approved = TRUE WHERE id = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateWallet привязывает адрес кошелька к пользователю с данным email.
//
// Частичный уникальный индекс по wallet_address отклоняет адрес, уже
// привязанный к другой записи (ErrWalletTaken).
func (s *Storage) UpdateWallet(ctx context.Context, email, wallet string) (*models.User, error) {
	const op = "storage.UpdateWallet"
	query := `UPDATE users SET wallet_address = $1 WHERE email = $2
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, wallet, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		if uerr := uniqueViolation(err); uerr != nil {
			return nil, fmt.Errorf("%s: %w", op, uerr)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsersByApproval возвращает пользователей с заданным значением флага одобрения.
func (s *Storage) ListUsersByApproval(ctx context.Context, approved bool) ([]*models.User, error) {
	const op = "storage.ListUsersByApproval"
	query := `SELECT ` + userColumns + ` FROM users
			  WHERE is_approved = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, approved)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// TransferAdmin передаёт флаг администратора в одной транзакции:
// кандидат с email newEmail получает is_admin = true, текущий администратор
// (запись с кошельком oldWallet) теряет флаг. Обе записи меняются атомарно,
// поэтому количество администраторов в системе не изменяется.
//
// Возвращает ErrUserNotFound, если кандидата нет, ErrWalletMismatch, если
// привязанный к кандидату кошелёк не совпадает с newWallet, и
// ErrAdminNotFound, если запись текущего администратора не найдена.
func (s *Storage) TransferAdmin(ctx context.Context, oldWallet, newEmail, newWallet string) (*models.User, error) {
	const op = "storage.TransferAdmin"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var storedWallet sql.NullString
	var newAdminID string
	err = tx.QueryRowContext(ctx,
		`SELECT id, wallet_address FROM users WHERE email = $1 FOR UPDATE`,
		newEmail).Scan(&newAdminID, &storedWallet)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !storedWallet.Valid || storedWallet.String != newWallet {
		return nil, fmt.Errorf("%s: %w", op, ErrWalletMismatch)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET is_admin = FALSE WHERE wallet_address = $1 AND is_admin`,
		oldWallet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrAdminNotFound)
	}

	newAdmin, err := scanUser(tx.QueryRowContext(ctx,
		`UPDATE users SET is_admin = TRUE WHERE id = $1 RETURNING `+userColumns,
		newAdminID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return newAdmin, nil
}
