// Package sqldb implements the user repository over database/sql via sqlx,
// with squirrel providing dialect-correct placeholders. Expected schema:
//
//	CREATE TABLE users (
//	    id              <serial/auto-increment> PRIMARY KEY,
//	    name            TEXT NOT NULL,
//	    email           TEXT NOT NULL UNIQUE,
//	    phone           TEXT NOT NULL DEFAULT '',
//	    profile_picture TEXT NOT NULL DEFAULT '',
//	    created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// created_at scans into time.Time on every driver; for mysql this needs
// parseTime in the DSN, which the db platform enables when opening the
// pool.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	platformdb "registration-backend/internal/platform/db"

	"registration-backend/internal/features/user/models"
	"registration-backend/internal/features/user/repository"
)

const userColumns = "id, name, email, phone, profile_picture, created_at"

type sqlRepository struct {
	db     *sqlx.DB
	driver string
	sb     sq.StatementBuilderType
}

func New(db *sqlx.DB, driver string) repository.UserRepository {
	return &sqlRepository{
		db:     db,
		driver: driver,
		sb:     sq.StatementBuilder.PlaceholderFormat(platformdb.Placeholder(driver)),
	}
}

func (r *sqlRepository) Create(ctx context.Context, user *models.User) error {
	insert := r.sb.Insert("users").
		Columns("name", "email", "phone", "profile_picture").
		Values(user.Name, user.Email, user.Phone, user.ProfilePicture)

	if r.driver == "postgres" {
		query, args, err := insert.Suffix("RETURNING id, created_at").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}
		if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt); err != nil {
			if isUniqueViolation(err) {
				return repository.ErrDuplicateEmail
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	user.ID = id

	// mysql and sqlite cannot RETURNING portably; read back the
	// store-assigned timestamp.
	query, args, err = r.sb.Select("created_at").From("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build select: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&user.CreatedAt); err != nil {
		return fmt.Errorf("failed to read created_at: %w", err)
	}

	return nil
}

func (r *sqlRepository) List(ctx context.Context) ([]models.User, error) {
	// id breaks ties inside a single created_at tick so the order is
	// deterministic.
	query, args, err := r.sb.Select(userColumns).
		From("users").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *sqlRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query, args, err := r.sb.Select(userColumns).
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var user models.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *sqlRepository) Update(ctx context.Context, id int64, name, phone string) error {
	query, args, err := r.sb.Update("users").
		Set("name", name).
		Set("phone", phone).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	// Zero affected rows is still success: updating an unknown id is a
	// documented no-op.
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

func (r *sqlRepository) Delete(ctx context.Context, id int64) (*models.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query, args, err := r.sb.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, repository.ErrNotFound
	}

	return user, nil
}

// isUniqueViolation recognizes the unique-constraint error of each
// supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}
