package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/store"
)

func storeTestUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("analyst@example.com", "a-long-enough-password")
	require.NoError(t, err)
	return user
}

func TestUserStoreCreate(t *testing.T) {
	t.Run("hashes the password before inserting", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		user := storeTestUser(t)
		plaintext := user.Password

		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, sqlmock.AnyArg(), user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		s := NewPostgresUserStore(db, bcrypt.MinCost)
		require.NoError(t, s.Create(context.Background(), user))

		assert.Empty(t, user.Password)
		assert.NotEmpty(t, user.HashedPassword)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(user.HashedPassword), []byte(plaintext)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email returns ErrEmailExists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(pgError(uniqueViolationCode, "users_email_key", ""))

		s := NewPostgresUserStore(db, bcrypt.MinCost)
		err = s.Create(context.Background(), storeTestUser(t))
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid user is rejected before insert", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		user := storeTestUser(t)
		user.Email = ""

		s := NewPostgresUserStore(db, bcrypt.MinCost)
		assert.ErrorIs(t, s.Create(context.Background(), user), domain.ErrEmptyEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserStoreGet(t *testing.T) {
	columns := []string{"id", "email", "hashed_password", "created_at", "updated_at"}

	t.Run("GetByEmail returns the stored user", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		user := storeTestUser(t)
		user.HashedPassword = "stored-hash"

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(user.Email).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				user.ID, user.Email, user.HashedPassword, user.CreatedAt, user.UpdatedAt))

		s := NewPostgresUserStore(db, bcrypt.MinCost)
		got, err := s.GetByEmail(context.Background(), user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "stored-hash", got.HashedPassword)
	})

	t.Run("GetByID for missing user returns ErrUserNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT (.+) FROM users").
			WillReturnRows(sqlmock.NewRows(columns))

		s := NewPostgresUserStore(db, bcrypt.MinCost)
		_, err = s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStoreDelete(t *testing.T) {
	t.Run("zero rows affected returns ErrUserNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec("DELETE FROM users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		s := NewPostgresUserStore(db, bcrypt.MinCost)
		err = s.Delete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
