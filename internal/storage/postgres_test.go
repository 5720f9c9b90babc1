package storage

import (
	"context"
	"testing"
	"time"

	"savoria/internal/auth"
	"savoria/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func setupTestDB(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreateUser_AssignsIDAndScansCreatedAt(t *testing.T) {
	repo, mock := setupTestDB(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	user := &domain.User{
		Identity:     domain.Identity{Email: "cust@example.com", Role: domain.RoleCustomer},
		PasswordHash: "hash",
	}
	err := repo.CreateUser(context.Background(), user)

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, now, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateEmailMapsToEmailTaken(t *testing.T) {
	repo, mock := setupTestDB(t)

	// the race loser of a concurrent double signup hits the UNIQUE
	// constraint rather than the pre-insert lookup
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	user := &domain.User{
		Identity:     domain.Identity{Email: "cust@example.com", Role: domain.RoleCustomer},
		PasswordHash: "hash",
	}
	err := repo.CreateUser(context.Background(), user)

	assert.ErrorIs(t, err, auth.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	repo, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("ghost@example.com").
		WillReturnError(assert.AnError)

	user, err := repo.GetUserByEmail(context.Background(), "ghost@example.com")

	assert.Error(t, err)
	assert.Nil(t, user)
}

func TestDeleteDish_OwnerScoped(t *testing.T) {
	repo, mock := setupTestDB(t)

	mock.ExpectExec(`DELETE FROM dishes WHERE id=\$1 AND owner_id=\$2`).
		WithArgs("d1", "other-owner").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.DeleteDish(context.Background(), "d1", "other-owner")

	assert.NoError(t, err)
	assert.Zero(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_TransactionalWithItems(t *testing.T) {
	repo, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order := &domain.Order{
		Customer: domain.DeliveryForm{FullName: "Ada Lovelace", Email: "ada@example.com"},
		Items: []domain.CartLine{
			{DishID: "d1", Name: "Risotto", UnitPrice: 28.99, Quantity: 1},
			{DishID: "d2", Name: "Salmon", UnitPrice: 25.00, Quantity: 2},
		},
		Subtotal: 78.99, Tax: 7.899, Total: 86.889,
		Status: domain.StatusPending, CreatedAt: time.Now(),
	}
	err := repo.CreateOrder(context.Background(), order)

	assert.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_RollsBackOnItemFailure(t *testing.T) {
	repo, mock := setupTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	order := &domain.Order{
		Customer: domain.DeliveryForm{FullName: "Ada Lovelace"},
		Items:    []domain.CartLine{{DishID: "d1", Name: "Risotto", UnitPrice: 28.99, Quantity: 1}},
	}
	err := repo.CreateOrder(context.Background(), order)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus(t *testing.T) {
	repo, mock := setupTestDB(t)

	mock.ExpectExec(`UPDATE orders SET status`).
		WithArgs(domain.StatusConfirmed, "order123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := repo.UpdateOrderStatus(context.Background(), "order123", domain.StatusConfirmed)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)
}

func TestGetQRCode(t *testing.T) {
	repo, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT qr_code FROM orders`).
		WithArgs("order123").
		WillReturnRows(sqlmock.NewRows([]string{"qr_code"}).AddRow([]byte("png")))

	qr, err := repo.GetQRCode(context.Background(), "order123")

	assert.NoError(t, err)
	assert.Equal(t, []byte("png"), qr)
}
