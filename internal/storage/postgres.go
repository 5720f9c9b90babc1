package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"savoria/internal/auth"
	"savoria/internal/domain"

	"github.com/lib/pq"
	"github.com/lucsky/cuid"
)

// PostgresRepository implements the user, menu and order repositories on
// one database handle. Record ids are opaque cuid strings assigned here,
// at the persistence boundary.
type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS dishes (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
			image_url TEXT NOT NULL DEFAULT '',
			gallery_urls TEXT[],
			available BOOLEAN NOT NULL DEFAULT TRUE,
			dietary_type TEXT NOT NULL DEFAULT '',
			tags TEXT[],
			ingredients TEXT[],
			nutrition JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL DEFAULT '',
			is_guest BOOLEAN NOT NULL DEFAULT FALSE,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			address TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			subtotal DOUBLE PRECISION NOT NULL,
			tax DOUBLE PRECISION NOT NULL,
			total DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			dish_id TEXT NOT NULL,
			name TEXT NOT NULL,
			unit_price DOUBLE PRECISION NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			quantity INT NOT NULL CHECK (quantity >= 1),
			position INT NOT NULL DEFAULT 0
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// --- users ---

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	user.ID = cuid.New()
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO users (id, email, display_name, role, password_hash)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		user.ID, user.Email, user.DisplayName, user.Role, user.PasswordHash).
		Scan(&user.CreatedAt)
	// Concurrent signups can both pass the pre-insert lookup; the UNIQUE
	// constraint on email is the authority.
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		return auth.ErrEmailTaken
	}
	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, email, COALESCE(display_name, ''), role, password_hash, created_at
		 FROM users WHERE email = $1`, email).
		Scan(&user.ID, &user.Email, &user.DisplayName, &user.Role, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// --- dishes ---

const dishColumns = `id, owner_id, name, COALESCE(description, ''), price,
	COALESCE(image_url, ''), gallery_urls, available,
	COALESCE(dietary_type, ''), tags, ingredients, nutrition, created_at`

func (r *PostgresRepository) CreateDish(ctx context.Context, dish *domain.Dish) error {
	dish.ID = cuid.New()
	nutrition, err := marshalNutrition(dish.Nutrition)
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx,
		`INSERT INTO dishes (id, owner_id, name, description, price, image_url,
			gallery_urls, available, dietary_type, tags, ingredients, nutrition)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at`,
		dish.ID, dish.OwnerID, dish.Name, dish.Description, dish.Price, dish.ImageURL,
		pq.Array(dish.GalleryURLs), dish.Available, dish.DietaryType,
		pq.Array(dish.Tags), pq.Array(dish.Ingredients), nutrition).
		Scan(&dish.CreatedAt)
}

func (r *PostgresRepository) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+dishColumns+` FROM dishes WHERE id = $1`, id)
	return scanDish(row)
}

func (r *PostgresRepository) ListAvailableDishes(ctx context.Context) ([]domain.Dish, error) {
	return r.listDishes(ctx,
		`SELECT `+dishColumns+` FROM dishes WHERE available = TRUE ORDER BY created_at DESC`)
}

func (r *PostgresRepository) ListDishesByOwner(ctx context.Context, ownerID string) ([]domain.Dish, error) {
	return r.listDishes(ctx,
		`SELECT `+dishColumns+` FROM dishes WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (r *PostgresRepository) listDishes(ctx context.Context, query string, args ...interface{}) ([]domain.Dish, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dishes := []domain.Dish{}
	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			continue
		}
		dishes = append(dishes, *dish)
	}
	return dishes, rows.Err()
}

// UpdateDish is owner-scoped: a dish belonging to someone else matches
// zero rows rather than erroring.
func (r *PostgresRepository) UpdateDish(ctx context.Context, dish *domain.Dish) (int64, error) {
	nutrition, err := marshalNutrition(dish.Nutrition)
	if err != nil {
		return 0, err
	}
	result, err := r.DB.ExecContext(ctx,
		`UPDATE dishes SET name=$1, description=$2, price=$3, image_url=$4,
			gallery_urls=$5, available=$6, dietary_type=$7, tags=$8,
			ingredients=$9, nutrition=$10
		 WHERE id=$11 AND owner_id=$12`,
		dish.Name, dish.Description, dish.Price, dish.ImageURL,
		pq.Array(dish.GalleryURLs), dish.Available, dish.DietaryType,
		pq.Array(dish.Tags), pq.Array(dish.Ingredients), nutrition,
		dish.ID, dish.OwnerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) DeleteDish(ctx context.Context, id, ownerID string) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM dishes WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) UpdateDishImage(ctx context.Context, id, ownerID, imageURL string) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE dishes SET image_url=$1 WHERE id=$2 AND owner_id=$3`, imageURL, id, ownerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// --- orders ---

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	order.ID = cuid.New()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, is_guest, full_name, email, phone,
			address, notes, subtotal, tax, total, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		order.ID, order.UserID, order.IsGuest, order.Customer.FullName,
		order.Customer.Email, order.Customer.Phone, order.Customer.Address,
		order.Customer.Notes, order.Subtotal, order.Tax, order.Total,
		order.Status, order.CreatedAt)
	if err != nil {
		return err
	}

	for i, item := range order.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, dish_id, name, unit_price, image_url, quantity, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			order.ID, item.DishID, item.Name, item.UnitPrice, item.ImageURL, item.Quantity, i)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, is_guest, full_name, email, phone, address,
			COALESCE(notes, ''), subtotal, tax, total, status, created_at
		 FROM orders WHERE id = $1`, id).
		Scan(&order.ID, &order.UserID, &order.IsGuest, &order.Customer.FullName,
			&order.Customer.Email, &order.Customer.Phone, &order.Customer.Address,
			&order.Customer.Notes, &order.Subtotal, &order.Tax, &order.Total,
			&order.Status, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	items, err := r.listOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *PostgresRepository) listOrderItems(ctx context.Context, orderID string) ([]domain.CartLine, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT dish_id, name, unit_price, COALESCE(image_url, ''), quantity
		 FROM order_items WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.CartLine{}
	for rows.Next() {
		var item domain.CartLine
		if err := rows.Scan(&item.DishID, &item.Name, &item.UnitPrice, &item.ImageURL, &item.Quantity); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, is_guest, full_name, email, phone, address,
			COALESCE(notes, ''), subtotal, tax, total, status, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(&order.ID, &order.UserID, &order.IsGuest,
			&order.Customer.FullName, &order.Customer.Email, &order.Customer.Phone,
			&order.Customer.Address, &order.Customer.Notes, &order.Subtotal,
			&order.Tax, &order.Total, &order.Status, &order.CreatedAt)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.listOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, orderID string, qr []byte) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, orderID)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderID string) ([]byte, error) {
	var qr []byte
	err := r.DB.QueryRowContext(ctx,
		`SELECT qr_code FROM orders WHERE id = $1`, orderID).Scan(&qr)
	if err != nil {
		return nil, err
	}
	return qr, nil
}

// UpdateOrderStatus is the single mutation allowed on a stored order.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, orderID, status string) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2`, status, orderID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// --- scan helpers ---

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDish(row rowScanner) (*domain.Dish, error) {
	var dish domain.Dish
	var gallery, tags, ingredients pq.StringArray
	var nutrition []byte

	err := row.Scan(&dish.ID, &dish.OwnerID, &dish.Name, &dish.Description,
		&dish.Price, &dish.ImageURL, &gallery, &dish.Available,
		&dish.DietaryType, &tags, &ingredients, &nutrition, &dish.CreatedAt)
	if err != nil {
		return nil, err
	}

	dish.GalleryURLs = gallery
	dish.Tags = tags
	dish.Ingredients = ingredients
	if len(nutrition) > 0 {
		var facts domain.Nutrition
		if err := json.Unmarshal(nutrition, &facts); err == nil {
			dish.Nutrition = &facts
		}
	}
	return &dish, nil
}

// marshalNutrition keeps absent facts as SQL NULL, distinct from a block
// of zeroes.
func marshalNutrition(n *domain.Nutrition) (interface{}, error) {
	if n == nil {
		return nil, nil
	}
	return json.Marshal(n)
}
