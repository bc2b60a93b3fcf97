package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
	"github.com/Fedi-Riahi/mar/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Stock movements run
// inside transactions with row-level product locks, so two placements racing
// for the last unit serialize and only one succeeds.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderItemRecord{})
	}
	return repo
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID         string            `gorm:"primaryKey;column:id;type:uuid"`
	UserID     string            `gorm:"column:user_id;type:uuid;index"`
	Status     string            `gorm:"column:status;type:varchar(32);index"`
	TotalPrice float64           `gorm:"column:total_price"`
	Items      []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `gorm:"column:created_at;index"`
	UpdatedAt  time.Time         `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// orderItemRecord maps one priced order line.
type orderItemRecord struct {
	ID          string  `gorm:"primaryKey;column:id;type:uuid"`
	OrderID     string  `gorm:"column:order_id;type:uuid;index"`
	ProductID   string  `gorm:"column:product_id;type:uuid;index"`
	ProductName string  `gorm:"column:product_name"`
	UnitPrice   float64 `gorm:"column:unit_price"`
	Quantity    int     `gorm:"column:quantity"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// productRow is the slice of the products table this adapter locks and
// updates. The catalog adapter owns the full schema.
type productRow struct {
	ID    string  `gorm:"primaryKey;column:id"`
	Name  string  `gorm:"column:name"`
	Price float64 `gorm:"column:price"`
	Stock int     `gorm:"column:stock"`
}

func (productRow) TableName() string { return "products" }

// Place reserves stock and persists the pending order in one transaction.
// Each product row is locked with SELECT ... FOR UPDATE before the stock
// check, which serializes concurrent placements per product.
func (r *Repository) Place(ctx context.Context, userID string, cart []domain.CartItem) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var created *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := make([]domain.OrderItem, 0, len(cart))
		for _, line := range cart {
			var product productRow
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ProductNotFoundError{ProductID: line.ProductID}
				}
				return err
			}
			if product.Stock < line.Quantity {
				return domain.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   product.Stock,
				}
			}
			if err := tx.Model(&productRow{}).Where("id = ?", product.ID).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity)).Error; err != nil {
				return err
			}
			items = append(items, domain.OrderItem{
				ID:          uuid.NewString(),
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    line.Quantity,
			})
		}
		order, err := domain.NewOrder(userID, items)
		if err != nil {
			return err
		}
		record := toRecord(order)
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		created = record.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID fetches an order with its lines.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Preload("Items").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByUser returns one user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.list(ctx, "user_id = ?", userID)
}

// List returns all orders, newest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, "")
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	scope := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if query != "" {
		scope = scope.Where(query, args...)
	}
	if err := scope.Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// UpdateStatus applies the transition policy and persists the new status.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var updated *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		order := record.toDomain()
		if err := order.UpdateStatus(status); err != nil {
			return err
		}
		if err := tx.Model(&orderRecord{}).Where("id = ?", id).
			Updates(map[string]any{"status": string(order.Status), "updated_at": gorm.Expr("NOW()")}).Error; err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRestocking returns every line quantity to its product and removes the
// order. Only pending orders qualify.
func (r *Repository) DeleteRestocking(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		order := record.toDomain()
		if err := order.Deletable(); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := tx.Model(&productRow{}).Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("order_id = ?", id).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&orderRecord{}, "id = ?", id).Error
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	items := make([]orderItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemRecord{
			ID:          item.ID,
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return orderRecord{
		ID:         order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		TotalPrice: order.TotalPrice,
		Items:      items,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.OrderItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return &domain.Order{
		ID:         r.ID,
		UserID:     r.UserID,
		Status:     domain.Status(r.Status),
		TotalPrice: r.TotalPrice,
		Items:      items,
		CreatedAt:  r.CreatedAt,
	}
}
