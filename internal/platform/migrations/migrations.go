package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          string         `gorm:"primaryKey;column:id;type:uuid"`
	Name        string         `gorm:"column:name"`
	Description string         `gorm:"column:description;type:text"`
	Price       float64        `gorm:"column:price"`
	Stock       int            `gorm:"column:stock"`
	Category    string         `gorm:"column:category;index"`
	Pictures    pq.StringArray `gorm:"column:pictures;type:text[]"`
	OwnerID     string         `gorm:"column:owner_id;type:uuid;index"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID         string    `gorm:"primaryKey;column:id;type:uuid"`
	UserID     string    `gorm:"column:user_id;type:uuid;index"`
	Status     string    `gorm:"column:status;type:varchar(32);index"`
	TotalPrice float64   `gorm:"column:total_price"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID          string  `gorm:"primaryKey;column:id;type:uuid"`
	OrderID     string  `gorm:"column:order_id;type:uuid;index"`
	ProductID   string  `gorm:"column:product_id;type:uuid;index"`
	ProductName string  `gorm:"column:product_name"`
	UnitPrice   float64 `gorm:"column:unit_price"`
	Quantity    int     `gorm:"column:quantity"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:uuid"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Phone        string    `gorm:"column:phone"`
	Role         string    `gorm:"column:role;type:varchar(32);index"`
	BusinessName string    `gorm:"column:business_name"`
	Bio          string    `gorm:"column:bio;type:text"`
	Location     string    `gorm:"column:location"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	UserID    string     `gorm:"column:user_id;type:uuid;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
