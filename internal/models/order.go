package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the status of a preseason order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusSubmitted OrderStatus = "submitted"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// OrderType distinguishes preseason buys from fill-in reorders
type OrderType string

const (
	OrderTypePreseason OrderType = "preseason"
	OrderTypeFillIn    OrderType = "fill-in"
)

// Order is one brand's order for one location and ship month within a season.
// Order numbers follow the buyer convention MONYY-BRAND-LOC ("JUL25-PRA-SLC"),
// with a numeric suffix when the combination repeats.
type Order struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber  string         `json:"orderNumber" gorm:"not null;index"`
	SeasonID     uuid.UUID      `json:"seasonId" gorm:"type:uuid;not null;index"`
	BrandID      uuid.UUID      `json:"brandId" gorm:"type:uuid;not null;index"`
	LocationID   uuid.UUID      `json:"locationId" gorm:"type:uuid;not null;index"`
	ShipDate     time.Time      `json:"shipDate"`
	OrderType    OrderType      `json:"orderType" gorm:"default:'preseason'"`
	Status       OrderStatus    `json:"status" gorm:"default:'draft'"`
	CurrentTotal float64        `json:"currentTotal"`
	Items        []OrderItem    `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedBy    string         `json:"createdBy"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// OrderItem is one product line on an order
type OrderItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID `json:"orderId" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	UnitCost  float64   `json:"unitCost"`
	LineTotal float64   `json:"lineTotal"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ColorSwap is a from/to color substitution applied when copying an order
type ColorSwap struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// VariantMapping translates source variants to target variants per family and
// size: baseName -> size -> swap. The same swap applies to every size of a
// family.
type VariantMapping map[string]map[string]ColorSwap

// CopyOrderRequest drives the order-copy operation. ColorChoices maps family
// base names to the color substitution the buyer picked. Families absent from
// the map are carried over unchanged; families listed in SkipFamilies are left
// out of the copy entirely.
type CopyOrderRequest struct {
	TargetLocationID uuid.UUID            `json:"targetLocationId" binding:"required"`
	ColorChoices     map[string]ColorSwap `json:"colorChoices"`
	SkipFamilies     []string             `json:"skipFamilies"`
}

// CopyOrderResult reports what the copy produced. Skipped counts items whose
// remapped variant did not exist in the target catalog.
type CopyOrderResult struct {
	Order        *Order `json:"order"`
	ItemsCopied  int    `json:"itemsCopied"`
	ItemsSkipped int    `json:"itemsSkipped"`
}
