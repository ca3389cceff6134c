package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values assignable to a user.
const (
	RoleAdmin   = "admin"
	RoleChef    = "chef"
	RoleManager = "manager"
)

// User represents an authenticated user in the system.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;not null;default:'chef'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Servings []Serving `json:"servings,omitempty"`
}

// Ingredient represents a stock-tracked raw material. Quantity is stored in
// grams and must never be negative; the only writer that decrements it is
// the serving path in services. Deletion is permanent and takes the
// referencing recipe rows with it, so no recipe can ever point at an
// ingredient that is gone.
type Ingredient struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Quantity     float64   `gorm:"not null;check:quantity >= 0" json:"quantity"`
	MinQuantity  float64   `gorm:"not null;default:0" json:"min_quantity"`
	DeliveryDate time.Time `json:"delivery_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LowStock reports whether the ingredient has fallen to or below its
// reorder threshold.
func (i *Ingredient) LowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// Meal represents a dish on the menu.
type Meal struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Type      string         `gorm:"size:50;not null;default:'nonushta'" json:"type"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Recipes []Recipe `json:"recipes,omitempty"`
}

// Recipe links a meal to one ingredient and the amount of it consumed per
// portion. Quantity must be validated positive at write time: the portion
// estimator divides by it.
type Recipe struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MealID       uint      `gorm:"not null;uniqueIndex:idx_meal_ingredient" json:"meal_id"`
	IngredientID uint      `gorm:"not null;uniqueIndex:idx_meal_ingredient" json:"ingredient_id"`
	Quantity     float64   `gorm:"not null" json:"quantity"` // grams per portion
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Meal       Meal       `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE" json:"meal,omitempty"`
	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

// Serving is the historical record of portions actually prepared and given
// out. Append-only: servings are never updated or deleted, and the user
// reference survives user removal as null.
type Serving struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MealID       uint      `gorm:"not null;index" json:"meal_id"`
	UserID       *uint     `gorm:"index" json:"user_id"`
	ServedAt     time.Time `gorm:"index;not null" json:"served_at"`
	PortionCount int       `gorm:"not null" json:"portion_count"`

	Meal Meal  `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE" json:"meal,omitempty"`
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
}

// Report summarizes one meal's serving activity for one calendar month
// against what current stock could have produced. Month is normalized to
// the first day of the month, UTC. Reports are derived data: they can be
// regenerated from servings and stock at any time, and regeneration for
// the same (meal, month) upserts in place.
type Report struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	MealID               uint      `gorm:"not null;uniqueIndex:idx_meal_month" json:"meal_id"`
	Month                time.Time `gorm:"not null;uniqueIndex:idx_meal_month" json:"month"`
	PreparedPortions     int       `gorm:"not null;default:0" json:"prepared_portions"`
	PossiblePortions     int       `gorm:"not null;default:0" json:"possible_portions"`
	DifferencePercentage float64   `gorm:"not null;default:0" json:"difference_percentage"`
	WarningTriggered     bool      `gorm:"not null;default:false" json:"warning_triggered"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	Meal Meal `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE" json:"meal,omitempty"`
}

// PortionEstimate is the persisted snapshot of the estimator's output for
// one meal, refreshed by the background scheduler. Like Report it is a
// rebuildable projection, not a source of truth.
type PortionEstimate struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	MealID           uint      `gorm:"not null;uniqueIndex" json:"meal_id"`
	PossiblePortions int       `gorm:"not null;default:0" json:"possible_portions"`
	UpdatedAt        time.Time `json:"updated_at"`

	Meal Meal `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE" json:"meal,omitempty"`
}
