package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
// Implementations are [Run] and [Issue].
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// timestamps holds the bookkeeping fields every persistent model carries.
type timestamps struct {
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newTimestamps() timestamps {
	now := time.Now()
	return timestamps{createdAt: now, updatedAt: now}
}

func (t *timestamps) CreatedAt() time.Time { return t.createdAt }
func (t *timestamps) UpdatedAt() time.Time { return t.updatedAt }
func (t *timestamps) DeletedAt() *time.Time { return t.deletedAt }
func (t *timestamps) SetCreatedAt(ts time.Time) { t.createdAt = ts }
func (t *timestamps) SetUpdatedAt(ts time.Time) { t.updatedAt = ts }
func (t *timestamps) SetDeletedAt(ts *time.Time) { t.deletedAt = ts }
