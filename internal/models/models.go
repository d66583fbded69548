// package models defines the data model for the photoyarn story client
package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
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

// Storage is a per-session key/value store that survives screen changes but not the session itself.
type Storage interface {
	Get(key string) (string, bool, error) // Get returns the value and whether it was present
	Set(key, value string) error          // Set stores value under key, replacing any previous value
	Remove(key string) error              // Remove deletes key; removing an absent key is not an error
}

// Redirector moves the user to another screen, ending the caller's lifetime.
type Redirector interface {
	Redirect(route Route)
}
