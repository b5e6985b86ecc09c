package pixkeys

import (
	"time"

	"github.com/google/uuid"
	"github.com/pix-rail/pix-key-api/datastore"
)

// Store manages data regarding PIX keys.
type Store interface {
	// List all keys.
	PixKeys(datastore.ListOptions) ([]PixKey, error)

	// Get key details.
	PixKey(id uuid.UUID) (PixKey, error)

	// List keys of a given type.
	PixKeysByType(keyType string) ([]PixKey, error)

	// List keys registered to a branch/account pair.
	PixKeysByAccount(branch, account int) ([]PixKey, error)

	// List keys whose holder first name contains the given substring,
	// case-insensitively.
	PixKeysByHolderName(name string) ([]PixKey, error)

	// List keys created within the given time range.
	PixKeysByCreatedRange(start, end time.Time) ([]PixKey, error)

	// List keys that have not been deactivated.
	ActivePixKeys(datastore.ListOptions) ([]PixKey, error)

	// List deactivated keys.
	InactivePixKeys(datastore.ListOptions) ([]PixKey, error)

	// Report whether a key with the given type and value exists,
	// active or not.
	ExistsByTypeAndValue(keyType, keyValue string) (bool, error)

	// Report whether the branch/account pair holds any key, active or
	// not, registered under a different person type.
	ExistsByAccountWithDifferentPersonType(branch, account int, personType string) (bool, error)

	// Count active keys registered to a branch/account pair.
	CountActiveByAccount(branch, account int) (int64, error)

	// Insert a new key.
	InsertPixKey(*PixKey) error

	// Update an existing key, keyed by id.
	SavePixKey(*PixKey) error

	// Transaction runs fn against a store whose operations share one
	// database transaction. The rule engine runs its invariant checks
	// and the subsequent write inside this boundary.
	Transaction(fn func(Store) error) error
}
