package m20250601

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//
// This is the first migration that initializes the whole DB. All types
// are snapshot here so that the structure and schema state for given
// point in time is preserved and can be rolled back to from later
// migrations, in case there's a need.
//

const ID = "20250601"

type PixKey struct {
	ID              uuid.UUID  `gorm:"column:id;primaryKey;type:uuid"`
	KeyType         string     `gorm:"column:key_type;uniqueIndex:uix_pix_keys_type_value"`
	KeyValue        string     `gorm:"column:key_value;size:77;uniqueIndex:uix_pix_keys_type_value"`
	PersonType      string     `gorm:"column:person_type"`
	AccountType     string     `gorm:"column:account_type"`
	BranchNumber    int        `gorm:"column:branch_number;index:idx_pix_keys_branch_account"`
	AccountNumber   int        `gorm:"column:account_number;index:idx_pix_keys_branch_account"`
	HolderFirstName string     `gorm:"column:holder_first_name;size:30"`
	HolderLastName  string     `gorm:"column:holder_last_name;size:45"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	DeactivatedAt   *time.Time `gorm:"column:deactivated_at"`
}

func (PixKey) TableName() string {
	return "pix_keys"
}

type IdempotencyKey struct {
	Key        string    `gorm:"column:key;primary_key"`
	ExpiryDate time.Time `gorm:"column:expiry_date"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

func Migrate(tx *gorm.DB) error {
	return tx.AutoMigrate(&PixKey{}, &IdempotencyKey{})
}

func Rollback(tx *gorm.DB) error {
	return tx.Migrator().DropTable(&PixKey{}, &IdempotencyKey{})
}
