// Package pixkeys provides functions for PIX key registration and
// lifecycle management.
package pixkeys

import (
	"time"

	"github.com/google/uuid"
)

// Key types. These are the canonical tokens stored on the wire and in
// the database; the normalizer collapses equivalent spellings to them.
const (
	KeyTypePhone  = "celular"
	KeyTypeEmail  = "email"
	KeyTypeCPF    = "cpf"
	KeyTypeCNPJ   = "cnpj"
	KeyTypeRandom = "aleatoria"
)

// Person types.
const (
	PersonTypeIndividual = "fisica"
	PersonTypeEntity     = "juridica"
)

// Account types.
const (
	AccountTypeChecking = "corrente"
	AccountTypeSavings  = "poupanca"
)

// Active key quotas per account, by person type.
const (
	IndividualKeyQuota = 5
	EntityKeyQuota     = 20
)

// PixKey struct represents a storable PIX key.
// KeyType, KeyValue and PersonType are fixed at creation; the rule
// engine never writes them again.
type PixKey struct {
	ID              uuid.UUID  `json:"id" gorm:"column:id;primaryKey;type:uuid"`
	KeyType         string     `json:"keyType" gorm:"column:key_type;uniqueIndex:uix_pix_keys_type_value"`
	KeyValue        string     `json:"keyValue" gorm:"column:key_value;size:77;uniqueIndex:uix_pix_keys_type_value"`
	PersonType      string     `json:"personType" gorm:"column:person_type"`
	AccountType     string     `json:"accountType" gorm:"column:account_type"`
	BranchNumber    int        `json:"branchNumber" gorm:"column:branch_number;index:idx_pix_keys_branch_account"`
	AccountNumber   int        `json:"accountNumber" gorm:"column:account_number;index:idx_pix_keys_branch_account"`
	HolderFirstName string     `json:"holderFirstName" gorm:"column:holder_first_name;size:30"`
	HolderLastName  string     `json:"holderLastName,omitempty" gorm:"column:holder_last_name;size:45"`
	CreatedAt       time.Time  `json:"createdAt" gorm:"column:created_at"`
	DeactivatedAt   *time.Time `json:"deactivatedAt,omitempty" gorm:"column:deactivated_at"`
}

func (PixKey) TableName() string {
	return "pix_keys"
}

// Active reports whether the key has not been deactivated.
func (k *PixKey) Active() bool {
	return k.DeactivatedAt == nil
}

// Patch carries the mutable fields of an amend request. Identity fields
// (keyType, keyValue, personType) have no representation here.
type Patch struct {
	AccountType     *string `json:"accountType,omitempty"`
	BranchNumber    *int    `json:"branchNumber,omitempty"`
	AccountNumber   *int    `json:"accountNumber,omitempty"`
	HolderFirstName *string `json:"holderFirstName,omitempty"`
	HolderLastName  *string `json:"holderLastName,omitempty"`
}

// KeyQuota returns the active key quota for the given person type.
func KeyQuota(personType string) int64 {
	if personType == PersonTypeEntity {
		return EntityKeyQuota
	}
	return IndividualKeyQuota
}
