package pixkeys

import (
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/pix-rail/pix-key-api/datastore"
	"github.com/pix-rail/pix-key-api/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service defines the API for PIX key management. All invariant checks
// and the subsequent write of an operation run inside one store
// transaction, so a concurrent create on the same key value or the
// same account cannot slip between check and write.
type Service struct {
	store Store
}

// NewService initiates a new PIX key service.
func NewService(store Store) *Service {
	return &Service{store}
}

// Create registers a new PIX key. The candidate's categorical fields
// are normalized, every field is validated, and the uniqueness, person
// type consistency and account quota invariants are checked before the
// key is written. The first violation found is returned and nothing is
// persisted.
func (s *Service) Create(k PixKey) (PixKey, error) {
	Normalize(&k)

	if err := validateFields(&k); err != nil {
		return PixKey{}, err
	}

	if !ValidateValue(k.KeyType, k.KeyValue) {
		return PixKey{}, errors.NewValidationError(
			errors.InvalidKeyValueFormat,
			"value %q is not a valid %s key", k.KeyValue, k.KeyType)
	}

	err := s.store.Transaction(func(store Store) error {
		exists, err := store.ExistsByTypeAndValue(k.KeyType, k.KeyValue)
		if err != nil {
			return err
		}
		if exists {
			return errors.NewValidationError(
				errors.DuplicateKeyValue,
				"a %s key with this value already exists", k.KeyType)
		}

		mismatch, err := store.ExistsByAccountWithDifferentPersonType(
			k.BranchNumber, k.AccountNumber, k.PersonType)
		if err != nil {
			return err
		}
		if mismatch {
			return errors.NewValidationError(
				errors.PersonTypeMismatch,
				"account %d/%d is already registered under a different person type",
				k.BranchNumber, k.AccountNumber)
		}

		count, err := store.CountActiveByAccount(k.BranchNumber, k.AccountNumber)
		if err != nil {
			return err
		}
		if count >= KeyQuota(k.PersonType) {
			return errors.NewValidationError(
				errors.AccountQuotaExceeded,
				"account %d/%d already holds %d active keys",
				k.BranchNumber, k.AccountNumber, count)
		}

		if k.ID == uuid.Nil {
			k.ID = uuid.New()
		}
		k.CreatedAt = time.Now()
		k.DeactivatedAt = nil

		return store.InsertPixKey(&k)
	})
	if err != nil {
		return PixKey{}, err
	}

	log.WithFields(log.Fields{
		"id":      k.ID,
		"keyType": k.KeyType,
	}).Debug("PIX key created")

	return k, nil
}

// Amend partially updates a key's mutable fields. Fields absent from
// the patch retain their prior values. A patch that changes nothing is
// rejected, as is any amend of a deactivated key.
func (s *Service) Amend(id uuid.UUID, p Patch) (PixKey, error) {
	var k PixKey

	err := s.store.Transaction(func(store Store) error {
		var err error
		k, err = store.PixKey(id)
		if err != nil {
			return keyLookupError(err)
		}

		if !k.Active() {
			return errors.NewValidationError(
				errors.AlreadyInactive, "deactivated keys cannot be amended")
		}

		NormalizePatch(&p)

		if !patchChangesKey(&p, &k) {
			return errors.NewValidationError(
				errors.NoChange, "patch does not alter any field")
		}

		if err := validatePatch(&p); err != nil {
			return err
		}

		// Effective branch/account pair after the patch. If it
		// changes, the destination account must agree on person type
		// and have quota available for one more active key.
		branch, account := k.BranchNumber, k.AccountNumber
		if p.BranchNumber != nil {
			branch = *p.BranchNumber
		}
		if p.AccountNumber != nil {
			account = *p.AccountNumber
		}

		if branch != k.BranchNumber || account != k.AccountNumber {
			mismatch, err := store.ExistsByAccountWithDifferentPersonType(branch, account, k.PersonType)
			if err != nil {
				return err
			}
			if mismatch {
				return errors.NewValidationError(
					errors.PersonTypeMismatch,
					"account %d/%d is already registered under a different person type",
					branch, account)
			}

			count, err := store.CountActiveByAccount(branch, account)
			if err != nil {
				return err
			}
			if count >= KeyQuota(k.PersonType) {
				return errors.NewValidationError(
					errors.AccountQuotaExceeded,
					"account %d/%d already holds %d active keys",
					branch, account, count)
			}
		}

		if p.AccountType != nil {
			k.AccountType = *p.AccountType
		}
		if p.BranchNumber != nil {
			k.BranchNumber = *p.BranchNumber
		}
		if p.AccountNumber != nil {
			k.AccountNumber = *p.AccountNumber
		}
		if p.HolderFirstName != nil {
			k.HolderFirstName = *p.HolderFirstName
		}
		if p.HolderLastName != nil {
			k.HolderLastName = *p.HolderLastName
		}

		return store.SavePixKey(&k)
	})
	if err != nil {
		return PixKey{}, err
	}

	log.WithFields(log.Fields{"id": k.ID}).Debug("PIX key amended")

	return k, nil
}

// Deactivate marks a key inactive. The transition is one-way; there is
// no reactivation.
func (s *Service) Deactivate(id uuid.UUID) (PixKey, error) {
	var k PixKey

	err := s.store.Transaction(func(store Store) error {
		var err error
		k, err = store.PixKey(id)
		if err != nil {
			return keyLookupError(err)
		}

		if !k.Active() {
			return errors.NewValidationError(
				errors.AlreadyInactive, "key is already deactivated")
		}

		now := time.Now()
		k.DeactivatedAt = &now

		return store.SavePixKey(&k)
	})
	if err != nil {
		return PixKey{}, err
	}

	log.WithFields(log.Fields{"id": k.ID}).Debug("PIX key deactivated")

	return k, nil
}

// List returns all keys in the datastore.
func (s *Service) List(limit, offset int) ([]PixKey, error) {
	o := datastore.ParseListOptions(limit, offset)
	return s.store.PixKeys(o)
}

// Details returns a specific key.
func (s *Service) Details(id uuid.UUID) (PixKey, error) {
	k, err := s.store.PixKey(id)
	if err != nil {
		return PixKey{}, keyLookupError(err)
	}
	return k, nil
}

func (s *Service) ListByType(keyType string) ([]PixKey, error) {
	return s.store.PixKeysByType(keyType)
}

func (s *Service) ListByAccount(branch, account int) ([]PixKey, error) {
	return s.store.PixKeysByAccount(branch, account)
}

func (s *Service) ListByHolderName(name string) ([]PixKey, error) {
	return s.store.PixKeysByHolderName(name)
}

func (s *Service) ListByCreatedRange(start, end time.Time) ([]PixKey, error) {
	return s.store.PixKeysByCreatedRange(start, end)
}

func (s *Service) ListActive(limit, offset int) ([]PixKey, error) {
	o := datastore.ParseListOptions(limit, offset)
	return s.store.ActivePixKeys(o)
}

func (s *Service) ListInactive(limit, offset int) ([]PixKey, error) {
	o := datastore.ParseListOptions(limit, offset)
	return s.store.InactivePixKeys(o)
}

// validateFields checks the structural bounds of every field of a
// create candidate. Format validation of the key value happens
// separately, after the structure is known to be sound.
func validateFields(k *PixKey) error {
	switch k.KeyType {
	case KeyTypePhone, KeyTypeEmail, KeyTypeCPF, KeyTypeCNPJ, KeyTypeRandom:
	default:
		return errors.NewValidationError(
			errors.InvalidField, "unrecognized key type %q", k.KeyType)
	}

	if k.KeyValue == "" || len(k.KeyValue) > 77 {
		return errors.NewValidationError(
			errors.InvalidField, "key value must be 1-77 characters")
	}

	if k.PersonType != PersonTypeIndividual && k.PersonType != PersonTypeEntity {
		return errors.NewValidationError(
			errors.InvalidField, "unrecognized person type %q", k.PersonType)
	}

	if k.AccountType != AccountTypeChecking && k.AccountType != AccountTypeSavings {
		return errors.NewValidationError(
			errors.InvalidField, "unrecognized account type %q", k.AccountType)
	}

	if err := validateBranchNumber(k.BranchNumber); err != nil {
		return err
	}

	if err := validateAccountNumber(k.AccountNumber); err != nil {
		return err
	}

	if k.HolderFirstName == "" || len(k.HolderFirstName) > 30 {
		return errors.NewValidationError(
			errors.InvalidField, "holder first name must be 1-30 characters")
	}

	if len(k.HolderLastName) > 45 {
		return errors.NewValidationError(
			errors.InvalidField, "holder last name must be at most 45 characters")
	}

	return nil
}

// validatePatch checks the provided fields of an amend patch against
// the same bounds as a create candidate.
func validatePatch(p *Patch) error {
	if p.AccountType != nil &&
		*p.AccountType != AccountTypeChecking && *p.AccountType != AccountTypeSavings {
		return errors.NewValidationError(
			errors.InvalidField, "unrecognized account type %q", *p.AccountType)
	}

	if p.BranchNumber != nil {
		if err := validateBranchNumber(*p.BranchNumber); err != nil {
			return err
		}
	}

	if p.AccountNumber != nil {
		if err := validateAccountNumber(*p.AccountNumber); err != nil {
			return err
		}
	}

	if p.HolderFirstName != nil &&
		(*p.HolderFirstName == "" || len(*p.HolderFirstName) > 30) {
		return errors.NewValidationError(
			errors.InvalidField, "holder first name must be 1-30 characters")
	}

	if p.HolderLastName != nil && len(*p.HolderLastName) > 45 {
		return errors.NewValidationError(
			errors.InvalidField, "holder last name must be at most 45 characters")
	}

	return nil
}

func validateBranchNumber(branch int) error {
	if branch < 1 || branch > 9999 {
		return errors.NewValidationError(
			errors.InvalidField, "branch number must be between 1 and 9999")
	}
	return nil
}

func validateAccountNumber(account int) error {
	if account < 1 || account > 99999999 {
		return errors.NewValidationError(
			errors.InvalidField, "account number must be between 1 and 99999999")
	}
	return nil
}

// patchChangesKey reports whether any provided patch field differs
// from the key's current value.
func patchChangesKey(p *Patch, k *PixKey) bool {
	if p.AccountType != nil && *p.AccountType != k.AccountType {
		return true
	}
	if p.BranchNumber != nil && *p.BranchNumber != k.BranchNumber {
		return true
	}
	if p.AccountNumber != nil && *p.AccountNumber != k.AccountNumber {
		return true
	}
	if p.HolderFirstName != nil && *p.HolderFirstName != k.HolderFirstName {
		return true
	}
	if p.HolderLastName != nil && *p.HolderLastName != k.HolderLastName {
		return true
	}
	return false
}

func keyLookupError(err error) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.NewValidationError(errors.NotFound, "PIX key not found")
	}
	return err
}
