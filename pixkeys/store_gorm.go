package pixkeys

import (
	"time"

	"github.com/google/uuid"
	"github.com/pix-rail/pix-key-api/datastore"
	"github.com/pix-rail/pix-key-api/datastore/lib"
	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db}
}

func (s *GormStore) PixKeys(o datastore.ListOptions) (kk []PixKey, err error) {
	err = s.db.
		Order("created_at desc").
		Limit(o.Limit).
		Offset(o.Offset).
		Find(&kk).Error
	return
}

func (s *GormStore) PixKey(id uuid.UUID) (k PixKey, err error) {
	err = s.db.First(&k, "id = ?", id).Error
	return
}

func (s *GormStore) PixKeysByType(keyType string) (kk []PixKey, err error) {
	err = s.db.
		Where("key_type = ?", keyType).
		Order("created_at desc").
		Find(&kk).Error
	return
}

func (s *GormStore) PixKeysByAccount(branch, account int) (kk []PixKey, err error) {
	err = s.db.
		Where("branch_number = ?", branch).
		Where("account_number = ?", account).
		Order("created_at desc").
		Find(&kk).Error
	return
}

func (s *GormStore) PixKeysByHolderName(name string) (kk []PixKey, err error) {
	err = s.db.
		Where("UPPER(holder_first_name) LIKE UPPER(?)", "%"+name+"%").
		Order("created_at desc").
		Find(&kk).Error
	return
}

func (s *GormStore) PixKeysByCreatedRange(start, end time.Time) (kk []PixKey, err error) {
	err = s.db.
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at desc").
		Find(&kk).Error
	return
}

func (s *GormStore) ActivePixKeys(o datastore.ListOptions) (kk []PixKey, err error) {
	err = s.db.
		Where("deactivated_at IS NULL").
		Order("created_at desc").
		Limit(o.Limit).
		Offset(o.Offset).
		Find(&kk).Error
	return
}

func (s *GormStore) InactivePixKeys(o datastore.ListOptions) (kk []PixKey, err error) {
	err = s.db.
		Where("deactivated_at IS NOT NULL").
		Order("created_at desc").
		Limit(o.Limit).
		Offset(o.Offset).
		Find(&kk).Error
	return
}

func (s *GormStore) ExistsByTypeAndValue(keyType, keyValue string) (bool, error) {
	var count int64
	err := s.db.Model(&PixKey{}).
		Where("key_type = ?", keyType).
		Where("key_value = ?", keyValue).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) ExistsByAccountWithDifferentPersonType(branch, account int, personType string) (bool, error) {
	var count int64
	err := s.db.Model(&PixKey{}).
		Where("branch_number = ?", branch).
		Where("account_number = ?", account).
		Where("person_type <> ?", personType).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) CountActiveByAccount(branch, account int) (count int64, err error) {
	err = s.db.Model(&PixKey{}).
		Where("branch_number = ?", branch).
		Where("account_number = ?", account).
		Where("deactivated_at IS NULL").
		Count(&count).Error
	return
}

func (s *GormStore) InsertPixKey(k *PixKey) error {
	return s.db.Create(k).Error
}

func (s *GormStore) SavePixKey(k *PixKey) error {
	return s.db.Save(k).Error
}

func (s *GormStore) Transaction(fn func(Store) error) error {
	return lib.GormTransaction(s.db, func(tx *gorm.DB) error {
		return fn(&GormStore{tx})
	})
}
