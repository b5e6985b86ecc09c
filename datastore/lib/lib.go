package lib

import "gorm.io/gorm"

// GormTransaction runs fn inside a database transaction on mysql and
// psql. On sqlite it runs fn on the plain database handle instead, as
// sqlite serializes writers on its own and nested transactions lock up.
func GormTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	isSqlite := db.Config.Dialector.Name() == "sqlite"

	var tx *gorm.DB

	if !isSqlite {
		tx = db.Begin()
	} else {
		tx = db
	}

	if err := fn(tx); err != nil {
		if !isSqlite {
			tx.Rollback()
		}
		return err
	}

	if !isSqlite {
		tx.Commit()
	}

	return nil
}
