package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/pix-rail/pix-key-api/migrations/internal/m20250601"
)

func List() []*gormigrate.Migration {
	ms := []*gormigrate.Migration{
		{
			ID:       m20250601.ID,
			Migrate:  m20250601.Migrate,
			Rollback: m20250601.Rollback,
		},
	}
	return ms
}
