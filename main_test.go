package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/pix-rail/pix-key-api/configs"
	"github.com/pix-rail/pix-key-api/datastore/gorm"
	"github.com/pix-rail/pix-key-api/pixkeys"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	godotenv.Load(".env.test")

	dir, err := os.MkdirTemp("", "pix-key-api-test")
	if err != nil {
		panic(err)
	}

	os.Setenv("PIX_DATABASE_DSN", filepath.Join(dir, "test.db"))
	os.Setenv("PIX_DATABASE_TYPE", "sqlite")
	os.Setenv("PIX_LOG_LEVEL", "panic")

	exitcode := m.Run()

	os.RemoveAll(dir)
	os.Exit(exitcode)
}

// Boots the whole stack over sqlite, including migrations, and runs the
// key lifecycle through it.
func TestKeyLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t,
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)

	cfg, err := configs.Parse()
	if err != nil {
		t.Fatal(err)
	}

	db, err := gorm.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer gorm.Close(db)

	service := pixkeys.NewService(pixkeys.NewGormStore(db))

	k, err := service.Create(pixkeys.PixKey{
		KeyType:         "e-mail", // normalizes to "email"
		KeyValue:        "ana@example.com",
		PersonType:      "FÍSICA",
		AccountType:     "corrente",
		BranchNumber:    1234,
		AccountNumber:   56789012,
		HolderFirstName: "Ana",
	})
	if err != nil {
		t.Fatalf("Did not expect an error, got: %s", err)
	}

	if k.KeyType != pixkeys.KeyTypeEmail {
		t.Errorf(`expected key type "email", got %q`, k.KeyType)
	}

	amended, err := service.Amend(k.ID, pixkeys.Patch{
		HolderLastName: strPtr("Souza"),
	})
	if err != nil {
		t.Fatalf("Did not expect an error, got: %s", err)
	}
	if amended.HolderLastName != "Souza" {
		t.Errorf(`expected last name "Souza", got %q`, amended.HolderLastName)
	}

	deactivated, err := service.Deactivate(k.ID)
	if err != nil {
		t.Fatalf("Did not expect an error, got: %s", err)
	}
	if deactivated.DeactivatedAt == nil {
		t.Error("expected deactivatedAt to be set")
	}
}

func strPtr(s string) *string {
	return &s
}
