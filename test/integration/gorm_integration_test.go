package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"demarches-be/internal/repository/unitofwork"
	"demarches-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.DocumentRepository())
	assert.NotNil(t, uow.ProcedureTemplateRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Template Repository", func(t *testing.T) {
		count, err := uow.ProcedureTemplateRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Template count: %d", count)
	})

	t.Run("Check Binding Repository", func(t *testing.T) {
		count, err := uow.RequirementBindingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Binding count: %d", count)
	})
}
