package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"demarches-be/internal/dto"
	"demarches-be/internal/entity"
	"demarches-be/internal/mapper"
	"demarches-be/internal/pkg/apperr"
	"demarches-be/internal/repository/unitofwork"
	"demarches-be/internal/service"
	"demarches-be/pkg/database"
	"demarches-be/pkg/reconcile"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLifecycleTest(t *testing.T) (*gorm.DB, service.IProcedureService, unitofwork.RepositoryFactory) {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDB(dsn)
	require.NoError(t, err)

	uowFactory := unitofwork.NewRepositoryFactory(db)
	procedureService := service.NewProcedureService(uowFactory, reconcile.NewCaseFoldPolicy(nil), nil, nil)

	return db, procedureService, uowFactory
}

func seedUser(t *testing.T, db *gorm.DB, email string) uuid.UUID {
	t.Helper()
	userMapper := mapper.NewUserMapper()
	user := &entity.User{
		Id:        uuid.New(),
		Email:     email,
		FullName:  "Lifecycle Test User",
		Role:      entity.UserRoleUser,
		Status:    entity.UserStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(userMapper.ToModel(user)).Error)
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = ?", user.Id) })
	return user.Id
}

func seedTemplate(t *testing.T, db *gorm.DB, requirements []string) uuid.UUID {
	t.Helper()
	procedureMapper := mapper.NewProcedureMapper()
	tpl := &entity.ProcedureTemplate{
		Id:           uuid.New(),
		Title:        "Lifecycle Test Template",
		Category:     "test",
		Requirements: requirements,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, db.Create(procedureMapper.TemplateToModel(tpl)).Error)
	t.Cleanup(func() { db.Exec("DELETE FROM procedure_templates WHERE id = ?", tpl.Id) })
	return tpl.Id
}

func seedDocument(t *testing.T, db *gorm.DB, userId uuid.UUID, declaredType string) uuid.UUID {
	t.Helper()
	documentMapper := mapper.NewDocumentMapper()
	doc := &entity.Document{
		Id:           uuid.New(),
		Filename:     declaredType + ".pdf",
		DeclaredType: declaredType,
		UserId:       userId,
		UploadedAt:   time.Now(),
		CreatedAt:    time.Now(),
	}
	require.NoError(t, db.Create(documentMapper.ToModel(doc)).Error)
	t.Cleanup(func() { db.Exec("DELETE FROM documents WHERE id = ?", doc.Id) })
	return doc.Id
}

func TestProcedureLifecycle(t *testing.T) {
	db, svc, _ := setupLifecycleTest(t)
	ctx := context.Background()

	userId := seedUser(t, db, "lifecycle-"+uuid.New().String()+"@example.com")
	templateId := seedTemplate(t, db, []string{"Pièce d'identité", "Justificatif de domicile"})
	identityDocId := seedDocument(t, db, userId, "Pièce d'identité")
	addressDocId := seedDocument(t, db, userId, "Justificatif de domicile")

	created, err := svc.Create(ctx, userId, &dto.CreateProcedureRequest{
		TemplateId: templateId,
		Bindings:   map[string]uuid.UUID{"Pièce d'identité": identityDocId},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Exec("DELETE FROM requirement_bindings WHERE instance_id = ?", created.Id)
		db.Exec("DELETE FROM procedure_instances WHERE id = ?", created.Id)
	})

	t.Run("new instance is in progress with partial progress", func(t *testing.T) {
		shown, err := svc.Show(ctx, userId, created.Id)
		require.NoError(t, err)
		assert.Equal(t, entity.InstanceStatusInProgress, shown.Status)
		assert.Len(t, shown.Requirements, 2)
		assert.NotNil(t, shown.Requirements[0].DocumentId)
		assert.Nil(t, shown.Requirements[1].DocumentId)

		progress, err := svc.Progress(ctx, userId, created.Id)
		require.NoError(t, err)
		assert.Equal(t, 1, progress.BoundCount)
		assert.Equal(t, 2, progress.TotalRequired)
	})

	t.Run("completion is refused while requirements are missing", func(t *testing.T) {
		_, err := svc.MarkComplete(ctx, userId, &dto.MarkCompleteRequest{InstanceId: created.Id})
		assert.ErrorIs(t, err, apperr.ErrIncompleteRequirements)
	})

	t.Run("rebinding the same document is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			_, err := svc.Bind(ctx, userId, &dto.BindRequirementRequest{
				InstanceId:  created.Id,
				Requirement: "Justificatif de domicile",
				DocumentId:  &addressDocId,
			})
			require.NoError(t, err)
		}
		shown, err := svc.Show(ctx, userId, created.Id)
		require.NoError(t, err)
		require.NotNil(t, shown.Requirements[1].DocumentId)
		assert.Equal(t, addressDocId, *shown.Requirements[1].DocumentId)
	})

	t.Run("unknown requirement label is rejected", func(t *testing.T) {
		_, err := svc.Bind(ctx, userId, &dto.BindRequirementRequest{
			InstanceId:  created.Id,
			Requirement: "Relevé bancaire",
			DocumentId:  &addressDocId,
		})
		assert.ErrorIs(t, err, apperr.ErrValidationFailed)
	})

	t.Run("another user's instance reads as not found", func(t *testing.T) {
		otherId := seedUser(t, db, "intruder-"+uuid.New().String()+"@example.com")
		_, err := svc.Show(ctx, otherId, created.Id)
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		_, err = svc.Bind(ctx, otherId, &dto.BindRequirementRequest{
			InstanceId:  created.Id,
			Requirement: "Pièce d'identité",
			DocumentId:  &identityDocId,
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("fully bound instance completes", func(t *testing.T) {
		res, err := svc.MarkComplete(ctx, userId, &dto.MarkCompleteRequest{InstanceId: created.Id})
		require.NoError(t, err)
		assert.Equal(t, entity.InstanceStatusComplete, res.Status)

		shown, err := svc.Show(ctx, userId, created.Id)
		require.NoError(t, err)
		assert.NotNil(t, shown.CompletedAt)
	})

	t.Run("completing twice is a no-op", func(t *testing.T) {
		res, err := svc.MarkComplete(ctx, userId, &dto.MarkCompleteRequest{InstanceId: created.Id})
		require.NoError(t, err)
		assert.Equal(t, entity.InstanceStatusComplete, res.Status)
	})

	t.Run("binding into a terminal instance is rejected", func(t *testing.T) {
		_, err := svc.Bind(ctx, userId, &dto.BindRequirementRequest{
			InstanceId:  created.Id,
			Requirement: "Pièce d'identité",
			DocumentId:  &identityDocId,
		})
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("completed instance cannot be abandoned", func(t *testing.T) {
		err := svc.Abandon(ctx, userId, created.Id)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
}

func TestProcedureCompleteWithOverride(t *testing.T) {
	db, svc, _ := setupLifecycleTest(t)
	ctx := context.Background()

	userId := seedUser(t, db, "override-"+uuid.New().String()+"@example.com")
	templateId := seedTemplate(t, db, []string{"Pièce d'identité", "Justificatif de domicile"})

	created, err := svc.Create(ctx, userId, &dto.CreateProcedureRequest{TemplateId: templateId})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Exec("DELETE FROM requirement_bindings WHERE instance_id = ?", created.Id)
		db.Exec("DELETE FROM procedure_instances WHERE id = ?", created.Id)
	})

	res, err := svc.MarkComplete(ctx, userId, &dto.MarkCompleteRequest{InstanceId: created.Id, Override: true})
	require.NoError(t, err)
	assert.Equal(t, entity.InstanceStatusComplete, res.Status)
}

func TestProcedureAbandon(t *testing.T) {
	db, svc, _ := setupLifecycleTest(t)
	ctx := context.Background()

	userId := seedUser(t, db, "abandon-"+uuid.New().String()+"@example.com")
	templateId := seedTemplate(t, db, []string{"Pièce d'identité"})

	created, err := svc.Create(ctx, userId, &dto.CreateProcedureRequest{TemplateId: templateId})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Exec("DELETE FROM requirement_bindings WHERE instance_id = ?", created.Id)
		db.Exec("DELETE FROM procedure_instances WHERE id = ?", created.Id)
	})

	require.NoError(t, svc.Abandon(ctx, userId, created.Id))

	// Abandoning again is a no-op.
	require.NoError(t, svc.Abandon(ctx, userId, created.Id))

	_, err = svc.MarkComplete(ctx, userId, &dto.MarkCompleteRequest{InstanceId: created.Id, Override: true})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}
