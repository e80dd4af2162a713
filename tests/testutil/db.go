package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vendaflow/crm-api/internal/database"
	"github.com/vendaflow/crm-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an isolated in-memory sqlite database with the full
// schema migrated. Each call gets its own database, so tests never share
// state.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "Failed to open in-memory test database")

	require.NoError(t, database.AutoMigrate(db), "Failed to migrate test schema")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// CreateTestPipeline inserts a pipeline with one stage per given order.
// Stage names are derived from their position. CreatedAt is staggered so
// "oldest pipeline" lookups are deterministic.
func CreateTestPipeline(t *testing.T, db *gorm.DB, name string, pipelineType domain.PipelineType, stageOrders ...int) *domain.Pipeline {
	t.Helper()

	pipeline := &domain.Pipeline{
		Name:       name,
		Type:       pipelineType,
		IsEditable: true,
	}
	for i, order := range stageOrders {
		pipeline.Stages = append(pipeline.Stages, domain.Stage{
			Name:  fmt.Sprintf("Stage %d", i+1),
			Order: order,
		})
	}
	require.NoError(t, db.Create(pipeline).Error)
	return pipeline
}

// CreateTestContact inserts a contact with the given email
func CreateTestContact(t *testing.T, db *gorm.DB, firstName, lastName, email string) *domain.Contact {
	t.Helper()

	contact := &domain.Contact{
		FirstName: firstName,
		LastName:  lastName,
		Email:     &email,
	}
	require.NoError(t, db.Create(contact).Error)
	return contact
}

// CreateTestUser inserts a user with a real bcrypt hash so Authenticate
// works against it.
func CreateTestUser(t *testing.T, db *gorm.DB, email, password string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestDeal inserts an open deal on the given pipeline and stage
func CreateTestDeal(t *testing.T, db *gorm.DB, title string, pipelineID, stageID uuid.UUID, contactID *uuid.UUID) *domain.Deal {
	t.Helper()

	deal := &domain.Deal{
		Title:      title,
		Status:     domain.DealStatusOpen,
		ContactID:  contactID,
		PipelineID: pipelineID,
		StageID:    stageID,
	}
	require.NoError(t, db.Create(deal).Error)
	return deal
}

// StageByOrder returns the pipeline's stage with the given order
func StageByOrder(t *testing.T, pipeline *domain.Pipeline, order int) *domain.Stage {
	t.Helper()

	for i := range pipeline.Stages {
		if pipeline.Stages[i].Order == order {
			return &pipeline.Stages[i]
		}
	}
	t.Fatalf("pipeline %s has no stage with order %d", pipeline.Name, order)
	return nil
}
