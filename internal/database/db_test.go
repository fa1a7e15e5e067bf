package database

import (
	"testing"

	"taxcal/internal/config"
	"taxcal/internal/logger"
	"taxcal/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConnection_SQLiteMigratesAuditLog(t *testing.T) {
	cfg := config.Config{
		DBType:    config.DatabaseSQLite,
		SQLiteDSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}

	db, err := NewConnection(cfg, logger.NewGormLogger(zap.NewNop()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	assert.True(t, db.Migrator().HasTable(&model.AuditLog{}))

	entry := model.AuditLog{Action: model.ActionConfigureTaxRule, EntityID: "DE"}
	require.NoError(t, db.Create(&entry).Error)

	var count int64
	require.NoError(t, db.Model(&model.AuditLog{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
