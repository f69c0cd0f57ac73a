package dao

import (
	"testing"

	"flowline/internal/common"
	"flowline/internal/server/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory SQLite database and points the package
// connection at it for the duration of one test.
func setupTestDB(t *testing.T) {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(
		&model.User{},
		&model.Credential{},
		&model.Workflow{},
		&model.Node{},
		&model.Connection{},
		&model.WorkflowRun{},
		&model.NodeRun{},
	))
	SetDB(database)
}

func errCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	return common.ConvertErr(err).ErrCode
}
