package dao

import (
	"fmt"

	"flowline/internal/common"
	"flowline/internal/server/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var db *gorm.DB

// InitDB opens the MySQL connection and migrates the schema. Called once per
// process before any DAO is used.
func InitDB() error {
	cfg := common.GetConfig()
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	database, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(
		&model.User{},
		&model.Credential{},
		&model.Workflow{},
		&model.Node{},
		&model.Connection{},
		&model.WorkflowRun{},
		&model.NodeRun{},
	); err != nil {
		return err
	}
	db = database
	return nil
}

// SetDB swaps the shared connection, used by tests to run against SQLite.
func SetDB(database *gorm.DB) {
	db = database
}
