package database

import (
	"climateforum/internal/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// AllTables lists every model of the current schema.
func AllTables() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Report{},
	}
}

// Migrations lists schema changes applied after the initial schema. Append only.
func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		v1(), // composite index for chronological comment reads
	}
}

// Migrate brings the schema up to date. It is safe to call on every start.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, &gormigrate.Options{
		TableName:                 "migrations",
		IDColumnName:              "id",
		IDColumnSize:              190,
		UseTransaction:            false,
		ValidateUnknownMigrations: true,
	}, Migrations())
	m.InitSchema(func(db *gorm.DB) error {
		// Runs only on an empty database and must create the latest schema.
		return db.AutoMigrate(AllTables()...)
	})
	return m.Migrate()
}

// DropAll drops every table including the migration history.
func DropAll(db *gorm.DB) error {
	if err := db.Migrator().DropTable(AllTables()...); err != nil {
		return err
	}
	return db.Migrator().DropTable("migrations")
}

// v1 adds the (post_id, created_at) index used to list comments under a post.
func v1() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "1",
		Migrate: func(db *gorm.DB) error {
			if db.Migrator().HasIndex(&models.Comment{}, commentPostCreatedIndex) {
				return nil
			}
			return db.Migrator().CreateIndex(&models.Comment{}, commentPostCreatedIndex)
		},
		Rollback: func(db *gorm.DB) error {
			return db.Migrator().DropIndex(&models.Comment{}, commentPostCreatedIndex)
		},
	}
}

const commentPostCreatedIndex = "idx_comments_post_created"
