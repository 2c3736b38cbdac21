// cmd/seeduser/main.go — creates or updates the demo admin account.
// Usage: go run cmd/seeduser/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"shopmanager/internal/infra"
	"shopmanager/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "inventory.db"
	}
	username := "admin"
	password := "admin123"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	db, err := infra.NewDatabase(path)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}

	user := model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	result := db.WithContext(context.Background()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"password_hash", "role", "updated_at"}),
		}).
		Create(&user)

	if result.Error != nil {
		log.Fatalf("insert error: %v", result.Error)
	}
	fmt.Printf("✅ User '%s' created/updated with password '%s'\n", username, password)
}
