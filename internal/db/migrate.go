package db

import (
	"cms-admin-panel/internal/config"
	"cms-admin-panel/internal/domain"
	"cms-admin-panel/internal/user"
	"log"
)

// Migrate runs database migrations
func Migrate() {
	err := AppDb.AutoMigrate(
		&domain.User{},
		&domain.Post{},
		&domain.PostRevision{},
		&domain.Media{},
	)

	if err != nil {
		log.Fatal(err)
	}

	log.Println("Database schema migrated successfully")
}

// SeedData creates the initial admin account if it doesn't exist yet
func SeedData() {
	userRepo := user.NewRepository(AppDb)

	admin := &domain.User{
		Name:     "Admin",
		Email:    config.AppConfig.AdminEmail,
		Password: config.AppConfig.AdminPassword,
		Role:     domain.RoleAdmin,
		IsActive: true,
	}

	// Check if the admin exists
	_, err := userRepo.FindByEmail(admin.Email)
	if err != nil {
		userService := user.NewService(userRepo)
		// Admin doesn't exist, create it
		if err := userService.Register(admin); err != nil {
			log.Printf("Error creating admin account: %v", err)
		} else {
			log.Printf("Created admin account: %s", admin.Email)
		}
	} else {
		log.Printf("Admin account already exists: %s", admin.Email)
	}
}
