package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/nobarid/nobar-backend/config"
	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/internal/app/repository"
	"github.com/nobarid/nobar-backend/internal/db"
	"github.com/nobarid/nobar-backend/pkg/util"
	"gorm.io/gorm"
)

// Seeds a development database with an admin, a surveyor, and a demo
// merchant with venues across the capacity tiers.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	venueRepo := repository.NewVenueRepository(db.GetDB())

	admin := seedUser(userRepo, "admin@nobar.id", "Admin", model.RoleAdmin)
	seedUser(userRepo, "surveyor@nobar.id", "Surveyor", model.RoleSurveyor)
	merchant := seedUser(userRepo, "merchant@nobar.id", "Demo Merchant", model.RoleMerchant)

	demoVenues := []struct {
		name     string
		city     string
		capacity int
	}{
		{"Warung Bola Senayan", "Jakarta Selatan", 1},
		{"Kafe Tendangan Bebas", "Bandung", 3},
		{"Aula Nobar Merdeka", "Surabaya", 5},
	}

	for _, v := range demoVenues {
		code := util.GenerateVenueCode(8)
		venue := &model.Venue{
			Code:         code,
			UserID:       merchant.ID,
			BusinessName: v.name,
			OwnerName:    merchant.Name,
			Email:        merchant.Email,
			Phone:        "+62811000000",
			Address:      "Jl. Demo No. 1",
			Province:     "DKI Jakarta",
			City:         v.city,
			Capacity:     v.capacity,
		}
		if err := venueRepo.Create(venue); err != nil {
			log.Printf("Skipping venue %s: %v", v.name, err)
			continue
		}
		fmt.Printf("Created venue %s (%s), tier %d\n", v.name, code, v.capacity)
	}

	fmt.Printf("Seed complete. Admin user id: %d\n", admin.ID)
}

func seedUser(userRepo repository.UserRepository, email, name string, role model.UserRole) *model.User {
	existing, err := userRepo.FindByEmail(email)
	if err == nil {
		fmt.Printf("User %s already exists (id %d)\n", email, existing.ID)
		return existing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal("Failed to look up user:", err)
	}

	hash, err := util.HashPassword("nobar-dev-password")
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
	}
	if err := userRepo.Create(user); err != nil {
		log.Fatal("Failed to create user:", err)
	}
	fmt.Printf("Created %s user %s (id %d)\n", role, email, user.ID)
	return user
}
