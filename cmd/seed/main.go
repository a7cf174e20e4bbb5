// Command seed creates a seller with a starter catalog and a buyer account.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"vending/internal/config"
	"vending/internal/logging"
	"vending/internal/models"
	"vending/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

var catalog = []models.Product{
	{ProductName: "Cola", Cost: 65, AmountAvailable: 20},
	{ProductName: "Water", Cost: 35, AmountAvailable: 30},
	{ProductName: "Chips", Cost: 50, AmountAvailable: 15},
	{ProductName: "Chocolate bar", Cost: 85, AmountAvailable: 10},
}

func main() {
	config.LoadEnv()
	cfg := config.Load()
	log := logging.New(os.Stdout, config.IsProduction())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	username := os.Getenv("SEED_SELLER_USERNAME")
	password := os.Getenv("SEED_SELLER_PASSWORD")
	buyerName := os.Getenv("SEED_BUYER_USERNAME")
	buyerPassword := os.Getenv("SEED_BUYER_PASSWORD")
	if username == "" || password == "" || buyerName == "" || buyerPassword == "" {
		log.Error(ctx, "SEED_SELLER_USERNAME, SEED_SELLER_PASSWORD, SEED_BUYER_USERNAME and SEED_BUYER_PASSWORD must be set in environment")
		os.Exit(1)
	}

	db, err := repositories.Connect(repositories.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Name:     cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		log.Error(ctx, "database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := repositories.RunMigrations(ctx, db); err != nil {
		log.Error(ctx, "migrations failed", "error", err)
		os.Exit(1)
	}

	store := repositories.NewStore(db)
	if _, err := store.Users().GetByUsername(ctx, username); err == nil {
		log.Info(ctx, "seller already exists", "username", username)
		return
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		log.Error(ctx, "seller lookup failed", "error", err)
		os.Exit(1)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Auth.BcryptCost)
	if err != nil {
		log.Error(ctx, "failed to hash password", "error", err)
		os.Exit(1)
	}
	buyerHashed, err := bcrypt.GenerateFromPassword([]byte(buyerPassword), cfg.Auth.BcryptCost)
	if err != nil {
		log.Error(ctx, "failed to hash password", "error", err)
		os.Exit(1)
	}

	err = store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		seller := &models.User{
			Username: username,
			Password: string(hashed),
			Role:     models.RoleSeller,
		}
		if err := tx.Users().Create(ctx, seller); err != nil {
			return err
		}
		buyer := &models.User{
			Username: buyerName,
			Password: string(buyerHashed),
			Role:     models.RoleBuyer,
		}
		if err := tx.Users().Create(ctx, buyer); err != nil {
			return err
		}
		for i := range catalog {
			p := catalog[i]
			p.SellerID = seller.ID
			if err := tx.Products().Create(ctx, &p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error(ctx, "seeding failed", "error", err)
		os.Exit(1)
	}

	log.Info(ctx, "seed data created",
		"seller", username,
		"buyer", buyerName,
		"products", len(catalog))
}
