package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/config"
	"github.com/shashiranjanraj/kirana/pkg/auth"
)

// bootDB loads config and opens the MongoDB connection.
func bootDB(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	return repositories.Connect(ctx, config.MongoURL(), config.MongoDB())
}

// kirana db:index
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create the MongoDB indexes the workflows rely on",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := bootDB(ctx); err != nil {
			return err
		}
		defer repositories.Disconnect(context.Background())

		fmt.Println("Creating indexes…")
		if err := repositories.EnsureIndexes(ctx); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	},
}

// kirana db:seed — create the admin account and the starter categories.
// Re-running is safe: existing documents are left alone.
var dbSeedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Seed the admin user and starter categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := bootDB(ctx); err != nil {
			return err
		}
		defer repositories.Disconnect(context.Background())

		if err := repositories.EnsureIndexes(ctx); err != nil {
			return err
		}

		if err := seedAdmin(ctx); err != nil {
			return err
		}
		return seedCategories(ctx)
	},
}

func seedAdmin(ctx context.Context) error {
	users := repositories.NewUserRepository(repositories.DB())

	email := config.Get("SEED_ADMIN_EMAIL", "admin@kirana.local")
	if _, err := users.FindByEmail(ctx, email); err == nil {
		fmt.Println("Admin already exists:", email)
		return nil
	}

	password := config.Get("SEED_ADMIN_PASSWORD", "changeme123")
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := &models.User{
		Name:      "Administrator",
		Email:     email,
		Password:  hash,
		Answer:    config.Get("SEED_ADMIN_ANSWER", "seeded"),
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := users.Create(ctx, admin); err != nil {
		if repositories.IsDuplicate(err) {
			fmt.Println("Admin already exists:", email)
			return nil
		}
		return err
	}

	fmt.Println("Admin created:", email)
	return nil
}

func seedCategories(ctx context.Context) error {
	categories := repositories.NewCategoryRepository(repositories.DB())

	for _, name := range []string{"Electronics", "Clothing", "Books", "Groceries"} {
		if _, err := categories.FindByName(ctx, name); err == nil {
			continue
		}

		cat := &models.Category{Name: name, Slug: slug.Make(name)}
		if err := categories.Insert(ctx, cat); err != nil {
			return err
		}
		fmt.Println("Category created:", name)
	}
	return nil
}
