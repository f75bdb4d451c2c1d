package main

import (
	"context"
	"log"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-rental/internal/config"
	"github.com/noah-isme/backend-rental/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}

	seedCategories(ctx, pool)
	seedCars(ctx, pool)
	seedServices(ctx, pool)
	seedUsers(ctx, pool, cfg)

	log.Println("seeding completed")
}

func seedCategories(ctx context.Context, pool *pgxpool.Pool) {
	categories := []struct {
		ID   string
		Name string
	}{
		{"1", "6 Seaters (SUVs, MPVs, Vans)"},
		{"2", "4 Seaters (Sedans & Specialty)"},
	}

	log.Println("seeding categories...")
	for _, c := range categories {
		_, err := pool.Exec(ctx, `
			INSERT INTO categories (id, name)
			VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;
		`, c.ID, c.Name)
		if err != nil {
			log.Printf("category %s: %v", c.Name, err)
		}
	}
}

func seedCars(ctx context.Context, pool *pgxpool.Pool) {
	cars := []struct {
		CategoryID  string
		Name        string
		PricePerDay int64
	}{
		{"1", "Toyota Innova (MPV)", 320000},
		{"1", "Mitsubishi Xpander (MPV)", 280000},
		{"1", "Nissan Terra (SUV)", 450000},
		{"1", "Ford Everest (SUV)", 430000},
		{"1", "Hyundai Staria (Van)", 600000},
		{"2", "Toyota Vios / Honda City", 175000},
		{"2", "Mazda 3", 220000},
		{"2", "Honda Civic Turbo", 260000},
		{"2", "Toyota Camry", 350000},
		{"2", "BMW 3-Series (Luxury)", 500000},
	}

	log.Println("seeding cars...")
	for _, c := range cars {
		_, err := pool.Exec(ctx, `
			INSERT INTO cars (category_id, name, price_per_day, is_available)
			VALUES ($1, $2, $3, TRUE)
			ON CONFLICT (name) DO UPDATE
			SET category_id = EXCLUDED.category_id, price_per_day = EXCLUDED.price_per_day;
		`, c.CategoryID, c.Name, c.PricePerDay)
		if err != nil {
			log.Printf("car %s: %v", c.Name, err)
		}
	}
}

func seedServices(ctx context.Context, pool *pgxpool.Pool) {
	services := []struct {
		Name    string
		Price   int64
		IsDaily bool
	}{
		{"Insurance and Waivers", 150000, false},
		{"RFID Pass (Toll Fees)", 75000, false},
	}

	log.Println("seeding services...")
	for _, s := range services {
		_, err := pool.Exec(ctx, `
			INSERT INTO services (name, price, is_daily)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE
			SET price = EXCLUDED.price, is_daily = EXCLUDED.is_daily;
		`, s.Name, s.Price, s.IsDaily)
		if err != nil {
			log.Printf("service %s: %v", s.Name, err)
		}
	}
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config) {
	users := []struct {
		Name     string
		Email    string
		Password string
		Roles    []string
	}{
		{"Test User", "test@user.com", "password", []string{"customer"}},
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		users = append(users, struct {
			Name     string
			Email    string
			Password string
			Roles    []string
		}{"Administrator", cfg.AdminEmail, cfg.AdminPassword, []string{"customer", "admin"}})
	} else {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin user")
	}

	log.Println("seeding users...")
	for _, u := range users {
		hash, err := argon2id.CreateHash(u.Password, argon2id.DefaultParams)
		if err != nil {
			log.Printf("hash for %s: %v", u.Email, err)
			continue
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO users (name, email, password_hash, roles)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO NOTHING;
		`, u.Name, u.Email, hash, u.Roles)
		if err != nil {
			log.Printf("user %s: %v", u.Email, err)
		}
	}
}
