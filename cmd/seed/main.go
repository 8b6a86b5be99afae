package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"

	"questboard/internal/config"
	"questboard/internal/db"
	"questboard/internal/model"
	"questboard/internal/repository"
)

type seedUser struct {
	Name     string
	Email    string
	Password string
	XP       int
	IsAdmin  bool
}

var seedUsers = []seedUser{
	{Name: "Admin", Email: "admin@questboard.local", Password: "admin123", XP: 0, IsAdmin: true},
	{Name: "Alice", Email: "alice@questboard.local", Password: "password123", XP: 1200},
	{Name: "Bob", Email: "bob@questboard.local", Password: "password123", XP: 975},
	{Name: "Carol", Email: "carol@questboard.local", Password: "password123", XP: 3050},
}

var seedTags = []string{"work", "health", "home", "learning"}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()
	ctx := context.Background()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Level{}, &model.User{}, &model.Task{}, &model.Tag{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	levelRepo := repository.NewLevelRepository(gormDB)
	if err := levelRepo.Seed(ctx, model.DefaultLevels); err != nil {
		log.Fatalf("Failed to seed levels: %v", err)
	}
	log.Println("Level tiers seeded")

	levels, err := levelRepo.ListOrdered(ctx)
	if err != nil {
		log.Fatalf("Failed to load levels: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	created := 0
	for _, su := range seedUsers {
		if _, err := userRepo.FindByEmail(ctx, su.Email); err == nil {
			log.Printf("User %s already exists, skipping", su.Email)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), 10)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		user := &model.User{
			Name:         su.Name,
			Email:        su.Email,
			PasswordHash: string(hash),
			XP:           su.XP,
			LevelID:      levelIDFor(levels, su.XP),
			IsAdmin:      su.IsAdmin,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", su.Email, err)
		}
		created++

		for _, t := range demoTasks(user.ID) {
			task := t
			if err := taskRepo.Create(ctx, &task); err != nil {
				log.Fatalf("Failed to create task for %s: %v", su.Email, err)
			}
		}
	}
	log.Printf("Created %d users with demo tasks", created)

	tagRepo := repository.NewTagRepository(gormDB)
	for _, name := range seedTags {
		if err := tagRepo.Create(ctx, &model.Tag{Name: name}); err != nil {
			log.Printf("Tag %s not created (may already exist): %v", name, err)
		}
	}

	log.Println("Seed completed")
}

func levelIDFor(levels []model.Level, xp int) *uint {
	if len(levels) == 0 {
		return nil
	}
	current := levels[0]
	for _, lvl := range levels {
		if lvl.RequiredXP > xp {
			break
		}
		current = lvl
	}
	id := current.ID
	return &id
}

func demoTasks(userID uint) []model.Task {
	return []model.Task{
		{UserID: userID, Title: "Morning run", Category: model.CategoryHabit, XPValue: model.CategoryHabit.Reward(), Status: model.StatusPending},
		{UserID: userID, Title: "Read a chapter", Category: model.CategoryHabit, XPValue: model.CategoryHabit.Reward(), Status: model.StatusPending},
		{UserID: userID, Title: "File expense report", Category: model.CategoryTodo, XPValue: model.CategoryTodo.Reward(), Status: model.StatusPending},
	}
}
