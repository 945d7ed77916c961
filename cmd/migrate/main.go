package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	todorepo "github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/todo/repo"
	userrepo "github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/pkg/database"
	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/pkg/utilities"
)

// Standalone schema runner: creates the users and todos tables and their
// indexes, then exits. Safe to run repeatedly.
func main() {
	_ = godotenv.Load()

	lg, err := utilities.InitLogger(utilities.LogConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	cfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	sqlxDB := sqlx.NewDb(sqlDB, "postgres")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// users first: todos carries the FK
	if err := userrepo.NewUserRepo(sqlxDB).EnsureSchema(ctx); err != nil {
		sugar.Fatalf("users schema: %v", err)
	}
	if err := todorepo.NewTodoRepo(sqlxDB).EnsureSchema(ctx); err != nil {
		sugar.Fatalf("todos schema: %v", err)
	}

	sugar.Info("database migration completed")
}
