package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/railwatch/railwatch/internal/repository"
	"github.com/railwatch/railwatch/internal/service"
)

type output struct {
	Username string `json:"username"`
	Created  bool   `json:"created"`
	Migrated int    `json:"migrations_applied"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		username    = flag.String("username", "testuser", "Username to ensure")
		password    = flag.String("password", os.Getenv("BOOTSTRAP_PASSWORD"), "Password for a newly created user")
		migrate     = flag.Bool("migrate", true, "Apply pending migrations first")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if strings.TrimSpace(*username) == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "username and password are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	out := output{Username: *username}

	if *migrate {
		out.Migrated, err = repo.Migrate(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(1)
		}
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	accounts := service.NewAccountService(repo, quiet, nil)

	out.Created, err = accounts.EnsureUser(ctx, *username, *password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ensure user:", err)
		os.Exit(1)
	}

	switch strings.ToLower(*format) {
	case "plain":
		if out.Created {
			fmt.Printf("created user %s\n", out.Username)
		} else {
			fmt.Printf("user %s already exists\n", out.Username)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
