package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/Miian1/FamilyFinance/app/models"
	"github.com/Miian1/FamilyFinance/app/routes/auth"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

func main() {
	name := flag.String("name", "", "display name")
	email := flag.String("email", "", "email address")
	admin := flag.Bool("admin", false, "grant the admin role")
	flag.Parse()

	if *name == "" || *email == "" {
		fmt.Println("Usage: add_user -name \"Jane Doe\" -email jane@example.com [-admin]")
		os.Exit(1)
	}

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Printf("Failed to read password: %v\n", err)
		os.Exit(1)
	}
	if len(raw) < 8 {
		fmt.Println("Password must be at least 8 characters")
		os.Exit(1)
	}

	hashed, err := auth.HashPassword(string(raw))
	if err != nil {
		fmt.Printf("Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	if _, err := config.Init(); err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	db := config.GetDB()
	defer db.Close()

	role := models.RoleMember
	if *admin {
		role = models.RoleAdmin
	}

	ctx := context.Background()
	user := &models.User{
		Name:     strings.TrimSpace(*name),
		Email:    strings.ToLower(strings.TrimSpace(*email)),
		Password: hashed,
		Role:     role,
	}
	if err := database.CreateUser(ctx, db, user); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		os.Exit(1)
	}

	account := &models.Account{
		UserID:   user.ID,
		Name:     "Main Savings",
		Balance:  decimal.Zero,
		Currency: "USD",
		Type:     models.AccountPersonal,
	}
	if err := database.CreatePersonalAccount(ctx, db, account); err != nil {
		fmt.Printf("Warning: failed to create default account: %v\n", err)
	}

	fmt.Printf("User created successfully: %s (%s) role=%s\n", user.Name, user.Email, user.Role)
}
