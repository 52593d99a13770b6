package main

import (
	"log"

	"github.com/Miian1/FamilyFinance/app/config"
	"github.com/Miian1/FamilyFinance/app/database"
)

func main() {
	log.Println("Running migrations...")

	if _, err := config.Init(); err != nil {
		log.Fatal("Failed to initialize:", err)
	}
	db := config.GetDB()
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Migrations completed successfully")
}
