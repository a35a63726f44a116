package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	categoryDatamodel "github.com/frahmantamala/expensepro/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/expensepro/internal/core/datamodel/expense"
	userDatamodel "github.com/frahmantamala/expensepro/internal/core/datamodel/user"
	"github.com/frahmantamala/expensepro/internal/role"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, _, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data")
			for _, model := range []interface{}{
				&expenseDatamodel.Expense{},
				&userDatamodel.User{},
				&categoryDatamodel.ExpenseCategory{},
			} {
				if err := db.Where("1 = 1").Delete(model).Error; err != nil {
					log.Fatalf("failed to clear data: %v", err)
				}
			}
		}

		password := "password123"
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		mgr := func(id int64) *int64 { return &id }

		// Management chain: every user reports one level up, ending at the admin.
		seedUsers := []userDatamodel.User{
			{ID: 1, Name: "Admin User", Role: string(role.Admin), Email: "admin@company.com", ManagerID: nil},
			{ID: 2, Name: "Diana Director", Role: string(role.Director), Email: "director@company.com", ManagerID: mgr(1)},
			{ID: 3, Name: "Charles CFO", Role: string(role.CFO), Email: "cfo@company.com", ManagerID: mgr(2)},
			{ID: 4, Name: "John Manager", Role: string(role.Manager), Email: "manager@company.com", ManagerID: mgr(3)},
			{ID: 5, Name: "Alice Employee", Role: string(role.Employee), Email: "employee@company.com", ManagerID: mgr(4)},
			{ID: 6, Name: "Bob Employee", Role: string(role.Employee), Email: "employee2@company.com", ManagerID: mgr(4)},
		}

		for _, u := range seedUsers {
			var existing userDatamodel.User
			err := db.Where("email = ?", u.Email).First(&existing).Error
			if err == nil {
				fmt.Printf("user %s already exists, skipping\n", u.Email)
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Fatalf("failed to check user %s: %v", u.Email, err)
			}

			u.PasswordHash = string(hash)
			if err := db.Create(&u).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		seedCategories := []categoryDatamodel.ExpenseCategory{
			{Name: "Travel", Description: "Flights, hotels and ground transport", IsActive: true},
			{Name: "Food", Description: "Meals while on company business", IsActive: true},
			{Name: "Office Supplies", Description: "Stationery and small equipment", IsActive: true},
			{Name: "Other", Description: "Anything that fits no other bucket", IsActive: true},
		}

		for _, c := range seedCategories {
			var existing categoryDatamodel.ExpenseCategory
			err := db.Where("name = ?", c.Name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Fatalf("failed to check category %s: %v", c.Name, err)
			}
			if err := db.Create(&c).Error; err != nil {
				log.Fatalf("failed to insert category %s: %v", c.Name, err)
			}
			fmt.Println("Seeded category:", c.Name)
		}

		var expenseCount int64
		if err := db.Model(&expenseDatamodel.Expense{}).Count(&expenseCount).Error; err != nil {
			log.Fatalf("failed to count expenses: %v", err)
		}
		if expenseCount > 0 {
			fmt.Println("expenses already present, skipping expense seed")
			return
		}

		date := func(s string) time.Time {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				log.Fatalf("bad seed date %s: %v", s, err)
			}
			return t
		}
		comment := func(s string) *string { return &s }

		seedExpenses := []expenseDatamodel.Expense{
			{UserID: 5, ExpenseDate: date("2025-10-03"), Category: "Food", Description: "Client Lunch", Amount: 55.50, Currency: "USD", Status: "approved"},
			{UserID: 5, ExpenseDate: date("2025-10-02"), Category: "Travel", Description: "Taxi to Airport", Amount: 40.00, Currency: "USD", Status: "rejected", Comments: comment("Receipt was not clear.")},
			{UserID: 6, ExpenseDate: date("2025-10-04"), Category: "Office Supplies", Description: "New Keyboard", Amount: 75.00, Currency: "USD", Status: "pending"},
			{UserID: 4, ExpenseDate: date("2025-10-05"), Category: "Travel", Description: "Flight to Conference", Amount: 450.00, Currency: "EUR", Status: "pending"},
			{UserID: 3, ExpenseDate: date("2025-10-06"), Category: "Other", Description: "Industry Subscription", Amount: 1200.00, Currency: "USD", Status: "pending"},
		}

		for i := range seedExpenses {
			seedExpenses[i].SubmittedAt = seedExpenses[i].ExpenseDate
			if err := db.Create(&seedExpenses[i]).Error; err != nil {
				log.Fatalf("failed to insert seed expense: %v", err)
			}
		}
		fmt.Printf("Seeded %d expenses\n", len(seedExpenses))
	},
}
