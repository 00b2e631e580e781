package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"farmlink/internal/auth"
	"farmlink/internal/config"
	"farmlink/internal/db"
	"farmlink/internal/model"
	"farmlink/internal/repository"
)

// seedFarm bundles one demo account with its farm and products.
type seedFarm struct {
	Username string
	Email    string
	Farm     model.Farmer
	Products []model.Product
}

var demoFarms = []seedFarm{
	{
		Username: "greenacres",
		Email:    "maria@greenacres.example.com",
		Farm: model.Farmer{
			FarmName:    "Green Acres Farm",
			FirstName:   "Maria",
			LastName:    "Lopez",
			Location:    "Salinas, CA",
			Phone:       "831-555-0101",
			Description: "Family-run organic vegetable farm, third generation.",
		},
		Products: []model.Product{
			{Name: "Heirloom Tomatoes", Category: "vegetables", Price: decimal.NewFromFloat(4.50), Unit: "lb", StockQuantity: 120, IsAvailable: true},
			{Name: "Butter Lettuce", Category: "vegetables", Price: decimal.NewFromFloat(2.25), Unit: "head", StockQuantity: 80, IsAvailable: true},
			{Name: "Rainbow Carrots", Category: "vegetables", Price: decimal.NewFromFloat(3.00), Unit: "bunch", StockQuantity: 60, IsAvailable: true},
		},
	},
	{
		Username: "sunnyhollow",
		Email:    "james@sunnyhollow.example.com",
		Farm: model.Farmer{
			FarmName:    "Sunny Hollow Orchard",
			FirstName:   "James",
			LastName:    "Whitfield",
			Location:    "Yakima, WA",
			Phone:       "509-555-0144",
			Description: "Apples, stone fruit and pressed cider since 1987.",
		},
		Products: []model.Product{
			{Name: "Honeycrisp Apples", Category: "fruit", Price: decimal.NewFromFloat(2.80), Unit: "lb", StockQuantity: 400, IsAvailable: true},
			{Name: "Fresh Cider", Category: "beverages", Price: decimal.NewFromFloat(8.00), Unit: "gallon", StockQuantity: 35, IsAvailable: true},
		},
	},
	{
		Username: "millcreek",
		Email:    "dana@millcreekdairy.example.com",
		Farm: model.Farmer{
			FarmName:    "Mill Creek Dairy",
			FirstName:   "Dana",
			LastName:    "Okafor",
			Location:    "Tillamook, OR",
			Phone:       "503-555-0172",
			Description: "Small-batch cheese and pasture-raised eggs.",
		},
		Products: []model.Product{
			{Name: "Aged Cheddar", Category: "dairy", Price: decimal.NewFromFloat(12.00), Unit: "lb", StockQuantity: 25, IsAvailable: true},
			{Name: "Pasture Eggs", Category: "dairy", Price: decimal.NewFromFloat(6.50), Unit: "dozen", StockQuantity: 90, IsAvailable: true},
			{Name: "Fresh Mozzarella", Category: "dairy", Price: decimal.NewFromFloat(9.00), Unit: "lb", StockQuantity: 0, IsAvailable: false},
		},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Farmer{},
		&model.Product{},
		&model.Inquiry{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	users := repository.NewUserRepository(gormDB)
	farmers := repository.NewFarmerRepository(gormDB)
	products := repository.NewProductRepository(gormDB)
	inquiries := repository.NewInquiryRepository(gormDB)
	hasher := auth.NewHasher(cfg.BcryptCost)

	ctx := context.Background()

	if err := seedAdmin(ctx, users, hasher); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	created := 0
	for _, farm := range demoFarms {
		ok, err := seedFarmAccount(ctx, users, farmers, products, inquiries, hasher, farm)
		if err != nil {
			log.Fatalf("Failed to seed %s: %v", farm.Username, err)
		}
		if ok {
			created++
		}
	}

	log.Printf("Seed completed: %d of %d demo farms created", created, len(demoFarms))
}

// seedAdmin creates the admin account when it does not exist yet. Credentials
// come from the environment so the default never ships to production.
func seedAdmin(ctx context.Context, users repository.UserRepository, hasher *auth.Hasher) error {
	username := envOr("ADMIN_USERNAME", "admin")
	if _, err := users.FindByUsername(ctx, username); err == nil {
		log.Printf("Admin %q already exists, skipping", username)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check admin: %w", err)
	}

	digest, err := hasher.Hash(envOr("ADMIN_PASSWORD", "admin123"))
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &model.User{
		Username:     username,
		Email:        envOr("ADMIN_EMAIL", "admin@farmlink.example.com"),
		PasswordHash: digest,
		Role:         model.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("Admin %q created", username)
	return nil
}

// seedFarmAccount creates one demo user with its farm, products and a sample
// inquiry. Existing accounts are left alone so the script stays re-runnable.
func seedFarmAccount(
	ctx context.Context,
	users repository.UserRepository,
	farmers repository.FarmerRepository,
	products repository.ProductRepository,
	inquiries repository.InquiryRepository,
	hasher *auth.Hasher,
	farm seedFarm,
) (bool, error) {
	if _, err := users.FindByUsername(ctx, farm.Username); err == nil {
		log.Printf("User %q already exists, skipping", farm.Username)
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("check user: %w", err)
	}

	digest, err := hasher.Hash("farmer123")
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		Username:     farm.Username,
		Email:        farm.Email,
		PasswordHash: digest,
		Role:         model.RoleUser,
	}
	if err := users.Create(ctx, user); err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}

	profile := farm.Farm
	profile.UserID = user.ID
	if err := farmers.CreateWithOwnerPromotion(ctx, &profile); err != nil {
		return false, fmt.Errorf("create farmer profile: %w", err)
	}

	for _, p := range farm.Products {
		product := p
		product.FarmerID = profile.ID
		if err := products.Create(ctx, &product); err != nil {
			return false, fmt.Errorf("create product %q: %w", product.Name, err)
		}
	}

	inquiry := &model.Inquiry{
		FarmerID:      profile.ID,
		CustomerName:  "Sam Taylor",
		CustomerEmail: "sam.taylor@example.com",
		Message:       fmt.Sprintf("Hi, is %s open for farm pickup on weekends?", profile.FarmName),
		Status:        model.InquiryStatusNew,
	}
	if err := inquiries.Create(ctx, inquiry); err != nil {
		return false, fmt.Errorf("create inquiry: %w", err)
	}

	log.Printf("Seeded farm %q with %d products", profile.FarmName, len(farm.Products))
	return true, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
