package main

import (
	"time"

	"github.com/gearup-shop/internal/config"
	"github.com/gearup-shop/internal/constants"
	"github.com/gearup-shop/internal/logger"
	"github.com/gearup-shop/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 演示账号
	users := []models.User{
		{
			Email:        "seller@gearup.local",
			FirstName:    "Sam",
			LastName:     "Seller",
			AuthProvider: constants.AuthProviderPassword,
		},
		{
			Email:        "buyer@gearup.local",
			FirstName:    "Bea",
			LastName:     "Buyer",
			AuthProvider: constants.AuthProviderPassword,
		},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("gearup-demo-123"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash demo password: %v", err)
	}

	userIDs := map[string]uint{}
	for _, user := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", user.Email).First(&existing).Error; err != nil {
			user.PasswordHash = string(hash)
			user.IsAdmin = cfg.Admin.IsAdminEmail(user.Email)
			if err := models.DB.Create(&user).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", user.Email, err)
				continue
			}
			stdLog.Printf("Created user: %s", user.Email)
			userIDs[user.Email] = user.ID
			continue
		}
		stdLog.Printf("User already exists: %s", user.Email)
		userIDs[user.Email] = existing.ID
	}

	sellerID := userIDs["seller@gearup.local"]
	if sellerID == 0 {
		stdLog.Fatalf("Seed seller missing, aborting product seed")
	}

	now := time.Now().UTC()
	year2023 := 2023

	// 演示商品
	products := []models.Product{
		{
			SellerID:    sellerID,
			Name:        "Wilson Evolution Basketball",
			Description: "Indoor game ball with composite leather cover, lightly used for one season.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(39.99)),
			Brand:       "Wilson",
			Sport:       "basketball",
			Gender:      constants.ProductGenderUnisex,
			Size:        "7",
			Condition:   constants.ProductConditionGood,
			Quantity:    8,
			Featured:    true,
			DateListed:  now,
		},
		{
			SellerID:        sellerID,
			Name:            "Bauer Vapor X3 Skates",
			Description:     "Senior ice hockey skates, sharpened once, excellent boot stiffness.",
			Price:           models.NewMoneyFromDecimal(decimal.NewFromFloat(249.50)),
			Brand:           "Bauer",
			Sport:           "hockey",
			Gender:          constants.ProductGenderMen,
			Size:            "9.5",
			Condition:       constants.ProductConditionLikeNew,
			Quantity:        2,
			YearProductMade: &year2023,
			DateListed:      now,
		},
		{
			SellerID:    sellerID,
			Name:        "Nike Mercurial Youth Cleats",
			Description: "Outgrown after half a season, minor scuffs on the toe box.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(24.00)),
			Brand:       "Nike",
			Sport:       "soccer",
			Gender:      constants.ProductGenderUnisex,
			Size:        "4Y",
			YouthSize:   true,
			Condition:   constants.ProductConditionFair,
			Quantity:    1,
			DateListed:  now,
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("seller_id = ? AND name = ?", product.SellerID, product.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Name, err)
			} else {
				stdLog.Printf("Created product: %s", product.Name)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Name)
		}
	}

	stdLog.Printf("Seed finished")
}
