package client

import (
	"log"
	"time"
	"winnerstore/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func InitMysqlClient(databaseURL string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	return db
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Affiliate{},
		&model.Referral{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Commission{},
		&model.UserCredit{},
		&model.CreditTransaction{},
		&model.WithdrawalRequest{},
		&model.PaymentProof{},
		&model.BusinessSetting{},
		&model.PaymentMethod{},
		&model.ContactMessage{},
	)
}
