package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"desteiger-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "desteiger_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func feePtr(cents int64) *int64 { return &cents }

// SeedDatabase ensures a super admin and a starter catalog exist. Safe to run
// on every boot; it only inserts into empty tables.
func SeedDatabase() {
	var adminCount int64
	DB.Model(&models.Profile{}).Where("role IN ?", []string{
		string(models.RoleAdmin), string(models.RoleSuperAdmin),
	}).Count(&adminCount)
	if adminCount == 0 {
		email := envOrDefault("ADMIN_EMAIL", "admin@desteiger.local")
		password := envOrDefault("ADMIN_PASSWORD", "admin123")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.Profile{
				Email:     email,
				FirstName: "De Steiger",
				LastName:  "Beheer",
				Password:  string(hash),
				Role:      models.RoleSuperAdmin,
			}
			if err := DB.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	var propertyCount int64
	DB.Model(&models.Property{}).Count(&propertyCount)
	if propertyCount == 0 {
		properties := []models.Property{
			{
				Slug: "bedrijfsunit-1", Name: "Bedrijfsunit 1", Type: models.PropertyTypeBedrijfsunit,
				UnitNumber: "1", TypeNumber: 1,
				GrossAreaM2: 120, NetAreaM2: 110, GroundFloorAreaM2: 80, MezzanineAreaM2: 40,
				SalePriceCents: 24950000, Status: models.PropertyStatusAvailable, ParkingSpaces: 2,
			},
			{
				Slug: "bedrijfsunit-2", Name: "Bedrijfsunit 2", Type: models.PropertyTypeBedrijfsunit,
				UnitNumber: "2", TypeNumber: 2,
				GrossAreaM2: 150, NetAreaM2: 138, GroundFloorAreaM2: 100, MezzanineAreaM2: 50,
				SalePriceCents: 29950000, Status: models.PropertyStatusAvailable, ParkingSpaces: 2,
			},
			{
				Slug: "bedrijfsunit-3", Name: "Bedrijfsunit 3", Type: models.PropertyTypeBedrijfsunit,
				UnitNumber: "3", TypeNumber: 3,
				GrossAreaM2: 180, NetAreaM2: 165, GroundFloorAreaM2: 120, MezzanineAreaM2: 60,
				SalePriceCents: 34950000, Status: models.PropertyStatusAvailable, ParkingSpaces: 3,
			},
			{
				Slug: "opslagbox-1", Name: "Opslagbox 1", Type: models.PropertyTypeOpslagbox,
				UnitNumber: "B1", TypeNumber: 101,
				GrossAreaM2: 24, NetAreaM2: 22, GroundFloorAreaM2: 24,
				SalePriceCents: 4950000, ReservationFeeCents: feePtr(100000),
				Status: models.PropertyStatusAvailable,
			},
			{
				Slug: "opslagbox-2", Name: "Opslagbox 2", Type: models.PropertyTypeOpslagbox,
				UnitNumber: "B2", TypeNumber: 102,
				GrossAreaM2: 24, NetAreaM2: 22, GroundFloorAreaM2: 24,
				SalePriceCents: 4950000, ReservationFeeCents: feePtr(100000),
				Status: models.PropertyStatusAvailable,
			},
		}
		if err := DB.Create(&properties).Error; err != nil {
			log.Printf("warning: failed to seed properties: %v", err)
		} else {
			log.Println("Catalog seeded")
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order
	if err := DB.AutoMigrate(
		&models.Profile{},
		&models.Property{},
		&models.Reservation{},
		&models.Inquiry{},
		&models.PaymentEvent{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
