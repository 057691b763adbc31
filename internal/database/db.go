package database

import (
	"log"
	"os"
	"time"

	"github.com/steiner385/capacinator/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	createDefaultAdmin()
	seedReferenceData()
}

// Migrate applies the schema. Split out of Init so tests can run it
// against their own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Location{},
		&models.ProjectType{},
		&models.Person{},
		&models.Project{},
		&models.Assignment{},
		&models.AuditLog{},
	)
}

// admin comes from env only, never from the API
func createDefaultAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin@capacinator.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		log.Printf("failed to check admin user: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("failed to create default admin: %v", err)
		return
	}

	log.Printf("created default admin user: %s", username)
}

// reference catalogs the planner UI expects on a fresh install
func seedReferenceData() {
	roles := []string{"Developer", "Designer", "QA Engineer", "Project Manager", "Business Analyst"}
	for _, name := range roles {
		var count int64
		if err := DB.Model(&models.Role{}).Where("name = ?", name).Count(&count).Error; err != nil {
			log.Printf("failed to check role %s: %v", name, err)
			continue
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&models.Role{Name: name}).Error; err != nil {
			log.Printf("failed to seed role %s: %v", name, err)
		}
	}

	locations := []string{"New York", "London", "Remote"}
	for _, name := range locations {
		var count int64
		if err := DB.Model(&models.Location{}).Where("name = ?", name).Count(&count).Error; err != nil {
			log.Printf("failed to check location %s: %v", name, err)
			continue
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&models.Location{Name: name}).Error; err != nil {
			log.Printf("failed to seed location %s: %v", name, err)
		}
	}

	projectTypes := []string{"Client Delivery", "Internal", "R&D", "Maintenance"}
	for _, name := range projectTypes {
		var count int64
		if err := DB.Model(&models.ProjectType{}).Where("name = ?", name).Count(&count).Error; err != nil {
			log.Printf("failed to check project type %s: %v", name, err)
			continue
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&models.ProjectType{Name: name}).Error; err != nil {
			log.Printf("failed to seed project type %s: %v", name, err)
		}
	}
}
