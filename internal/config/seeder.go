package config

import (
	"log"
	"time"

	"tefa-hub/internal/adapters/persistence/models"
	"tefa-hub/internal/core/domain"
	"tefa-hub/internal/pkg/password"

	"gorm.io/gorm"
)

// SeedBootstrapData populates demo accounts, catalog entries and two
// demo orders — but only into collections that are still empty. Once
// any record exists in a collection, that collection is left alone.
func SeedBootstrapData(db *gorm.DB) error {
	if err := seedUsers(db); err != nil {
		return err
	}
	if err := seedCategories(db); err != nil {
		return err
	}
	if err := seedProjectTypes(db); err != nil {
		return err
	}
	if err := seedOrders(db); err != nil {
		return err
	}

	log.Println("✅ Bootstrap data seeded successfully")
	return nil
}

func seedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// Demo credentials: every account uses password "123"
	hashed, err := password.Hash("123")
	if err != nil {
		return err
	}

	users := []models.User{
		{ID: "a1", Role: string(domain.RoleAdmin), Name: "Bu Siti (Administrator)", Username: "admin", Password: hashed},
		{ID: "c1", Role: string(domain.RoleClient), Name: "PT Maju Bersama", Username: "client", Password: hashed},
		{ID: "t1", Role: string(domain.RoleTeacher), Name: "Pak Budi (Guru/Pembimbing)", Username: "guru", Password: hashed},
		{ID: "s1", Role: string(domain.RoleStudent), Name: "Andi Saputra (Murid)", ClassName: "XII RPL 1", Username: "andi", Password: hashed},
		{ID: "s2", Role: string(domain.RoleStudent), Name: "Budi Santoso (Murid)", ClassName: "XII MM 2", Username: "budi", Password: hashed},
	}

	for _, u := range users {
		if err := db.Create(&u).Error; err != nil {
			return err
		}
		log.Printf("   Created user: %s [%s]", u.Username, u.Role)
	}
	return nil
}

func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{ID: "cat1", Name: "Website & Aplikasi"},
		{ID: "cat2", Name: "Desain Grafis"},
		{ID: "cat3", Name: "Video & Animasi"},
	}

	for _, c := range categories {
		if err := db.Create(&c).Error; err != nil {
			return err
		}
		log.Printf("   Created category: %s", c.Name)
	}
	return nil
}

func seedProjectTypes(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ProjectType{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	projectTypes := []models.ProjectType{
		{ID: "pt1", Name: "Sekolah", MaxPoints: 100},
		{ID: "pt2", Name: "Perorangan", MaxPoints: 80},
		{ID: "pt3", Name: "Perusahaan", MaxPoints: 150},
	}

	for _, pt := range projectTypes {
		if err := db.Create(&pt).Error; err != nil {
			return err
		}
		log.Printf("   Created project type: %s (max %d points)", pt.Name, pt.MaxPoints)
	}
	return nil
}

func seedOrders(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	deadline1 := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	deadline2 := time.Date(2026, 2, 28, 0, 0, 0, 0, time.Local)

	orders := []models.Order{
		{
			ID:          "1",
			Title:       "Pembuatan Website Company Profile",
			Description: "Membutuhkan website company profile dengan 5 halaman: Home, About, Services, Portfolio, Contact.",
			ClientID:    "c1",
			Status:      string(domain.StatusPending),
			StudentIDs:  []string{},
			Progress:    0,
			Deadline:    &deadline1,
			Category:    "Website & Aplikasi",
			ProjectType: "Perusahaan",
		},
		{
			ID:          "2",
			Title:       "Desain Logo Produk Baru",
			Description: "Desain logo untuk produk minuman kekinian. Gaya minimalis dan modern.",
			ClientID:    "c1",
			Status:      string(domain.StatusOpen),
			StudentIDs:  []string{},
			Progress:    0,
			Deadline:    &deadline2,
			Category:    "Desain Grafis",
			ProjectType: "Perorangan",
		},
	}

	for _, o := range orders {
		if err := db.Create(&o).Error; err != nil {
			return err
		}
		log.Printf("   Created order: %s [%s]", o.Title, o.Status)
	}
	return nil
}
