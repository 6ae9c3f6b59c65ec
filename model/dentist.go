package model

import "gorm.io/gorm"

// Dentist is read-only from the application's perspective.
type Dentist struct {
	gorm.Model
	Name           string `json:"name" gorm:"column:name" example:"Dr. Sarah Johnson"`
	Specialization string `json:"specialization" gorm:"column:specialization" example:"Orthodontics"`
}

// SeedDentists populates the dentists table on first start. The application
// only ever reads dentists, so an empty table would leave nothing to book.
func SeedDentists(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Dentist{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	dentists := []Dentist{
		{Name: "Dr. Sarah Johnson", Specialization: "General Dentistry"},
		{Name: "Dr. Michael Lee", Specialization: "Orthodontics"},
		{Name: "Dr. Amina Yusuf", Specialization: "Periodontics"},
		{Name: "Dr. Tomas Ortega", Specialization: "Pediatric Dentistry"},
		{Name: "Dr. Elena Petrova", Specialization: "Endodontics"},
	}
	return db.Create(&dentists).Error
}
