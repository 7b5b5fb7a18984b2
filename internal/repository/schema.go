package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the tables from the GORM models. It backs drivers
// without SQL migration files (MySQL) and the integration tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&GuesthouseModel{}, &CustomerModel{}, &BookingModel{})
}
