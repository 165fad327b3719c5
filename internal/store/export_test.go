package store

import "gorm.io/gorm"

// SharedTestDB returns the database behind the package tests. Writes through it are committed.
func SharedTestDB() *gorm.DB {
	return testDB
}
