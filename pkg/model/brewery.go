package model

import (
	"gorm.io/gorm"
)

type Brewery struct {
	gorm.Model
	FestivalID  string `gorm:"uniqueIndex"`
	Name        string
	Description string
}
