package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Setting is a single key-value entry in the site settings store.
// Values are stored as JSON so strings, numbers, booleans and objects
// can all live in the same table.
type Setting struct {
	gorm.Model

	Key   string         `json:"key" gorm:"uniqueIndex;not null"`
	Value datatypes.JSON `json:"value" gorm:"type:jsonb"`
}
