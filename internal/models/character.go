package models

import "time"

// Character represents a stored character. Name is the lookup key clients use.
type Character struct {
	Name      string    `json:"nombre" gorm:"primaryKey"`
	ID        string    `json:"id" gorm:"uniqueIndex;not null"`
	Age       int       `json:"edad" gorm:"not null"`
	Attribute string    `json:"atributo" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Character Model
func (Character) TableName() string {
	return "characters"
}
