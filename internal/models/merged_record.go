package models

import "time"

// MergedRecord is a character combined with its age range classification.
// There is at most one merged record per character name.
type MergedRecord struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"nombre" gorm:"uniqueIndex;not null"`
	Age       int       `json:"edad"`
	Attribute string    `json:"atributo"`
	RangeName string    `json:"nombre_rango" gorm:"column:range_name"`
	MergedAt  time.Time `json:"fecha_fusion" gorm:"column:merged_at"`
}

// TableName specifies the table name for MergedRecord Model
func (MergedRecord) TableName() string {
	return "merged_records"
}
