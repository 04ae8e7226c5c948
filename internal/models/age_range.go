package models

// AgeRange classifies ages into a named bracket. Bounds are inclusive.
type AgeRange struct {
	ID        string `json:"id" gorm:"primaryKey"`
	RangeName string `json:"nombre_rango" gorm:"column:range_name;not null"`
	MinAge    int    `json:"edad_minima" gorm:"column:min_age;not null"`
	MaxAge    int    `json:"edad_maxima" gorm:"column:max_age;not null"`
}

// TableName specifies the table name for AgeRange Model
func (AgeRange) TableName() string {
	return "age_ranges"
}

// Contains reports whether age falls inside the range.
func (r AgeRange) Contains(age int) bool {
	return age >= r.MinAge && age <= r.MaxAge
}
