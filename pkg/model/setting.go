package model

// Setting is one persisted key/value preference row.
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}
