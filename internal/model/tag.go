package model

// Tag is a label attachable to many tasks.
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;size:50;not null"`

	// Relations
	Tasks []Task `json:"-" gorm:"many2many:task_tags"`
}
