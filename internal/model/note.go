package model

// swagger:model Note
type Note struct {
	BaseModel
	UserID     uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	DocumentID *uint  `gorm:"index;type:bigint unsigned" json:"documentId,omitempty"`
	Title      string `gorm:"size:255;not null" json:"title"`
	Content    string `gorm:"type:longtext" json:"content"`
}

func (Note) TableName() string {
	return "notes"
}
