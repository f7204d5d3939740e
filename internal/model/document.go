package model

type DocumentStatus string

const (
	DocumentPending    DocumentStatus = "pending"
	DocumentProcessing DocumentStatus = "processing"
	DocumentCompleted  DocumentStatus = "completed"
	DocumentFailed     DocumentStatus = "failed"
)

// Document 用户上传的PDF文档，extracted_text 用于后续出题
// swagger:model Document
type Document struct {
	BaseModel
	UserID        uint           `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	FileName      string         `gorm:"size:255;not null" json:"fileName"`
	StoragePath   string         `gorm:"size:512;not null" json:"-"`
	FileSize      int64          `json:"fileSize"`
	PageCount     int            `json:"pageCount"`
	ExtractedText string         `gorm:"type:longtext" json:"-"`
	Status        DocumentStatus `gorm:"type:enum('pending','processing','completed','failed');default:'pending'" json:"status"`
}

func (Document) TableName() string {
	return "documents"
}
