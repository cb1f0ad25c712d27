package model

// College tenant bound to an email domain (colleges)
type College struct {
	ID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name   string `gorm:"type:varchar(150);not null;uniqueIndex"         json:"name"`
	Domain string `gorm:"type:varchar(150);not null;uniqueIndex"         json:"domain"`
	Logo   string `gorm:"type:varchar(250);not null;default:''"          json:"logo"`
	BaseModel
}

func (College) TableName() string { return "colleges" }
