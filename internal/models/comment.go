package models

type Comment struct {
	ID int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Authored
	AuthorID string `json:"-" gorm:"type:uuid;not null;index"`
	ReviewID int64  `json:"-" gorm:"not null;index"`

	// Associations
	Author User   `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Review Review `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE;"`
}

func (Comment) TableName() string {
	return "comments"
}
