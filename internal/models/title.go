package models

type Title struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"size:200;not null;index"`
	Year        int     `json:"year" gorm:"not null"`
	Description *string `json:"description,omitempty" gorm:"size:200"`
	CategoryID  *int64  `json:"-" gorm:"index"`

	// Associations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genres,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
	Reviews  []Review  `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`

	// Average review score, computed on read; never stored
	Rating *float64 `json:"rating" gorm:"-"`
}

func (Title) TableName() string {
	return "titles"
}
