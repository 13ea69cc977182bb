package models

type Review struct {
	ID int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Authored
	AuthorID string `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_title_author"`
	TitleID  int64  `json:"-" gorm:"not null;uniqueIndex:idx_reviews_title_author;index"`
	Score    int    `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`

	// Associations
	Author   User      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title    Title     `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
	Comments []Comment `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
