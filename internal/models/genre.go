package models

type Genre struct {
	ID int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	NameSlug
}

func (Genre) TableName() string {
	return "genres"
}
