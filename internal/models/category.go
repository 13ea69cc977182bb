package models

type Category struct {
	ID int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	NameSlug
}

func (Category) TableName() string {
	return "categories"
}
