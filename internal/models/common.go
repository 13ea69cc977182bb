package models

import "time"

// NameSlug is the shared field group for catalog entities addressed by slug.
type NameSlug struct {
	Name string `gorm:"size:256;not null;index" json:"name"`
	Slug string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
}

// Authored is the shared field group for user-written content.
// AuthorID lives on each concrete model because the review table needs it
// inside a composite unique index.
type Authored struct {
	Text    string    `gorm:"type:text;not null" json:"text"`
	PubDate time.Time `gorm:"column:pub_date;autoCreateTime" json:"pub_date"`
}
