package domain

import "time"

type Post struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Content     string    `json:"content" bson:"content"`
	IsPublished bool      `json:"isPublished" bson:"isPublished"`
	Tags        []string  `json:"tags" bson:"tags"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

type PostPatch struct {
	Title       *string
	Content     *string
	IsPublished *bool
	Tags        *[]string
}
