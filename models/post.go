package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories is the fixed set of topic tags a post can carry.
var Categories = []string{
	"business", "tech", "weather", "automotive", "pakistan",
	"global", "health", "sports", "islam", "education", "entertainment",
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Category  string             `bson:"category" json:"category"`
	ImageURL  string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Author    primitive.ObjectID `bson:"author,omitempty" json:"author,omitempty"`
	Likes     int                `bson:"likes" json:"likes"`
	Views     int                `bson:"views" json:"views"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
