package models

// Item represents one purchasable row in the catalog
type Item struct {
	ID       int    `bson:"_id" json:"id"`
	Title    string `bson:"title" json:"title"`
	Price    int    `bson:"price" json:"price"`
	IsActive bool   `bson:"is_active" json:"isActive"`
	Text     string `bson:"text" json:"text"`
}
