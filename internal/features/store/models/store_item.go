package models

const (
	ItemTypeGift  = "gift"
	ItemTypeBrush = "brush"
	ItemTypeTheme = "theme"
)

// StoreItem is a catalog entry purchasable with Telegram Stars.
// @Description Store catalog item
type StoreItem struct {
	ID          string `json:"id" example:"gift1"`
	ItemType    string `json:"item_type" example:"gift" enums:"gift,brush,theme"`
	Name        string `json:"name" example:"Букет роз"`
	Description string `json:"description" example:"Красивый анимированный букет для особого человека"`
	PriceStars  int64  `json:"price_stars" example:"50"`
	ImageURL    string `json:"image_url,omitempty"`
	Animation   string `json:"animation,omitempty" example:"falling_petals"`
	IsActive    bool   `json:"is_active" example:"true"`
}
