package service

import "telewall/internal/features/store/models"

// DefaultCatalog is written on first start when the catalog is empty.
func DefaultCatalog() []models.StoreItem {
	return []models.StoreItem{
		{ID: "gift1", ItemType: models.ItemTypeGift, Name: "Букет роз", Description: "Красивый анимированный букет для особого человека", PriceStars: 50, ImageURL: "https://cdn-icons-png.flaticon.com/512/4213/4213732.png", Animation: "falling_petals", IsActive: true},
		{ID: "gift2", ItemType: models.ItemTypeGift, Name: "Звездопад", Description: "Эффектная анимация звездопада на стене получателя", PriceStars: 100, ImageURL: "https://cdn-icons-png.flaticon.com/512/6002/6002029.png", Animation: "star_shower", IsActive: true},
		{ID: "gift3", ItemType: models.ItemTypeGift, Name: "Золотое сердце", Description: "Анимированное пульсирующее сердце", PriceStars: 75, ImageURL: "https://cdn-icons-png.flaticon.com/512/833/833472.png", Animation: "beating_heart", IsActive: true},
		{ID: "gift4", ItemType: models.ItemTypeGift, Name: "Конфетти", Description: "Яркий взрыв конфетти на стене получателя", PriceStars: 25, ImageURL: "https://cdn-icons-png.flaticon.com/512/6647/6647240.png", Animation: "confetti_explosion", IsActive: true},

		{ID: "brush1", ItemType: models.ItemTypeBrush, Name: "Неоновая кисть", Description: "Светящиеся неоновые линии для ваших рисунков", PriceStars: 150, ImageURL: "https://cdn-icons-png.flaticon.com/512/1250/1250615.png", IsActive: true},
		{ID: "brush2", ItemType: models.ItemTypeBrush, Name: "Акварельная кисть", Description: "Создавайте эффект акварельной живописи", PriceStars: 200, ImageURL: "https://cdn-icons-png.flaticon.com/512/5110/5110725.png", IsActive: true},
		{ID: "brush3", ItemType: models.ItemTypeBrush, Name: "Радужная кисть", Description: "Рисуйте линии с переливающимися цветами радуги", PriceStars: 250, ImageURL: "https://cdn-icons-png.flaticon.com/512/4662/4662973.png", IsActive: true},

		{ID: "theme1", ItemType: models.ItemTypeTheme, Name: "Ночное небо", Description: "Темная тема с анимированными звездами и луной", PriceStars: 300, ImageURL: "https://cdn-icons-png.flaticon.com/512/2949/2949022.png", IsActive: true},
		{ID: "theme2", ItemType: models.ItemTypeTheme, Name: "Киберпанк", Description: "Футуристический стиль с неоновыми элементами", PriceStars: 350, ImageURL: "https://cdn-icons-png.flaticon.com/512/2357/2357323.png", IsActive: true},
		{ID: "theme3", ItemType: models.ItemTypeTheme, Name: "Ретро волна", Description: "Стильная тема в эстетике 80-х годов", PriceStars: 275, ImageURL: "https://cdn-icons-png.flaticon.com/512/5266/5266866.png", IsActive: true},
	}
}
