package catalog

import "github.com/iamvkosarev/stellar-archive/internal/model"

// SeedBooks returns a fresh copy of the archive's opening catalog.
func SeedBooks() []model.Book {
	return cloneBooks(seedBooks)
}

var seedBooks = []model.Book{
	{
		ID:                "pc-1",
		Title:             "The Silent Horizon",
		Author:            "Princewill Cosmas",
		Price:             model.PricePremium,
		Description:       "An exclusive masterpiece from the private collection exploring the deep silence of the cosmos and the echoes of human thought. A journey through the void where only wisdom remains.",
		CoverURL:          "https://images.unsplash.com/photo-1464802686167-b939a6910659?q=80&w=400&auto=format&fit=crop",
		Category:          model.CategoryOwnershipFree,
		Rating:            5.0,
		IsCreatorOriginal: true,
		Pages:             420,
		PublishedYear:     2024,
	},
	{
		ID:                "pc-0",
		Title:             "The Architect of Dreams",
		Author:            "Princewill Cosmas",
		Price:             model.PricePremium,
		Description:       "A surrealist exploration of the subconscious mind. This volume contains blueprints for navigating the astral planes and constructing internal sanctuaries.",
		CoverURL:          "https://images.unsplash.com/photo-1618005182384-a83a8bd57fbe?q=80&w=400&auto=format&fit=crop",
		Category:          model.CategoryOwnershipFree,
		Rating:            5.0,
		IsCreatorOriginal: true,
		Pages:             380,
		PublishedYear:     2025,
	},
	{
		ID:                "af-1",
		Title:             "Ancestral Shadows",
		Author:            "Princewill Cosmas",
		Price:             model.PricePremium,
		Description:       "A deep dive into native African spirituality and the folklore that shaped empires. Ownership-free for elite collectors who value the weight of heritage.",
		CoverURL:          "https://images.unsplash.com/photo-1523805081326-ed96227b7911?q=80&w=400&auto=format&fit=crop",
		Category:          model.CategoryAfricanHeritage,
		Rating:            4.9,
		IsCreatorOriginal: true,
		Pages:             310,
		PublishedYear:     2024,
	},
	{
		ID:                "sc-1",
		Title:             "Quantum Resonance",
		Author:            "Princewill Cosmas",
		Price:             model.PricePremium,
		Description:       "A technical yet poetic exploration of modern science and the laws of the universe. Part of the private collection, bridging physics and philosophy.",
		CoverURL:          "https://images.unsplash.com/photo-1635070041078-e363dbe005cb?q=80&w=400&auto=format&fit=crop",
		Category:          model.CategoryScience,
		Rating:            4.9,
		IsCreatorOriginal: true,
		Pages:             285,
		PublishedYear:     2024,
	},
	{
		ID:                "glob-1",
		Title:             "The Alchemist Path",
		Author:            "Elena Vance",
		Price:             model.PriceStandard,
		Description:       "A global bestseller following a young traveler through the deserts of ancient Egypt searching for the true source of wealth.",
		CoverURL:          "https://images.unsplash.com/photo-1544947950-fa07a98d237f?q=80&w=400&auto=format&fit=crop",
		Category:          model.CategoryFiction,
		Rating:            4.5,
		IsCreatorOriginal: false,
		Pages:             280,
		PublishedYear:     2023,
	},
	{
		ID:                "glob-2",
		Title:             "Beyond the Void",
		Author:            "Marcus Aurelius (Modern Edition)",
		Price:             model.PriceStandard,
		Description:       "Applying ancient philosophical principles to the vast emptiness of the modern digital age. A guide for the modern stoic.",
		CoverURL:          "https://images.unsplash.com/photo-1543004218-ee141104975a?q=80&w=400&auto=format&fit=crop",
		Category:          model.CategoryPhilosophy,
		Rating:            4.7,
		IsCreatorOriginal: false,
		Pages:             210,
		PublishedYear:     2022,
	},
}
