package model

const (
	PricePremium  = 5000
	PriceStandard = 1000
	MaxRating     = 5.0
)

// PriceFor returns the tier price: creator originals are premium, global volumes standard.
func PriceFor(isCreatorOriginal bool) int {
	if isCreatorOriginal {
		return PricePremium
	}
	return PriceStandard
}

type Book struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Author            string   `json:"author"`
	Price             int      `json:"price"`
	Description       string   `json:"description"`
	CoverURL          string   `json:"cover_url"`
	Category          Category `json:"category"`
	Rating            float64  `json:"rating"`
	IsCreatorOriginal bool     `json:"is_creator_original"`
	Pages             int      `json:"pages"`
	PublishedYear     int      `json:"published_year"`
}

// VolumeDraft is a user-submitted volume before it gets an id, price and rating.
type VolumeDraft struct {
	Title             string   `json:"title" validate:"required"`
	Author            string   `json:"author" validate:"required"`
	Description       string   `json:"description"`
	CoverURL          string   `json:"cover_url" validate:"required"`
	Category          Category `json:"category" validate:"required,category"`
	IsCreatorOriginal bool     `json:"is_creator_original"`
	Pages             int      `json:"pages" validate:"gte=0"`
	PublishedYear     int      `json:"published_year" validate:"gte=0"`
}

const (
	DefaultDraftAuthor        = "Princewill Cosmas"
	DefaultDraftPages         = 300
	DefaultDraftPublishedYear = 2024
)

// NewVolumeDraft returns a draft prefilled the way the upload form starts out.
func NewVolumeDraft() VolumeDraft {
	return VolumeDraft{
		Author:            DefaultDraftAuthor,
		Category:          CategoryOwnershipFree,
		IsCreatorOriginal: true,
		Pages:             DefaultDraftPages,
		PublishedYear:     DefaultDraftPublishedYear,
	}
}
