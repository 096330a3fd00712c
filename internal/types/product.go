package types

// SimilarProduct is one entry from the listing page's related-products
// carousel. Title is truncated to 50 runes with a trailing ellipsis.
type SimilarProduct struct {
	ASIN  string `json:"asin"`
	Title string `json:"title"`
}

// ProductInfo holds the summary attributes extracted from a product
// listing page. Every field is independent: an attribute that fails to
// extract keeps its zero value, it does not fail the whole entity.
type ProductInfo struct {
	ProductName        string           `json:"product_name"`
	TotalReviews       int              `json:"total_reviews"`
	AvgRating          float64          `json:"avg_rating"`
	PositiveRatio      float64          `json:"positive_ratio"`
	NegativeRatio      float64          `json:"negative_ratio"`
	RatingDistribution map[int]int      `json:"rating_distribution"`
	SimilarProducts    []SimilarProduct `json:"similar_products"`
}
