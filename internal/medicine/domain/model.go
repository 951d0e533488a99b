// Package domain contains the medicine catalog model.
package domain

// Category is one of the fixed catalog categories.
type Category string

const (
	CategoryPainRelief      Category = "Pain Relief"
	CategoryAntibiotics     Category = "Antibiotics"
	CategoryAllergy         Category = "Allergy"
	CategoryCardiovascular  Category = "Cardiovascular"
	CategoryDigestiveHealth Category = "Digestive Health"
	CategoryDiabetes        Category = "Diabetes"
	CategoryRespiratory     Category = "Respiratory"
	CategoryHormones        Category = "Hormones"
	CategoryOther           Category = "Other"
)

var categories = []Category{
	CategoryPainRelief,
	CategoryAntibiotics,
	CategoryAllergy,
	CategoryCardiovascular,
	CategoryDigestiveHealth,
	CategoryDiabetes,
	CategoryRespiratory,
	CategoryHormones,
	CategoryOther,
}

// Categories returns the catalog categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Medicine is a canonical catalog record. ExpiryDate is a YYYY-MM-DD date.
type Medicine struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Category    Category `json:"category"`
	ExpiryDate  string   `json:"expiry_date"`
}
