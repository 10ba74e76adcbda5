package info

// Category selects the question template used for an info request. The set
// of valid categories is fixed and returned to the caller after detection.
type Category string

const (
	CategoryCalories      Category = "Calories content"
	CategoryDiabetic      Category = "Diabetic friendly?"
	CategoryPreparation   Category = "Preparation method"
	CategoryIngredients   Category = "Ingredients"
	CategoryNutrition     Category = "Nutritional content"
	CategoryAllergens     Category = "Allergen info"
	CategoryHypertension  Category = "Hypertension friendly?"
	CategoryKidney        Category = "Kidney safe?"
)

var categories = []Category{
	CategoryCalories,
	CategoryDiabetic,
	CategoryPreparation,
	CategoryIngredients,
	CategoryNutrition,
	CategoryAllergens,
	CategoryHypertension,
	CategoryKidney,
}

// Categories returns the fixed category set in presentation order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is a member of the fixed category set.
func Valid(c Category) bool {
	for _, known := range categories {
		if known == c {
			return true
		}
	}
	return false
}
