package detection

// Region is optional bounding metadata for a detected item, normalised to
// the [0,1] range.
type Region struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FoodIdentity is a single food item recognised in an image. Confidence is
// zero for the generative variant, which returns a bare name.
type FoodIdentity struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence,omitempty"`
	Region     *Region `json:"region,omitempty"`
}
