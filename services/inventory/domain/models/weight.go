package models

// NonNegativeWeight returns w unchanged when it is nil or >= 0 and nil
// otherwise. Negative weights are coerced to "unknown", never rejected.
func NonNegativeWeight(w *float64) *float64 {
	if w == nil || *w < 0 {
		return nil
	}
	v := *w
	return &v
}
