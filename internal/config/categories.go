package config

// CategoryWeights orders command categories in listings. Unknown categories sort last.
var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"🏠 Immobilier":   10,
	"🎲 Gameplay":     20,
}

// CategoryWeight returns the sort weight for a category.
func CategoryWeight(category string) int {
	if w, ok := CategoryWeights[category]; ok {
		return w
	}
	return 1000
}
