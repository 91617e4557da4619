package core

import "math/rand"

var emojis = []string{"😭", "😄", "😌", "🤓", "😎", "😤", "🤖", "😶‍🌫️", "🌏", "📸", "💿", "👋", "🌊", "✨"}

// randomEmoji is swapped in tests.
var randomEmoji = func() string {
	return emojis[rand.Intn(len(emojis))]
}
