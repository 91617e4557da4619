package challenge

// Objects a player can pick, in display order.
var objects = []string{"rock", "paper", "scissors"}

var beats = map[string]string{
	"rock":     "scissors",
	"scissors": "paper",
	"paper":    "rock",
}

// Outcome of a round from the first player's point of view.
type Outcome int

const (
	Draw Outcome = iota
	FirstWins
	SecondWins
)

// Compare plays first against second. Both must be known objects.
func Compare(first, second string) Outcome {
	switch {
	case first == second:
		return Draw
	case beats[first] == second:
		return FirstWins
	}
	return SecondWins
}

func label(object string) string {
	switch object {
	case "rock":
		return "Rock"
	case "paper":
		return "Paper"
	case "scissors":
		return "Scissors"
	}
	return object
}
