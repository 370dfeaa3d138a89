package bot

import "fmt"

// identities are handed out in order to bots joining a room.
var identities = []string{
	"Whiskers", "Mittens", "Biscuit", "Pudding", "Noodle",
	"Clawdia", "Sir Pounce", "Tater", "Marmalade", "Gizmo",
}

// Name returns the first identity not already used by a bot in the room.
func Name(taken []string) string {
	used := make(map[string]bool, len(taken))
	for _, n := range taken {
		used[n] = true
	}
	for _, n := range identities {
		if !used[n] {
			return n
		}
	}
	for i := len(identities) + 1; ; i++ {
		n := fmt.Sprintf("Bot %d", i)
		if !used[n] {
			return n
		}
	}
}
