package ui

import "math/rand/v2"

var encouragements = []string{
	"Consistency builds habits ✨",
	"You’re doing amazing today 💕",
	"Small steps every day 🌱",
	"You’re growing beautifully 🌸",
	"Keep it up, future you will thank you 🌿",
	"Progress, not perfection ⭐️",
	"Show up for yourself today ☀️",
	"One step at a time 🚶",
	"Tiny wins add up 📈",
	"Your effort matters, always 💫",
	"Breathe, do, smile 🙂",
	"Trust the process 🔄",
	"Today is a fresh start 🌅",
	"You’re building a better you 🧩",
	"Momentum starts now 🚀",
	"Proud of you for trying 🙌",
	"Discipline is self‑love 💚",
	"Do it for future you 🧭",
	"Keep going, you’ve got this 💪",
	"Focus on the next small action 🎯",
}

// pickEncouragement returns a random line different from current when
// there is a choice.
func pickEncouragement(intn func(int) int, current string) string {
	for range 3 {
		if s := encouragements[intn(len(encouragements))]; s != current {
			return s
		}
	}
	return encouragements[intn(len(encouragements))]
}

func defaultIntn(n int) int { return rand.IntN(n) }
