package engine

import (
	"fmt"
	"strings"
)

// ParseCategory parses user input to a Category.
// Supported: mindfulness, decision-making, communication, reflection, physical,
// creative, learning, and a few common aliases.
func ParseCategory(input string) (Category, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	switch s {
	case "mindfulness", "mindful", "meditation":
		return CategoryMindfulness, nil
	case "decision-making", "decision", "decisions", "decisionmaking":
		return CategoryDecisionMaking, nil
	case "communication", "talk":
		return CategoryCommunication, nil
	case "reflection", "reflect", "journal":
		return CategoryReflection, nil
	case "physical", "exercise", "movement":
		return CategoryPhysical, nil
	case "creative", "creativity", "art":
		return CategoryCreative, nil
	case "learning", "study", "reading":
		return CategoryLearning, nil
	default:
		return "", ValidationError{Field: "category", Value: input}
	}
}

// ParseDifficulty parses a 1-9 difficulty.
func ParseDifficulty(n int) (Difficulty, error) {
	d := Difficulty(n)
	if !d.IsValid() {
		return 0, ValidationError{Field: "difficulty", Value: fmt.Sprintf("%d (want %d-%d)", n, DifficultyMin, DifficultyMax)}
	}
	return d, nil
}
