package engine

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/storage"
)

// Role models of the built-in catalog and their display colors.
const (
	RoleModelMarcus   = "Marcus Aurelius"
	RoleModelCurie    = "Marie Curie"
	RoleModelLeonardo = "Leonardo da Vinci"
	RoleModelAngelou  = "Maya Angelou"
)

var roleModelColors = map[string]string{
	RoleModelMarcus:   "#8B5CF6",
	RoleModelCurie:    "#0EA5E9",
	RoleModelLeonardo: "#F97316",
	RoleModelAngelou:  "#EAB308",
}

func mustPattern(p RecurringPattern) *RecurringPattern {
	out, err := NewRecurringPattern(p)
	if err != nil {
		panic(err)
	}
	return out
}

func builtinCatalog() []ActivityTemplate {
	defs := []ActivityTemplate{
		{
			ID:            "marcus-morning-premeditation",
			Title:         "Morning premeditation",
			Description:   "Picture the obstacles the day may bring and decide now how you will meet them.",
			Duration:      "10 min",
			Difficulty:    3,
			Category:      CategoryReflection,
			Icon:          "🌅",
			Attribute:     "Equanimity",
			RoleModel:     RoleModelMarcus,
			ScheduledTime: "07:00",
			Pattern:       mustPattern(RecurringPattern{Type: PatternDaily, Interval: 1}),
		},
		{
			ID:          "marcus-view-from-above",
			Title:       "The view from above",
			Description: "Step back from a frustration and see it at the scale of a city, then a lifetime.",
			Duration:    "5 min",
			Difficulty:  2,
			Category:    CategoryMindfulness,
			Icon:        "🏛️",
			Attribute:   "Perspective",
			RoleModel:   RoleModelMarcus,
		},
		{
			ID:            "marcus-evening-review",
			Title:         "Evening review",
			Description:   "Ask what you did well, what you did badly and what you left undone.",
			Duration:      "15 min",
			Difficulty:    4,
			Category:      CategoryReflection,
			Icon:          "📓",
			Attribute:     "Self-Discipline",
			RoleModel:     RoleModelMarcus,
			ScheduledTime: "21:30",
			Pattern:       mustPattern(RecurringPattern{Type: PatternDaily, Interval: 1}),
		},
		{
			ID:            "curie-deep-work-block",
			Title:         "Deep work block",
			Description:   "Ninety minutes on one hard problem. No messages, no tabs.",
			Duration:      "90 min",
			Difficulty:    8,
			Category:      CategoryLearning,
			Icon:          "🔬",
			Attribute:     "Perseverance",
			RoleModel:     RoleModelCurie,
			ScheduledTime: "09:00",
			Pattern:       mustPattern(RecurringPattern{Type: PatternWeekly, DaysOfWeek: []int{1, 2, 3, 4, 5}}),
		},
		{
			ID:          "curie-evidence-check",
			Title:       "Check the evidence",
			Description: "Before a decision, write down what you know, what you assume and how to test it.",
			Duration:    "10 min",
			Difficulty:  5,
			Category:    CategoryDecisionMaking,
			Icon:        "⚖️",
			Attribute:   "Rigor",
			RoleModel:   RoleModelCurie,
		},
		{
			ID:            "leonardo-observation-sketch",
			Title:         "Observation sketch",
			Description:   "Draw one ordinary object exactly as it is, noting three things you never noticed.",
			Duration:      "20 min",
			Difficulty:    4,
			Category:      CategoryCreative,
			Icon:          "✏️",
			Attribute:     "Curiosity",
			RoleModel:     RoleModelLeonardo,
			ScheduledTime: "18:00",
			Pattern:       mustPattern(RecurringPattern{Type: PatternWeekly, DaysOfWeek: []int{1, 3, 5}}),
		},
		{
			ID:          "leonardo-walk-and-wonder",
			Title:       "Walk and wonder",
			Description: "A walk with one open question. Come back with a better question.",
			Duration:    "30 min",
			Difficulty:  3,
			Category:    CategoryPhysical,
			Icon:        "🚶",
			Attribute:   "Curiosity",
			RoleModel:   RoleModelLeonardo,
		},
		{
			ID:            "angelou-letter-to-self",
			Title:         "Letter to your future self",
			Description:   "Write honestly about where you are and who you are becoming.",
			Duration:      "25 min",
			Difficulty:    6,
			Category:      CategoryReflection,
			Icon:          "💌",
			Attribute:     "Courage",
			RoleModel:     RoleModelAngelou,
			ScheduledTime: "20:00",
			Pattern:       mustPattern(RecurringPattern{Type: PatternMonthly, DaysOfMonth: []int{1}}),
		},
		{
			ID:          "angelou-kind-word",
			Title:       "Say the kind word",
			Description: "Tell someone specifically what they did that mattered to you.",
			Duration:    "5 min",
			Difficulty:  2,
			Category:    CategoryCommunication,
			Icon:        "🤝",
			Attribute:   "Compassion",
			RoleModel:   RoleModelAngelou,
		},
	}
	for i := range defs {
		if defs[i].Points == 0 {
			defs[i].Points = DefaultPoints(defs[i].Difficulty)
		}
		defs[i].RoleModelColor = roleModelColors[defs[i].RoleModel]
	}
	return defs
}

// BuiltinCatalog returns a fresh copy of the seeded activity catalog.
func BuiltinCatalog() []ActivityTemplate {
	return builtinCatalog()
}

// SeedCatalog upserts the built-in catalog. It is safe to run repeatedly.
func (s *Service) SeedCatalog(ctx context.Context) (int, error) {
	defs := builtinCatalog()
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := storage.NewActivityRepo(tx)
		for i, def := range defs {
			if !def.Category.IsValid() {
				return fmt.Errorf("catalog %s: invalid category %q", def.ID, def.Category)
			}
			row, err := rowFromTemplate(def, i)
			if err != nil {
				return fmt.Errorf("catalog %s: %w", def.ID, err)
			}
			if err := repo.Upsert(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("catalog seeded", zap.Int("activities", len(defs)))
	return len(defs), nil
}
