package root

import (
	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
)

// overrideFlags binds the customizable fields; only flags the user passed
// become set overrides.
type overrideFlags struct {
	title       string
	description string
	duration    string
	icon        string
	points      int
	difficulty  int
	category    string
}

func (f *overrideFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Title")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.duration, "duration", "", "Duration, e.g. \"15 min\"")
	cmd.Flags().StringVar(&f.icon, "icon", "", "Icon")
	cmd.Flags().IntVar(&f.points, "points", 0, "Points awarded on completion")
	cmd.Flags().IntVarP(&f.difficulty, "diff", "d", 0, "Difficulty (1-9)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category (mindfulness|decision-making|communication|reflection|physical|creative|learning)")
}

func (f *overrideFlags) overrides(cmd *cobra.Command) (engine.Overrides, error) {
	var o engine.Overrides
	changed := cmd.Flags().Changed
	if changed("title") {
		o.Title = engine.Some(f.title)
	}
	if changed("description") {
		o.Description = engine.Some(f.description)
	}
	if changed("duration") {
		o.Duration = engine.Some(f.duration)
	}
	if changed("icon") {
		o.Icon = engine.Some(f.icon)
	}
	if changed("points") {
		o.Points = engine.Some(f.points)
	}
	if changed("diff") {
		d, err := engine.ParseDifficulty(f.difficulty)
		if err != nil {
			return o, err
		}
		o.Difficulty = engine.Some(d)
	}
	if changed("category") {
		c, err := engine.ParseCategory(f.category)
		if err != nil {
			return o, err
		}
		o.Category = engine.Some(c)
	}
	return o, nil
}
