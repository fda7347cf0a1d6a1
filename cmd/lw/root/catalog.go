package root

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func newCatalogCmd() *cobra.Command {
	var roleModel string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List available activities and when they next occur",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := svc.Catalog(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Activity catalog"))

			now := time.Now()
			current := ""
			for _, t := range list {
				if roleModel != "" && !sameRoleModel(t.RoleModel, roleModel) {
					continue
				}
				if t.RoleModel != current {
					current = t.RoleModel
					fmt.Fprintln(out, "")
					fmt.Fprintln(out, ui.RoleModel(t.RoleModel, t.RoleModelColor))
				}
				fmt.Fprintf(out, "- %s %s %s %s\n",
					ui.CategoryIcon(t.Category), t.Title,
					ui.Muted.Render(fmt.Sprintf("[%s]", t.ID)),
					ui.Dim.Render(fmt.Sprintf("%s · %d pts · diff %d · %s", t.Duration, t.Points, t.Difficulty, t.Attribute)))
				fmt.Fprintf(out, "  %s\n", ui.Muted.Render(nextText(t, now)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&roleModel, "role-model", "r", "", "Only show one role model")
	return cmd
}

func nextText(t engine.ActivityTemplate, now time.Time) string {
	if t.Pattern == nil {
		return "on demand"
	}
	next, ok := engine.NextOccurrence(t.Pattern, now, engine.DefaultMaxDaysToCheck)
	if !ok {
		return fmt.Sprintf("%s, no upcoming date", t.Pattern.Type)
	}
	when := engine.FormatDate(next)
	if t.ScheduledTime != "" {
		when += " " + t.ScheduledTime
	}
	return fmt.Sprintf("%s, next %s", t.Pattern.Type, when)
}

// sameRoleModel matches a role model by case-insensitive prefix, so "marcus"
// finds "Marcus Aurelius".
func sameRoleModel(name, query string) bool {
	return strings.HasPrefix(strings.ToLower(name), strings.ToLower(strings.TrimSpace(query)))
}
