package root

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/engine"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

func newCustomizeCmd() *cobra.Command {
	var of overrideFlags

	cmd := &cobra.Command{
		Use:   "customize [activity_id]",
		Short: "Change how an activity looks everywhere it is scheduled",
		Long: `Save your own title, duration, points, difficulty or category for an
activity. Only the flags you pass are changed; earlier customizations of the
other fields are kept. Without arguments, lists your customizations.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			overrides, err := of.overrides(cmd)
			if err != nil {
				return err
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 0 {
				prefs, err := svc.Customizations(ctx, owner())
				if err != nil {
					return err
				}
				printCustomizations(cmd.OutOrStdout(), prefs)
				return nil
			}
			if overrides.IsEmpty() {
				return errors.New("nothing to change: pass at least one field flag")
			}

			pref, err := svc.Customize(ctx, owner(), args[0], overrides)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconSparkle+" Customized"), pref.ActivityID, ui.Muted.Render(describeOverrides(pref.Overrides)))
			return nil
		},
	}

	of.register(cmd)
	return cmd
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset <activity_id>",
		Short: "Drop your customization of an activity",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("activity_id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			removed, err := svc.ResetCustomization(ctx, owner(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(ui.IconInfo+" "+args[0]+" was not customized"))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render(ui.IconLoop+" Reset"), args[0])
			return nil
		},
	}
	return cmd
}

func printCustomizations(out io.Writer, prefs []engine.Preference) {
	fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Customizations"))
	if len(prefs) == 0 {
		fmt.Fprintln(out, ui.Muted.Render("(none)"))
		return
	}
	for _, p := range prefs {
		fmt.Fprintf(out, "- %s %s\n", ui.Key.Render(p.ActivityID), ui.Muted.Render(describeOverrides(p.Overrides)))
	}
}

func describeOverrides(o engine.Overrides) string {
	var parts []string
	if v, ok := o.Title.Get(); ok {
		parts = append(parts, fmt.Sprintf("title=%q", v))
	}
	if v, ok := o.Description.Get(); ok {
		parts = append(parts, fmt.Sprintf("description=%q", v))
	}
	if v, ok := o.Duration.Get(); ok {
		parts = append(parts, "duration="+v)
	}
	if v, ok := o.Icon.Get(); ok {
		parts = append(parts, "icon="+v)
	}
	if v, ok := o.Points.Get(); ok {
		parts = append(parts, fmt.Sprintf("points=%d", v))
	}
	if v, ok := o.Difficulty.Get(); ok {
		parts = append(parts, fmt.Sprintf("difficulty=%d", v))
	}
	if v, ok := o.Category.Get(); ok {
		parts = append(parts, "category="+string(v))
	}
	return strings.Join(parts, " ")
}
