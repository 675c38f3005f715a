package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stridr-app/stridr/internal/daemon"
	"github.com/stridr-app/stridr/internal/domain"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current progress, streak, and active trail",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(rootCmd.Version)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()
	p, err := d.DB.GetProgress(ctx, d.Identity.UserID)
	if errors.Is(err, domain.ErrNoProgress) {
		fmt.Println("No activity yet. Push some steps and run `stridr sync`.")
		return nil
	}
	if err != nil {
		return err
	}

	prefs, err := d.DB.GetPreferences(ctx, d.Identity.UserID)
	if err != nil {
		return err
	}

	fmt.Printf("Lifetime:  %d steps, %s\n",
		p.Stats.TotalStepsLifetime, formatDistance(p.Stats.TotalDistanceMetersLifetime, prefs.Units))
	fmt.Printf("This month: %d steps, %s (%d badges)\n",
		p.Monthly.StepsThisMonth, formatDistance(p.Monthly.DistanceMetersThisMonth, prefs.Units),
		len(p.Monthly.UnlockedBadgeIDs))
	fmt.Printf("Streak:    %d days\n", p.CurrentStreak)
	fmt.Printf("Last sync: %s\n", p.LastSyncTime.Format("2006-01-02 15:04"))

	if p.SelectedTrailID == "" {
		fmt.Println("Trail:     none selected")
		return nil
	}

	trail, ok := d.Catalog.Trail(p.SelectedTrailID)
	if !ok {
		fmt.Printf("Trail:     %s (no longer in catalog)\n", p.SelectedTrailID)
		return nil
	}
	fmt.Printf("Trail:     %s — %s of %s (%.1f%%)\n",
		trail.Name,
		formatDistance(p.CurrentDistanceMeters, prefs.Units),
		formatDistance(trail.TotalDistanceMeters, prefs.Units),
		p.TrailPercent(trail.TotalDistanceMeters))
	return nil
}
