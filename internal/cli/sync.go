package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/stridr-app/stridr/internal/daemon"
	"github.com/stridr-app/stridr/internal/domain"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation cycle now",
	RunE:  runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(rootCmd.Version)
	if err != nil {
		return err
	}
	defer d.Close()

	res, err := d.Reconciler.Reconcile(context.Background(), d.Identity, time.Now())
	switch {
	case errors.Is(err, domain.ErrStepSourceUnavailable):
		fmt.Println("Step source unavailable — nothing synced, will retry next cycle.")
		return nil
	case err != nil:
		return err
	}

	if !res.Synced {
		fmt.Println("Already up to date.")
		return nil
	}

	fmt.Printf("Synced %d new steps (streak: %d days)\n", res.NewSteps, res.Streak)
	for _, id := range res.BadgesUnlocked {
		fmt.Printf("  Badge unlocked: %s\n", id)
	}
	if res.CompletedTrailID != "" {
		fmt.Printf("  Trail completed: %s\n", res.CompletedTrailID)
	}
	if res.Milestone > 0 {
		fmt.Printf("  Milestone: %.0f%%\n", res.Milestone)
	}
	for _, lm := range res.LandmarksReached {
		fmt.Printf("  Landmark reached: %s\n", lm)
	}
	if res.GoalAchieved {
		fmt.Println("  Daily goal achieved!")
	}
	return nil
}
