package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/stridr-app/stridr/internal/app/dashboard"
	"github.com/stridr-app/stridr/internal/daemon"
	"github.com/stridr-app/stridr/internal/domain"
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show weekly trends, records, and goal progress",
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(rootCmd.Version)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()
	now := time.Now()

	history, err := d.DB.GetDailyLogs(ctx, d.Identity.UserID, "", "")
	if err != nil {
		return err
	}
	prefs, err := d.DB.GetPreferences(ctx, d.Identity.UserID)
	if err != nil {
		return err
	}
	p, err := d.DB.GetProgress(ctx, d.Identity.UserID)
	if errors.Is(err, domain.ErrNoProgress) {
		p = domain.NewUserProgress(d.Identity.UserID, d.Identity.AccountCreatedAt)
	} else if err != nil {
		return err
	}

	weekly := dashboard.Weekly(history, now)
	fmt.Printf("This week:  %d steps (%+d%% vs last week, trend %s)\n",
		weekly.ThisWeek, weekly.ChangePercent, weekly.Trend)
	fmt.Printf("This month: %d steps\n", dashboard.MonthlyTotal(history, now))

	rate := dashboard.GoalAchievementRate(history, prefs.DailyStepGoal, now)
	fmt.Printf("Goal rate:  %d%% (%d of %d days ≥ %d steps)\n",
		rate.Rate, rate.DaysHit, rate.Days, prefs.DailyStepGoal)

	records := dashboard.Records(history)
	if records.BestDay.Steps > 0 {
		fmt.Printf("Best day:   %d steps on %s\n", records.BestDay.Steps, records.BestDay.Period)
		fmt.Printf("Best week:  %d steps (week of %s)\n", records.BestWeek.Steps, records.BestWeek.Period)
		fmt.Printf("Best month: %d steps (%s)\n", records.BestMonth.Steps, records.BestMonth.Period)
	}

	fmt.Printf("Landmarks:  %d reached\n", dashboard.LandmarksReached(p, d.Catalog))

	if next := dashboard.NextBadgeProgress(p.Monthly); next != nil {
		fmt.Printf("Next badge: %s (%d%%)\n", next.Badge.Name, next.Percent)
	}
	return nil
}
