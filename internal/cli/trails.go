package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/stridr-app/stridr/internal/daemon"
	"github.com/stridr-app/stridr/internal/domain"
)

func init() {
	trailsCmd.AddCommand(trailsSelectCmd)
	trailsCmd.AddCommand(trailsCancelCmd)
	rootCmd.AddCommand(trailsCmd)
}

var trailsCmd = &cobra.Command{
	Use:   "trails",
	Short: "List trails and manage the active selection",
	RunE:  runTrailsList,
}

var trailsSelectCmd = &cobra.Command{
	Use:   "select <trail-id>",
	Short: "Start a trail attempt (discards any attempt in progress)",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrailsSelect,
}

var trailsCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Abandon the active trail attempt",
	RunE:  runTrailsCancel,
}

func runTrailsList(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(rootCmd.Version)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()
	p, err := d.DB.GetProgress(ctx, d.Identity.UserID)
	if errors.Is(err, domain.ErrNoProgress) {
		p = domain.NewUserProgress(d.Identity.UserID, d.Identity.AccountCreatedAt)
	} else if err != nil {
		return err
	}
	prefs, err := d.DB.GetPreferences(ctx, d.Identity.UserID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tREGION\tDISTANCE\tSTATUS")
	for _, t := range d.Catalog.All() {
		status := ""
		switch {
		case p.SelectedTrailID == t.ID:
			status = fmt.Sprintf("active (%.1f%%)", p.TrailPercent(t.TotalDistanceMeters))
		case p.HasCompletedTrail(t.ID):
			status = "completed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Name, t.Region, formatDistance(t.TotalDistanceMeters, prefs.Units), status)
	}
	return w.Flush()
}

func runTrailsSelect(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(rootCmd.Version)
	if err != nil {
		return err
	}
	defer d.Close()

	p, err := d.Reconciler.SelectTrail(context.Background(), d.Identity, args[0], time.Now())
	if err != nil {
		return err
	}

	trail, _ := d.Catalog.Trail(p.SelectedTrailID)
	fmt.Printf("Started %s — %0.f km over a suggested %d days. Lace up!\n",
		trail.Name, domain.MetersToKm(trail.TotalDistanceMeters), trail.SuggestedDays)
	return nil
}

func runTrailsCancel(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(rootCmd.Version)
	if err != nil {
		return err
	}
	defer d.Close()

	if _, err := d.Reconciler.CancelTrail(context.Background(), d.Identity); err != nil {
		return err
	}
	fmt.Println("Trail attempt abandoned. Lifetime stats are untouched.")
	return nil
}
