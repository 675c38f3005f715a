package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stridr-app/stridr/internal/app/badge"
	"github.com/stridr-app/stridr/internal/daemon"
	"github.com/stridr-app/stridr/internal/domain"
)

func init() {
	rootCmd.AddCommand(badgesCmd)
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List badges and their unlock state",
	RunE:  runBadges,
}

func runBadges(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(rootCmd.Version)
	if err != nil {
		return err
	}
	defer d.Close()

	p, err := d.DB.GetProgress(context.Background(), d.Identity.UserID)
	if errors.Is(err, domain.ErrNoProgress) {
		p = domain.NewUserProgress(d.Identity.UserID, d.Identity.AccountCreatedAt)
	} else if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BADGE\tNAME\tUNLOCKED")
	for _, b := range badge.Catalog() {
		mark := ""
		if unlockedForDisplay(p, b) {
			mark = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.ID, b.Name, mark)
	}
	return w.Flush()
}

func unlockedForDisplay(p *domain.UserProgress, b domain.Badge) bool {
	switch b.ConditionType {
	case domain.CondMonthlySteps, domain.CondMonthlyDistance:
		return p.Monthly.HasBadge(b.ID)
	case domain.CondTrailsCompleted:
		return p.HasTrailBadge(b.ID)
	case domain.CondMonthlyMaster:
		return p.Monthly.MonthlyBadgeEarned
	case domain.CondYearlyChampion:
		for _, y := range p.Yearly {
			if y.YearlyBadgeEarned {
				return true
			}
		}
	}
	return false
}
