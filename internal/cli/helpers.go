package cli

import (
	"fmt"

	"github.com/stridr-app/stridr/internal/domain"
)

// formatDistance renders meters in the user's preferred unit system.
func formatDistance(meters float64, units domain.UnitSystem) string {
	if units == domain.UnitsImperial {
		return fmt.Sprintf("%.1f mi", domain.MetersToMiles(meters))
	}
	return fmt.Sprintf("%.1f km", domain.MetersToKm(meters))
}
