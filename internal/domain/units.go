package domain

// Unit conversions. Pure and stateless; negative inputs pass through
// unchanged (caller responsibility).

// MetersPerStep is the average stride used to convert raw step counts
// into simulated trail distance.
const MetersPerStep = 0.762

// StepsToMeters converts a step count to meters.
func StepsToMeters(steps int64) float64 {
	return float64(steps) * MetersPerStep
}

// MetersToKm converts meters to kilometers.
func MetersToKm(meters float64) float64 {
	return meters / 1000
}

// KmToMeters converts kilometers to meters.
func KmToMeters(km float64) float64 {
	return km * 1000
}

// MetersToMiles converts meters to miles.
func MetersToMiles(meters float64) float64 {
	return meters * 0.000621371
}
