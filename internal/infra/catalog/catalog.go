// Package catalog provides the built-in trail reference data: route
// distances and ordered landmark offsets. The core never computes
// these; it only reads them.
package catalog

import "github.com/stridr-app/stridr/internal/domain"

// Trails is the catalog handed to the reconciler and the dashboard.
type Trails struct {
	trails []domain.Trail
	byID   map[string]domain.Trail
}

// New builds a catalog from a trail list.
func New(trails []domain.Trail) *Trails {
	byID := make(map[string]domain.Trail, len(trails))
	for _, t := range trails {
		byID[t.ID] = t
	}
	return &Trails{trails: trails, byID: byID}
}

// Builtin returns the catalog of shipping trails.
func Builtin() *Trails {
	return New(builtinTrails)
}

// Trail looks up a trail by id.
func (c *Trails) Trail(id string) (domain.Trail, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// All returns every trail in catalog order.
func (c *Trails) All() []domain.Trail {
	return c.trails
}

// Count returns the number of trails, the denominator for the
// all-trails badge.
func (c *Trails) Count() int {
	return len(c.trails)
}

// builtinTrails is the shipping route list. Distances are real-world
// route lengths; landmark offsets are cumulative meters from the
// trailhead, ascending.
var builtinTrails = []domain.Trail{
	{
		ID:                  "golden-gate-loop",
		Name:                "Golden Gate Loop",
		Region:              "California, USA",
		Description:         "A city-to-headlands loop over the Golden Gate Bridge.",
		TotalDistanceMeters: 18_000,
		SuggestedDays:       3,
		Landmarks: []domain.Landmark{
			{ID: "ggl-crissy", Name: "Crissy Field", DistanceMeters: 3_000},
			{ID: "ggl-fortpoint", Name: "Fort Point", DistanceMeters: 6_500},
			{ID: "ggl-bridge", Name: "Golden Gate Bridge", DistanceMeters: 9_000},
			{ID: "ggl-headlands", Name: "Marin Headlands", DistanceMeters: 13_500},
			{ID: "ggl-vista", Name: "Battery Spencer Vista", DistanceMeters: 16_500},
		},
	},
	{
		ID:                  "cinque-terre",
		Name:                "Cinque Terre Coastal Path",
		Region:              "Liguria, Italy",
		Description:         "Five cliffside villages linked by the Sentiero Azzurro.",
		TotalDistanceMeters: 35_000,
		SuggestedDays:       7,
		Landmarks: []domain.Landmark{
			{ID: "ct-riomaggiore", Name: "Riomaggiore", DistanceMeters: 4_000},
			{ID: "ct-manarola", Name: "Manarola", DistanceMeters: 10_000},
			{ID: "ct-corniglia", Name: "Corniglia", DistanceMeters: 18_000},
			{ID: "ct-vernazza", Name: "Vernazza", DistanceMeters: 26_000},
			{ID: "ct-monterosso", Name: "Monterosso al Mare", DistanceMeters: 33_000},
		},
	},
	{
		ID:                  "tour-mont-blanc",
		Name:                "Tour du Mont Blanc",
		Region:              "France / Italy / Switzerland",
		Description:         "The classic alpine circuit around the Mont Blanc massif.",
		TotalDistanceMeters: 170_000,
		SuggestedDays:       30,
		Landmarks: []domain.Landmark{
			{ID: "tmb-leshouches", Name: "Les Houches", DistanceMeters: 8_000},
			{ID: "tmb-contamines", Name: "Les Contamines", DistanceMeters: 24_000},
			{ID: "tmb-bonhomme", Name: "Col du Bonhomme", DistanceMeters: 45_000},
			{ID: "tmb-courmayeur", Name: "Courmayeur", DistanceMeters: 78_000},
			{ID: "tmb-ferret", Name: "Grand Col Ferret", DistanceMeters: 105_000},
			{ID: "tmb-champex", Name: "Champex-Lac", DistanceMeters: 128_000},
			{ID: "tmb-balme", Name: "Col de Balme", DistanceMeters: 150_000},
		},
	},
	{
		ID:                  "inca-trail",
		Name:                "Inca Trail",
		Region:              "Cusco, Peru",
		Description:         "Stone stairways and cloud forest to Machu Picchu.",
		TotalDistanceMeters: 43_000,
		SuggestedDays:       10,
		Landmarks: []domain.Landmark{
			{ID: "inca-llactapata", Name: "Llactapata", DistanceMeters: 8_000},
			{ID: "inca-deadwoman", Name: "Dead Woman's Pass", DistanceMeters: 18_000},
			{ID: "inca-runkurakay", Name: "Runkurakay", DistanceMeters: 25_000},
			{ID: "inca-winaywayna", Name: "Wiñay Wayna", DistanceMeters: 37_000},
			{ID: "inca-sungate", Name: "Inti Punku (Sun Gate)", DistanceMeters: 41_500},
		},
	},
	{
		ID:                  "kumano-kodo",
		Name:                "Kumano Kodo Nakahechi",
		Region:              "Wakayama, Japan",
		Description:         "Ancient pilgrimage route through cedar forest shrines.",
		TotalDistanceMeters: 70_000,
		SuggestedDays:       14,
		Landmarks: []domain.Landmark{
			{ID: "kk-takijiri", Name: "Takijiri-oji", DistanceMeters: 5_000},
			{ID: "kk-chikatsuyu", Name: "Chikatsuyu-oji", DistanceMeters: 17_000},
			{ID: "kk-hongu", Name: "Kumano Hongu Taisha", DistanceMeters: 38_000},
			{ID: "kk-yunomine", Name: "Yunomine Onsen", DistanceMeters: 42_000},
			{ID: "kk-nachi", Name: "Nachi Falls", DistanceMeters: 67_000},
		},
	},
	{
		ID:                  "west-highland-way",
		Name:                "West Highland Way",
		Region:              "Scotland, UK",
		Description:         "Lochside and moorland from Milngavie to Fort William.",
		TotalDistanceMeters: 154_000,
		SuggestedDays:       28,
		Landmarks: []domain.Landmark{
			{ID: "whw-drymen", Name: "Drymen", DistanceMeters: 19_000},
			{ID: "whw-balmaha", Name: "Balmaha", DistanceMeters: 31_000},
			{ID: "whw-inverarnan", Name: "Inverarnan", DistanceMeters: 64_000},
			{ID: "whw-tyndrum", Name: "Tyndrum", DistanceMeters: 85_000},
			{ID: "whw-glencoe", Name: "Glencoe", DistanceMeters: 122_000},
			{ID: "whw-fortwilliam", Name: "Fort William", DistanceMeters: 152_000},
		},
	},
}
