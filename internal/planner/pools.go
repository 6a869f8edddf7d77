package planner

import "github.com/voyage-planner/voyage/internal/domain"

var activityPools = map[string][]domain.Activity{
	"LAX": {
		{Name: "Hollywood Walk of Fame", Time: "Morning", Location: "Hollywood Blvd"},
		{Name: "Griffith Observatory", Time: "Afternoon", Location: "Griffith Park"},
		{Name: "Santa Monica Pier", Time: "Evening", Location: "Santa Monica"},
		{Name: "Getty Center", Time: "Morning", Location: "Brentwood"},
		{Name: "Venice Beach", Time: "Afternoon", Location: "Venice"},
		{Name: "Rodeo Drive", Time: "Morning", Location: "Beverly Hills"},
	},
	"SFO": {
		{Name: "Golden Gate Bridge", Time: "Morning", Location: "Golden Gate"},
		{Name: "Alcatraz Island Tour", Time: "Afternoon", Location: "Alcatraz"},
		{Name: "Fisherman's Wharf", Time: "Evening", Location: "Pier 39"},
		{Name: "Lombard Street", Time: "Morning", Location: "Russian Hill"},
		{Name: "Chinatown", Time: "Afternoon", Location: "Downtown"},
		{Name: "Union Square", Time: "Evening", Location: "Downtown"},
	},
	"MIA": {
		{Name: "South Beach", Time: "Morning", Location: "Miami Beach"},
		{Name: "Art Deco Historic District Tour", Time: "Afternoon", Location: "South Beach"},
		{Name: "Everglades National Park", Time: "Full Day", Location: "Everglades"},
		{Name: "Wynwood Walls", Time: "Morning", Location: "Wynwood"},
		{Name: "Little Havana", Time: "Afternoon", Location: "Calle Ocho"},
		{Name: "Bayside Marketplace", Time: "Evening", Location: "Downtown Miami"},
	},
	"PAR": {
		{Name: "Eiffel Tower", Time: "Morning", Location: "Champ de Mars"},
		{Name: "Louvre Museum", Time: "Afternoon", Location: "Louvre"},
		{Name: "Seine River Cruise", Time: "Evening", Location: "Seine"},
		{Name: "Notre Dame Cathedral", Time: "Morning", Location: "Île de la Cité"},
		{Name: "Montmartre & Sacré-Cœur", Time: "Afternoon", Location: "Montmartre"},
		{Name: "Champs-Élysées", Time: "Evening", Location: "Arc de Triomphe"},
	},
}

var genericActivities = []domain.Activity{
	{Name: "Explore City Center", Time: "Morning", Location: "Downtown"},
	{Name: "Visit Local Park", Time: "Afternoon", Location: "City Park"},
	{Name: "Enjoy Local Cuisine", Time: "Evening", Location: "Restaurant District"},
}

// ActivitiesFor returns the activity pool for a destination code,
// or the generic pool when the destination has none.
func ActivitiesFor(destination string) []domain.Activity {
	if pool, ok := activityPools[domain.NormalizeCode(destination)]; ok {
		return pool
	}
	return genericActivities
}
