package planner

import "github.com/voyage-planner/voyage/internal/domain"

// Recommendation is a static bundle of tips for a destination.
type Recommendation struct {
	TouristDestinations []string
	FastestRoute        string
	LocalTips           []string
}

var recommendations = map[string]Recommendation{
	"LAX": {
		TouristDestinations: []string{"Universal Studios Hollywood", "Getty Center", "Disneyland Park"},
		FastestRoute:        "From Downtown LA: Take Metro Red Line to Universal City/Studio City Station (approx. 20 min).",
		LocalTips:           []string{"Use Metro for cost-effective transport", "Visit beaches in the afternoon", "Hollywood tours are best in morning"},
	},
	"SFO": {
		TouristDestinations: []string{"Pier 39", "Lombard Street", "Chinatown"},
		FastestRoute:        "From Union Square: Take Powell-Hyde Cable Car to Lombard Street (approx. 15 min).",
		LocalTips:           []string{"Dress in layers for weather changes", "Cable cars get crowded after 10am", "Book Alcatraz tickets in advance"},
	},
	"MIA": {
		TouristDestinations: []string{"Vizcaya Museum & Gardens", "Wynwood Walls", "Little Havana"},
		FastestRoute:        "From South Beach: Take the free trolley to Lincoln Road Mall, then taxi/ride-share (approx. 20 min).",
		LocalTips:           []string{"Best beach time is morning", "Nightlife starts late", "Try Cuban coffee in Little Havana"},
	},
	"PAR": {
		TouristDestinations: []string{"Champs-Élysées", "Arc de Triomphe", "Musée d'Orsay"},
		FastestRoute:        "From Eiffel Tower: Take Metro Line 9 from Trocadéro to Franklin D. Roosevelt for Champs-Élysées (approx. 10 min).",
		LocalTips:           []string{"Museums are free first Sunday of month", "Metro day passes save money", "Book restaurant reservations in advance"},
	},
}

var genericRecommendation = Recommendation{
	TouristDestinations: []string{"Local Market", "Botanical Garden", "Historic District"},
	FastestRoute:        "Walk or use public transport, check local transit apps for real-time data.",
	LocalTips:           []string{"Ask locals for hidden gems", "Try local specialties", "Respect local customs"},
}

// RecommendationsFor returns the tips for a destination code, falling back to
// a generic bundle for unknown destinations.
func RecommendationsFor(destination string) Recommendation {
	if r, ok := recommendations[domain.NormalizeCode(destination)]; ok {
		return r
	}
	return genericRecommendation
}
