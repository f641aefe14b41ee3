package locgen

import (
	"fmt"
	"math/rand"

	"github.com/solenne/mapforge/internal/placement"
)

// Per-type name fragments for offline generation.
var namePrefixes = map[placement.LocationType][]string{
	placement.TypeMission: {
		"Siege of", "Escape from", "Raid on", "Defense of", "Hunt at",
		"Rescue at", "Ambush near", "Trial of",
	},
	placement.TypeLandmark: {
		"Iron", "Ash", "Stone", "Black", "Silver", "Broken", "Sunken",
		"Hollow", "Frost", "Thorn", "Elder", "Gilded",
	},
	placement.TypeShop: {
		"The Rusty", "The Gilded", "The Crooked", "The Wandering",
		"The Last", "The Copper", "The Velvet",
	},
	placement.TypeNPC: {
		"Old", "Mad", "Silent", "One-Eyed", "Wandering", "Keeper",
	},
	placement.TypeResource: {
		"Iron", "Copper", "Timber", "Crystal", "Amber", "Salt", "Obsidian",
	},
}

var nameSuffixes = map[placement.LocationType][]string{
	placement.TypeMission: {
		"the Crossing", "the Old Mill", "Ravenwatch", "the Border Camp",
		"the Sunken Road", "Greyfen", "the Watchtower",
	},
	placement.TypeLandmark: {
		"spire", "gate", "barrow", "monolith", "bridge", "arch", "throne",
		"beacon", "cairn",
	},
	placement.TypeShop: {
		"Anvil", "Flagon", "Lantern", "Compass", "Kettle", "Quill",
	},
	placement.TypeNPC: {
		"Marta", "Corvin", "Essa", "Jorun", "Pell", "Sable", "Wren",
	},
	placement.TypeResource: {
		"vein", "grove", "quarry", "deposit", "spring", "field",
	},
}

var typeDescriptions = map[placement.LocationType]string{
	placement.TypeMission:  "A story objective waiting for the player.",
	placement.TypeLandmark: "A striking feature that anchors the region.",
	placement.TypeShop:     "A trader dealing in local goods.",
	placement.TypeNPC:      "A character with something to say.",
	placement.TypeResource: "A harvestable resource node.",
}

// GenerateOffline produces a batch of location requests without calling the
// hosted service. Names are combined from per-type fragment tables; the
// injected source keeps output deterministic under a fixed seed.
func GenerateOffline(rng *rand.Rand, counts map[placement.LocationType]int) []placement.Request {
	var batch []placement.Request

	used := make(map[string]bool)
	for t := placement.TypeMission; t <= placement.TypeResource; t++ {
		n := counts[t]
		prefixes := namePrefixes[t]
		suffixes := nameSuffixes[t]

		for i := 0; i < n; i++ {
			name := pickName(rng, prefixes, suffixes, used)
			batch = append(batch, placement.Request{
				Type:        t,
				Name:        name,
				Description: typeDescriptions[t],
			})
		}
	}

	return batch
}

func pickName(rng *rand.Rand, prefixes, suffixes []string, used map[string]bool) string {
	// Bounded retries; fragment tables are small enough to collide on big
	// batches, in which case a numbered name is fine.
	for attempt := 0; attempt < 20; attempt++ {
		name := prefixes[rng.Intn(len(prefixes))] + " " + suffixes[rng.Intn(len(suffixes))]
		if !used[name] {
			used[name] = true
			return name
		}
	}
	name := fmt.Sprintf("%s %s %d",
		prefixes[rng.Intn(len(prefixes))],
		suffixes[rng.Intn(len(suffixes))],
		len(used)+1)
	used[name] = true
	return name
}
