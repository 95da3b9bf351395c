package deck

// specialCards are appended to every deck regardless of type or flavor.
var specialCards = []Card{
	{Value: "?", Label: "?", Description: "Not enough information to estimate — story needs refinement"},
	{Value: "coffee", Label: "☕", Description: "Need a break — estimation is mentally taxing"},
	{Value: "infinity", Label: "∞", Description: "Too large to estimate — must be split into smaller stories"},
}

var deckValues = map[Type][]Card{
	TypeFibonacci: {
		{Value: "0", Label: "0"},
		{Value: "0.5", Label: "½"},
		{Value: "1", Label: "1"},
		{Value: "2", Label: "2"},
		{Value: "3", Label: "3"},
		{Value: "5", Label: "5"},
		{Value: "8", Label: "8"},
		{Value: "13", Label: "13"},
		{Value: "20", Label: "20"},
		{Value: "40", Label: "40"},
		{Value: "100", Label: "100"},
	},
	TypeTShirt: {
		{Value: "xs", Label: "XS"},
		{Value: "s", Label: "S"},
		{Value: "m", Label: "M"},
		{Value: "l", Label: "L"},
		{Value: "xl", Label: "XL"},
		{Value: "xxl", Label: "XXL"},
	},
	TypePowers2: {
		{Value: "1", Label: "1"},
		{Value: "2", Label: "2"},
		{Value: "4", Label: "4"},
		{Value: "8", Label: "8"},
		{Value: "16", Label: "16"},
		{Value: "32", Label: "32"},
		{Value: "64", Label: "64"},
	},
}

// Description lists are positionally matched to the deck values above.
var allDescriptions = map[Type]map[Flavor][]string{
	TypeFibonacci: {
		FlavorTechnical: {
			"Already done or no effort needed",
			"Trivial — a few minutes, no risk",
			"Very small, well-understood task (baseline reference)",
			"Small task, slightly more involved than a 1",
			"Small-to-medium, straightforward but needs some thought",
			"Medium effort, moderate complexity",
			"Large — significant complexity, consider splitting",
			"Very large — high complexity and uncertainty, should be split",
			"Extremely large — too big for a single sprint",
			"Epic-level — must be decomposed",
			"Massive — a project unto itself, must be decomposed",
		},
		FlavorIdioms: {
			"Done deal — it's already there, nothing to do",
			"Falling off a log — so easy you could do it in your sleep",
			"Low-hanging fruit — practically done for you",
			"Piece of cake — still pretty easy, grab a fork",
			"Not rocket science — needs some thought, but no PhD required",
			"Middle of the road — decent chunk of work, no surprises expected",
			"An arm and a leg — getting too big for one person to carry alone",
			"Just squeaking by — one more point and this must be broken down",
			"Eggs in many baskets — seriously, start breaking this down",
			"Down the rabbit hole — you'll need a map and a flashlight",
			"Here be monsters — way too big, run away and decompose",
		},
		FlavorAnimals: {
			"No animal needed, nothing to do",
			"Ant — tiny, carry it without thinking",
			"Mouse — small, quick, fits in your hand",
			"Rabbit — small but hops around a bit",
			"Cat — independent, needs a little attention",
			"Dog — loyal effort, needs a real walk",
			"Wolf — pack-level work, getting serious",
			"Bear — big and powerful, respect it",
			"Hippo — deceptively dangerous, don't underestimate",
			"Elephant — massive, you'll need the whole herd",
			"Whale — ocean-sized, decompose or drown",
		},
		FlavorSoftware: {
			"Noop — no operation, it's a no-op",
			"Config change — flip a flag, change a constant",
			"One-liner fix — a single well-understood code change",
			"Small bug fix — track it down, patch it, test it",
			"Simple feature — a form, a button, a new endpoint",
			"Feature with tests — real feature work with edge cases",
			"Multi-component — touches several files/modules, needs coordination",
			"Subsystem — new subsystem or major rework of an existing one",
			"Architecture change — structural change across the codebase",
			"Platform migration — moving to a new framework/platform",
			"Full rewrite — start from scratch, are you sure?",
		},
	},
	TypeTShirt: {
		FlavorTechnical: {
			"Trivial effort",
			"Simple, well-understood",
			"Moderate effort and complexity",
			"Significant effort, may need splitting",
			"High complexity, should be split",
			"Must be decomposed into smaller items",
		},
		FlavorIdioms: {
			"Falling off a log",
			"Piece of cake",
			"Middle of the road",
			"An arm and a leg",
			"Down the rabbit hole",
			"Here be monsters",
		},
		FlavorAnimals: {
			"Ant — tiny",
			"Mouse — small and quick",
			"Dog — needs a real walk",
			"Bear — big and powerful",
			"Elephant — massive",
			"Whale — ocean-sized",
		},
		FlavorSoftware: {
			"Config change",
			"One-liner fix",
			"Simple feature",
			"Multi-component change",
			"Subsystem rework",
			"Architecture change",
		},
	},
	TypePowers2: {
		FlavorTechnical: {
			"Baseline — simplest meaningful task",
			"Twice the baseline effort",
			"Half a day's focused work",
			"About a day — moderate complexity",
			"Multi-day — significant complexity",
			"Large — consider splitting",
			"Very large — must be decomposed",
		},
		FlavorIdioms: {
			"Low-hanging fruit",
			"Piece of cake",
			"Not rocket science",
			"Middle of the road",
			"An arm and a leg",
			"Down the rabbit hole",
			"Here be monsters",
		},
		FlavorAnimals: {
			"Mouse — small and quick",
			"Rabbit — hops around a bit",
			"Dog — needs a real walk",
			"Wolf — pack-level work",
			"Bear — big and powerful",
			"Elephant — massive",
			"Whale — ocean-sized",
		},
		FlavorSoftware: {
			"One-liner fix",
			"Small bug fix",
			"Simple feature",
			"Feature with tests",
			"Multi-component change",
			"Subsystem rework",
			"Architecture change",
		},
	},
}
