package deck

import "fmt"

// Type identifies one of the built-in card sets.
type Type string

const (
	TypeFibonacci Type = "fibonacci"
	TypeTShirt    Type = "tshirt"
	TypePowers2   Type = "powers2"
)

// Flavor selects which set of card descriptions accompanies a deck.
type Flavor string

const (
	FlavorTechnical Flavor = "technical"
	FlavorIdioms    Flavor = "idioms"
	FlavorAnimals   Flavor = "animals"
	FlavorSoftware  Flavor = "software"
)

// Card is a single selectable estimation card.
type Card struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Types returns all known deck types, in a stable order.
func Types() []Type {
	return []Type{TypeFibonacci, TypeTShirt, TypePowers2}
}

// Flavors returns all known description flavors, in a stable order.
func Flavors() []Flavor {
	return []Flavor{FlavorTechnical, FlavorIdioms, FlavorAnimals, FlavorSoftware}
}

// ValidType reports whether t names a known deck type.
func ValidType(t Type) bool {
	_, ok := deckValues[t]
	return ok
}

// Numeric reports whether the deck's card values parse as numbers
// for the purpose of aggregate statistics.
func (t Type) Numeric() bool {
	return t == TypeFibonacci || t == TypePowers2
}

// Abstention reports whether value is one of the special "no estimate"
// cards that are excluded from statistics.
func Abstention(value string) bool {
	for _, c := range specialCards {
		if c.Value == value {
			return true
		}
	}
	return false
}

// Cards returns the card list for a deck type and flavor combination,
// with positional descriptions applied and the special cards appended.
func Cards(t Type, f Flavor) ([]Card, error) {
	values, ok := deckValues[t]
	if !ok {
		return nil, fmt.Errorf("unknown deck type: %s", t)
	}
	descriptions, ok := allDescriptions[t][f]
	if !ok {
		return nil, fmt.Errorf("unknown flavor %q for deck %q", f, t)
	}

	cards := make([]Card, 0, len(values)+len(specialCards))
	for i, c := range values {
		c.Description = descriptions[i]
		cards = append(cards, c)
	}
	cards = append(cards, specialCards...)
	return cards, nil
}

// All returns every deck definition keyed by type and flavor.
func All() map[Type]map[Flavor][]Card {
	result := make(map[Type]map[Flavor][]Card, len(deckValues))
	for _, t := range Types() {
		result[t] = make(map[Flavor][]Card, len(Flavors()))
		for _, f := range Flavors() {
			cards, err := Cards(t, f)
			if err != nil {
				continue
			}
			result[t][f] = cards
		}
	}
	return result
}
