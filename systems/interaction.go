package systems

import (
	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/geom"
)

// ContactKind classifies a resolved organism contact.
type ContactKind uint8

const (
	ContactNone ContactKind = iota
	ContactPredation
	ContactGraze
	ContactSocial
)

// InContact reports whether two organisms are close enough to interact:
// center distance under the mean of their sizes.
func InContact(a, b *View) bool {
	r := (a.Size + b.Size) / 2
	return geom.DistSq(a.X, a.Y, b.X, b.Y) < r*r
}

// Classify resolves an unordered contact pair against the interaction rules.
// Exactly the first matching rule applies. For the feeding kinds the
// returned flag tells whether a (true) or b (false) is the eater.
func Classify(a, b *View) (ContactKind, bool) {
	// Rule 1: predation. Carnivores take herbivores and plants.
	if eatsAsPredator(a.Type, b.Type) {
		return ContactPredation, true
	}
	if eatsAsPredator(b.Type, a.Type) {
		return ContactPredation, false
	}
	// Rule 2: grazing. Herbivores and omnivores take plants.
	if eatsAsGrazer(a.Type, b.Type) {
		return ContactGraze, true
	}
	if eatsAsGrazer(b.Type, a.Type) {
		return ContactGraze, false
	}
	// Rule 3: proximity trickle for flocking same-species pairs.
	if a.Species == b.Species && a.Flocking && b.Flocking {
		return ContactSocial, true
	}
	return ContactNone, true
}

func eatsAsPredator(eater, meal components.OrganismType) bool {
	return eater == components.TypeCarnivore &&
		(meal == components.TypeHerbivore || meal == components.TypePlant)
}

func eatsAsGrazer(eater, meal components.OrganismType) bool {
	return (eater == components.TypeHerbivore || eater == components.TypeOmnivore) &&
		meal == components.TypePlant
}

// ApplyFeeding transfers energy for a predation or grazing contact. Plant
// victims always lose the plant damage constant; animal victims take the
// heavier predation damage. Both sides clamp to [0, 100].
func ApplyFeeding(kind ContactKind, eater, victim *components.Vitals, victimType components.OrganismType) {
	cfg := config.Cfg().Interaction
	var gain, loss float64
	switch kind {
	case ContactPredation:
		gain = cfg.PredationGain
		if victimType == components.TypePlant {
			loss = cfg.PlantDamage
		} else {
			loss = cfg.PredationDamage
		}
	case ContactGraze:
		gain = cfg.GrazeGain
		loss = cfg.PlantDamage
	default:
		return
	}
	eater.Energy = geom.Clamp(eater.Energy+gain, 0, 100)
	victim.Energy = geom.Clamp(victim.Energy-loss, 0, 100)
}

// ApplySocial grants the proximity trickle to both sides of a flocking pair.
func ApplySocial(a, b *components.Vitals) {
	t := config.Cfg().Interaction.SocialTrickle
	a.Energy = geom.Clamp(a.Energy+t, 0, 100)
	b.Energy = geom.Clamp(b.Energy+t, 0, 100)
}
