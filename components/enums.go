package components

// OrganismType classifies the trophic role of an organism.
type OrganismType uint8

const (
	TypeUnknown OrganismType = iota
	TypePlant
	TypeHerbivore
	TypeCarnivore
	TypeOmnivore
	TypeDecomposer
	TypeMicrobe
)

var typeNames = map[OrganismType]string{
	TypePlant:      "plant",
	TypeHerbivore:  "herbivore",
	TypeCarnivore:  "carnivore",
	TypeOmnivore:   "omnivore",
	TypeDecomposer: "decomposer",
	TypeMicrobe:    "microbe",
}

func (t OrganismType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseType maps a type tag to its enum value. Unrecognized tags map to
// TypeUnknown rather than failing; callers treat unknown as an inert animal.
func ParseType(s string) OrganismType {
	for t, name := range typeNames {
		if name == s {
			return t
		}
	}
	return TypeUnknown
}

// Behavior selects the steering policy applied each tick.
type Behavior uint8

const (
	BehaviorUnknown Behavior = iota
	BehaviorPassive
	BehaviorAggressive
	BehaviorTerritorial
	BehaviorSocial
	BehaviorSolitary
	BehaviorMigratory
	BehaviorSchooling
	BehaviorAmbush
	BehaviorGrazing
)

var behaviorNames = map[Behavior]string{
	BehaviorPassive:     "passive",
	BehaviorAggressive:  "aggressive",
	BehaviorTerritorial: "territorial",
	BehaviorSocial:      "social",
	BehaviorSolitary:    "solitary",
	BehaviorMigratory:   "migratory",
	BehaviorSchooling:   "schooling",
	BehaviorAmbush:      "ambush",
	BehaviorGrazing:     "grazing",
}

func (b Behavior) String() string {
	if s, ok := behaviorNames[b]; ok {
		return s
	}
	return "unknown"
}

// ParseBehavior maps a behavior tag to its enum value. Unrecognized tags map
// to BehaviorUnknown, which steers nowhere (zero displacement).
func ParseBehavior(s string) Behavior {
	for b, name := range behaviorNames {
		if name == s {
			return b
		}
	}
	return BehaviorUnknown
}

// Flocking reports whether the behavior participates in cohesion and the
// same-species proximity energy trickle.
func (b Behavior) Flocking() bool {
	return b == BehaviorSocial || b == BehaviorSchooling
}

// Locomotion classifies how an organism moves, scaling speed and gravity
// response and selecting its cosmetic motion.
type Locomotion uint8

const (
	LocomotionUnknown Locomotion = iota
	LocomotionWalking
	LocomotionSwimming
	LocomotionFlying
	LocomotionHopping
	LocomotionSlithering
	LocomotionBurrowing
	LocomotionFloating
	LocomotionCrawling
	LocomotionGliding
	LocomotionSessile
)

var locomotionNames = map[Locomotion]string{
	LocomotionWalking:    "walking",
	LocomotionSwimming:   "swimming",
	LocomotionFlying:     "flying",
	LocomotionHopping:    "hopping",
	LocomotionSlithering: "slithering",
	LocomotionBurrowing:  "burrowing",
	LocomotionFloating:   "floating",
	LocomotionCrawling:   "crawling",
	LocomotionGliding:    "gliding",
	LocomotionSessile:    "sessile",
}

func (l Locomotion) String() string {
	if s, ok := locomotionNames[l]; ok {
		return s
	}
	return "unknown"
}

// ParseLocomotion maps a locomotion tag to its enum value. Unrecognized tags
// map to LocomotionUnknown: neutral modifiers, no cosmetic motion.
func ParseLocomotion(s string) Locomotion {
	for l, name := range locomotionNames {
		if name == s {
			return l
		}
	}
	return LocomotionUnknown
}

// Biome selects the ambient particle profile and informs locomotion
// inference for organisms that arrive without a locomotion tag.
type Biome uint8

const (
	BiomeForest Biome = iota
	BiomeDesert
	BiomeOcean
	BiomeTundra
	BiomeSwamp
	BiomeGrassland
)

var biomeNames = map[Biome]string{
	BiomeForest:    "forest",
	BiomeDesert:    "desert",
	BiomeOcean:     "ocean",
	BiomeTundra:    "tundra",
	BiomeSwamp:     "swamp",
	BiomeGrassland: "grassland",
}

func (b Biome) String() string {
	if s, ok := biomeNames[b]; ok {
		return s
	}
	return "forest"
}

// ParseBiome maps a biome tag to its enum value. Unrecognized tags fall back
// to forest, the neutral profile.
func ParseBiome(s string) Biome {
	for b, name := range biomeNames {
		if name == s {
			return b
		}
	}
	return BiomeForest
}
