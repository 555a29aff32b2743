package sim

// Encounter is the outcome of one random encounter draw. The set is closed:
// each region's draw produces only its own group of constants.
type Encounter int

const (
	// Ruins, first half
	Froggit Encounter = iota
	Whimsun

	// Ruins, second half
	FroggitWhimsun
	SingleMoldsmal
	TripleMoldsmal
	DoubleFroggit
	DoubleMoldsmal

	// Snowdin grind
	SnowdinDouble
	SnowdinTriple

	// Waterfall, glowing water room
	SingleWoshua
	GlowingDoubleMoldsmal
	SingleAaron
	GlowingWoshuaAaron

	// Waterfall mazes
	WoshuaAaron
	WoshuaMoldbygg
	Temmie

	// Core
	FroggitAstigmatism
	WhimsalotAstigmatism
	FroggitWhimsalot
	KnightMadjick
	CoreTriple
	SingleKnightKnight
	SingleMadjick
)

var encounterNames = map[Encounter]string{
	Froggit:               "froggit",
	Whimsun:               "whimsun",
	FroggitWhimsun:        "froggit-whimsun",
	SingleMoldsmal:        "single-moldsmal",
	TripleMoldsmal:        "triple-moldsmal",
	DoubleFroggit:         "double-froggit",
	DoubleMoldsmal:        "double-moldsmal",
	SnowdinDouble:         "snowdin-double",
	SnowdinTriple:         "snowdin-triple",
	SingleWoshua:          "single-woshua",
	GlowingDoubleMoldsmal: "glowing-double-moldsmal",
	SingleAaron:           "single-aaron",
	GlowingWoshuaAaron:    "glowing-woshua-aaron",
	WoshuaAaron:           "woshua-aaron",
	WoshuaMoldbygg:        "woshua-moldbygg",
	Temmie:                "temmie",
	FroggitAstigmatism:    "froggit-astigmatism",
	WhimsalotAstigmatism:  "whimsalot-astigmatism",
	FroggitWhimsalot:      "froggit-whimsalot",
	KnightMadjick:         "knight-madjick",
	CoreTriple:            "core-triple",
	SingleKnightKnight:    "single-knight-knight",
	SingleMadjick:         "single-madjick",
}

func (e Encounter) String() string {
	if name, ok := encounterNames[e]; ok {
		return name
	}
	return "unknown"
}
