package drum

import "fmt"

// Pad ids 0-7 are the performable percussion pads. The two slots above
// them are reserved for the fixed utility sounds, which exist in every
// bank independent of the selected sound pack.
const (
	PadKick = iota
	PadSnare
	PadHiHat
	PadClap
	PadTom
	PadCymbal
	PadCowbell
	PadShaker

	PadVocal // vocal accent (utility)
	PadClick // metronome tick (utility)

	NumPads  = 8
	NumSlots = 10
)

// Pad describes one entry of the fixed pad catalogue.
type Pad struct {
	ID     int
	Name   string
	Timbre string
}

// Catalogue is the fixed build-time pad set.
var Catalogue = [NumPads]Pad{
	{PadKick, "Kick", "kick"},
	{PadSnare, "Snare", "snare"},
	{PadHiHat, "Hi-Hat", "hihat"},
	{PadClap, "Clap", "clap"},
	{PadTom, "Tom", "tom"},
	{PadCymbal, "Cymbal", "cymbal"},
	{PadCowbell, "Cowbell", "cowbell"},
	{PadShaker, "Shaker", "shaker"},
}

// ValidPad reports whether id addresses a pad or utility slot.
func ValidPad(id int) bool {
	return id >= 0 && id < NumSlots
}

// UtilityPad reports whether id is one of the two fixed utility slots.
func UtilityPad(id int) bool {
	return id == PadVocal || id == PadClick
}

// SoundPack selects which synthesis formula set backs pad ids 0-7.
type SoundPack int

const (
	PackClassic SoundPack = iota
	PackElectro
	PackVinyl
	PackRetro

	numPacks = 4
)

var packNames = [numPacks]string{"classic", "electro", "vinyl", "retro"}

func (p SoundPack) String() string {
	if p < 0 || int(p) >= numPacks {
		return fmt.Sprintf("SoundPack(%d)", int(p))
	}
	return packNames[p]
}

// Valid reports whether p is one of the enumerated packs.
func (p SoundPack) Valid() bool {
	return p >= 0 && int(p) < numPacks
}

// PadDuration is the pad buffer length in seconds for this pack.
func (p SoundPack) PadDuration() float64 {
	switch p {
	case PackElectro:
		return 0.25
	case PackRetro:
		return 0.2
	default:
		return 0.3
	}
}

// Packs returns all sound packs in enumeration order.
func Packs() []SoundPack {
	return []SoundPack{PackClassic, PackElectro, PackVinyl, PackRetro}
}

// ParsePack resolves a pack by its flag/JSON name.
func ParsePack(name string) (SoundPack, error) {
	for i, n := range packNames {
		if n == name {
			return SoundPack(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sound pack %q", name)
}
