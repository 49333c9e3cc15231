// Package variant describes a detected game release: game type, platform,
// feature flags, byte order policies and per-title workarounds.
// A Variant is resolved once at startup and treated as immutable afterwards.
package variant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/retrogob/internal/endian"
)

// GameType identifies a title driven by the interpreter.
type GameType uint8

// The values are stored in save files, reordering them invalidates saves.
const (
	Gob1 GameType = iota
	Gob2
	Gob3
	Ween
	Bargon
	Fascination
	LostInTime
	LittleRed
	Woodruff
	Dynasty
	Urban
	Playtoons
	Bambou
	Adibou1
	Adibou2
	Geisha
	OnceUpon
	Croustibat
)

var gameTypeNames = []string{
	Gob1:        "gob1",
	Gob2:        "gob2",
	Gob3:        "gob3",
	Ween:        "ween",
	Bargon:      "bargon",
	Fascination: "fascination",
	LostInTime:  "lostintime",
	LittleRed:   "littlered",
	Woodruff:    "woodruff",
	Dynasty:     "dynasty",
	Urban:       "urban",
	Playtoons:   "playtoons",
	Bambou:      "bambou",
	Adibou1:     "adibou1",
	Adibou2:     "adibou2",
	Geisha:      "geisha",
	OnceUpon:    "onceupon",
	Croustibat:  "croustibat",
}

func (g GameType) String() string {
	if int(g) < len(gameTypeNames) {
		return gameTypeNames[g]
	}
	return fmt.Sprintf("game(%d)", uint8(g))
}

// ParseGameType returns the game type for a name like "gob2".
func ParseGameType(s string) (GameType, error) {
	s = strings.ToLower(s)
	for i, name := range gameTypeNames {
		if name == s {
			return GameType(i), nil
		}
	}
	return 0, fmt.Errorf("unsupported game type '%s'", s)
}

// Platform is the platform a release was made for.
type Platform uint8

const (
	PC Platform = iota
	Amiga
	AtariST
	Macintosh
	Windows
)

var platformNames = []string{
	PC:        "pc",
	Amiga:     "amiga",
	AtariST:   "atarist",
	Macintosh: "macintosh",
	Windows:   "windows",
}

func (p Platform) String() string {
	if int(p) < len(platformNames) {
		return platformNames[p]
	}
	return fmt.Sprintf("platform(%d)", uint8(p))
}

// ParsePlatform returns the platform for a name like "amiga".
func ParsePlatform(s string) (Platform, error) {
	s = strings.ToLower(s)
	switch s {
	case "dos":
		return PC, nil
	case "mac":
		return Macintosh, nil
	case "atari":
		return AtariST, nil
	}
	for i, name := range platformNames {
		if name == s {
			return Platform(i), nil
		}
	}
	return 0, fmt.Errorf("unsupported platform '%s'", s)
}

// Features is a set of release feature flags.
type Features uint32

const (
	FeatureCD Features = 1 << iota
	FeatureEGA
	FeatureAdLib
	FeatureSCNDemo
	FeatureBATDemo
	Feature640x480
	Feature800x600
	FeatureTrueColor
	FeatureDemo
)

var featureNames = map[string]Features{
	"cd":        FeatureCD,
	"ega":       FeatureEGA,
	"adlib":     FeatureAdLib,
	"scndemo":   FeatureSCNDemo,
	"batdemo":   FeatureBATDemo,
	"640x480":   Feature640x480,
	"800x600":   Feature800x600,
	"truecolor": FeatureTrueColor,
	"demo":      FeatureDemo,
}

// ParseFeatures combines a list of feature names into a flag set.
func ParseFeatures(names []string) (Features, error) {
	var f Features
	for _, name := range names {
		flag, ok := featureNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unsupported feature '%s'", name)
		}
		f |= flag
	}
	return f, nil
}

// Has returns whether all given flags are set.
func (f Features) Has(flags Features) bool {
	return f&flags == flags
}

// Workarounds enables fixes for bugs in the original game data.
type Workarounds struct {
	ResourceSize               bool
	Adibou2FreeBananas         bool
	Adibou2FlowersInfiniteLoop bool
}

// Variant is a fully resolved game release description.
type Variant struct {
	Game     GameType
	Platform Platform
	Language string
	Features Features

	EndiannessMethod endian.Method
	CodeEndianness   endian.Endianness

	Width  int
	Height int

	StartTot    string
	Workarounds Workarounds
}

// New returns a variant with the defaults of the game type and platform.
func New(game GameType, platform Platform, features Features) Variant {
	v := Variant{
		Game:             game,
		Platform:         platform,
		Language:         "en",
		Features:         features,
		EndiannessMethod: DefaultEndiannessMethod(game, platform),
		CodeEndianness:   endian.LittleEndian,
		Width:            320,
		Height:           200,
		StartTot:         "intro.tot",
	}
	switch {
	case features.Has(Feature640x480):
		v.Width, v.Height = 640, 480
	case features.Has(Feature800x600):
		v.Width, v.Height = 800, 600
	}
	return v
}

// DefaultEndiannessMethod returns the variable store byte order policy of a release.
func DefaultEndiannessMethod(game GameType, platform Platform) endian.Method {
	switch game {
	case Adibou2, Playtoons, Croustibat:
		return endian.MethodAltFile
	case Geisha:
		return endian.MethodSystem
	}
	if platformBigEndian(platform) {
		return endian.MethodBE
	}
	return endian.MethodLE
}

func platformBigEndian(platform Platform) bool {
	switch platform {
	case Amiga, AtariST, Macintosh:
		return true
	default:
		return false
	}
}

// Validate checks the variant for contradicting settings.
func (v Variant) Validate() error {
	if int(v.Game) >= len(gameTypeNames) {
		return fmt.Errorf("invalid game type %d", v.Game)
	}
	if int(v.Platform) >= len(platformNames) {
		return fmt.Errorf("invalid platform %d", v.Platform)
	}
	if v.Features.Has(Feature640x480 | Feature800x600) {
		return errors.New("features 640x480 and 800x600 are mutually exclusive")
	}
	if v.EndiannessMethod > endian.MethodAltFile {
		return fmt.Errorf("invalid endianness method %d", v.EndiannessMethod)
	}
	if !v.CodeEndianness.Valid() {
		return fmt.Errorf("invalid code endianness %d", v.CodeEndianness)
	}
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", v.Width, v.Height)
	}
	return nil
}

// BaseEndianness is the platform byte order used when an alternate file
// has not yet recorded one.
func (v Variant) BaseEndianness() endian.Endianness {
	if platformBigEndian(v.Platform) {
		return endian.BigEndian
	}
	return endian.LittleEndian
}

// DataEndianness returns the effective byte order of the variable store at startup.
func (v Variant) DataEndianness() endian.Endianness {
	return v.EndiannessMethod.Resolve(v.BaseEndianness())
}

// Generation returns the opcode table generation of the game type.
func (v Variant) Generation() int {
	switch v.Game {
	case Gob1:
		return 1
	case Gob2, Ween, Bargon, Fascination, LittleRed:
		return 2
	case Gob3, LostInTime:
		return 3
	case Woodruff, Dynasty:
		return 4
	default:
		return 5
	}
}

func (v Variant) IsCD() bool        { return v.Features.Has(FeatureCD) }
func (v Variant) IsEGA() bool       { return v.Features.Has(FeatureEGA) }
func (v Variant) HasAdLib() bool    { return v.Features.Has(FeatureAdLib) }
func (v Variant) Is640x480() bool   { return v.Features.Has(Feature640x480) }
func (v Variant) Is800x600() bool   { return v.Features.Has(Feature800x600) }
func (v Variant) IsTrueColor() bool { return v.Features.Has(FeatureTrueColor) }

// IsDemo returns whether any of the demo flags is set.
func (v Variant) IsDemo() bool {
	return v.Features&(FeatureDemo|FeatureSCNDemo|FeatureBATDemo) != 0
}

// HasResourceSizeWorkaround returns whether resource sizes from the data
// files are unreliable and must be clamped to the available data.
func (v Variant) HasResourceSizeWorkaround() bool {
	return v.Workarounds.ResourceSize
}

// IsCurrentTot returns whether the given script name matches the active one.
func (v Variant) IsCurrentTot(active, tot string) bool {
	return strings.EqualFold(active, tot)
}

func (v Variant) String() string {
	return fmt.Sprintf("%s/%s", v.Game, v.Platform)
}
