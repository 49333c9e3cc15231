package variant

import (
	"testing"

	"github.com/retroenv/retrogob/internal/endian"
	"github.com/retroenv/retrogolib/assert"
)

func TestDefaultEndiannessMethod(t *testing.T) {
	tests := []struct {
		name     string
		game     GameType
		platform Platform
		want     endian.Method
	}{
		{"dos release", Gob1, PC, endian.MethodLE},
		{"amiga release", Gob2, Amiga, endian.MethodBE},
		{"atari release", Gob1, AtariST, endian.MethodBE},
		{"alternate file title", Adibou2, Windows, endian.MethodAltFile},
		{"system title", Geisha, PC, endian.MethodSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultEndiannessMethod(tt.game, tt.platform))
		})
	}
}

func TestDataEndianness(t *testing.T) {
	v := New(Playtoons, Amiga, 0)
	assert.Equal(t, endian.MethodAltFile, v.EndiannessMethod)
	assert.Equal(t, endian.BigEndian, v.DataEndianness())

	v = New(Gob3, PC, 0)
	assert.Equal(t, endian.LittleEndian, v.DataEndianness())
	assert.Equal(t, endian.LittleEndian, v.CodeEndianness)
}

func TestPredicates(t *testing.T) {
	v := New(Gob1, PC, FeatureCD|FeatureEGA|FeatureSCNDemo)

	assert.True(t, v.IsCD())
	assert.True(t, v.IsEGA())
	assert.True(t, v.IsDemo(), "scn demo")
	assert.True(t, New(Gob1, PC, FeatureBATDemo).IsDemo(), "bat demo")
	assert.False(t, New(Gob1, PC, 0).IsDemo())
	assert.False(t, v.HasAdLib())
	assert.False(t, v.IsTrueColor())
	assert.True(t, v.IsCurrentTot("INTRO.TOT", "intro.tot"))
}

func TestResolution(t *testing.T) {
	v := New(Urban, Windows, Feature640x480)
	assert.Equal(t, 640, v.Width)
	assert.Equal(t, 480, v.Height)
	assert.True(t, v.Is640x480())

	v = New(Gob1, PC, 0)
	assert.Equal(t, 320, v.Width)
	assert.Equal(t, 200, v.Height)
}

func TestValidate(t *testing.T) {
	v := New(Gob1, PC, 0)
	assert.NoError(t, v.Validate())

	v.Features = Feature640x480 | Feature800x600
	assert.Error(t, v.Validate())

	v = New(Gob1, PC, 0)
	v.Width = 0
	assert.Error(t, v.Validate())
}

func TestGeneration(t *testing.T) {
	tests := []struct {
		game GameType
		want int
	}{
		{Gob1, 1},
		{Gob2, 2},
		{Ween, 2},
		{Gob3, 3},
		{Woodruff, 4},
		{Urban, 5},
		{Adibou2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.game.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.game, PC, 0).Generation())
		})
	}
}

func TestParse(t *testing.T) {
	g, err := ParseGameType("Gob2")
	assert.NoError(t, err)
	assert.Equal(t, Gob2, g)

	_, err = ParseGameType("zork")
	assert.Error(t, err)

	p, err := ParsePlatform("dos")
	assert.NoError(t, err)
	assert.Equal(t, PC, p)

	f, err := ParseFeatures([]string{"cd", " AdLib "})
	assert.NoError(t, err)
	assert.Equal(t, FeatureCD|FeatureAdLib, f)

	_, err = ParseFeatures([]string{"vr"})
	assert.Error(t, err)
}
