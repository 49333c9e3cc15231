package saveload

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/retroenv/retrogob/internal/endian"
	"github.com/retroenv/retrogob/internal/variables"
	"github.com/retroenv/retrogob/internal/variant"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type setup struct {
	codec *Codec
	vars  *variables.Store
	gobl  *counter
	mult  *counter
	mapf  *counter
}

func newSetup(t *testing.T, v variant.Variant) setup {
	t.Helper()
	s := setup{
		vars: variables.New(64, v.DataEndianness()),
		gobl: &counter{id: [4]byte{'G', 'O', 'B', 'L'}},
		mult: &counter{id: [4]byte{'M', 'U', 'L', 'T'}},
		mapf: &counter{id: [4]byte{'M', 'A', 'P', ' '}},
	}
	s.codec = New(log.NewTestLogger(t), v, s.vars,
		Entry{Fragment: s.gobl, Since: 1},
		Entry{Fragment: s.mult, Since: 1},
		Entry{Fragment: s.mapf, Since: 3},
	)
	return s
}

func gob2() variant.Variant {
	return variant.New(variant.Gob2, variant.PC, 0)
}

func saved(t *testing.T, s setup) []byte {
	t.Helper()
	var buf bytes.Buffer
	assert.NoError(t, s.codec.Save(&buf))
	return buf.Bytes()
}

// buildV1 writes a version 1 save with the given fragments.
func buildV1(game variant.GameType, vars []byte, fragments map[string]uint32, order []string) []byte {
	enc := &Encoder{}
	enc.Write(&headerV1{Magic: Magic, Version: 1, Game: uint8(game),
		VariablesSize: uint32(len(vars)), FragmentCount: uint16(len(order))})
	enc.Raw(vars)
	for _, id := range order {
		var fid [4]byte
		copy(fid[:], id)
		enc.Write(&fragmentHeader{ID: fid, Length: 4})
		enc.Write(&counterRecord{Value: fragments[id]})
	}
	b, _ := enc.Bytes()
	return b
}

func TestRoundTrip(t *testing.T) {
	src := newSetup(t, gob2())
	assert.NoError(t, src.vars.WriteVar32(2, 0xdeadbeef))
	src.gobl.value = 1
	src.mult.value = 2
	src.mapf.value = 3
	data := saved(t, src)

	assert.Equal(t, headerV2Size+64+3*(fragmentHeaderSize+4), len(data))

	dst := newSetup(t, gob2())
	assert.NoError(t, dst.codec.Load(bytes.NewReader(data)))
	assert.Equal(t, src.vars.Snapshot(), dst.vars.Snapshot())
	assert.Equal(t, uint32(1), dst.gobl.value)
	assert.Equal(t, uint32(2), dst.mult.value)
	assert.Equal(t, uint32(3), dst.mapf.value)

	info, err := Inspect(data)
	assert.NoError(t, err)
	assert.Equal(t, uint16(CurrentVersion), info.Version)
	assert.Equal(t, variant.Gob2, info.Game)
	assert.Equal(t, []string{"GOBL", "MULT", "MAP "}, info.Fragments)
}

func TestUpgradeV1(t *testing.T) {
	vars := make([]byte, 64)
	vars[0] = 0x11
	data := buildV1(variant.Gob2, vars, map[string]uint32{"GOBL": 5, "MULT": 6}, []string{"MULT", "GOBL"})

	dst := newSetup(t, gob2())
	dst.mapf.value = 99
	assert.NoError(t, dst.codec.Load(bytes.NewReader(data)))
	assert.Equal(t, uint32(5), dst.gobl.value)
	assert.Equal(t, uint32(6), dst.mult.value)
	assert.Equal(t, uint32(0), dst.mapf.value, "fragment introduced later is reset")
	assert.Equal(t, endian.LittleEndian, dst.vars.Endianness())

	b, err := dst.vars.ReadOff8(0)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x11), b)
}

func TestLoadErrors(t *testing.T) {
	valid := saved(t, newSetup(t, gob2()))

	withVersion := func(version uint16) []byte {
		b := bytes.Clone(valid)
		binary.LittleEndian.PutUint16(b[4:], version)
		return b
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrCorrupt},
		{"bad magic", append([]byte("GOBX"), valid[4:]...), ErrCorrupt},
		{"version too new", withVersion(CurrentVersion + 1), ErrIncompatible},
		{"version zero", withVersion(0), ErrIncompatible},
		{"other game", saved(t, newSetup(t, variant.New(variant.Gob3, variant.PC, 0))), ErrIncompatible},
		{"truncated variables", valid[:headerV2Size+10], ErrCorrupt},
		{"truncated fragment", valid[:len(valid)-2], ErrCorrupt},
		{"missing fragment", buildV1(variant.Gob2, make([]byte, 64), map[string]uint32{"GOBL": 1}, []string{"GOBL"}), ErrMissingFragment},
		{"variables size", buildV1(variant.Gob2, make([]byte, 32), map[string]uint32{}, nil), ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSetup(t, gob2())
			err := s.codec.Load(bytes.NewReader(tt.data))
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "unexpected error: %v", err)
		})
	}
}

func TestEndiannessMismatch(t *testing.T) {
	amiga := variant.New(variant.Gob2, variant.Amiga, 0)
	data := saved(t, newSetup(t, amiga))

	s := newSetup(t, gob2())
	err := s.codec.Load(bytes.NewReader(data))
	assert.True(t, errors.Is(err, ErrIncompatible), "unexpected error: %v", err)
}

func TestAltFileRetag(t *testing.T) {
	v := variant.New(variant.Adibou2, variant.PC, 0)
	assert.Equal(t, endian.MethodAltFile, v.EndiannessMethod)

	src := newSetup(t, v)
	src.vars.SetEndianness(endian.BigEndian)
	assert.NoError(t, src.vars.WriteVar32(1, 0x01020304))
	data := saved(t, src)

	dst := newSetup(t, v)
	assert.Equal(t, endian.LittleEndian, dst.vars.Endianness())
	assert.NoError(t, dst.codec.Load(bytes.NewReader(data)))
	assert.Equal(t, endian.BigEndian, dst.vars.Endianness())

	got, err := dst.vars.ReadVar32(1)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), got)
}

func TestLoadIsAtomic(t *testing.T) {
	src := newSetup(t, gob2())
	data := saved(t, src)

	// replace the MAP payload, the last fragment, with a rejected one
	bad := bytes.Clone(data[:len(data)-4-fragmentHeaderSize])
	enc := &Encoder{}
	enc.Write(&fragmentHeader{ID: [4]byte{'M', 'A', 'P', ' '}, Length: 1})
	enc.Raw([]byte{0xff})
	tail, err := enc.Bytes()
	assert.NoError(t, err)
	bad = append(bad, tail...)
	bad[headerV2Size] = 0x55

	dst := newSetup(t, gob2())
	dst.gobl.value = 7
	err = dst.codec.Load(bytes.NewReader(bad))
	assert.True(t, errors.Is(err, ErrCorrupt), "unexpected error: %v", err)
	assert.Equal(t, uint32(7), dst.gobl.value)
	b, err := dst.vars.ReadOff8(0)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), b)
}

func TestUnknownFragmentsIgnored(t *testing.T) {
	src := newSetup(t, gob2())
	src.mult.value = 4
	data := saved(t, src)

	// bump the fragment count and append an unknown fragment plus trailing bytes
	binary.LittleEndian.PutUint16(data[12:], 4)
	enc := &Encoder{}
	enc.Write(&fragmentHeader{ID: [4]byte{'X', 'T', 'R', 'A'}, Length: 2})
	enc.Raw([]byte{1, 2, 3, 4, 5})
	tail, err := enc.Bytes()
	assert.NoError(t, err)
	data = append(data, tail...)

	dst := newSetup(t, gob2())
	assert.NoError(t, dst.codec.Load(bytes.NewReader(data)))
	assert.Equal(t, uint32(4), dst.mult.value)
}

func TestDecoderTruncated(t *testing.T) {
	dec := NewDecoder([]byte{1, 2})
	var rec counterRecord
	dec.Read(&rec)
	assert.True(t, errors.Is(dec.Err(), ErrCorrupt))
	assert.Nil(t, dec.Raw(1))
}

func TestEncoderRange(t *testing.T) {
	enc := &Encoder{}
	assert.Equal(t, int16(-5), enc.Int16(-5))
	assert.Equal(t, uint16(65535), enc.Uint16(65535))
	assert.Equal(t, uint8(255), enc.Uint8(255))
	_, err := enc.Bytes()
	assert.NoError(t, err)

	enc.Uint16(-1)
	enc.Int16(1 << 16)
	enc.Write(&counterRecord{Value: 1})
	data, err := enc.Bytes()
	assert.True(t, errors.Is(err, ErrOutOfRange), "unexpected error: %v", err)
	assert.ErrorContains(t, err, "-1")
	assert.Empty(t, data)

	assert.NoError(t, CheckInt16(-32768, 32767))
	assert.True(t, errors.Is(CheckInt16(32768), ErrOutOfRange))
	assert.True(t, errors.Is(CheckUint16(-1), ErrOutOfRange))
}
