package assembler

import (
	"encoding/binary"
	"testing"

	"github.com/retroenv/retrogob/internal/script"
	"github.com/retroenv/retrogolib/assert"
)

func TestBuilderLabels(t *testing.T) {
	b := New(binary.LittleEndian)
	b.Byte(0x01).Ref("end").Byte(0xAA).Label("end").Byte(0x07)

	code, err := b.Bytes()
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x04, 0x00, 0xAA, 0x07}, code)

	_, err = New(binary.LittleEndian).Ref("missing").Bytes()
	assert.ErrorContains(t, err, "undefined label")
}

func TestBuilderBigEndian(t *testing.T) {
	code, err := New(binary.BigEndian).Word(0x1234).Int(1).Bytes()
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34, 19, 0, 0, 0, 1}, code)
}

func TestAssembleTot(t *testing.T) {
	code := NewTotCode()
	code.Byte(0x07).Label("sub").Byte(0x06)

	data, err := Tot{
		VariablesCount: 64,
		Code:           code,
		Functions:      map[int]string{1: "sub"},
		Texts:          []string{"hi"},
		Resources:      [][]byte{{1, 2}},
	}.Assemble()
	assert.NoError(t, err)

	prog, err := script.Load("a.tot", data)
	assert.NoError(t, err)
	assert.Equal(t, uint32(script.HeaderSize), prog.Entry())
	assert.Equal(t, uint32(64), prog.VariablesCount())

	offset, err := prog.FunctionOffset(1)
	assert.NoError(t, err)
	assert.Equal(t, uint32(script.HeaderSize+1), offset)

	text, err := prog.Text(0)
	assert.NoError(t, err)
	assert.Equal(t, "hi", string(text))

	res, err := prog.Resource(0, false)
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, res.Data)
}
