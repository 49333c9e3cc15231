package script

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/go-restruct/restruct"
	"github.com/retroenv/retrogolib/assert"
)

// buildTot assembles a TOT file with the code placed right after the header,
// followed by a texts table and a resources table.
func buildTot(t *testing.T, code []byte, texts []string, resources [][]byte) []byte {
	t.Helper()

	h := Header{
		VersionMajor:   '2',
		VersionDot:     '.',
		VersionMinor:   '1',
		VariablesCount: 100,
	}
	copy(h.Signature[:], "test tot")
	h.Functions[0] = HeaderSize
	h.Functions[1] = HeaderSize + 1

	data := append([]byte{}, code...)

	if texts != nil {
		h.TextsOffset = uint32(HeaderSize + len(data))
		table := binary.LittleEndian.AppendUint16(nil, uint16(len(texts)))
		offset := 2 + 4*len(texts)
		var body []byte
		for _, text := range texts {
			table = binary.LittleEndian.AppendUint16(table, uint16(offset+len(body)))
			table = binary.LittleEndian.AppendUint16(table, uint16(len(text)))
			body = append(body, text...)
		}
		data = append(data, table...)
		data = append(data, body...)
	} else {
		h.TextsOffset = noTable
	}

	if resources != nil {
		h.ResourcesOffset = uint32(HeaderSize + len(data))
		table := binary.LittleEndian.AppendUint16(nil, uint16(len(resources)))
		table = append(table, 0)
		var body []byte
		for i, res := range resources {
			entry := resourceEntry{
				Offset: int32(len(body)),
				Size:   uint16(len(res)),
				Width:  int16(8 + i),
				Height: 4,
			}
			if res == nil {
				entry.Offset = -1
			}
			b, err := restruct.Pack(binary.LittleEndian, &entry)
			assert.NoError(t, err)
			table = append(table, b...)
			body = append(body, res...)
		}
		data = append(data, table...)
		data = append(data, body...)
	}

	header, err := restruct.Pack(binary.LittleEndian, &h)
	assert.NoError(t, err)
	assert.Equal(t, HeaderSize, len(header))
	return append(header, data...)
}

func TestLoadHeader(t *testing.T) {
	data := buildTot(t, []byte{0x07, 0x06}, nil, nil)

	prog, err := Load("intro.tot", data)
	assert.NoError(t, err)
	assert.Equal(t, "intro.tot", prog.Name())
	assert.Equal(t, uint32(HeaderSize), prog.Entry())
	assert.Equal(t, uint32(100), prog.VariablesCount())

	h, ok := prog.Header()
	assert.True(t, ok)
	major, minor := h.Version()
	assert.Equal(t, 2, major)
	assert.Equal(t, 1, minor)

	offset, err := prog.FunctionOffset(1)
	assert.NoError(t, err)
	assert.Equal(t, uint32(HeaderSize+1), offset)

	_, err = prog.FunctionOffset(FunctionCount)
	assert.Error(t, err)

	assert.Equal(t, 0, prog.TextCount())
	assert.Equal(t, 0, prog.ResourceCount())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("short.tot", make([]byte, HeaderSize-1))
	assert.ErrorContains(t, err, "too short")

	data := buildTot(t, []byte{0x07}, nil, nil)
	binary.LittleEndian.PutUint16(data[100+2*5:], 0xFFF0)
	_, err = Load("bad.tot", data)
	assert.ErrorContains(t, err, "outside of program")
}

func TestRawProgram(t *testing.T) {
	prog := New("raw", []byte{1, 2, 3})
	assert.Equal(t, uint32(0), prog.Entry())
	assert.Equal(t, 3, prog.Len())

	_, ok := prog.Header()
	assert.False(t, ok)

	offset, err := prog.FunctionOffset(0)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), offset)
	_, err = prog.FunctionOffset(2)
	assert.Error(t, err)
}

func TestTexts(t *testing.T) {
	data := buildTot(t, []byte{0x07}, []string{"hello", "world!"}, nil)
	prog, err := Load("texts.tot", data)
	assert.NoError(t, err)
	assert.Equal(t, 2, prog.TextCount())

	text, err := prog.Text(1)
	assert.NoError(t, err)
	assert.Equal(t, "world!", string(text))

	_, err = prog.Text(2)
	assert.True(t, errors.Is(err, ErrMissingText))
}

func TestResources(t *testing.T) {
	data := buildTot(t, []byte{0x07}, nil, [][]byte{{1, 2, 3}, nil, {4, 5}})
	prog, err := Load("res.tot", data)
	assert.NoError(t, err)
	assert.Equal(t, 3, prog.ResourceCount())

	res, err := prog.Resource(2, false)
	assert.NoError(t, err)
	assert.Equal(t, []byte{4, 5}, res.Data)
	assert.Equal(t, int16(10), res.Width)
	assert.Equal(t, int16(4), res.Height)

	_, err = prog.Resource(1, false)
	assert.True(t, errors.Is(err, ErrExternalResource))

	_, err = prog.Resource(3, false)
	assert.True(t, errors.Is(err, ErrMissingResource))
}

func TestResourceSizeClamp(t *testing.T) {
	data := buildTot(t, []byte{0x07}, nil, [][]byte{{1, 2, 3}})
	// inflate the recorded size beyond the end of the file
	entry := int(binary.LittleEndian.Uint32(data[52:])) + 3
	binary.LittleEndian.PutUint16(data[entry+4:], 10)

	prog, err := Load("res.tot", data)
	assert.NoError(t, err)

	_, err = prog.Resource(0, false)
	assert.True(t, errors.Is(err, ErrMissingResource))

	res, err := prog.Resource(0, true)
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, res.Data)
}
