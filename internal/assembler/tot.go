package assembler

import (
	"encoding/binary"
	"fmt"

	"github.com/go-restruct/restruct"
	"github.com/retroenv/retrogob/internal/script"
)

// Tot describes the parts of a TOT file to assemble.
type Tot struct {
	VariablesCount uint32
	Code           *Builder // has to be based at script.HeaderSize
	Functions      map[int]string
	Texts          []string
	Resources      [][]byte
}

type totResource struct {
	Offset int32
	Size   uint16
	Width  int16
	Height int16
}

// NewTotCode returns a builder placed after the TOT header.
func NewTotCode() *Builder {
	return New(binary.LittleEndian).Base(script.HeaderSize)
}

// Assemble returns the TOT file bytes. Function 0 defaults to the start of
// the code, other function entries reference labels of the code builder.
func (t Tot) Assemble() ([]byte, error) {
	if t.Code == nil || t.Code.base != script.HeaderSize {
		return nil, fmt.Errorf("tot code has to be based at offset %d", script.HeaderSize)
	}
	code, err := t.Code.Bytes()
	if err != nil {
		return nil, err
	}

	h := script.Header{
		VersionMajor:    '2',
		VersionDot:      '.',
		VersionMinor:    '0',
		VariablesCount:  t.VariablesCount,
		TextsOffset:     0xFFFFFFFF,
		ResourcesOffset: 0xFFFFFFFF,
	}
	h.Functions[0] = script.HeaderSize
	for index, label := range t.Functions {
		if index < 0 || index >= script.FunctionCount {
			return nil, fmt.Errorf("invalid function index %d", index)
		}
		offset, ok := t.Code.labels[label]
		if !ok {
			return nil, fmt.Errorf("undefined function label '%s'", label)
		}
		h.Functions[index] = uint16(offset)
	}

	data := code
	if len(t.Texts) > 0 {
		h.TextsOffset = uint32(script.HeaderSize + len(data))
		data = append(data, textTable(t.Texts)...)
	}
	if len(t.Resources) > 0 {
		h.ResourcesOffset = uint32(script.HeaderSize + len(data))
		table, err := resourceTable(t.Resources)
		if err != nil {
			return nil, err
		}
		data = append(data, table...)
	}

	header, err := restruct.Pack(binary.LittleEndian, &h)
	if err != nil {
		return nil, fmt.Errorf("packing tot header: %w", err)
	}
	return append(header, data...), nil
}

func textTable(texts []string) []byte {
	table := binary.LittleEndian.AppendUint16(nil, uint16(len(texts)))
	offset := 2 + 4*len(texts)
	var body []byte
	for _, text := range texts {
		table = binary.LittleEndian.AppendUint16(table, uint16(offset+len(body)))
		table = binary.LittleEndian.AppendUint16(table, uint16(len(text)))
		body = append(body, text...)
	}
	return append(table, body...)
}

func resourceTable(resources [][]byte) ([]byte, error) {
	table := binary.LittleEndian.AppendUint16(nil, uint16(len(resources)))
	table = append(table, 0)
	var body []byte
	for _, res := range resources {
		entry := totResource{
			Offset: int32(len(body)),
			Size:   uint16(len(res)),
			Width:  int16(len(res)),
			Height: 1,
		}
		b, err := restruct.Pack(binary.LittleEndian, &entry)
		if err != nil {
			return nil, fmt.Errorf("packing resource entry: %w", err)
		}
		table = append(table, b...)
		body = append(body, res...)
	}
	return append(table, body...), nil
}
