package saveload

import "errors"

var errInvalidCounter = errors.New("invalid counter")

// counter is a fragment holding one value, a payload of a single byte 0xFF
// is rejected.
type counter struct {
	id    [4]byte
	value uint32
}

type counterRecord struct {
	Value uint32
}

func (c *counter) FragmentID() [4]byte {
	return c.id
}

func (c *counter) SaveFragment() ([]byte, error) {
	enc := &Encoder{}
	enc.Write(&counterRecord{Value: c.value})
	return enc.Bytes()
}

func (c *counter) LoadFragment(data []byte) (func(), error) {
	if data == nil {
		return func() { c.value = 0 }, nil
	}
	if len(data) == 1 && data[0] == 0xff {
		return nil, errInvalidCounter
	}
	dec := NewDecoder(data)
	var rec counterRecord
	dec.Read(&rec)
	if err := dec.Err(); err != nil {
		return nil, err
	}
	return func() { c.value = rec.Value }, nil
}
