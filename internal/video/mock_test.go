package video

type fakeDecoder struct {
	frames  int
	decoded []int
	failAt  int
	open    bool
}

func (f *fakeDecoder) Open(string) (int, error) {
	f.open = true
	return f.frames, nil
}

func (f *fakeDecoder) Decode(frame int) error {
	if frame == f.failAt {
		return errDecode
	}
	f.decoded = append(f.decoded, frame)
	return nil
}

func (f *fakeDecoder) Close() {
	f.open = false
}
