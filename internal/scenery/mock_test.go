package scenery

type blit struct {
	resource, layer, frame, x, y int
}

type fakeBlitter struct {
	blits []blit
}

func (f *fakeBlitter) Blit(resource, layer, frame, x, y, _, _ int) error {
	f.blits = append(f.blits, blit{resource, layer, frame, x, y})
	return nil
}
