package inter

import (
	"fmt"

	"github.com/retroenv/retrogob/internal/script"
)

// recorder collects the subsystem calls of all fakes in order.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

type fakeDraw struct{ *recorder }

func (f fakeDraw) CreateSprite(index, width, height, flags int) error {
	f.add("createSprite %d %d %d %d", index, width, height, flags)
	return nil
}

func (f fakeDraw) FreeSprite(index int) error {
	f.add("freeSprite %d", index)
	return nil
}

func (f fakeDraw) FillRect(dest, left, top, right, bottom, color int) error {
	f.add("fillRect %d %d %d %d %d %d", dest, left, top, right, bottom, color)
	return nil
}

func (f fakeDraw) DrawLine(dest, x1, y1, x2, y2, color int) error {
	f.add("drawLine %d %d %d %d %d %d", dest, x1, y1, x2, y2, color)
	return nil
}

func (f fakeDraw) PutPixel(dest, x, y, color int) error {
	f.add("putPixel %d %d %d %d", dest, x, y, color)
	return nil
}

func (f fakeDraw) PrintText(x, y, color int, text []byte) error {
	f.add("printText %d %d %d %s", x, y, color, text)
	return nil
}

func (f fakeDraw) PrintTotText(id int, text []byte) error {
	f.add("printTotText %d %s", id, text)
	return nil
}

type fakeMult struct {
	*recorder
	finished map[int]bool
}

func (f *fakeMult) Load(res script.Resource) error {
	f.add("loadMult %d", res.ID)
	return nil
}

func (f *fakeMult) Play(sequence int) error {
	f.add("playMult %d", sequence)
	return nil
}

func (f *fakeMult) Free() {
	f.add("freeMult")
}

func (f *fakeMult) Init(x, y, width, height, objects int) error {
	f.add("initMult %d %d %d %d %d", x, y, width, height, objects)
	return nil
}

func (f *fakeMult) LoadObject(obj, x, y, anim, frame, layer int) error {
	f.add("loadMultObject %d %d %d %d %d %d", obj, x, y, anim, frame, layer)
	return nil
}

func (f *fakeMult) Animate() {
	f.add("animateMult")
}

func (f *fakeMult) ObjectPosition(obj int) (int, int, error) {
	return obj * 10, obj * 20, nil
}

func (f *fakeMult) Finished(obj int) bool {
	return f.finished[obj]
}

type fakeScenery struct{ *recorder }

func (f fakeScenery) LoadStatic(res script.Resource) (int, error) {
	f.add("loadStatic %d", res.ID)
	return 3, nil
}

func (f fakeScenery) FreeStatic(index int) error {
	f.add("freeStatic %d", index)
	return nil
}

func (f fakeScenery) RenderStatic(index, layer int) error {
	f.add("renderStatic %d %d", index, layer)
	return nil
}

func (f fakeScenery) LoadAnim(res script.Resource) (int, error) {
	f.add("loadSceneryAnim %d", res.ID)
	return 1, nil
}

func (f fakeScenery) FreeAnim(index int) error {
	f.add("freeSceneryAnim %d", index)
	return nil
}

func (f fakeScenery) UpdateAnim(index, layer, frame, x, y int) error {
	f.add("updateSceneryAnim %d %d %d %d %d", index, layer, frame, x, y)
	return nil
}

type fakeGoblins struct {
	*recorder
	moving map[int]bool
}

func (f *fakeGoblins) Place(id, x, y int) error {
	f.add("placeGoblin %d %d %d", id, x, y)
	return nil
}

func (f *fakeGoblins) SetState(id, state int) error {
	f.add("setGoblinState %d %d", id, state)
	return nil
}

func (f *fakeGoblins) Position(id int) (int, int, error) {
	return id + 1, id + 2, nil
}

func (f *fakeGoblins) Move(id, x, y int) error {
	f.add("moveGoblin %d %d %d", id, x, y)
	f.moving[id] = true
	return nil
}

func (f *fakeGoblins) Step() {
	f.add("stepGoblins")
}

func (f *fakeGoblins) Moving(id int) bool {
	return f.moving[id]
}

type fakeMap struct{ *recorder }

func (f fakeMap) Init(width, height int) error {
	f.add("initMap %d %d", width, height)
	return nil
}

func (f fakeMap) SetCell(x, y, value int) error {
	f.add("setMapCell %d %d %d", x, y, value)
	return nil
}

type fakePalette struct{ *recorder }

func (f fakePalette) SetColors(first int, rgb []byte) error {
	f.add("setColors %d %v", first, rgb)
	return nil
}

func (f fakePalette) SetEGA(indexes []byte) error {
	f.add("setEGA %v", indexes)
	return nil
}

func (f fakePalette) InitRange(index, start, end, speed int) error {
	f.add("initRange %d %d %d %d", index, start, end, speed)
	return nil
}

func (f fakePalette) Animate() {
	f.add("animatePalette")
}

type fakeVideo struct {
	*recorder
	done  bool
	frame int
	err   error
}

func (f *fakeVideo) Play(name string, start, last int) error {
	if f.err != nil {
		return f.err
	}
	f.add("playVideo %s %d %d", name, start, last)
	f.done = false
	return nil
}

func (f *fakeVideo) Stop() {
	f.add("stopVideo")
	f.done = true
}

func (f *fakeVideo) Done() bool {
	return f.done
}

func (f *fakeVideo) Frame() int {
	return f.frame
}

type fakeSound struct {
	*recorder
	playing bool
}

func (f *fakeSound) Load(slot int, res script.Resource) error {
	f.add("loadSound %d %d", slot, res.ID)
	return nil
}

func (f *fakeSound) Play(slot, repeat, frequency int) error {
	f.add("playSound %d %d %d", slot, repeat, frequency)
	f.playing = true
	return nil
}

func (f *fakeSound) Stop(slot int) error {
	f.add("stopSound %d", slot)
	f.playing = false
	return nil
}

func (f *fakeSound) Free(slot int) error {
	f.add("freeSound %d", slot)
	return nil
}

func (f *fakeSound) Playing() bool {
	return f.playing
}

func (f *fakeSound) PlayCDTrack(name string) error {
	f.add("playCDTrack %s", name)
	return nil
}

func (f *fakeSound) PlayMusic(res script.Resource) error {
	f.add("playMusic %d", res.ID)
	return nil
}

type fakeInput struct {
	keys []int
}

func (f *fakeInput) Key() (int, bool) {
	if len(f.keys) == 0 {
		return 0, false
	}
	key := f.keys[0]
	f.keys = f.keys[1:]
	return key, true
}

type fakeClock struct {
	ticks uint32
}

func (c *fakeClock) Ticks() uint32 {
	return c.ticks
}

type fakeLoader struct {
	programs map[string]*script.Program
}

func (l fakeLoader) LoadProgram(name string) (*script.Program, error) {
	prog, ok := l.programs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", script.ErrMissingResource, name)
	}
	return prog, nil
}

type fakes struct {
	rec     *recorder
	mult    *fakeMult
	goblins *fakeGoblins
	video   *fakeVideo
	sound   *fakeSound
	input   *fakeInput
	clock   *fakeClock
}

func newFakes() (*fakes, Subsystems) {
	rec := &recorder{}
	f := &fakes{
		rec:     rec,
		mult:    &fakeMult{recorder: rec, finished: map[int]bool{}},
		goblins: &fakeGoblins{recorder: rec, moving: map[int]bool{}},
		video:   &fakeVideo{recorder: rec, done: true},
		sound:   &fakeSound{recorder: rec},
		input:   &fakeInput{},
		clock:   &fakeClock{},
	}
	sub := Subsystems{
		Draw:    fakeDraw{rec},
		Mult:    f.mult,
		Scenery: fakeScenery{rec},
		Goblins: f.goblins,
		Map:     fakeMap{rec},
		Palette: fakePalette{rec},
		Video:   f.video,
		Sound:   f.sound,
		Input:   f.input,
	}
	return f, sub
}
