package inter

import "github.com/retroenv/retrogob/internal/script"

func (in *Interpreter) printText() error {
	pos, err := in.ints(3)
	if err != nil {
		return err
	}
	text, err := in.eval.EvalString(in.cursor)
	if err != nil {
		return err
	}
	return in.content("printText", in.sub.Draw.PrintText(pos[0], pos[1], pos[2], []byte(text)))
}

func (in *Interpreter) createSprite() error {
	v, err := in.ints(4)
	if err != nil {
		return err
	}
	return in.content("createSprite", in.sub.Draw.CreateSprite(v[0], v[1], v[2], v[3]))
}

func (in *Interpreter) freeSprite() error {
	v, err := in.ints(1)
	if err != nil {
		return err
	}
	return in.content("freeSprite", in.sub.Draw.FreeSprite(v[0]))
}

func (in *Interpreter) fillRect() error {
	v, err := in.ints(6)
	if err != nil {
		return err
	}
	return in.content("fillRect", in.sub.Draw.FillRect(v[0], v[1], v[2], v[3], v[4], v[5]))
}

func (in *Interpreter) fillRectTrueColor() error {
	v, err := in.ints(6)
	if err != nil {
		return err
	}
	return in.content("fillRect", in.sub.Draw.FillRect(v[0], v[1], v[2], v[3], v[4], trueColor(v[5])))
}

func (in *Interpreter) drawLine() error {
	v, err := in.ints(6)
	if err != nil {
		return err
	}
	return in.content("drawLine", in.sub.Draw.DrawLine(v[0], v[1], v[2], v[3], v[4], v[5]))
}

func (in *Interpreter) drawLineTrueColor() error {
	v, err := in.ints(6)
	if err != nil {
		return err
	}
	return in.content("drawLine", in.sub.Draw.DrawLine(v[0], v[1], v[2], v[3], v[4], trueColor(v[5])))
}

func (in *Interpreter) putPixel() error {
	v, err := in.ints(4)
	if err != nil {
		return err
	}
	return in.content("putPixel", in.sub.Draw.PutPixel(v[0], v[1], v[2], v[3]))
}

func (in *Interpreter) putPixelTrueColor() error {
	v, err := in.ints(4)
	if err != nil {
		return err
	}
	return in.content("putPixel", in.sub.Draw.PutPixel(v[0], v[1], v[2], trueColor(v[3])))
}

// trueColor expands a RGB555 color operand to 0xRRGGBB.
func trueColor(c int) int {
	expand := func(v int) int { return v<<3 | v>>2 }
	r := expand((c >> 10) & 0x1F)
	g := expand((c >> 5) & 0x1F)
	b := expand(c & 0x1F)
	return r<<16 | g<<8 | b
}

func (in *Interpreter) loadMult() error {
	id, err := in.cursor.FetchWord()
	if err != nil {
		return err
	}
	res, err := in.resource(id)
	if err != nil {
		return in.content("loadMult", err)
	}
	return in.content("loadMult", in.sub.Mult.Load(res))
}

func (in *Interpreter) playMult() error {
	v, err := in.ints(1)
	if err != nil {
		return err
	}
	return in.content("playMult", in.sub.Mult.Play(v[0]))
}

func (in *Interpreter) freeMult() error {
	in.sub.Mult.Free()
	return nil
}

func (in *Interpreter) initMult() error {
	v, err := in.ints(5)
	if err != nil {
		return err
	}
	return in.content("initMult", in.sub.Mult.Init(v[0], v[1], v[2], v[3], v[4]))
}

func (in *Interpreter) loadMultObject() error {
	v, err := in.ints(6)
	if err != nil {
		return err
	}
	return in.content("loadMultObject", in.sub.Mult.LoadObject(v[0], v[1], v[2], v[3], v[4], v[5]))
}

func (in *Interpreter) animateMult() error {
	in.sub.Mult.Animate()
	return nil
}

// storePosition reads two variable references and writes the coordinates.
func (in *Interpreter) storePosition(x, y int) error {
	refX, err := in.eval.ReadVarRef(in.cursor)
	if err != nil {
		return err
	}
	refY, err := in.eval.ReadVarRef(in.cursor)
	if err != nil {
		return err
	}
	if err := in.eval.AssignInt(refX, int32(x)); err != nil {
		return err
	}
	return in.eval.AssignInt(refY, int32(y))
}

func (in *Interpreter) getObjectPosition() error {
	v, err := in.ints(1)
	if err != nil {
		return err
	}
	x, y, err := in.sub.Mult.ObjectPosition(v[0])
	if err != nil {
		_ = in.content("getObjectPosition", err)
		x, y = 0, 0
	}
	return in.storePosition(x, y)
}

func (in *Interpreter) waitMult() error {
	v, err := in.ints(1)
	if err != nil {
		return err
	}
	if !in.sub.Mult.Finished(v[0]) {
		in.suspend(Wait{Kind: WaitAnimation, ID: v[0]})
	}
	return nil
}

// loadSlot loads a resource into a subsystem slot and stores the slot index,
// -1 if loading failed.
func (in *Interpreter) loadSlot(operation string, load func(res script.Resource) (int, error)) error {
	id, err := in.cursor.FetchWord()
	if err != nil {
		return err
	}
	ref, err := in.eval.ReadVarRef(in.cursor)
	if err != nil {
		return err
	}

	index := -1
	res, err := in.resource(id)
	if err == nil {
		index, err = load(res)
	}
	if err != nil {
		_ = in.content(operation, err)
		index = -1
	}
	return in.eval.AssignInt(ref, int32(index))
}

func (in *Interpreter) loadStatic() error {
	return in.loadSlot("loadStatic", in.sub.Scenery.LoadStatic)
}

func (in *Interpreter) freeStatic() error {
	v, err := in.ints(1)
	if err != nil {
		return err
	}
	return in.content("freeStatic", in.sub.Scenery.FreeStatic(v[0]))
}

func (in *Interpreter) renderStatic() error {
	v, err := in.ints(2)
	if err != nil {
		return err
	}
	return in.content("renderStatic", in.sub.Scenery.RenderStatic(v[0], v[1]))
}

func (in *Interpreter) loadSceneryAnim() error {
	return in.loadSlot("loadSceneryAnim", in.sub.Scenery.LoadAnim)
}

func (in *Interpreter) freeSceneryAnim() error {
	v, err := in.ints(1)
	if err != nil {
		return err
	}
	return in.content("freeSceneryAnim", in.sub.Scenery.FreeAnim(v[0]))
}

func (in *Interpreter) updateSceneryAnim() error {
	v, err := in.ints(5)
	if err != nil {
		return err
	}
	return in.content("updateSceneryAnim", in.sub.Scenery.UpdateAnim(v[0], v[1], v[2], v[3], v[4]))
}
