package inter

func (in *Interpreter) palLoad() error {
	first, err := in.cursor.FetchByte()
	if err != nil {
		return err
	}
	count, err := in.cursor.FetchByte()
	if err != nil {
		return err
	}
	rgb, err := in.cursor.FetchBytes(int(count) * 3)
	if err != nil {
		return err
	}
	return in.content("palLoad", in.sub.Palette.SetColors(int(first), rgb))
}

func (in *Interpreter) palLoadEGA() error {
	count, err := in.cursor.FetchByte()
	if err != nil {
		return err
	}
	indexes, err := in.cursor.FetchBytes(int(count))
	if err != nil {
		return err
	}
	return in.content("palLoadEGA", in.sub.Palette.SetEGA(indexes))
}

func (in *Interpreter) animPalInitOperands() (int, []int, error) {
	index, err := in.cursor.FetchByte()
	if err != nil {
		return 0, nil, err
	}
	v, err := in.ints(3)
	if err != nil {
		return 0, nil, err
	}
	return int(index), v, nil
}

func (in *Interpreter) animPalInit() error {
	index, v, err := in.animPalInitOperands()
	if err != nil {
		return err
	}
	return in.content("animPalInit", in.sub.Palette.InitRange(index, v[0], v[1], v[2]))
}

// animPalInitEGA consumes the operands, EGA palettes do not cycle.
func (in *Interpreter) animPalInitEGA() error {
	_, _, err := in.animPalInitOperands()
	return err
}

func (in *Interpreter) animatePalette() error {
	in.sub.Palette.Animate()
	return nil
}

// animatePaletteEGA does nothing, EGA palettes do not cycle.
func (in *Interpreter) animatePaletteEGA() error {
	return nil
}

func (in *Interpreter) playSound() error {
	v, err := in.ints(3)
	if err != nil {
		return err
	}
	return in.content("playSound", in.sub.Sound.Play(v[0], v[1], v[2]))
}

func (in *Interpreter) stopSound() error {
	v, err := in.ints(1)
	if err != nil {
		return err
	}
	return in.content("stopSound", in.sub.Sound.Stop(v[0]))
}

func (in *Interpreter) loadSound() error {
	v, err := in.ints(1)
	if err != nil {
		return err
	}
	id, err := in.cursor.FetchWord()
	if err != nil {
		return err
	}
	res, err := in.resource(id)
	if err != nil {
		return in.content("loadSound", err)
	}
	return in.content("loadSound", in.sub.Sound.Load(v[0], res))
}

func (in *Interpreter) freeSoundSlot() error {
	v, err := in.ints(1)
	if err != nil {
		return err
	}
	return in.content("freeSoundSlot", in.sub.Sound.Free(v[0]))
}

func (in *Interpreter) waitEndPlay() error {
	if in.sub.Sound.Playing() {
		in.suspend(Wait{Kind: WaitSound})
	}
	return nil
}

func (in *Interpreter) playCDTrack() error {
	name, err := in.cursor.FetchString()
	if err != nil {
		return err
	}
	return in.content("playCDTrack", in.sub.Sound.PlayCDTrack(name))
}

func (in *Interpreter) playMusic() error {
	id, err := in.cursor.FetchWord()
	if err != nil {
		return err
	}
	res, err := in.resource(id)
	if err != nil {
		return in.content("playMusic", err)
	}
	return in.content("playMusic", in.sub.Sound.PlayMusic(res))
}

// skipMusic consumes the resource operand, releases without AdLib play no music.
func (in *Interpreter) skipMusic() error {
	_, err := in.cursor.FetchWord()
	return err
}

// playVideo starts a video, bit 0 of the flags waits for its completion.
func (in *Interpreter) playVideo() error {
	name, err := in.eval.EvalString(in.cursor)
	if err != nil {
		return err
	}
	v, err := in.ints(2)
	if err != nil {
		return err
	}
	flags, err := in.cursor.FetchByte()
	if err != nil {
		return err
	}

	if err := in.sub.Video.Play(name, v[0], v[1]); err != nil {
		return in.content("playVideo", err)
	}
	if flags&1 != 0 && !in.sub.Video.Done() {
		in.suspend(Wait{Kind: WaitVideo})
	}
	return nil
}

func (in *Interpreter) stopVideo() error {
	in.sub.Video.Stop()
	return nil
}

func (in *Interpreter) waitVideo() error {
	if !in.sub.Video.Done() {
		in.suspend(Wait{Kind: WaitVideo})
	}
	return nil
}

func (in *Interpreter) getVideoFrame() error {
	ref, err := in.eval.ReadVarRef(in.cursor)
	if err != nil {
		return err
	}
	return in.eval.AssignInt(ref, int32(in.sub.Video.Frame()))
}
