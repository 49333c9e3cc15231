package inter

func (in *Interpreter) placeGoblin() error {
	v, err := in.ints(3)
	if err != nil {
		return err
	}
	return in.content("placeGoblin", in.sub.Goblins.Place(v[0], v[1], v[2]))
}

func (in *Interpreter) setGoblinState() error {
	v, err := in.ints(2)
	if err != nil {
		return err
	}
	return in.content("setGoblinState", in.sub.Goblins.SetState(v[0], v[1]))
}

func (in *Interpreter) getGoblinPosition() error {
	v, err := in.ints(1)
	if err != nil {
		return err
	}
	x, y, err := in.sub.Goblins.Position(v[0])
	if err != nil {
		_ = in.content("getGoblinPosition", err)
		x, y = 0, 0
	}
	return in.storePosition(x, y)
}

func (in *Interpreter) initMap() error {
	v, err := in.ints(2)
	if err != nil {
		return err
	}
	return in.content("initMap", in.sub.Map.Init(v[0], v[1]))
}

func (in *Interpreter) setMapCell() error {
	v, err := in.ints(3)
	if err != nil {
		return err
	}
	return in.content("setMapCell", in.sub.Map.SetCell(v[0], v[1], v[2]))
}

func (in *Interpreter) moveGoblin() error {
	v, err := in.ints(3)
	if err != nil {
		return err
	}
	return in.content("moveGoblin", in.sub.Goblins.Move(v[0], v[1], v[2]))
}

func (in *Interpreter) stepGoblins() error {
	in.sub.Goblins.Step()
	return nil
}

func (in *Interpreter) isGoblinMoving() error {
	v, err := in.ints(1)
	if err != nil {
		return err
	}
	ref, err := in.eval.ReadVarRef(in.cursor)
	if err != nil {
		return err
	}
	moving := int32(0)
	if in.sub.Goblins.Moving(v[0]) {
		moving = 1
	}
	return in.eval.AssignInt(ref, moving)
}

func (in *Interpreter) waitGoblin() error {
	v, err := in.ints(1)
	if err != nil {
		return err
	}
	if in.sub.Goblins.Moving(v[0]) {
		in.suspend(Wait{Kind: WaitActor, ID: v[0]})
	}
	return nil
}
