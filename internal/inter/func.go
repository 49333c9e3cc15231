package inter

import (
	"github.com/retroenv/retrogob/internal/expr"
	"github.com/retroenv/retrogob/internal/opcodes"
	"github.com/retroenv/retrogob/internal/script"
	"github.com/retroenv/retrogolib/log"
)

func (in *Interpreter) callSub() error {
	target, err := in.cursor.FetchWord()
	if err != nil {
		return err
	}
	return in.cursor.Call(nil, uint32(target))
}

func (in *Interpreter) jump() error {
	target, err := in.cursor.FetchWord()
	if err != nil {
		return err
	}
	return in.cursor.Seek(uint32(target))
}

func (in *Interpreter) printTotText() error {
	id, err := in.cursor.FetchWord()
	if err != nil {
		return err
	}
	text, err := in.cursor.Program().Text(int(id))
	if err != nil {
		return in.content("printTotText", err)
	}
	return in.content("printTotText", in.sub.Draw.PrintTotText(int(id), text))
}

// branch evaluates a condition followed by a target and jumps to the target
// when the condition equals jumpWhen.
func (in *Interpreter) branch(jumpWhen bool) error {
	cond, err := in.eval.EvalBool(in.cursor)
	if err != nil {
		return err
	}
	target, err := in.cursor.FetchWord()
	if err != nil {
		return err
	}
	if cond == jumpWhen {
		return in.cursor.Seek(uint32(target))
	}
	return nil
}

func (in *Interpreter) jumpIf() error {
	return in.branch(true)
}

func (in *Interpreter) ifElse() error {
	return in.branch(false)
}

func (in *Interpreter) switchCase() error {
	value, err := in.eval.EvalInt(in.cursor)
	if err != nil {
		return err
	}
	count, err := in.cursor.FetchByte()
	if err != nil {
		return err
	}

	target := -1
	for range int(count) {
		caseValue, err := in.cursor.FetchInt32()
		if err != nil {
			return err
		}
		caseTarget, err := in.cursor.FetchWord()
		if err != nil {
			return err
		}
		if target < 0 && caseValue == value {
			target = int(caseTarget)
		}
	}
	defaultTarget, err := in.cursor.FetchWord()
	if err != nil {
		return err
	}
	if target < 0 {
		target = int(defaultTarget)
	}
	return in.cursor.Seek(uint32(target))
}

func (in *Interpreter) ret() error {
	frame, err := in.cursor.Ret()
	if err != nil {
		return err
	}
	if frame.Program == nil {
		in.logger.Debug("Program returned", log.String("program", in.prog.Name()))
		in.halt()
	}
	return nil
}

func (in *Interpreter) exit() error {
	in.logger.Debug("Program exited", log.String("program", in.prog.Name()))
	in.halt()
	return nil
}

func (in *Interpreter) assign() error {
	ref, err := in.eval.ReadVarRef(in.cursor)
	if err != nil {
		return err
	}
	value, err := in.eval.Eval(in.cursor)
	if err != nil {
		return err
	}
	return in.eval.Assign(ref, value)
}

func (in *Interpreter) loadTot() error {
	name, err := in.cursor.FetchString()
	if err != nil {
		return err
	}
	in.logger.Debug("Loading program", log.String("program", name))
	in.halt()
	in.next = name
	return nil
}

func (in *Interpreter) loadTotDemo() error {
	name, err := in.cursor.FetchString()
	if err != nil {
		return err
	}
	in.logger.Info("Demo ends before loading program", log.String("program", name))
	in.halt()
	return nil
}

func (in *Interpreter) waitTicks() error {
	ticks, err := in.eval.EvalInt(in.cursor)
	if err != nil {
		return err
	}
	if ticks > 0 {
		in.suspend(Wait{Kind: WaitTimer, Deadline: in.clock.Ticks() + uint32(ticks)})
	}
	return nil
}

// keyFunc polls the keyboard in mode 0 and waits for a key in mode 1.
func (in *Interpreter) keyFunc() error {
	mode, err := in.cursor.FetchByte()
	if err != nil {
		return err
	}
	ref, err := in.eval.ReadVarRef(in.cursor)
	if err != nil {
		return err
	}

	key, ok := in.sub.Input.Key()
	if !ok {
		if mode == 1 {
			in.suspend(Wait{Kind: WaitInput, Target: ref})
			return nil
		}
		key = 0
	}
	return in.eval.AssignInt(ref, int32(key))
}

func (in *Interpreter) renewTimeInVars() error {
	slot, err := in.cursor.FetchWord()
	if err != nil {
		return err
	}
	return in.vars.WriteOff32(uint32(slot)*4, in.clock.Ticks())
}

func (in *Interpreter) drawOperations() error {
	op, err := in.cursor.FetchByte()
	if err != nil {
		return err
	}
	return in.dispatch(opcodes.Draw, op)
}

func (in *Interpreter) goblinFunc() error {
	op, err := in.cursor.FetchByte()
	if err != nil {
		return err
	}
	return in.dispatch(opcodes.Goblin, op)
}

func (in *Interpreter) setFrameRate() error {
	rate, err := in.eval.EvalInt(in.cursor)
	if err != nil {
		return err
	}
	if rate > 0 {
		in.frameRate = int(rate)
	}
	return nil
}

// totSub calls a function of another program, a return continues in the
// calling program.
func (in *Interpreter) totSub() error {
	name, err := in.cursor.FetchString()
	if err != nil {
		return err
	}
	index, err := in.cursor.FetchByte()
	if err != nil {
		return err
	}

	prog, err := in.subProgram(name)
	if err != nil {
		return in.content("totSub", err)
	}
	offset, err := prog.FunctionOffset(int(index))
	if err != nil {
		return in.content("totSub", err)
	}
	return in.cursor.Call(prog, offset)
}

func (in *Interpreter) subProgram(name string) (*script.Program, error) {
	current := in.cursor.Program()
	if in.variant.IsCurrentTot(current.Name(), name) {
		return current, nil
	}
	if in.loader == nil {
		return nil, script.ErrMissingResource
	}
	return in.loader.LoadProgram(name)
}

// evalVarRefString reads a variable reference and its current string value.
func (in *Interpreter) evalVarRefString() (expr.VarRef, string, error) {
	ref, err := in.eval.ReadVarRef(in.cursor)
	if err != nil {
		return expr.VarRef{}, "", err
	}
	value, err := in.eval.Load(ref)
	if err != nil {
		return expr.VarRef{}, "", err
	}
	s, err := value.AsString()
	if err != nil {
		return expr.VarRef{}, "", err
	}
	return ref, s, nil
}
