package inter

import "github.com/retroenv/retrogob/internal/opcodes"

func (in *Interpreter) handlerTable() map[opcodes.Handler]handlerFunc {
	return map[opcodes.Handler]handlerFunc{
		opcodes.CallSub:           in.callSub,
		opcodes.Jump:              in.jump,
		opcodes.PrintTotText:      in.printTotText,
		opcodes.JumpIf:            in.jumpIf,
		opcodes.If:                in.ifElse,
		opcodes.Switch:            in.switchCase,
		opcodes.Return:            in.ret,
		opcodes.Exit:              in.exit,
		opcodes.Assign:            in.assign,
		opcodes.LoadTot:           in.loadTot,
		opcodes.LoadTotDemo:       in.loadTotDemo,
		opcodes.WaitTicks:         in.waitTicks,
		opcodes.KeyFunc:           in.keyFunc,
		opcodes.RenewTimeInVars:   in.renewTimeInVars,
		opcodes.PrintText:         in.printText,
		opcodes.CreateSprite:      in.createSprite,
		opcodes.FreeSprite:        in.freeSprite,
		opcodes.FillRect:          in.fillRect,
		opcodes.FillRectTrueColor: in.fillRectTrueColor,
		opcodes.DrawLine:          in.drawLine,
		opcodes.DrawLineTrueColor: in.drawLineTrueColor,
		opcodes.PutPixel:          in.putPixel,
		opcodes.PutPixelTrueColor: in.putPixelTrueColor,
		opcodes.DrawOperations:    in.drawOperations,
		opcodes.GoblinFunc:        in.goblinFunc,
		opcodes.PalLoad:           in.palLoad,
		opcodes.PalLoadEGA:        in.palLoadEGA,
		opcodes.AnimPalInit:       in.animPalInit,
		opcodes.AnimPalInitEGA:    in.animPalInitEGA,
		opcodes.AnimatePalette:    in.animatePalette,
		opcodes.AnimatePaletteEGA: in.animatePaletteEGA,
		opcodes.SetFrameRate:      in.setFrameRate,
		opcodes.PlaySound:         in.playSound,
		opcodes.StopSound:         in.stopSound,
		opcodes.LoadSound:         in.loadSound,
		opcodes.FreeSoundSlot:     in.freeSoundSlot,
		opcodes.WaitEndPlay:       in.waitEndPlay,
		opcodes.PlayCDTrack:       in.playCDTrack,
		opcodes.PlayMusic:         in.playMusic,
		opcodes.SkipMusic:         in.skipMusic,
		opcodes.StrToLong:         in.strToLong,
		opcodes.CleanupStr:        in.cleanupStr,
		opcodes.InsertStr:         in.insertStr,
		opcodes.CutStr:            in.cutStr,
		opcodes.StrStr:            in.strStr,
		opcodes.StrLen:            in.strLen,
		opcodes.TotSub:            in.totSub,
		opcodes.PlayVideo:         in.playVideo,
		opcodes.StopVideo:         in.stopVideo,
		opcodes.WaitVideo:         in.waitVideo,
		opcodes.GetVideoFrame:     in.getVideoFrame,

		opcodes.LoadMult:          in.loadMult,
		opcodes.PlayMult:          in.playMult,
		opcodes.FreeMult:          in.freeMult,
		opcodes.InitMult:          in.initMult,
		opcodes.LoadMultObject:    in.loadMultObject,
		opcodes.AnimateMult:       in.animateMult,
		opcodes.GetObjectPosition: in.getObjectPosition,
		opcodes.WaitMult:          in.waitMult,
		opcodes.LoadStatic:        in.loadStatic,
		opcodes.FreeStatic:        in.freeStatic,
		opcodes.RenderStatic:      in.renderStatic,
		opcodes.LoadSceneryAnim:   in.loadSceneryAnim,
		opcodes.FreeSceneryAnim:   in.freeSceneryAnim,
		opcodes.UpdateSceneryAnim: in.updateSceneryAnim,

		opcodes.PlaceGoblin:       in.placeGoblin,
		opcodes.SetGoblinState:    in.setGoblinState,
		opcodes.GetGoblinPosition: in.getGoblinPosition,
		opcodes.InitMap:           in.initMap,
		opcodes.SetMapCell:        in.setMapCell,
		opcodes.MoveGoblin:        in.moveGoblin,
		opcodes.StepGoblins:       in.stepGoblins,
		opcodes.IsGoblinMoving:    in.isGoblinMoving,
		opcodes.WaitGoblin:        in.waitGoblin,
	}
}
