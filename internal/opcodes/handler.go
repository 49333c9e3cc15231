package opcodes

import "fmt"

// Handler identifies the operation an opcode dispatches to.
type Handler uint16

// Handlers of the function category.
const (
	Unknown Handler = iota

	CallSub
	Jump
	PrintTotText
	JumpIf
	If
	Switch
	Return
	Exit
	Assign
	LoadTot
	LoadTotDemo
	WaitTicks
	KeyFunc
	RenewTimeInVars
	PrintText
	CreateSprite
	FreeSprite
	FillRect
	FillRectTrueColor
	DrawLine
	DrawLineTrueColor
	PutPixel
	PutPixelTrueColor
	DrawOperations
	GoblinFunc
	PalLoad
	PalLoadEGA
	AnimPalInit
	AnimPalInitEGA
	AnimatePalette
	AnimatePaletteEGA
	SetFrameRate
	PlaySound
	StopSound
	LoadSound
	FreeSoundSlot
	WaitEndPlay
	PlayCDTrack
	PlayMusic
	SkipMusic
	StrToLong
	CleanupStr
	InsertStr
	CutStr
	StrStr
	StrLen
	TotSub
	PlayVideo
	StopVideo
	WaitVideo
	GetVideoFrame

	// drawing category
	LoadMult
	PlayMult
	FreeMult
	InitMult
	LoadMultObject
	AnimateMult
	GetObjectPosition
	WaitMult
	LoadStatic
	FreeStatic
	RenderStatic
	LoadSceneryAnim
	FreeSceneryAnim
	UpdateSceneryAnim

	// goblin category
	PlaceGoblin
	SetGoblinState
	GetGoblinPosition
	InitMap
	SetMapCell
	MoveGoblin
	StepGoblins
	IsGoblinMoving
	WaitGoblin

	handlerCount
)

var handlerNames = [handlerCount]string{
	Unknown:           "unknown",
	CallSub:           "callSub",
	Jump:              "jump",
	PrintTotText:      "printTotText",
	JumpIf:            "jumpIf",
	If:                "if",
	Switch:            "switch",
	Return:            "return",
	Exit:              "exit",
	Assign:            "assign",
	LoadTot:           "loadTot",
	LoadTotDemo:       "loadTotDemo",
	WaitTicks:         "waitTicks",
	KeyFunc:           "keyFunc",
	RenewTimeInVars:   "renewTimeInVars",
	PrintText:         "printText",
	CreateSprite:      "createSprite",
	FreeSprite:        "freeSprite",
	FillRect:          "fillRect",
	FillRectTrueColor: "fillRectTrueColor",
	DrawLine:          "drawLine",
	DrawLineTrueColor: "drawLineTrueColor",
	PutPixel:          "putPixel",
	PutPixelTrueColor: "putPixelTrueColor",
	DrawOperations:    "drawOperations",
	GoblinFunc:        "goblinFunc",
	PalLoad:           "palLoad",
	PalLoadEGA:        "palLoadEGA",
	AnimPalInit:       "animPalInit",
	AnimPalInitEGA:    "animPalInitEGA",
	AnimatePalette:    "animatePalette",
	AnimatePaletteEGA: "animatePaletteEGA",
	SetFrameRate:      "setFrameRate",
	PlaySound:         "playSound",
	StopSound:         "stopSound",
	LoadSound:         "loadSound",
	FreeSoundSlot:     "freeSoundSlot",
	WaitEndPlay:       "waitEndPlay",
	PlayCDTrack:       "playCDTrack",
	PlayMusic:         "playMusic",
	SkipMusic:         "skipMusic",
	StrToLong:         "strToLong",
	CleanupStr:        "cleanupStr",
	InsertStr:         "insertStr",
	CutStr:            "cutStr",
	StrStr:            "strStr",
	StrLen:            "strLen",
	TotSub:            "totSub",
	PlayVideo:         "playVideo",
	StopVideo:         "stopVideo",
	WaitVideo:         "waitVideo",
	GetVideoFrame:     "getVideoFrame",
	LoadMult:          "loadMult",
	PlayMult:          "playMult",
	FreeMult:          "freeMult",
	InitMult:          "initMult",
	LoadMultObject:    "loadMultObject",
	AnimateMult:       "animateMult",
	GetObjectPosition: "getObjectPosition",
	WaitMult:          "waitMult",
	LoadStatic:        "loadStatic",
	FreeStatic:        "freeStatic",
	RenderStatic:      "renderStatic",
	LoadSceneryAnim:   "loadSceneryAnim",
	FreeSceneryAnim:   "freeSceneryAnim",
	UpdateSceneryAnim: "updateSceneryAnim",
	PlaceGoblin:       "placeGoblin",
	SetGoblinState:    "setGoblinState",
	GetGoblinPosition: "getGoblinPosition",
	InitMap:           "initMap",
	SetMapCell:        "setMapCell",
	MoveGoblin:        "moveGoblin",
	StepGoblins:       "stepGoblins",
	IsGoblinMoving:    "isGoblinMoving",
	WaitGoblin:        "waitGoblin",
}

func (h Handler) String() string {
	if h < handlerCount {
		return handlerNames[h]
	}
	return fmt.Sprintf("handler(%d)", uint16(h))
}

// AllHandlers returns every known handler identity except Unknown.
func AllHandlers() []Handler {
	handlers := make([]Handler, 0, handlerCount-1)
	for h := Unknown + 1; h < handlerCount; h++ {
		handlers = append(handlers, h)
	}
	return handlers
}
