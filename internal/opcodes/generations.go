package opcodes

// generations is ordered by generation, later entries override earlier ones.
var generations = []revision{
	{
		generation: 1,
		funcs: []entry{
			{0x00, CallSub},
			{0x01, Jump},
			{0x02, PrintTotText},
			{0x03, JumpIf},
			{0x04, If},
			{0x05, Switch},
			{0x06, Return},
			{0x07, Exit},
			{0x08, Assign},
			{0x09, LoadTot},
			{0x0A, WaitTicks},
			{0x0B, KeyFunc},
			{0x0C, RenewTimeInVars},

			{0x10, PrintText},
			{0x11, CreateSprite},
			{0x12, FreeSprite},
			{0x13, FillRect},
			{0x14, DrawLine},
			{0x15, PutPixel},
			{0x16, DrawOperations},
			{0x17, GoblinFunc},
			{0x18, PalLoad},
			{0x19, AnimPalInit},
			{0x1A, AnimatePalette},
			{0x1B, SetFrameRate},

			{0x20, PlaySound},
			{0x21, StopSound},
			{0x22, LoadSound},
			{0x23, FreeSoundSlot},
			{0x24, WaitEndPlay},
			{0x26, PlayMusic},

			{0x30, StrToLong},
			{0x31, CleanupStr},
			{0x32, InsertStr},
			{0x33, CutStr},
			{0x34, StrStr},
			{0x35, StrLen},
		},
		draws: []entry{
			{0x00, LoadMult},
			{0x01, PlayMult},
			{0x02, FreeMult},
			{0x03, InitMult},
			{0x04, LoadMultObject},
			{0x05, AnimateMult},
			{0x06, GetObjectPosition},

			{0x10, LoadStatic},
			{0x11, FreeStatic},
			{0x12, RenderStatic},
		},
		goblins: []entry{
			{0x00, PlaceGoblin},
			{0x01, SetGoblinState},
			{0x02, GetGoblinPosition},
			{0x03, InitMap},
			{0x04, SetMapCell},
			{0x06, StepGoblins},
			{0x07, IsGoblinMoving},
		},
	},
	{
		generation: 2,
		funcs: []entry{
			{0x40, TotSub},
		},
		draws: []entry{
			{0x07, WaitMult},
			{0x13, LoadSceneryAnim},
			{0x14, FreeSceneryAnim},
			{0x15, UpdateSceneryAnim},
		},
		goblins: []entry{
			{0x05, MoveGoblin},
			{0x08, WaitGoblin},
		},
	},
	{
		generation: 3,
		funcs: []entry{
			{0x41, PlayVideo},
			{0x42, StopVideo},
			{0x43, WaitVideo},
		},
	},
	{
		generation: 4,
		funcs: []entry{
			{0x44, GetVideoFrame},
		},
	},
}
