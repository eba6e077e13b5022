package opcode

import "fmt"

// BuiltIn is the id of a host-implemented function or method. CallRoutine ids
// below UserFunctionBase that have no user function, and every CallMethod id,
// resolve to a BuiltIn.
type BuiltIn uint32

// Free functions.
const (
	EffectTransition BuiltIn = 102
	Random           BuiltIn = 103
	DebugPrint       BuiltIn = 180
	BranchToScreen   BuiltIn = 201
	ReleaseContext   BuiltIn = 338
	LoadContext      BuiltIn = 339

	// Collection functions take the collection's variable handle first.
	CollectionAppend   BuiltIn = 247
	CollectionCount    BuiltIn = 249
	CollectionEmpty    BuiltIn = 252
	CollectionGetAt    BuiltIn = 253
	CollectionIsEmpty  BuiltIn = 254
	CollectionSeek     BuiltIn = 256
	CollectionSend     BuiltIn = 257
	CollectionDeleteAt BuiltIn = 258
	CollectionSort     BuiltIn = 266
)

// Methods.
const (
	SpatialShow           BuiltIn = 202
	SpatialHide           BuiltIn = 203
	SpatialMoveTo         BuiltIn = 204
	SpatialMoveToByOffset BuiltIn = 205
	TimePlay              BuiltIn = 206
	TimeStop              BuiltIn = 207
	MouseActivate         BuiltIn = 210
	MouseDeactivate       BuiltIn = 211
	SpatialZMoveTo        BuiltIn = 216
	XPosition             BuiltIn = 233
	YPosition             BuiltIn = 234
	Width                 BuiltIn = 235
	Height                BuiltIn = 236
	ZIndex                BuiltIn = 237
	SetDuration           BuiltIn = 262
	PercentComplete       BuiltIn = 263
	IsVisible             BuiltIn = 269
	Text                  BuiltIn = 290
	SetText               BuiltIn = 291
	ViewportMoveTo        BuiltIn = 352
	XViewportPosition     BuiltIn = 354
	YViewportPosition     BuiltIn = 355
	PanTo                 BuiltIn = 356
	IsActive              BuiltIn = 371
	IsPlaying             BuiltIn = 372
)

var builtInNames = map[BuiltIn]string{
	EffectTransition:      "effectTransition",
	Random:                "random",
	DebugPrint:            "debugPrint",
	BranchToScreen:        "branchToScreen",
	ReleaseContext:        "releaseContext",
	LoadContext:           "loadContext",
	CollectionAppend:      "append",
	CollectionCount:       "count",
	CollectionEmpty:       "empty",
	CollectionGetAt:       "getAt",
	CollectionIsEmpty:     "isEmpty",
	CollectionSeek:        "seek",
	CollectionSend:        "send",
	CollectionDeleteAt:    "deleteAt",
	CollectionSort:        "sort",
	SpatialShow:           "spatialShow",
	SpatialHide:           "spatialHide",
	SpatialMoveTo:         "spatialMoveTo",
	SpatialMoveToByOffset: "spatialMoveToByOffset",
	TimePlay:              "timePlay",
	TimeStop:              "timeStop",
	MouseActivate:         "mouseActivate",
	MouseDeactivate:       "mouseDeactivate",
	SpatialZMoveTo:        "spatialZMoveTo",
	XPosition:             "xPosition",
	YPosition:             "yPosition",
	Width:                 "width",
	Height:                "height",
	ZIndex:                "zIndex",
	SetDuration:           "setDuration",
	PercentComplete:       "percentComplete",
	IsVisible:             "isVisible",
	Text:                  "text",
	SetText:               "setText",
	ViewportMoveTo:        "viewportMoveTo",
	XViewportPosition:     "xViewportPosition",
	YViewportPosition:     "yViewportPosition",
	PanTo:                 "panTo",
	IsActive:              "isActive",
	IsPlaying:             "isPlaying",
}

func (b BuiltIn) String() string {
	if name, ok := builtInNames[b]; ok {
		return name
	}
	return fmt.Sprintf("builtin(%d)", uint32(b))
}

// Known reports whether the id names a built-in this player implements for
// at least one receiver.
func (b BuiltIn) Known() bool {
	_, ok := builtInNames[b]
	return ok
}
