package opcode

import "fmt"

// EventType is the trigger of an event handler.
type EventType uint16

const (
	EventTime           EventType = 5
	EventMouseDown      EventType = 6
	EventMouseUp        EventType = 7
	EventMouseMoved     EventType = 8
	EventMouseEntered   EventType = 9
	EventMouseExited    EventType = 10
	EventKeyDown        EventType = 13
	EventSoundEnd       EventType = 14
	EventMovieEnd       EventType = 15
	EventPathEnd        EventType = 16
	EventEntry          EventType = 17
	EventSoundAbort     EventType = 19
	EventSoundFailure   EventType = 20
	EventMovieAbort     EventType = 21
	EventMovieFailure   EventType = 22
	EventSpriteMovieEnd EventType = 23
	EventExit           EventType = 27
	EventPathStep       EventType = 28
	EventSoundStopped   EventType = 29
	EventSoundBegin     EventType = 30
	EventMovieStopped   EventType = 31
	EventMovieBegin     EventType = 32
	EventPathStopped    EventType = 33
)

var eventNames = map[EventType]string{
	EventTime:           "Time",
	EventMouseDown:      "MouseDown",
	EventMouseUp:        "MouseUp",
	EventMouseMoved:     "MouseMoved",
	EventMouseEntered:   "MouseEntered",
	EventMouseExited:    "MouseExited",
	EventKeyDown:        "KeyDown",
	EventSoundEnd:       "SoundEnd",
	EventMovieEnd:       "MovieEnd",
	EventPathEnd:        "PathEnd",
	EventEntry:          "Entry",
	EventSoundAbort:     "SoundAbort",
	EventSoundFailure:   "SoundFailure",
	EventMovieAbort:     "MovieAbort",
	EventMovieFailure:   "MovieFailure",
	EventSpriteMovieEnd: "SpriteMovieEnd",
	EventExit:           "Exit",
	EventPathStep:       "PathStep",
	EventSoundStopped:   "SoundStopped",
	EventSoundBegin:     "SoundBegin",
	EventMovieStopped:   "MovieStopped",
	EventMovieBegin:     "MovieBegin",
	EventPathStopped:    "PathStopped",
}

func (e EventType) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Event(%d)", uint16(e))
}

// ArgumentType describes the value an event handler is keyed on.
type ArgumentType uint16

const (
	ArgumentNull      ArgumentType = 1
	ArgumentAsciiCode ArgumentType = 2
	ArgumentTime      ArgumentType = 3
	ArgumentUnk1      ArgumentType = 4
	ArgumentContext   ArgumentType = 5
)

func (a ArgumentType) String() string {
	switch a {
	case ArgumentNull:
		return "Null"
	case ArgumentAsciiCode:
		return "AsciiCode"
	case ArgumentTime:
		return "Time"
	case ArgumentUnk1:
		return "Unk1"
	case ArgumentContext:
		return "Context"
	}
	return fmt.Sprintf("Argument(%d)", uint16(a))
}
