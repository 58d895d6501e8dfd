package joystick

import "fmt"

// SourceKind identifies the device class of an input source.
type SourceKind uint8

const (
	// SourceMouse is the single mouse pointer.
	SourceMouse SourceKind = iota
	// SourceTouch is one touch point, told apart by its platform identifier.
	SourceTouch
)

// Source is one input origin: the mouse, or a single touch.
type Source struct {
	Kind SourceKind
	ID   int
}

// Mouse is the mouse source.
var Mouse = Source{Kind: SourceMouse}

// Touch returns the source for a platform touch identifier.
func Touch(id int) Source {
	return Source{Kind: SourceTouch, ID: id}
}

// String formats the source for logs.
func (s Source) String() string {
	switch s.Kind {
	case SourceMouse:
		return "mouse"
	case SourceTouch:
		return fmt.Sprintf("touch#%d", s.ID)
	default:
		return fmt.Sprintf("source(%d)#%d", s.Kind, s.ID)
	}
}

// String returns the protocol name of the kind.
func (k SourceKind) String() string {
	switch k {
	case SourceMouse:
		return "mouse"
	case SourceTouch:
		return "touch"
	default:
		return "unknown"
	}
}

// ParseSourceKind maps a protocol name to a kind.
func ParseSourceKind(name string) (SourceKind, bool) {
	switch name {
	case "mouse":
		return SourceMouse, true
	case "touch":
		return SourceTouch, true
	default:
		return 0, false
	}
}
