package evaluator

// FrameID addresses a frame inside an Arena.
type FrameID int

// NoFrame is the parent of a root frame.
const NoFrame FrameID = -1

type frame struct {
	bindings map[string]Value
	parent   FrameID
}

// Arena owns every environment frame created during one execution.
// Frames refer to their parent by index, so closures can keep a frame alive
// after the call that created it has returned.
type Arena struct {
	frames []frame
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// NewFrame allocates a frame whose parent is parent (NoFrame for a root).
func (a *Arena) NewFrame(parent FrameID) FrameID {
	a.frames = append(a.frames, frame{
		bindings: make(map[string]Value),
		parent:   parent,
	})
	return FrameID(len(a.frames) - 1)
}

// Len returns the number of frames allocated so far.
func (a *Arena) Len() int {
	return len(a.frames)
}

// Parent returns the parent of f.
func (a *Arena) Parent(f FrameID) FrameID {
	return a.frames[f].parent
}

// Define binds name in f only. A name may be bound once per frame.
func (a *Arena) Define(f FrameID, name string, val Value) error {
	b := a.frames[f].bindings
	if _, exists := b[name]; exists {
		return &DuplicateDefinitionError{Name: name}
	}
	b[name] = val
	return nil
}

// Set rebinds name in the nearest frame, starting at f, that binds it.
func (a *Arena) Set(f FrameID, name string, val Value) error {
	owner, ok := a.owner(f, name)
	if !ok {
		return &UnboundVariableError{Name: name}
	}
	a.frames[owner].bindings[name] = val
	return nil
}

// Lookup resolves name starting at f and walking outward.
func (a *Arena) Lookup(f FrameID, name string) (Value, bool) {
	owner, ok := a.owner(f, name)
	if !ok {
		return nil, false
	}
	return a.frames[owner].bindings[name], true
}

// Has checks whether name is bound in f or any ancestor.
func (a *Arena) Has(f FrameID, name string) bool {
	_, ok := a.owner(f, name)
	return ok
}

func (a *Arena) owner(f FrameID, name string) (FrameID, bool) {
	for f != NoFrame {
		if _, ok := a.frames[f].bindings[name]; ok {
			return f, true
		}
		f = a.frames[f].parent
	}
	return NoFrame, false
}
