package lisp

import (
	"io"
	"strings"
)

// maxTraceFrames bounds how many frames Trace reports, so a runaway
// non-tail recursion doesn't produce an unreadable error message.
const maxTraceFrames = 8

// CallStack is a trail of the calls currently being evaluated in non-tail
// position whose head is a Symbol, each recorded under that Symbol's name.
// The trail itself is not bounded; Trace truncates what it reports.  Unlike a conventional interpreter call stack it
// has no bearing on control flow or tail-call elimination -- that is
// entirely the trampoline's job. CallStack exists only to annotate
// EvalError messages with a readable call chain and to back DebugPrint for
// interactive debugging.
type CallStack struct {
	Frames []CallFrame
}

// CallFrame is one frame of a CallStack.
type CallFrame struct {
	Name string // the symbol name the callee was looked up under, if any
}

// NewCallStack returns an empty CallStack.
func NewCallStack() *CallStack { return &CallStack{} }

// Push adds a frame to the top of s.
func (s *CallStack) Push(name string) {
	if s == nil {
		return
	}
	s.Frames = append(s.Frames, CallFrame{Name: name})
}

// Pop removes the top frame from s.  Pop is a no-op on an empty stack so
// that defer-based pop sites remain safe even after a panic recovery point.
func (s *CallStack) Pop() {
	if s == nil || len(s.Frames) == 0 {
		return
	}
	s.Frames = s.Frames[:len(s.Frames)-1]
}

// Trace renders the current call chain as ``f -> g -> h'', most recent call
// last, truncated to maxTraceFrames entries.
func (s *CallStack) Trace() string {
	if s == nil || len(s.Frames) == 0 {
		return ""
	}
	frames := s.Frames
	truncated := false
	if len(frames) > maxTraceFrames {
		frames = frames[len(frames)-maxTraceFrames:]
		truncated = true
	}
	names := make([]string, 0, len(frames)+1)
	if truncated {
		names = append(names, "...")
	}
	for _, f := range frames {
		if f.Name == "" {
			continue
		}
		names = append(names, f.Name)
	}
	return strings.Join(names, " -> ")
}

// DebugPrint writes a human readable rendering of the stack to w, most
// recent call first.
func (s *CallStack) DebugPrint(w io.Writer) error {
	if s == nil || len(s.Frames) == 0 {
		_, err := io.WriteString(w, "<empty call stack>\n")
		return err
	}
	for i := len(s.Frames) - 1; i >= 0; i-- {
		name := s.Frames[i].Name
		if name == "" {
			name = "<anonymous>"
		}
		if _, err := io.WriteString(w, "  "+name+"\n"); err != nil {
			return err
		}
	}
	return nil
}
