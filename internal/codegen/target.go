package codegen

// Target describes the calling convention the generator emits for. The
// instruction text itself is AT&T x86-64; what varies between conventions
// is which registers carry arguments, the word size and the alignment the
// stack must have at a call.
type Target interface {
	Name() string
	WordSize() int
	StackAlign() int
	// ArgRegisters lists the integer argument registers in order. The first
	// one carries the receiver, so a call takes at most len-1 explicit arguments.
	ArgRegisters() []string
	// CallRegister holds the entry point of an indirect call.
	CallRegister() string
	// External spells a call to a C library function.
	External(name string) string
}

type amd64SysV struct{}

// AMD64SysV is the System V AMD64 convention used by Linux.
func AMD64SysV() Target { return amd64SysV{} }

func (amd64SysV) Name() string    { return "amd64-sysv" }
func (amd64SysV) WordSize() int   { return 8 }
func (amd64SysV) StackAlign() int { return 16 }
func (amd64SysV) ArgRegisters() []string {
	return []string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}
}
func (amd64SysV) CallRegister() string        { return "%r10" }
func (amd64SysV) External(name string) string { return name + "@PLT" }

// maxExplicitArgs is how many arguments besides the receiver fit in registers.
func maxExplicitArgs(t Target) int { return len(t.ArgRegisters()) - 1 }
