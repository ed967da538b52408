package lexer

import "github.com/visiboole/Visiboole-sub000/pkg/namespace"

// ModuleResolver locates the design file backing a submodule
// instantiation. Implementations search the filesystem; tests substitute
// an in-memory fake.
type ModuleResolver interface {
	// Resolve returns the path of the file declaring the named module,
	// or an error when no searched location declares it.
	Resolve(designName string) (string, error)
}

// Context carries the per-design state threaded through every statement
// scan: the design's identity, its namespace registry, the submodule
// resolver, and the instantiation bookkeeping that must persist across
// statements.
type Context struct {
	// DesignName is the design's declared name, taken from its file
	// name. A lexeme equal to it introduces the module header.
	DesignName string

	// Registry records which bit indices each variable name has been
	// declared with.
	Registry *namespace.Registry

	// Resolver locates subdesign files for instantiations. May be nil,
	// in which case every instantiation fails to resolve.
	Resolver ModuleResolver

	// Instances maps instantiation names to the design they instantiate.
	// An instantiation name must be unique within one design file.
	Instances map[string]string

	// Subdesigns maps resolved design names to their file paths. Each
	// unique design is resolved once.
	Subdesigns map[string]string
}

// NewContext creates a scan context for the named design.
func NewContext(designName string, registry *namespace.Registry, resolver ModuleResolver) *Context {
	return &Context{
		DesignName: designName,
		Registry:   registry,
		Resolver:   resolver,
		Instances:  make(map[string]string),
		Subdesigns: make(map[string]string),
	}
}
