package agent

// Factories is the registered agent factory table the configuration
// loader dispatches against, keyed by the stable type identifier that
// appears on the first line of each configuration block. Extension
// beyond the operators in §4.2 of the original design is out of scope;
// callers that need more register additional entries in their own copy.
var Factories = map[string]Factory{
	"add":     NewAdd,
	"inc":     NewInc,
	"and":     NewAnd,
	"or":      NewOr,
	"xor":     NewXor,
	"not":     NewNot,
	"compare": NewCompare,
}

// Lookup returns the registered factory for typeName, or false if no
// such type has been registered.
func Lookup(typeName string) (Factory, bool) {
	f, ok := Factories[typeName]
	return f, ok
}
