package types

// BlockBoundary marks the span of a structural block (function, class, ...)
// found by a single-pass parse.
type BlockBoundary struct {
	Start int
	End   int
	Type  BlockType
	Name  string
	Depth int
}

type BlockType uint8

const (
	BlockTypeFunction BlockType = iota
	BlockTypeClass
	BlockTypeMethod
	BlockTypeInterface
	BlockTypeStruct
	BlockTypeVariable
	BlockTypeBlock
	BlockTypeEnum
	BlockTypeTrait
	BlockTypeImpl
	BlockTypeModule
	BlockTypeNamespace
	BlockTypeConstructor
	BlockTypeOther
)

func (b BlockType) String() string {
	switch b {
	case BlockTypeFunction:
		return "function"
	case BlockTypeClass:
		return "class"
	case BlockTypeMethod:
		return "method"
	case BlockTypeInterface:
		return "interface"
	case BlockTypeStruct:
		return "struct"
	case BlockTypeVariable:
		return "variable"
	case BlockTypeBlock:
		return "block"
	case BlockTypeEnum:
		return "enum"
	case BlockTypeTrait:
		return "trait"
	case BlockTypeImpl:
		return "impl"
	case BlockTypeModule:
		return "module"
	case BlockTypeNamespace:
		return "namespace"
	case BlockTypeConstructor:
		return "constructor"
	case BlockTypeOther:
		return "other"
	default:
		return "unknown"
	}
}
