package types

// ContextAttributeType represents different types of context-altering attributes
type ContextAttributeType uint8

const (
	AttrTypeDirective    ContextAttributeType = iota // "use server", "use client", etc.
	AttrTypeUnsafe                                   // unsafe blocks or operations
	AttrTypeLock                                     // lock statements, mutex operations
	AttrTypeDecorator                                // @decorator annotations
	AttrTypePragma                                   // #pragma directives
	AttrTypeIterator                                 // function*/yield keywords
	AttrTypeAsync                                    // async/await
	AttrTypeVolatile                                 // volatile memory access
	AttrTypeDeprecated                               // @deprecated markers
	AttrTypeExperimental                              // @experimental markers
	AttrTypePure                                     // pure/const functions
	AttrTypeNoThrow                                  // nothrow/noexcept
	AttrTypeSideEffect                               // has side effects
	AttrTypeRecursive                                // recursive function
	AttrTypeExported                                 // exported/public
	AttrTypeInline                                   // inline directive
	AttrTypeVirtual                                  // virtual method
	AttrTypeAbstract                                 // abstract method
	AttrTypeStatic                                   // static method
	AttrTypeFinal                                    // final/sealed
	AttrTypeConst                                    // const method
	AttrTypeGenerator                                // generator function
	AttrTypeCoroutine                                // coroutine/async generator
)

func (cat ContextAttributeType) String() string {
	switch cat {
	case AttrTypeDirective:
		return "directive"
	case AttrTypeUnsafe:
		return "unsafe"
	case AttrTypeLock:
		return "lock"
	case AttrTypeDecorator:
		return "decorator"
	case AttrTypePragma:
		return "pragma"
	case AttrTypeIterator:
		return "iterator"
	case AttrTypeAsync:
		return "async"
	case AttrTypeVolatile:
		return "volatile"
	case AttrTypeDeprecated:
		return "deprecated"
	case AttrTypeExperimental:
		return "experimental"
	case AttrTypePure:
		return "pure"
	case AttrTypeNoThrow:
		return "nothrow"
	case AttrTypeSideEffect:
		return "side_effect"
	case AttrTypeRecursive:
		return "recursive"
	case AttrTypeExported:
		return "exported"
	case AttrTypeInline:
		return "inline"
	case AttrTypeVirtual:
		return "virtual"
	case AttrTypeAbstract:
		return "abstract"
	case AttrTypeStatic:
		return "static"
	case AttrTypeFinal:
		return "final"
	case AttrTypeConst:
		return "const"
	case AttrTypeGenerator:
		return "generator"
	case AttrTypeCoroutine:
		return "coroutine"
	default:
		return "unknown"
	}
}

// ContextAttribute represents a context-altering attribute that affects code behavior
type ContextAttribute struct {
	Type  ContextAttributeType `json:"type"`
	Value string               `json:"value"` // e.g., "use server", "@deprecated('Use foo instead')"
	Line  int                  `json:"line"`  // Line where attribute appears
}

// Symbol is a declaration site found by a single-pass parse: a function,
// class, variable, or similar named construct.
type Symbol struct {
	Name       string
	Type       SymbolType
	FileID     FileID
	Line       int
	Column     int
	EndLine    int
	EndColumn  int
	Attributes []ContextAttribute // Context-altering attributes
	Visibility SymbolVisibility   `json:"visibility,omitempty"` // Visibility/export status
}

type SymbolType uint8

const (
	SymbolTypeFunction SymbolType = iota
	SymbolTypeClass
	SymbolTypeMethod
	SymbolTypeVariable
	SymbolTypeConstant
	SymbolTypeInterface
	SymbolTypeType
	SymbolTypeStruct
	SymbolTypeModule
	SymbolTypeNamespace
	SymbolTypeProperty
	SymbolTypeEvent
	SymbolTypeDelegate
	SymbolTypeEnum
	SymbolTypeRecord
	SymbolTypeOperator
	SymbolTypeIndexer
	SymbolTypeObject
	SymbolTypeCompanion
	SymbolTypeExtension
	SymbolTypeAnnotation
	SymbolTypeField
	SymbolTypeEnumMember
	SymbolTypeTrait
	SymbolTypeImpl
	SymbolTypeConstructor
)

func (st SymbolType) String() string {
	switch st {
	case SymbolTypeFunction:
		return "function"
	case SymbolTypeClass:
		return "class"
	case SymbolTypeMethod:
		return "method"
	case SymbolTypeVariable:
		return "variable"
	case SymbolTypeConstant:
		return "constant"
	case SymbolTypeInterface:
		return "interface"
	case SymbolTypeType:
		return "type"
	case SymbolTypeStruct:
		return "struct"
	case SymbolTypeModule:
		return "module"
	case SymbolTypeNamespace:
		return "namespace"
	case SymbolTypeProperty:
		return "property"
	case SymbolTypeEvent:
		return "event"
	case SymbolTypeDelegate:
		return "delegate"
	case SymbolTypeEnum:
		return "enum"
	case SymbolTypeRecord:
		return "record"
	case SymbolTypeOperator:
		return "operator"
	case SymbolTypeIndexer:
		return "indexer"
	case SymbolTypeObject:
		return "object"
	case SymbolTypeCompanion:
		return "companion"
	case SymbolTypeExtension:
		return "extension"
	case SymbolTypeAnnotation:
		return "annotation"
	case SymbolTypeField:
		return "field"
	case SymbolTypeEnumMember:
		return "enum_member"
	case SymbolTypeTrait:
		return "trait"
	case SymbolTypeImpl:
		return "impl"
	case SymbolTypeConstructor:
		return "constructor"
	default:
		return "unknown"
	}
}

type Import struct {
	Path   string
	FileID FileID
	Line   int
}
