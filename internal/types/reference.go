package types

type ReferenceType uint8

const (
	RefTypeImport ReferenceType = iota
	RefTypeCall
	RefTypeInheritance
	RefTypeAssignment
	RefTypeDeclaration
	RefTypeParameter
	RefTypeReturn
	RefTypeTypeAnnotation
	RefTypeImplements
	RefTypeExtends
	RefTypeUsage
)

func (rt ReferenceType) String() string {
	switch rt {
	case RefTypeImport:
		return "import"
	case RefTypeCall:
		return "call"
	case RefTypeInheritance:
		return "inheritance"
	case RefTypeAssignment:
		return "assignment"
	case RefTypeDeclaration:
		return "declaration"
	case RefTypeParameter:
		return "parameter"
	case RefTypeReturn:
		return "return"
	case RefTypeTypeAnnotation:
		return "type_annotation"
	case RefTypeImplements:
		return "implements"
	case RefTypeExtends:
		return "extends"
	case RefTypeUsage:
		return "usage"
	default:
		return "unknown"
	}
}

// RefStrength represents the coupling strength of a reference
type RefStrength uint8

const (
	RefStrengthTight      RefStrength = iota // Direct dependency
	RefStrengthLoose                         // Indirect usage
	RefStrengthTransitive                    // Through other symbols
)

func (rs RefStrength) String() string {
	switch rs {
	case RefStrengthTight:
		return "tight"
	case RefStrengthLoose:
		return "loose"
	case RefStrengthTransitive:
		return "transitive"
	default:
		return "unknown"
	}
}

// RefQuality represents the confidence level of a reference relationship.
// Higher quality values indicate more certain evidence of the relationship.
const (
	// RefQualityPrecise indicates explicit syntax declaration (e.g., "implements" keyword)
	RefQualityPrecise = "precise"

	// RefQualityAssigned indicates a concrete type was assigned to an interface-typed variable
	// e.g., var w Writer = &File{} - proves File implements Writer
	RefQualityAssigned = "assigned"

	// RefQualityReturned indicates a concrete type was returned from a function with interface return type
	// e.g., func New() Writer { return &File{} } - proves File implements Writer
	RefQualityReturned = "returned"

	// RefQualityCast indicates a type assertion to an interface was found
	// e.g., x.(Writer) - suggests the value implements Writer
	RefQualityCast = "cast"

	// RefQualityHeuristic indicates method signature matching only (no explicit usage evidence)
	// e.g., File has Write() method matching Writer interface - inferred relationship
	RefQualityHeuristic = "heuristic"
)

// RefQualityRank returns a numeric ranking for quality comparison (higher = more confident)
func RefQualityRank(quality string) int {
	switch quality {
	case RefQualityPrecise:
		return 100
	case RefQualityAssigned:
		return 95
	case RefQualityReturned:
		return 90
	case RefQualityCast:
		return 85
	case RefQualityHeuristic:
		return 50
	default:
		return 0
	}
}

// Reference represents a relationship between symbols
type Reference struct {
	ID             uint64        `json:"id"`
	SourceSymbol   SymbolID      `json:"source_symbol"`
	TargetSymbol   SymbolID      `json:"target_symbol"`
	FileID         FileID        `json:"file_id"`
	Line           int           `json:"line"`
	Column         int           `json:"column"`
	Type           ReferenceType `json:"type"`
	ContextLines   []StringRef   `json:"-"`             // Line references for context (not serialized)
	ScopeContext   []ScopeInfo   `json:"scope_context"` // Scope breadcrumb at reference point
	Strength       RefStrength   `json:"strength"`
	ReferencedName string        `json:"referenced_name"` // Actual symbol name being referenced (from Tree-sitter AST)
	Quality        string        `json:"quality,omitempty"`
	Resolved       *bool         `json:"resolved,omitempty"` // For include/import resolution (nil if not applicable)
	Ambiguous      bool          `json:"ambiguous,omitempty"`
	Candidates     []string      `json:"candidates,omitempty"`
	FailureReason  string        `json:"failure_reason,omitempty"`
}

// RefStrengthStats provides breakdown by coupling strength
type RefStrengthStats struct {
	Tight      int `json:"tight"`
	Loose      int `json:"loose"`
	Transitive int `json:"transitive"`
}

// RefCount tracks reference statistics
type RefCount struct {
	IncomingCount int              `json:"incoming_count"`
	OutgoingCount int              `json:"outgoing_count"`
	IncomingFiles []FileID         `json:"incoming_files"`
	OutgoingFiles []FileID         `json:"outgoing_files"`
	ByType        map[string]int   `json:"by_type"`
	Strength      RefStrengthStats `json:"strength"`
}

// RefStats provides reference statistics at multiple scope levels
type RefStats struct {
	FolderLevel   RefCount `json:"folder_level"`
	FileLevel     RefCount `json:"file_level"`
	ClassLevel    RefCount `json:"class_level"`
	FunctionLevel RefCount `json:"function_level"`
	VariableLevel RefCount `json:"variable_level"`
	Total         RefCount `json:"total"`
}

// EnhancedSymbol extends Symbol with relational information
type EnhancedSymbol struct {
	Symbol                   // Base symbol information
	ID           SymbolID    `json:"id"`
	IncomingRefs []Reference `json:"incoming_refs"` // Symbols that reference this one
	OutgoingRefs []Reference `json:"outgoing_refs"` // Symbols this one references
	ScopeChain   []ScopeInfo `json:"scope_chain"`   // Complete scope hierarchy
	RefStats     RefStats    `json:"ref_stats"`      // Aggregated reference statistics
	Metrics      interface{} `json:"metrics,omitempty"`

	TypeInfo    string   `json:"type_info,omitempty"`
	IsMutable   bool     `json:"is_mutable"`
	IsExported  bool     `json:"is_exported"`
	Annotations []string `json:"annotations,omitempty"`
	DocComment  string   `json:"doc_comment,omitempty"`
	Signature   string   `json:"signature,omitempty"`
	Complexity  int      `json:"complexity,omitempty"`

	VariableType  VariableType `json:"variable_type,omitempty"`
	VariableFlags uint8        `json:"variable_flags,omitempty"`

	ParameterCount uint8  `json:"parameter_count,omitempty"`
	FunctionFlags  uint8  `json:"function_flags,omitempty"`
	ReceiverType   string `json:"receiver_type,omitempty"`
}
