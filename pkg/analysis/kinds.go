package analysis

// OptionKind enumerates the option node types the compiler knows about.
type OptionKind int

const (
	OptionUnknown OptionKind = iota
	OptionData
	OptionBool
	OptionInteger
	OptionNumber
	OptionString
	OptionList
	OptionNMXList
	OptionVariable
	OptionVariables
	OptionTerm
	OptionTerms
	OptionPair
	OptionPairs
	OptionLevel
	OptionArray
	OptionGroup
	OptionOutput
	OptionAction
)

var optionKinds = map[string]OptionKind{
	"Data":      OptionData,
	"Bool":      OptionBool,
	"Integer":   OptionInteger,
	"Number":    OptionNumber,
	"String":    OptionString,
	"List":      OptionList,
	"NMXList":   OptionNMXList,
	"Variable":  OptionVariable,
	"Variables": OptionVariables,
	"Term":      OptionTerm,
	"Terms":     OptionTerms,
	"Pair":      OptionPair,
	"Pairs":     OptionPairs,
	"Level":     OptionLevel,
	"Array":     OptionArray,
	"Group":     OptionGroup,
	"Output":    OptionOutput,
	"Action":    OptionAction,
}

// ParseOptionKind maps a raw type tag onto its kind. Unrecognized tags yield
// OptionUnknown.
func ParseOptionKind(tag string) OptionKind {
	return optionKinds[tag]
}

// ResultKind enumerates the result element types.
type ResultKind int

const (
	ResultUnknown ResultKind = iota
	ResultTable
	ResultImage
	ResultArray
	ResultGroup
	ResultPreformatted
	ResultHTML
	ResultState
)

var resultKinds = map[string]ResultKind{
	"Table":        ResultTable,
	"Image":        ResultImage,
	"Array":        ResultArray,
	"Group":        ResultGroup,
	"Preformatted": ResultPreformatted,
	"Html":         ResultHTML,
	"State":        ResultState,
}

// ParseResultKind maps a raw type tag onto its kind. Unrecognized tags yield
// ResultUnknown.
func ParseResultKind(tag string) ResultKind {
	return resultKinds[tag]
}

// Known reports whether k is one of the result element types.
func (k ResultKind) Known() bool {
	return k != ResultUnknown
}
