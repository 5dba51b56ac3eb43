package model

// HitPolicy selects how a decision table's matched rules combine into a
// result (spec §4.8/§6).
type HitPolicy int

const (
	Unique HitPolicy = iota
	First
	Priority
	Any
	Collect
	RuleOrder
	OutputOrder
)

func (p HitPolicy) String() string {
	switch p {
	case Unique:
		return "UNIQUE"
	case First:
		return "FIRST"
	case Priority:
		return "PRIORITY"
	case Any:
		return "ANY"
	case Collect:
		return "COLLECT"
	case RuleOrder:
		return "RULE_ORDER"
	case OutputOrder:
		return "OUTPUT_ORDER"
	default:
		return "UNKNOWN"
	}
}

// ParseHitPolicy parses one of the DMN hit-policy codes (case
// insensitive, "_" and " " equivalent), for the YAML fixture loader.
func ParseHitPolicy(s string) (HitPolicy, bool) {
	switch normalizePolicyToken(s) {
	case "UNIQUE":
		return Unique, true
	case "FIRST":
		return First, true
	case "PRIORITY":
		return Priority, true
	case "ANY":
		return Any, true
	case "COLLECT":
		return Collect, true
	case "RULEORDER":
		return RuleOrder, true
	case "OUTPUTORDER":
		return OutputOrder, true
	default:
		return Unique, false
	}
}

// Aggregation is a COLLECT hit policy's result shape (spec §4.8/§6):
// List (the default — every matched rule's outputs, uncollapsed) or one
// of the scalar aggregates Sum/Min/Max/Count.
type Aggregation int

const (
	AggregationList Aggregation = iota
	AggregationSum
	AggregationMin
	AggregationMax
	AggregationCount
)

func (a Aggregation) String() string {
	switch a {
	case AggregationList:
		return "LIST"
	case AggregationSum:
		return "SUM"
	case AggregationMin:
		return "MIN"
	case AggregationMax:
		return "MAX"
	case AggregationCount:
		return "COUNT"
	default:
		return "UNKNOWN"
	}
}

// ParseAggregation parses one of the DMN collect-aggregation codes, for
// the YAML fixture loader.
func ParseAggregation(s string) (Aggregation, bool) {
	switch normalizePolicyToken(s) {
	case "", "NONE", "LIST":
		return AggregationList, true
	case "SUM":
		return AggregationSum, true
	case "MIN":
		return AggregationMin, true
	case "MAX":
		return AggregationMax, true
	case "COUNT":
		return AggregationCount, true
	default:
		return AggregationList, false
	}
}

func normalizePolicyToken(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case ' ', '_', '-':
			continue
		default:
			if r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
			out = append(out, r)
		}
	}
	return string(out)
}

// InputVariable is a top-level input the decision graph reads from
// outside (spec §3): a BKM/decision always consumes state as one of
// these or as another decision's output.
type InputVariable struct {
	ID               string
	Name             string
	Label            string
	DeclaredType     string
	IsInputParameter bool
}

// Body is the evaluable content of a Decision: either an ExpressionDecision
// or a DecisionTable.
type Body interface {
	isBody()
}

// ExpressionDecision evaluates a single FEEL literal expression and binds
// its result to OutputVariable (spec §4.8).
type ExpressionDecision struct {
	OutputVariable string
	DeclaredType   string
	Expression     string
}

func (ExpressionDecision) isBody() {}

// TableInput is one input-entry column of a decision table: Expression is
// the raw text every rule's cell in this column is matched against, which
// may be a bare variable reference or an arbitrary FEEL expression (spec
// §4.8).
type TableInput struct {
	Label         string
	Expression    string
	Variable      string
	DeclaredType  string
	AllowedValues []string
}

// TableOutput is one output column of a decision table.
type TableOutput struct {
	Name          string
	Label         string
	DeclaredType  string
	AllowedValues []string
}

// Rule is one row of a decision table: InputEntries/OutputEntries carry
// one unparsed cell per TableInput/TableOutput, in column order. An empty
// entry or "-" always matches its input column (spec §4.8).
type Rule struct {
	Index         int
	Name          string
	InputEntries  []string
	OutputEntries []string
}

// DecisionTable is a Decision's body when its logic is expressed as rules
// rather than a single expression (spec §4.8).
type DecisionTable struct {
	Inputs      []TableInput
	Outputs     []TableOutput
	Rules       []Rule
	HitPolicy   HitPolicy
	Aggregation Aggregation
}

func (DecisionTable) isBody() {}

// Decision is one node of the decision dependency graph (spec §3):
// RequiredInputs/RequiredDecisions name, respectively, the input
// variables and upstream decisions its Body reads.
type Decision struct {
	ID                string
	Name              string
	RequiredInputs    []string
	RequiredDecisions []string
	Body              Body
}
