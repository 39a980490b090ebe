package codegen

import "fmt"

// Op identifies what an Instruction does.
type Op int

const (
	// OpInitUpdates creates the empty update list for Var.
	OpInitUpdates Op = iota
	// OpCreateElement creates an element Tag bound to Handle.
	OpCreateElement
	// OpCreateText creates a text node bound to Handle with content Value.
	OpCreateText
	// OpSetAttribute sets attribute Name of Handle to Value.
	OpSetAttribute
	// OpSetText replaces the content of text node Handle with Value.
	OpSetText
	// OpAppendChild appends Child to Handle.
	OpAppendChild
	// OpOnUpdate registers Update to run whenever Var changes.
	OpOnUpdate
	// OpReturn hands Handles back to the caller.
	OpReturn
	// OpScript is opaque user code carried in Code.
	OpScript
)

var opNames = [...]string{
	OpInitUpdates:   "init_updates",
	OpCreateElement: "create_element",
	OpCreateText:    "create_text",
	OpSetAttribute:  "set_attribute",
	OpSetText:       "set_text",
	OpAppendChild:   "append_child",
	OpOnUpdate:      "on_update",
	OpReturn:        "return",
	OpScript:        "script",
}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// MarshalText lets ops appear by name in JSON output.
func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Instruction is one construction step. Which fields are set depends on Op.
type Instruction struct {
	Op      Op           `json:"op"`
	Handle  string       `json:"handle,omitempty"`
	Tag     string       `json:"tag,omitempty"`
	Name    string       `json:"name,omitempty"`
	Var     string       `json:"var,omitempty"`
	Child   string       `json:"child,omitempty"`
	Value   Expr         `json:"value,omitempty"`
	Update  *Instruction `json:"update,omitempty"`
	Handles []string     `json:"handles,omitempty"`
	Code    string       `json:"code,omitempty"`
}

// Artifact is the lowered form of a component.
type Artifact struct {
	// Name is the slug of the component name.
	Name   string        `json:"name"`
	Style  []Instruction `json:"style"`
	HTML   []Instruction `json:"html"`
	Script []Instruction `json:"script"`
}

// UpdateCount returns the number of update callbacks registered for each
// variable.
func (a *Artifact) UpdateCount() map[string]int {
	counts := make(map[string]int)
	for _, in := range a.HTML {
		if in.Op == OpOnUpdate {
			counts[in.Var]++
		}
	}
	return counts
}
