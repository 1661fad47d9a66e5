package condition

import (
	"fmt"
	"strings"
)

// Handler selects the evaluation strategy for a condition.
type Handler string

const (
	// HandlerCurrent compares the holder's current value to the target.
	HandlerCurrent Handler = "CURR"
	// HandlerIncrease compares the gain since the recorded snapshot.
	HandlerIncrease Handler = "INC"
	// HandlerDecrease compares the loss since the recorded snapshot.
	HandlerDecrease Handler = "DEC"
	// HandlerBoolean resolves a boolean fact instead of a quantity.
	HandlerBoolean Handler = "BOOL"
)

// Operator is the comparison applied by a handler.
type Operator string

const (
	OpMin   Operator = "MIN"   // current >= target
	OpMax   Operator = "MAX"   // current <= target
	OpEqual Operator = "EQUAL" // current == target
	OpIs    Operator = "IS"    // boolean fact holds
	OpNot   Operator = "NOT"   // boolean fact does not hold
)

// Valid reports whether the operator is part of the fixed vocabulary.
func (op Operator) Valid() bool {
	switch op {
	case OpMin, OpMax, OpEqual, OpIs, OpNot:
		return true
	default:
		return false
	}
}

// Logic is the authored tag joining a handler and an operator,
// e.g. "CURR_MIN", "INC_MIN", "BOOL_NOT".
type Logic string

const logicSeparator = "_"

// NewLogic builds the canonical tag for a handler/operator pair.
func NewLogic(h Handler, op Operator) Logic {
	return Logic(string(h) + logicSeparator + string(op))
}

// Split breaks a logic tag into its handler and operator parts.
// The boolean result reports whether the handler prefix was recognized;
// the residual operator is returned either way so callers can apply
// the documented fallback (treat an unknown handler as CURR).
func (l Logic) Split() (Handler, Operator, bool) {
	parts := strings.SplitN(string(l), logicSeparator, 2)
	if len(parts) != 2 {
		return HandlerCurrent, Operator(parts[0]), false
	}

	h := Handler(parts[0])
	op := Operator(parts[1])
	switch h {
	case HandlerCurrent, HandlerIncrease, HandlerDecrease, HandlerBoolean:
		return h, op, true
	default:
		return HandlerCurrent, op, false
	}
}

// Handler returns the handler part of the tag, applying the CURR fallback
// for unrecognized prefixes.
func (l Logic) Handler() Handler {
	h, _, _ := l.Split()
	return h
}

// IsDelta reports whether the tag uses a snapshot-relative handler.
// Adapters use this to decide which objectives need a snapshot recorded
// at assignment time.
func (l Logic) IsDelta() bool {
	h, _, ok := l.Split()
	return ok && (h == HandlerIncrease || h == HandlerDecrease)
}

// Translate maps an author-facing operator word to its canonical operator.
// The same table is used by the runtime readers and the authoring tools;
// it must not be re-implemented elsewhere.
func Translate(word string) (Operator, error) {
	switch strings.ToUpper(strings.TrimSpace(word)) {
	case "HAVE", "GREATER":
		return OpMin, nil
	case "LESSER":
		return OpMax, nil
	case "AT", "COMPLETE":
		return OpIs, nil
	default:
		return "", fmt.Errorf("unknown operator word %q", word)
	}
}
