package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kamiworld/engine/pkg/condition"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <rows.json> [rows.json ...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		validator := &RowValidator{}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid (%d rows)\n", filename, validator.rows)
	}
	if failed {
		os.Exit(1)
	}
}

// RowValidator checks authored condition rows before they are seeded.
// The engine itself never trusts rows at runtime; this catches the
// mistakes hand-edited spreadsheets produce before they ship.
type RowValidator struct {
	errors []string
	rows   int
}

func (v *RowValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var rows []condition.AuthoredRow
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&rows); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	v.rows = len(rows)
	seen := make(map[string]bool)
	for i, row := range rows {
		v.validateRow(i, row, seen)
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *RowValidator) validateRow(i int, row condition.AuthoredRow, seen map[string]bool) {
	_, cond, err := row.Compile()
	if err != nil {
		v.addError("row %d: %v", i, err)
		return
	}

	slotKey := fmt.Sprintf("%s:%d:%d", row.Namespace, row.Index, row.Slot)
	if seen[slotKey] {
		v.addError("row %d: duplicate slot %d under %s[%d]", i, row.Slot, row.Namespace, row.Index)
	}
	seen[slotKey] = true

	hdl, op, _ := cond.Logic.Split()
	switch hdl {
	case condition.HandlerBoolean:
		if op != condition.OpIs && op != condition.OpNot {
			v.addError("row %d: operator %s is not meaningful for a boolean condition", i, op)
		}
		if cond.Target.Kind == condition.KindCompleteComp && row.Ref == "" {
			v.addError("row %d: COMPLETE_COMP requires a ref", i)
		}
	default:
		if op == condition.OpIs || op == condition.OpNot {
			v.addError("row %d: operator %s is not meaningful for a numeric condition", i, op)
		}
		if row.Value == 0 {
			v.addError("row %d: numeric condition without a threshold always compares against zero", i)
		}
	}

	if !cond.Target.Kind.Named() {
		// Arbitrary counters are legal but easy to typo; surface them.
		fmt.Printf("  note: row %d uses custom counter kind %q\n", i, cond.Target.Kind)
	}
}

func (v *RowValidator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}
