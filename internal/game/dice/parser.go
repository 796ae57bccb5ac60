package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprRe = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)

// Expression represents a parsed damage expression ready to be rolled.
// A flat expression ("3") has Count == 0 and rolls to Modifier.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// Parse parses a damage expression.
// Supported forms: "3", "d6", "2d6", "2d6+3", "1d8-1".
//
// Postcondition: Returns an Expression with Count >= 1 and Sides >= 2, a flat
// Expression, or a descriptive error.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.ReplaceAll(expr, " ", ""))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Expression{Raw: expr, Modifier: n}, nil
	}
	m := exprRe.FindStringSubmatch(s)
	if m == nil {
		return Expression{}, fmt.Errorf("dice: malformed expression %q", expr)
	}
	count := 1
	if m[1] != "" {
		count, _ = strconv.Atoi(m[1])
		if count < 1 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
		}
	}
	sides, _ := strconv.Atoi(m[2])
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", expr)
	}
	mod := 0
	if m[3] != "" {
		mod, _ = strconv.Atoi(m[3])
	}
	return Expression{Raw: expr, Count: count, Sides: sides, Modifier: mod}, nil
}

// MustParse parses expr and panics on error. Useful for package-level constants.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

// Min returns the smallest total the expression can roll.
func (e Expression) Min() int {
	return max(0, e.Count+e.Modifier)
}

// Max returns the largest total the expression can roll.
func (e Expression) Max() int {
	return max(0, e.Count*e.Sides+e.Modifier)
}

// Roll evaluates the expression against src.
//
// Postcondition: len(result.Dice) == e.Count; each die is in [1, Sides].
func (e Expression) Roll(src Source) RollResult {
	rolled := make([]int, e.Count)
	for i := range rolled {
		rolled[i] = Intn(src, e.Sides) + 1
	}
	return RollResult{Expression: e.Raw, Dice: rolled, Modifier: e.Modifier}
}
