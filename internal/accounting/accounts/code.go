package accounts

import (
	"regexp"
	"strings"
)

var codePattern = regexp.MustCompile(`^\d+(\.\d+)*$`)

// ValidCode reports whether code is a dotted numeric account code.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// Level returns the number of non-empty dot-separated segments in code.
func Level(code string) int {
	n := 0
	for _, seg := range strings.Split(code, ".") {
		if seg != "" {
			n++
		}
	}
	return n
}

// ParentCode drops the last segment of code. Top-level codes have no parent
// and yield "".
func ParentCode(code string) string {
	idx := strings.LastIndex(code, ".")
	if idx <= 0 {
		return ""
	}
	return code[:idx]
}

// InSubtree reports whether code equals prefix or descends from it.
// "1.1.1" does not contain "1.1.10".
func InSubtree(code, prefix string) bool {
	return code == prefix || strings.HasPrefix(code, prefix+".")
}

// InferType maps the first digit of code to an account type. Unknown digits
// fall back to ASSET.
func InferType(code string) AccountType {
	if code == "" {
		return AccountTypeAsset
	}
	switch code[0] {
	case '1':
		return AccountTypeAsset
	case '2':
		return AccountTypeLiability
	case '3':
		return AccountTypeEquity
	case '4', '7':
		return AccountTypeRevenue
	case '5', '6':
		return AccountTypeExpense
	default:
		return AccountTypeAsset
	}
}

// InferNature returns DEBIT for assets and expenses, CREDIT otherwise.
func InferNature(t AccountType) Nature {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return NatureDebit
	case AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue:
		return NatureCredit
	default:
		return NatureCredit
	}
}

// InferAcceptsPostings guesses whether an imported account is analytic:
// level three or deeper, or any recorded movement in the source listing.
// Import-only heuristic.
func InferAcceptsPostings(level int, hasMovement bool) bool {
	return level >= 3 || hasMovement
}
