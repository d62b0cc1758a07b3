// Package cpf validates Brazilian individual taxpayer numbers (CPF).
//
// A CPF is 11 decimal digits: nine base digits followed by two check digits.
// Each check digit is derived from a weighted sum (mod 11) of the digits
// before it.
//
// Everything in this package is pure: no I/O, no shared state, safe to call
// from any number of goroutines.
//
// Formatting characters (dots, dashes, spaces, letters) are dropped before
// checking, so "529.982.247-25" and "52998224725" produce the same verdict.
package cpf

// Length is the number of digits in a CPF.
const Length = 11

// baseLength is the number of digits that feed the first check digit.
const baseLength = 9

// Reason names the first check an input failed.
//
// It is a diagnostic for logs and metrics labels. The verdict itself stays
// two-valued: the input is valid only when Reason is ReasonNone.
type Reason string

const (
	ReasonNone             Reason = "none"
	ReasonWrongLength      Reason = "wrong_length"
	ReasonRepeatedDigits   Reason = "repeated_digits"
	ReasonFirstCheckDigit  Reason = "first_check_digit"
	ReasonSecondCheckDigit Reason = "second_check_digit"
)

// Reasons lists every Reason value, valid first.
var Reasons = []Reason{
	ReasonNone,
	ReasonWrongLength,
	ReasonRepeatedDigits,
	ReasonFirstCheckDigit,
	ReasonSecondCheckDigit,
}

// Validate reports whether input is a structurally valid CPF.
//
// It never fails: malformed, empty or garbage input simply yields false.
func Validate(input string) bool {
	return Check(input) == ReasonNone
}

// Check runs the full validation and returns the first failing step,
// or ReasonNone for a valid CPF.
func Check(input string) Reason {
	digits := Normalize(input)

	if len(digits) != Length {
		return ReasonWrongLength
	}

	if isRepeated(digits) {
		return ReasonRepeatedDigits
	}

	if checkDigit(digits[:baseLength]) != digits[baseLength]-'0' {
		return ReasonFirstCheckDigit
	}

	if checkDigit(digits[:baseLength+1]) != digits[baseLength+1]-'0' {
		return ReasonSecondCheckDigit
	}

	return ReasonNone
}

// Normalize keeps only the ASCII decimal digits of input, in order.
//
// Non-ASCII digit runes (e.g. Arabic-Indic digits) are dropped like any
// other non-digit character.
func Normalize(input string) string {
	// Fast path: already normalized input needs no allocation.
	clean := true
	for i := 0; i < len(input); i++ {
		if !isDigit(input[i]) {
			clean = false
			break
		}
	}
	if clean {
		return input
	}

	buf := make([]byte, 0, len(input))
	for i := 0; i < len(input); i++ {
		if isDigit(input[i]) {
			buf = append(buf, input[i])
		}
	}
	return string(buf)
}

// Format returns the punctuated form XXX.XXX.XXX-XX for a valid CPF.
// The second return value is false when input is not a valid CPF.
func Format(input string) (string, bool) {
	if !Validate(input) {
		return "", false
	}
	d := Normalize(input)
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11], true
}

// CheckDigits computes the two check digits for a nine-digit base.
//
// base is normalized first. It returns false when the normalized base is not
// exactly nine digits long. Repeated-digit bases such as "111111111" still
// get digits, even though the resulting CPF is rejected by Validate.
func CheckDigits(base string) (string, bool) {
	digits := Normalize(base)
	if len(digits) != baseLength {
		return "", false
	}

	first := checkDigit(digits)
	second := checkDigit(digits + string([]byte{'0' + first}))

	return string([]byte{'0' + first, '0' + second}), true
}

// Mask hides the middle of a CPF for logging: "529.***.***-25".
// Inputs that do not normalize to eleven digits are fully masked.
func Mask(input string) string {
	d := Normalize(input)
	if len(d) != Length {
		return "***"
	}
	return d[0:3] + ".***.***-" + d[9:11]
}

// checkDigit computes the check digit for digits.
//
// Weights start at len(digits)+1 and drop by one per position down to 2,
// so nine digits use 10..2 and ten digits use 11..2.
func checkDigit(digits string) byte {
	sum := 0
	weight := len(digits) + 1
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weight
		weight--
	}

	r := sum % 11
	if r < 2 {
		return 0
	}
	return byte(11 - r)
}

// isRepeated reports whether every digit equals the first one.
func isRepeated(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
