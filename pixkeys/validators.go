package pixkeys

import "regexp"

// Phone format: international prefix (1-3 digits), area code (2-3
// digits), subscriber number (8-9 digits), no separators.
var phoneRegexp = regexp.MustCompile(`^\+(\d{1,3})(\d{2,3})(\d{8,9})$`)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(\.[a-zA-Z0-9_+&*-]+)*@([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)

var randomKeyRegexp = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// Check digit weight vectors. CPF weighs positions 0..8 with 10..2 for
// the first digit and 0..9 with 11..2 for the second; CNPJ uses the
// fixed vectors below. Both apply the same modulo-11 rule.
var (
	cpfWeights1  = []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	cpfWeights2  = []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidateValue validates a key value against the format of its key
// type. An empty value is rejected regardless of type, as is an
// unrecognized type.
func ValidateValue(keyType, value string) bool {
	if value == "" {
		return false
	}

	switch keyType {
	case KeyTypePhone:
		return ValidatePhone(value)
	case KeyTypeEmail:
		return ValidateEmail(value)
	case KeyTypeCPF:
		return ValidateCPF(value)
	case KeyTypeCNPJ:
		return ValidateCNPJ(value)
	case KeyTypeRandom:
		return ValidateRandomKey(value)
	default:
		return false
	}
}

func ValidatePhone(phone string) bool {
	return phoneRegexp.MatchString(phone)
}

func ValidateEmail(email string) bool {
	if len(email) > 77 {
		return false
	}
	return emailRegexp.MatchString(email)
}

// ValidateCPF validates an 11 digit national individual taxpayer
// number. Punctuation is stripped before validation, so both
// "123.456.789-09" and "12345678909" forms are accepted.
func ValidateCPF(cpf string) bool {
	digits := stripNonDigits(cpf)
	if len(digits) != 11 || allDigitsEqual(digits) {
		return false
	}

	if checkDigit(digits, cpfWeights1) != int(digits[9]-'0') {
		return false
	}

	return checkDigit(digits, cpfWeights2) == int(digits[10]-'0')
}

// ValidateCNPJ validates a 14 digit national entity registration
// number, same stripping rules as ValidateCPF.
func ValidateCNPJ(cnpj string) bool {
	digits := stripNonDigits(cnpj)
	if len(digits) != 14 || allDigitsEqual(digits) {
		return false
	}

	if checkDigit(digits, cnpjWeights1) != int(digits[12]-'0') {
		return false
	}

	return checkDigit(digits, cnpjWeights2) == int(digits[13]-'0')
}

// ValidateRandomKey validates an opaque 36 character alphanumeric
// token. Hyphens are not allowed.
func ValidateRandomKey(key string) bool {
	return len(key) == 36 && randomKeyRegexp.MatchString(key)
}

// checkDigit computes a modulo-11 check digit over the first
// len(weights) digits of the given digit string.
func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	if rest := sum % 11; rest >= 2 {
		return 11 - rest
	}
	return 0
}

func stripNonDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func allDigitsEqual(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
