package pixkeys

import "strings"

var (
	keyTypeReplacer     = strings.NewReplacer("-", "")
	personTypeReplacer  = strings.NewReplacer("í", "i", "é", "e", "ç", "c")
	accountTypeReplacer = strings.NewReplacer("ç", "c")
)

// Normalize collapses equivalent spellings of the categorical fields to
// their canonical tokens, so that "E-mail", "JURÍDICA" and "POUPANÇA"
// validate the same as "email", "juridica" and "poupanca". Numeric and
// name fields pass through unchanged. Empty fields stay empty.
func Normalize(k *PixKey) {
	if k.KeyType != "" {
		k.KeyType = keyTypeReplacer.Replace(strings.ToLower(k.KeyType))
	}

	if k.PersonType != "" {
		k.PersonType = personTypeReplacer.Replace(strings.ToLower(k.PersonType))
	}

	if k.AccountType != "" {
		k.AccountType = accountTypeReplacer.Replace(strings.ToLower(k.AccountType))
	}
}

// NormalizePatch normalizes the account type of an amend patch.
// The other patch fields carry no categorical tokens.
func NormalizePatch(p *Patch) {
	if p.AccountType != nil {
		normalized := accountTypeReplacer.Replace(strings.ToLower(*p.AccountType))
		p.AccountType = &normalized
	}
}
