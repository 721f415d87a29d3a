package bill

import "strings"

// Canonical labels for the tracked institutions. The urgency sweep scans
// exactly this roster.
const (
	BankSinoPac = "永豐"
	BankTaishin = "台新"
	BankDBS     = "星展"
	BankCathay  = "國泰"
)

// TrackedBanks is the fixed roster of institutions the sweep covers.
var TrackedBanks = []string{BankSinoPac, BankTaishin, BankDBS, BankCathay}

// bankAliases maps every known alias token (full name, transliteration,
// abbreviation) to its canonical label. Latin aliases are stored uppercase
// and matched case-insensitively.
var bankAliases = map[string]string{
	"永豐":                  BankSinoPac,
	"永豐銀行":                BankSinoPac,
	"SINOPAC":             BankSinoPac,
	"台新":                  BankTaishin,
	"台新銀行":                BankTaishin,
	"TAISHIN":             BankTaishin,
	"TAISHIN BANK":        BankTaishin,
	"星展":                  BankDBS,
	"星展銀行":                BankDBS,
	"DBS":                 BankDBS,
	"DBS BANK":            BankDBS,
	"國泰":                  BankCathay,
	"國泰世華":                BankCathay,
	"CATHAY":              BankCathay,
	"CATHAY UNITED BANK":  BankCathay,
}

// NormalizeBankName maps any known alias to its canonical label.
// Unmapped input passes through unchanged.
func NormalizeBankName(raw string) string {
	name := strings.TrimSpace(raw)
	if canonical, ok := bankAliases[name]; ok {
		return canonical
	}
	if canonical, ok := bankAliases[strings.ToUpper(name)]; ok {
		return canonical
	}
	return name
}
