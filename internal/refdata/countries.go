// Package refdata holds the static reference data consumed by the
// validators and the matcher: country alias normalization, per-country
// postal-code formats, and the string normalizers shared by scoring and
// report deduplication. Tables are plain values constructed once at
// startup and passed in explicitly so tests can substitute their own.
package refdata

import "strings"

// CountryTable maps country name, alias, and ISO code variants to one
// canonical token used for postal-format lookups.
type CountryTable map[string]string

// Canonical returns the canonical token for a country variant, or the
// upper-trimmed input when the variant is unknown.
func (t CountryTable) Canonical(country string) string {
	key := strings.ToUpper(strings.TrimSpace(country))
	if canon, ok := t[key]; ok {
		return canon
	}
	return key
}

// DefaultCountries returns the built-in alias table covering ISO alpha-2,
// alpha-3, and common full-name variants.
func DefaultCountries() CountryTable {
	t := CountryTable{}
	add := func(canon string, variants ...string) {
		for _, v := range variants {
			t[strings.ToUpper(v)] = strings.ToUpper(canon)
		}
	}

	add("US", "UNITED STATES", "USA", "US", "U.S.")
	add("UNITED KINGDOM", "UNITED KINGDOM", "UK", "U.K.", "GB", "GBR", "GREAT BRITAIN", "BRITAIN")
	add("NETHERLANDS", "NETHERLANDS", "HOLLAND", "NL", "NLD")
	add("INDIA", "INDIA", "IN", "IND")
	add("SWEDEN", "SWEDEN", "SE", "SWE")
	add("POLAND", "POLAND", "PL", "POL")
	add("CANADA", "CANADA", "CA", "CAN")
	add("RUSSIAN FEDERATION", "RUSSIA", "RU", "RUS")
	add("KOREA, REPUBLIC OF", "SOUTH KOREA", "KOREA, REPUBLIC OF", "KR", "KOR")
	add("KOREA, DEMOCRATIC PEOPLE'S REPUBLIC OF", "NORTH KOREA", "KP", "PRK")
	add("JAPAN", "JAPAN", "JP", "JPN")
	add("CHINA", "CHINA", "CN", "CHN")

	return t
}
