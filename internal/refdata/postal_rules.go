package refdata

import "regexp"

// PostalRule pairs a postal-code pattern with the worked example quoted
// in failure reasons.
type PostalRule struct {
	Pattern *regexp.Regexp
	Example string
}

// PostalRuleTable maps canonical country tokens to their postal-code
// format. Countries absent from the table fall back to the all-digits
// rule in the postal validator.
type PostalRuleTable map[string]PostalRule

// Lookup returns the rule for a canonical country token.
func (t PostalRuleTable) Lookup(country string) (PostalRule, bool) {
	r, ok := t[country]
	return r, ok
}

// DefaultPostalRules returns the built-in per-country postal formats.
func DefaultPostalRules() PostalRuleTable {
	t := PostalRuleTable{}
	add := func(pattern, example string, countries ...string) {
		rule := PostalRule{Pattern: regexp.MustCompile(pattern), Example: example}
		for _, c := range countries {
			t[c] = rule
		}
	}

	// Fixed-length digit formats.
	add(`^[0-9]{3}$`, "123", "FAROE ISLANDS", "ICELAND", "LESOTHO")
	add(`^[0-9]{4}$`, "1234",
		"AUSTRALIA", "AUSTRIA", "DENMARK", "HUNGARY", "LIECHTENSTEIN",
		"LUXEMBOURG", "NEW ZEALAND", "NORWAY", "PHILIPPINES", "SOUTH AFRICA",
		"SWITZERLAND", "TUNISIA", "VENEZUELA")
	add(`^[0-9]{5}$`, "12345",
		"ALGERIA", "FINLAND", "FRANCE", "GERMANY", "GREECE", "INDONESIA", "IRAN",
		"ITALY", "KUWAIT", "LITHUANIA", "MALAYSIA", "MEXICO", "MONACO",
		"MONTENEGRO", "SAUDI ARABIA", "SERBIA, THE REPUBLIC OF", "SPAIN",
		"THAILAND", "TURKEY", "YUGOSLAVIA")
	add(`^[0-9]{6}$`, "560001 (6 digits)",
		"CHINA", "INDIA", "KAZAKHSTAN", "RUSSIAN FEDERATION", "SINGAPORE")
	add(`^[0-9]{7}$`, "1234567", "ISRAEL")

	// Variable and mixed formats.
	add(`^[0-9]{5,6}$`, "12345 or 123456", "VIETNAM")
	add(`^[0-9]{3,6}$`, "123 to 123456", "TAIWAN")
	add(`^[0-9A-Za-z\-\s]{0,9}$`, "12345-678", "BRAZIL")
	add(`^[0-9]{0,4}$`, "1234", "BELGIUM", "CYPRUS")
	add(`^[0-9\-\s]{0,5}$`, "12345", "COSTA RICA")
	add(`^[0-9]{0,5}$`, "12345", "CROATIA", "SLOVENIA")
	add(`^[0-9A-Za-z\-\s]{0,8}$`, "812 31", "SLOVAKIA")
	add(`^[0-9]{0,6}$`, "123456", "CZECH REPUBLIC", "NEPAL", "UKRAINE")
	add(`^[0-9A-Za-z\-\s]{0,7}$`, "K1A 0B1", "CANADA")
	add(`^[0-9A-Za-z\-\s]{0,7}$`, "12345", "KOREA, DEMOCRATIC PEOPLE'S REPUBLIC OF", "KOREA, REPUBLIC OF")
	add(`^[0-9]{0,7}$`, "123456", "ROMANIA")
	add(`^[0-9A-Za-z\-\s]{0,8}$`, "1234-567", "CHILE", "PORTUGAL")
	add(`^[0-9\-\s]{0,8}$`, "123-4567", "JAPAN")
	add(`^[0-9A-Za-z\-\s]{0,9}$`, "SW1A 1AA", "UNITED KINGDOM")
	add(`^[0-9]{3}[- ]?[0-9]{2}$`, "123 45", "SWEDEN", "SE")
	add(`^[0-9]{4}[- ]?[A-Za-z]{2}$`, "1234 AB", "NETHERLANDS", "NL")
	add(`^[0-9]{2}-[0-9]{3}$`, "12-345", "POLAND", "PL")
	add(`^[1-9][0-9]{5}$`, "560001 (6 digits)", "IN")
	add(`^[0-9]{5}(-[0-9]{4})?$`, "12345 or 12345-6789", "US")

	return t
}
