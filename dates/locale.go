package dates

import (
	"fmt"
	"slices"
	"time"

	"golang.org/x/text/language"
)

// DefaultLocale is used when Options.Locale is empty or unsupported.
const DefaultLocale = "en-US"

// supportedLocales lists the locales with a known short date-time format.
// The first entry is the fallback.
var supportedLocales = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Spanish,
}

// localeLayouts holds, per supported locale, its short date-time pattern
// (with and without the comma some platforms insert) and its short date,
// each with a two- and a four-digit year. Numeric month and day fields
// accept an optional leading zero.
var localeLayouts = [][]string{
	{
		"1/2/06, 3:04 PM", "1/2/06 3:04 PM", "1/2/06",
		"1/2/2006, 3:04 PM", "1/2/2006 3:04 PM", "1/2/2006",
	},
	{
		"02/01/2006, 15:04", "02/01/2006 15:04", "02/01/2006",
		"02/01/06, 15:04", "02/01/06 15:04", "02/01/06",
	},
	{
		"02.01.06, 15:04", "02.01.06 15:04", "02.01.06",
		"02.01.2006, 15:04", "02.01.2006 15:04", "02.01.2006",
	},
	{
		"02/01/2006 15:04", "02/01/2006",
		"02/01/06 15:04", "02/01/06",
	},
	{
		"2/1/06, 15:04", "2/1/06 15:04", "2/1/06",
		"2/1/2006, 15:04", "2/1/2006 15:04", "2/1/2006",
	},
}

// isoLayouts are accepted for every locale.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// LayoutsFor returns the accepted layouts for a BCP 47 locale: the locale's
// short formats followed by the ISO-8601 forms. Locales without a known
// format resolve to DefaultLocale.
func LayoutsFor(locale string) ([]string, error) {
	if locale == "" {
		locale = DefaultLocale
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("dates: invalid locale %q: %w", locale, err)
	}

	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		idx = 0
	}

	layouts := slices.Clone(localeLayouts[idx])
	return append(layouts, isoLayouts...), nil
}
