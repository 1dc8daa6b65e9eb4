package history

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys; English text doubles as the key
const (
	msgJustNow    = "just now"
	msgMinutesAgo = "%d min ago"
	msgHoursAgo   = "%d h ago"
	msgDaysAgo    = "%d d ago"
)

// supported locales, in matcher priority order
var supported = []language.Tag{
	language.English,
	language.Russian,
}

// calendar date layouts, indexed like supported
var dateLayouts = []string{
	"1/2/2006",
	"02.01.2006",
}

var phrases = catalogFor(map[language.Tag]map[string]string{
	language.English: {
		msgJustNow:    "just now",
		msgMinutesAgo: "%d min ago",
		msgHoursAgo:   "%d h ago",
		msgDaysAgo:    "%d d ago",
	},
	language.Russian: {
		msgJustNow:    "только что",
		msgMinutesAgo: "%d мин назад",
		msgHoursAgo:   "%d ч назад",
		msgDaysAgo:    "%d дн назад",
	},
})

var matcher = language.NewMatcher(supported)

func catalogFor(translations map[language.Tag]map[string]string) *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic("history: invalid catalog entry " + key + ": " + err.Error())
			}
		}
	}
	return b
}

// Formatter renders visit times relative to now
type Formatter struct {
	tag        language.Tag
	printer    *message.Printer
	dateLayout string
	location   *time.Location
}

// NewFormatter creates a formatter for a BCP 47 locale ("en", "ru-RU").
// Unknown or unparsable locales fall back to English.
func NewFormatter(locale string) *Formatter {
	index := 0
	if tag, err := language.Parse(locale); err == nil {
		_, index, _ = matcher.Match(tag)
	}
	tag := supported[index]

	return &Formatter{
		tag:        tag,
		printer:    message.NewPrinter(tag, message.Catalog(phrases)),
		dateLayout: dateLayouts[index],
		location:   time.Local,
	}
}

// WithLocation sets the zone used for calendar dates. Default: time.Local.
func (f *Formatter) WithLocation(loc *time.Location) *Formatter {
	f.location = loc
	return f
}

// Locale returns the matched locale
func (f *Formatter) Locale() language.Tag {
	return f.tag
}

// Format buckets the elapsed time. Each bucket includes its lower bound:
// exactly 60 minutes is "1 h ago", exactly 24 hours is "1 d ago".
// Anything 7 days or older is a calendar date.
func (f *Formatter) Format(visitedAt, now time.Time) string {
	elapsed := now.Sub(visitedAt)
	minutes := int64(elapsed / time.Minute)
	hours := int64(elapsed / time.Hour)
	days := int64(elapsed / (24 * time.Hour))

	switch {
	case minutes < 1:
		return f.printer.Sprintf(msgJustNow)
	case minutes < 60:
		return f.printer.Sprintf(msgMinutesAgo, minutes)
	case hours < 24:
		return f.printer.Sprintf(msgHoursAgo, hours)
	case days < 7:
		return f.printer.Sprintf(msgDaysAgo, days)
	default:
		return visitedAt.In(f.location).Format(f.dateLayout)
	}
}
