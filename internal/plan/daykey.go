package plan

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// WeekDays lists the weekday labels the provider uses, Monday first.
var WeekDays = []string{
	"Montag",
	"Dienstag",
	"Mittwoch",
	"Donnerstag",
	"Freitag",
	"Samstag",
	"Sonntag",
}

// DateLayout is the layout of SubstitutionDay.Date.
const DateLayout = "02-01-2006"

// DecodedDay is a day key split into its date and weekday labels.
type DecodedDay struct {
	Date     time.Time
	WeekDays []string
}

func (d DecodedDay) FormatDate() string {
	return d.Date.Format(DateLayout)
}

// matches 13.03.2025, 13-03-2025 and 13/03/2025
var dayKeyDateRegex = regexp.MustCompile(`(\d{1,2})[.\-/](\d{1,2})[.\-/](\d{4})`)

func parseWeekDay(word string) (string, bool) {
	for _, name := range WeekDays {
		if strings.EqualFold(name, word) {
			return name, true
		}
	}
	return "", false
}

// DecodeDayKey decodes keys like "Donnerstag, 13.03.2025", "13.03.2025 Donnerstag" or
// "Donnerstag_13-03-2025". The date's own weekday has to be among the weekday labels.
func DecodeDayKey(key string) (DecodedDay, error) {
	match := dayKeyDateRegex.FindStringSubmatch(key)
	if match == nil {
		return DecodedDay{}, &DateDecodeError{DayKey: key, Reason: "no date found"}
	}

	// the regex guarantees digits, only the ranges need checking
	day, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || int(date.Month()) != month || date.Year() != year {
		return DecodedDay{}, &DateDecodeError{
			DayKey: key,
			Reason: "not a calendar date: " + match[0],
		}
	}

	rest := strings.Replace(key, match[0], " ", 1)
	words := strings.FieldsFunc(rest, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	weekDays := []string{}
	for _, w := range words {
		name, ok := parseWeekDay(w)
		if !ok {
			continue
		}
		weekDays = append(weekDays, name)
	}
	if len(weekDays) == 0 {
		return DecodedDay{}, &DateDecodeError{DayKey: key, Reason: "no weekday found"}
	}

	// WeekDays starts on Monday, time.Weekday on Sunday
	actual := WeekDays[(int(date.Weekday())+6)%7]
	if !slices.Contains(weekDays, actual) {
		return DecodedDay{}, &DateDecodeError{
			DayKey: key,
			Reason: fmt.Sprintf("%s is a %s", match[0], actual),
		}
	}

	return DecodedDay{Date: date, WeekDays: weekDays}, nil
}
