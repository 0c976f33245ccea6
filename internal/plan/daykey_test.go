package plan

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeDayKey(t *testing.T) {
	cases := []struct {
		key      string
		date     string
		weekDays []string
	}{
		{key: "Donnerstag, 13.03.2025", date: "13-03-2025", weekDays: []string{"Donnerstag"}},
		{key: "13.03.2025 Donnerstag", date: "13-03-2025", weekDays: []string{"Donnerstag"}},
		{key: "Montag_10-03-2025", date: "10-03-2025", weekDays: []string{"Montag"}},
		{key: "freitag 7.3.2025", date: "07-03-2025", weekDays: []string{"Freitag"}},
		{key: "Montag/Dienstag 01.12.2025", date: "01-12-2025", weekDays: []string{"Montag", "Dienstag"}},
	}

	for _, test := range cases {
		decoded, err := DecodeDayKey(test.key)
		require.NoError(t, err, test.key)
		require.Equal(t, test.date, decoded.FormatDate(), test.key)
		require.Equal(t, test.weekDays, decoded.WeekDays, test.key)
	}

	decoded, err := DecodeDayKey("Donnerstag, 13.03.2025")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, time.March, 13, 0, 0, 0, 0, time.UTC), decoded.Date)
}

func TestDecodeDayKeyErrors(t *testing.T) {
	keys := []string{
		"",
		"Donnerstag",
		"13.03.2025",
		"Donnerstag, 31.02.2025",
		"Donnerstag, 13.13.2025",
		"Thursday, 13.03.2025",
		"Montag, 13.03.2025",
		"Dienstag/Mittwoch 01.12.2025",
	}

	for _, key := range keys {
		_, err := DecodeDayKey(key)
		var decodeErr *DateDecodeError
		require.True(t, errors.As(err, &decodeErr), "key %q", key)
		require.Equal(t, key, decodeErr.DayKey)
	}
}

func TestDecodeDayKeyWeekDayMismatch(t *testing.T) {
	_, err := DecodeDayKey("Montag, 13.03.2025")
	var decodeErr *DateDecodeError
	require.True(t, errors.As(err, &decodeErr))
	require.Equal(t, "13.03.2025 is a Donnerstag", decodeErr.Reason)
}
