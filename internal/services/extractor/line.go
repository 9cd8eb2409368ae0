package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/puzzleboard/internal/model"
)

// DateOrder selects how the day and month of a header date are read
type DateOrder string

const (
	DayMonthYear DateOrder = "dmy"
	MonthDayYear DateOrder = "mdy"
)

// ParseDateOrder validates a configured date order
func ParseDateOrder(s string) (DateOrder, error) {
	switch DateOrder(strings.ToLower(strings.TrimSpace(s))) {
	case DayMonthYear, "":
		return DayMonthYear, nil
	case MonthDayYear:
		return MonthDayYear, nil
	default:
		return "", fmt.Errorf("unknown date order %q", s)
	}
}

var (
	// [12/03/2025 09:15:02] Alice: Tango #123 | 1:05
	headerPattern = regexp.MustCompile(`^\[(\d{1,2})/(\d{1,2})/(\d{2}|\d{4}),? (\d{1,2}):(\d{2})(?::(\d{2}))?(?:\s?([AaPp][Mm]))?\]\s*(.*)$`)
	senderPattern = regexp.MustCompile(`^(.*?):\s(.*)$`)
	ceoPattern    = regexp.MustCompile(`(?:^|[^\d])(\d{1,3})%`)

	lineCleaner = strings.NewReplacer(
		"\ufeff", "",
		"\u200e", "",
		"\u200f", "",
		"\u202f", " ",
		"\u00a0", " ",
		"\r", "",
	)
)

// header is the parsed "[timestamp] rest" prefix of a chat line
type header struct {
	timestamp time.Time
	rest      string
}

// cleanLine removes the invisible marks chat exports scatter through lines
func cleanLine(line string) string {
	return lineCleaner.Replace(line)
}

// parseHeader recognises a message header. ok is false for continuation lines.
func parseHeader(line string, order DateOrder, loc *time.Location) (header, bool) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return header{}, false
	}

	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		year += 2000
	}
	day, month := first, second
	if order == MonthDayYear {
		day, month = second, first
	}

	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	sec := 0
	if m[6] != "" {
		sec, _ = strconv.Atoi(m[6])
	}
	switch strings.ToLower(m[7]) {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 12 {
			hour += 12
		}
	}
	if month < 1 || month > 12 || hour > 23 || minute > 59 || sec > 59 {
		return header{}, false
	}

	ts := time.Date(year, time.Month(month), day, hour, minute, sec, 0, loc)
	// time.Date normalises 31/02 into March; reject instead
	if ts.Day() != day || ts.Month() != time.Month(month) {
		return header{}, false
	}
	return header{timestamp: ts, rest: m[8]}, true
}

// splitSender separates "sender: body". System messages have no sender.
func splitSender(rest string) (model.PlayerName, string, bool) {
	m := senderPattern.FindStringSubmatch(rest)
	if m == nil {
		return "", "", false
	}
	sender := strings.TrimSpace(m[1])
	if sender == "" {
		return "", "", false
	}
	return model.PlayerName(sender), m[2], true
}

// findCEOPercent returns the first "NN%" figure in a message body
func findCEOPercent(body string) *int {
	for _, m := range ceoPattern.FindAllStringSubmatch(body, -1) {
		n, err := strconv.Atoi(m[1])
		if err == nil && n <= 100 {
			return &n
		}
	}
	return nil
}
