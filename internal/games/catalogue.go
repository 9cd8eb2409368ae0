// Package games holds the catalogue of recognised game result templates.
package games

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mcoot/puzzleboard/internal/model"
)

// Direction tells which way a game's values improve
type Direction int

const (
	LowerIsBetter Direction = iota
	HigherIsBetter
)

// Result is a game result recognised in a message body
type Result struct {
	Game   model.GameName
	Number int
	Value  int
	Metric model.Metric
}

// valueParser turns the captured value text into a comparable integer
type valueParser func(s string) (int, bool)

// Template recognises the shared result of one game
type Template struct {
	Game      model.GameName
	Metric    model.Metric
	Direction Direction

	pattern *regexp.Regexp // Groups: 1 = puzzle number, 2 = value
	value   valueParser
}

// Match attempts to recognise the template at the start of body
func (t Template) Match(body string) (Result, bool) {
	m := t.pattern.FindStringSubmatch(body)
	if m == nil {
		return Result{}, false
	}
	number, err := strconv.Atoi(m[1])
	if err != nil {
		return Result{}, false
	}
	value, ok := t.value(m[2])
	if !ok {
		return Result{}, false
	}
	return Result{
		Game:   t.Game,
		Number: number,
		Value:  value,
		Metric: t.Metric,
	}, true
}

// Compare orders two values of this game: negative when a is the better result
func (t Template) Compare(a, b int) int {
	switch {
	case a == b:
		return 0
	case (a < b) == (t.Direction == LowerIsBetter):
		return -1
	default:
		return 1
	}
}

// Better returns the better of two values
func (t Template) Better(a, b int) int {
	if t.Compare(a, b) <= 0 {
		return a
	}
	return b
}

// Catalogue is the set of templates keyed by game
type Catalogue struct {
	templates []Template
	byName    map[string]int
}

// New creates a catalogue from the given templates. Order is preserved and
// decides which template wins when several could match.
func New(templates ...Template) *Catalogue {
	c := &Catalogue{
		templates: templates,
		byName:    make(map[string]int, len(templates)),
	}
	for i, t := range templates {
		c.byName[strings.ToLower(string(t.Game))] = i
	}
	return c
}

// Default returns the LinkedIn games catalogue
func Default() *Catalogue {
	return New(
		TimedGame("Tango"),
		TimedGame("Queens"),
		TimedGame("Mini Sudoku"),
		TimedGame("Zip"),
		TimedGame("Crossclimb"),
		GuessGame("Pinpoint"),
	)
}

// Match finds the first template that recognises the body
func (c *Catalogue) Match(body string) (Result, bool) {
	for _, t := range c.templates {
		if r, ok := t.Match(body); ok {
			return r, true
		}
	}
	return Result{}, false
}

// Lookup returns the template for a game, matching names case-insensitively
func (c *Catalogue) Lookup(game model.GameName) (Template, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(string(game)))]
	if !ok {
		return Template{}, false
	}
	return c.templates[i], true
}

// Templates returns all templates in catalogue order
func (c *Catalogue) Templates() []Template {
	result := make([]Template, len(c.templates))
	copy(result, c.templates)
	return result
}

// TimedGame builds a template for results shared as "<Game> #<n> | m:ss"
func TimedGame(name model.GameName) Template {
	return Template{
		Game:      name,
		Metric:    model.MetricTime,
		Direction: LowerIsBetter,
		pattern:   resultPattern(name, `(\d{1,2}(?::\d{2}){1,2})`),
		value:     ParseDuration,
	}
}

// GuessGame builds a template for results shared as "<Game> #<n> | <k> guesses"
func GuessGame(name model.GameName) Template {
	return Template{
		Game:      name,
		Metric:    model.MetricGuesses,
		Direction: LowerIsBetter,
		pattern:   resultPattern(name, `(\d{1,2})\s*guess(?:es)?\b`),
		value:     parsePositive,
	}
}

func resultPattern(name model.GameName, value string) *regexp.Regexp {
	words := strings.Fields(regexp.QuoteMeta(string(name)))
	return regexp.MustCompile(`(?i)^\s*` + strings.Join(words, `\s+`) + `\s*#\s*(\d+)\s*\|\s*` + value)
}

// ParseDuration converts "m:ss" or "h:mm:ss" into seconds
func ParseDuration(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		if i > 0 && n >= 60 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

// FormatDuration renders seconds as m:ss, or h:mm:ss from an hour up
func FormatDuration(seconds int) string {
	if seconds >= 3600 {
		return strconv.Itoa(seconds/3600) + ":" + pad2(seconds%3600/60) + ":" + pad2(seconds%60)
	}
	return strconv.Itoa(seconds/60) + ":" + pad2(seconds%60)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func parsePositive(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// FormatValue renders a result for display
func FormatValue(metric model.Metric, value int) string {
	if metric == model.MetricTime {
		return FormatDuration(value)
	}
	if value == 1 {
		return "1 guess"
	}
	return strconv.Itoa(value) + " guesses"
}

// FormatAverage renders an averaged result for display
func FormatAverage(metric model.Metric, value float64) string {
	if metric == model.MetricTime {
		return FormatDuration(int(math.Round(value)))
	}
	return strconv.FormatFloat(value, 'f', 1, 64) + " guesses"
}
