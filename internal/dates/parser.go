// Package dates resolves user supplied day expressions.
package dates

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"

	"github.com/mcoot/puzzleboard/internal/dependencies/clock"
	"github.com/mcoot/puzzleboard/internal/model"
)

var numericDate = regexp.MustCompile(`^\d[\d/.\-\s]*$`)

// Parser turns "2025-03-12", "today" or "last monday" into a Day
type Parser struct {
	clock clock.Clock
	w     *when.Parser
}

// NewParser creates a parser resolving relative days against clk
func NewParser(clk clock.Clock) *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	return &Parser{clock: clk, w: w}
}

// Parse resolves input to a scope. Empty input and "all" select the whole
// history.
func (p *Parser) Parse(input string) (model.Scope, error) {
	s := strings.TrimSpace(input)
	if s == "" || strings.EqualFold(s, "all") {
		return model.AllTime, nil
	}
	day, err := p.ParseDay(s)
	if err != nil {
		return model.Scope{}, err
	}
	return model.Scope{Day: day}, nil
}

// ParseDay resolves input to a single day
func (p *Parser) ParseDay(input string) (model.Day, error) {
	s := strings.TrimSpace(input)
	if day, err := model.ParseDay(s); err == nil {
		return day, nil
	}
	// Anything that looks like a numeric date must be strict YYYY-MM-DD
	if numericDate.MatchString(s) {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidDay, input)
	}

	now := p.clock.Now()
	r, err := p.w.Parse(s, now)
	if err != nil || r == nil {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidDay, input)
	}
	// Partial matches such as "today-ish" are rejected
	if r.Index != 0 || !strings.EqualFold(strings.TrimSpace(r.Text), s) {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidDay, input)
	}
	return model.DayOf(r.Time.In(now.Location())), nil
}

// Today returns the current day on the parser's clock
func (p *Parser) Today() model.Day {
	return clock.Today(p.clock)
}
