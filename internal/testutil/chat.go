package testutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/model"
)

// ChatOptions controls the shape of a generated chat export
type ChatOptions struct {
	Days    int
	Players int
	Chatter int       // Non-result messages per day
	Start   time.Time // First day; defaults to 2025-03-01 UTC
}

// Chat is a generated chat export and the records it should yield
type Chat struct {
	Text    string
	Records []model.ScoreRecord
	Players []model.PlayerName
}

// ChatGenerator builds reproducible chat exports from a seed
type ChatGenerator struct {
	faker *gofakeit.Faker
}

// NewChatGenerator creates a generator; equal seeds give equal chats
func NewChatGenerator(seed int64) *ChatGenerator {
	return &ChatGenerator{faker: gofakeit.New(uint64(seed))}
}

var generatedGames = []model.GameName{"Tango", "Queens", "Zip", "Pinpoint"}

// Chat generates a chat in which each player posts at most one result per
// game and day, mixed with ordinary chatter.
func (g *ChatGenerator) Chat(opts ChatOptions) Chat {
	start := opts.Start
	if start.IsZero() {
		start = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	}

	players := g.players(opts.Players)
	chat := Chat{Players: players, Records: []model.ScoreRecord{}}
	var b strings.Builder

	for d := 0; d < opts.Days; d++ {
		day := start.AddDate(0, 0, d)
		minute := 7 * 60

		post := func(sender model.PlayerName, body string) time.Time {
			minute += g.faker.Number(1, 9)
			ts := day.Add(time.Duration(minute) * time.Minute).Add(time.Duration(g.faker.Number(0, 59)) * time.Second)
			fmt.Fprintf(&b, "[%s] %s: %s\n", ts.Format("02/01/2006 15:04:05"), sender, body)
			return ts
		}

		chatter := opts.Chatter
		for gi, game := range generatedGames {
			number := 100 + d + gi*1000
			for _, player := range players {
				if chatter > 0 && g.faker.Bool() {
					post(g.pick(players), g.faker.Sentence(g.faker.Number(3, 8)))
					chatter--
				}
				if g.faker.Number(0, 3) == 0 {
					continue
				}

				rec := model.ScoreRecord{
					Player:     player,
					Game:       game,
					GameNumber: number,
				}
				var body string
				if game == "Pinpoint" {
					rec.Metric = model.MetricGuesses
					rec.Value = g.faker.Number(1, 5)
					body = fmt.Sprintf("%s #%d | %d guesses", game, number, rec.Value)
				} else {
					rec.Metric = model.MetricTime
					rec.Value = g.faker.Number(8, 400)
					body = fmt.Sprintf("%s #%d | %s", game, number, games.FormatDuration(rec.Value))
				}
				if g.faker.Bool() {
					ceo := g.faker.Number(1, 99)
					rec.CEOPercent = &ceo
					body += fmt.Sprintf("\nI'm in the Top %d%% of CEOs\nlnkd.in/%s", ceo, strings.ToLower(string(game)))
				}

				rec.PostedAt = post(player, body)
				rec.Day = model.DayOf(rec.PostedAt)
				chat.Records = append(chat.Records, rec)
			}
		}
		for ; chatter > 0; chatter-- {
			post(g.pick(players), g.faker.Sentence(g.faker.Number(3, 8)))
		}
	}

	chat.Text = b.String()
	return chat
}

// Records generates records without rendering a chat
func (g *ChatGenerator) Records(opts ChatOptions) []model.ScoreRecord {
	return g.Chat(opts).Records
}

func (g *ChatGenerator) players(n int) []model.PlayerName {
	seen := make(map[model.PlayerName]bool, n)
	players := make([]model.PlayerName, 0, n)
	for len(players) < n {
		name := model.PlayerName(g.faker.FirstName())
		if seen[name] {
			name = model.PlayerName(fmt.Sprintf("%s %d", name, len(players)))
		}
		seen[name] = true
		players = append(players, name)
	}
	return players
}

func (g *ChatGenerator) pick(players []model.PlayerName) model.PlayerName {
	return players[g.faker.Number(0, len(players)-1)]
}
