package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mcoot/puzzleboard/internal/games"
	"github.com/mcoot/puzzleboard/internal/model"
	"github.com/mcoot/puzzleboard/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New(games.Default(), Options{}, testutil.NopLogger())
}

func (s *ServiceSuite) extract(lines ...string) *Result {
	result, err := s.service.Extract(strings.NewReader(strings.Join(lines, "\n")))
	s.Require().NoError(err)
	return result
}

func intPtr(n int) *int { return &n }

func (s *ServiceSuite) TestExtractSingleRecord() {
	result := s.extract("[12/03/2025 09:15:02] Alice: Tango #123 | 1:05")

	s.Require().Len(result.Records, 1)
	want := model.ScoreRecord{
		Day:        "2025-03-12",
		Player:     "Alice",
		Game:       "Tango",
		GameNumber: 123,
		Value:      65,
		Metric:     model.MetricTime,
		PostedAt:   time.Date(2025, 3, 12, 9, 15, 2, 0, time.UTC),
	}
	if diff := cmp.Diff(want, result.Records[0]); diff != "" {
		s.Failf("record mismatch", "(-want +got):\n%s", diff)
	}
}

func (s *ServiceSuite) TestCEOPercentOnContinuationLine() {
	result := s.extract(
		"[12/03/2025 09:15:02] Alice: Queens #301 | 0:48 👑",
		"First 👑s: 🟦 🟪 🟩",
		"I'm in the Top 5% of CEOs",
		"lnkd.in/queens.",
		"[12/03/2025 09:20:00] Bob: Queens #301 | 1:10",
	)

	s.Require().Len(result.Records, 2)
	s.Equal(intPtr(5), result.Records[0].CEOPercent)
	s.Nil(result.Records[1].CEOPercent)
}

func (s *ServiceSuite) TestNonMatchingMessagesAreSkipped() {
	result := s.extract(
		"[12/03/2025 09:00:00] Alice: good morning",
		"[12/03/2025 09:01:00] Bob: Tango #123 | 1:40",
		"[12/03/2025 09:02:00] Carol: what about Tango #123 | 1:00?",
		"random trailing line",
	)

	s.Len(result.Records, 1)
	s.Equal(Stats{LinesScanned: 4, Messages: 3, Records: 1, Skipped: 2}, result.Stats)
}

func (s *ServiceSuite) TestOversizedLineIsSkipped() {
	result := s.extract(
		"[12/03/2025 09:00:00] Alice: Tango #1 | 1:05",
		"[12/03/2025 09:01:00] Bob: "+strings.Repeat("x", 2<<20),
		"[12/03/2025 09:02:00] Carol: Tango #1 | 1:10",
	)

	s.Require().Len(result.Records, 2)
	s.Equal(model.PlayerName("Alice"), result.Records[0].Player)
	s.Equal(model.PlayerName("Carol"), result.Records[1].Player)
	s.Equal(Stats{LinesScanned: 3, Messages: 2, Records: 2, Skipped: 1}, result.Stats)
}

func (s *ServiceSuite) TestOversizedLineEndsMessage() {
	result := s.extract(
		"[12/03/2025 09:00:00] Alice: Tango #1 | 1:05",
		strings.Repeat("y", maxLineSize+1),
		"I'm in the Top 5% of CEOs",
		"[12/03/2025 09:02:00] Carol: Tango #1 | 1:10",
	)

	s.Require().Len(result.Records, 2)
	s.Equal(model.PlayerName("Alice"), result.Records[0].Player)
	s.Nil(result.Records[0].CEOPercent)
	s.Equal(model.PlayerName("Carol"), result.Records[1].Player)
	s.Equal(Stats{LinesScanned: 4, Messages: 2, Records: 2, Skipped: 1}, result.Stats)
}

func (s *ServiceSuite) TestSystemMessagesEndPreviousMessage() {
	result := s.extract(
		"[12/03/2025 09:00:00] Alice: Zip #10 | 0:30",
		"[12/03/2025 09:01:00] Bob joined using this group's invite link",
		"Top 1% of CEOs",
	)

	s.Require().Len(result.Records, 1)
	s.Nil(result.Records[0].CEOPercent)
	s.Equal(1, result.Stats.Messages)
}

func (s *ServiceSuite) TestHeaderVariants() {
	result := s.extract(
		"\u200e[01/02/24, 21:05] Alice: Zip #1 | 0:20",
		"[1/2/2024, 9:05:00 PM] Bob: Zip #1 | 0:25",
		"[31/02/2024 09:00:00] Carol: Zip #1 | 0:30",
	)

	s.Require().Len(result.Records, 2)
	s.Equal(model.Day("2024-02-01"), result.Records[0].Day)
	s.Equal(time.Date(2024, 2, 1, 21, 5, 0, 0, time.UTC), result.Records[0].PostedAt)
	s.Equal(time.Date(2024, 2, 1, 21, 5, 0, 0, time.UTC), result.Records[1].PostedAt)
	s.Equal(model.PlayerName("Bob"), result.Records[1].Player)
}

func (s *ServiceSuite) TestMonthDayYearOrder() {
	service := New(games.Default(), Options{DateOrder: MonthDayYear}, testutil.NopLogger())

	result, err := service.Extract(strings.NewReader("[03/12/2025 09:15:02] Alice: Tango #123 | 1:05"))
	s.Require().NoError(err)
	s.Require().Len(result.Records, 1)
	s.Equal(model.Day("2025-03-12"), result.Records[0].Day)
}

func (s *ServiceSuite) TestSenderWithColonInBody() {
	result := s.extract("[12/03/2025 09:15:02] Dr. Who: Mini Sudoku #5 | 2:00 :)")

	s.Require().Len(result.Records, 1)
	s.Equal(model.PlayerName("Dr. Who"), result.Records[0].Player)
	s.Equal(model.GameName("Mini Sudoku"), result.Records[0].Game)
}

func (s *ServiceSuite) TestExcludedSenders() {
	service := New(games.Default(), Options{
		ExcludeSenders: []model.PlayerName{"X - Games (Nazionale di Zip)"},
	}, testutil.NopLogger())

	result, err := service.Extract(strings.NewReader(strings.Join([]string{
		"[12/03/2025 09:00:00] X - Games (Nazionale di Zip): Zip #10 | 0:10",
		"[12/03/2025 09:01:00] Alice: Zip #10 | 0:30",
	}, "\n")))
	s.Require().NoError(err)
	s.Require().Len(result.Records, 1)
	s.Equal(model.PlayerName("Alice"), result.Records[0].Player)
	s.Equal(1, result.Stats.Excluded)
}

func (s *ServiceSuite) TestRecordsOrderedByDay() {
	result := s.extract(
		"[13/03/2025 09:00:00] Alice: Zip #11 | 0:30",
		"[12/03/2025 09:00:00] Bob: Zip #10 | 0:40",
		"[13/03/2025 09:05:00] Carol: Zip #11 | 0:35",
	)

	s.Require().Len(result.Records, 3)
	s.Equal(model.PlayerName("Bob"), result.Records[0].Player)
	s.Equal(model.PlayerName("Alice"), result.Records[1].Player)
	s.Equal(model.PlayerName("Carol"), result.Records[2].Player)
}

func (s *ServiceSuite) TestGeneratedChatIsStable() {
	chat := testutil.NewChatGenerator(42).Chat(testutil.ChatOptions{Days: 5, Players: 4, Chatter: 3})

	first, err := s.service.Extract(strings.NewReader(chat.Text))
	s.Require().NoError(err)
	second, err := s.service.Extract(strings.NewReader(chat.Text))
	s.Require().NoError(err)

	s.Equal(first, second)
	if diff := cmp.Diff(chat.Records, first.Records); diff != "" {
		s.Failf("records mismatch", "(-want +got):\n%s", diff)
	}
	s.LessOrEqual(len(first.Records), first.Stats.LinesScanned)
}

func (s *ServiceSuite) TestExtractFile() {
	path := filepath.Join(s.T().TempDir(), "chat.txt")
	s.Require().NoError(os.WriteFile(path, []byte("[12/03/2025 09:15:02] Alice: Tango #123 | 1:05\n"), 0o600))

	result, err := s.service.ExtractFile(path)
	s.Require().NoError(err)
	s.Len(result.Records, 1)
}

func (s *ServiceSuite) TestExtractFileMissing() {
	_, err := s.service.ExtractFile(filepath.Join(s.T().TempDir(), "missing.txt"))
	s.ErrorIs(err, model.ErrInputNotFound)

	_, err = s.service.ExtractFile("")
	s.ErrorIs(err, model.ErrEmptyInput)
}

func TestParseDateOrder(t *testing.T) {
	for in, want := range map[string]DateOrder{"": DayMonthYear, "DMY": DayMonthYear, "mdy": MonthDayYear} {
		got, err := ParseDateOrder(in)
		if err != nil || got != want {
			t.Errorf("ParseDateOrder(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDateOrder("ymd"); err == nil {
		t.Error("expected error for ymd")
	}
}

func TestFindCEOPercent(t *testing.T) {
	cases := map[string]*int{
		"Top 5% of CEOs":       intPtr(5),
		"top 100%":             intPtr(100),
		"I'm in the top 12%!":  intPtr(12),
		"no figure":            nil,
		"1234% is not a thing": nil,
	}
	for in, want := range cases {
		got := findCEOPercent(in)
		if !cmp.Equal(want, got) {
			t.Errorf("findCEOPercent(%q) = %v; want %v", in, got, want)
		}
	}
}
