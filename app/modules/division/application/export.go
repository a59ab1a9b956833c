package divisionservice

import (
	"bytes"
	"context"
	"fmt"
	"math"

	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/xuri/excelize/v2"
)

const (
	teamsSheet   = "Teams"
	playersSheet = "Players"
)

// ChartPalette holds the colors used when rendering charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	Text       drawing.Color
}

// DefaultPalette is the league's house palette.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("10231c"),
	Bar:        drawing.ColorFromHex("c9a227"),
	Text:       drawing.ColorFromHex("e8efe9"),
}

// ExportWorkbook renders a division season's standings as an XLSX workbook
// with a teams sheet and a players sheet.
func (s *DivisionService) ExportWorkbook(ctx context.Context, divisionID, seasonID uuid.UUID) ([]byte, error) {
	result, err := s.Standings(ctx, divisionID, seasonID)
	if err != nil {
		return nil, err
	}
	return WriteWorkbook(*result)
}

// PointsChart renders the teams' points as a PNG bar chart.
func (s *DivisionService) PointsChart(ctx context.Context, divisionID, seasonID uuid.UUID) ([]byte, error) {
	result, err := s.Standings(ctx, divisionID, seasonID)
	if err != nil {
		return nil, err
	}
	return RenderPointsChart(result.Teams, DefaultPalette)
}

var teamHeader = []any{"Rank", "Team", "Played", "Won", "Drawn", "Lost", "Win Rate", "Loss Rate", "Difference", "Points"}

var playerHeader = []any{
	"Rank", "Player", "Team",
	"Singles P", "Singles W", "Singles L", "Singles %",
	"Pairs P", "Pairs W", "Pairs L",
	"Triples P", "Triples W", "Triples L",
	"Fixtures", "180s", "Hi Check", "Points",
}

// WriteWorkbook renders result as an XLSX workbook.
func WriteWorkbook(result divisiondomain.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", teamsSheet); err != nil {
		return nil, fmt.Errorf("failed to name teams sheet: %w", err)
	}
	if _, err := f.NewSheet(playersSheet); err != nil {
		return nil, fmt.Errorf("failed to add players sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	teamRows := make([][]any, 0, len(result.Teams))
	for _, t := range result.Teams {
		if t.Unknown {
			continue
		}
		teamRows = append(teamRows, []any{
			t.Rank, t.Name, t.FixturesPlayed, t.FixturesWon, t.FixturesDrawn, t.FixturesLost,
			round2(t.WinRate), round2(t.LossRate), round2(t.Difference), t.Points,
		})
	}
	if err := writeSheet(f, teamsSheet, teamHeader, teamRows, bold); err != nil {
		return nil, err
	}

	playerRows := make([][]any, 0, len(result.Players))
	for _, p := range result.Players {
		if p.Unknown {
			continue
		}
		singles := p.Category(fixturedomain.Singles)
		pairs := p.Category(fixturedomain.Pairs)
		triples := p.Category(fixturedomain.Triples)
		playerRows = append(playerRows, []any{
			p.Rank, p.Name, p.TeamName,
			singles.MatchesPlayed, singles.MatchesWon, singles.MatchesLost, math.Round(singles.WinRate * 100),
			pairs.MatchesPlayed, pairs.MatchesWon, pairs.MatchesLost,
			triples.MatchesPlayed, triples.MatchesWon, triples.MatchesLost,
			p.Fixtures, p.OneEighties, p.HiCheck, p.Points,
		})
	}
	if err := writeSheet(f, playersSheet, playerHeader, playerRows, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 14); err != nil {
		return fmt.Errorf("failed to size %s columns: %w", sheet, err)
	}
	return nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// RenderPointsChart produces a PNG bar chart of team points in rank order.
func RenderPointsChart(teams []divisiondomain.TeamScore, palette ChartPalette) ([]byte, error) {
	bars := make([]chart.Value, 0, len(teams))
	lo, hi := 0.0, 1.0
	for _, t := range teams {
		if t.Unknown {
			continue
		}
		v := float64(t.Points)
		bars = append(bars, chart.Value{Label: t.Name, Value: v})
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(bars) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	graph := chart.BarChart{
		Title:    "Points",
		Width:    max(400, 90*len(bars)),
		Height:   400,
		BarWidth: 50,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		XAxis: chart.Style{
			FontColor: palette.Text,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: palette.Text,
			},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}
	for i := range graph.Bars {
		graph.Bars[i].Style = chart.Style{FillColor: palette.Bar, StrokeColor: palette.Bar}
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render points chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No results yet"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
