package rosterservice

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	rosterdomain "github.com/Black-And-White-Club/dart-league/app/modules/roster/domain"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrNoSquadHeader means no row carried both a team and a player column.
	ErrNoSquadHeader = errors.New("squad sheet has no Team/Player header row")
	// ErrEmptySquadSheet means the sheet held a header but no players.
	ErrEmptySquadSheet = errors.New("squad sheet lists no players")
)

// rosterNamespace seeds the name-derived IDs of teams and players that the
// sheet does not identify explicitly.
var rosterNamespace = uuid.MustParse("6f0a0c52-3a5e-4b8e-9a36-0d1f1b7c9e21")

// TeamID derives a stable team ID from its name.
func TeamID(name string) uuid.UUID {
	return uuid.NewSHA1(rosterNamespace, []byte("team:"+normalize(name)))
}

// PlayerID derives a stable player ID from the team and player names.
func PlayerID(team, name string) uuid.UUID {
	return uuid.NewSHA1(rosterNamespace, []byte("player:"+normalize(team)+"/"+normalize(name)))
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

type squadColumns struct {
	team, teamID, player, playerID int
}

// ParseSquadWorkbook reads squads from the first sheet of an XLSX workbook.
// The header row needs Team and Player columns; Team ID and Player ID
// columns are optional and fall back to name-derived IDs. Squads come back
// in the order their teams first appear.
func ParseSquadWorkbook(data []byte, seasonID uuid.UUID) ([]rosterdomain.Roster, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	headerIdx, cols, ok := findSquadHeader(rows)
	if !ok {
		return nil, ErrNoSquadHeader
	}

	var squads []rosterdomain.Roster
	index := make(map[uuid.UUID]int)
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		teamName := cell(row, cols.team)
		playerName := cell(row, cols.player)
		if teamName == "" || playerName == "" {
			continue
		}

		teamID, err := idOrDerived(cell(row, cols.teamID), func() uuid.UUID { return TeamID(teamName) })
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid team id: %w", i+1, err)
		}
		playerID, err := idOrDerived(cell(row, cols.playerID), func() uuid.UUID { return PlayerID(teamName, playerName) })
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid player id: %w", i+1, err)
		}

		pos, seen := index[teamID]
		if !seen {
			pos = len(squads)
			index[teamID] = pos
			squads = append(squads, rosterdomain.Roster{TeamID: teamID, TeamName: teamName, SeasonID: seasonID})
		}
		if squads[pos].Has(playerID) {
			continue
		}
		squads[pos].Players = append(squads[pos].Players, fixturedomain.PlayerRef{ID: playerID, Name: playerName})
	}

	if len(squads) == 0 {
		return nil, ErrEmptySquadSheet
	}
	return squads, nil
}

func findSquadHeader(rows [][]string) (int, squadColumns, bool) {
	for i, row := range rows {
		cols := squadColumns{team: -1, teamID: -1, player: -1, playerID: -1}
		for j, c := range row {
			switch normalize(c) {
			case "team":
				cols.team = j
			case "team id":
				cols.teamID = j
			case "player", "name":
				cols.player = j
			case "player id":
				cols.playerID = j
			}
		}
		if cols.team >= 0 && cols.player >= 0 {
			return i, cols, true
		}
	}
	return 0, squadColumns{}, false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func idOrDerived(raw string, derive func() uuid.UUID) (uuid.UUID, error) {
	if raw == "" {
		return derive(), nil
	}
	return uuid.Parse(raw)
}
