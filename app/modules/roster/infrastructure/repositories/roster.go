package rosterdb

import (
	"context"
	"fmt"
	"time"

	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	rosterdomain "github.com/Black-And-White-Club/dart-league/app/modules/roster/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new roster repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// UpsertTeam creates or updates a team.
func (r *Impl) UpsertTeam(ctx context.Context, db bun.IDB, team *Team) error {
	db = r.resolveDB(db)
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	team.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(team).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("address = EXCLUDED.address").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

// UpsertPlayer creates or updates a player.
func (r *Impl) UpsertPlayer(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}
	_, err := db.NewInsert().
		Model(player).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

// RegisterSquad registers the team for the season and replaces its squad.
// Callers wanting atomicity pass a transaction.
func (r *Impl) RegisterSquad(ctx context.Context, db bun.IDB, teamID, seasonID uuid.UUID, playerIDs []uuid.UUID) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(&TeamSeason{TeamID: teamID, SeasonID: seasonID}).
		On("CONFLICT (team_id, season_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to register team: %w", err)
	}

	_, err = db.NewDelete().
		Model((*TeamSeasonPlayer)(nil)).
		Where("team_id = ?", teamID).
		Where("season_id = ?", seasonID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear squad: %w", err)
	}
	if len(playerIDs) == 0 {
		return nil
	}

	rows := make([]TeamSeasonPlayer, len(playerIDs))
	for i, id := range playerIDs {
		rows[i] = TeamSeasonPlayer{TeamID: teamID, SeasonID: seasonID, PlayerID: id}
	}
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert squad: %w", err)
	}
	return nil
}

func (r *Impl) squadQuery(db bun.IDB) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("team_seasons AS ts").
		ColumnExpr("ts.team_id, t.name AS team_name, ts.season_id").
		ColumnExpr("p.id AS player_id, p.name AS player_name").
		Join("JOIN teams AS t ON t.id = ts.team_id").
		Join("LEFT JOIN team_season_players AS tsp ON tsp.team_id = ts.team_id AND tsp.season_id = ts.season_id").
		Join("LEFT JOIN players AS p ON p.id = tsp.player_id").
		Order("t.name ASC", "ts.team_id ASC", "p.name ASC", "p.id ASC")
}

func groupSquads(rows []squadRow) []rosterdomain.Roster {
	var out []rosterdomain.Roster
	for _, row := range rows {
		if len(out) == 0 || out[len(out)-1].TeamID != row.TeamID {
			out = append(out, rosterdomain.Roster{TeamID: row.TeamID, TeamName: row.TeamName, SeasonID: row.SeasonID})
		}
		if row.PlayerID == uuid.Nil {
			continue
		}
		last := &out[len(out)-1]
		last.Players = append(last.Players, fixturedomain.PlayerRef{ID: row.PlayerID, Name: row.PlayerName})
	}
	return out
}

// GetRoster returns the team's squad, distinguishing unknown teams from
// teams that did not enter the season.
func (r *Impl) GetRoster(ctx context.Context, db bun.IDB, teamID, seasonID uuid.UUID) (rosterdomain.Roster, error) {
	db = r.resolveDB(db)
	var rows []squadRow
	err := r.squadQuery(db).
		Where("ts.team_id = ?", teamID).
		Where("ts.season_id = ?", seasonID).
		Scan(ctx, &rows)
	if err != nil {
		return rosterdomain.Roster{}, fmt.Errorf("failed to get roster: %w", err)
	}
	if squads := groupSquads(rows); len(squads) > 0 {
		return squads[0], nil
	}

	exists, err := db.NewSelect().Model((*Team)(nil)).Where("t.id = ?", teamID).Exists(ctx)
	if err != nil {
		return rosterdomain.Roster{}, fmt.Errorf("failed to check team existence: %w", err)
	}
	if exists {
		return rosterdomain.Roster{}, rosterdomain.ErrTeamNotRegistered
	}
	return rosterdomain.Roster{}, rosterdomain.ErrTeamNotFound
}

// ListSeasonRosters returns every squad registered for the season.
func (r *Impl) ListSeasonRosters(ctx context.Context, db bun.IDB, seasonID uuid.UUID) ([]rosterdomain.Roster, error) {
	db = r.resolveDB(db)
	var rows []squadRow
	if err := r.squadQuery(db).Where("ts.season_id = ?", seasonID).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to list rosters: %w", err)
	}
	return groupSquads(rows), nil
}

// ListTeamIDs returns every team's ID.
func (r *Impl) ListTeamIDs(ctx context.Context, db bun.IDB) ([]uuid.UUID, error) {
	db = r.resolveDB(db)
	var ids []uuid.UUID
	if err := db.NewSelect().Model((*Team)(nil)).Column("id").Order("id").Scan(ctx, &ids); err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return ids, nil
}
