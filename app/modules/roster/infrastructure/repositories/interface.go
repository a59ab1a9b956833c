package rosterdb

import (
	"context"

	rosterdomain "github.com/Black-And-White-Club/dart-league/app/modules/roster/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for team and squad persistence.
type Repository interface {
	// UpsertTeam creates or renames a team.
	UpsertTeam(ctx context.Context, db bun.IDB, team *Team) error

	// UpsertPlayer creates or renames a player.
	UpsertPlayer(ctx context.Context, db bun.IDB, player *Player) error

	// RegisterSquad registers a team for a season and replaces its squad.
	RegisterSquad(ctx context.Context, db bun.IDB, teamID, seasonID uuid.UUID, playerIDs []uuid.UUID) error

	// GetRoster returns a team's squad for a season.
	GetRoster(ctx context.Context, db bun.IDB, teamID, seasonID uuid.UUID) (rosterdomain.Roster, error)

	// ListSeasonRosters returns every registered team's squad for a season.
	ListSeasonRosters(ctx context.Context, db bun.IDB, seasonID uuid.UUID) ([]rosterdomain.Roster, error)

	// ListTeamIDs returns the IDs of every known team.
	ListTeamIDs(ctx context.Context, db bun.IDB) ([]uuid.UUID, error)
}
