package rosterservice

import (
	"context"
	"fmt"
	"log/slog"

	rosterdomain "github.com/Black-And-White-Club/dart-league/app/modules/roster/domain"
	rosterdb "github.com/Black-And-White-Club/dart-league/app/modules/roster/infrastructure/repositories"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability/attr"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Importer writes parsed squads to the roster tables.
type Importer struct {
	repo   rosterdb.Repository
	logger *slog.Logger
	db     *bun.DB
}

// NewImporter creates a new Importer.
func NewImporter(repo rosterdb.Repository, logger *slog.Logger, db *bun.DB) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{repo: repo, logger: logger, db: db}
}

// Import upserts every team and player and replaces each team's squad for
// the season. All squads are written in one transaction.
func (i *Importer) Import(ctx context.Context, squads []rosterdomain.Roster) error {
	write := func(ctx context.Context, db bun.IDB) error {
		for _, squad := range squads {
			if err := i.repo.UpsertTeam(ctx, db, &rosterdb.Team{ID: squad.TeamID, Name: squad.TeamName}); err != nil {
				return fmt.Errorf("team %q: %w", squad.TeamName, err)
			}
			playerIDs := make([]uuid.UUID, 0, len(squad.Players))
			for _, p := range squad.Players {
				if err := i.repo.UpsertPlayer(ctx, db, &rosterdb.Player{ID: p.ID, Name: p.Name}); err != nil {
					return fmt.Errorf("player %q: %w", p.Name, err)
				}
				playerIDs = append(playerIDs, p.ID)
			}
			if err := i.repo.RegisterSquad(ctx, db, squad.TeamID, squad.SeasonID, playerIDs); err != nil {
				return fmt.Errorf("squad %q: %w", squad.TeamName, err)
			}
			i.logger.InfoContext(ctx, "Squad registered",
				attr.ExtractCorrelationID(ctx),
				attr.UUID("team_id", squad.TeamID),
				attr.UUID("season_id", squad.SeasonID),
				attr.Int("players", len(playerIDs)),
			)
		}
		return nil
	}

	if i.db == nil {
		return write(ctx, nil)
	}
	return i.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return write(ctx, tx)
	})
}
