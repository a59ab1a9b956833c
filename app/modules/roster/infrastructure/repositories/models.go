package rosterdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Team is a club entering one or more seasons.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Name      string    `bun:"name,notnull"`
	Address   string    `bun:"address,nullzero"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Player is a registered player.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// TeamSeason records a team's registration for a season.
type TeamSeason struct {
	bun.BaseModel `bun:"table:team_seasons,alias:ts"`

	TeamID   uuid.UUID `bun:"team_id,pk,type:uuid"`
	SeasonID uuid.UUID `bun:"season_id,pk,type:uuid"`
}

// TeamSeasonPlayer places a player on a team's squad for a season.
type TeamSeasonPlayer struct {
	bun.BaseModel `bun:"table:team_season_players,alias:tsp"`

	TeamID   uuid.UUID `bun:"team_id,pk,type:uuid"`
	SeasonID uuid.UUID `bun:"season_id,pk,type:uuid"`
	PlayerID uuid.UUID `bun:"player_id,pk,type:uuid"`
}

type squadRow struct {
	TeamID     uuid.UUID `bun:"team_id"`
	TeamName   string    `bun:"team_name"`
	SeasonID   uuid.UUID `bun:"season_id"`
	PlayerID   uuid.UUID `bun:"player_id"`
	PlayerName string    `bun:"player_name"`
}
