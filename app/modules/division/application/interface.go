package divisionservice

import (
	"context"
	"time"

	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	"github.com/google/uuid"
)

// Service defines the division standings operations.
type Service interface {
	Standings(ctx context.Context, divisionID, seasonID uuid.UUID) (*divisiondomain.Result, error)
	StandingsAsOf(ctx context.Context, divisionID, seasonID uuid.UUID, asOf time.Time) (*divisiondomain.Result, error)
	Invalidate(divisionID, seasonID uuid.UUID)
	ExportWorkbook(ctx context.Context, divisionID, seasonID uuid.UUID) ([]byte, error)
	PointsChart(ctx context.Context, divisionID, seasonID uuid.UUID) ([]byte, error)
}

var _ Service = (*DivisionService)(nil)
