package fixtureservice

import (
	"context"

	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	"github.com/google/uuid"
)

// Service defines the fixture merge operations.
type Service interface {
	GetFixture(ctx context.Context, id uuid.UUID) (*fixturedomain.Fixture, error)
	MergeView(ctx context.Context, id uuid.UUID) (*MergeView, error)
	ScoresVisible(ctx context.Context, id uuid.UUID) (bool, error)

	SubmitScorecard(ctx context.Context, req EditRequest, side fixturedomain.Side, scorecard fixturedomain.Fixture) (*fixturedomain.Fixture, error)
	MergeSlot(ctx context.Context, req EditRequest, index int, side fixturedomain.Side) (*fixturedomain.Fixture, error)
	AcceptAll(ctx context.Context, req EditRequest, side fixturedomain.Side) (*fixturedomain.Fixture, error)
	MergeAccoladeList(ctx context.Context, req EditRequest, category fixturedomain.AccoladeCategory, side fixturedomain.Side) (*fixturedomain.Fixture, error)
	MergeManOfMatch(ctx context.Context, req EditRequest, side fixturedomain.Side) (*fixturedomain.Fixture, error)
	Unpublish(ctx context.Context, req EditRequest) (*fixturedomain.Fixture, error)
}

var _ Service = (*FixtureService)(nil)
