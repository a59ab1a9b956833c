package fixturehandlers

import (
	"context"

	fixtureservice "github.com/Black-And-White-Club/dart-league/app/modules/fixture/application"
	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	"github.com/google/uuid"
)

// FakeService is a programmable fixtureservice.Service.
type FakeService struct {
	trace []string

	GetFixtureFunc        func(ctx context.Context, id uuid.UUID) (*fixturedomain.Fixture, error)
	MergeViewFunc         func(ctx context.Context, id uuid.UUID) (*fixtureservice.MergeView, error)
	ScoresVisibleFunc     func(ctx context.Context, id uuid.UUID) (bool, error)
	SubmitScorecardFunc   func(ctx context.Context, req fixtureservice.EditRequest, side fixturedomain.Side, scorecard fixturedomain.Fixture) (*fixturedomain.Fixture, error)
	MergeSlotFunc         func(ctx context.Context, req fixtureservice.EditRequest, index int, side fixturedomain.Side) (*fixturedomain.Fixture, error)
	AcceptAllFunc         func(ctx context.Context, req fixtureservice.EditRequest, side fixturedomain.Side) (*fixturedomain.Fixture, error)
	MergeAccoladeListFunc func(ctx context.Context, req fixtureservice.EditRequest, category fixturedomain.AccoladeCategory, side fixturedomain.Side) (*fixturedomain.Fixture, error)
	MergeManOfMatchFunc   func(ctx context.Context, req fixtureservice.EditRequest, side fixturedomain.Side) (*fixturedomain.Fixture, error)
	UnpublishFunc         func(ctx context.Context, req fixtureservice.EditRequest) (*fixturedomain.Fixture, error)
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) GetFixture(ctx context.Context, id uuid.UUID) (*fixturedomain.Fixture, error) {
	f.record("GetFixture")
	if f.GetFixtureFunc != nil {
		return f.GetFixtureFunc(ctx, id)
	}
	return &fixturedomain.Fixture{ID: id}, nil
}

func (f *FakeService) MergeView(ctx context.Context, id uuid.UUID) (*fixtureservice.MergeView, error) {
	f.record("MergeView")
	if f.MergeViewFunc != nil {
		return f.MergeViewFunc(ctx, id)
	}
	return &fixtureservice.MergeView{Fixture: fixturedomain.Fixture{ID: id}}, nil
}

func (f *FakeService) ScoresVisible(ctx context.Context, id uuid.UUID) (bool, error) {
	f.record("ScoresVisible")
	if f.ScoresVisibleFunc != nil {
		return f.ScoresVisibleFunc(ctx, id)
	}
	return false, nil
}

func (f *FakeService) SubmitScorecard(ctx context.Context, req fixtureservice.EditRequest, side fixturedomain.Side, scorecard fixturedomain.Fixture) (*fixturedomain.Fixture, error) {
	f.record("SubmitScorecard")
	if f.SubmitScorecardFunc != nil {
		return f.SubmitScorecardFunc(ctx, req, side, scorecard)
	}
	return &fixturedomain.Fixture{ID: req.FixtureID}, nil
}

func (f *FakeService) MergeSlot(ctx context.Context, req fixtureservice.EditRequest, index int, side fixturedomain.Side) (*fixturedomain.Fixture, error) {
	f.record("MergeSlot")
	if f.MergeSlotFunc != nil {
		return f.MergeSlotFunc(ctx, req, index, side)
	}
	return &fixturedomain.Fixture{ID: req.FixtureID}, nil
}

func (f *FakeService) AcceptAll(ctx context.Context, req fixtureservice.EditRequest, side fixturedomain.Side) (*fixturedomain.Fixture, error) {
	f.record("AcceptAll")
	if f.AcceptAllFunc != nil {
		return f.AcceptAllFunc(ctx, req, side)
	}
	return &fixturedomain.Fixture{ID: req.FixtureID}, nil
}

func (f *FakeService) MergeAccoladeList(ctx context.Context, req fixtureservice.EditRequest, category fixturedomain.AccoladeCategory, side fixturedomain.Side) (*fixturedomain.Fixture, error) {
	f.record("MergeAccoladeList")
	if f.MergeAccoladeListFunc != nil {
		return f.MergeAccoladeListFunc(ctx, req, category, side)
	}
	return &fixturedomain.Fixture{ID: req.FixtureID}, nil
}

func (f *FakeService) MergeManOfMatch(ctx context.Context, req fixtureservice.EditRequest, side fixturedomain.Side) (*fixturedomain.Fixture, error) {
	f.record("MergeManOfMatch")
	if f.MergeManOfMatchFunc != nil {
		return f.MergeManOfMatchFunc(ctx, req, side)
	}
	return &fixturedomain.Fixture{ID: req.FixtureID}, nil
}

func (f *FakeService) Unpublish(ctx context.Context, req fixtureservice.EditRequest) (*fixturedomain.Fixture, error) {
	f.record("Unpublish")
	if f.UnpublishFunc != nil {
		return f.UnpublishFunc(ctx, req)
	}
	return &fixturedomain.Fixture{ID: req.FixtureID}, nil
}

var _ fixtureservice.Service = (*FakeService)(nil)
