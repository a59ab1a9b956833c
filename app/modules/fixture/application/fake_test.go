package fixtureservice

import (
	"context"
	"sync"
	"time"

	fixturedomain "github.com/Black-And-White-Club/dart-league/app/modules/fixture/domain"
	fixturedb "github.com/Black-And-White-Club/dart-league/app/modules/fixture/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Fixture Repo
// ------------------------

type FakeFixtureRepo struct {
	trace []string

	GetByIDFunc      func(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedomain.Fixture, error)
	ListBySeasonFunc func(ctx context.Context, db bun.IDB, divisionID, seasonID uuid.UUID) ([]fixturedomain.Fixture, error)
	CreateFunc       func(ctx context.Context, db bun.IDB, fixture *fixturedomain.Fixture) error
	UpdateFunc       func(ctx context.Context, db bun.IDB, fixture *fixturedomain.Fixture, expectedUpdated time.Time) error
	SoftDeleteFunc   func(ctx context.Context, db bun.IDB, id uuid.UUID, at time.Time) error
}

func NewFakeFixtureRepo() *FakeFixtureRepo {
	return &FakeFixtureRepo{
		trace: []string{},
	}
}

func (f *FakeFixtureRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeFixtureRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Repository Interface Implementation ---

func (f *FakeFixtureRepo) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedomain.Fixture, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, fixturedb.ErrNotFound
}

func (f *FakeFixtureRepo) ListBySeason(ctx context.Context, db bun.IDB, divisionID, seasonID uuid.UUID) ([]fixturedomain.Fixture, error) {
	f.record("ListBySeason")
	if f.ListBySeasonFunc != nil {
		return f.ListBySeasonFunc(ctx, db, divisionID, seasonID)
	}
	return nil, nil
}

func (f *FakeFixtureRepo) Create(ctx context.Context, db bun.IDB, fixture *fixturedomain.Fixture) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, fixture)
	}
	return nil
}

func (f *FakeFixtureRepo) Update(ctx context.Context, db bun.IDB, fixture *fixturedomain.Fixture, expectedUpdated time.Time) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, fixture, expectedUpdated)
	}
	return nil
}

func (f *FakeFixtureRepo) SoftDelete(ctx context.Context, db bun.IDB, id uuid.UUID, at time.Time) error {
	f.record("SoftDelete")
	if f.SoftDeleteFunc != nil {
		return f.SoftDeleteFunc(ctx, db, id, at)
	}
	return nil
}

var _ fixturedb.Repository = (*FakeFixtureRepo)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type published struct {
	topic string
	msg   *message.Message
}

type FakePublisher struct {
	mu       sync.Mutex
	messages []published

	PublishFunc func(topic string, messages ...*message.Message) error
}

func (p *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	if p.PublishFunc != nil {
		if err := p.PublishFunc(topic, messages...); err != nil {
			return err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, msg := range messages {
		p.messages = append(p.messages, published{topic: topic, msg: msg})
	}
	return nil
}

func (p *FakePublisher) Close() error { return nil }

func (p *FakePublisher) Published() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]published, len(p.messages))
	copy(out, p.messages)
	return out
}

var _ message.Publisher = (*FakePublisher)(nil)
