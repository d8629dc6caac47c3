package resolver

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/timeutil"
)

const (
	viewer domain.ID = "7"
	owner  domain.ID = "9"
)

var (
	viewerSession = domain.Session{OrganizationID: viewer, Token: "tok"}
	t0            = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
)

func notFound(path string) error {
	return domain.NewServerError(path, 404, "Not found.")
}

func newTestResolver(t *testing.T, cfg Config) (*Resolver, *domain.MockInventorySource, *timeutil.MockClock) {
	t.Helper()
	ctrl := gomock.NewController(t)
	src := domain.NewMockInventorySource(ctrl)
	clock := timeutil.NewMockClock(t0)
	return New(src, cfg, clock, zerolog.Nop(), nil), src, clock
}

func airlineReq(ref domain.Ref, ownerID domain.ID, local *domain.Snapshot) Request {
	return Request{Session: viewerSession, Owner: ownerID, Ref: ref, Local: local}
}

func TestResolve_InlineNeedsNoRequests(t *testing.T) {
	r, _, _ := newTestResolver(t, DefaultConfig())

	got := r.ResolveAirline(context.Background(), airlineReq(
		domain.Inline(domain.ReferenceEntity{ID: "3", Name: "PIA"}), owner, nil))

	assert.Equal(t, "PIA", got)
}

func TestResolve_LocalTableNeedsNoRequests(t *testing.T) {
	r, _, _ := newTestResolver(t, DefaultConfig())
	local := domain.NewSnapshot(nil,
		[]domain.ReferenceEntity{{ID: "3", Name: "Saudia", Logo: "sv.png"}},
		[]domain.ReferenceEntity{{ID: "1", Name: "Lahore", Code: "LHE"}},
		t0)

	e, ok := r.Entity(context.Background(), domain.KindAirline, airlineReq(domain.ByID("3"), owner, local))
	require.True(t, ok)
	assert.Equal(t, "sv.png", e.Logo)

	assert.Equal(t, "Lahore", r.ResolveCity(context.Background(), airlineReq(domain.ByID("1"), owner, local)))
}

func TestResolve_OwnerScopedSingleFetchThenCached(t *testing.T) {
	r, src, _ := newTestResolver(t, DefaultConfig())

	src.EXPECT().
		GetReference(gomock.Any(), viewerSession, domain.KindAirline, domain.ID("3"), owner).
		Return(domain.ReferenceEntity{ID: "3", Name: "Airblue"}, nil).
		Times(1)

	req := airlineReq(domain.ByID("3"), owner, nil)
	assert.Equal(t, "Airblue", r.ResolveAirline(context.Background(), req))
	assert.Equal(t, "Airblue", r.ResolveAirline(context.Background(), req), "second lookup is served from memory")

	resolved, misses := r.Stats()
	assert.Equal(t, 1, resolved)
	assert.Zero(t, misses)
}

func TestResolve_FallbackChainStopsAfterFourRequests(t *testing.T) {
	r, src, _ := newTestResolver(t, DefaultConfig())
	ctx := context.Background()

	gomock.InOrder(
		src.EXPECT().GetReference(gomock.Any(), viewerSession, domain.KindAirline, domain.ID("99"), owner).
			Return(domain.ReferenceEntity{}, notFound("/airlines/99/")),
		src.EXPECT().ListReferences(gomock.Any(), viewerSession, domain.KindAirline, owner).
			Return([]domain.ReferenceEntity{{ID: "3", Name: "Airblue"}}, nil),
		src.EXPECT().GetReference(gomock.Any(), viewerSession, domain.KindAirline, domain.ID("99"), domain.ID("")).
			Return(domain.ReferenceEntity{}, notFound("/airlines/99/")),
		src.EXPECT().ListReferences(gomock.Any(), viewerSession, domain.KindAirline, domain.ID("")).
			Return([]domain.ReferenceEntity{{ID: "4", Name: "Emirates"}}, nil),
	)

	req := airlineReq(domain.ByID("99"), owner, nil)
	assert.Equal(t, UnknownAirline, r.ResolveAirline(ctx, req))

	// No fifth request: the exhausted id is remembered
	assert.Equal(t, UnknownAirline, r.ResolveAirline(ctx, req))

	_, misses := r.Stats()
	assert.Equal(t, 1, misses)
}

func TestResolve_NegativeMemoExpires(t *testing.T) {
	r, src, clock := newTestResolver(t, Config{NegativeTTL: time.Minute})
	ctx := context.Background()

	src.EXPECT().GetReference(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ReferenceEntity{}, notFound("/airlines/99/")).Times(2)
	src.EXPECT().ListReferences(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).Times(2)

	req := airlineReq(domain.ByID("99"), "", nil)
	assert.Equal(t, UnknownAirline, r.ResolveAirline(ctx, req))
	assert.Equal(t, UnknownAirline, r.ResolveAirline(ctx, req))

	clock.Advance(time.Minute)
	assert.Equal(t, UnknownAirline, r.ResolveAirline(ctx, req), "chain runs again after the memo expires")
}

func TestResolve_LocalTierStillConsultedAfterMiss(t *testing.T) {
	r, src, _ := newTestResolver(t, DefaultConfig())
	ctx := context.Background()

	src.EXPECT().GetReference(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ReferenceEntity{}, notFound("/cities/5/")).AnyTimes()
	src.EXPECT().ListReferences(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).AnyTimes()

	assert.Equal(t, "City (5)", r.ResolveCity(ctx, airlineReq(domain.ByID("5"), owner, nil)))

	local := domain.NewSnapshot(nil, nil, []domain.ReferenceEntity{{ID: "5", Name: "Madinah", Code: "MED"}}, t0)
	assert.Equal(t, "Madinah", r.ResolveCity(ctx, airlineReq(domain.ByID("5"), owner, local)))
}

func TestResolve_TierOrderByOwnership(t *testing.T) {
	tests := []struct {
		name  string
		owner domain.ID
		calls []string
	}{
		{"owner differs from viewer", owner, []string{"get:9", "list:9", "get:", "list:"}},
		{"owner is viewer", viewer, []string{"list:7", "get:", "list:"}},
		{"owner unknown", "", []string{"get:", "list:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, src, _ := newTestResolver(t, DefaultConfig())
			var calls []string

			src.EXPECT().GetReference(gomock.Any(), gomock.Any(), domain.KindCity, domain.ID("42"), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ domain.Session, _ domain.ReferenceKind, _, org domain.ID) (domain.ReferenceEntity, error) {
					calls = append(calls, "get:"+org.String())
					return domain.ReferenceEntity{}, notFound("/cities/42/")
				}).AnyTimes()
			src.EXPECT().ListReferences(gomock.Any(), gomock.Any(), domain.KindCity, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ domain.Session, _ domain.ReferenceKind, org domain.ID) ([]domain.ReferenceEntity, error) {
					calls = append(calls, "list:"+org.String())
					return nil, nil
				}).AnyTimes()

			got := r.ResolveCity(context.Background(), airlineReq(domain.ByID("42"), tt.owner, nil))

			assert.Equal(t, "City (42)", got)
			assert.Equal(t, tt.calls, calls)
		})
	}
}

func TestResolve_ListTierMatchesByID(t *testing.T) {
	r, src, _ := newTestResolver(t, DefaultConfig())

	src.EXPECT().GetReference(gomock.Any(), gomock.Any(), domain.KindAirline, domain.ID("12"), owner).
		Return(domain.ReferenceEntity{}, notFound("/airlines/12/"))
	src.EXPECT().ListReferences(gomock.Any(), gomock.Any(), domain.KindAirline, owner).
		Return([]domain.ReferenceEntity{{ID: "11", Name: "Wrong"}, {ID: "12", Name: "Serene Air"}}, nil)

	assert.Equal(t, "Serene Air", r.ResolveAirline(context.Background(), airlineReq(domain.ByID("12"), owner, nil)))
}

func TestResolve_NamelessEntityFallsThrough(t *testing.T) {
	r, src, _ := newTestResolver(t, DefaultConfig())

	gomock.InOrder(
		src.EXPECT().GetReference(gomock.Any(), gomock.Any(), domain.KindAirline, domain.ID("3"), owner).
			Return(domain.ReferenceEntity{ID: "3"}, nil),
		src.EXPECT().ListReferences(gomock.Any(), gomock.Any(), domain.KindAirline, owner).
			Return([]domain.ReferenceEntity{{ID: "3", Name: "PIA"}}, nil),
	)

	assert.Equal(t, "PIA", r.ResolveAirline(context.Background(), airlineReq(domain.ByID("3"), owner, nil)))
}

func TestResolve_Placeholders(t *testing.T) {
	r, _, _ := newTestResolver(t, DefaultConfig())
	ctx := context.Background()

	assert.Equal(t, UnknownAirline, r.ResolveAirline(ctx, airlineReq(domain.Unset(), owner, nil)))
	assert.Equal(t, UnknownCity, r.ResolveCity(ctx, airlineReq(domain.Unset(), owner, nil)))
	assert.Equal(t, "City (42)", CityPlaceholder(domain.ByID("42")))
	assert.Equal(t, UnknownCity, CityPlaceholder(domain.ByID("lhe-main")))
}

func TestResolve_ConcurrentLookupsShareOneFetch(t *testing.T) {
	r, src, _ := newTestResolver(t, DefaultConfig())
	release := make(chan struct{})
	var fetches int32

	src.EXPECT().GetReference(gomock.Any(), gomock.Any(), domain.KindAirline, domain.ID("3"), owner).
		DoAndReturn(func(context.Context, domain.Session, domain.ReferenceKind, domain.ID, domain.ID) (domain.ReferenceEntity, error) {
			atomic.AddInt32(&fetches, 1)
			<-release
			return domain.ReferenceEntity{ID: "3", Name: "PIA"}, nil
		}).Times(1)

	const callers = 10
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.ResolveAirline(context.Background(), airlineReq(domain.ByID("3"), owner, nil))
		}(i)
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&fetches) == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, "PIA", got)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
}

func TestResolve_TierTimeoutMovesOn(t *testing.T) {
	r, src, _ := newTestResolver(t, Config{TierTimeout: 20 * time.Millisecond})

	src.EXPECT().GetReference(gomock.Any(), gomock.Any(), domain.KindAirline, domain.ID("3"), owner).
		DoAndReturn(func(ctx context.Context, _ domain.Session, _ domain.ReferenceKind, _, _ domain.ID) (domain.ReferenceEntity, error) {
			<-ctx.Done()
			return domain.ReferenceEntity{}, ctx.Err()
		})
	src.EXPECT().ListReferences(gomock.Any(), gomock.Any(), domain.KindAirline, owner).
		Return([]domain.ReferenceEntity{{ID: "3", Name: "PIA"}}, nil)

	start := time.Now()
	got := r.ResolveAirline(context.Background(), airlineReq(domain.ByID("3"), owner, nil))

	assert.Equal(t, "PIA", got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestResolve_CallerCancellationReturnsPlaceholder(t *testing.T) {
	r, src, _ := newTestResolver(t, DefaultConfig())
	release := make(chan struct{})
	done := make(chan struct{})

	src.EXPECT().GetReference(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.Session, domain.ReferenceKind, domain.ID, domain.ID) (domain.ReferenceEntity, error) {
			defer close(done)
			<-release
			return domain.ReferenceEntity{ID: "3", Name: "PIA"}, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, UnknownAirline, r.ResolveAirline(ctx, airlineReq(domain.ByID("3"), owner, nil)))

	// The shared lookup keeps going and lands in the cache
	close(release)
	<-done
	require.Eventually(t, func() bool {
		resolved, _ := r.Stats()
		return resolved == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, "PIA", r.ResolveAirline(context.Background(), airlineReq(domain.ByID("3"), owner, nil)))
}

func TestCityCode(t *testing.T) {
	r, src, _ := newTestResolver(t, DefaultConfig())
	ctx := context.Background()
	local := domain.NewSnapshot(nil, nil, []domain.ReferenceEntity{
		{ID: "1", Name: "Lahore", Code: "LHE"},
		{ID: "2", Name: "jeddah"},
	}, t0)

	assert.Equal(t, "LHE", r.CityCode(ctx, airlineReq(domain.ByID("1"), viewer, local)), "code table")
	assert.Equal(t, "JED", r.CityCode(ctx, airlineReq(domain.ByID("2"), viewer, local)), "name prefix, uppercased")
	assert.Equal(t, "MED", r.CityCode(ctx, airlineReq(
		domain.Inline(domain.ReferenceEntity{ID: "3", Name: "Madinah", Code: "MED"}), viewer, local)), "inline code")

	src.EXPECT().GetReference(gomock.Any(), gomock.Any(), domain.KindCity, domain.ID("8"), owner).
		Return(domain.ReferenceEntity{ID: "8", Name: "Dubai", Code: "DXB"}, nil)
	assert.Equal(t, "DXB", r.CityCode(ctx, airlineReq(domain.ByID("8"), owner, local)), "resolved entity code")

	assert.Equal(t, "UNK", r.CityCode(ctx, airlineReq(domain.Unset(), owner, local)))
}

func TestForgetMisses(t *testing.T) {
	r, src, _ := newTestResolver(t, DefaultConfig())
	ctx := context.Background()

	src.EXPECT().GetReference(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ReferenceEntity{}, notFound("/airlines/99/")).Times(1)
	src.EXPECT().ListReferences(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).Times(1)
	src.EXPECT().GetReference(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ReferenceEntity{ID: "99", Name: "Fly Jinnah"}, nil).Times(1)

	req := airlineReq(domain.ByID("99"), "", nil)
	assert.Equal(t, UnknownAirline, r.ResolveAirline(ctx, req))

	r.ForgetMisses()
	assert.Equal(t, "Fly Jinnah", r.ResolveAirline(ctx, req))
}

func TestResolve_MemoryIsScopedToViewer(t *testing.T) {
	r, src, _ := newTestResolver(t, DefaultConfig())
	ctx := context.Background()

	refused := domain.Session{OrganizationID: "1", Token: "expired"}
	allowed := domain.Session{OrganizationID: "2", Token: "tok"}
	denied := domain.NewServerError("/airlines/20/", 403, "Forbidden.")

	src.EXPECT().GetReference(gomock.Any(), refused, domain.KindAirline, domain.ID("20"), gomock.Any()).
		Return(domain.ReferenceEntity{}, denied).Times(2)
	src.EXPECT().ListReferences(gomock.Any(), refused, domain.KindAirline, gomock.Any()).
		Return(nil, denied).Times(2)
	src.EXPECT().GetReference(gomock.Any(), allowed, domain.KindAirline, domain.ID("20"), owner).
		Return(domain.ReferenceEntity{ID: "20", Name: "Airblue"}, nil).Times(1)

	refusedReq := Request{Session: refused, Owner: owner, Ref: domain.ByID("20")}
	allowedReq := Request{Session: allowed, Owner: owner, Ref: domain.ByID("20")}

	assert.Equal(t, UnknownAirline, r.ResolveAirline(ctx, refusedReq))
	assert.Equal(t, "Airblue", r.ResolveAirline(ctx, allowedReq), "another viewer's miss is not shared")

	// The refused viewer stays on its own memo and never sees the other's entity
	assert.Equal(t, UnknownAirline, r.ResolveAirline(ctx, refusedReq))
	assert.Equal(t, "Airblue", r.ResolveAirline(ctx, allowedReq))

	resolved, misses := r.Stats()
	assert.Equal(t, 1, resolved)
	assert.Equal(t, 1, misses)
}
