package widget

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	domcart "example.com/cart-widget/internal/domain/cart"
	"example.com/cart-widget/internal/dom"
)

// --- Stub collaborators ---

type updateCall struct {
	cartID string
	id     string
	qty    int
}

type stubClient struct {
	mu sync.Mutex

	createSnap *domcart.Snapshot
	createErr  error
	fetchSnap  *domcart.Snapshot
	fetchErr   error
	addSnap    *domcart.Snapshot
	addErr     error
	updateSnap *domcart.Snapshot
	updateErr  error

	addFn    func(cartID string, additions []domcart.VariantAddition) (*domcart.Snapshot, error)
	updateFn func(cartID, lineItemID string, quantity int) (*domcart.Snapshot, error)

	createCalls int
	fetchIDs    []string
	adds        []domcart.VariantAddition
	updates     []updateCall
}

func (s *stubClient) CreateCart(ctx context.Context) (*domcart.Snapshot, error) {
	s.mu.Lock()
	s.createCalls++
	s.mu.Unlock()
	return s.createSnap, s.createErr
}

func (s *stubClient) FetchCart(ctx context.Context, id string) (*domcart.Snapshot, error) {
	s.mu.Lock()
	s.fetchIDs = append(s.fetchIDs, id)
	s.mu.Unlock()
	return s.fetchSnap, s.fetchErr
}

func (s *stubClient) AddVariants(ctx context.Context, cartID string, additions []domcart.VariantAddition) (*domcart.Snapshot, error) {
	s.mu.Lock()
	s.adds = append(s.adds, additions...)
	fn := s.addFn
	s.mu.Unlock()
	if fn != nil {
		return fn(cartID, additions)
	}
	return s.addSnap, s.addErr
}

func (s *stubClient) UpdateLineItem(ctx context.Context, cartID, lineItemID string, quantity int) (*domcart.Snapshot, error) {
	s.mu.Lock()
	s.updates = append(s.updates, updateCall{cartID: cartID, id: lineItemID, qty: quantity})
	fn := s.updateFn
	s.mu.Unlock()
	if fn != nil {
		return fn(cartID, lineItemID, quantity)
	}
	return s.updateSnap, s.updateErr
}

func (s *stubClient) recordedUpdates() []updateCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]updateCall, len(s.updates))
	copy(out, s.updates)
	return out
}

type stubStorage struct {
	mu     sync.Mutex
	items  map[string]string
	getErr error
	setErr error
}

func newStubStorage() *stubStorage {
	return &stubStorage{items: map[string]string{}}
}

func (s *stubStorage) GetItem(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.items[key], nil
}

func (s *stubStorage) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.items[key] = value
	return nil
}

type stubRenderer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *stubRenderer) Render(data any, wrapper func(string) string) (string, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	out := data.(lineItemView).Title
	if wrapper != nil {
		out = wrapper(out)
	}
	return out, nil
}

func (r *stubRenderer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type stubToggle struct {
	mu        sync.Mutex
	initItems []domcart.LineItem
	initCalls int
	renders   [][]domcart.LineItem
	cfgs      []Config
	teardowns int
}

func (s *stubToggle) Initialize(ctx context.Context, lineItems []domcart.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initItems = lineItems
	s.initCalls++
	return nil
}

func (s *stubToggle) Render(lineItems []domcart.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders = append(s.renders, lineItems)
}

func (s *stubToggle) UpdateConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfgs = append(s.cfgs, cfg)
}

func (s *stubToggle) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardowns++
	return nil
}

func (s *stubToggle) renderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.renders)
}

type trackedEvent struct {
	name  string
	props map[string]any
}

type stubTracker struct {
	mu     sync.Mutex
	events []trackedEvent
}

func (s *stubTracker) Track(event string, props map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, trackedEvent{name: event, props: props})
}

type stubCheckout struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (s *stubCheckout) Open(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.urls = append(s.urls, url)
	return nil
}

type testDeps struct {
	client   *stubClient
	storage  *stubStorage
	renderer *stubRenderer
	toggle   *stubToggle
	tracker  *stubTracker
	checkout *stubCheckout
	doc      *dom.MemoryDocument
}

func snap(id string, items ...domcart.LineItem) *domcart.Snapshot {
	return &domcart.Snapshot{
		ID:          id,
		CheckoutURL: "https://checkout.example.com/" + id,
		LineItems:   items,
	}
}

func newTestController(t *testing.T, transitions dom.Transitions) (*Controller, *testDeps) {
	t.Helper()
	deps := &testDeps{
		client:   &stubClient{},
		storage:  newStubStorage(),
		renderer: &stubRenderer{},
		toggle:   &stubToggle{},
		tracker:  &stubTracker{},
		checkout: &stubCheckout{},
		doc:      dom.NewMemoryDocument(),
	}
	ctrl, err := NewController(Dependencies{
		Config:      DefaultConfig(),
		Client:      deps.client,
		Storage:     deps.storage,
		Renderer:    deps.renderer,
		Toggle:      deps.toggle,
		Tracker:     deps.tracker,
		Checkout:    deps.checkout,
		Document:    deps.doc,
		Transitions: transitions,
	})
	require.NoError(t, err)
	return ctrl, deps
}

// --- Construction ---

func TestNewController_RequiresCollaborators(t *testing.T) {
	_, err := NewController(Dependencies{Config: DefaultConfig()})
	require.Error(t, err)
}

func TestNewController_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageKey = ""
	_, err := NewController(Dependencies{
		Config:   cfg,
		Client:   &stubClient{},
		Storage:  newStubStorage(),
		Renderer: &stubRenderer{},
		Document: dom.NewMemoryDocument(),
	})
	require.Error(t, err)
}

// --- Initialization ---

func TestInitialize_NoStoredIdentifier_CreatesAndPersists(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	item := domcart.LineItem{ID: "li1", VariantID: "v1", Title: "Shirt", Price: "10.00", Quantity: 1}
	deps.client.createSnap = snap("cart-1", item)

	require.NoError(t, ctrl.Initialize(context.Background()))

	require.Equal(t, 1, deps.client.createCalls)
	require.Empty(t, deps.client.fetchIDs)
	require.Equal(t, "cart-1", deps.storage.items["lastCartId"])
	require.Equal(t, []domcart.LineItem{item}, deps.toggle.initItems)
}

func TestInitialize_StoredIdentifier_FetchesNeverCreates(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.storage.items["lastCartId"] = "abc123"
	deps.client.fetchSnap = snap("abc123")

	require.NoError(t, ctrl.Initialize(context.Background()))

	require.Equal(t, []string{"abc123"}, deps.client.fetchIDs)
	require.Zero(t, deps.client.createCalls)
	require.Equal(t, "abc123", ctrl.Snapshot().ID)
}

func TestInitialize_PersistFailureIsNonFatal(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createSnap = snap("cart-1")
	deps.storage.setErr = errors.New("quota exceeded")

	require.NoError(t, ctrl.Initialize(context.Background()))
	require.Equal(t, "cart-1", ctrl.Snapshot().ID)
}

func TestInitialize_RemoteFailureSurfaced(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createErr = errors.New("service unavailable")

	err := ctrl.Initialize(context.Background())
	require.Error(t, err)

	_, err = ctrl.AddLineItem(context.Background(), domcart.Variant{ID: "v1"}, 1)
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitialize_StorageReadFailureFallsBackToCreate(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.storage.getErr = errors.New("storage unsupported")
	deps.client.createSnap = snap("cart-1")

	require.NoError(t, ctrl.Initialize(context.Background()))
	require.Equal(t, 1, deps.client.createCalls)
}

// --- Add to cart ---

func TestAddLineItem_OptimisticVisibilityBeforeResolution(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createSnap = snap("cart-1")
	require.NoError(t, ctrl.Initialize(context.Background()))

	started := make(chan struct{})
	release := make(chan struct{})
	added := snap("cart-1", domcart.LineItem{ID: "li1", VariantID: "v1", Title: "Shirt", Price: "10.00", Quantity: 2})
	deps.client.addFn = func(string, []domcart.VariantAddition) (*domcart.Snapshot, error) {
		close(started)
		<-release
		return added, nil
	}

	require.False(t, ctrl.Visible())

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.AddLineItem(context.Background(), domcart.Variant{ID: "v1", ProductTitle: "Shirt", Price: "10.00"}, 2)
		done <- err
	}()

	<-started
	require.True(t, ctrl.Visible(), "visibility must flip before the remote call resolves")
	togglesBefore := deps.toggle.renderCount()

	close(release)
	require.NoError(t, <-done)

	require.Equal(t, added, ctrl.Snapshot())
	require.Greater(t, deps.toggle.renderCount(), togglesBefore)
}

func TestAddLineItem_EmitsTrackingEvent(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createSnap = snap("cart-1")
	require.NoError(t, ctrl.Initialize(context.Background()))
	deps.client.addSnap = snap("cart-1", domcart.LineItem{ID: "li1", VariantID: "v1", Quantity: 2})

	_, err := ctrl.AddLineItem(context.Background(), domcart.Variant{ID: "v1", ProductTitle: "Shirt", Price: "10.00"}, 2)
	require.NoError(t, err)

	require.Len(t, deps.tracker.events, 1)
	event := deps.tracker.events[0]
	require.Equal(t, EventCartAdd, event.name)
	require.Equal(t, "v1", event.props["id"])
	require.Equal(t, "Shirt", event.props["title"])
	require.Equal(t, "10.00", event.props["price"])
	require.Nil(t, event.props["sku"])
	require.Equal(t, 2, event.props["quantity"])
}

func TestAddLineItem_FailureKeepsOptimisticVisibility(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createSnap = snap("cart-1")
	require.NoError(t, ctrl.Initialize(context.Background()))
	deps.client.addErr = errors.New("mutation failed")

	_, err := ctrl.AddLineItem(context.Background(), domcart.Variant{ID: "v1"}, 1)
	require.Error(t, err)

	// No rollback: the cart stays open and the snapshot is untouched.
	require.True(t, ctrl.Visible())
	require.Equal(t, "cart-1", ctrl.Snapshot().ID)
}

func TestAddLineItem_DefaultsQuantityToOne(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createSnap = snap("cart-1")
	require.NoError(t, ctrl.Initialize(context.Background()))
	deps.client.addSnap = snap("cart-1")

	_, err := ctrl.AddLineItem(context.Background(), domcart.Variant{ID: "v1"}, 0)
	require.NoError(t, err)
	require.Equal(t, 1, deps.client.adds[0].Quantity)
}

// --- Visibility ---

func TestClose_TwiceIsIdempotentAndRendersEachTime(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createSnap = snap("cart-1", domcart.LineItem{ID: "li1", Title: "Shirt", Quantity: 1})
	require.NoError(t, ctrl.Initialize(context.Background()))

	before := deps.renderer.callCount()
	ctrl.Close()
	ctrl.Close()

	require.False(t, ctrl.Visible())
	require.Equal(t, before+2, deps.renderer.callCount())
}

func TestToggleVisibility_Flips(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createSnap = snap("cart-1")
	require.NoError(t, ctrl.Initialize(context.Background()))

	ctrl.ToggleVisibility()
	require.True(t, ctrl.Visible())
	ctrl.ToggleVisibility()
	require.False(t, ctrl.Visible())
}

// --- Checkout ---

func TestCheckout_OpensSnapshotURL(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createSnap = snap("cart-1")
	require.NoError(t, ctrl.Initialize(context.Background()))

	url, err := ctrl.Checkout()
	require.NoError(t, err)
	require.Equal(t, "https://checkout.example.com/cart-1", url)
	require.Equal(t, []string{url}, deps.checkout.urls)
}

// --- Config / teardown ---

func TestUpdateConfig_MergesAndPropagatesToToggle(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createSnap = snap("cart-1")
	require.NoError(t, ctrl.Initialize(context.Background()))

	err := ctrl.UpdateConfig(Config{Text: Text{Title: "Basket"}})
	require.NoError(t, err)

	require.Len(t, deps.toggle.cfgs, 1)
	merged := deps.toggle.cfgs[0]
	require.Equal(t, "Basket", merged.Text.Title)
	// Untouched fields keep their previous values.
	require.Equal(t, "Checkout", merged.Text.Button)
	require.Equal(t, "lastCartId", merged.StorageKey)
}

func TestTeardown_AtMostOnce(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createSnap = snap("cart-1")
	require.NoError(t, ctrl.Initialize(context.Background()))

	require.NoError(t, ctrl.Teardown())
	require.NoError(t, ctrl.Teardown())
	require.Equal(t, 1, deps.toggle.teardowns)
}

func TestTeardown_SafeAfterFailedInitialization(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createErr = errors.New("service unavailable")
	require.Error(t, ctrl.Initialize(context.Background()))

	require.NoError(t, ctrl.Teardown())
}

// --- Dispatch ---

func TestDispatch_UnknownAction(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createSnap = snap("cart-1")
	require.NoError(t, ctrl.Initialize(context.Background()))

	err := ctrl.Dispatch(context.Background(), Action("drag"), "", 0)
	require.ErrorIs(t, err, ErrUnknownAction)
}

func TestDispatch_CloseAndCheckout(t *testing.T) {
	ctrl, deps := newTestController(t, dom.TransitionsDisabled)
	deps.client.createSnap = snap("cart-1")
	require.NoError(t, ctrl.Initialize(context.Background()))

	ctrl.Open()
	require.NoError(t, ctrl.Dispatch(context.Background(), ActionClose, "", 0))
	require.False(t, ctrl.Visible())

	require.NoError(t, ctrl.Dispatch(context.Background(), ActionCheckoutOpen, "", 0))
	require.Len(t, deps.checkout.urls, 1)
}
