package widget

import (
	"context"

	"github.com/sirupsen/logrus"

	domcart "example.com/cart-widget/internal/domain/cart"
)

// IdentityStore resolves the cart the current session owns: a stored
// identifier is fetched, an absent one is created and persisted.
type IdentityStore struct {
	storage IdentifierStorage
	client  RemoteClient
	key     string
	log     logrus.FieldLogger
}

func NewIdentityStore(storage IdentifierStorage, client RemoteClient, key string, log logrus.FieldLogger) *IdentityStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &IdentityStore{
		storage: storage,
		client:  client,
		key:     key,
		log:     log,
	}
}

// ResolveOrCreate returns the session's cart snapshot. Each call with no
// stored identifier creates a new remote cart, so the controller calls
// this exactly once, at initialization. A persist failure is non-fatal:
// the fresh cart is still used, it just will not survive a restart.
func (s *IdentityStore) ResolveOrCreate(ctx context.Context) (*domcart.Snapshot, error) {
	id, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		s.log.WithError(err).Warn("cart identifier storage unavailable, starting a fresh cart")
		id = ""
	}
	if id != "" {
		return s.client.FetchCart(ctx, id)
	}

	snapshot, err := s.client.CreateCart(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.storage.SetItem(ctx, s.key, snapshot.ID); err != nil {
		s.log.WithError(err).Warn("cart identifier not persisted, cart will not survive a reload")
	}
	return snapshot, nil
}
