package toggle

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	domcart "example.com/cart-widget/internal/domain/cart"
	"example.com/cart-widget/internal/dom"
	"example.com/cart-widget/internal/usecase/widget"
)

// Service is the companion toggle widget: a badge showing the total
// quantity across the cart's line items, kept in sync by the controller.
type Service struct {
	mu       sync.Mutex
	cfg      widget.Config
	doc      dom.Document
	node     dom.Node
	count    int
	torndown bool
	log      logrus.FieldLogger
}

func NewService(cfg widget.Config, doc dom.Document, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{cfg: cfg, doc: doc, log: log}
}

func (s *Service) Initialize(ctx context.Context, lineItems []domcart.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.node == nil {
		s.node = s.doc.CreateNode(s.cfg.Classes.Toggle.Toggle)
	}
	s.renderLocked(lineItems)
	return nil
}

func (s *Service) Render(lineItems []domcart.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderLocked(lineItems)
}

func (s *Service) UpdateConfig(cfg widget.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.refreshLocked()
}

func (s *Service) Teardown() error {
	s.mu.Lock()
	if s.torndown {
		s.mu.Unlock()
		return nil
	}
	s.torndown = true
	node := s.node
	s.node = nil
	s.mu.Unlock()

	if node != nil && node.Parent() != nil {
		node.Detach()
	}
	return nil
}

// Count returns the total quantity currently shown on the badge.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Service) renderLocked(lineItems []domcart.LineItem) {
	total := 0
	for _, item := range lineItems {
		total += item.Quantity
	}
	s.count = total
	s.refreshLocked()
}

func (s *Service) refreshLocked() {
	if s.node == nil {
		return
	}
	s.node.SetHTML(fmt.Sprintf(`<span class="%s">%d</span>`, s.cfg.Classes.Toggle.Count, s.count))
}
