package checkout

import (
	"github.com/sirupsen/logrus"

	"example.com/cart-widget/internal/usecase/widget"
)

// Service performs the hand-off to the external checkout page. The open
// callback is environment-specific (browser navigation, HTTP redirect);
// when absent the hand-off is log-only.
type Service struct {
	open func(url string) error
	log  logrus.FieldLogger
}

var _ widget.CheckoutOpener = (*Service)(nil)

func NewService(open func(url string) error, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{open: open, log: log}
}

func (s *Service) Open(url string) error {
	s.log.WithField("checkout_url", url).Info("opening checkout")
	if s.open == nil {
		return nil
	}
	return s.open(url)
}
