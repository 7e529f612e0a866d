package appointment

import (
	"context"

	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// FallbackDoctors supplies a static directory when the store is down.
type FallbackDoctors func() ([]domain.Doctor, error)

type ListDoctors struct {
	store    domain.Store
	fallback FallbackDoctors
	log      *logrus.Logger
}

func NewListDoctors(
	store domain.Store,
	fallback FallbackDoctors,
	log *logrus.Logger,
) *ListDoctors {
	return &ListDoctors{
		store:    store,
		fallback: fallback,
		log:      log,
	}
}

// Execute returns the store's doctors. When the store fails and a fallback
// list exists, that list is returned with fromFallback set.
func (uc *ListDoctors) Execute(ctx context.Context) (doctors []domain.Doctor, fromFallback bool, err error) {
	doctors, err = uc.store.ListDoctors(ctx)
	if err == nil {
		return doctors, false, nil
	}

	if uc.fallback == nil {
		return nil, false, err
	}
	static, ferr := uc.fallback()
	if ferr != nil {
		return nil, false, err
	}

	uc.log.WithError(err).Warn("doctor directory unavailable, using configured list")
	return static, true, nil
}
