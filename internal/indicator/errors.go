package indicator

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is matched by every InsufficientDataError
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrMisaligned       = errors.New("misaligned input series")
)

// InsufficientDataError reports an input shorter than an indicator's warm-up
type InsufficientDataError struct {
	Indicator string
	Need      int
	Got       int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need %d bars, got %d", e.Indicator, e.Need, e.Got)
}

// Is makes errors.Is(err, ErrInsufficientData) hold.
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

func insufficient(name string, need, got int) error {
	return &InsufficientDataError{Indicator: name, Need: need, Got: got}
}

func checkPeriod(name string, periods ...int) error {
	for _, p := range periods {
		if p < 1 {
			return fmt.Errorf("%s: %w: %d", name, ErrInvalidPeriod, p)
		}
	}
	return nil
}
