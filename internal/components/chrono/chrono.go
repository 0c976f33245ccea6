package chrono

import "time"

// API is the interface that anything depending on the system clock should use.
type API interface {
	Now() time.Time
	Location() *time.Location
}

// StandardImpl reads the system clock in a fixed location, the school's local time.
type StandardImpl struct {
	location *time.Location
}

func NewStandardImpl(timezone string) (StandardImpl, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: location}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardImpl) Location() *time.Location {
	return s.location
}

// FixedImpl always returns the same time.
type FixedImpl struct {
	now time.Time
}

func NewFixedImpl(now time.Time) FixedImpl {
	return FixedImpl{now: now}
}

func (f FixedImpl) Now() time.Time {
	return f.now
}

func (f FixedImpl) Location() *time.Location {
	return f.now.Location()
}
