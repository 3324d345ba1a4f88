package workouts

import "time"

func (s *Service) SetNowFunc(now func() time.Time) {
	s.now = now
}
