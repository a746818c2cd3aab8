package lab

// Stopwatch accumulates simulated time while running.
type Stopwatch struct {
	elapsed float64
	running bool
}

func (s *Stopwatch) Start()           { s.running = true }
func (s *Stopwatch) Stop()            { s.running = false }
func (s *Stopwatch) Toggle()          { s.running = !s.running }
func (s *Stopwatch) IsRunning() bool  { return s.running }
func (s *Stopwatch) Elapsed() float64 { return s.elapsed }

func (s *Stopwatch) Reset() {
	s.elapsed = 0
	s.running = false
}

func (s *Stopwatch) Step(dt float64) {
	if s.running {
		s.elapsed += dt
	}
}
