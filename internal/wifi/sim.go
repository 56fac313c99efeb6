package wifi

import (
	"context"
	"sync"
)

// Sim is an in-process radio that plays back a script. The n-th Begin since
// creation settles on Outcomes[n], the last entry repeating; Status reports
// Idle for the first Delay polls after each Begin. An empty script always
// connects.
type Sim struct {
	Outcomes []Status
	Delay    int

	mu       sync.Mutex
	awake    bool
	attempt  int
	polls    int
	wakes    int
	begins   int
	sleeps   int
	resets   int
	lastSSID string
}

func NewSim(outcomes ...Status) *Sim {
	return &Sim{Outcomes: outcomes}
}

func (s *Sim) Wake(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awake = true
	s.wakes++
	s.attempt = 0
	return nil
}

func (s *Sim) Sleep(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awake = false
	s.sleeps++
	return nil
}

func (s *Sim) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
	return nil
}

func (s *Sim) Begin(_ context.Context, ssid, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempt++
	s.begins++
	s.polls = 0
	s.lastSSID = ssid
	return nil
}

func (s *Sim) Status(context.Context) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.awake {
		return Disconnected, nil
	}
	if s.attempt == 0 {
		return Idle, nil
	}
	s.polls++
	if s.polls <= s.Delay {
		return Idle, nil
	}
	if len(s.Outcomes) == 0 {
		return Connected, nil
	}
	i := min(s.begins-1, len(s.Outcomes)-1)
	return s.Outcomes[i], nil
}

// Counts reports how many times each radio operation ran.
func (s *Sim) Counts() (wakes, begins, sleeps, resets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wakes, s.begins, s.sleeps, s.resets
}

func (s *Sim) LastSSID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSSID
}

func (s *Sim) Awake() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awake
}
