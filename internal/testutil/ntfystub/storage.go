package ntfystub

import (
	"sync"
)

type Storage struct {
	mu       sync.RWMutex
	messages map[string][]Message // topic -> messages
	failures []int
}

func NewStorage() *Storage {
	return &Storage{
		messages: make(map[string][]Message),
	}
}

func (s *Storage) Reset(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, topic)
}

func (s *Storage) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make(map[string][]Message)
	s.failures = nil
}

func (s *Storage) Add(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.Topic] = append(s.messages[msg.Topic], msg)
}

// Messages returns a copy of what was published to topic, oldest first.
func (s *Storage) Messages(topic string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.messages[topic]
	out := make([]Message, len(stored))
	copy(out, stored)
	return out
}

func (s *Storage) FailNext(count, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for range count {
		s.failures = append(s.failures, status)
	}
}

// nextFailure pops a queued failure status, or 0 when the publish should succeed.
func (s *Storage) nextFailure() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.failures) == 0 {
		return 0
	}
	status := s.failures[0]
	s.failures = s.failures[1:]
	return status
}
