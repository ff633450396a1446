// Package memory guarda el estado de los flujos multi-paso de cada usuario.
// El estado vive solo en este proceso: un restart devuelve a todos a la
// lista, que es el comportamiento esperado (la credencial es lo único que
// persiste del lado del cliente).
package memory

import "sync"

// FlowStore es un mapa por usuario con última-escritura-gana. Cada rol
// instancia el suyo con su tipo de estado.
type FlowStore[T any] struct {
	mu     sync.RWMutex
	byUser map[string]T
}

func NewFlowStore[T any]() *FlowStore[T] {
	return &FlowStore[T]{byUser: make(map[string]T)}
}

func (s *FlowStore[T]) Get(userID string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byUser[userID]
	return v, ok
}

func (s *FlowStore[T]) Put(userID string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUser[userID] = v
}

func (s *FlowStore[T]) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byUser, userID)
}
