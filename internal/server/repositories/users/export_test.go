package users

import "github.com/google/uuid"

// passwordHashOf reads the stored hash straight from the memory store.
func (r *MemoryRepository) passwordHashOf(id uuid.UUID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records[id].PasswordHash
}
