package service

// CachedSessions exposes the session cache size to the black-box tests.
func (s *WeddingService) CachedSessions() int { return s.cached() }
