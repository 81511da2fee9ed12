package uiactions

import (
	"maps"
	"slices"
)

// Fork returns a new Service holding a copy of the current registries.
// Attachment lists are copied per trigger, so attaching or detaching on
// either service is never visible to the other. Action handles are shared
// because they are immutable.
func (s *Service) Fork() *Service {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attachments := make(map[string][]string, len(s.attachments))
	for id, ids := range s.attachments {
		attachments[id] = slices.Clone(ids)
	}

	return &Service{
		actions:     maps.Clone(s.actions),
		triggers:    maps.Clone(s.triggers),
		attachments: attachments,
		logger:      s.logger,
		metrics:     s.metrics,
		maxChecks:   s.maxChecks,
	}
}
