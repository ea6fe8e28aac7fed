package scene

import (
	"encoding/json"

	"stage-designer/internal/logger"
	"stage-designer/internal/screen"
	"stage-designer/internal/undo"
)

// Snapshot captures every screen as JSON plus the selection. Live source bindings are not captured;
// Restore re-derives them from the saved source names.
func (s *Scene) Snapshot() undo.Snapshot {
	snap := undo.Snapshot{
		Screens:  make([]json.RawMessage, 0, len(s.screens)),
		Selected: s.Selected(),
		Primary:  s.primary,
	}
	for _, sc := range s.screens {
		raw, err := json.Marshal(sc)
		if err != nil {
			logger.L().Error("snapshot screen", "screen", sc.Name, "err", err)
			continue
		}
		snap.Screens = append(snap.Screens, raw)
	}
	return snap
}

// Restore replaces the scene with snap. Screens that fail to decode are skipped.
// The name counter never moves backwards, so names handed out after the snapshot stay unique.
func (s *Scene) Restore(snap undo.Snapshot) {
	screens := make([]*screen.Screen, 0, len(snap.Screens))
	for _, raw := range snap.Screens {
		sc, err := screen.Decode(raw)
		if err != nil {
			logger.L().Error("restore screen", "err", err)
			continue
		}
		screens = append(screens, sc)
	}
	next := s.nextID
	s.replace(screens)
	s.nextID = max(next, s.nextID)
	s.SetSelection(snap.Selected, snap.Primary)
	s.ReconnectSources()
}
