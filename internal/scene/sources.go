package scene

import (
	"stage-designer/internal/logger"
	"stage-designer/internal/screen"
	"stage-designer/internal/source"
)

// SetDirectory sets the source directory used by AssignSource and the reconnect pass, then reconnects
// every screen that names an available source. A nil directory releases all bindings.
func (s *Scene) SetDirectory(dir source.Directory) {
	s.dir = dir
	if dir == nil {
		for _, sc := range s.screens {
			sc.Release()
		}
		return
	}
	s.ReconnectSources()
}

// AvailableSources returns the current source list, or nil without a directory.
func (s *Scene) AvailableSources() []source.Source {
	if s.dir == nil {
		return nil
	}
	return s.dir.Sources()
}

// AssignSource binds screen i to the source at sourceIndex. An index outside the directory disconnects
// the screen instead. Out-of-range screens are ignored.
func (s *Scene) AssignSource(i, sourceIndex int) {
	sc := s.Screen(i)
	if sc == nil {
		return
	}
	if s.dir == nil || sourceIndex < 0 {
		sc.Disconnect()
		return
	}
	b, err := s.dir.Open(sourceIndex)
	if err != nil {
		logger.L().Warn("assign source", "screen", sc.Name, "source", sourceIndex, "err", err)
		sc.Disconnect()
		return
	}
	sc.Connect(b)
	logger.L().Info("source assigned", "screen", sc.Name, "source", sc.SourceName)
}

// DisconnectSource unbinds screen i and forgets its source name.
func (s *Scene) DisconnectSource(i int) {
	if sc := s.Screen(i); sc != nil {
		sc.Disconnect()
	}
}

// ReconnectSources binds every unbound screen whose SourceName exactly matches an available source.
// Screens whose source is absent stay unbound and keep the name.
func (s *Scene) ReconnectSources() {
	for _, sc := range s.screens {
		s.reconnect(sc)
	}
}

func (s *Scene) reconnect(sc *screen.Screen) {
	if s.dir == nil || sc.SourceName == "" || sc.HasSource() {
		return
	}
	idx := source.IndexOf(s.dir.Sources(), sc.SourceName)
	if idx < 0 {
		return
	}
	b, err := s.dir.Open(idx)
	if err != nil {
		logger.L().Warn("reconnect source", "screen", sc.Name, "source", sc.SourceName, "err", err)
		return
	}
	sc.Connect(b)
}

// PollSources applies any pending directory change. Screens bound to a source that disappeared are
// disconnected, screens whose saved name reappeared are reconnected, and OnSourcesChanged fires.
// It must run on the thread that owns the scene.
func (s *Scene) PollSources() bool {
	if s.dir == nil {
		return false
	}
	list, changed := s.dir.Poll()
	if !changed {
		return false
	}
	for _, sc := range s.screens {
		if !sc.HasSource() {
			continue
		}
		idx := source.IndexOf(list, sc.SourceName)
		if idx < 0 {
			logger.L().Info("source gone", "screen", sc.Name, "source", sc.SourceName)
			sc.Disconnect()
			continue
		}
		if idx != sc.SourceIndex {
			// Indices shift when other sources come and go; rebind by name.
			sc.Release()
		}
	}
	s.ReconnectSources()
	if s.OnSourcesChanged != nil {
		s.OnSourcesChanged(list)
	}
	return true
}
