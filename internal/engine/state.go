package engine

// State is the host's run state. The command interpreter mutates it; the
// loop reads it between ticks.
type State struct {
	Running     bool
	GameStarted bool
	DrawFPS     bool
	LastAlert   string

	menus []string
}

// MenuOpened reports whether any menu is on the stack. The simulation is
// paused while one is open.
func (s *State) MenuOpened() bool { return len(s.menus) > 0 }

func (s *State) OpenMenu(name string) {
	s.menus = append(s.menus, name)
}

// CloseMenu pops the top menu, or every menu when name is "all".
func (s *State) CloseMenu(name string) {
	if name == "all" {
		s.menus = s.menus[:0]
		return
	}
	if n := len(s.menus); n > 0 {
		s.menus = s.menus[:n-1]
	}
}

// Menus returns the open menus, bottom first.
func (s *State) Menus() []string {
	out := make([]string, len(s.menus))
	copy(out, s.menus)
	return out
}

// TopMenu returns the menu on top of the stack, or "".
func (s *State) TopMenu() string {
	if n := len(s.menus); n > 0 {
		return s.menus[n-1]
	}
	return ""
}
