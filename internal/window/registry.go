package window

import "sync"

// Registry resolves the window a command should act on.
type Registry interface {
	Window() (Handle, error)
}

// Single is a Registry holding at most one window. The host framework
// attaches the handle once the window exists and detaches it on shutdown.
type Single struct {
	mu     sync.RWMutex
	handle Handle
}

var _ Registry = (*Single)(nil)

// Attach registers h as the application window, replacing any previous one.
func (s *Single) Attach(h Handle) {
	s.mu.Lock()
	s.handle = h
	s.mu.Unlock()
}

// Detach forgets the current window.
func (s *Single) Detach() {
	s.mu.Lock()
	s.handle = nil
	s.mu.Unlock()
}

// Window returns the attached window or ErrNoWindow.
func (s *Single) Window() (Handle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.handle == nil {
		return nil, ErrNoWindow
	}
	return s.handle, nil
}
