//go:build !linux

package platform

// NewBackend reports ErrUnsupported; on Windows and macOS the webview
// framework's own screen and window APIs are used instead.
func NewBackend() (Backend, error) {
	return nil, ErrUnsupported
}
