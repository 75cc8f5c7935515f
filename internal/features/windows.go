package features

import "fmt"

// SlidingWindows cuts the table into windows of size rows that overlap by
// half: window k starts at row floor(k*size/2). floor(2*Len()/size) windows
// are cut, then the last one is discarded unless it is full, so every window
// returned has exactly size rows. Windows are copies that keep the source
// row labels.
func SlidingWindows(t *Table, size int) ([]*Table, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindowSize, size)
	}
	half := float64(size) / 2
	count := int(float64(t.Len()) / float64(size) * 2)

	windows := make([]*Table, 0, count)
	for i := 0; i < count; i++ {
		from := int(float64(i) * half)
		to := min(int(float64(i)*half+float64(size)), t.Len())
		from = min(from, to)
		windows = append(windows, t.slice(from, to))
	}
	if n := len(windows); n > 0 && windows[n-1].Len() != size {
		windows = windows[:n-1]
	}
	return windows, nil
}
