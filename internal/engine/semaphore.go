package engine

// semaphore bounds concurrency with a buffered channel. The scheduler nests
// two of these: every item holds a global slot and its model's slot before
// calling out, so a single model cannot monopolize the global budget and the
// per-model cap cannot be bypassed when global headroom exists.
type semaphore chan struct{}

func newSemaphore(n int) semaphore {
	if n < 1 {
		n = 1
	}
	return make(semaphore, n)
}

func (s semaphore) acquire() { s <- struct{}{} }
func (s semaphore) release() { <-s }
