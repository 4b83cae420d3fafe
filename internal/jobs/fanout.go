package jobs

import "sync"

// fanout delivers job snapshots to per-job subscribers (the websocket
// progress endpoint). Progress sends never block: a subscriber that falls
// behind misses intermediate snapshots. The terminal snapshot is always
// delivered, and the channel closes after it.
type fanout struct {
	mu   sync.Mutex
	subs map[string][]chan *Job
}

func newFanout() *fanout {
	return &fanout{subs: make(map[string][]chan *Job)}
}

// subscribe registers interest in jobID. The cancel function is safe to call
// more than once.
func (f *fanout) subscribe(jobID string) (<-chan *Job, func()) {
	ch := make(chan *Job, 16)
	f.mu.Lock()
	f.subs[jobID] = append(f.subs[jobID], ch)
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			chans := f.subs[jobID]
			for i, existing := range chans {
				if existing == ch {
					f.subs[jobID] = append(chans[:i], chans[i+1:]...)
					break
				}
			}
			if len(f.subs[jobID]) == 0 {
				delete(f.subs, jobID)
			}
		})
	}
	return ch, cancel
}

// publish pushes a snapshot to every subscriber of the job. Terminal
// snapshots close the subscriptions.
func (f *fanout) publish(job *Job) {
	if job == nil {
		return
	}
	terminal := job.Status.Terminal()
	f.mu.Lock()
	chans := f.subs[job.ID]
	if terminal {
		delete(f.subs, job.ID)
	}
	f.mu.Unlock()

	for _, ch := range chans {
		deliver(ch, job.Clone(), terminal)
		if terminal {
			close(ch)
		}
	}
}

// deliver sends a snapshot without blocking. A terminal snapshot must land
// even when the subscriber's buffer is full, so the oldest buffered snapshot
// is evicted to make room. The per-job pipeline goroutine is the only sender,
// so the freed slot cannot be refilled before the terminal send.
func deliver(ch chan *Job, snapshot *Job, terminal bool) {
	select {
	case ch <- snapshot:
		return
	default:
	}
	if !terminal {
		return
	}
	select {
	case <-ch:
	default:
	}
	ch <- snapshot
}
