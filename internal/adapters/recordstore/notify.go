package recordstore

import (
	"sync"
	"time"

	"github.com/Nagaurav/MockInterview1/pkg/metrics"
)

// notifier fans change events out to per-user watchers. Every watcher
// channel is buffered with capacity one and publishes never block: a
// change arriving while one is already pending coalesces into it, which
// is exactly what refetch-everything subscribers need.
type notifier struct {
	mu       sync.Mutex
	watchers map[string]map[int]chan Change
	nextID   int
	closed   bool
}

func newNotifier() *notifier {
	return &notifier{watchers: make(map[string]map[int]chan Change)}
}

func (n *notifier) watch(userID string) (<-chan Change, CancelFunc, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, nil, ErrClosed
	}

	ch := make(chan Change, 1)
	id := n.nextID
	n.nextID++
	if n.watchers[userID] == nil {
		n.watchers[userID] = make(map[int]chan Change)
	}
	n.watchers[userID][id] = ch
	metrics.UpdateWatcherCount(n.countLocked())

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if chans, ok := n.watchers[userID]; ok {
				if _, live := chans[id]; live {
					delete(chans, id)
					close(ch)
					if len(chans) == 0 {
						delete(n.watchers, userID)
					}
				}
			}
			metrics.UpdateWatcherCount(n.countLocked())
		})
	}
	return ch, cancel, nil
}

func (n *notifier) publish(userID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	change := Change{UserID: userID, At: time.Now()}
	for _, ch := range n.watchers[userID] {
		select {
		case ch <- change:
			metrics.RecordChangePublished()
		default:
			// A change is already pending; the refetch it triggers
			// will observe this write too.
			metrics.RecordChangeCoalesced()
		}
	}
}

func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for _, chans := range n.watchers {
		for _, ch := range chans {
			close(ch)
		}
	}
	n.watchers = make(map[string]map[int]chan Change)
	metrics.UpdateWatcherCount(0)
}

func (n *notifier) countLocked() int {
	total := 0
	for _, chans := range n.watchers {
		total += len(chans)
	}
	return total
}
