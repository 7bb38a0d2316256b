// Package notice реализует временные сообщения о результатах операций.
package notice

import (
	"sync"
	"time"
)

// DefaultTTL — окно показа сообщения до автоматического скрытия.
const DefaultTTL = 3 * time.Second

// Notice хранит последнее сообщение операции и скрывает его по истечении
// окна показа. Новое сообщение перезапускает таймер: отложенное скрытие
// никогда не стирает более свежий текст.
type Notice struct {
	mu      sync.Mutex
	ttl     time.Duration
	ok      bool
	message string
	present bool
	seq     uint64
	timer   *time.Timer
}

// New создаёт Notice с указанным окном показа.
func New(ttl time.Duration) *Notice {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notice{ttl: ttl}
}

// Set публикует сообщение и взводит таймер скрытия заново.
func (n *Notice) Set(ok bool, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}

	n.ok = ok
	n.message = message
	n.present = true
	n.seq++

	seq := n.seq
	n.timer = time.AfterFunc(n.ttl, func() {
		n.expire(seq)
	})
}

// expire скрывает сообщение, только если оно не было заменено более новым.
func (n *Notice) expire(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.seq != seq {
		return
	}
	n.present = false
	n.message = ""
	n.ok = false
}

// Current возвращает текущее сообщение, флаг успеха и признак наличия.
func (n *Notice) Current() (string, bool, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message, n.ok, n.present
}

// Clear немедленно скрывает сообщение.
func (n *Notice) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.seq++
	n.present = false
	n.message = ""
	n.ok = false
}
