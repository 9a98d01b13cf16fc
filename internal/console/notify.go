package console

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyWarning NotificationKind = "warning"
	NotifyInfo    NotificationKind = "info"
)

// Notification es un toast pendiente de mostrar.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"createdAt"`
}

const defaultNotificationTTL = 5 * time.Minute

// Notifier encola toasts por sesión. Drain no entrega nada mientras el
// overlay de la sesión siga visible: los toasts salen cuando se oculta.
type Notifier struct {
	mu      sync.Mutex
	queues  map[string][]Notification
	overlay *Overlay
	ttl     time.Duration
	now     func() time.Time
	swept   time.Time
}

func NewNotifier(overlay *Overlay, ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = defaultNotificationTTL
	}
	return &Notifier{
		queues:  make(map[string][]Notification),
		overlay: overlay,
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (n *Notifier) WithClock(now func() time.Time) *Notifier {
	n.now = now
	return n
}

func (n *Notifier) Push(session string, kind NotificationKind, msg string) Notification {
	item := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   msg,
		CreatedAt: n.now(),
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	cutoff := item.CreatedAt.Add(-n.ttl)
	if item.CreatedAt.Sub(n.swept) >= n.ttl {
		n.sweepLocked(cutoff)
		n.swept = item.CreatedAt
	}
	n.queues[session] = append(fresh(n.queues[session], cutoff), item)
	return item
}

// sweepLocked descarta las colas de sesiones que ya no consultan.
func (n *Notifier) sweepLocked(cutoff time.Time) {
	for s, q := range n.queues {
		if q = fresh(q, cutoff); len(q) == 0 {
			delete(n.queues, s)
		} else {
			n.queues[s] = q
		}
	}
}

func fresh(items []Notification, cutoff time.Time) []Notification {
	out := items[:0]
	for _, it := range items {
		if !it.CreatedAt.Before(cutoff) {
			out = append(out, it)
		}
	}
	return out
}

func (n *Notifier) Success(session, msg string) { n.Push(session, NotifySuccess, msg) }
func (n *Notifier) Error(session, msg string)   { n.Push(session, NotifyError, msg) }
func (n *Notifier) Warning(session, msg string) { n.Push(session, NotifyWarning, msg) }
func (n *Notifier) Info(session, msg string)    { n.Push(session, NotifyInfo, msg) }

// Drain devuelve y quita los toasts de la sesión, en orden de llegada.
// Mientras el overlay está visible devuelve nil y los deja en cola.
func (n *Notifier) Drain(session string) []Notification {
	if n.overlay != nil && n.overlay.Visible(session) {
		return nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	items := n.queues[session]
	delete(n.queues, session)
	return append(make([]Notification, 0, len(items)), fresh(items, n.now().Add(-n.ttl))...)
}

// Pending cuenta los toasts en cola (incluye los retenidos por el overlay).
func (n *Notifier) Pending(session string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.queues[session])
}
