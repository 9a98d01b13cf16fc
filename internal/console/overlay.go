package console

import (
	"sync"
	"time"
)

// DefaultMinDisplay evita el parpadeo del overlay en operaciones rápidas.
const DefaultMinDisplay = 1000 * time.Millisecond

type overlayState struct {
	active  int
	shownAt time.Time
}

// Overlay registra, por sesión, si hay una operación en curso. Se considera
// visible mientras haya operaciones activas y hasta que pase MinDisplay desde
// que se mostró.
type Overlay struct {
	mu     sync.Mutex
	min    time.Duration
	now    func() time.Time
	states map[string]*overlayState
	swept  time.Time
}

func NewOverlay(minDisplay time.Duration) *Overlay {
	if minDisplay <= 0 {
		minDisplay = DefaultMinDisplay
	}
	return &Overlay{
		min:    minDisplay,
		now:    time.Now,
		states: make(map[string]*overlayState),
	}
}

// WithClock reemplaza el reloj (tests).
func (o *Overlay) WithClock(now func() time.Time) *Overlay {
	o.now = now
	return o
}

// Show marca el inicio de una operación; hide puede llamarse más de una vez.
func (o *Overlay) Show(session string) (hide func()) {
	o.mu.Lock()
	if now := o.now(); now.Sub(o.swept) >= o.min {
		o.sweepLocked(session)
		o.swept = now
	}
	st, ok := o.states[session]
	if !ok {
		st = &overlayState{}
		o.states[session] = st
	}
	if st.active == 0 && !o.visibleLocked(st) {
		st.shownAt = o.now()
	}
	st.active++
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if st.active > 0 {
				st.active--
			}
		})
	}
}

// Visible indica si el overlay sigue en pantalla para la sesión.
func (o *Overlay) Visible(session string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	st, ok := o.states[session]
	if !ok {
		return false
	}
	if o.visibleLocked(st) {
		return true
	}
	delete(o.states, session)
	return false
}

// Remaining devuelve cuánto falta para que se oculte (0 si ya no se ve o
// si depende de una operación en curso).
func (o *Overlay) Remaining(session string) time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()

	st, ok := o.states[session]
	if !ok || st.active > 0 {
		return 0
	}
	left := st.shownAt.Add(o.min).Sub(o.now())
	if left < 0 {
		return 0
	}
	return left
}

// sweepLocked quita las sesiones cuyo overlay ya se ocultó.
func (o *Overlay) sweepLocked(except string) {
	for s, st := range o.states {
		if s != except && !o.visibleLocked(st) {
			delete(o.states, s)
		}
	}
}

func (o *Overlay) visibleLocked(st *overlayState) bool {
	if st.active > 0 {
		return true
	}
	if st.shownAt.IsZero() {
		return false
	}
	return o.now().Before(st.shownAt.Add(o.min))
}
