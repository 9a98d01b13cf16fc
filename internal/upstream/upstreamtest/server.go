// Package upstreamtest levanta un API REST falso en memoria para tests:
// guarda registros por ruta base, responde GET/POST/PUT/PATCH/DELETE y
// registra las llamadas recibidas.
package upstreamtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"pet-store-console/internal/platform/httpclient"
	"pet-store-console/internal/upstream"
)

type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

type failure struct {
	status int
	body   string
	// apply ejecuta la operación antes de devolver el error.
	apply bool
}

type table struct {
	idField string
	rows    []map[string]any
}

type Server struct {
	*httptest.Server

	mu     sync.Mutex
	tables map[string]*table
	calls  []Call
	fails  map[string][]failure
}

// New arranca el servidor y lo cierra al terminar el test.
func New(t testing.TB) *Server {
	s := &Server{
		tables: map[string]*table{},
		fails:  map[string][]failure{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Client devuelve un upstream.Client apuntando a este servidor.
func (s *Server) Client() *upstream.Client {
	hc, err := httpclient.NewWithBaseURL(s.URL, 5*time.Second)
	if err != nil {
		panic(err)
	}
	return upstream.New(hc)
}

// Table registra una colección con su campo id y filas iniciales.
func (s *Server) Table(path, idField string, rows ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &table{idField: idField}
	for _, r := range rows {
		t.rows = append(t.rows, normalize(r))
	}
	s.tables[path] = t
}

// Rows devuelve una copia de las filas actuales.
func (s *Server) Rows(path string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[path]
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, clone(r))
	}
	return out
}

// Row devuelve la fila con ese id.
func (s *Server) Row(path string, id int) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[path]
	if !ok {
		return nil, false
	}
	for _, r := range t.rows {
		if toInt(r[t.idField]) == id {
			return clone(r), true
		}
	}
	return nil, false
}

// Fail hace que la próxima llamada a method+path responda status sin tocar datos.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := method + " " + path
	s.fails[k] = append(s.fails[k], failure{status: status, body: body})
}

// FailAfterApply ejecuta la próxima llamada a method+path pero responde status.
func (s *Server) FailAfterApply(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := method + " " + path
	s.fails[k] = append(s.fails[k], failure{status: status, body: body, apply: true})
}

// Calls devuelve las llamadas con ese método cuyo path empieza con prefix.
// method vacío acepta cualquiera.
func (s *Server) Calls(method, prefix string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if method != "" && c.Method != method {
			continue
		}
		if !strings.HasPrefix(c.Path, prefix) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *Server) Count(method, prefix string) int { return len(s.Calls(method, prefix)) }

// Writes cuenta POST/PUT/PATCH/DELETE bajo prefix.
func (s *Server) Writes(prefix string) int {
	n := 0
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		n += s.Count(m, prefix)
	}
	return n
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if r.Body != nil {
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		_ = dec.Decode(&body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Body: body})

	var pending *failure
	k := r.Method + " " + r.URL.Path
	if q := s.fails[k]; len(q) > 0 {
		f := q[0]
		s.fails[k] = q[1:]
		if !f.apply {
			writeRaw(w, f.status, f.body)
			return
		}
		pending = &f
	}

	base, rest, t := s.route(r.URL.Path)
	if t == nil {
		writeRaw(w, http.StatusNotFound, `{"message":"ruta no encontrada"}`)
		return
	}

	status, out := s.handle(t, base, rest, r, body)
	if pending != nil {
		writeRaw(w, pending.status, pending.body)
		return
	}
	if out == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) route(p string) (string, string, *table) {
	keys := make([]string, 0, len(s.tables))
	for k := range s.tables {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	for _, k := range keys {
		if p == k || strings.HasPrefix(p, k+"/") {
			return k, strings.Trim(strings.TrimPrefix(p, k), "/"), s.tables[k]
		}
	}
	return "", "", nil
}

func (s *Server) handle(t *table, base, rest string, r *http.Request, body map[string]any) (int, any) {
	parts := strings.Split(rest, "/")
	if rest == "" {
		switch r.Method {
		case http.MethodGet:
			out := []map[string]any{}
			for _, row := range t.rows {
				if matches(row, r.URL.Query()) {
					out = append(out, row)
				}
			}
			return http.StatusOK, out
		case http.MethodPost:
			row := normalize(body)
			next := 1
			for _, existing := range t.rows {
				if id := toInt(existing[t.idField]); id >= next {
					next = id + 1
				}
			}
			row[t.idField] = next
			t.rows = append(t.rows, row)
			return http.StatusCreated, row
		}
		return http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"}
	}

	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return http.StatusBadRequest, map[string]any{"message": "id inválido"}
	}
	idx := -1
	for i, row := range t.rows {
		if toInt(row[t.idField]) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return http.StatusNotFound, map[string]any{"message": fmt.Sprintf("%s %d no encontrado", base, id)}
	}

	if len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPatch {
		t.rows[idx]["Estado"] = body["Estado"]
		return http.StatusOK, t.rows[idx]
	}

	switch r.Method {
	case http.MethodGet:
		return http.StatusOK, t.rows[idx]
	case http.MethodPut:
		for k, v := range normalize(body) {
			t.rows[idx][k] = v
		}
		t.rows[idx][t.idField] = id
		return http.StatusOK, t.rows[idx]
	case http.MethodDelete:
		t.rows = append(t.rows[:idx], t.rows[idx+1:]...)
		return http.StatusOK, map[string]any{"message": "eliminado"}
	}
	return http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"}
}

func matches(row map[string]any, q url.Values) bool {
	for k, vals := range q {
		if len(vals) == 0 {
			continue
		}
		if fmt.Sprint(row[k]) != vals[0] {
			return false
		}
	}
	return true
}

// normalize pasa los valores por JSON para que las filas sembradas y las
// recibidas tengan los mismos tipos.
func normalize(in map[string]any) map[string]any {
	out := map[string]any{}
	if in == nil {
		return out
	}
	b, _ := json.Marshal(in)
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	_ = dec.Decode(&out)
	return out
}

func clone(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func toInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case float64:
		return int(x)
	case json.Number:
		n, _ := x.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(x)
		return n
	}
	return 0
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
