package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"meetify/domain"
)

// fakeBackend is an in-memory stand-in for the hosted document
// database and object storage, implementing just the wire surface the
// client uses.
type fakeBackend struct {
	mu       sync.Mutex
	seq      int
	colls    map[string]map[string]map[string]any
	failNext map[string]int // HTTP method → remaining requests to 503
	objects  map[string][]byte
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		colls:    make(map[string]map[string]map[string]any),
		failNext: make(map[string]int),
		objects:  make(map[string][]byte),
	}
}

func (f *fakeBackend) server() *httptest.Server {
	return httptest.NewServer(f)
}

// failRequests makes the next n requests with the given method fail
// with 503.
func (f *fakeBackend) failRequests(method string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext[method] = n
}

// seed inserts a document directly, bypassing the HTTP surface.
func (f *fakeBackend) seed(coll string, doc map[string]any) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(coll, doc)
}

func (f *fakeBackend) insert(coll string, doc map[string]any) string {
	f.seq++
	id := fmt.Sprintf("doc-%04d", f.seq)
	doc["id"] = id
	if _, ok := doc["createdAt"]; !ok {
		// Strictly increasing timestamps keep createdAt ordering
		// deterministic.
		doc["createdAt"] = time.Unix(1700000000, int64(f.seq)*1e6).UTC().Format(time.RFC3339Nano)
	}
	if f.colls[coll] == nil {
		f.colls[coll] = make(map[string]map[string]any)
	}
	f.colls[coll][id] = doc
	return id
}

func (f *fakeBackend) get(coll, id string) (map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.colls[coll][id]
	return doc, ok
}

func (f *fakeBackend) count(coll string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.colls[coll])
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failNext[r.Method] > 0 {
		f.failNext[r.Method]--
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	if strings.HasPrefix(r.URL.Path, "/v1/storage/objects") {
		data, _ := io.ReadAll(r.Body)
		name := r.URL.Query().Get("name")
		f.objects[name] = data
		writeJSON(w, map[string]string{"url": "https://storage.example/" + name})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/collections/")
	parts := strings.SplitN(rest, "/", 3)
	coll := parts[0]

	switch {
	case len(parts) == 2 && parts[1] == "documents" && r.Method == http.MethodPost:
		var doc map[string]any
		json.NewDecoder(r.Body).Decode(&doc)
		id := f.insert(coll, doc)
		writeJSON(w, f.colls[coll][id])

	case len(parts) == 2 && parts[1] == "documents" && r.Method == http.MethodGet:
		writeJSON(w, map[string]any{"documents": f.query(coll, r.URL.Query())})

	case len(parts) == 2 && parts[1] == "documents:batchDelete" && r.Method == http.MethodPost:
		var body struct {
			IDs []string `json:"ids"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		for _, id := range body.IDs {
			delete(f.colls[coll], id)
		}
		writeJSON(w, map[string]any{})

	case len(parts) == 3 && parts[1] == "documents":
		id := parts[2]
		doc, ok := f.colls[coll][id]
		if !ok {
			http.Error(w, "no such document", http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, doc)
		case http.MethodPatch:
			var p struct {
				Set         map[string]any      `json:"set"`
				Increment   map[string]int      `json:"increment"`
				ArrayUnion  map[string][]string `json:"arrayUnion"`
				ArrayRemove map[string][]string `json:"arrayRemove"`
			}
			json.NewDecoder(r.Body).Decode(&p)
			for field, v := range p.Set {
				doc[field] = v
			}
			for field, delta := range p.Increment {
				current, _ := doc[field].(float64)
				doc[field] = current + float64(delta)
			}
			for field, values := range p.ArrayUnion {
				doc[field] = arrayUnion(doc[field], values)
			}
			for field, values := range p.ArrayRemove {
				doc[field] = arrayRemove(doc[field], values)
			}
			writeJSON(w, doc)
		case http.MethodDelete:
			delete(f.colls[coll], id)
			writeJSON(w, map[string]any{})
		}

	default:
		http.Error(w, "bad request", http.StatusBadRequest)
	}
}

func (f *fakeBackend) query(coll string, params map[string][]string) []map[string]any {
	reserved := map[string]bool{"orderBy": true, "dir": true, "limit": true, "startAfter": true}

	var docs []map[string]any
	for _, doc := range f.colls[coll] {
		match := true
		for field, values := range params {
			if reserved[field] {
				continue
			}
			got, ok := doc[field]
			if !ok || fmt.Sprint(got) != values[0] {
				match = false
				break
			}
		}
		if match {
			docs = append(docs, doc)
		}
	}

	if orderBy := first(params, "orderBy"); orderBy != "" {
		desc := first(params, "dir") == "desc"
		sort.Slice(docs, func(i, j int) bool {
			a, b := fmt.Sprint(docs[i][orderBy]), fmt.Sprint(docs[j][orderBy])
			if a == b {
				// id tiebreak keeps pagination stable
				a, b = fmt.Sprint(docs[i]["id"]), fmt.Sprint(docs[j]["id"])
			}
			if desc {
				return a > b
			}
			return a < b
		})
	}

	if after := first(params, "startAfter"); after != "" {
		for i, doc := range docs {
			if fmt.Sprint(doc["id"]) == after {
				docs = docs[i+1:]
				break
			}
		}
	}

	if limitStr := first(params, "limit"); limitStr != "" {
		limit, _ := strconv.Atoi(limitStr)
		if limit > 0 && len(docs) > limit {
			docs = docs[:limit]
		}
	}
	return docs
}

func first(params map[string][]string, key string) string {
	if v, ok := params[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}

func arrayUnion(current any, add []string) []string {
	out := toStrings(current)
	for _, v := range add {
		found := false
		for _, existing := range out {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			out = append(out, v)
		}
	}
	return out
}

func arrayRemove(current any, remove []string) []string {
	out := make([]string, 0)
	for _, existing := range toStrings(current) {
		keep := true
		for _, v := range remove {
			if existing == v {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, existing)
		}
	}
	return out
}

func toStrings(v any) []string {
	switch vv := v.(type) {
	case []string:
		return append([]string{}, vv...)
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// --- shared test helpers ---

type captureNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (c *captureNotifier) Notify(n domain.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
}

func (c *captureNotifier) all() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Notification{}, c.sent...)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func rootDoc(circleID, userID, text string) map[string]any {
	return map[string]any{
		"userId":     userID,
		"text":       text,
		"circleId":   circleID,
		"likes":      []string{},
		"replyCount": float64(0),
	}
}

func replyDoc(circleID, parentID, userID, text string) map[string]any {
	doc := rootDoc(circleID, userID, text)
	doc["parentId"] = parentID
	return doc
}
