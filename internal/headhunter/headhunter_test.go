package headhunter

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type fakeAPI struct {
	mu      sync.Mutex
	queries []map[string][]string
	pages   [][]map[string]any
	gzip    bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.queries = append(f.queries, r.URL.Query())
	f.mu.Unlock()

	switch r.URL.Path {
	case SearchPath:
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page >= len(f.pages) {
			http.Error(w, "no such page", http.StatusBadRequest)
			return
		}
		f.write(w, map[string]any{
			"items":    f.pages[page],
			"found":    len(f.pages) * len(f.pages[0]),
			"pages":    len(f.pages),
			"page":     page,
			"per_page": len(f.pages[0]),
		})
	case areasSuggestPath:
		if r.URL.Query().Get("text") == "Atlantis" {
			f.write(w, map[string]any{"items": []any{}})
			return
		}
		f.write(w, map[string]any{"items": []map[string]any{{"id": "2", "text": "Saint Petersburg"}}})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAPI) write(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if !f.gzip {
		_ = json.NewEncoder(w).Encode(body)
		return
	}
	w.Header().Set("Content-Encoding", "gzip")
	gz := gzip.NewWriter(w)
	defer gz.Close()
	_ = json.NewEncoder(gz).Encode(body)
}

func vacancyItems(page, count int) []map[string]any {
	items := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		id := page*count + i + 1
		items = append(items, map[string]any{
			"id":            strconv.Itoa(id),
			"name":          fmt.Sprintf("Vacancy %d", id),
			"alternate_url": fmt.Sprintf("https://hh.ru/vacancy/%d", id),
			"area":          map[string]any{"id": "1", "name": "Moscow"},
			"employer":      map[string]any{"id": "emp", "name": "Acme"},
			"salary":        nil,
			"snippet":       map[string]any{"requirement": "Python and SQL"},
			"key_skills":    []map[string]any{{"name": "Docker"}},
			"has_test":      id%2 == 0,
		})
	}
	return items
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()

	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	client := New(zap.NewNop(), "")
	client.APIURL = server.URL
	client.HTTPClient = server.Client()
	return client
}

func TestSearchPaginatesAndDecodes(t *testing.T) {
	api := &fakeAPI{pages: [][]map[string]any{vacancyItems(0, 2), vacancyItems(1, 2), vacancyItems(2, 2)}}
	client := newTestClient(t, api)

	vacancies, err := client.Search(context.Background(), &SearchParams{Text: KeywordQuery([]string{"python", "sql"})}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if vacancies.Len() != 6 {
		t.Fatalf("expected 6 vacancies, got %d", vacancies.Len())
	}
	if len(api.queries) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(api.queries))
	}
	if got := api.queries[0]["text"]; !reflect.DeepEqual(got, []string{"python OR sql"}) {
		t.Fatalf("unexpected text query: %v", got)
	}
	if got := api.queries[0]["per_page"]; !reflect.DeepEqual(got, []string{"100"}) {
		t.Fatalf("unexpected per_page: %v", got)
	}

	first := vacancies.Items[0]
	if first.ID != "1" || first.Employer.Name != "Acme" || first.Area.Name != "Moscow" {
		t.Fatalf("unexpected decoded vacancy: %+v", first)
	}
	if len(first.KeySkills) != 1 || first.KeySkills[0].Name != "Docker" {
		t.Fatalf("unexpected key skills: %+v", first.KeySkills)
	}
	if !vacancies.Items[1].HasTest {
		t.Fatalf("expected second vacancy to require a test")
	}
}

func TestSearchStopsAtLimit(t *testing.T) {
	api := &fakeAPI{gzip: true, pages: [][]map[string]any{vacancyItems(0, 3), vacancyItems(1, 3), vacancyItems(2, 3)}}
	client := newTestClient(t, api)

	vacancies, err := client.Search(context.Background(), &SearchParams{Text: "go"}, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if vacancies.Len() != 4 {
		t.Fatalf("expected 4 vacancies, got %d", vacancies.Len())
	}
	if len(api.queries) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(api.queries))
	}
	if got := api.queries[0]["per_page"]; !reflect.DeepEqual(got, []string{"4"}) {
		t.Fatalf("expected per_page to follow the limit, got %v", got)
	}
}

func TestSearchBadStatus(t *testing.T) {
	client := newTestClient(t, &fakeAPI{})

	if _, err := client.Search(context.Background(), &SearchParams{Text: "go"}, 10); err == nil {
		t.Fatalf("expected error for bad status")
	}
}

func TestSearchSendsHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"items":[],"pages":1,"page":0,"per_page":100}`))
	}))
	defer server.Close()

	client := New(nil, "secret")
	client.APIURL = server.URL

	if _, err := client.Search(context.Background(), nil, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Get("Authorization") != "Bearer secret" {
		t.Fatalf("unexpected authorization header: %q", got.Get("Authorization"))
	}
	if got.Get("User-Agent") != userAgent {
		t.Fatalf("unexpected user agent: %q", got.Get("User-Agent"))
	}
}

func TestAreaID(t *testing.T) {
	client := newTestClient(t, &fakeAPI{})

	id, err := client.AreaID(context.Background(), "Saint Petersburg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 2 {
		t.Fatalf("expected area 2, got %d", id)
	}

	id, err = client.AreaID(context.Background(), "Atlantis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 0 {
		t.Fatalf("expected no area, got %d", id)
	}
}

func TestBuildParams(t *testing.T) {
	q := buildParams(&SearchParams{
		Text:      "go OR docker",
		Areas:     []int{1, 2},
		Schedules: []string{RemoteSchedule},
		PerPage:   50,
	})

	expected := map[string][]string{
		"text":     {"go OR docker"},
		"area":     {"1", "2"},
		"schedule": {"remote"},
		"per_page": {"50"},
	}
	if !reflect.DeepEqual(map[string][]string(q), expected) {
		t.Fatalf("expected %v, got %v", expected, q)
	}
}

func TestKeywordQuery(t *testing.T) {
	tests := []struct {
		keywords []string
		want     string
	}{
		{[]string{"python", "developer"}, "python OR developer"},
		{[]string{" go ", "", "c++"}, "go OR c++"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := KeywordQuery(tt.keywords); got != tt.want {
			t.Fatalf("KeywordQuery(%v): expected %q, got %q", tt.keywords, tt.want, got)
		}
	}
}
