package materializer_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"

	"github.com/raysh454/logpuzzle/internal/fetcher"
	"github.com/raysh454/logpuzzle/internal/materializer"
	"github.com/raysh454/logpuzzle/internal/testutil"
	"github.com/raysh454/logpuzzle/internal/webclient"
)

// imageServer serves "<name> bytes" for any /~a/{name} and 404s elsewhere.
func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/~a/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte(chi.URLParam(r, "name") + " bytes"))
	})
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func httpMaterializer(t *testing.T, ts *httptest.Server, opts materializer.Options) *materializer.Materializer {
	t.Helper()
	wc, err := webclient.NewNetHTTPClient(webclient.Config{}, nil, ts.Client())
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	t.Cleanup(func() { wc.Close() })
	return materializer.New(fetcher.New(wc, nil), opts, &testutil.DummyLogger{})
}

func readIndex(t *testing.T, dir string) (string, *goquery.Document) {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dir, materializer.IndexFile))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("parse index: %v", err)
	}
	return string(raw), doc
}

// ─── naming ────────────────────────────────────────────────────────────

func TestImageName_Slice(t *testing.T) {
	t.Parallel()
	tests := []struct {
		i    int
		url  string
		want string
	}{
		{0, "https://h.com/~a/puzzle-bbbb-ccc.jpg", "img0.jpg"},
		{12, "https://h.com/~a/puzzle-b-c.jpeg", "img12jpeg"},
		{3, "https://h.com/puzzle/a-b.js", "img3b.js"},
		{1, "abc", "img1abc"},
		{2, "", "img2"},
	}
	for _, tt := range tests {
		got := materializer.ImageName(tt.i, tt.url, materializer.ExtensionSlice)
		if got != tt.want {
			t.Errorf("ImageName(%d, %q) = %q; want %q", tt.i, tt.url, got, tt.want)
		}
		if len(tt.url) >= 4 && !strings.HasSuffix(got, tt.url[len(tt.url)-4:]) {
			t.Errorf("ImageName(%d, %q) does not end with the last 4 bytes of the url", tt.i, tt.url)
		}
	}
}

func TestImageName_Path(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"https://h.com/~a/puzzle-b-c.jpeg":   "img0.jpeg",
		"https://h.com/~a/puzzle-b-c.jpg?x=1": "img0.jpg",
		"https://h.com/~a/puzzle":            "img0",
	}
	for url, want := range tests {
		if got := materializer.ImageName(0, url, materializer.ExtensionPath); got != want {
			t.Errorf("ImageName(0, %q, path) = %q; want %q", url, got, want)
		}
	}
}

func TestParseExtensionStrategy(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]materializer.ExtensionStrategy{
		"":      materializer.ExtensionSlice,
		"slice": materializer.ExtensionSlice,
		"PATH":  materializer.ExtensionPath,
	} {
		got, err := materializer.ParseExtensionStrategy(in)
		if err != nil || got != want {
			t.Errorf("ParseExtensionStrategy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := materializer.ParseExtensionStrategy("mime"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestRenderIndex(t *testing.T) {
	t.Parallel()
	got := materializer.RenderIndex([]string{"img0.jpg", "img1.png"})
	want := "<html><body><img src=img0.jpg><img src=img1.png></body></html>"
	if got != want {
		t.Errorf("RenderIndex = %q; want %q", got, want)
	}
	if empty := materializer.RenderIndex(nil); empty != "<html><body></body></html>" {
		t.Errorf("RenderIndex(nil) = %q", empty)
	}
}

// ─── Materialize ───────────────────────────────────────────────────────

func TestMaterialize_SingleImage(t *testing.T) {
	t.Parallel()
	ts := imageServer(t)
	m := httpMaterializer(t, ts, materializer.Options{})
	dest := filepath.Join(t.TempDir(), "out", "nested")

	names, err := m.Materialize(context.Background(), []string{ts.URL + "/~a/puzzle-bbbb-ccc.jpg"}, dest)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if !slices.Equal(names, []string{"img0.jpg"}) {
		t.Errorf("names = %v", names)
	}

	img, err := os.ReadFile(filepath.Join(dest, "img0.jpg"))
	if err != nil {
		t.Fatalf("read image: %v", err)
	}
	if string(img) != "puzzle-bbbb-ccc.jpg bytes" {
		t.Errorf("unexpected image bytes %q", img)
	}

	raw, doc := readIndex(t, dest)
	if !strings.Contains(raw, "<img src=img0.jpg>") {
		t.Errorf("index lacks unquoted img tag: %q", raw)
	}
	if src, _ := doc.Find("img").First().Attr("src"); src != "img0.jpg" {
		t.Errorf("img src = %q; want img0.jpg", src)
	}
}

func TestMaterialize_OneFilePerURLPlusIndex(t *testing.T) {
	t.Parallel()
	ts := imageServer(t)
	m := httpMaterializer(t, ts, materializer.Options{})
	dest := t.TempDir()
	urls := []string{
		ts.URL + "/~a/puzzle-x-aaaa.jpg",
		ts.URL + "/~a/puzzle-x-bbbb.png",
		ts.URL + "/~a/puzzle-x-cccc.gif",
	}

	if _, err := m.Materialize(context.Background(), urls, dest); err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != len(urls)+1 {
		t.Errorf("expected %d files, got %d", len(urls)+1, len(entries))
	}

	_, doc := readIndex(t, dest)
	var srcs []string
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		srcs = append(srcs, src)
	})
	want := []string{"img0.jpg", "img1.png", "img2.gif"}
	if !slices.Equal(srcs, want) {
		t.Errorf("index srcs = %v; want %v", srcs, want)
	}
}

func TestMaterialize_EmptyList(t *testing.T) {
	t.Parallel()
	m := materializer.New(fetcher.New(&testutil.DummyWebClient{}, nil), materializer.Options{}, nil)
	dest := filepath.Join(t.TempDir(), "fresh")

	names, err := m.Materialize(context.Background(), nil, dest)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected no names, got %v", names)
	}
	raw, _ := readIndex(t, dest)
	if raw != "<html><body></body></html>" {
		t.Errorf("unexpected index %q", raw)
	}
}

func TestMaterialize_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	bad := "https://h.com/~a/puzzle-x-bbbb.jpg"
	wc := &testutil.DummyWebClient{StatusURLs: map[string]int{bad: 500}}
	m := materializer.New(fetcher.New(wc, nil), materializer.Options{}, nil)
	dest := t.TempDir()
	urls := []string{
		"https://h.com/~a/puzzle-x-aaaa.jpg",
		bad,
		"https://h.com/~a/puzzle-x-cccc.jpg",
	}

	names, err := m.Materialize(context.Background(), urls, dest)
	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.URL != bad {
		t.Errorf("FetchError.URL = %q; want %q", fe.URL, bad)
	}
	if !slices.Equal(names, []string{"img0.jpg"}) {
		t.Errorf("names = %v; want only img0.jpg", names)
	}
	if got := wc.Requested(); len(got) != 2 {
		t.Errorf("expected fetching to stop after the failure, requested %v", got)
	}
	if _, err := os.Stat(filepath.Join(dest, "img0.jpg")); err != nil {
		t.Errorf("already written image should remain: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, materializer.IndexFile)); !os.IsNotExist(err) {
		t.Errorf("index must not be written after a failure, stat err = %v", err)
	}
}

func TestMaterialize_DirectoryCreationError(t *testing.T) {
	t.Parallel()
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	m := materializer.New(fetcher.New(&testutil.DummyWebClient{}, nil), materializer.Options{}, nil)

	_, err := m.Materialize(context.Background(), []string{"https://h.com/a.jpg"}, filepath.Join(blocker, "sub"))
	var dce *materializer.DirectoryCreationError
	if !errors.As(err, &dce) {
		t.Fatalf("expected DirectoryCreationError, got %v", err)
	}
}

func TestMaterialize_PathExtensionStrategy(t *testing.T) {
	t.Parallel()
	m := materializer.New(fetcher.New(&testutil.DummyWebClient{}, nil),
		materializer.Options{Extension: materializer.ExtensionPath}, nil)
	dest := t.TempDir()

	names, err := m.Materialize(context.Background(), []string{"https://h.com/~a/puzzle-b-c.jpeg"}, dest)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if !slices.Equal(names, []string{"img0.jpeg"}) {
		t.Errorf("names = %v; want [img0.jpeg]", names)
	}
}

func TestMaterialize_RejectsNameWithSeparator(t *testing.T) {
	t.Parallel()
	wc := &testutil.DummyWebClient{}
	m := materializer.New(fetcher.New(wc, nil), materializer.Options{}, nil)
	dest := t.TempDir()
	urls := []string{
		"https://h.com/~a/puzzle-x-aaaa.jpg",
		"https://h.com/~a/puzzle/",
	}

	names, err := m.Materialize(context.Background(), urls, dest)
	var ine *materializer.ImageNameError
	if !errors.As(err, &ine) {
		t.Fatalf("expected ImageNameError, got %v", err)
	}
	if ine.Name != "img1zle/" || ine.URL != urls[1] {
		t.Errorf("unexpected error fields %+v", ine)
	}
	if !slices.Equal(names, []string{"img0.jpg"}) {
		t.Errorf("names = %v; want only img0.jpg", names)
	}
	if got := wc.Requested(); len(got) != 1 {
		t.Errorf("the bad url should not be fetched, requested %v", got)
	}
	if _, err := os.Stat(filepath.Join(dest, "img1zle")); !os.IsNotExist(err) {
		t.Errorf("no file should be written for the bad url, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, materializer.IndexFile)); !os.IsNotExist(err) {
		t.Errorf("index must not be written, stat err = %v", err)
	}
}
