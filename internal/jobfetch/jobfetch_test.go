package jobfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resumeforge/internal/errors"
)

const jobPage = `<!DOCTYPE html>
<html>
<head>
  <title>Careers | Acme</title>
  <meta property="og:title" content="Senior Go Engineer">
  <meta property="og:site_name" content="Acme Corp">
  <script>var tracking = "noise";</script>
</head>
<body>
  <nav><a href="/">Home</a> <a href="/jobs">Jobs</a></nav>
  <div class="sidebar">Other openings</div>
  <div class="job-description">
    <h2>About the role</h2>
    <p>You will build distributed services in <strong>Go</strong>.</p>
    <ul>
      <li>5+ years of Go</li>
      <li>Kubernetes and PostgreSQL</li>
    </ul>
  </div>
  <footer>Copyright Acme</footer>
</body>
</html>`

func TestExtract(t *testing.T) {
	page, err := New(Options{}, nil).Extract(jobPage)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if page.Title != "Senior Go Engineer" {
		t.Errorf("Title = %q", page.Title)
	}
	if page.Company != "Acme Corp" {
		t.Errorf("Company = %q", page.Company)
	}
	for _, want := range []string{"About the role", "distributed services", "Kubernetes and PostgreSQL"} {
		if !strings.Contains(page.Description, want) {
			t.Errorf("Description missing %q:\n%s", want, page.Description)
		}
	}
	for _, noise := range []string{"tracking", "Other openings", "Copyright", "Home"} {
		if strings.Contains(page.Description, noise) {
			t.Errorf("Description contains noise %q:\n%s", noise, page.Description)
		}
	}
}

func TestExtractFallsBackToBody(t *testing.T) {
	html := `<html><head><title>Data Analyst</title></head><body><p>SQL and dashboards.</p></body></html>`
	page, err := New(Options{}, nil).Extract(html)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if page.Title != "Data Analyst" {
		t.Errorf("Title = %q", page.Title)
	}
	if !strings.Contains(page.Description, "SQL and dashboards.") {
		t.Errorf("Description = %q", page.Description)
	}
}

func TestExtractEmptyPage(t *testing.T) {
	_, err := New(Options{}, nil).Extract(`<html><body><nav>menu</nav></body></html>`)
	if !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/jobs/1":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(jobPage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := New(Options{UserAgent: "test-agent"}, nil)

	page, err := f.Fetch(context.Background(), srv.URL+"/jobs/1")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.URL != srv.URL+"/jobs/1" {
		t.Errorf("URL = %q", page.URL)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q", gotUA)
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/missing"); !errors.IsType(err, errors.ErrorTypeNetwork) {
		t.Errorf("404 error = %v, want network error", err)
	}
}

func TestFetchRejectsBadURL(t *testing.T) {
	f := New(Options{}, nil)
	for _, raw := range []string{"", "ftp://example.com/job", "/relative/path", "http://"} {
		if _, err := f.Fetch(context.Background(), raw); !errors.IsType(err, errors.ErrorTypeValidation) {
			t.Errorf("Fetch(%q) error = %v, want validation error", raw, err)
		}
	}
}

func TestFetchTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><main><p>" + strings.Repeat("a", 500) + "</p></main></body></html>"))
	}))
	defer srv.Close()

	page, err := New(Options{MaxChars: 100}, nil).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(page.Description) != 103 || !strings.HasSuffix(page.Description, "...") {
		t.Errorf("len(Description) = %d, want 103 ending in ...", len(page.Description))
	}
	if page.Company != "127.0.0.1" {
		t.Errorf("Company = %q, want host fallback", page.Company)
	}
}
