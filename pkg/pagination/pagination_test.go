package pagination

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextFor(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestFromContext_Defaults(t *testing.T) {
	c, _ := contextFor("/")

	p, err := FromContext(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected default offset 0, got %d", p.Offset)
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	c, _ := contextFor("/?limit=50&offset=10")

	p, err := FromContext(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Limit != 50 {
		t.Errorf("expected limit 50, got %d", p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("expected offset 10, got %d", p.Offset)
	}
}

func TestFromContext_MaxLimit(t *testing.T) {
	c, _ := contextFor("/?limit=500")

	p, err := FromContext(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_Invalid(t *testing.T) {
	for _, target := range []string{"/?limit=abc", "/?limit=0", "/?offset=-1", "/?offset=x"} {
		c, _ := contextFor(target)
		if _, err := FromContext(c); err == nil {
			t.Errorf("%s: expected error", target)
		}
	}
}

func TestParams_HasNext(t *testing.T) {
	tests := []struct {
		p     Params
		total int
		want  bool
	}{
		{Params{Limit: 10, Offset: 0}, 25, true},
		{Params{Limit: 10, Offset: 10}, 25, true},
		{Params{Limit: 10, Offset: 20}, 25, false},
		{Params{Limit: 10, Offset: 0}, 10, false},
		{Params{Limit: 10, Offset: 0}, 0, false},
	}
	for _, tt := range tests {
		if got := tt.p.HasNext(tt.total); got != tt.want {
			t.Errorf("%+v.HasNext(%d) = %v, want %v", tt.p, tt.total, got, tt.want)
		}
	}
}

func TestParams_PreviousOffset(t *testing.T) {
	if got := (Params{Limit: 10, Offset: 25}).PreviousOffset(); got != 15 {
		t.Errorf("expected 15, got %d", got)
	}
	if got := (Params{Limit: 10, Offset: 5}).PreviousOffset(); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if (Params{Limit: 10}).HasPrevious() {
		t.Error("expected no previous page at offset 0")
	}
}

func TestParams_Links_MiddlePage(t *testing.T) {
	u, _ := url.Parse("/api/v1/doctors/abc/bookings?start_date=2025-03-01&end_date=2025-03-31")
	p := Params{Limit: 10, Offset: 10}

	links := p.Links(u, 35)
	if !strings.Contains(links, `rel="next"`) || !strings.Contains(links, `rel="prev"`) {
		t.Fatalf("expected next and prev links, got %q", links)
	}
	if !strings.Contains(links, "offset=20") {
		t.Errorf("expected next offset 20, got %q", links)
	}
	if !strings.Contains(links, "start_date=2025-03-01") {
		t.Errorf("expected filters preserved, got %q", links)
	}
}

func TestParams_Links_SinglePage(t *testing.T) {
	u, _ := url.Parse("/bookings")
	if links := (Params{Limit: 20}).Links(u, 5); links != "" {
		t.Errorf("expected no links for a single page, got %q", links)
	}
}

func TestSetHeaders(t *testing.T) {
	c, rec := contextFor("/bookings?limit=2")
	SetHeaders(c, Params{Limit: 2}, 5)

	if got := rec.Header().Get(TotalCountHeader); got != "5" {
		t.Errorf("expected total count 5, got %q", got)
	}
	if !strings.Contains(rec.Header().Get("Link"), `rel="next"`) {
		t.Errorf("expected next link, got %q", rec.Header().Get("Link"))
	}
}
