package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxWithQuery(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContextDefaults(t *testing.T) {
	pg := FromContext(ctxWithQuery(""))
	if pg.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, pg.Limit)
	}
	if pg.Offset != 0 {
		t.Errorf("expected offset 0, got %d", pg.Offset)
	}
}

func TestFromContextExplicit(t *testing.T) {
	pg := FromContext(ctxWithQuery("limit=50&offset=10"))
	if pg.Limit != 50 || pg.Offset != 10 {
		t.Errorf("got %+v", pg)
	}
}

func TestFromContextMaxLimit(t *testing.T) {
	pg := FromContext(ctxWithQuery("limit=5000"))
	if pg.Limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, pg.Limit)
	}
}

func TestFromContextPage(t *testing.T) {
	pg := FromContext(ctxWithQuery("page=3&limit=10"))
	if pg.Offset != 20 {
		t.Errorf("expected offset 20 for page 3, got %d", pg.Offset)
	}
}

func TestNewResponseHasMore(t *testing.T) {
	r := NewResponse(nil, 100, 20, 0)
	if !r.HasMore {
		t.Error("expected has_more true")
	}
	r = NewResponse(nil, 15, 20, 0)
	if r.HasMore {
		t.Error("expected has_more false")
	}
}

func TestHasNext(t *testing.T) {
	p := Params{Limit: 20, Offset: 80}
	if p.HasNext(100) {
		t.Error("expected no next page at end")
	}
	if !p.HasNext(101) {
		t.Error("expected next page")
	}
	if p.NextOffset() != 100 {
		t.Errorf("expected next offset 100, got %d", p.NextOffset())
	}
}
