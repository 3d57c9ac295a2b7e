package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const naverArticleFixture = `
<html><head><title>ignored</title></head><body>
  <h2 id="title_area"><span>반도체   수출</span>
    <span>사상 최대</span></h2>
  <article id="dic_area">
    첫 문단입니다.
    <img src="x.png" alt="photo">
    <script>var tracking = 1;</script>
    <style>.x { color: red }</style>
    <iframe src="ad.html">광고</iframe>
    <p>둘째   문단입니다.</p>
  </article>
</body></html>`

func serveHTML(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestNaverExtractorSuccess(t *testing.T) {
	t.Parallel()

	ts := serveHTML(t, http.StatusOK, naverArticleFixture)
	res := NewNaverExtractor(ts.Client(), nil).Extract(context.Background(), ts.URL+"/article/1")

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.URL != ts.URL+"/article/1" {
		t.Fatalf("unexpected url: %s", res.URL)
	}
	if res.Title != "반도체 수출 사상 최대" {
		t.Fatalf("unexpected title: %q", res.Title)
	}
	if res.Body != "첫 문단입니다. 둘째 문단입니다." {
		t.Fatalf("unexpected body: %q", res.Body)
	}
}

func TestExtractorsDropNoscriptMarkup(t *testing.T) {
	t.Parallel()

	page := `<html><body><h2 id="title_area">사진 기사</h2>
	<div id="dic_area">본문 시작 <noscript><img src="x.jpg" alt="사진"></noscript> 본문 끝</div>
	</body></html>`
	ts := serveHTML(t, http.StatusOK, page)

	extractors := map[string]*SelectorExtractor{
		"naver": NewNaverExtractor(ts.Client(), nil),
		// Without noscript in the noise list the text walk must still skip it.
		"img-only": NewSelectorExtractor("img-only", ts.Client(), SelectorTemplate{
			Title: "#title_area",
			Body:  "#dic_area",
			Noise: "img",
		}, nil),
	}
	for name, ex := range extractors {
		res := ex.Extract(context.Background(), ts.URL)
		if !res.Success {
			t.Fatalf("%s: expected success, got %q", name, res.Error)
		}
		if res.Body != "본문 시작 본문 끝" {
			t.Errorf("%s: unexpected body: %q", name, res.Body)
		}
	}
}

func TestNaverExtractorFetchFailure(t *testing.T) {
	t.Parallel()

	ts := serveHTML(t, http.StatusNotFound, "missing")
	res := NewNaverExtractor(ts.Client(), nil).Extract(context.Background(), ts.URL+"/gone")

	if res.Success {
		t.Fatalf("expected failure")
	}
	if !strings.HasPrefix(res.Error, "fetch failed") {
		t.Fatalf("unexpected error: %q", res.Error)
	}
	if res.Title != "" || res.Body != "" {
		t.Fatalf("failed result carries text: %+v", res)
	}
}

func TestNaverExtractorMissingContainers(t *testing.T) {
	t.Parallel()

	ts := serveHTML(t, http.StatusOK, `<html><body><div id="other">본문 아님</div></body></html>`)
	res := NewNaverExtractor(ts.Client(), nil).Extract(context.Background(), ts.URL)

	if res.Success || res.Error != "title and body not found" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestNaverExtractorTitleOnly(t *testing.T) {
	t.Parallel()

	ts := serveHTML(t, http.StatusOK, `<html><body><h2 id="title_area">제목만</h2></body></html>`)
	res := NewNaverExtractor(ts.Client(), nil).Extract(context.Background(), ts.URL)

	if !res.Success || res.Title != "제목만" || res.Body != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestParseSafely(t *testing.T) {
	t.Parallel()

	res := parseSafely("u", func() (string, string, error) {
		panic("boom")
	})
	if res.Success || res.Error != "parse failed: boom" {
		t.Fatalf("unexpected panic result: %+v", res)
	}

	res = parseSafely("u", func() (string, string, error) {
		return "", "", errors.New("bad markup")
	})
	if res.Success || res.Error != "parse failed: bad markup" {
		t.Fatalf("unexpected error result: %+v", res)
	}
}

func TestReadabilityExtractor(t *testing.T) {
	t.Parallel()

	paragraph := "The export figures released on Monday showed semiconductor shipments rising for the ninth " +
		"consecutive month, driven by strong demand for memory chips used in data centers and artificial " +
		"intelligence servers, according to the trade ministry. "
	page := `<html><head><title>Chip exports hit record</title></head><body>
	<nav><a href="/">Home</a><a href="/world">World</a></nav>
	<article>
	  <h1>Chip exports hit record</h1>
	  <p>` + strings.Repeat(paragraph, 3) + `</p>
	  <p>` + strings.Repeat(paragraph, 3) + `</p>
	  <script>var tracking = 1;</script>
	  <p>` + strings.Repeat(paragraph, 3) + `</p>
	</article>
	<footer>Copyright</footer>
	</body></html>`

	ts := serveHTML(t, http.StatusOK, page)
	ex := NewReadabilityExtractor(ts.Client(), nil)
	if ex.Name() != "readability" {
		t.Fatalf("unexpected name: %s", ex.Name())
	}

	res := ex.Extract(context.Background(), ts.URL+"/story")
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if res.Title == "" {
		t.Fatalf("expected title")
	}
	if !strings.Contains(res.Body, "semiconductor shipments rising") {
		t.Fatalf("body missing article text: %q", res.Body)
	}
	if strings.Contains(res.Body, "tracking") {
		t.Fatalf("script text leaked into body: %q", res.Body)
	}
	if strings.Contains(res.Body, "  ") {
		t.Fatalf("whitespace not collapsed: %q", res.Body)
	}
}

func TestReadabilityExtractorFetchFailure(t *testing.T) {
	t.Parallel()

	ts := serveHTML(t, http.StatusInternalServerError, "oops")
	res := NewReadabilityExtractor(ts.Client(), nil).Extract(context.Background(), ts.URL)
	if res.Success || !strings.HasPrefix(res.Error, "fetch failed") {
		t.Fatalf("unexpected result: %+v", res)
	}
}
