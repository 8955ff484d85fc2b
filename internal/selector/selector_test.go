package selector

import (
	"fmt"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/dshills/browsermotion/internal/dom"
)

func parse(t *testing.T, s string) *dom.Document {
	t.Helper()
	d, err := dom.ParseString(s)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return d
}

func query(t *testing.T, d *dom.Document, sel string) *html.Node {
	t.Helper()
	n, err := d.QuerySelector(sel)
	if err != nil || n == nil {
		t.Fatalf("QuerySelector(%q) = %v, %v", sel, n, err)
	}
	return n
}

func TestGenerate(t *testing.T) {
	d := parse(t, `<html><body>
		<div id="a"><ul><li>1</li><li>2</li><li id="third">3</li><li>4</li></ul></div>
		<div id="b"><span id="only">x</span><p id="p1"></p><span id="s2"></span></div>
		<section><button id="btn">go</button></section>
	</body></html>`)

	tests := []struct {
		sel  string
		want string
	}{
		{"#third", "div:nth-of-type(1) > ul > li:nth-of-type(3)"},
		{"#only", "div:nth-of-type(2) > span:nth-of-type(1)"},
		{"#p1", "div:nth-of-type(2) > p"},
		{"#btn", "section > button"},
		{"#a", "div:nth-of-type(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			el := query(t, d, tt.sel)
			got := Generate(d, el)
			if got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
			if back := query(t, d, got); back != el {
				t.Errorf("QuerySelector(Generate()) found a different element")
			}
		})
	}
}

func TestGenerateSeparator(t *testing.T) {
	d := parse(t, `<body><div><div><a id="x">x</a></div></div></body>`)
	got := Generate(d, query(t, d, "#x"))
	if strings.Count(got, Separator) != 2 {
		t.Errorf("Generate() = %q, want 3 fragments joined by %q", got, Separator)
	}
}

func TestGenerateMaxDepth(t *testing.T) {
	depth := 20
	doc := "<body>" + strings.Repeat("<div>", depth) + `<i id="deep"></i>` + strings.Repeat("</div>", depth) + "</body>"
	d := parse(t, doc)

	got := Generate(d, query(t, d, "#deep"))
	if n := len(strings.Split(got, Separator)); n != MaxDepth {
		t.Errorf("fragments = %d, want %d (%q)", n, MaxDepth, got)
	}
	if !strings.HasSuffix(got, "div > i") {
		t.Errorf("Generate() = %q, want suffix %q", got, "div > i")
	}
}

func TestGenerateNotUnique(t *testing.T) {
	d := parse(t, `<body><ul><li><a id="first">1</a></li></ul><ul><li><a>2</a></li></ul></body>`)

	// Without a distinguishing ancestor the path matches both links.
	got := Path(query(t, d, "#first"), query(t, d, "ul"))
	if got != "li > a" {
		t.Errorf("Path() = %q, want %q", got, "li > a")
	}
	nodes, _ := d.QuerySelectorAll(got)
	if len(nodes) != 2 {
		t.Errorf("len(QuerySelectorAll(%q)) = %d, want 2", got, len(nodes))
	}
}

type rejecting struct{ *dom.Document }

func (rejecting) QuerySelector(sel string) (*html.Node, error) {
	return nil, fmt.Errorf("%w: %s", dom.ErrInvalidSelector, sel)
}

func TestGenerateFallback(t *testing.T) {
	d := parse(t, `<body><div><span id="s">x</span></div></body>`)
	el := query(t, d, "#s")

	if got := Generate(rejecting{d}, el); got != "span:nth-of-type(1)" {
		t.Errorf("Generate() = %q, want span:nth-of-type(1)", got)
	}
}

func TestGenerateBody(t *testing.T) {
	d := parse(t, `<body><p>x</p></body>`)
	if got := Generate(d, d.Body()); got != "body:nth-of-type(1)" {
		t.Errorf("Generate(body) = %q, want body:nth-of-type(1)", got)
	}
}

func TestGenerateNonElement(t *testing.T) {
	d := parse(t, `<body>x</body>`)
	if got := Generate(d, d.Body().FirstChild); got != "" {
		t.Errorf("Generate(text) = %q, want empty", got)
	}
}

func TestFallbackIsValid(t *testing.T) {
	d := parse(t, `<body><span>x</span></body>`)
	if _, err := d.QuerySelector(Fallback(query(t, d, "span"))); err != nil {
		t.Errorf("Fallback() produced an invalid selector: %v", err)
	}
}
