package narou

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"
)

const atomNS = "http://www.w3.org/2005/Atom"

var atomNamespaces = map[string]string{"atom": atomNS}

// atomExprs holds one compiled child lookup per Atom element name. Every
// lookup in this package goes through child/children so the namespace is
// bound in exactly one place.
var atomExprs = compileAtomExprs(
	"title", "subtitle", "updated", "entry",
	"summary", "published", "id", "link",
)

func compileAtomExprs(names ...string) map[string]*xpath.Expr {
	exprs := make(map[string]*xpath.Expr, len(names))
	for _, name := range names {
		expr, err := xpath.CompileWithNS("atom:"+name, atomNamespaces)
		if err != nil {
			panic(fmt.Sprintf("compiling atom:%s: %v", name, err))
		}
		exprs[name] = expr
	}
	return exprs
}

// parseAtom runs the safety pass, checks the payload is an Atom feed and
// returns its root element.
func parseAtom(body []byte) (*xmlquery.Node, error) {
	if err := checkSafeXML(body); err != nil {
		return nil, err
	}

	if kind := gofeed.DetectFeedType(bytes.NewReader(body)); kind != gofeed.FeedTypeAtom {
		return nil, ErrNotAtom
	}

	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}

	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n, nil
		}
	}
	return nil, ErrNotAtom
}

// checkSafeXML walks the whole token stream once. A plain DOCTYPE is
// allowed; entity declarations and external identifiers are refused so
// nothing is expanded or fetched downstream. Malformed documents are
// rejected before the tree is built.
func checkSafeXML(body []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("malformed XML: %w", err)
		}
		if d, ok := tok.(xml.Directive); ok {
			if err := checkDirective(d); err != nil {
				return err
			}
		}
	}
}

// checkDirective accepts only `<!DOCTYPE name>` with no internal subset and
// no SYSTEM or PUBLIC identifier.
func checkDirective(d xml.Directive) error {
	name := directiveName(d)
	if name != "DOCTYPE" {
		return fmt.Errorf("%w: <!%s>", ErrUnsafeXML, name)
	}
	if strings.Contains(string(d), "<!ENTITY") {
		return fmt.Errorf("%w: entity declaration", ErrUnsafeXML)
	}
	for _, f := range strings.Fields(string(d))[1:] {
		if f == "SYSTEM" || f == "PUBLIC" {
			return fmt.Errorf("%w: external %s identifier", ErrUnsafeXML, f)
		}
	}
	return nil
}

func directiveName(d xml.Directive) string {
	fields := strings.Fields(string(d))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func child(n *xmlquery.Node, name string) *xmlquery.Node {
	return xmlquery.QuerySelector(n, atomExprs[name])
}

func children(n *xmlquery.Node, name string) []*xmlquery.Node {
	return xmlquery.QuerySelectorAll(n, atomExprs[name])
}

// childText returns the text of a required child element. path is only used
// to make errors point at the offending element.
func childText(n *xmlquery.Node, name, path string) (string, error) {
	c := child(n, name)
	if c == nil {
		return "", missing(path + "/" + name)
	}
	return c.InnerText(), nil
}

func childTime(n *xmlquery.Node, name, path string) (time.Time, error) {
	text, err := childText(n, name, path)
	if err != nil {
		return time.Time{}, err
	}
	ts, err := parseTimestamp(text)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s/%s: %w", path, name, err)
	}
	return ts, nil
}

// feedHeader is the metadata shared by blog and novel feeds.
type feedHeader struct {
	title    string
	subtitle string
}

func parseFeedHeader(root *xmlquery.Node) (feedHeader, error) {
	title, err := childText(root, "title", "feed")
	if err != nil {
		return feedHeader{}, err
	}
	subtitle, err := childText(root, "subtitle", "feed")
	if err != nil {
		return feedHeader{}, err
	}
	return feedHeader{title: title, subtitle: subtitle}, nil
}
