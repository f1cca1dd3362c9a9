package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

const (
	defaultRemoteTimeout = 5 * time.Second
	defaultUserAgent     = "Mozilla/5.0 (compatible; PhoneCompareBot/1.0)"

	searchPath = "/results.php3"
)

type RemoteConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// RemoteSource scrapes a GSMArena-style phone site. Pages are fetched with
// resty and mapped to products with goquery selectors:
//
//	search:   /results.php3?sQuickSearch=yes&sName=<q>   div.makers li > a
//	detail:   /<id>.php                                 td.nfo[data-spec]
//	trending: /                                         div.module-phones a.module-phones-link
type RemoteSource struct {
	client  *resty.Client
	baseURL string
}

func NewRemoteSource(cfg RemoteConfig) *RemoteSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRemoteTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	base := strings.TrimRight(cfg.BaseURL, "/")

	client := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html")

	return &RemoteSource{client: client, baseURL: base}
}

func (s *RemoteSource) Ping(ctx context.Context) error {
	_, err := s.fetch(ctx, "/", nil)
	return err
}

func (s *RemoteSource) Search(ctx context.Context, query string) ([]ProductDetail, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}

	doc, err := s.fetch(ctx, searchPath, map[string]string{
		"sQuickSearch": "yes",
		"sName":        q,
	})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	out := make([]ProductDetail, 0, 16)
	doc.Find("div.makers ul li a").Each(func(_ int, a *goquery.Selection) {
		if p, ok := s.listItem(a); ok {
			out = append(out, p)
		}
	})
	return out, nil
}

func (s *RemoteSource) Get(ctx context.Context, id string) (ProductDetail, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, "/?#") {
		return ProductDetail{}, false, nil
	}

	doc, err := s.fetch(ctx, "/"+url.PathEscape(id)+".php", nil)
	if err != nil {
		return ProductDetail{}, false, err
	}
	if doc == nil {
		return ProductDetail{}, false, nil
	}

	name := cleanText(doc.Find("h1.specs-phone-name-title").First().Text())
	if name == "" {
		return ProductDetail{}, false, fmt.Errorf("%w: no product name on page %s", ErrSourceParse, id)
	}

	p := ProductDetail{
		ProductRef: ProductRef{
			ID:    id,
			Name:  name,
			Image: s.absolute(doc.Find("div.specs-photo-main img").First().AttrOr("src", "")),
			Brand: brandFromID(id),
		},
		Specs:       detailSpecs(doc),
		ReleaseDate: cleanText(doc.Find(`span[data-spec="released-hl"]`).First().Text()),
		Weight:      cleanText(doc.Find(`span[data-spec="body-hl"]`).First().Text()),
		URL:         s.baseURL + "/" + id + ".php",
	}
	return p, true, nil
}

func (s *RemoteSource) Trending(ctx context.Context) ([]ProductDetail, error) {
	doc, err := s.fetch(ctx, "/", nil)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	out := make([]ProductDetail, 0, 8)
	doc.Find("div.module-phones a.module-phones-link").Each(func(_ int, a *goquery.Selection) {
		if p, ok := s.listItem(a); ok {
			out = append(out, p)
		}
	})
	return out, nil
}

// fetch returns (nil, nil) on 404 so callers can report "absent".
func (s *RemoteSource) fetch(ctx context.Context, p string, query map[string]string) (*goquery.Document, error) {
	req := s.client.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	res, err := req.Get(p)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	switch {
	case res.StatusCode() == http.StatusNotFound:
		return nil, nil
	case res.StatusCode() >= 300:
		return nil, fmt.Errorf("%w: %s status=%d", ErrSourceBadStatus, p, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceParse, err)
	}
	return doc, nil
}

// listItem maps an anchor of a phone list (search results or the home page
// module) to a product. Names are rendered as "<brand><br>model".
func (s *RemoteSource) listItem(a *goquery.Selection) (ProductDetail, bool) {
	id := idFromHref(a.AttrOr("href", ""))
	if id == "" {
		return ProductDetail{}, false
	}

	var parts []string
	label := a.Find("strong span")
	if label.Length() == 0 {
		label = a
	}
	label.Contents().Each(func(_ int, c *goquery.Selection) {
		if len(c.Nodes) > 0 && c.Nodes[0].Type == html.TextNode {
			if t := cleanText(c.Text()); t != "" {
				parts = append(parts, t)
			}
		}
	})
	if len(parts) == 0 {
		return ProductDetail{}, false
	}

	brand := brandFromID(id)
	if len(parts) > 1 {
		brand = parts[0]
	}

	img := a.Find("img").First()
	return ProductDetail{
		ProductRef: ProductRef{
			ID:    id,
			Name:  strings.Join(parts, " "),
			Image: s.absolute(img.AttrOr("src", "")),
			Brand: brand,
		},
		Specs: Specs{},
		URL:   s.baseURL + "/" + id + ".php",
	}, true
}

func detailSpecs(doc *goquery.Document) Specs {
	spec := func(name string) string {
		return cleanText(doc.Find(`[data-spec="` + name + `"]`).First().Text())
	}

	specs := Specs{}
	set := func(k string, vals ...string) {
		parts := make([]string, 0, len(vals))
		for _, v := range vals {
			if v != "" {
				parts = append(parts, v)
			}
		}
		if len(parts) > 0 {
			specs[k] = strings.Join(parts, ", ")
		}
	}

	set(SpecDisplay, spec("displaysize"), spec("displayresolution"), spec("displaytype"))
	set(SpecBattery, spec("batdescription1"))
	set(SpecRAM, spec("ramsize-hl"))
	set(SpecCamera, spec("cam1modules"))
	set(SpecProcessor, spec("chipset"))
	set(SpecStorage, spec("internalmemory"))
	set(SpecOS, spec("os"))
	return specs
}

func (s *RemoteSource) absolute(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}
	base, err := url.Parse(s.baseURL + "/")
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func idFromHref(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if !strings.HasSuffix(name, ".php") {
		return ""
	}
	return strings.TrimSuffix(name, ".php")
}

// brandFromID derives "Samsung" from "samsung_galaxy_s23-12082".
func brandFromID(id string) string {
	head, _, _ := strings.Cut(id, "_")
	head, _, _ = strings.Cut(head, "-")
	if head == "" {
		return ""
	}
	return strings.ToUpper(head[:1]) + head[1:]
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}
