package catalog

import (
	"hash/fnv"
	"math"
	"net/url"
	"sort"
	"strings"
)

// Offer is one retailer's listing for a phone. Prices are indicative mock
// data in Indian rupees; links open the retailer's search page.
type Offer struct {
	Store    string  `json:"store"`
	Price    int64   `json:"price"`
	Discount int     `json:"discount_percent"`
	Rating   float64 `json:"rating"`
	Reviews  int     `json:"reviews"`
	InStock  bool    `json:"in_stock"`
	Link     string  `json:"link"`
	LogoURL  string  `json:"logo_url"`
}

type SortOrder string

const (
	SortByPrice  SortOrder = "price"
	SortByRating SortOrder = "rating"
)

type retailer struct {
	name       string
	offset     float64
	discountLo int
	discountHi int
	ratingLo   float64
	ratingSpan float64
	reviewsLo  int
	reviewSpan int
	stockRatio float64
	searchURL  string
	logoURL    string
}

var retailers = []retailer{
	{"Amazon", -1500, 5, 15, 4.1, 0.8, 1000, 9000, 1.0, "https://www.amazon.in/s?k=",
		"https://upload.wikimedia.org/wikipedia/commons/thumb/a/a9/Amazon_logo.svg/1024px-Amazon_logo.svg.png"},
	{"Flipkart", 0, 6, 18, 4.0, 0.9, 800, 8000, 1.0, "https://www.flipkart.com/search?q=",
		"https://static-assets-web.flixcart.com/fk-p-linchpin-web/fk-cp-zion/img/flipkart-plus_8d85f4.png"},
	{"Croma", 1000, 4, 12, 3.9, 0.9, 200, 2000, 0.8, "https://www.croma.com/searchB?q=",
		"https://media.croma.com/image/upload/v1637759004/Croma%20Assets/CMS/Category%20icon/croma-logo-dark-bg_wstk6j.png"},
	{"Reliance Digital", -800, 5, 14, 4.0, 0.7, 300, 3000, 0.9, "https://www.reliancedigital.in/search?q=",
		"https://upload.wikimedia.org/wikipedia/commons/thumb/0/0c/Reliance_Digital_Logo.svg/1200px-Reliance_Digital_Logo.svg.png"},
	{"Vijay Sales", 1500, 3, 10, 3.8, 0.8, 100, 1000, 0.7, "https://www.vijaysales.com/search/",
		"https://upload.wikimedia.org/wikipedia/commons/thumb/1/10/Vijay_Sales_Logo.webp/120px-Vijay_Sales_Logo.webp.png"},
}

// BasePrice derives a stable price from the product id: 30000 plus the sum
// of its character codes modulo 120000, raised for flagship and premium
// lines.
func BasePrice(id string) float64 {
	code := 0
	for _, r := range id {
		code += int(r)
	}
	base := 30000 + float64(code%120000)

	lid := strings.ToLower(id)
	highEnd := strings.Contains(lid, "pro") || strings.Contains(lid, "ultra") ||
		strings.Contains(lid, "fold") || strings.Contains(lid, "max")
	premium := strings.Contains(lid, "iphone") ||
		(strings.Contains(lid, "samsung") && (strings.Contains(lid, "s23") || strings.Contains(lid, "s24")))

	switch {
	case highEnd:
		return base * 1.4
	case premium:
		return base * 1.2
	default:
		return base
	}
}

// Quotes returns one offer per retailer for the product. The same product
// always yields the same offers.
func Quotes(p ProductRef, order SortOrder) []Offer {
	base := BasePrice(p.ID)
	term := p.Name
	if term == "" {
		term = p.ID
	}

	out := make([]Offer, 0, len(retailers))
	for _, r := range retailers {
		u := unitFloats(p.ID + "|" + r.name)
		out = append(out, Offer{
			Store:    r.name,
			Price:    roundHundred(base + r.offset),
			Discount: r.discountLo + int(math.Round(u[0]*float64(r.discountHi-r.discountLo))),
			Rating:   math.Round((r.ratingLo+u[1]*r.ratingSpan)*10) / 10,
			Reviews:  r.reviewsLo + int(u[2]*float64(r.reviewSpan)),
			InStock:  u[3] < r.stockRatio,
			Link:     searchLink(r.searchURL, term),
			LogoURL:  r.logoURL,
		})
	}

	SortOffers(out, order)
	return out
}

// SortOffers orders by ascending price, or by descending rating. Ties keep
// retailer order.
func SortOffers(offers []Offer, order SortOrder) {
	switch order {
	case SortByRating:
		sort.SliceStable(offers, func(i, j int) bool { return offers[i].Rating > offers[j].Rating })
	default:
		sort.SliceStable(offers, func(i, j int) bool { return offers[i].Price < offers[j].Price })
	}
}

func roundHundred(v float64) int64 {
	return int64(math.Round(v/100) * 100)
}

func searchLink(prefix, term string) string {
	if strings.HasSuffix(prefix, "/") {
		return prefix + url.PathEscape(term)
	}
	return prefix + url.QueryEscape(term)
}

// unitFloats expands a key into four values in [0,1).
func unitFloats(key string) [4]float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	sum := h.Sum64()

	var out [4]float64
	for i := range out {
		out[i] = float64((sum>>(16*i))&0xffff) / 65536.0
	}
	return out
}
