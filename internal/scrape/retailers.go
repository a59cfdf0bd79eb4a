package scrape

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/flyerhub/prospektor/internal/model"
)

// retailerListSelector matches the anchors in the landing page's category
// navigation. The aggregator renders every retailer as a link inside a
// "list-unstyled categories" list.
const retailerListSelector = "ul.list-unstyled.categories a"

// Retailers extracts the retailer list from landing-page markup.
//
// Policy:
//   - anchors with a missing or malformed href are skipped with a warning
//   - duplicate URLs are de-duplicated, keeping the first occurrence
//   - zero retailers is a valid result, not an error; the caller decides
//     whether an empty landing page is fatal
//
// The returned error is non-nil only when the markup cannot be parsed at
// all or baseURL is invalid.
func Retailers(markup []byte, baseURL string) ([]model.Retailer, []model.Warning, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse landing page: %w", err)
	}

	retailers := make([]model.Retailer, 0)
	warnings := make([]model.Warning, 0)
	seen := make(map[string]bool)

	doc.Find(retailerListSelector).Each(func(_ int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.Text())

		href, ok := sel.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			warnings = append(warnings, model.Warning{
				Kind: model.WarnMissingRetailerURL,
				Shop: name,
			})
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			warnings = append(warnings, model.Warning{
				Kind:   model.WarnMissingRetailerURL,
				Shop:   name,
				Detail: href,
			})
			return
		}

		if seen[resolved] {
			return
		}
		seen[resolved] = true

		retailers = append(retailers, model.Retailer{Name: name, URL: resolved})
	})

	return retailers, warnings, nil
}

// resolveURL resolves href against base and returns an absolute URL, or
// an empty string when href is unusable. Resolving up front makes
// de-duplication reliable and spares every caller the relative/absolute
// distinction.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return base.ResolveReference(u).String()
}
