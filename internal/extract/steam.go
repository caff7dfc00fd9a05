package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gamelink/internal/ingest"
)

const steamAppBase = "https://store.steampowered.com/app/"

// SearchHit is one Steam search result.
type SearchHit struct {
	AppID  string
	AppURL string
	Title  string
}

// SteamSearch parses a search results page in result order.
func SteamSearch(html []byte) ([]SearchHit, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse steam search: %w", err)
	}
	var hits []SearchHit
	doc.Find("#search_resultsRows a").Each(func(_ int, a *goquery.Selection) {
		id := strings.TrimSpace(a.AttrOr("data-ds-appid", ""))
		if id == "" {
			return
		}
		// bundles list several ids; the first is the primary app
		id, _, _ = strings.Cut(id, ",")
		hits = append(hits, SearchHit{
			AppID:  id,
			AppURL: steamAppBase + id,
			Title:  normSpace(a.Find(".title").First().Text()),
		})
	})
	return hits, nil
}

// SteamApp parses an app page. appURL is recorded as the row origin.
func SteamApp(html []byte, appURL string) (ingest.Row, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse steam app page: %w", err)
	}

	price := doc.Find(".game_purchase_price").First()
	if price.Length() == 0 {
		price = doc.Find(".discount_final_price").First()
	}
	row := ingest.Row{
		"title":          normSpace(doc.Find(".apphub_AppName").First().Text()),
		"app_url":        appURL,
		"price":          normSpace(price.Text()),
		"review_summary": normSpace(doc.Find(".user_reviews_summary_row .game_review_summary").First().Text()),
		"review_count":   strings.Trim(normSpace(doc.Find(".user_reviews_summary_row .responsive_hidden").First().Text()), "()"),
		"release_date":   normSpace(doc.Find(".release_date .date").First().Text()),
		"developer":      normSpace(doc.Find("#developers_list a").First().Text()),
		"publisher":      steamPublisher(doc),
	}
	if id := appIDFromURL(appURL); id != "" {
		row["app_id"] = id
	}

	var tags []string
	doc.Find(".popular_tags a").Each(func(_ int, a *goquery.Selection) {
		if tag := normSpace(a.Text()); tag != "" {
			tags = append(tags, tag)
		}
	})
	row["tags"] = strings.Join(tags, ", ")
	return row, nil
}

// steamPublisher reads the publisher row of the details block. Pages
// without labelled rows fall back to the first link after "Publisher:".
func steamPublisher(doc *goquery.Document) string {
	var publisher string
	doc.Find(".details_block .dev_row").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if strings.Contains(row.Find("b").First().Text(), "Publisher") {
			publisher = normSpace(row.Find("a").First().Text())
		}
		return publisher == ""
	})
	if publisher != "" {
		return publisher
	}

	doc.Find(".details_block").EachWithBreak(func(_ int, block *goquery.Selection) bool {
		text := block.Text()
		label := strings.Index(text, "Publisher:")
		if label < 0 {
			return true
		}
		after := text[label:]
		block.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			name := normSpace(a.Text())
			if name != "" && strings.Contains(after, a.Text()) {
				publisher = name
				return false
			}
			return true
		})
		return publisher == ""
	})
	return publisher
}

func appIDFromURL(appURL string) string {
	rest, ok := strings.CutPrefix(appURL, steamAppBase)
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, "/")
	return id
}
