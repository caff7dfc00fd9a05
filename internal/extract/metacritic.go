package extract

import (
	"bytes"
	"fmt"
	"maps"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gamelink/internal/ingest"
)

const metacriticBase = "https://www.metacritic.com"

// MetacriticListing parses a browse page into one row per product card.
// Cards without a title are skipped.
func MetacriticListing(html []byte) ([]ingest.Row, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse metacritic listing: %w", err)
	}

	var rows []ingest.Row
	doc.Find(".c-finderProductCard").Each(func(_ int, card *goquery.Selection) {
		title := normSpace(card.Find(".c-finderProductCard_title").First().Text())
		if title == "" {
			return
		}
		row := ingest.Row{
			"title":        title,
			"metascore":    normSpace(card.Find(".c-siteReviewScore").First().Text()),
			"release_date": normSpace(card.Find(".c-finderProductCard_meta span").First().Text()),
			"platform":     "PC",
		}
		if href, ok := card.Find("a.c-finderProductCard_container").First().Attr("href"); ok {
			row["url"] = resolveURL(metacriticBase, href)
		}
		rows = append(rows, row)
	})
	return rows, nil
}

// MetacriticDetail parses a game page and returns base extended with the
// developer, publisher, and genres found there. base is not modified.
func MetacriticDetail(html []byte, base ingest.Row) (ingest.Row, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse metacritic detail: %w", err)
	}

	row := maps.Clone(base)
	if row == nil {
		row = make(ingest.Row)
	}
	if dev := normSpace(doc.Find(".c-gameDetails_Developer .c-gameDetails_listItem a").First().Text()); dev != "" {
		row["developer"] = dev
	}
	if pub := normSpace(doc.Find(".c-gameDetails_Distributor a").First().Text()); pub != "" {
		row["publisher"] = pub
	}
	var genres []string
	doc.Find(".c-genreList_item .c-globalButton_label").Each(func(_ int, s *goquery.Selection) {
		if g := normSpace(s.Text()); g != "" {
			genres = append(genres, g)
		}
	})
	if len(genres) > 0 {
		row["genres"] = strings.Join(genres, ", ")
	}
	if row.Get("title") == "" {
		row["title"] = normSpace(doc.Find("div.c-productHero_title h1").First().Text())
	}
	return row, nil
}
