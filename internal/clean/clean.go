// Package clean turns raw snapshot records into an analysis-ready table:
// derived features, prices in dollars, and plain-text descriptions.
package clean

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gamescope/gamescope-collector/internal/domain"
)

// Row is one cleaned record. Unknown values render as empty CSV cells
// rather than zeroes, so downstream tooling can tell "no reviews" from
// "zero reviews".
type Row struct {
	AppID            int64
	Name             string
	ReleaseYear      *int
	MainGenre        string
	Genres           []string
	IsFree           *bool
	OriginalPriceUSD *float64
	CurrentPriceUSD  *float64
	DiscountPct      *float64
	TotalReviews     *int64
	PositiveReviews  *int64
	PositiveRatio    *float64
	OwnersProxy      *int64
	Description      string
}

// FromRecord derives a cleaned row from a raw record.
func FromRecord(rec *domain.GameRecord) Row {
	row := Row{
		AppID:           rec.AppID,
		Name:            rec.Name,
		ReleaseYear:     rec.ReleaseYear,
		Genres:          rec.Genres,
		IsFree:          rec.IsFree,
		TotalReviews:    rec.TotalReviews,
		PositiveReviews: rec.PositiveReviews,
		OwnersProxy:     rec.OwnersProxy,
		Description:     description(rec.RawDetails),
	}

	if len(rec.Genres) > 0 {
		row.MainGenre = rec.Genres[0]
	}

	if rec.OriginalPrice != nil {
		usd := float64(*rec.OriginalPrice) / 100
		row.OriginalPriceUSD = &usd
	}
	if rec.CurrentPrice != nil {
		usd := float64(*rec.CurrentPrice) / 100
		row.CurrentPriceUSD = &usd
	}
	if rec.OriginalPrice != nil && rec.CurrentPrice != nil && *rec.OriginalPrice > 0 {
		pct := 100 * float64(*rec.OriginalPrice-*rec.CurrentPrice) / float64(*rec.OriginalPrice)
		row.DiscountPct = &pct
	}

	if rec.TotalReviews != nil && rec.PositiveReviews != nil && *rec.TotalReviews > 0 {
		ratio := float64(*rec.PositiveReviews) / float64(*rec.TotalReviews)
		row.PositiveRatio = &ratio
	}

	return row
}

// Rows cleans a full record set, preserving order.
func Rows(records []domain.GameRecord) []Row {
	rows := make([]Row, len(records))
	for i := range records {
		rows[i] = FromRecord(&records[i])
	}
	return rows
}

// description pulls the short description out of the raw storefront payload
// and strips its markup. Missing or malformed payloads yield an empty string.
func description(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var payload struct {
		ShortDescription string `json:"short_description"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return htmlToMarkdown(payload.ShortDescription)
}

// csvHeader is the stable column order of the cleaned table.
var csvHeader = []string{
	"app_id",
	"name",
	"release_year",
	"main_genre",
	"genres",
	"is_free",
	"original_price_usd",
	"current_price_usd",
	"discount_pct",
	"total_reviews",
	"positive_reviews",
	"positive_ratio",
	"owners_proxy",
	"description",
}

// WriteCSV writes the cleaned table with a header row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range rows {
		if err := cw.Write(rows[i].fields()); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r *Row) fields() []string {
	return []string{
		strconv.FormatInt(r.AppID, 10),
		r.Name,
		intCell(r.ReleaseYear),
		r.MainGenre,
		strings.Join(r.Genres, ";"),
		boolCell(r.IsFree),
		floatCell(r.OriginalPriceUSD),
		floatCell(r.CurrentPriceUSD),
		floatCell(r.DiscountPct),
		int64Cell(r.TotalReviews),
		int64Cell(r.PositiveReviews),
		floatCell(r.PositiveRatio),
		int64Cell(r.OwnersProxy),
		r.Description,
	}
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func int64Cell(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}

func boolCell(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
