package series

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"StockDash/internal/domain/models"
)

// Header is the first line of the CSV export.
var Header = []string{"Date", "Open", "High", "Low", "Close", "Volume", "Dividends", "Stock Splits"}

const (
	ContentTypeCSV     = "text/csv"
	ContentTypeParquet = "application/vnd.apache.parquet"
)

// EncodeCSV writes the series as UTF-8 comma-separated text, one row per date.
func EncodeCSV(s models.NormalizedSeries) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, r := range s {
		if err := w.Write([]string{
			r.Date,
			floatStr(r.Open),
			floatStr(r.High),
			floatStr(r.Low),
			floatStr(r.Close),
			strconv.FormatInt(r.Volume, 10),
			floatStr(r.Dividends),
			floatStr(r.StockSplits),
		}); err != nil {
			return nil, fmt.Errorf("write row %s: %w", r.Date, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeCSV parses text produced by EncodeCSV.
func DecodeCSV(b []byte) (models.NormalizedSeries, error) {
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = len(Header)

	head, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if strings.Join(head, ",") != strings.Join(Header, ",") {
		return nil, fmt.Errorf("unexpected header %q", head)
	}

	var out models.NormalizedSeries
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func parseRecord(rec []string) (models.NormalizedRow, error) {
	row := models.NormalizedRow{Date: rec[0]}
	floats := []*float64{&row.Open, &row.High, &row.Low, &row.Close}
	for i, dst := range floats {
		v, err := strconv.ParseFloat(rec[i+1], 64)
		if err != nil {
			return row, fmt.Errorf("%s: %w", Header[i+1], err)
		}
		*dst = v
	}
	vol, err := strconv.ParseInt(rec[5], 10, 64)
	if err != nil {
		return row, fmt.Errorf("Volume: %w", err)
	}
	row.Volume = vol
	if row.Dividends, err = strconv.ParseFloat(rec[6], 64); err != nil {
		return row, fmt.Errorf("Dividends: %w", err)
	}
	if row.StockSplits, err = strconv.ParseFloat(rec[7], 64); err != nil {
		return row, fmt.Errorf("Stock Splits: %w", err)
	}
	return row, nil
}

// floatStr uses the shortest representation that parses back to v and always
// keeps a decimal point ("10.0").
func floatStr(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// EncodeParquet writes the series as a single Parquet file.
func EncodeParquet(s models.NormalizedSeries) ([]byte, error) {
	var buf bytes.Buffer
	if err := parquet.Write(&buf, []models.NormalizedRow(s)); err != nil {
		return nil, fmt.Errorf("write parquet: %w", err)
	}
	return buf.Bytes(), nil
}
