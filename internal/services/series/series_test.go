package series

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockDash/internal/domain/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleRows() []models.PriceRow {
	return []models.PriceRow{
		{Date: day(2024, 1, 2), Open: 187.151, High: 188.44, Low: 183.885, Close: 185.6401, Volume: 82488700},
		{Date: day(2024, 1, 3), Open: 184.22, High: 185.88, Low: 183.43, Close: 184.25, Volume: 58414500, Dividends: 0.24},
		{Date: day(2024, 1, 4), Open: 182.15, High: 183.0872, Low: 180.88, Close: 181.91, Volume: 71983600, StockSplits: 4},
	}
}

func TestNormalizeEmpty(t *testing.T) {
	_, err := Normalize(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = Normalize([]models.PriceRow{})
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestNormalizeSingleRowUnchanged(t *testing.T) {
	got, err := Normalize([]models.PriceRow{{Date: day(2024, 1, 2), Open: 10, High: 10, Low: 10, Close: 10, Volume: 0}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.NormalizedRow{Date: "2024-01-02", Open: 10, High: 10, Low: 10, Close: 10, Volume: 0}, got[0])
}

func TestNormalizeRoundsAndKeepsOrder(t *testing.T) {
	got, err := Normalize(sampleRows())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"2024-01-02", "2024-01-03", "2024-01-04"},
		[]string{got[0].Date, got[1].Date, got[2].Date})
	assert.Equal(t, 187.15, got[0].Open)
	assert.Equal(t, 183.89, got[0].Low)
	assert.Equal(t, 185.64, got[0].Close)
	assert.Equal(t, 183.09, got[2].High)
	assert.Equal(t, int64(82488700), got[0].Volume)
	assert.Equal(t, 0.24, got[1].Dividends)
	assert.Equal(t, 4.0, got[2].StockSplits)
}

func TestNormalizeUsesRowLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// midnight in New York is already the next day in UTC+8 but not in New York
	d := time.Date(2024, 3, 8, 0, 0, 0, 0, ny)
	got, err := Normalize([]models.PriceRow{{Date: d, Open: 1, High: 1, Low: 1, Close: 1}})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", got[0].Date)
}

func TestEncodeCSV(t *testing.T) {
	s, err := Normalize([]models.PriceRow{{Date: day(2024, 1, 2), Open: 10, High: 10.5, Low: 9.75, Close: 10.25, Volume: 1200}})
	require.NoError(t, err)

	b, err := EncodeCSV(s)
	require.NoError(t, err)
	assert.Equal(t,
		"Date,Open,High,Low,Close,Volume,Dividends,Stock Splits\n"+
			"2024-01-02,10.0,10.5,9.75,10.25,1200,0.0,0.0\n",
		string(b))
}

func TestCSVRoundTrip(t *testing.T) {
	s, err := Normalize(sampleRows())
	require.NoError(t, err)

	b, err := EncodeCSV(s)
	require.NoError(t, err)

	back, err := DecodeCSV(b)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestDecodeCSVRejectsBadInput(t *testing.T) {
	_, err := DecodeCSV([]byte("a,b,c\n"))
	assert.Error(t, err)

	_, err = DecodeCSV([]byte(strings.Join(Header, ",") + "\n2024-01-02,x,1,1,1,1,0.0,0.0\n"))
	assert.ErrorContains(t, err, "Open")
}

func TestParquetRoundTrip(t *testing.T) {
	s, err := Normalize(sampleRows())
	require.NoError(t, err)

	b, err := EncodeParquet(s)
	require.NoError(t, err)

	rows, err := parquet.Read[models.NormalizedRow](bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	assert.Equal(t, []models.NormalizedRow(s), rows)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, models.DirectionUp, Classify(models.NormalizedRow{Open: 10, Close: 10}))
	assert.Equal(t, models.DirectionUp, Classify(models.NormalizedRow{Open: 10, Close: 11}))
	assert.Equal(t, models.DirectionDown, Classify(models.NormalizedRow{Open: 10, Close: 9.99}))

	s, err := Normalize(sampleRows())
	require.NoError(t, err)
	assert.Equal(t, []models.Direction{models.DirectionDown, models.DirectionUp, models.DirectionDown}, Directions(s))
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "AAPL_historical_data_1_year.csv", ExportFilename("AAPL", "1 Year", "csv"))
	assert.Equal(t, "MSFT_historical_data_3_months.parquet", ExportFilename("MSFT", "3 Months", "parquet"))
}
