package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type AnalyzeRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=16"`
	Period string `query:"period" json:"period" default:"1y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y"`
	Chart  string `query:"chart" json:"chart" default:"candlestick" validate:"oneof=candlestick line"`
}

type ValidateRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=16"`
}

type ExportRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=16"`
	Period string `query:"period" json:"period" default:"1y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y"`
	Format string `query:"format" json:"format" default:"csv" validate:"oneof=csv parquet"`
}
