package app

import "fitout-erp/internal/core"

// PricedLine is one line of a price preview.
type PricedLine struct {
	ItemName string `json:"item_name"`
	core.LinePrice
}

// PricingResult is returned by PriceQuotation.
type PricingResult struct {
	Lines  []PricedLine        `json:"lines"`
	Totals core.DocumentTotals `json:"totals"`
}

// QuotationListResult is returned by ListQuotations.
type QuotationListResult struct {
	Quotations []core.Quotation `json:"quotations"`
}

// VendorsResult is returned by ListVendors.
type VendorsResult struct {
	Vendors []core.Vendor `json:"vendors"`
}

// VendorQuotesResult is returned by ListVendorQuotes.
type VendorQuotesResult struct {
	MaterialRequestID int                `json:"material_request_id"`
	Quotes            []core.VendorQuote `json:"quotes"`
}

// FileResult is a rendered document ready to be downloaded or attached.
type FileResult struct {
	Filename    string
	ContentType string
	Data        []byte
}
