package toolkit

import "time"

type CheckerConfig struct {
	BaseURL  string        `json:"base_url"` // "https://adminpanel-dev-1.preview.emergentagent.com" example
	Email    string        `json:"email"`
	Password string        `json:"-"`
	Timeout  time.Duration `json:"timeout"`

	ReportPath string `json:"report_path,omitempty"`
	XLSXPath   string `json:"xlsx_path,omitempty"`
	Cleanup    bool   `json:"cleanup"`
}

// -- Failure kinds

const (
	FailureTransport     = "transport_error"
	FailureStatus        = "status_mismatch"
	FailureNotFound      = "not_found"
	FailureResponseParse = "response_parse_error"
	FailureMissingField  = "missing_field"
	FailureFixture       = "fixture_error"
)

// -- Report

type CheckReport struct {
	// Final report of one checker run. This is the main exporting struct.
	RunID     string        `json:"run_id"`
	BaseURL   string        `json:"base_url"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Aborted   bool          `json:"aborted"`
	Summary   CheckSummary  `json:"summary"`
	Results   []TestResult  `json:"results"`
}

type CheckSummary struct {
	Total       int     `json:"total"`
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

type TestResult struct {
	Name    string `json:"test"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Failure string `json:"failure_type,omitempty"`

	Method string `json:"method,omitempty"`
	Path   string `json:"path,omitempty"`
	Status int    `json:"status,omitempty"`

	LatencyMS int64 `json:"latency_ms"`
}

// Summarize counts results in order. SuccessRate is a percentage and stays
// zero for an empty run.
func Summarize(results []TestResult) CheckSummary {
	var s CheckSummary
	for _, r := range results {
		s.Total++
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Passed) / float64(s.Total) * 100
	}
	return s
}

// -- Payloads

type CategoryPayload struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type ProductPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SKU         string `json:"sku"`

	CoverImage *string  `json:"coverImage"`
	Gallery    []string `json:"gallery"`

	Price          float64 `json:"price"`
	CompareAtPrice float64 `json:"compareAtPrice"`
	SalePrice      float64 `json:"salePrice"`
	CostPrice      float64 `json:"costPrice"`
	TaxClass       string  `json:"taxClass"`

	Inventory Inventory `json:"inventory"`
	Shipping  Shipping  `json:"shipping"`

	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
	Visibility string   `json:"visibility"`
	Featured   bool     `json:"featured"`
	Badges     []string `json:"badges"`

	SEO             SEO       `json:"seo"`
	B2B             B2B       `json:"b2b"`
	Variants        []Variant `json:"variants"`
	RelatedProducts []string  `json:"relatedProducts"`
}

type Inventory struct {
	Amount              int    `json:"amount"`
	Status              string `json:"status"`
	MinQuantity         int    `json:"minQuantity,omitempty"`
	MaxQuantity         int    `json:"maxQuantity,omitempty"`
	AllowBackorder      bool   `json:"allowBackorder,omitempty"`
	BackorderMessage    string `json:"backorderMessage,omitempty"`
	StockAlertThreshold int    `json:"stockAlertThreshold,omitempty"`
}

type Shipping struct {
	Weight     float64    `json:"weight"`
	Dimensions Dimensions `json:"dimensions"`
	Class      string     `json:"class"`
}

type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}

type B2B struct {
	MOQ          int               `json:"moq"`
	BulkPricing  []BulkPrice       `json:"bulkPricing"`
	LeadTime     string            `json:"leadTime"`
	CustomFields map[string]string `json:"customFields"`
}

type BulkPrice struct {
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type Variant struct {
	ID         string            `json:"id"`
	SKU        string            `json:"sku"`
	Attributes map[string]string `json:"attributes"`
	Inventory  Inventory         `json:"inventory"`
	Price      float64           `json:"price"`
}

type ProductUpdatePayload struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Inventory   Inventory `json:"inventory"`
}
