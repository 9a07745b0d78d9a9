package avatax

import (
	"github.com/shopspring/decimal"
)

const (
	createTransactionPath = "/api/v2/transactions/create"
	apiVersion            = "2"
	clientLanguage        = "Go"

	documentTypeSalesOrder = "SalesOrder"
	firstLineNumber        = "1"
)

// createTransactionModel is the body of POST /api/v2/transactions/create
type createTransactionModel struct {
	Type         string         `json:"type"`
	CompanyCode  string         `json:"companyCode"`
	Date         string         `json:"date"`
	CustomerCode string         `json:"customerCode"`
	CurrencyCode string         `json:"currencyCode,omitempty"`
	Addresses    addressesModel `json:"addresses"`
	Lines        []lineItem     `json:"lines"`
	Commit       bool           `json:"commit"`
}

type addressesModel struct {
	SingleLocation addressLocation `json:"singleLocation"`
}

type addressLocation struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	Line3      string `json:"line3"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type lineItem struct {
	Number string      `json:"number"`
	Amount jsonDecimal `json:"amount"`
}

// jsonDecimal marshals as a bare JSON number instead of decimal's quoted string.
type jsonDecimal decimal.Decimal

func (d jsonDecimal) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(d).String()), nil
}

// transactionModel is the subset of the created transaction that is consumed
type transactionModel struct {
	ID       int64               `json:"id"`
	Code     string              `json:"code"`
	TotalTax decimal.NullDecimal `json:"totalTax"`
}

// errorResult is the AvaTax error envelope
type errorResult struct {
	Error *errorInfo `json:"error"`
}

type errorInfo struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Target  string         `json:"target,omitempty"`
	Details []errorDetails `json:"details,omitempty"`
}

type errorDetails struct {
	Code        string `json:"code"`
	Number      int    `json:"number"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity,omitempty"`
}

const authenticationException = "AuthenticationException"
