package client

import "time"

// Client is a stored credit-risk profile. Every field besides the id and the
// timestamps is independently nullable; there is no cross-field validation.
// credit_score is written by an external scoring process and only stored and
// served here.
type Client struct {
	ID int `json:"id"`

	// Identity
	Nom    *string `json:"nom"`
	Prenom *string `json:"prenom"`
	Age    *int    `json:"age"`

	// Financial behaviour features
	NumOfDelayedPayment    *float64 `json:"num_of_delayed_payment"`
	ChangedCreditLimit     *float64 `json:"changed_credit_limit"`
	NumCreditInquiries     *float64 `json:"num_credit_inquiries"`
	CreditMix              *string  `json:"credit_mix"`
	OutstandingDebt        *float64 `json:"outstanding_debt"`
	CreditUtilizationRatio *float64 `json:"credit_utilization_ratio"`
	CreditHistoryAge       *string  `json:"credit_history_age"` // raw text, display only
	CreditHistoryAgeMonths *float64 `json:"credit_history_age_months"`
	PaymentOfMinAmount     *string  `json:"payment_of_min_amount"`
	TotalEmiPerMonth       *float64 `json:"total_emi_per_month"`
	AmountInvestedMonthly  *float64 `json:"amount_invested_monthly"`
	PaymentBehaviour       *string  `json:"payment_behaviour"`
	MonthlyBalance         *float64 `json:"monthly_balance"`

	// Output, externally assigned
	CreditScore *string `json:"credit_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientPayload is the allow-listed set of writable fields for create and
// partial update. The id and the timestamps are deliberately absent: the
// request body cannot touch them.
type ClientPayload struct {
	Nom                    *string  `json:"nom"`
	Prenom                 *string  `json:"prenom"`
	Age                    *int     `json:"age"`
	NumOfDelayedPayment    *float64 `json:"num_of_delayed_payment"`
	ChangedCreditLimit     *float64 `json:"changed_credit_limit"`
	NumCreditInquiries     *float64 `json:"num_credit_inquiries"`
	CreditMix              *string  `json:"credit_mix"`
	OutstandingDebt        *float64 `json:"outstanding_debt"`
	CreditUtilizationRatio *float64 `json:"credit_utilization_ratio"`
	CreditHistoryAge       *string  `json:"credit_history_age"`
	CreditHistoryAgeMonths *float64 `json:"credit_history_age_months"`
	PaymentOfMinAmount     *string  `json:"payment_of_min_amount"`
	TotalEmiPerMonth       *float64 `json:"total_emi_per_month"`
	AmountInvestedMonthly  *float64 `json:"amount_invested_monthly"`
	PaymentBehaviour       *string  `json:"payment_behaviour"`
	MonthlyBalance         *float64 `json:"monthly_balance"`
	CreditScore            *string  `json:"credit_score"`
}

type updateField struct {
	column string
	value  interface{}
}

// updates lists the columns the payload actually carries, in a stable order.
func (p *ClientPayload) updates() []updateField {
	var u []updateField
	add := func(column string, set bool, value interface{}) {
		if set {
			u = append(u, updateField{column: column, value: value})
		}
	}

	add("nom", p.Nom != nil, p.Nom)
	add("prenom", p.Prenom != nil, p.Prenom)
	add("age", p.Age != nil, p.Age)
	add("num_of_delayed_payment", p.NumOfDelayedPayment != nil, p.NumOfDelayedPayment)
	add("changed_credit_limit", p.ChangedCreditLimit != nil, p.ChangedCreditLimit)
	add("num_credit_inquiries", p.NumCreditInquiries != nil, p.NumCreditInquiries)
	add("credit_mix", p.CreditMix != nil, p.CreditMix)
	add("outstanding_debt", p.OutstandingDebt != nil, p.OutstandingDebt)
	add("credit_utilization_ratio", p.CreditUtilizationRatio != nil, p.CreditUtilizationRatio)
	add("credit_history_age", p.CreditHistoryAge != nil, p.CreditHistoryAge)
	add("credit_history_age_months", p.CreditHistoryAgeMonths != nil, p.CreditHistoryAgeMonths)
	add("payment_of_min_amount", p.PaymentOfMinAmount != nil, p.PaymentOfMinAmount)
	add("total_emi_per_month", p.TotalEmiPerMonth != nil, p.TotalEmiPerMonth)
	add("amount_invested_monthly", p.AmountInvestedMonthly != nil, p.AmountInvestedMonthly)
	add("payment_behaviour", p.PaymentBehaviour != nil, p.PaymentBehaviour)
	add("monthly_balance", p.MonthlyBalance != nil, p.MonthlyBalance)
	add("credit_score", p.CreditScore != nil, p.CreditScore)

	return u
}

// ListFilter carries the query parameters of the list operation. Filters are
// conjunctive; empty strings mean "not set".
type ListFilter struct {
	Page        int
	PageSize    int
	CreditMix   string
	CreditScore string
	Search      string
}

// ClientPage is the list response envelope.
type ClientPage struct {
	Data       []*Client `json:"data"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}

// Statistics aggregates the table by credit score for the dashboard.
type Statistics struct {
	Total         int            `json:"total"`
	ByCreditScore map[string]int `json:"by_credit_score"`
}
