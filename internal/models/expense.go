package models

import (
	"fmt"
	"strings"
)

// Method is the payment method of an expense.
type Method string

// Supported payment methods.
const (
	MethodMoney  Method = "Money"
	MethodCredit Method = "Credit"
	MethodDebit  Method = "Debit"
)

// Methods lists the payment methods in display order.
var Methods = []Method{MethodMoney, MethodCredit, MethodDebit}

// Tag categorizes an expense.
type Tag string

// Supported tags.
const (
	TagFood      Tag = "Food"
	TagLeisure   Tag = "Leisure"
	TagWork      Tag = "Work"
	TagTransport Tag = "Transport"
	TagHealth    Tag = "Health"
)

// Tags lists the expense tags in display order.
var Tags = []Tag{TagFood, TagLeisure, TagWork, TagTransport, TagHealth}

// ParseMethod matches s case-insensitively against the known methods.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// ParseTag matches s case-insensitively against the known tags.
func ParseTag(s string) (Tag, error) {
	for _, t := range Tags {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tag %q", s)
}

// Valid reports whether m is one of the known methods.
func (m Method) Valid() bool {
	for _, k := range Methods {
		if m == k {
			return true
		}
	}
	return false
}

// Valid reports whether t is one of the known tags.
func (t Tag) Valid() bool {
	for _, k := range Tags {
		if t == k {
			return true
		}
	}
	return false
}

// Draft holds the user-editable fields of an expense.
type Draft struct {
	Value       string `json:"value"`
	Currency    string `json:"currency"`
	Method      Method `json:"method"`
	Tag         Tag    `json:"tag"`
	Description string `json:"description"`
}

// Expense represents a recorded expense with the rates frozen at creation.
type Expense struct {
	ID            int          `json:"id"`
	Value         string       `json:"value"`
	Currency      string       `json:"currency"`
	Method        Method       `json:"method"`
	Tag           Tag          `json:"tag"`
	Description   string       `json:"description"`
	ExchangeRates RateSnapshot `json:"exchangeRates"`
}

// Draft returns the editable fields of e.
func (e Expense) Draft() Draft {
	return Draft{
		Value:       e.Value,
		Currency:    e.Currency,
		Method:      e.Method,
		Tag:         e.Tag,
		Description: e.Description,
	}
}

// User represents the logged-in user.
type User struct {
	Email string `json:"email"`
}
