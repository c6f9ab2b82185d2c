package models

// Rate is one currency quote as delivered by the rates provider.
// Every field is kept as text; Ask is the price of one unit of Code in CodeIn.
type Rate struct {
	Code       string `json:"code"`
	CodeIn     string `json:"codein"`
	Name       string `json:"name"`
	High       string `json:"high,omitempty"`
	Low        string `json:"low,omitempty"`
	VarBid     string `json:"varBid,omitempty"`
	PctChange  string `json:"pctChange,omitempty"`
	Bid        string `json:"bid,omitempty"`
	Ask        string `json:"ask"`
	Timestamp  string `json:"timestamp,omitempty"`
	CreateDate string `json:"create_date,omitempty"`
}

// RateSnapshot maps a currency code to its quote against the base currency.
// A snapshot is never modified once obtained.
type RateSnapshot map[string]Rate

// Clone returns a copy of s that shares no storage with it.
func (s RateSnapshot) Clone() RateSnapshot {
	if s == nil {
		return nil
	}
	c := make(RateSnapshot, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}
