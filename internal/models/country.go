package models

// CountryProfile is immutable reference data for the phone selector.
type CountryProfile struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Flag        string `json:"flag"`
	DialCode    string `json:"dial_code"`
	Mask        string `json:"mask"`
	Placeholder string `json:"placeholder"`
}
