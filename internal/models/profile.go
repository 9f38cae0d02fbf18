package models

// BusinessProfile is the descriptive record printed on receipts and reports.
type BusinessProfile struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Type     string `json:"type"`
	Location string `json:"location"`
	GST      string `json:"gst"`
	Logo     string `json:"logo"`
}
