package response_models

type SlotAvailability struct {
	Time      string `json:"time"`
	Reserved  int64  `json:"reserved"`
	Blocked   bool   `json:"blocked"`
	Available bool   `json:"available"`
}

type ConsultationResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	IsProcessed bool   `json:"is_processed"`
}
