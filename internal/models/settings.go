package models

type ChinchiroSettings struct {
	Enabled     bool      `json:"enabled"`
	Multipliers []float64 `json:"multipliers"`
	Rounding    string    `json:"rounding"` // round | floor | ceil
}

type NumberingSettings struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type StoreIdentity struct {
	Name       string `json:"name"`
	NameRomaji string `json:"nameRomaji"`
	RegisterID string `json:"registerId"`
}

type QRPrintSettings struct {
	Enabled bool   `json:"enabled"`
	Content string `json:"content"`
}

type Settings struct {
	// CatalogVersion is a client-side cache invalidation token, bumped on
	// every menu or settings mutation.
	CatalogVersion int               `json:"catalogVersion"`
	Chinchiro      ChinchiroSettings `json:"chinchiro"`
	Numbering      NumberingSettings `json:"numbering"`
	Store          StoreIdentity     `json:"store"`
	PresaleEnabled bool              `json:"presaleEnabled"`
	QRPrint        QRPrintSettings   `json:"qrPrint"`
}

func DefaultSettings() Settings {
	return Settings{
		CatalogVersion: 1,
		Chinchiro: ChinchiroSettings{
			Enabled:     true,
			Multipliers: []float64{0, 0.5, 1, 2, 3},
			Rounding:    "round",
		},
		Numbering:      NumberingSettings{Min: 1, Max: 9999},
		Store:          StoreIdentity{Name: "KDS BURGER", NameRomaji: "KDS BURGER", RegisterID: "REG-01"},
		PresaleEnabled: true,
	}
}

type Session struct {
	SessionID    string `json:"sessionId"`
	StartedAt    int64  `json:"startedAt"`
	Exported     bool   `json:"exported"`
	NextOrderSeq int    `json:"nextOrderSeq"`
}

type PrinterState struct {
	PaperOut bool `json:"paperOut"`
	Overheat bool `json:"overheat"`
	HoldJobs int  `json:"holdJobs"`
}

type SalesSummary struct {
	LastUpdated     int64 `json:"lastUpdated"`
	ConfirmedOrders int   `json:"confirmedOrders"`
	CancelledOrders int   `json:"cancelledOrders"`
	Revenue         int   `json:"revenue"`
	CancelledAmount int   `json:"cancelledAmount"`
}
