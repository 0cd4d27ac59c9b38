package leads

// Field length caps applied during normalization. Text beyond the cap is
// truncated, never rejected.
const (
	maxClientLen    = 64
	maxCompanyLen   = 120
	maxNameLen      = 120
	maxFenceTypeLen = 64
	maxPhoneLen     = 40
	maxAddressLen   = 220
	maxEmailLen     = 160
	maxCreatedAtLen = 80
	maxPageURLLen   = 300
	maxWebsiteLen   = 200

	maxSegments         = 40
	maxPointsPerSegment = 200
)

// Point is a single vertex of a drawn fence segment.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Submission is a normalized lead. It is built fresh for every request,
// forwarded to the notification senders, and discarded; nothing here is
// persisted.
type Submission struct {
	Client        string `json:"client"`
	CompanyName   string `json:"companyName"`
	PushoverEmail string `json:"pushover_email"`
	Address       string `json:"address"`
	FenceType     string `json:"fenceType"`

	WalkGatesQty   int  `json:"walkGatesQty"`
	DoubleGatesQty int  `json:"doubleGatesQty"`
	RemoveOldFence bool `json:"removeOldFence"`

	TotalLinearFeet float64   `json:"totalLinearFeet"`
	SegmentsCount   int       `json:"segmentsCount"`
	Segments        [][]Point `json:"segments"`

	EstimatedMin float64 `json:"estimatedMin"`
	EstimatedMax float64 `json:"estimatedMax"`

	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`

	CreatedAt string `json:"created_at"`
	PageURL   string `json:"page_url"`

	// Website is a honeypot. Real visitors never fill it; any value
	// marks the submission as spam.
	Website string `json:"website"`
}
