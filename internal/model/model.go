package model

type ReportCategory struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Icon        *string `json:"icon,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ReportSection struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Icon         *string `json:"icon,omitempty"`
	Description  *string `json:"description,omitempty"`
	CategoryID   *int64  `json:"categoryId,omitempty"`
	CategoryName *string `json:"categoryName,omitempty"`
}

type ReportItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	SectionID   int64   `json:"sectionId"`
	SectionName string  `json:"sectionName,omitempty"`
	JendoTestID *int64  `json:"jendoTestId,omitempty"`
}

// ReportAttachment is a file uploaded against one value. Attachments are never
// edited; they go away with their value (or through the edit flow).
type ReportAttachment struct {
	ID                int64     `json:"id"`
	FileURL           string    `json:"fileUrl"`
	FileType          string    `json:"fileType"`
	UploadedAt        Timestamp `json:"uploadedAt"`
	ReportItemValueID int64     `json:"reportItemValueId"`
	DownloadURL       string    `json:"downloadUrl,omitempty"`
}

// ReportItemValue is one recorded observation for a report item.
type ReportItemValue struct {
	ID             int64              `json:"id"`
	ReportItemID   int64              `json:"reportItemId"`
	ReportItemName string             `json:"reportItemName,omitempty"`
	UserID         *int64             `json:"userId,omitempty"`
	ValueNumber    *float64           `json:"valueNumber"`
	ValueText      *string            `json:"valueText"`
	ValueDate      Timestamp          `json:"valueDate"`
	CreatedAt      Timestamp          `json:"createdAt"`
	UpdatedAt      Timestamp          `json:"updatedAt"`
	Attachments    []ReportAttachment `json:"attachments"`
}

// CreateValueRequest is the body of POST /report-item-values.
// Absent optional fields are omitted from the JSON entirely.
type CreateValueRequest struct {
	ReportItemID int64    `json:"reportItemId"`
	UserID       *int64   `json:"userId,omitempty"`
	ValueDate    string   `json:"valueDate"` // YYYY-MM-DD
	ValueNumber  *float64 `json:"valueNumber,omitempty"`
	ValueText    *string  `json:"valueText,omitempty"`
}

// UpdateValueRequest is the body of PUT /report-item-values/{id}.
// Unlike create, nil clears the field on the server, so nulls are sent explicitly.
type UpdateValueRequest struct {
	ReportItemID int64    `json:"reportItemId"`
	ValueNumber  *float64 `json:"valueNumber"`
	ValueText    *string  `json:"valueText"`
}

type User struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	BirthDate *string `json:"dateOfBirth,omitempty"`
	ImageURL  *string `json:"profileImage,omitempty"`
}

func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

type AuthResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         User   `json:"user"`
}

type ConsultationFee struct {
	ID       int64   `json:"id"`
	FeeType  string  `json:"feeType"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type Doctor struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Specialty        string            `json:"specialty"`
	Hospital         string            `json:"hospital"`
	Email            *string           `json:"email,omitempty"`
	Phone            *string           `json:"phone,omitempty"`
	Qualifications   *string           `json:"qualifications,omitempty"`
	ImageURL         *string           `json:"imageUrl,omitempty"`
	Address          *string           `json:"address,omitempty"`
	IsAvailable      *bool             `json:"isAvailable,omitempty"`
	AvailableDays    *string           `json:"availableDays,omitempty"`
	ConsultationFees []ConsultationFee `json:"consultationFees,omitempty"`
}

// Available reports the doctor as available unless the server says otherwise.
func (d Doctor) Available() bool {
	return d.IsAvailable == nil || *d.IsAvailable
}

// Page mirrors the server's pagination wrapper.
type Page[T any] struct {
	Content       []T  `json:"content"`
	PageNumber    int  `json:"pageNumber"`
	PageSize      int  `json:"pageSize"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
}

type AppointmentType string

const (
	AppointmentVideo    AppointmentType = "video"
	AppointmentAudio    AppointmentType = "audio"
	AppointmentInPerson AppointmentType = "in_person"
	AppointmentChat     AppointmentType = "chat"
)

type Appointment struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	DoctorID   int64           `json:"doctorId"`
	DoctorName string          `json:"doctorName,omitempty"`
	Date       string          `json:"date"`
	Time       string          `json:"time"`
	Type       AppointmentType `json:"type"`
	Status     string          `json:"status"`
	Notes      *string         `json:"notes,omitempty"`
	CreatedAt  Timestamp       `json:"createdAt"`
}

type BookAppointmentRequest struct {
	UserID   int64           `json:"userId"`
	DoctorID int64           `json:"doctorId"`
	Date     string          `json:"date"`
	Time     string          `json:"time"`
	Type     AppointmentType `json:"type"`
	Notes    *string         `json:"notes,omitempty"`
}

type WellnessRecommendation struct {
	ID          int64   `json:"id"`
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Content     *string `json:"content,omitempty"`
	RiskLevel   *string `json:"riskLevel,omitempty"`
	Priority    int     `json:"priority"`
}

type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	ActionURL *string   `json:"actionUrl,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}
