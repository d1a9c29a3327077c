package domain

import "time"

type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
)

// ProtectedTimeOfDay is the slot time the daily sweep never deletes.
// Afternoon inspections may still be running when the sweep fires.
const ProtectedTimeOfDay = TimeAfternoon

func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	switch TimeOfDay(s) {
	case TimeMorning, TimeAfternoon:
		return TimeOfDay(s), true
	default:
		return "", false
	}
}

// WarehouseAreas is the fixed enumeration of bonded warehouses offered for
// inspection, grouped by port area. Names are display strings and may contain
// spaces.
var WarehouseAreas = map[string][]string{
	"구항": {"성민 보세창고", "더로지스2보세창고", "백마보세창고", "백마제2보세창고", "베델로지스틱스 보세창고", "조양 보세창고"},
	"신항": {"동방 보세창고", "영진공사 보세창고", "디앤더블유보세창고", "지앤케이보세창고"},
	"남동": {"하나로 보세창고"},
}

func AllWarehouses() []string {
	var names []string
	for _, area := range WarehouseAreas {
		names = append(names, area...)
	}
	return names
}

func ValidWarehouse(name string) bool {
	for _, area := range WarehouseAreas {
		for _, w := range area {
			if w == name {
				return true
			}
		}
	}
	return false
}

// InspectionSlot is one inspector's offer of service for a bucket. The tuple
// (Date, Warehouse, TimeOfDay) identifies the bucket, not the row; any number
// of inspectors may register into the same bucket. Nickname and Email are a
// snapshot of the owning user at registration time.
type InspectionSlot struct {
	ID            int64     `json:"id"`
	Date          time.Time `json:"-"`
	Warehouse     string    `json:"warehouse"`
	TimeOfDay     TimeOfDay `json:"time"`
	Fee           int64     `json:"fee"`
	AccountNumber string    `json:"accountNumber"`
	BankName      string    `json:"bankName"`
	Nickname      string    `json:"nickname"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"-"`
}

const DateLayout = "2006-01-02"

type SlotDTO struct {
	Date          string `json:"date"`
	Warehouse     string `json:"warehouse"`
	Time          string `json:"time"`
	Fee           int64  `json:"fee"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	Nickname      string `json:"nickname"`
	Email         string `json:"email"`
}

func (s *InspectionSlot) DTO() SlotDTO {
	return SlotDTO{
		Date:          s.Date.Format(DateLayout),
		Warehouse:     s.Warehouse,
		Time:          string(s.TimeOfDay),
		Fee:           s.Fee,
		AccountNumber: s.AccountNumber,
		BankName:      s.BankName,
		Nickname:      s.Nickname,
		Email:         s.Email,
	}
}
