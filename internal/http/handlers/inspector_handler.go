package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bonselink/inspections/internal/domain"
	mw "github.com/bonselink/inspections/internal/http/middleware"
	"github.com/bonselink/inspections/internal/http/response"
	"github.com/bonselink/inspections/internal/repo/postgres"
	"github.com/bonselink/inspections/internal/schedule"
	"github.com/bonselink/inspections/internal/utils"
	"github.com/bonselink/inspections/pkg/events"
	"github.com/bonselink/inspections/pkg/logger"
)

type InspectorHandler struct {
	Slots  postgres.SlotsRepo
	Users  postgres.UsersRepo
	Events events.Publisher

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewInspectorHandler(slots postgres.SlotsRepo, users postgres.UsersRepo, bus events.Publisher) *InspectorHandler {
	return &InspectorHandler{Slots: slots, Users: users, Events: bus, Now: time.Now}
}

type registerSlotReq struct {
	Warehouse     string `json:"warehouse"`
	Time          string `json:"time"`
	Fee           int64  `json:"fee"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
}

// Register appends the caller's offer to the bucket the date rule picks:
// today's, or tomorrow's when registering at or after 18:00.
func (h *InspectorHandler) Register(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.FindByEmail(r.Context(), mw.Email(r))
	if err != nil {
		logger.ErrorContext(r.Context(), "user lookup failed", "error", err)
		response.InternalError(w, "registration failed")
		return
	}
	if u == nil {
		response.NotFound(w, "user not found")
		return
	}

	var in registerSlotReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	in.Warehouse = utils.NormalizeString(in.Warehouse)
	if in.Warehouse == "" || in.Time == "" || in.AccountNumber == "" || in.BankName == "" {
		response.BadRequest(w, "warehouse, time, accountNumber and bankName are required")
		return
	}
	if !domain.ValidWarehouse(in.Warehouse) {
		response.BadRequest(w, "unknown warehouse")
		return
	}
	timeOfDay, ok := domain.ParseTimeOfDay(in.Time)
	if !ok {
		response.BadRequest(w, "time must be 'morning' or 'afternoon'")
		return
	}
	if in.Fee < 0 {
		response.BadRequest(w, "fee must not be negative")
		return
	}

	now := h.Now()
	date := schedule.BucketDate(now)

	slot, err := h.Slots.Register(r.Context(), &domain.InspectionSlot{
		Date:          date,
		Warehouse:     in.Warehouse,
		TimeOfDay:     timeOfDay,
		Fee:           in.Fee,
		AccountNumber: in.AccountNumber,
		BankName:      in.BankName,
		Nickname:      u.Nickname,
		Email:         u.Email,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "slot insert failed", "error", err)
		response.InternalError(w, "registration failed")
		return
	}

	key := schedule.Key{Date: slot.Date, Warehouse: slot.Warehouse, TimeOfDay: slot.TimeOfDay}
	h.publish(r, events.SlotRegistered, events.SlotRegisteredEvent{
		BucketKey:    key.Encode(),
		Date:         slot.Date.Format(domain.DateLayout),
		Warehouse:    slot.Warehouse,
		TimeOfDay:    string(slot.TimeOfDay),
		Email:        slot.Email,
		RegisteredAt: now,
	})

	day := "today"
	if now.Hour() >= schedule.CutoffHour {
		day = "tomorrow"
	}
	response.JSON(w, http.StatusOK, map[string]string{
		"message": "inspection registered for " + day,
		"date":    slot.Date.Format(domain.DateLayout),
	})
}

// FindAvailable lists every offer in today's and tomorrow's bucket for a
// warehouse/time pair. Both dates are consulted so an offer registered after
// the cutoff is visible to a client still browsing "today".
func (h *InspectorHandler) FindAvailable(w http.ResponseWriter, r *http.Request) {
	warehouse := utils.NormalizeString(r.URL.Query().Get("warehouse"))
	timeParam := r.URL.Query().Get("time")
	if warehouse == "" || timeParam == "" {
		response.BadRequest(w, "warehouse and time are required")
		return
	}
	timeOfDay, ok := domain.ParseTimeOfDay(timeParam)
	if !ok {
		response.BadRequest(w, "time must be 'morning' or 'afternoon'")
		return
	}

	today, tomorrow := schedule.LookupDates(h.Now())
	slots, err := h.Slots.FindAvailable(r.Context(), warehouse, timeOfDay, today, tomorrow)
	if err != nil {
		logger.ErrorContext(r.Context(), "slot lookup failed", "error", err)
		response.InternalError(w, "lookup failed")
		return
	}

	response.JSON(w, http.StatusOK, toDTOs(slots))
}

// MyInspections lists the caller's offers across all buckets, each annotated
// with its bucket date.
func (h *InspectorHandler) MyInspections(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Slots.FindByOwner(r.Context(), mw.Email(r))
	if err != nil {
		logger.ErrorContext(r.Context(), "owner lookup failed", "error", err)
		response.InternalError(w, "lookup failed")
		return
	}

	response.JSON(w, http.StatusOK, toDTOs(slots))
}

type bucketDTO struct {
	Date      string `json:"date"`
	Warehouse string `json:"warehouse"`
	Time      string `json:"time"`
}

// AvailableWarehouses is a read-only projection of every non-empty bucket.
func (h *InspectorHandler) AvailableWarehouses(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.Slots.ListBuckets(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "bucket listing failed", "error", err)
		response.InternalError(w, "lookup failed")
		return
	}

	out := make([]bucketDTO, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, bucketDTO{
			Date:      b.Date.Format(domain.DateLayout),
			Warehouse: b.Warehouse,
			Time:      string(b.TimeOfDay),
		})
	}
	response.JSON(w, http.StatusOK, out)
}

func (h *InspectorHandler) publish(r *http.Request, subject string, data interface{}) {
	if h.Events == nil {
		return
	}
	if err := h.Events.Publish(r.Context(), subject, data); err != nil {
		logger.WarnContext(r.Context(), "event publish failed", "subject", subject, "error", err)
	}
}

func toDTOs(slots []domain.InspectionSlot) []domain.SlotDTO {
	out := make([]domain.SlotDTO, 0, len(slots))
	for i := range slots {
		out = append(out, slots[i].DTO())
	}
	return out
}
