package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"homecare-rental/internal/config"
	"homecare-rental/internal/models"
	"homecare-rental/internal/timeline"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	errItemTotal     = errors.New("item total_price must equal unit_price * quantity")
	errItemReference = errors.New("device items need device_id and accessory items need accessory_id")
)

// rentalPlan is a validated rental ready to be written.
type rentalPlan struct {
	Rental models.Rental
	Groups []models.RentalGroup
	Items  []models.RentalItem
	// GroupOf maps each item to its index in Groups, -1 for ungrouped items.
	GroupOf []int
}

func planRental(in models.CreateRentalInput) (*rentalPlan, error) {
	plan := &rentalPlan{
		Rental: models.Rental{
			PatientID:      in.PatientID,
			StartDate:      in.StartDate,
			EndDate:        in.EndDate,
			Amount:         in.Amount,
			Status:         models.StatusPending,
			ReturnStatus:   models.ReturnNotReturned,
			ContractNumber: in.ContractNumber,
			Notes:          in.Notes,
		},
	}

	groupIdx := map[string]int{}
	itemsTotal := decimal.Zero
	for i, it := range in.Items {
		if !it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Equal(it.TotalPrice) {
			return nil, fmt.Errorf("item %d: %w", i+1, errItemTotal)
		}
		if (it.ItemType == models.ItemDevice && it.DeviceID == nil) ||
			(it.ItemType == models.ItemAccessory && it.AccessoryID == nil) {
			return nil, fmt.Errorf("item %d: %w", i+1, errItemReference)
		}

		g := -1
		if it.Group != "" {
			var ok bool
			if g, ok = groupIdx[it.Group]; !ok {
				g = len(plan.Groups)
				groupIdx[it.Group] = g
				plan.Groups = append(plan.Groups, models.RentalGroup{
					Name:       it.Group,
					TotalPrice: decimal.Zero,
					StartDate:  &plan.Rental.StartDate,
					EndDate:    in.EndDate,
				})
			}
			plan.Groups[g].TotalPrice = plan.Groups[g].TotalPrice.Add(it.TotalPrice)
		}

		plan.Items = append(plan.Items, models.RentalItem{
			ItemType:    it.ItemType,
			DeviceID:    it.DeviceID,
			AccessoryID: it.AccessoryID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
		plan.GroupOf = append(plan.GroupOf, g)
		itemsTotal = itemsTotal.Add(it.TotalPrice)
	}

	if plan.Rental.Amount.IsZero() {
		plan.Rental.Amount = itemsTotal
	}
	return plan, nil
}

// CreateRental stores a rental with its items and item groups.
func CreateRental(c *gin.Context) {
	var input models.CreateRentalInput

	// 1. Validate input
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid rental input", err.Error())
		return
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		utils.APIResponse(c, http.StatusBadRequest, false, "end_date is before start_date", nil)
		return
	}

	plan, err := planRental(input)
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
		return
	}

	// 2. Patient must exist
	var patient models.Patient
	if err := config.DB.First(&patient, input.PatientID).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "patient not found", nil)
		return
	}

	// 3. Rental, groups and items in one transaction
	err = config.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&plan.Rental).Error; err != nil {
			return err
		}
		for i := range plan.Groups {
			plan.Groups[i].RentalID = plan.Rental.ID
			if err := tx.Create(&plan.Groups[i]).Error; err != nil {
				return err
			}
		}
		for i := range plan.Items {
			plan.Items[i].RentalID = plan.Rental.ID
			if g := plan.GroupOf[i]; g >= 0 {
				plan.Items[i].RentalGroupID = &plan.Groups[g].ID
			}
		}
		if len(plan.Items) > 0 {
			return tx.Create(&plan.Items).Error
		}
		return nil
	})
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "CreateRental", "transaction", input.PatientID, err)
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to save rental", nil)
		return
	}

	plan.Rental.Patient = patient
	plan.Rental.RentalGroups = plan.Groups
	plan.Rental.RentalItems = plan.Items
	utils.APIResponse(c, http.StatusCreated, true, "rental created", plan.Rental)
}

func GetRentals(c *gin.Context) {
	pid, ok := queryID(c, "patient_id")
	if !ok {
		return
	}

	var rentals []models.Rental
	query := config.DB.WithContext(c.Request.Context()).
		Preload("Patient").
		Order("start_date desc")

	if pid != 0 {
		query = query.Where("patient_id = ?", pid)
	}
	if rs := c.Query("return_status"); rs != "" {
		query = query.Where("return_status = ?", rs)
	}

	if err := query.Find(&rentals).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to load rentals", nil)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "rentals", rentals)
}

func GetRental(c *gin.Context) {
	var rental models.Rental
	err := config.DB.WithContext(c.Request.Context()).
		Preload("Patient").
		Preload("Payments").
		Preload("RentalItems.Device").
		Preload("RentalItems.Accessory").
		Preload("RentalItems.Payments").
		Preload("RentalGroups.Payments").
		First(&rental, utils.StringToUint64(c.Param("id"))).Error
	if err != nil {
		notFoundOr500(c, err, "rental not found")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "rental detail", rental)
}

// ReturnRental records the equipment coming back. A RETURNED rental without an
// explicit date is stamped with the current time.
func ReturnRental(c *gin.Context) {
	var input models.ReturnRentalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid return input", err.Error())
		return
	}

	var rental models.Rental
	if err := config.DB.First(&rental, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		notFoundOr500(c, err, "rental not found")
		return
	}

	returnedAt := input.ActualReturnDate
	if returnedAt == nil && input.ReturnStatus != models.ReturnNotReturned {
		now := time.Now()
		returnedAt = &now
	}
	if input.ReturnStatus == models.ReturnNotReturned {
		returnedAt = nil
	}

	rental.ReturnStatus = input.ReturnStatus
	rental.ActualReturnDate = returnedAt
	if input.ReturnStatus == models.ReturnReturned && rental.Status == models.StatusPending {
		rental.Status = models.StatusCompleted
	}

	if err := config.DB.Model(&rental).Select("ReturnStatus", "ActualReturnDate", "Status").Updates(&rental).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to update rental", nil)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "rental return recorded", rental)
}

// newPayment turns the input into a row carrying the overdue snapshot at now.
func newPayment(now time.Time, in models.CreatePaymentInput) models.Payment {
	info := timeline.ComputeOverdue(now, timeline.PaymentDates{
		DueDate:       in.DueDate,
		OverdueDate:   in.OverdueDate,
		PeriodEndDate: in.PeriodEndDate,
		PaymentDate:   in.PaymentDate,
	})

	status := models.PaymentStatusPending
	if in.PaymentDate != nil && in.Type != models.PaymentCheque && in.Type != models.PaymentTraite {
		status = models.PaymentStatusPaid
	}

	return models.Payment{
		Amount:           in.Amount,
		Type:             in.Type,
		Status:           status,
		PaymentDate:      in.PaymentDate,
		PeriodStartDate:  in.PeriodStartDate,
		PeriodEndDate:    in.PeriodEndDate,
		DueDate:          &info.DueDate,
		OverdueDate:      &info.OverdueDate,
		IsOverdue:        info.IsOverdue,
		OverdueDays:      info.OverdueDays,
		ChequeNumber:     in.ChequeNumber,
		ChequeBank:       in.ChequeBank,
		TraiteDueDate:    in.TraiteDueDate,
		CNAMStatus:       in.CNAMStatus,
		CNAMFollowUpDate: in.CNAMFollowUpDate,
		Reference:        "PAY-" + uuid.NewString(),
		Notes:            in.Notes,
	}
}

// AddRentalPayment records a payment against a rental, optionally narrowed
// to one of its items or groups.
func AddRentalPayment(c *gin.Context) {
	var input models.CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid payment input", err.Error())
		return
	}

	var rental models.Rental
	err := config.DB.
		Preload("RentalItems").
		Preload("RentalGroups").
		First(&rental, utils.StringToUint64(c.Param("id"))).Error
	if err != nil {
		notFoundOr500(c, err, "rental not found")
		return
	}

	if input.RentalItemID != nil && !ownsItem(rental, *input.RentalItemID) {
		utils.APIResponse(c, http.StatusBadRequest, false, "rental_item_id does not belong to this rental", nil)
		return
	}
	if input.RentalGroupID != nil && !ownsGroup(rental, *input.RentalGroupID) {
		utils.APIResponse(c, http.StatusBadRequest, false, "rental_group_id does not belong to this rental", nil)
		return
	}

	payment := newPayment(time.Now(), input)
	payment.RentalID = &rental.ID
	payment.RentalItemID = input.RentalItemID
	payment.RentalGroupID = input.RentalGroupID

	if err := config.DB.Create(&payment).Error; err != nil {
		config.LogError(config.GetLogger(), "handlers", "AddRentalPayment", "create payment", rental.ID, err)
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to save payment", nil)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "payment recorded", payment)
}

func ownsItem(r models.Rental, id uint64) bool {
	for _, it := range r.RentalItems {
		if it.ID == id {
			return true
		}
	}
	return false
}

func ownsGroup(r models.Rental, id uint64) bool {
	for _, g := range r.RentalGroups {
		if g.ID == id {
			return true
		}
	}
	return false
}

func notFoundOr500(c *gin.Context, err error, notFound string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.APIResponse(c, http.StatusNotFound, false, notFound, nil)
		return
	}
	config.LogError(config.GetLogger(), "handlers", c.FullPath(), "query", c.Param("id"), err)
	utils.APIResponse(c, http.StatusInternalServerError, false, "database error", nil)
}
