package handlers

import (
	"fmt"
	"net/http"
	"time"

	"homecare-rental/internal/config"
	"homecare-rental/internal/models"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// checkSalePayments requires the payments entered with a sale to add up to
// its amount exactly.
func checkSalePayments(amount decimal.Decimal, payments []models.CreatePaymentInput) error {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	if !sum.Equal(amount) {
		return fmt.Errorf("payments total %s does not match sale amount %s", sum.StringFixed(3), amount.StringFixed(3))
	}
	return nil
}

func CreateSale(c *gin.Context) {
	var input models.CreateSaleInput

	// 1. Validate input
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid sale input", err.Error())
		return
	}
	if err := checkSalePayments(input.Amount, input.Payments); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
		return
	}

	var patient models.Patient
	if err := config.DB.First(&patient, input.PatientID).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "patient not found", nil)
		return
	}

	status := input.Status
	if status == "" {
		status = models.StatusCompleted
	}
	sale := models.Sale{
		PatientID: input.PatientID,
		Date:      input.Date,
		Amount:    input.Amount,
		Status:    status,
		Notes:     input.Notes,
	}

	// 2. Sale, payments and sold equipment together
	now := time.Now()
	err := config.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}
		for _, in := range input.Payments {
			p := newPayment(now, in)
			p.SaleID = &sale.ID
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			sale.Payments = append(sale.Payments, p)
		}
		if len(input.DeviceIDs) > 0 {
			if err := tx.Model(&models.Device{}).Where("id IN ?", input.DeviceIDs).
				Updates(map[string]interface{}{"sale_id": sale.ID, "status": "SOLD"}).Error; err != nil {
				return err
			}
		}
		if len(input.AccessoryIDs) > 0 {
			if err := tx.Model(&models.Accessory{}).Where("id IN ?", input.AccessoryIDs).
				Update("sale_id", sale.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "CreateSale", "transaction", input.PatientID, err)
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to save sale", nil)
		return
	}

	sale.Patient = patient
	utils.APIResponse(c, http.StatusCreated, true, "sale created", sale)
}

func GetSales(c *gin.Context) {
	pid, ok := queryID(c, "patient_id")
	if !ok {
		return
	}

	var sales []models.Sale
	query := config.DB.WithContext(c.Request.Context()).
		Preload("Patient").
		Preload("Payments").
		Order("date desc")

	if pid != 0 {
		query = query.Where("patient_id = ?", pid)
	}
	if err := query.Find(&sales).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to load sales", nil)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "sales", sales)
}

// AddSalePayment records a later payment on a sale. The amount check of
// CreateSale is not repeated here.
func AddSalePayment(c *gin.Context) {
	var input models.CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid payment input", err.Error())
		return
	}

	var sale models.Sale
	if err := config.DB.First(&sale, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		notFoundOr500(c, err, "sale not found")
		return
	}

	payment := newPayment(time.Now(), input)
	payment.SaleID = &sale.ID
	if err := config.DB.Create(&payment).Error; err != nil {
		config.LogError(config.GetLogger(), "handlers", "AddSalePayment", "create payment", sale.ID, err)
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to save payment", nil)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "payment recorded", payment)
}
